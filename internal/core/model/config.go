package model

import (
	"strconv"
	"strings"
	"time"
)

// MaxSpeechCues is the number of configurable speech cue offsets.
const MaxSpeechCues = 3

// MaxDurationSec caps durations and cue offsets at one day.
const MaxDurationSec = 24 * 60 * 60

// TimerSettings contains the persisted countdown configuration.
// Cue offsets are elapsed seconds since the countdown started; zero disables a cue.
type TimerSettings struct {
	SpeechDurationSec   int
	QuestionDurationSec int
	SpeechCuesSec       []int
	QuestionCueSec      int
}

// DefaultTimerSettings returns the compiled-in timer configuration.
func DefaultTimerSettings() TimerSettings {
	return TimerSettings{
		SpeechDurationSec:   180,
		QuestionDurationSec: 30,
		SpeechCuesSec:       []int{120, 150, 180},
		QuestionCueSec:      30,
	}
}

// SpeechDuration returns the speech countdown length.
func (settings TimerSettings) SpeechDuration() time.Duration {
	return time.Duration(settings.SpeechDurationSec) * time.Second
}

// QuestionDuration returns the question countdown length.
func (settings TimerSettings) QuestionDuration() time.Duration {
	return time.Duration(settings.QuestionDurationSec) * time.Second
}

// ActiveSpeechCues returns the enabled speech cues in configured order.
func (settings TimerSettings) ActiveSpeechCues() []int {
	cues := make([]int, 0, len(settings.SpeechCuesSec))
	for _, cue := range settings.SpeechCuesSec {
		if cue > 0 {
			cues = append(cues, cue)
		}
	}
	return cues
}

// Normalized returns a copy that is safe to hand to the engine.
// Durations outside 1..MaxDurationSec fall back to fallback (or to the
// defaults when fallback is out of range too), cue lists are padded or cut to
// MaxSpeechCues and out-of-range offsets are disabled.
func (settings TimerSettings) Normalized(fallback TimerSettings) TimerSettings {
	defaults := DefaultTimerSettings()
	settings.SpeechDurationSec = inRangeOr(settings.SpeechDurationSec,
		inRangeOr(fallback.SpeechDurationSec, defaults.SpeechDurationSec))
	settings.QuestionDurationSec = inRangeOr(settings.QuestionDurationSec,
		inRangeOr(fallback.QuestionDurationSec, defaults.QuestionDurationSec))
	settings.QuestionCueSec = inRangeOr(settings.QuestionCueSec, 0)

	cues := make([]int, MaxSpeechCues)
	for index := 0; index < MaxSpeechCues && index < len(settings.SpeechCuesSec); index++ {
		cues[index] = inRangeOr(settings.SpeechCuesSec[index], 0)
	}
	settings.SpeechCuesSec = cues
	return settings
}

// SettingsInput holds raw text entered in the settings form.
type SettingsInput struct {
	SpeechDuration   string
	SpeechCues       [MaxSpeechCues]string
	QuestionDuration string
	QuestionCue      string
}

// InputFromSettings renders settings back into form text. Disabled cues render empty.
func InputFromSettings(settings TimerSettings) SettingsInput {
	input := SettingsInput{
		SpeechDuration:   strconv.Itoa(settings.SpeechDurationSec),
		QuestionDuration: strconv.Itoa(settings.QuestionDurationSec),
		QuestionCue:      optionalInt(settings.QuestionCueSec),
	}
	for index := 0; index < MaxSpeechCues && index < len(settings.SpeechCuesSec); index++ {
		input.SpeechCues[index] = optionalInt(settings.SpeechCuesSec[index])
	}
	return input
}

// ParseSettings converts form input into settings. Invalid durations keep the
// value from previous; invalid cue offsets disable the cue.
func ParseSettings(input SettingsInput, previous TimerSettings) TimerSettings {
	previous = previous.Normalized(DefaultTimerSettings())
	settings := TimerSettings{
		SpeechDurationSec:   previous.SpeechDurationSec,
		QuestionDurationSec: previous.QuestionDurationSec,
		SpeechCuesSec:       make([]int, MaxSpeechCues),
	}

	if seconds, ok := parsePositiveInt(input.SpeechDuration); ok {
		settings.SpeechDurationSec = seconds
	}
	if seconds, ok := parsePositiveInt(input.QuestionDuration); ok {
		settings.QuestionDurationSec = seconds
	}
	for index, raw := range input.SpeechCues {
		if seconds, ok := parsePositiveInt(raw); ok {
			settings.SpeechCuesSec[index] = seconds
		}
	}
	if seconds, ok := parsePositiveInt(input.QuestionCue); ok {
		settings.QuestionCueSec = seconds
	}
	return settings
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || !secondsInRange(parsed) {
		return 0, false
	}
	return parsed, true
}

func secondsInRange(seconds int) bool {
	return seconds > 0 && seconds <= MaxDurationSec
}

func inRangeOr(seconds, fallback int) int {
	if secondsInRange(seconds) {
		return seconds
	}
	return fallback
}

func optionalInt(value int) string {
	if value <= 0 {
		return ""
	}
	return strconv.Itoa(value)
}

// Names are free-text labels shown alongside the console.
type Names struct {
	Chamber    string
	Tournament string
}

// Trimmed returns names with surrounding whitespace removed.
func (names Names) Trimmed() Names {
	return Names{
		Chamber:    strings.TrimSpace(names.Chamber),
		Tournament: strings.TrimSpace(names.Tournament),
	}
}
