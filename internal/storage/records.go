package storage

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"presider/internal/core/model"
	"presider/internal/core/rotation"
)

// Record keys.
const (
	TimerSettingsKey = "timer_settings"
	TrackerStateKey  = "tracker_state"
	NamesKey         = "names"
)

type yamlTimerSettings struct {
	SpeechDurationSec   int   `yaml:"speech_duration_sec"`
	QuestionDurationSec int   `yaml:"question_duration_sec"`
	SpeechCuesSec       []int `yaml:"speech_cues_sec"`
	QuestionCueSec      *int  `yaml:"question_cue_sec"`
}

type yamlTrackerState struct {
	ChamberType     string `yaml:"chamber_type"`
	AuthorshipGiven bool   `yaml:"authorship_given"`
	AffCount        int    `yaml:"aff_count"`
	NegCount        int    `yaml:"neg_count"`
	NextSide        string `yaml:"next_side"`
}

type yamlNames struct {
	Chamber    string `yaml:"chamber"`
	Tournament string `yaml:"tournament"`
}

// LoadTimerSettings reads timer settings from store.
// Default settings are returned when the record is missing or malformed; the
// error reports why a present record was ignored.
func LoadTimerSettings(ctx context.Context, store Store) (model.TimerSettings, error) {
	settings := model.DefaultTimerSettings()
	var fileData yamlTimerSettings
	found, err := loadRecord(ctx, store, TimerSettingsKey, &fileData)
	if err != nil || !found {
		return settings, err
	}
	applyYamlTimerSettings(&settings, fileData)
	return settings, nil
}

// SaveTimerSettings writes timer settings to store.
func SaveTimerSettings(ctx context.Context, store Store, settings model.TimerSettings) error {
	questionCue := settings.QuestionCueSec
	return saveRecord(ctx, store, TimerSettingsKey, yamlTimerSettings{
		SpeechDurationSec:   settings.SpeechDurationSec,
		QuestionDurationSec: settings.QuestionDurationSec,
		SpeechCuesSec:       settings.SpeechCuesSec,
		QuestionCueSec:      &questionCue,
	})
}

// LoadTrackerState reads the rotation state from store, falling back to the
// default state the same way LoadTimerSettings does.
func LoadTrackerState(ctx context.Context, store Store) (rotation.State, error) {
	state := rotation.DefaultState()
	var fileData yamlTrackerState
	found, err := loadRecord(ctx, store, TrackerStateKey, &fileData)
	if err != nil || !found {
		return state, err
	}
	applyYamlTrackerState(&state, fileData)
	return state, nil
}

// SaveTrackerState writes the rotation state to store.
func SaveTrackerState(ctx context.Context, store Store, state rotation.State) error {
	return saveRecord(ctx, store, TrackerStateKey, yamlTrackerState{
		ChamberType:     string(state.Chamber),
		AuthorshipGiven: state.AuthorshipGiven,
		AffCount:        state.AffCount,
		NegCount:        state.NegCount,
		NextSide:        string(state.NextSide),
	})
}

// LoadNames reads the display names verbatim.
func LoadNames(ctx context.Context, store Store) (model.Names, error) {
	var fileData yamlNames
	found, err := loadRecord(ctx, store, NamesKey, &fileData)
	if err != nil || !found {
		return model.Names{}, err
	}
	return model.Names{Chamber: fileData.Chamber, Tournament: fileData.Tournament}, nil
}

// SaveNames writes the display names.
func SaveNames(ctx context.Context, store Store, names model.Names) error {
	return saveRecord(ctx, store, NamesKey, yamlNames{
		Chamber:    names.Chamber,
		Tournament: names.Tournament,
	})
}

func loadRecord(ctx context.Context, store Store, key string, target any) (bool, error) {
	rawData, err := store.Load(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := yaml.Unmarshal(rawData, target); err != nil {
		return false, fmt.Errorf("parse %s yaml: %w", key, err)
	}
	return true, nil
}

func saveRecord(ctx context.Context, store Store, key string, value any) error {
	serialized, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s yaml: %w", key, err)
	}
	return store.Save(ctx, key, serialized)
}

func applyYamlTimerSettings(settings *model.TimerSettings, fileData yamlTimerSettings) {
	if fileData.SpeechDurationSec > 0 {
		settings.SpeechDurationSec = fileData.SpeechDurationSec
	}
	if fileData.QuestionDurationSec > 0 {
		settings.QuestionDurationSec = fileData.QuestionDurationSec
	}
	if fileData.SpeechCuesSec != nil {
		settings.SpeechCuesSec = fileData.SpeechCuesSec
	}
	if fileData.QuestionCueSec != nil {
		settings.QuestionCueSec = *fileData.QuestionCueSec
	}
	*settings = settings.Normalized(model.DefaultTimerSettings())
}

func applyYamlTrackerState(state *rotation.State, fileData yamlTrackerState) {
	if chamber := rotation.ChamberType(fileData.ChamberType); chamber.Valid() {
		state.Chamber = chamber
	}
	if side := rotation.Side(fileData.NextSide); side.Valid() {
		state.NextSide = side
	}
	if fileData.AffCount > 0 {
		state.AffCount = fileData.AffCount
	}
	if fileData.NegCount > 0 {
		state.NegCount = fileData.NegCount
	}
	state.AuthorshipGiven = fileData.AuthorshipGiven
}
