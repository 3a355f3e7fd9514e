package timekeeper

import (
	"time"

	"presider/internal/core/model"
)

// DefaultTickInterval is the reference tick cadence.
const DefaultTickInterval = 200 * time.Millisecond

// CueDisplayDuration is how long a raised cue stays visible.
const CueDisplayDuration = 3 * time.Second

const noSecond = -1

// CueToken is the active cue text plus the generation that raised it.
// An auto-clear only applies while its captured generation is still current.
type CueToken struct {
	Text       string
	Generation uint64
}

// Active reports whether a cue is displayed.
func (token CueToken) Active() bool {
	return token.Text != ""
}

// State is the countdown state owned by a single engine.
type State struct {
	Mode          Mode
	Total         time.Duration
	Remaining     time.Duration
	Running       bool
	LastSecond    int
	QuestionsUsed int
	Cue           CueToken
}

// TickResult describes what a single tick produced.
type TickResult struct {
	SecondChanged bool
	Cues          []string
	Expired       bool
}

// Flash reports whether the display should be highlighted.
func (result TickResult) Flash() bool {
	return result.Expired || len(result.Cues) > 0
}

// NewState returns a paused speech countdown at full duration.
func NewState(settings model.TimerSettings) State {
	state := State{Mode: ModeSpeech}
	return state.reload(settings)
}

// Start marks the countdown as running. Starting a running countdown is a no-op.
func (state State) Start() State {
	state.Running = true
	return state
}

// Pause stops a running countdown.
func (state State) Pause() State {
	state.Running = false
	return state
}

// Reset restores the full duration for the current mode and pauses.
func (state State) Reset(settings model.TimerSettings) State {
	state.Running = false
	state.Cue.Text = ""
	if state.Mode == ModeQuestion {
		state.QuestionsUsed = 0
	}
	return state.reload(settings)
}

// SetMode switches countdowns, pausing and clearing the cue.
func (state State) SetMode(settings model.TimerSettings, mode Mode) State {
	if !mode.Valid() {
		return state
	}
	state.Running = false
	state.Cue.Text = ""
	state.Mode = mode
	if mode == ModeQuestion {
		state.QuestionsUsed = 0
	}
	return state.reload(settings)
}

// AdvanceQuestioner counts a questioner and restarts the question countdown
// without touching the running flag. Outside question mode it is a no-op.
func (state State) AdvanceQuestioner(settings model.TimerSettings) State {
	if state.Mode != ModeQuestion {
		return state
	}
	state.QuestionsUsed++
	state.Cue.Text = ""
	return state.reload(settings)
}

// ApplySettings reloads durations from settings unless the countdown is running.
func (state State) ApplySettings(settings model.TimerSettings) State {
	if state.Running {
		return state
	}
	if state.Mode == ModeQuestion {
		state.QuestionsUsed = 0
	}
	return state.reload(settings)
}

// ApplyPreset reloads the speech countdown after a preset changed its duration.
// A running speech countdown restarts from the preset.
func (state State) ApplyPreset(settings model.TimerSettings) State {
	if state.Mode != ModeSpeech {
		return state
	}
	return state.reload(settings)
}

// Tick advances a running countdown by interval.
func (state State) Tick(settings model.TimerSettings, interval time.Duration) (State, TickResult) {
	var result TickResult
	if !state.Running {
		return state, result
	}

	state.Remaining -= interval
	if state.Remaining <= 0 {
		state.Remaining = 0
		state.Running = false
		state = state.raiseCue(CueExpired)
		result.Expired = true
		return state, result
	}

	currentSecond := roundSeconds(state.Remaining)
	if currentSecond == state.LastSecond {
		return state, result
	}
	state.LastSecond = currentSecond
	result.SecondChanged = true

	elapsed := roundSeconds(state.Total - state.Remaining)
	switch state.Mode {
	case ModeSpeech:
		for index, cue := range settings.ActiveSpeechCues() {
			if elapsed != cue {
				continue
			}
			text := speechCueText(index)
			state = state.raiseCue(text)
			result.Cues = append(result.Cues, text)
		}
	case ModeQuestion:
		if settings.QuestionCueSec > 0 && elapsed == settings.QuestionCueSec {
			state = state.raiseCue(CueQuestionTap)
			result.Cues = append(result.Cues, CueQuestionTap)
		}
	}
	return state, result
}

// ClearCue removes the cue raised by generation. Stale generations are ignored.
func (state State) ClearCue(generation uint64) (State, bool) {
	if !state.Cue.Active() || state.Cue.Generation != generation {
		return state, false
	}
	state.Cue.Text = ""
	return state, true
}

func (state State) raiseCue(text string) State {
	state.Cue.Generation++
	state.Cue.Text = text
	return state
}

func (state State) reload(settings model.TimerSettings) State {
	if state.Mode == ModeQuestion {
		state.Total = settings.QuestionDuration()
	} else {
		state.Total = settings.SpeechDuration()
	}
	state.Remaining = state.Total
	state.LastSecond = noSecond
	return state
}

func speechCueText(index int) string {
	switch index {
	case 0:
		return CueSingleTap
	case 1:
		return CueDoubleTap
	default:
		return CueFinalTap
	}
}

func roundSeconds(value time.Duration) int {
	if value < 0 {
		value = 0
	}
	return int((value + 500*time.Millisecond) / time.Second)
}
