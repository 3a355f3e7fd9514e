package timekeeper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presider/internal/core/model"
)

func tickN(state State, settings model.TimerSettings, count int) (State, []string) {
	var cues []string
	for i := 0; i < count; i++ {
		var result TickResult
		state, result = state.Tick(settings, DefaultTickInterval)
		cues = append(cues, result.Cues...)
	}
	return state, cues
}

func TestNewStateStartsPausedSpeech(t *testing.T) {
	state := NewState(model.DefaultTimerSettings())

	assert.Equal(t, ModeSpeech, state.Mode)
	assert.False(t, state.Running)
	assert.Equal(t, 180*time.Second, state.Total)
	assert.Equal(t, state.Total, state.Remaining)
	assert.Empty(t, state.Cue.Text)
}

func TestSetModeThenResetRestoresFullDuration(t *testing.T) {
	for _, seconds := range []int{1, 30, 45, 180, 600} {
		settings := model.DefaultTimerSettings()
		settings.SpeechDurationSec = seconds
		settings.QuestionDurationSec = seconds

		for _, mode := range []Mode{ModeSpeech, ModeQuestion} {
			state := NewState(settings).Start()
			state, _ = tickN(state, settings, 3)
			state = state.SetMode(settings, mode).Reset(settings)

			want := time.Duration(seconds) * time.Second
			assert.Equal(t, want, state.Total, "mode %s, %ds", mode, seconds)
			assert.Equal(t, want, state.Remaining, "mode %s, %ds", mode, seconds)
			assert.False(t, state.Running)
		}
	}
}

func TestStartAndPauseAreIdempotent(t *testing.T) {
	state := NewState(model.DefaultTimerSettings())

	assert.True(t, state.Start().Start().Running)
	assert.False(t, state.Pause().Running)
	assert.False(t, state.Start().Pause().Pause().Running)
}

func TestTickIgnoredWhilePaused(t *testing.T) {
	settings := model.DefaultTimerSettings()
	state := NewState(settings)

	next, result := state.Tick(settings, DefaultTickInterval)

	assert.Equal(t, state, next)
	assert.Equal(t, TickResult{}, result)
}

func TestTickingFullDurationExpiresAndPauses(t *testing.T) {
	settings := model.DefaultTimerSettings()
	settings.SpeechCuesSec = []int{0, 0, 0}
	state := NewState(settings).Start()

	ticks := int(state.Total / DefaultTickInterval)
	state, _ = tickN(state, settings, ticks-1)
	require.True(t, state.Running)

	state, result := state.Tick(settings, DefaultTickInterval)
	assert.True(t, result.Expired)
	assert.True(t, result.Flash())
	assert.Equal(t, time.Duration(0), state.Remaining)
	assert.False(t, state.Running)
	assert.Equal(t, CueExpired, state.Cue.Text)
}

func TestSpeechCueScenario(t *testing.T) {
	settings := model.DefaultTimerSettings()
	state := NewState(settings).Start()

	state, cues := tickN(state, settings, 600)
	assert.Equal(t, CueSingleTap, state.Cue.Text, "after 120s")
	assert.Equal(t, []string{CueSingleTap}, cues)

	state, cues = tickN(state, settings, 150)
	assert.Equal(t, CueDoubleTap, state.Cue.Text, "after 150s")
	assert.Equal(t, []string{CueDoubleTap}, cues)

	state, cues = tickN(state, settings, 150)
	assert.Equal(t, []string{CueFinalTap}, cues)
	assert.Equal(t, CueExpired, state.Cue.Text, "after 180s")
	assert.False(t, state.Running)
	assert.Equal(t, time.Duration(0), state.Remaining)
}

func TestCueFiresAtRoundedElapsedSecond(t *testing.T) {
	settings := model.DefaultTimerSettings()
	settings.SpeechDurationSec = 10
	settings.SpeechCuesSec = []int{1, 0, 0}
	state := NewState(settings).Start()

	state, cues := tickN(state, settings, 2)
	assert.Empty(t, cues)

	// 600ms elapsed rounds to one second.
	state, cues = tickN(state, settings, 1)
	assert.Equal(t, []string{CueSingleTap}, cues)
	assert.Equal(t, 9400*time.Millisecond, state.Remaining)

	_, cues = tickN(state, settings, 10)
	assert.Empty(t, cues, "a cue fires once per countdown")
}

func TestOffsetsSharingASecondAllFire(t *testing.T) {
	settings := model.DefaultTimerSettings()
	settings.SpeechDurationSec = 10
	settings.SpeechCuesSec = []int{2, 2, 0}
	state := NewState(settings).Start()
	before := state.Cue.Generation

	state, cues := tickN(state, settings, 10)

	assert.Equal(t, []string{CueSingleTap, CueDoubleTap}, cues)
	assert.Equal(t, CueDoubleTap, state.Cue.Text)
	assert.Equal(t, before+2, state.Cue.Generation)
}

func TestDisabledSpeechCuesAreSkippedWhenCountingPositions(t *testing.T) {
	settings := model.DefaultTimerSettings()
	settings.SpeechDurationSec = 10
	settings.SpeechCuesSec = []int{0, 2, 4}
	state := NewState(settings).Start()

	_, cues := tickN(state, settings, 25)

	assert.Equal(t, []string{CueSingleTap, CueDoubleTap}, cues)
}

func TestQuestionCue(t *testing.T) {
	settings := model.DefaultTimerSettings()
	settings.QuestionCueSec = 10
	state := NewState(settings).SetMode(settings, ModeQuestion).Start()

	state, cues := tickN(state, settings, 50)
	assert.Equal(t, []string{CueQuestionTap}, cues)
	assert.Equal(t, CueQuestionTap, state.Cue.Text)

	settings.QuestionCueSec = 0
	state = state.Reset(settings).Start()
	_, cues = tickN(state, settings, 149)
	assert.Empty(t, cues, "disabled question cue")
}

func TestAdvanceQuestioner(t *testing.T) {
	settings := model.DefaultTimerSettings()

	t.Run("counts and restarts regardless of running state", func(t *testing.T) {
		for _, running := range []bool{true, false} {
			state := NewState(settings).SetMode(settings, ModeQuestion)
			if running {
				state = state.Start()
			}
			for n := 1; n <= 4; n++ {
				state, _ = tickN(state, settings, 7)
				state = state.AdvanceQuestioner(settings)

				assert.Equal(t, n, state.QuestionsUsed)
				assert.Equal(t, 30*time.Second, state.Remaining)
				assert.Equal(t, 30*time.Second, state.Total)
				assert.Equal(t, running, state.Running)
			}
		}
	})

	t.Run("clears the active cue", func(t *testing.T) {
		state := NewState(settings).SetMode(settings, ModeQuestion)
		state = state.raiseCue(CueQuestionTap)

		state = state.AdvanceQuestioner(settings)
		assert.Empty(t, state.Cue.Text)
	})

	t.Run("no-op in speech mode", func(t *testing.T) {
		state, _ := tickN(NewState(settings).Start(), settings, 5)

		assert.Equal(t, state, state.AdvanceQuestioner(settings))
	})
}

func TestSetModeResetsQuestionBlock(t *testing.T) {
	settings := model.DefaultTimerSettings()
	state := NewState(settings).SetMode(settings, ModeQuestion)
	state = state.AdvanceQuestioner(settings).AdvanceQuestioner(settings)
	require.Equal(t, 2, state.QuestionsUsed)

	state = state.SetMode(settings, ModeQuestion)
	assert.Equal(t, 0, state.QuestionsUsed)

	state = state.AdvanceQuestioner(settings).Reset(settings)
	assert.Equal(t, 0, state.QuestionsUsed)

	assert.Equal(t, state, state.SetMode(settings, Mode("debate")))
}

func TestApplySettings(t *testing.T) {
	settings := model.DefaultTimerSettings()
	updated := settings
	updated.SpeechDurationSec = 240

	t.Run("paused countdown reloads", func(t *testing.T) {
		state := NewState(settings).ApplySettings(updated)
		assert.Equal(t, 240*time.Second, state.Remaining)
		assert.Equal(t, 240*time.Second, state.Total)
	})

	t.Run("running countdown is left alone", func(t *testing.T) {
		state, _ := tickN(NewState(settings).Start(), settings, 10)
		next := state.ApplySettings(updated)
		assert.Equal(t, state, next)
	})
}

func TestApplyPresetOnlyAffectsSpeech(t *testing.T) {
	settings := model.DefaultTimerSettings()
	settings.SpeechDurationSec = 300

	state, _ := tickN(NewState(model.DefaultTimerSettings()).Start(), settings, 10)
	state = state.ApplyPreset(settings)
	assert.Equal(t, 300*time.Second, state.Remaining)
	assert.True(t, state.Running)

	question := NewState(settings).SetMode(settings, ModeQuestion)
	assert.Equal(t, question, question.ApplyPreset(settings))
}

func TestClearCueIgnoresStaleGeneration(t *testing.T) {
	state := NewState(model.DefaultTimerSettings()).raiseCue(CueSingleTap)
	stale := state.Cue.Generation
	state = state.raiseCue(CueDoubleTap)

	next, cleared := state.ClearCue(stale)
	assert.False(t, cleared)
	assert.Equal(t, CueDoubleTap, next.Cue.Text)

	next, cleared = state.ClearCue(state.Cue.Generation)
	assert.True(t, cleared)
	assert.Empty(t, next.Cue.Text)
}
