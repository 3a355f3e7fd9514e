package control

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"presider/internal/core/model"
	"presider/internal/core/rotation"
	"presider/internal/core/timekeeper"
	"presider/internal/storage"
)

// ErrUnknownCommand indicates a command type the console does not handle.
var ErrUnknownCommand = errors.New("unknown command")

// View is everything the UI renders.
type View struct {
	Mode            timekeeper.Mode
	Running         bool
	Remaining       string
	Cue             string
	QuestionsUsed   int
	QuestionChunk   string
	Settings        model.TimerSettings
	NextSpeech      string
	AffCount        int
	NegCount        int
	Line            string
	Chamber         rotation.ChamberType
	AuthorshipGiven bool
	Names           model.Names
}

// Console wraps the timer engine and rotation tracker with persistence.
type Console struct {
	mu      sync.Mutex
	store   storage.Store
	engine  *timekeeper.Engine
	tracker rotation.State
	names   model.Names
}

// Open restores persisted state from store and builds the console.
// Unreadable records are logged and replaced by defaults.
func Open(ctx context.Context, store storage.Store, options timekeeper.Config) *Console {
	settings, err := storage.LoadTimerSettings(ctx, store)
	if err != nil {
		log.Warn().Err(err).Str("record", storage.TimerSettingsKey).Msg("using default timer settings")
	}
	tracker, err := storage.LoadTrackerState(ctx, store)
	if err != nil {
		log.Warn().Err(err).Str("record", storage.TrackerStateKey).Msg("using default tracker state")
	}
	names, err := storage.LoadNames(ctx, store)
	if err != nil {
		log.Warn().Err(err).Str("record", storage.NamesKey).Msg("ignoring stored names")
	}

	return &Console{
		store:   store,
		engine:  timekeeper.New(settings, options),
		tracker: tracker,
		names:   names,
	}
}

// Engine exposes the timer engine for event subscription.
func (console *Console) Engine() *timekeeper.Engine {
	return console.engine
}

// Dispatch executes a single command.
func (console *Console) Dispatch(ctx context.Context, command Command) error {
	log.Debug().Str("command", command.Type.String()).Msg("dispatch")

	switch command.Type {
	case CmdStart:
		console.engine.Start()
	case CmdPause:
		console.engine.Pause()
	case CmdReset:
		console.engine.Reset()
	case CmdSetMode:
		console.engine.SetMode(command.Mode)
	case CmdAdvanceQuestioner:
		console.engine.AdvanceQuestioner()
	case CmdApplySettings:
		settings := model.ParseSettings(command.Settings, console.engine.Settings())
		console.saveTimerSettings(ctx, console.engine.ApplySettings(settings))
	case CmdResetSettings:
		console.saveTimerSettings(ctx, console.engine.ApplySettings(model.DefaultTimerSettings()))
	case CmdApplyPreset:
		console.saveTimerSettings(ctx, console.engine.ApplyPreset(command.PresetSec))
	case CmdSetNextSide:
		console.updateTracker(ctx, func(state rotation.State) rotation.State {
			return state.SetNextSide(command.Side)
		})
	case CmdMarkSpeechGiven:
		console.updateTracker(ctx, rotation.State.MarkSpeechGiven)
	case CmdResetBill:
		console.updateTracker(ctx, rotation.State.ResetBill)
	case CmdSetChamberType:
		console.updateTracker(ctx, func(state rotation.State) rotation.State {
			return state.SetChamberType(command.Chamber)
		})
	case CmdSetAuthorshipGiven:
		console.updateTracker(ctx, func(state rotation.State) rotation.State {
			return state.SetAuthorshipGiven(command.Authorship)
		})
	case CmdSetNames:
		console.updateNames(ctx, command.Names)
	default:
		return fmt.Errorf("dispatch %d: %w", command.Type, ErrUnknownCommand)
	}
	return nil
}

// View renders the current state.
func (console *Console) View() View {
	timer, settings := console.engine.SnapshotWithSettings()

	console.mu.Lock()
	tracker := console.tracker
	names := console.names
	console.mu.Unlock()

	announcement := tracker.Render()
	return View{
		Mode:            timer.Mode,
		Running:         timer.Running,
		Remaining:       timekeeper.FormatRemaining(timer.Remaining),
		Cue:             timer.Cue.Text,
		QuestionsUsed:   timer.QuestionsUsed,
		QuestionChunk:   timekeeper.FormatRemaining(settings.QuestionDuration()),
		Settings:        settings,
		NextSpeech:      announcement.NextSpeech,
		AffCount:        announcement.AffCount,
		NegCount:        announcement.NegCount,
		Line:            announcement.Line,
		Chamber:         tracker.Chamber,
		AuthorshipGiven: tracker.AuthorshipGiven,
		Names:           names,
	}
}

// Close stops the engine.
func (console *Console) Close() {
	console.engine.Stop()
}

func (console *Console) updateTracker(ctx context.Context, transition func(rotation.State) rotation.State) {
	console.mu.Lock()
	defer console.mu.Unlock()
	console.tracker = transition(console.tracker)
	if err := storage.SaveTrackerState(ctx, console.store, console.tracker); err != nil {
		log.Error().Err(err).Msg("save tracker state")
	}
}

func (console *Console) updateNames(ctx context.Context, names model.Names) {
	console.mu.Lock()
	defer console.mu.Unlock()
	console.names = names.Trimmed()
	if err := storage.SaveNames(ctx, console.store, console.names); err != nil {
		log.Error().Err(err).Msg("save names")
	}
}

func (console *Console) saveTimerSettings(ctx context.Context, settings model.TimerSettings) {
	if err := storage.SaveTimerSettings(ctx, console.store, settings); err != nil {
		log.Error().Err(err).Msg("save timer settings")
	}
}
