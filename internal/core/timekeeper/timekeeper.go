package timekeeper

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"presider/internal/core/model"
)

// Config contains runtime options for the Engine.
type Config struct {
	TickInterval time.Duration
	Clock        clockwork.Clock
	// ManualTick disables the internal tick driver; the caller invokes Tick.
	ManualTick bool
}

// Engine owns the countdown state and drives it on a fixed tick.
type Engine struct {
	mu         sync.Mutex
	settings   model.TimerSettings
	options    Config
	state      State
	events     []chan Event
	driverStop chan struct{}
	cueTimer   clockwork.Timer
	closed     bool
}

// New creates a paused engine in speech mode at full duration.
func New(settings model.TimerSettings, options Config) *Engine {
	if options.TickInterval <= 0 || options.TickInterval > time.Second {
		options.TickInterval = DefaultTickInterval
	}
	if options.Clock == nil {
		options.Clock = clockwork.NewRealClock()
	}
	settings = settings.Normalized(model.DefaultTimerSettings())
	return &Engine{
		settings: settings,
		options:  options,
		state:    NewState(settings),
	}
}

// Subscribe registers a new observer channel.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	if engine.closed {
		close(ch)
	} else {
		engine.events = append(engine.events, ch)
	}
	engine.mu.Unlock()
	return ch
}

// Snapshot returns a copy of the current state.
func (engine *Engine) Snapshot() State {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.state
}

// Settings returns the active timer settings.
func (engine *Engine) Settings() model.TimerSettings {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return cloneSettings(engine.settings)
}

// SnapshotWithSettings returns the state and the settings it was derived from,
// read under one lock.
func (engine *Engine) SnapshotWithSettings() (State, model.TimerSettings) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.state, cloneSettings(engine.settings)
}

// Start begins ticking. Starting a running engine is a no-op.
func (engine *Engine) Start() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || engine.state.Running {
		return
	}
	engine.state = engine.state.Start()
	engine.startDriverLocked()
	engine.emitLocked(EventStateChange, false)
}

// Pause stops ticking.
func (engine *Engine) Pause() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !engine.state.Running {
		return
	}
	engine.state = engine.state.Pause()
	engine.stopDriverLocked()
	engine.emitLocked(EventStateChange, false)
}

// Reset restores the full duration of the current mode.
func (engine *Engine) Reset() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.stopDriverLocked()
	engine.cancelCueTimerLocked()
	engine.state = engine.state.Reset(engine.settings)
	engine.emitLocked(EventStateChange, false)
}

// SetMode switches between speech and question countdowns.
func (engine *Engine) SetMode(mode Mode) {
	if !mode.Valid() {
		return
	}
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.stopDriverLocked()
	engine.cancelCueTimerLocked()
	engine.state = engine.state.SetMode(engine.settings, mode)
	engine.emitLocked(EventStateChange, false)
}

// AdvanceQuestioner starts the next questioner's countdown in question mode.
func (engine *Engine) AdvanceQuestioner() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.state.Mode != ModeQuestion {
		return
	}
	engine.cancelCueTimerLocked()
	engine.state = engine.state.AdvanceQuestioner(engine.settings)
	engine.emitLocked(EventStateChange, true)
}

// ApplySettings replaces the timer settings and returns the stored values.
// Invalid durations keep their previous value. A running countdown finishes
// with its current duration.
func (engine *Engine) ApplySettings(settings model.TimerSettings) model.TimerSettings {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.settings = settings.Normalized(engine.settings)
	engine.state = engine.state.ApplySettings(engine.settings)
	engine.emitLocked(EventStateChange, false)
	return cloneSettings(engine.settings)
}

// ApplyPreset sets the speech duration and returns the stored settings.
func (engine *Engine) ApplyPreset(seconds int) model.TimerSettings {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if seconds <= 0 || seconds > model.MaxDurationSec {
		return cloneSettings(engine.settings)
	}
	engine.settings.SpeechDurationSec = seconds
	engine.state = engine.state.ApplyPreset(engine.settings)
	engine.emitLocked(EventStateChange, false)
	return cloneSettings(engine.settings)
}

// Tick advances the countdown by one tick interval.
func (engine *Engine) Tick() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.tickLocked()
}

// Stop terminates the tick driver and closes observers.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	engine.closed = true
	engine.state = engine.state.Pause()
	engine.stopDriverLocked()
	engine.cancelCueTimerLocked()
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (engine *Engine) startDriverLocked() {
	if engine.options.ManualTick || engine.driverStop != nil {
		return
	}
	stop := make(chan struct{})
	engine.driverStop = stop
	ticker := engine.options.Clock.NewTicker(engine.options.TickInterval)
	go engine.run(ticker, stop)
}

func (engine *Engine) stopDriverLocked() {
	if engine.driverStop == nil {
		return
	}
	close(engine.driverStop)
	engine.driverStop = nil
}

func (engine *Engine) run(ticker clockwork.Ticker, stop chan struct{}) {
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			engine.mu.Lock()
			if engine.driverStop == stop {
				engine.tickLocked()
			}
			engine.mu.Unlock()
		}
	}
}

func (engine *Engine) tickLocked() {
	if !engine.state.Running {
		return
	}
	var result TickResult
	engine.state, result = engine.state.Tick(engine.settings, engine.options.TickInterval)

	switch {
	case result.Expired:
		engine.stopDriverLocked()
		engine.scheduleCueClearLocked()
		engine.emitLocked(EventExpired, result.Flash())
	case len(result.Cues) > 0:
		engine.scheduleCueClearLocked()
		engine.emitLocked(EventCue, result.Flash())
	case result.SecondChanged:
		engine.emitLocked(EventProgress, false)
	}
}

func (engine *Engine) scheduleCueClearLocked() {
	engine.cancelCueTimerLocked()
	generation := engine.state.Cue.Generation
	engine.cueTimer = engine.options.Clock.AfterFunc(CueDisplayDuration, func() {
		engine.expireCue(generation)
	})
}

func (engine *Engine) cancelCueTimerLocked() {
	if engine.cueTimer == nil {
		return
	}
	engine.cueTimer.Stop()
	engine.cueTimer = nil
}

func (engine *Engine) expireCue(generation uint64) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	var cleared bool
	engine.state, cleared = engine.state.ClearCue(generation)
	if !cleared {
		return
	}
	engine.cueTimer = nil
	engine.emitLocked(EventCueCleared, false)
}

func (engine *Engine) emitLocked(eventType EventType, flash bool) {
	event := Event{
		Type:      eventType,
		Mode:      engine.state.Mode,
		Running:   engine.state.Running,
		Remaining: engine.state.Remaining,
		Cue:       engine.state.Cue.Text,
		Flash:     flash,
		At:        engine.options.Clock.Now(),
	}
	for _, ch := range engine.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func cloneSettings(settings model.TimerSettings) model.TimerSettings {
	settings.SpeechCuesSec = append([]int(nil), settings.SpeechCuesSec...)
	return settings
}
