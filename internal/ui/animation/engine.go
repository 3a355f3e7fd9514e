package animation

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Config contains flash timing values.
type Config struct {
	FlashDuration time.Duration
	Clock         clockwork.Clock
}

// DefaultConfig returns the display flash timing.
func DefaultConfig() Config {
	return Config{
		FlashDuration: 300 * time.Millisecond,
	}
}

// Engine highlights the timer display for a short moment.
// A new flash cancels the one in progress.
type Engine struct {
	mu           sync.Mutex
	config       Config
	setHighlight func(bool)
	cancel       context.CancelFunc
	done         chan struct{}
}

// New creates a flash engine. setHighlight is called from the engine goroutine.
func New(config Config, setHighlight func(bool)) *Engine {
	if config.FlashDuration <= 0 {
		config.FlashDuration = DefaultConfig().FlashDuration
	}
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}
	return &Engine{
		config:       config,
		setHighlight: setHighlight,
	}
}

// Flash turns the highlight on and off again after FlashDuration.
func (engine *Engine) Flash(ctx context.Context) {
	engine.start(ctx, func(runCtx context.Context) {
		engine.setHighlight(true)
		sleepWithContext(runCtx, engine.config.Clock, engine.config.FlashDuration)
		engine.setHighlight(false)
	})
}

// Stop terminates any active flash and waits for it to finish.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	cancel := engine.cancel
	done := engine.done
	engine.cancel = nil
	engine.done = nil
	engine.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (engine *Engine) start(parent context.Context, run func(context.Context)) {
	engine.Stop()

	engine.mu.Lock()
	runCtx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	engine.cancel = cancel
	engine.done = done
	engine.mu.Unlock()

	go func() {
		defer close(done)
		run(runCtx)
	}()
}

func sleepWithContext(ctx context.Context, clock clockwork.Clock, duration time.Duration) bool {
	timer := clock.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
