package timekeeper

import "time"

// Mode selects which countdown the engine runs.
type Mode string

const (
	ModeSpeech   Mode = "speech"
	ModeQuestion Mode = "question"
)

// Valid reports whether the mode is known.
func (mode Mode) Valid() bool {
	return mode == ModeSpeech || mode == ModeQuestion
}

// Cue texts shown to the presiding officer.
const (
	CueSingleTap   = "Tap gavel once."
	CueDoubleTap   = "Tap gavel twice."
	CueFinalTap    = "Final tap."
	CueQuestionTap = "Tap gavel for question time."
	CueExpired     = "Time elapsed"
)

// EventType defines the type of engine event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
	EventCue         EventType = "cue"
	EventCueCleared  EventType = "cue_cleared"
	EventExpired     EventType = "expired"
)

// Event represents an engine update for observers.
type Event struct {
	Type      EventType
	Mode      Mode
	Running   bool
	Remaining time.Duration
	Cue       string
	Flash     bool
	At        time.Time
}
