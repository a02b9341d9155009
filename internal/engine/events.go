package engine

import "github.com/qi-principal/Package-machine/internal/model"

// EventKind tags the events a run emits.
type EventKind int

const (
	// EventStatus carries a human-readable status line.
	EventStatus EventKind = iota
	// EventProgress carries a percentage in [0, 100].
	EventProgress
	// EventDone carries the full result aggregate. It is terminal.
	EventDone
	// EventError carries the error that aborted the run. It is terminal.
	EventError
)

// Event is one message from a classification run to its caller.
// Events arrive in order on a single channel; exactly one terminal
// event (Done or Error) is emitted per run, and nothing follows it.
type Event struct {
	Results  map[string]model.ClassificationResult
	Err      error
	Status   string
	Kind     EventKind
	Progress int
}

// Terminal reports whether no further events will follow this one.
func (e Event) Terminal() bool {
	return e.Kind == EventDone || e.Kind == EventError
}
