package tui

import (
	"github.com/lamim/imglabel/internal/export"
	"github.com/lamim/imglabel/internal/labeling"
)

type statusLevel int

const (
	levelInfo statusLevel = iota
	levelSuccess
	levelWarning
	levelError
)

// ExportFinishedMsg carries the outcome of an asynchronous export
type ExportFinishedMsg struct {
	Result *export.Result
	Err    error
}

// ViewerFinishedMsg is sent when the external image viewer exits
type ViewerFinishedMsg struct {
	Err error
}

// eventQueue collects session events between two updates
type eventQueue struct {
	events []labeling.Event
}

func (q *eventQueue) SessionChanged(e labeling.Event) {
	q.events = append(q.events, e)
}

func (q *eventQueue) drain() []labeling.Event {
	events := q.events
	q.events = nil
	return events
}
