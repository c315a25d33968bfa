package labeling

// Event names a session state change
type Event int

const (
	EventOpened Event = iota
	EventDecided
	EventUndone
	EventCompleted
)

func (e Event) String() string {
	switch e {
	case EventOpened:
		return "opened"
	case EventDecided:
		return "decided"
	case EventUndone:
		return "undone"
	case EventCompleted:
		return "completed"
	}
	return "unknown"
}

// Observer is notified after every session state change.
// Observers react to changes; they do not mutate the session.
type Observer interface {
	SessionChanged(e Event)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(e Event)

// SessionChanged calls f(e)
func (f ObserverFunc) SessionChanged(e Event) {
	f(e)
}
