package storage

// Handle is an opaque reference to a payload in a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// EventType identifies a payload lifecycle notification.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Event represents a payload lifecycle event.
type Event struct {
	Value  any
	Class  string
	Handle Handle
	Type   EventType
}

// Observer receives notifications about payload lifecycle events.
type Observer interface {
	OnStorageEvent(Event)
}

// Dropper is optionally implemented by payloads that need cleanup when their
// host object is destroyed.
type Dropper interface {
	Drop()
}
