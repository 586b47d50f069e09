package storage

import "sync"

// Table maps handles to payloads and notifies observers of lifecycle events.
type Table struct {
	backend   *LocalBackend
	observers []Observer
	obsMu     sync.RWMutex
}

func NewTable() *Table {
	return &Table{
		backend: NewLocalBackend(),
	}
}

// Insert adds a payload and returns its handle.
func (t *Table) Insert(class string, value any) Handle {
	handle := t.backend.Create(class, value)

	t.notify(Event{
		Type:   EventCreated,
		Handle: handle,
		Class:  class,
		Value:  value,
	})

	return handle
}

// Get retrieves a payload by handle.
func (t *Table) Get(handle Handle) (any, bool) {
	return t.backend.Get(handle)
}

// GetClass retrieves a payload only if it was inserted for class.
func (t *Table) GetClass(handle Handle, class string) (any, bool) {
	actual, ok := t.backend.Class(handle)
	if !ok || actual != class {
		return nil, false
	}
	return t.backend.Get(handle)
}

// Remove drops a payload, calling Drop on it if it implements Dropper.
func (t *Table) Remove(handle Handle) (any, bool) {
	class, _ := t.backend.Class(handle)
	value, ok := t.backend.Drop(handle)
	if !ok {
		return nil, false
	}

	if d, ok := value.(Dropper); ok {
		d.Drop()
	}

	t.notify(Event{
		Type:   EventDropped,
		Handle: handle,
		Class:  class,
		Value:  value,
	})

	return value, true
}

func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Len returns the number of live payloads.
func (t *Table) Len() int {
	return t.backend.Len()
}

// Count returns the number of live payloads of a class.
func (t *Table) Count(class string) int {
	n := 0
	t.backend.Each(func(_ Handle, c string, _ any) bool {
		if c == class {
			n++
		}
		return true
	})
	return n
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	observers := append([]Observer(nil), t.observers...)
	t.obsMu.RUnlock()
	for _, o := range observers {
		o.OnStorageEvent(e)
	}
}
