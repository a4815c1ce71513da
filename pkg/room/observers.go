package room

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ListenerKind int

const (
	AllEvents ListenerKind = iota
	StateEvents
	EphemeralEvents
)

func (k ListenerKind) String() string {
	switch k {
	case AllEvents:
		return "all"
	case StateEvents:
		return "state"
	case EphemeralEvents:
		return "ephemeral"
	}

	return "unknown"
}

type Listener func(rec Record)

type listener struct {
	id        string
	eventType string
	fn        Listener
}

// Observers keeps the three listener lists of a room.
type Observers struct {
	lists [3][]listener
	log   *logrus.Entry
}

func NewObservers(log *logrus.Entry) *Observers {
	return &Observers{log: log}
}

// Add registers fn for events of the given kind. An empty eventType matches
// every event. The returned id is used to remove the listener again.
func (o *Observers) Add(kind ListenerKind, fn Listener, eventType string) string {
	if fn == nil || !kind.valid() {
		return ""
	}

	l := listener{
		id:        uuid.NewString(),
		eventType: eventType,
		fn:        fn,
	}
	o.lists[kind] = append(o.lists[kind], l)

	return l.id
}

func (o *Observers) Remove(kind ListenerKind, listenerID string) bool {
	if !kind.valid() {
		return false
	}

	for i, l := range o.lists[kind] {
		if l.id == listenerID {
			o.lists[kind] = append(o.lists[kind][:i:i], o.lists[kind][i+1:]...)
			return true
		}
	}

	return false
}

func (o *Observers) Len(kind ListenerKind) int {
	if !kind.valid() {
		return 0
	}

	return len(o.lists[kind])
}

// Dispatch calls every matching listener in registration order.
func (o *Observers) Dispatch(kind ListenerKind, rec Record) {
	if !kind.valid() {
		return
	}

	// listeners may add or remove listeners while we iterate
	for _, l := range append([]listener(nil), o.lists[kind]...) {
		if l.eventType != "" && l.eventType != rec.Type() {
			continue
		}

		o.call(kind, l, rec)
	}
}

func (o *Observers) call(kind ListenerKind, l listener, rec Record) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Errorf("%s listener %s panicked on %s: %v", kind, l.id, rec.ID(), r)
		}
	}()

	l.fn(rec)
}

func (k ListenerKind) valid() bool {
	return k >= AllEvents && k <= EphemeralEvents
}
