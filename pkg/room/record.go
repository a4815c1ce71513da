package room

import (
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"
)

// Record is one inbound event together with the room it arrived in. The
// event is not modified.
type Record struct {
	roomID id.RoomID
	ev     *event.Event
}

func NewRecord(roomID id.RoomID, ev *event.Event) Record {
	return Record{roomID: roomID, ev: ev}
}

func (r Record) RoomID() id.RoomID {
	return r.roomID
}

func (r Record) Event() *event.Event {
	return r.ev
}

func (r Record) ID() id.EventID {
	return r.ev.ID
}

// Type returns the event type string, e.g. "m.room.message".
func (r Record) Type() string {
	return r.ev.Type.Type
}

func (r Record) Sender() id.UserID {
	return r.ev.Sender
}

func (r Record) IsState() bool {
	return r.ev.StateKey != nil
}

func (r Record) StateKey() string {
	if r.ev.StateKey == nil {
		return ""
	}

	return *r.ev.StateKey
}
