package room

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestObserversFilterByType(t *testing.T) {
	o := NewObservers(logrus.NewEntry(logrus.New()))

	var all, messages, names []string

	o.Add(AllEvents, func(rec Record) { all = append(all, rec.Type()) }, "")
	o.Add(AllEvents, func(rec Record) { messages = append(messages, rec.Type()) }, "m.room.message")
	o.Add(StateEvents, func(rec Record) { names = append(names, rec.Type()) }, "m.room.name")

	o.Dispatch(AllEvents, NewRecord(testRoomID, messageEvent(1)))
	o.Dispatch(AllEvents, NewRecord(testRoomID, stateEvent("m.room.name", "", map[string]interface{}{"name": "x"})))
	o.Dispatch(StateEvents, NewRecord(testRoomID, stateEvent("m.room.name", "", map[string]interface{}{"name": "x"})))

	assert.Equal(t, []string{"m.room.message", "m.room.name"}, all)
	assert.Equal(t, []string{"m.room.message"}, messages)
	assert.Equal(t, []string{"m.room.name"}, names)
}

func TestObserversRemove(t *testing.T) {
	o := NewObservers(logrus.NewEntry(logrus.New()))

	calls := 0
	listenerID := o.Add(EphemeralEvents, func(Record) { calls++ }, "")

	assert.NotEmpty(t, listenerID)
	assert.False(t, o.Remove(AllEvents, listenerID), "ids are scoped to their list")
	assert.True(t, o.Remove(EphemeralEvents, listenerID))
	assert.False(t, o.Remove(EphemeralEvents, listenerID))

	o.Dispatch(EphemeralEvents, NewRecord(testRoomID, messageEvent(1)))
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, o.Len(EphemeralEvents))
}

func TestObserversPanicDoesNotStopDispatch(t *testing.T) {
	logger, hook := test.NewNullLogger()
	o := NewObservers(logrus.NewEntry(logger))

	called := false

	o.Add(AllEvents, func(Record) { panic("boom") }, "")
	o.Add(AllEvents, func(Record) { called = true }, "")

	o.Dispatch(AllEvents, NewRecord(testRoomID, messageEvent(1)))

	assert.True(t, called)
	if assert.Len(t, hook.Entries, 1) {
		assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	}
}

func TestObserversListenerMayRemoveItself(t *testing.T) {
	o := NewObservers(logrus.NewEntry(logrus.New()))

	var listenerID string

	calls := 0
	listenerID = o.Add(AllEvents, func(Record) {
		calls++
		o.Remove(AllEvents, listenerID)
	}, "")

	o.Dispatch(AllEvents, NewRecord(testRoomID, messageEvent(1)))
	o.Dispatch(AllEvents, NewRecord(testRoomID, messageEvent(2)))

	assert.Equal(t, 1, calls)
}

func TestObserversRejectNil(t *testing.T) {
	o := NewObservers(logrus.NewEntry(logrus.New()))

	assert.Empty(t, o.Add(AllEvents, nil, ""))
	assert.Empty(t, o.Add(ListenerKind(7), func(Record) {}, ""))
}
