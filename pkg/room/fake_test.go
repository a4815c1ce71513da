package room

import (
	"errors"
	"fmt"
	"testing"

	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"
)

var errRemote = errors.New("M_FORBIDDEN: you shall not pass")

type fakeOwner struct {
	me        id.UserID
	forgotten []id.RoomID
	rooms     map[id.RoomID]*Room
}

func (o *fakeOwner) UserID() id.UserID { return o.me }

func (o *fakeOwner) ForgetRoom(roomID id.RoomID) {
	o.forgotten = append(o.forgotten, roomID)
	delete(o.rooms, roomID)
}

// fakeAdmin answers from its fields. fail makes the named operation return
// a ProtocolError.
type fakeAdmin struct {
	calls []string
	fail  map[string]bool

	members     []*Member
	state       []*event.Event
	name        string
	topic       string
	alias       id.RoomAlias
	powerLevels map[string]interface{}
	written     map[string]interface{}
	profile     *Profile
	setProfile  *Profile
	page        *Page
	pageFrom    string
	sent        []interface{}
	accountData map[string]interface{}
	tags        map[string]map[string]interface{}
}

func newFakeAdmin() *fakeAdmin {
	return &fakeAdmin{
		fail:        make(map[string]bool),
		accountData: make(map[string]interface{}),
		tags:        make(map[string]map[string]interface{}),
	}
}

func (f *fakeAdmin) call(op string, roomID id.RoomID) error {
	f.calls = append(f.calls, op)
	if f.fail[op] {
		return &ProtocolError{Op: op, RoomID: roomID, Err: errRemote}
	}

	return nil
}

func (f *fakeAdmin) count(op string) int {
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}

	return n
}

func (f *fakeAdmin) JoinedMembers(roomID id.RoomID) ([]*Member, error) {
	if err := f.call("members", roomID); err != nil {
		return nil, err
	}

	return f.members, nil
}

func (f *fakeAdmin) RoomState(roomID id.RoomID) ([]*event.Event, error) {
	if err := f.call("state", roomID); err != nil {
		return nil, err
	}

	return f.state, nil
}

func (f *fakeAdmin) Name(roomID id.RoomID) (string, error) {
	if err := f.call("name", roomID); err != nil {
		return "", err
	}

	return f.name, nil
}

func (f *fakeAdmin) SetName(roomID id.RoomID, name string) error {
	if err := f.call("setname", roomID); err != nil {
		return err
	}

	f.name = name

	return nil
}

func (f *fakeAdmin) Topic(roomID id.RoomID) (string, error) {
	if err := f.call("topic", roomID); err != nil {
		return "", err
	}

	return f.topic, nil
}

func (f *fakeAdmin) SetTopic(roomID id.RoomID, topic string) error {
	return f.call("settopic", roomID)
}

func (f *fakeAdmin) CanonicalAlias(roomID id.RoomID) (id.RoomAlias, error) {
	if err := f.call("canonicalalias", roomID); err != nil {
		return "", err
	}

	return f.alias, nil
}

func (f *fakeAdmin) AddAlias(roomID id.RoomID, alias id.RoomAlias) error {
	return f.call("addalias", roomID)
}

func (f *fakeAdmin) SetJoinRule(roomID id.RoomID, rule JoinPolicy) error {
	return f.call("joinrule", roomID)
}

func (f *fakeAdmin) SetGuestAccess(roomID id.RoomID, access GuestPolicy) error {
	return f.call("guestaccess", roomID)
}

func (f *fakeAdmin) PowerLevels(roomID id.RoomID) (map[string]interface{}, error) {
	if err := f.call("powerlevels", roomID); err != nil {
		return nil, err
	}

	return f.powerLevels, nil
}

func (f *fakeAdmin) SetPowerLevels(roomID id.RoomID, doc map[string]interface{}) error {
	if err := f.call("setpowerlevels", roomID); err != nil {
		return err
	}

	f.written = doc

	return nil
}

func (f *fakeAdmin) Invite(roomID id.RoomID, userID id.UserID) error {
	return f.call("invite", roomID)
}

func (f *fakeAdmin) Kick(roomID id.RoomID, userID id.UserID, reason string) error {
	return f.call("kick", roomID)
}

func (f *fakeAdmin) Ban(roomID id.RoomID, userID id.UserID, reason string) error {
	return f.call("ban", roomID)
}

func (f *fakeAdmin) Unban(roomID id.RoomID, userID id.UserID) error {
	return f.call("unban", roomID)
}

func (f *fakeAdmin) Leave(roomID id.RoomID) error {
	return f.call("leave", roomID)
}

func (f *fakeAdmin) Membership(roomID id.RoomID, userID id.UserID) (*Profile, error) {
	if err := f.call("membership", roomID); err != nil {
		return nil, err
	}

	return f.profile, nil
}

func (f *fakeAdmin) SetMembership(roomID id.RoomID, userID id.UserID, profile *Profile) error {
	if err := f.call("setmembership", roomID); err != nil {
		return err
	}

	f.setProfile = profile

	return nil
}

func (f *fakeAdmin) Messages(roomID id.RoomID, from string, dir rune, limit int) (*Page, error) {
	if err := f.call("messages", roomID); err != nil {
		return nil, err
	}

	f.pageFrom = from

	events := f.page.Events
	if len(events) > limit {
		events = events[:limit]
	}

	return &Page{Events: events, Start: from, End: f.page.End}, nil
}

func (f *fakeAdmin) SendMessageEvent(roomID id.RoomID, eventType event.Type, content interface{}) (id.EventID, error) {
	if err := f.call("send", roomID); err != nil {
		return "", err
	}

	f.sent = append(f.sent, content)

	return id.EventID(fmt.Sprintf("$sent%d", len(f.sent))), nil
}

func (f *fakeAdmin) Redact(roomID id.RoomID, eventID id.EventID, reason string) error {
	return f.call("redact", roomID)
}

func (f *fakeAdmin) RoomAccountData(userID id.UserID, roomID id.RoomID, dataType string, out interface{}) error {
	if err := f.call("accountdata", roomID); err != nil {
		return err
	}

	if m, ok := out.(*map[string]interface{}); ok {
		if data, ok := f.accountData[dataType].(map[string]interface{}); ok {
			*m = data
		}
	}

	return nil
}

func (f *fakeAdmin) SetRoomAccountData(userID id.UserID, roomID id.RoomID, dataType string, data interface{}) error {
	if err := f.call("setaccountdata", roomID); err != nil {
		return err
	}

	f.accountData[dataType] = data

	return nil
}

func (f *fakeAdmin) Tags(userID id.UserID, roomID id.RoomID) (map[string]Tag, error) {
	if err := f.call("tags", roomID); err != nil {
		return nil, err
	}

	tags := make(map[string]Tag, len(f.tags))
	for name, content := range f.tags {
		var tag Tag
		if order, ok := content["order"].(float64); ok {
			tag.Order = &order
		}
		tags[name] = tag
	}

	return tags, nil
}

func (f *fakeAdmin) AddTag(userID id.UserID, roomID id.RoomID, tag string, content map[string]interface{}) error {
	if err := f.call("addtag", roomID); err != nil {
		return err
	}

	f.tags[tag] = content

	return nil
}

func (f *fakeAdmin) RemoveTag(userID id.UserID, roomID id.RoomID, tag string) error {
	if err := f.call("removetag", roomID); err != nil {
		return err
	}

	delete(f.tags, tag)

	return nil
}

const testRoomID = id.RoomID("!room:example.org")

func newTestRoom(t *testing.T, seed Seed) (*Room, *fakeAdmin, *fakeOwner) {
	t.Helper()

	admin := newFakeAdmin()
	owner := &fakeOwner{me: "@me:example.org", rooms: make(map[id.RoomID]*Room)}

	r, err := New(owner, admin, testRoomID, seed, nil)
	if err != nil {
		t.Fatal(err)
	}

	owner.rooms[testRoomID] = r

	return r, admin, owner
}

func stateEvent(evType, stateKey string, content map[string]interface{}) *event.Event {
	return &event.Event{
		ID:       id.EventID("$" + evType + stateKey),
		Type:     event.Type{Type: evType, Class: event.StateEventType},
		StateKey: &stateKey,
		Sender:   "@someone:example.org",
		Content:  event.Content{Raw: content},
	}
}

func messageEvent(n int) *event.Event {
	return &event.Event{
		ID:      id.EventID(fmt.Sprintf("$E%d", n)),
		Type:    event.EventMessage,
		Sender:  "@someone:example.org",
		Content: event.Content{Raw: map[string]interface{}{"msgtype": "m.text", "body": fmt.Sprintf("message %d", n)}},
	}
}

func eventIDs(recs []Record) []id.EventID {
	ids := make([]id.EventID, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID())
	}

	return ids
}
