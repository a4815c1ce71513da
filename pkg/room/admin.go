package room

import (
	"errors"
	"fmt"

	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"
)

var (
	ErrEmptyRoomID = errors.New("room: empty room id")
	ErrNotJoined   = errors.New("room: can't set profile if you have not joined the room")
)

// ProtocolError is returned by an Administration when the remote call failed
// (network, auth or rejected by the server).
type ProtocolError struct {
	Op     string
	RoomID id.RoomID
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.RoomID == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}

	return fmt.Sprintf("%s %s: %s", e.Op, e.RoomID, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

func IsProtocolError(err error) bool {
	var perr *ProtocolError
	return errors.As(err, &perr)
}

// Page is one chunk of room history as returned by the server, newest first
// when paginating backwards.
type Page struct {
	Events []*event.Event
	Start  string
	End    string
}

// Profile is the m.room.member content of one user in one room.
type Profile struct {
	Membership  event.Membership `json:"membership"`
	Displayname string           `json:"displayname,omitempty"`
	AvatarURL   string           `json:"avatar_url,omitempty"`
	Reason      string           `json:"reason,omitempty"`
}

// Tag is the content of a single room tag.
type Tag struct {
	Order *float64 `json:"order,omitempty"`
}

// Administration is the protocol layer a Room talks to. Every call blocks
// until the server answered.
type Administration interface {
	JoinedMembers(roomID id.RoomID) ([]*Member, error)
	RoomState(roomID id.RoomID) ([]*event.Event, error)

	Name(roomID id.RoomID) (string, error)
	SetName(roomID id.RoomID, name string) error
	Topic(roomID id.RoomID) (string, error)
	SetTopic(roomID id.RoomID, topic string) error
	CanonicalAlias(roomID id.RoomID) (id.RoomAlias, error)
	AddAlias(roomID id.RoomID, alias id.RoomAlias) error
	SetJoinRule(roomID id.RoomID, rule JoinPolicy) error
	SetGuestAccess(roomID id.RoomID, access GuestPolicy) error

	PowerLevels(roomID id.RoomID) (map[string]interface{}, error)
	SetPowerLevels(roomID id.RoomID, doc map[string]interface{}) error

	Invite(roomID id.RoomID, userID id.UserID) error
	Kick(roomID id.RoomID, userID id.UserID, reason string) error
	Ban(roomID id.RoomID, userID id.UserID, reason string) error
	Unban(roomID id.RoomID, userID id.UserID) error
	Leave(roomID id.RoomID) error

	Membership(roomID id.RoomID, userID id.UserID) (*Profile, error)
	SetMembership(roomID id.RoomID, userID id.UserID, profile *Profile) error

	Messages(roomID id.RoomID, from string, dir rune, limit int) (*Page, error)
	SendMessageEvent(roomID id.RoomID, eventType event.Type, content interface{}) (id.EventID, error)
	Redact(roomID id.RoomID, eventID id.EventID, reason string) error

	RoomAccountData(userID id.UserID, roomID id.RoomID, dataType string, out interface{}) error
	SetRoomAccountData(userID id.UserID, roomID id.RoomID, dataType string, data interface{}) error
	Tags(userID id.UserID, roomID id.RoomID) (map[string]Tag, error)
	AddTag(userID id.UserID, roomID id.RoomID, tag string, content map[string]interface{}) error
	RemoveTag(userID id.UserID, roomID id.RoomID, tag string) error
}

// Owner is the client a Room belongs to.
type Owner interface {
	UserID() id.UserID
	ForgetRoom(roomID id.RoomID)
}
