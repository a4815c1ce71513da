package matrix

import (
	"net/http"
	"sort"

	"github.com/42wim/matterroom/pkg/room"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"
)

// Admin talks to the homeserver on behalf of rooms. Every error it returns
// is a *room.ProtocolError.
type Admin struct {
	mc  *mautrix.Client
	log *logrus.Entry
}

var _ room.Administration = (*Admin)(nil)

func NewAdmin(mc *mautrix.Client, log *logrus.Entry) *Admin {
	return &Admin{
		mc:  mc,
		log: log,
	}
}

func (a *Admin) fail(op string, roomID id.RoomID, err error) error {
	transportErrors.WithLabelValues(op).Inc()
	a.log.Debugf("%s %s failed: %s", op, roomID, err)

	return &room.ProtocolError{Op: op, RoomID: roomID, Err: err}
}

func (a *Admin) JoinedMembers(roomID id.RoomID) ([]*room.Member, error) {
	resp, err := a.mc.JoinedMembers(roomID)
	if err != nil {
		return nil, a.fail("joined_members", roomID, err)
	}

	members := make([]*room.Member, 0, len(resp.Joined))

	for userID, info := range resp.Joined {
		displayname := ""
		if info.DisplayName != nil {
			displayname = *info.DisplayName
		}

		members = append(members, room.NewMember(userID, displayname))
	}

	sort.Slice(members, func(i, j int) bool {
		return members[i].ID < members[j].ID
	})

	return members, nil
}

// RoomState returns the full room state in the order the server sent it.
func (a *Admin) RoomState(roomID id.RoomID) ([]*event.Event, error) {
	var events []*event.Event

	_, err := a.mc.MakeRequest(http.MethodGet, a.mc.BuildURL("rooms", roomID.String(), "state"), nil, &events)
	if err != nil {
		return nil, a.fail("state", roomID, err)
	}

	for _, ev := range events {
		if ev != nil {
			ev.RoomID = roomID
		}
	}

	return events, nil
}

func (a *Admin) Name(roomID id.RoomID) (string, error) {
	var content struct {
		Name string `json:"name"`
	}

	if err := a.mc.StateEvent(roomID, event.StateRoomName, "", &content); err != nil {
		return "", a.fail("get_name", roomID, err)
	}

	return content.Name, nil
}

func (a *Admin) SetName(roomID id.RoomID, name string) error {
	return a.sendState("set_name", roomID, event.StateRoomName, "", map[string]interface{}{"name": name})
}

func (a *Admin) Topic(roomID id.RoomID) (string, error) {
	var content struct {
		Topic string `json:"topic"`
	}

	if err := a.mc.StateEvent(roomID, event.StateTopic, "", &content); err != nil {
		return "", a.fail("get_topic", roomID, err)
	}

	return content.Topic, nil
}

func (a *Admin) SetTopic(roomID id.RoomID, topic string) error {
	return a.sendState("set_topic", roomID, event.StateTopic, "", map[string]interface{}{"topic": topic})
}

func (a *Admin) CanonicalAlias(roomID id.RoomID) (id.RoomAlias, error) {
	var content struct {
		Alias id.RoomAlias `json:"alias"`
	}

	if err := a.mc.StateEvent(roomID, event.StateCanonicalAlias, "", &content); err != nil {
		return "", a.fail("get_canonical_alias", roomID, err)
	}

	return content.Alias, nil
}

func (a *Admin) AddAlias(roomID id.RoomID, alias id.RoomAlias) error {
	body := map[string]interface{}{"room_id": roomID.String()}

	_, err := a.mc.MakeRequest(http.MethodPut, a.mc.BuildURL("directory", "room", alias.String()), body, nil)
	if err != nil {
		return a.fail("set_alias", roomID, err)
	}

	return nil
}

func (a *Admin) SetJoinRule(roomID id.RoomID, rule room.JoinPolicy) error {
	return a.sendState("set_join_rule", roomID, event.StateJoinRules, "", map[string]interface{}{"join_rule": string(rule)})
}

func (a *Admin) SetGuestAccess(roomID id.RoomID, access room.GuestPolicy) error {
	return a.sendState("set_guest_access", roomID, room.StateGuestAccess, "", map[string]interface{}{"guest_access": string(access)})
}

func (a *Admin) PowerLevels(roomID id.RoomID) (map[string]interface{}, error) {
	doc := make(map[string]interface{})

	if err := a.mc.StateEvent(roomID, event.StatePowerLevels, "", &doc); err != nil {
		return nil, a.fail("get_power_levels", roomID, err)
	}

	return doc, nil
}

func (a *Admin) SetPowerLevels(roomID id.RoomID, doc map[string]interface{}) error {
	return a.sendState("set_power_levels", roomID, event.StatePowerLevels, "", doc)
}

func (a *Admin) Invite(roomID id.RoomID, userID id.UserID) error {
	if _, err := a.mc.InviteUser(roomID, &mautrix.ReqInviteUser{UserID: userID}); err != nil {
		return a.fail("invite", roomID, err)
	}

	return nil
}

func (a *Admin) Kick(roomID id.RoomID, userID id.UserID, reason string) error {
	if _, err := a.mc.KickUser(roomID, &mautrix.ReqKickUser{UserID: userID, Reason: reason}); err != nil {
		return a.fail("kick", roomID, err)
	}

	return nil
}

func (a *Admin) Ban(roomID id.RoomID, userID id.UserID, reason string) error {
	if _, err := a.mc.BanUser(roomID, &mautrix.ReqBanUser{UserID: userID, Reason: reason}); err != nil {
		return a.fail("ban", roomID, err)
	}

	return nil
}

func (a *Admin) Unban(roomID id.RoomID, userID id.UserID) error {
	if _, err := a.mc.UnbanUser(roomID, &mautrix.ReqUnbanUser{UserID: userID}); err != nil {
		return a.fail("unban", roomID, err)
	}

	return nil
}

func (a *Admin) Leave(roomID id.RoomID) error {
	if _, err := a.mc.LeaveRoom(roomID); err != nil {
		return a.fail("leave", roomID, err)
	}

	return nil
}

func (a *Admin) Membership(roomID id.RoomID, userID id.UserID) (*room.Profile, error) {
	var profile room.Profile

	if err := a.mc.StateEvent(roomID, event.StateMember, userID.String(), &profile); err != nil {
		return nil, a.fail("get_membership", roomID, err)
	}

	return &profile, nil
}

func (a *Admin) SetMembership(roomID id.RoomID, userID id.UserID, profile *room.Profile) error {
	return a.sendState("set_membership", roomID, event.StateMember, userID.String(), profile)
}

func (a *Admin) Messages(roomID id.RoomID, from string, dir rune, limit int) (*room.Page, error) {
	resp, err := a.mc.Messages(roomID, from, "", dir, limit)
	if err != nil {
		return nil, a.fail("messages", roomID, err)
	}

	for _, ev := range resp.Chunk {
		if ev != nil {
			ev.RoomID = roomID
		}
	}

	return &room.Page{
		Events: resp.Chunk,
		Start:  resp.Start,
		End:    resp.End,
	}, nil
}

func (a *Admin) SendMessageEvent(roomID id.RoomID, eventType event.Type, content interface{}) (id.EventID, error) {
	resp, err := a.mc.SendMessageEvent(roomID, eventType, content)
	if err != nil {
		return "", a.fail("send", roomID, err)
	}

	return resp.EventID, nil
}

func (a *Admin) Redact(roomID id.RoomID, eventID id.EventID, reason string) error {
	body := map[string]interface{}{}
	if reason != "" {
		body["reason"] = reason
	}

	url := a.mc.BuildURL("rooms", roomID.String(), "redact", eventID.String(), uuid.NewString())
	if _, err := a.mc.MakeRequest(http.MethodPut, url, body, nil); err != nil {
		return a.fail("redact", roomID, err)
	}

	return nil
}

func (a *Admin) RoomAccountData(userID id.UserID, roomID id.RoomID, dataType string, out interface{}) error {
	url := a.mc.BuildURL("user", userID.String(), "rooms", roomID.String(), "account_data", dataType)
	if _, err := a.mc.MakeRequest(http.MethodGet, url, nil, out); err != nil {
		return a.fail("get_account_data", roomID, err)
	}

	return nil
}

func (a *Admin) SetRoomAccountData(userID id.UserID, roomID id.RoomID, dataType string, data interface{}) error {
	url := a.mc.BuildURL("user", userID.String(), "rooms", roomID.String(), "account_data", dataType)
	if _, err := a.mc.MakeRequest(http.MethodPut, url, data, nil); err != nil {
		return a.fail("set_account_data", roomID, err)
	}

	return nil
}

func (a *Admin) Tags(userID id.UserID, roomID id.RoomID) (map[string]room.Tag, error) {
	var resp struct {
		Tags map[string]room.Tag `json:"tags"`
	}

	url := a.mc.BuildURL("user", userID.String(), "rooms", roomID.String(), "tags")
	if _, err := a.mc.MakeRequest(http.MethodGet, url, nil, &resp); err != nil {
		return nil, a.fail("get_tags", roomID, err)
	}

	if resp.Tags == nil {
		resp.Tags = make(map[string]room.Tag)
	}

	return resp.Tags, nil
}

func (a *Admin) AddTag(userID id.UserID, roomID id.RoomID, tag string, content map[string]interface{}) error {
	if content == nil {
		content = map[string]interface{}{}
	}

	url := a.mc.BuildURL("user", userID.String(), "rooms", roomID.String(), "tags", tag)
	if _, err := a.mc.MakeRequest(http.MethodPut, url, content, nil); err != nil {
		return a.fail("add_tag", roomID, err)
	}

	return nil
}

func (a *Admin) RemoveTag(userID id.UserID, roomID id.RoomID, tag string) error {
	url := a.mc.BuildURL("user", userID.String(), "rooms", roomID.String(), "tags", tag)
	if _, err := a.mc.MakeRequest(http.MethodDelete, url, nil, nil); err != nil {
		return a.fail("remove_tag", roomID, err)
	}

	return nil
}

func (a *Admin) sendState(op string, roomID id.RoomID, eventType event.Type, stateKey string, content interface{}) error {
	resp, err := a.mc.SendStateEvent(roomID, eventType, stateKey, content)
	if err != nil {
		return a.fail(op, roomID, err)
	}

	a.log.Tracef("%s %s: %s", op, roomID, resp.EventID)

	return nil
}
