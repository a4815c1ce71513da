package room

import (
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"
)

// The setters below issue one call to the server and only update the cache
// once that call succeeded. They report false when the server call failed.

func (r *Room) SetName(name string) bool {
	if err := r.admin.SetName(r.id, name); err != nil {
		r.log.Warnf("set name: %s", err)
		return false
	}

	r.name = name

	return true
}

func (r *Room) SetTopic(topic string) bool {
	if err := r.admin.SetTopic(r.id, topic); err != nil {
		r.log.Warnf("set topic: %s", err)
		return false
	}

	r.topic = topic

	return true
}

// AddAlias publishes alias for this room and appends it to the local list.
func (r *Room) AddAlias(alias id.RoomAlias) bool {
	if err := r.admin.AddAlias(r.id, alias); err != nil {
		r.log.Warnf("add alias %s: %s", alias, err)
		return false
	}

	r.aliases = append(r.aliases, alias)

	return true
}

func (r *Room) SetJoinPolicy(policy JoinPolicy) bool {
	switch policy {
	case JoinInvite, JoinPublic:
	default:
		r.log.Errorf("set join rule: unknown join rule %q", policy)
		return false
	}

	if err := r.admin.SetJoinRule(r.id, policy); err != nil {
		r.log.Warnf("set join rule: %s", err)
		return false
	}

	r.joinPolicy = policy

	return true
}

func (r *Room) SetInviteOnly(inviteOnly bool) bool {
	if inviteOnly {
		return r.SetJoinPolicy(JoinInvite)
	}

	return r.SetJoinPolicy(JoinPublic)
}

func (r *Room) SetGuestPolicy(policy GuestPolicy) bool {
	switch policy {
	case GuestCanJoin, GuestForbidden:
	default:
		r.log.Errorf("set guest access: unknown guest access %q", policy)
		return false
	}

	if err := r.admin.SetGuestAccess(r.id, policy); err != nil {
		r.log.Warnf("set guest access: %s", err)
		return false
	}

	r.guestPolicy = policy

	return true
}

func (r *Room) SetGuestAccess(allowGuests bool) bool {
	if allowGuests {
		return r.SetGuestPolicy(GuestCanJoin)
	}

	return r.SetGuestPolicy(GuestForbidden)
}

// Membership actions don't touch the cached member list; it is only
// refreshed by ReloadMembers.

func (r *Room) Invite(userID id.UserID) bool {
	if err := r.admin.Invite(r.id, userID); err != nil {
		r.log.Warnf("invite %s: %s", userID, err)
		return false
	}

	return true
}

func (r *Room) Kick(userID id.UserID, reason string) bool {
	if err := r.admin.Kick(r.id, userID, reason); err != nil {
		r.log.Warnf("kick %s: %s", userID, err)
		return false
	}

	return true
}

func (r *Room) Ban(userID id.UserID, reason string) bool {
	if err := r.admin.Ban(r.id, userID, reason); err != nil {
		r.log.Warnf("ban %s: %s", userID, err)
		return false
	}

	return true
}

func (r *Room) Unban(userID id.UserID) bool {
	if err := r.admin.Unban(r.id, userID); err != nil {
		r.log.Warnf("unban %s: %s", userID, err)
		return false
	}

	return true
}

// Leave leaves the room and, on success, removes it from the owning client.
func (r *Room) Leave() bool {
	if err := r.admin.Leave(r.id); err != nil {
		r.log.Warnf("leave: %s", err)
		return false
	}

	r.owner.ForgetRoom(r.id)

	return true
}

func (r *Room) Redact(eventID id.EventID, reason string) bool {
	if err := r.admin.Redact(r.id, eventID, reason); err != nil {
		r.log.Warnf("redact %s: %s", eventID, err)
		return false
	}

	return true
}

// SetUserProfile changes the local user's displayname and avatar in this
// room only. Empty values keep the current ones. It fails with ErrNotJoined
// when the user isn't joined.
func (r *Room) SetUserProfile(displayname, avatarURL, reason string) error {
	me := r.owner.UserID()

	current, err := r.admin.Membership(r.id, me)
	if err != nil {
		return err
	}

	if current.Membership != event.MembershipJoin {
		return ErrNotJoined
	}

	if reason == "" {
		reason = "Changing room profile information"
	}

	profile := &Profile{
		Membership:  event.MembershipJoin,
		Displayname: current.Displayname,
		AvatarURL:   current.AvatarURL,
		Reason:      reason,
	}

	if displayname != "" {
		profile.Displayname = displayname
	}

	if avatarURL != "" {
		profile.AvatarURL = avatarURL
	}

	return r.admin.SetMembership(r.id, me, profile)
}
