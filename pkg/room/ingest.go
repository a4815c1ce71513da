package room

import (
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"
)

const (
	typeRoomName       = "m.room.name"
	typeTopic          = "m.room.topic"
	typeCanonicalAlias = "m.room.canonical_alias"
	typeAliases        = "m.room.aliases"
	typeJoinRules      = "m.room.join_rules"
	typeGuestAccess    = "m.room.guest_access"
	typeMember         = "m.room.member"
)

// StateGuestAccess is the m.room.guest_access state event type.
var StateGuestAccess = event.Type{Type: typeGuestAccess, Class: event.StateEventType}

// IngestTimeline stores a timeline event in the history and hands it to the
// listeners. State events also update the cached room attributes.
func (r *Room) IngestTimeline(ev *event.Event) {
	if ev == nil {
		return
	}

	rec := NewRecord(r.id, ev)

	for _, old := range r.events.Push(rec, r.historyLimit) {
		r.log.Tracef("evicted %s from history", old.ID())
	}

	if rec.IsState() {
		r.ApplyState(ev)
	}

	r.observers.Dispatch(AllEvents, rec)

	if rec.IsState() {
		r.observers.Dispatch(StateEvents, rec)
	}
}

// IngestEphemeral hands a transient event to the ephemeral listeners. It is
// never kept.
func (r *Room) IngestEphemeral(ev *event.Event) {
	if ev == nil {
		return
	}

	r.observers.Dispatch(EphemeralEvents, NewRecord(r.id, ev))
}

// ApplyState folds a state event into the cached attributes without storing
// it in the history.
func (r *Room) ApplyState(ev *event.Event) {
	if ev == nil || ev.StateKey == nil {
		return
	}

	switch ev.Type.Type {
	case typeRoomName:
		if name, ok := contentString(ev, "name"); ok {
			r.name = name
		}
	case typeTopic:
		if topic, ok := contentString(ev, "topic"); ok {
			r.topic = topic
		}
	case typeCanonicalAlias:
		if alias, ok := contentString(ev, "alias"); ok {
			r.canonicalAlias = id.RoomAlias(alias)
		}
	case typeAliases:
		if aliases, ok := contentAliases(ev); ok {
			r.aliases = aliases
		}
	case typeJoinRules:
		if rule, ok := contentString(ev, "join_rule"); ok {
			switch JoinPolicy(rule) {
			case JoinInvite, JoinPublic:
				r.joinPolicy = JoinPolicy(rule)
			}
		}
	case typeGuestAccess:
		if access, ok := contentString(ev, "guest_access"); ok {
			switch GuestPolicy(access) {
			case GuestCanJoin, GuestForbidden:
				r.guestPolicy = GuestPolicy(access)
			}
		}
	case typeMember:
		membership, _ := contentString(ev, "membership")
		if !r.populated || membership != string(event.MembershipJoin) {
			return
		}

		displayname, _ := contentString(ev, "displayname")
		r.members.Ensure(NewMember(id.UserID(*ev.StateKey), displayname))
	}
}

// Backfill fetches up to limit events before the pagination cursor and
// ingests them in chronological order, or newest first when reverse is set.
// The cursor is left alone; the sync feed moves it.
func (r *Room) Backfill(reverse bool, limit int) error {
	page, err := r.admin.Messages(r.id, r.prevBatch, 'b', limit)
	if err != nil {
		r.log.Warnf("backfill failed: %s", err)
		return err
	}

	events := page.Events
	if !reverse {
		events = make([]*event.Event, 0, len(page.Events))
		for i := len(page.Events) - 1; i >= 0; i-- {
			events = append(events, page.Events[i])
		}
	}

	for _, ev := range events {
		r.IngestTimeline(ev)
	}

	r.log.Debugf("backfilled %d events", len(events))

	return nil
}

func contentString(ev *event.Event, key string) (string, bool) {
	if ev.Content.Raw == nil {
		return "", false
	}

	s, ok := ev.Content.Raw[key].(string)

	return s, ok
}

func contentAliases(ev *event.Event) ([]id.RoomAlias, bool) {
	if ev.Content.Raw == nil {
		return nil, false
	}

	raw, ok := ev.Content.Raw["aliases"]
	if !ok {
		return nil, false
	}

	var aliases []id.RoomAlias

	switch list := raw.(type) {
	case []interface{}:
		for _, entry := range list {
			if alias, ok := entry.(string); ok {
				aliases = append(aliases, id.RoomAlias(alias))
			}
		}
	case []string:
		for _, alias := range list {
			aliases = append(aliases, id.RoomAlias(alias))
		}
	}

	return aliases, true
}
