package room

import (
	"maunium.net/go/mautrix/id"
)

// The Reload methods fetch an attribute from the server and report whether
// the cached value changed. A failed fetch leaves the cache alone and counts
// as no change.

func (r *Room) ReloadName() bool {
	name, err := r.admin.Name(r.id)
	if err != nil {
		r.log.Warnf("reload name: %s", err)
		return false
	}

	if name == r.name {
		return false
	}

	r.name = name

	return true
}

func (r *Room) ReloadTopic() bool {
	topic, err := r.admin.Topic(r.id)
	if err != nil {
		r.log.Warnf("reload topic: %s", err)
		return false
	}

	if topic == r.topic {
		return false
	}

	r.topic = topic

	return true
}

func (r *Room) ReloadCanonicalAlias() bool {
	alias, err := r.admin.CanonicalAlias(r.id)
	if err != nil {
		r.log.Warnf("reload canonical alias: %s", err)
		return false
	}

	if alias == r.canonicalAlias {
		return false
	}

	r.canonicalAlias = alias

	return true
}

// ReloadAliases rebuilds the alias list from every state event that carries
// an aliases attribute. The comparison is order sensitive: the same aliases
// in a different order count as a change.
func (r *Room) ReloadAliases() bool {
	state, err := r.admin.RoomState(r.id)
	if err != nil {
		r.log.Warnf("reload aliases: %s", err)
		return false
	}

	var aliases []id.RoomAlias

	for _, ev := range state {
		if ev == nil {
			continue
		}

		if list, ok := contentAliases(ev); ok {
			aliases = append(aliases, list...)
		}
	}

	if equalAliases(aliases, r.aliases) {
		return false
	}

	r.aliases = aliases

	return true
}

// ReloadMembers replaces the member set with the server's joined members. It
// reports whether a user or a display name changed.
func (r *Room) ReloadMembers() bool {
	members, err := r.admin.JoinedMembers(r.id)
	if err != nil {
		r.log.Warnf("reload members: %s", err)
		return false
	}

	members = joinedOnly(members)
	changed := !r.members.same(members)

	r.members.Replace(members)
	r.populated = true

	return changed
}

func equalAliases(a, b []id.RoomAlias) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
