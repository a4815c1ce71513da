package room

import (
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"
)

type Member struct {
	ID id.UserID
	*event.MemberEventContent
}

func NewMember(userID id.UserID, displayname string) *Member {
	return &Member{
		ID: userID,
		MemberEventContent: &event.MemberEventContent{
			Membership:  event.MembershipJoin,
			Displayname: displayname,
		},
	}
}

// DisplayName falls back to the user ID when no display name is set.
func (m *Member) DisplayName() string {
	if m.MemberEventContent != nil && m.Displayname != "" {
		return m.Displayname
	}

	return m.ID.String()
}

// MemberSet holds at most one Member per user ID, in insertion order.
type MemberSet struct {
	order   []id.UserID
	members map[id.UserID]*Member
}

func NewMemberSet() *MemberSet {
	return &MemberSet{
		members: make(map[id.UserID]*Member),
	}
}

// Ensure adds m unless a member with the same ID is already known. The first
// inserted member wins.
func (s *MemberSet) Ensure(m *Member) bool {
	if m == nil {
		return false
	}

	if _, ok := s.members[m.ID]; ok {
		return false
	}

	s.members[m.ID] = m
	s.order = append(s.order, m.ID)

	return true
}

func (s *MemberSet) Get(userID id.UserID) (*Member, bool) {
	m, ok := s.members[userID]
	return m, ok
}

func (s *MemberSet) Len() int {
	return len(s.order)
}

func (s *MemberSet) Members() []*Member {
	members := make([]*Member, 0, len(s.order))
	for _, userID := range s.order {
		members = append(members, s.members[userID])
	}

	return members
}

func (s *MemberSet) IDs() []id.UserID {
	return append([]id.UserID(nil), s.order...)
}

// Replace throws away the current set and rebuilds it from members.
func (s *MemberSet) Replace(members []*Member) {
	s.order = nil
	s.members = make(map[id.UserID]*Member, len(members))

	for _, m := range members {
		s.Ensure(m)
	}
}

// same reports whether members holds exactly the current users with the
// same display names.
func (s *MemberSet) same(members []*Member) bool {
	if len(members) != len(s.members) {
		return false
	}

	for _, m := range members {
		cur, ok := s.members[m.ID]
		if !ok || cur.DisplayName() != m.DisplayName() {
			return false
		}
	}

	return true
}

// joinedOnly drops nil entries and members whose membership is set to
// anything but join. The first entry per user ID is kept.
func joinedOnly(members []*Member) []*Member {
	seen := make(map[id.UserID]struct{}, len(members))
	out := make([]*Member, 0, len(members))

	for _, m := range members {
		if m == nil {
			continue
		}

		if m.MemberEventContent != nil && m.Membership != "" && m.Membership != event.MembershipJoin {
			continue
		}

		if _, ok := seen[m.ID]; ok {
			continue
		}

		seen[m.ID] = struct{}{}
		out = append(out, m)
	}

	return out
}
