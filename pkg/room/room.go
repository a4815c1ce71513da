package room

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"maunium.net/go/mautrix/id"
)

// Room is the local picture of a remote room. It is not safe for concurrent
// use; callers serialize access per room.
type Room struct {
	id    id.RoomID
	owner Owner
	admin Administration
	log   *logrus.Entry

	name           string
	topic          string
	canonicalAlias id.RoomAlias
	aliases        []id.RoomAlias
	joinPolicy     JoinPolicy
	guestPolicy    GuestPolicy

	members   *MemberSet
	populated bool

	historyLimit int
	events       *History
	prevBatch    string

	observers *Observers
}

func New(owner Owner, admin Administration, roomID id.RoomID, seed Seed, log *logrus.Entry) (*Room, error) {
	if roomID == "" {
		return nil, ErrEmptyRoomID
	}

	if owner == nil || admin == nil {
		return nil, errors.New("room: owner and administration are required")
	}

	if err := seed.validate(); err != nil {
		return nil, err
	}

	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = logrus.NewEntry(discard)
	}

	log = log.WithField("room", roomID.String())

	limit := seed.HistoryLimit
	if limit == 0 {
		limit = DefaultHistoryLimit
	}

	joinPolicy := seed.JoinRule
	if joinPolicy == "" {
		joinPolicy = JoinInvite
	}

	guestPolicy := seed.GuestAccess
	if guestPolicy == "" {
		guestPolicy = GuestForbidden
	}

	return &Room{
		id:             roomID,
		owner:          owner,
		admin:          admin,
		log:            log,
		name:           seed.Name,
		topic:          seed.Topic,
		canonicalAlias: seed.CanonicalAlias,
		aliases:        append([]id.RoomAlias(nil), seed.Aliases...),
		joinPolicy:     joinPolicy,
		guestPolicy:    guestPolicy,
		members:        NewMemberSet(),
		historyLimit:   limit,
		events:         NewHistory(limit),
		prevBatch:      seed.PrevBatch,
		observers:      NewObservers(log),
	}, nil
}

func (r *Room) ID() id.RoomID {
	return r.id
}

func (r *Room) String() string {
	return fmt.Sprintf("Room(%s)", r.id)
}

func (r *Room) Name() string {
	return r.name
}

func (r *Room) Topic() string {
	return r.topic
}

func (r *Room) CanonicalAlias() id.RoomAlias {
	return r.canonicalAlias
}

func (r *Room) Aliases() []id.RoomAlias {
	return append([]id.RoomAlias(nil), r.aliases...)
}

func (r *Room) JoinPolicy() JoinPolicy {
	return r.joinPolicy
}

func (r *Room) InviteOnly() bool {
	return r.joinPolicy == JoinInvite
}

func (r *Room) GuestPolicy() GuestPolicy {
	return r.guestPolicy
}

func (r *Room) GuestAccess() bool {
	return r.guestPolicy == GuestCanJoin
}

func (r *Room) HistoryLimit() int {
	return r.historyLimit
}

// SetHistoryLimit changes the history capacity. Already buffered events are
// only trimmed on the next ingestion.
func (r *Room) SetHistoryLimit(limit int) {
	if limit < 0 {
		limit = 0
	}

	r.historyLimit = limit
}

func (r *Room) Events() []Record {
	return r.events.Events()
}

func (r *Room) PrevBatch() string {
	return r.prevBatch
}

func (r *Room) SetPrevBatch(token string) {
	r.prevBatch = token
}

// DisplayName resolves the name a client shows for this room. Without a name
// or canonical alias it is derived from the joined members, which fetches
// them from the server the first time.
func (r *Room) DisplayName() string {
	if r.name != "" {
		return r.name
	}

	if r.canonicalAlias != "" {
		return r.canonicalAlias.String()
	}

	members, err := r.JoinedMembers()
	if err != nil {
		r.log.Warnf("displayname: can't fetch members: %s", err)
	}

	me := r.owner.UserID()

	var names []string

	for _, m := range members {
		if m.ID == me {
			continue
		}

		names = append(names, m.DisplayName())
	}

	switch len(names) {
	case 0:
		return "Empty Room"
	case 1:
		return names[0]
	case 2:
		return fmt.Sprintf("%s and %s", names[0], names[1])
	default:
		return fmt.Sprintf("%s and %d others", names[0], len(names)-1)
	}
}

// JoinedMembers returns the cached member list, fetching it once if it was
// never populated.
func (r *Room) JoinedMembers() ([]*Member, error) {
	if r.populated {
		return r.members.Members(), nil
	}

	members, err := r.admin.JoinedMembers(r.id)
	if err != nil {
		return r.members.Members(), err
	}

	for _, m := range joinedOnly(members) {
		r.members.Ensure(m)
	}

	r.populated = true

	r.log.Debugf("populated %d members", r.members.Len())

	return r.members.Members(), nil
}

func (r *Room) AddListener(fn Listener, eventType string) string {
	return r.observers.Add(AllEvents, fn, eventType)
}

func (r *Room) RemoveListener(listenerID string) bool {
	return r.observers.Remove(AllEvents, listenerID)
}

func (r *Room) AddStateListener(fn Listener, eventType string) string {
	return r.observers.Add(StateEvents, fn, eventType)
}

func (r *Room) RemoveStateListener(listenerID string) bool {
	return r.observers.Remove(StateEvents, listenerID)
}

func (r *Room) AddEphemeralListener(fn Listener, eventType string) string {
	return r.observers.Add(EphemeralEvents, fn, eventType)
}

func (r *Room) RemoveEphemeralListener(listenerID string) bool {
	return r.observers.Remove(EphemeralEvents, listenerID)
}
