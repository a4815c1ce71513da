package matrix

import (
	"sort"

	"github.com/42wim/matterroom/pkg/room"
	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/id"
)

func (m *Matrix) Room(roomID id.RoomID) (*room.Room, bool) {
	m.RLock()
	defer m.RUnlock()

	r, ok := m.rooms[roomID]

	return r, ok
}

// Rooms returns the known rooms ordered by room ID.
func (m *Matrix) Rooms() []*room.Room {
	m.RLock()
	rooms := make([]*room.Room, 0, len(m.rooms))

	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.RUnlock()

	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].ID() < rooms[j].ID()
	})

	return rooms
}

func (m *Matrix) ForgetRoom(roomID id.RoomID) {
	m.Lock()
	delete(m.rooms, roomID)
	m.Unlock()

	m.log.Debugf("forgot room %s", roomID)
}

// WithRoom runs fn on the room while no sync response is being applied.
func (m *Matrix) WithRoom(roomID id.RoomID, fn func(r *room.Room)) bool {
	m.serial.Lock()
	defer m.serial.Unlock()

	r, ok := m.Room(roomID)
	if !ok {
		return false
	}

	fn(r)

	return true
}

func (m *Matrix) OnInvite(fn func(roomID id.RoomID)) {
	m.Lock()
	m.onInvite = append(m.onInvite, fn)
	m.Unlock()
}

func (m *Matrix) invited(roomID id.RoomID) {
	m.RLock()
	handlers := append([]func(id.RoomID){}, m.onInvite...)
	m.RUnlock()

	m.log.Debugf("invited to %s", roomID)

	for _, fn := range handlers {
		fn(roomID)
	}
}

// JoinRoom joins a room by ID or alias and returns its local copy.
func (m *Matrix) JoinRoom(roomIDOrAlias string) (*room.Room, error) {
	resp, err := m.mc.JoinRoom(roomIDOrAlias, "", nil)
	if err != nil {
		return nil, m.admin.fail("join", "", err)
	}

	return m.newRoom(resp.RoomID, room.Seed{})
}

// CreateRoom creates a room with an optional local alias name.
func (m *Matrix) CreateRoom(aliasName string, public bool, invitees []id.UserID) (*room.Room, error) {
	req := &mautrix.ReqCreateRoom{
		RoomAliasName: aliasName,
		Invite:        invitees,
		Preset:        "private_chat",
	}

	seed := room.Seed{JoinRule: room.JoinInvite}

	if public {
		req.Preset = "public_chat"
		req.Visibility = "public"
		seed.JoinRule = room.JoinPublic
	}

	resp, err := m.mc.CreateRoom(req)
	if err != nil {
		return nil, m.admin.fail("create_room", "", err)
	}

	return m.newRoom(resp.RoomID, seed)
}

func (m *Matrix) ensureRoom(roomID id.RoomID) (*room.Room, error) {
	if r, ok := m.Room(roomID); ok {
		return r, nil
	}

	return m.newRoom(roomID, room.Seed{})
}

func (m *Matrix) newRoom(roomID id.RoomID, seed room.Seed) (*room.Room, error) {
	m.Lock()
	defer m.Unlock()

	if r, ok := m.rooms[roomID]; ok {
		return r, nil
	}

	if seed.HistoryLimit == 0 {
		seed.HistoryLimit = m.v.GetInt("room.historylimit")
	}

	r, err := room.New(m, m.admin, roomID, seed, m.log.WithField("prefix", "room"))
	if err != nil {
		return nil, err
	}

	m.rooms[roomID] = r

	return r, nil
}
