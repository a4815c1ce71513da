package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"maunium.net/go/mautrix/id"
)

func TestSeedFromMap(t *testing.T) {
	seed, err := SeedFromMap(map[string]interface{}{
		"name":            "Lobby",
		"topic":           "say hi",
		"canonical_alias": "#lobby:example.org",
		"aliases":         []interface{}{"#lobby:example.org", "#hall:example.org"},
		"join_rule":       "public",
		"guest_access":    "can_join",
		"history_limit":   5,
		"prev_batch":      "t1-2",
	})
	require.NoError(t, err)

	assert.Equal(t, Seed{
		Name:           "Lobby",
		Topic:          "say hi",
		CanonicalAlias: "#lobby:example.org",
		Aliases:        []id.RoomAlias{"#lobby:example.org", "#hall:example.org"},
		JoinRule:       JoinPublic,
		GuestAccess:    GuestCanJoin,
		HistoryLimit:   5,
		PrevBatch:      "t1-2",
	}, seed)
}

func TestSeedFromMapRejects(t *testing.T) {
	for _, tc := range []struct {
		Desc  string
		Input map[string]interface{}
	}{
		{Desc: "unknown key", Input: map[string]interface{}{"name": "x", "encrypted": true}},
		{Desc: "wrong type", Input: map[string]interface{}{"history_limit": "ten"}},
		{Desc: "unknown join rule", Input: map[string]interface{}{"join_rule": "knock"}},
		{Desc: "unknown guest access", Input: map[string]interface{}{"guest_access": "maybe"}},
		{Desc: "negative limit", Input: map[string]interface{}{"history_limit": -1}},
	} {
		_, err := SeedFromMap(tc.Input)
		assert.Error(t, err, tc.Desc)
	}
}

func TestNewAppliesSeedDefaults(t *testing.T) {
	r, _, _ := newTestRoom(t, Seed{})

	assert.Equal(t, DefaultHistoryLimit, r.HistoryLimit())
	assert.Equal(t, JoinInvite, r.JoinPolicy())
	assert.True(t, r.InviteOnly())
	assert.Equal(t, GuestForbidden, r.GuestPolicy())
	assert.False(t, r.GuestAccess())
	assert.Empty(t, r.Aliases())
	assert.Empty(t, r.Events())
}

func TestNewRejectsEmptyID(t *testing.T) {
	_, err := New(&fakeOwner{}, newFakeAdmin(), "", Seed{}, nil)
	assert.ErrorIs(t, err, ErrEmptyRoomID)

	_, err = New(nil, newFakeAdmin(), testRoomID, Seed{}, nil)
	assert.Error(t, err)

	_, err = New(&fakeOwner{}, newFakeAdmin(), testRoomID, Seed{JoinRule: "knock"}, nil)
	assert.Error(t, err)
}
