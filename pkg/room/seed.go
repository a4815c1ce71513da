package room

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"maunium.net/go/mautrix/id"
)

const DefaultHistoryLimit = 20

type JoinPolicy string

const (
	JoinInvite JoinPolicy = "invite"
	JoinPublic JoinPolicy = "public"
)

type GuestPolicy string

const (
	GuestCanJoin   GuestPolicy = "can_join"
	GuestForbidden GuestPolicy = "forbidden"
)

// Seed carries the attributes a room is created with. Zero values mean unset;
// a zero HistoryLimit means DefaultHistoryLimit.
type Seed struct {
	Name           string         `mapstructure:"name"`
	Topic          string         `mapstructure:"topic"`
	CanonicalAlias id.RoomAlias   `mapstructure:"canonical_alias"`
	Aliases        []id.RoomAlias `mapstructure:"aliases"`
	JoinRule       JoinPolicy     `mapstructure:"join_rule"`
	GuestAccess    GuestPolicy    `mapstructure:"guest_access"`
	HistoryLimit   int            `mapstructure:"history_limit"`
	PrevBatch      string         `mapstructure:"prev_batch"`
}

// SeedFromMap decodes a generic attribute map into a Seed. Keys that don't
// map to a Seed field are an error.
func SeedFromMap(input map[string]interface{}) (Seed, error) {
	var seed Seed

	config := &mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: false,
		Result:           &seed,
		TagName:          "mapstructure",
	}

	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return Seed{}, err
	}

	if err := decoder.Decode(input); err != nil {
		return Seed{}, fmt.Errorf("room: invalid seed: %w", err)
	}

	if err := seed.validate(); err != nil {
		return Seed{}, err
	}

	return seed, nil
}

func (s Seed) validate() error {
	switch s.JoinRule {
	case "", JoinInvite, JoinPublic:
	default:
		return fmt.Errorf("room: invalid seed: unknown join rule %q", s.JoinRule)
	}

	switch s.GuestAccess {
	case "", GuestCanJoin, GuestForbidden:
	default:
		return fmt.Errorf("room: invalid seed: unknown guest access %q", s.GuestAccess)
	}

	if s.HistoryLimit < 0 {
		return fmt.Errorf("room: invalid seed: negative history limit %d", s.HistoryLimit)
	}

	return nil
}
