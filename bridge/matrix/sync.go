package matrix

import (
	"time"

	"github.com/davecgh/go-spew/spew"
	lru "github.com/hashicorp/golang-lru"
	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/id"
)

// Syncer feeds /sync responses into the rooms of a Matrix client.
type Syncer struct {
	m *Matrix

	// timeline event ids we already ingested, a restarted sync can hand
	// them out again
	seen *lru.Cache

	timelineLimit int
	retry         time.Duration
}

func NewSyncer(m *Matrix, cacheSize, timelineLimit int, retry time.Duration) (*Syncer, error) {
	seen, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}

	return &Syncer{
		m:             m,
		seen:          seen,
		timelineLimit: timelineLimit,
		retry:         retry,
	}, nil
}

func (s *Syncer) ProcessResponse(resp *mautrix.RespSync, since string) error {
	s.m.log.Tracef("processresponse since %s next %s", since, resp.NextBatch)

	s.apply(resp)

	// handlers may use WithRoom, so they run without serial held
	for roomID := range resp.Rooms.Invite {
		s.m.invited(roomID)
	}

	return nil
}

func (s *Syncer) apply(resp *mautrix.RespSync) {
	s.m.serial.Lock()
	defer s.m.serial.Unlock()

	for roomID, sync := range resp.Rooms.Join {
		r, err := s.m.ensureRoom(roomID)
		if err != nil {
			s.m.log.Errorf("skipping %s: %s", roomID, err)
			continue
		}

		for _, ev := range sync.State.Events {
			if ev == nil {
				continue
			}

			ev.RoomID = roomID
			syncEvents.WithLabelValues("state").Inc()
			r.ApplyState(ev)
		}

		for _, ev := range sync.Timeline.Events {
			if ev == nil {
				continue
			}

			ev.RoomID = roomID
			syncEvents.WithLabelValues("timeline").Inc()

			if ev.ID != "" {
				if seen, _ := s.seen.ContainsOrAdd(ev.ID, struct{}{}); seen {
					syncDuplicates.Inc()
					s.m.log.Debugf("dropping duplicate %s in %s", ev.ID, roomID)
					continue
				}
			}

			s.m.log.Tracef("timeline %s", spew.Sdump(ev))
			r.IngestTimeline(ev)
		}

		if sync.Timeline.PrevBatch != "" {
			r.SetPrevBatch(sync.Timeline.PrevBatch)
		}

		for _, ev := range sync.Ephemeral.Events {
			if ev == nil {
				continue
			}

			ev.RoomID = roomID
			syncEvents.WithLabelValues("ephemeral").Inc()
			r.IngestEphemeral(ev)
		}
	}

	for roomID := range resp.Rooms.Leave {
		s.m.log.Debugf("left %s", roomID)
		s.m.ForgetRoom(roomID)
	}
}

func (s *Syncer) OnFailedSync(res *mautrix.RespSync, err error) (time.Duration, error) {
	s.m.log.Errorf("sync failed, retrying in %s: %s", s.retry, err)
	return s.retry, nil
}

func (s *Syncer) GetFilterJSON(userID id.UserID) *mautrix.Filter {
	return &mautrix.Filter{
		Room: mautrix.RoomFilter{
			Timeline: mautrix.FilterPart{
				Limit: s.timelineLimit,
			},
		},
	}
}
