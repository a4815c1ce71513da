package matrix

import (
	"time"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/id"
)

var (
	keyFilterID  = []byte("filter_id")
	keyNextBatch = []byte("next_batch")
)

// BoltStore keeps the sync filter and the next_batch token on disk so a
// restart resumes where the last sync stopped. Rooms stay in memory.
type BoltStore struct {
	*mautrix.InMemoryStore
	db  *bolt.DB
	log *logrus.Entry
}

func NewBoltStore(path string, log *logrus.Entry) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	return &BoltStore{
		InMemoryStore: mautrix.NewInMemoryStore(),
		db:            db,
		log:           log,
	}, nil
}

func (s *BoltStore) SaveFilterID(userID id.UserID, filterID string) {
	s.put(userID, keyFilterID, filterID)
}

func (s *BoltStore) LoadFilterID(userID id.UserID) string {
	return s.get(userID, keyFilterID)
}

func (s *BoltStore) SaveNextBatch(userID id.UserID, nextBatchToken string) {
	s.put(userID, keyNextBatch, nextBatchToken)
}

func (s *BoltStore) LoadNextBatch(userID id.UserID) string {
	return s.get(userID, keyNextBatch)
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) put(userID id.UserID, key []byte, value string) {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(userID))
		if err != nil {
			return err
		}

		return b.Put(key, []byte(value))
	})
	if err != nil {
		s.log.Errorf("saving %s for %s failed: %s", key, userID, err)
	}
}

func (s *BoltStore) get(userID id.UserID, key []byte) string {
	var value string

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(userID))
		if b == nil {
			return nil
		}

		value = string(b.Get(key))

		return nil
	})
	if err != nil {
		s.log.Errorf("loading %s for %s failed: %s", key, userID, err)
	}

	return value
}
