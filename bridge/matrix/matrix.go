package matrix

import (
	"sync"

	"github.com/42wim/matterroom/bridge"
	"github.com/42wim/matterroom/config"
	"github.com/42wim/matterroom/pkg/room"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/id"
)

// Matrix is a logged in client and the rooms it knows about.
type Matrix struct {
	mc     *mautrix.Client
	admin  *Admin
	syncer *Syncer
	store  *BoltStore
	v      *viper.Viper
	log    *logrus.Entry

	rooms    map[id.RoomID]*room.Room
	onInvite []func(roomID id.RoomID)
	// guards rooms and onInvite
	sync.RWMutex

	// held while a sync response is applied to the rooms
	serial sync.Mutex
}

func New(v *viper.Viper, cred bridge.Credentials, log *logrus.Entry) (*Matrix, error) {
	if log == nil {
		log = config.NewLogger(v, "bridge/matrix")
	}

	mc, err := mautrix.NewClient(cred.Server, "", "")
	if err != nil {
		return nil, err
	}

	if cred.Token != "" {
		mc.UserID = id.UserID(cred.Login)
		mc.AccessToken = cred.Token
	} else {
		_, err = mc.Login(&mautrix.ReqLogin{
			Type: "m.login.password",
			Identifier: mautrix.UserIdentifier{
				Type: "m.id.user",
				User: cred.Login,
			},
			Password:         cred.Pass,
			StoreCredentials: true,
		})
		if err != nil {
			return nil, err
		}
	}

	log.Infof("logged in as %s on %s", mc.UserID, cred.Server)

	return NewWithClient(v, mc, log)
}

// NewWithClient wraps an already authenticated client.
func NewWithClient(v *viper.Viper, mc *mautrix.Client, log *logrus.Entry) (*Matrix, error) {
	m := &Matrix{
		mc:    mc,
		v:     v,
		log:   log,
		rooms: make(map[id.RoomID]*room.Room),
	}

	m.admin = NewAdmin(mc, log)

	syncer, err := NewSyncer(m, v.GetInt("matrix.dedupcache"), v.GetInt("room.historylimit"), v.GetDuration("matrix.syncretry"))
	if err != nil {
		return nil, err
	}

	m.syncer = syncer
	mc.Syncer = syncer

	if path := v.GetString("matrix.store"); path != "" {
		store, err := NewBoltStore(path, log)
		if err != nil {
			return nil, err
		}

		m.store = store
		mc.Store = store
	}

	return m, nil
}

func (m *Matrix) UserID() id.UserID {
	return m.mc.UserID
}

// Sync blocks, applying /sync responses to the rooms until StopSync is
// called or the sync fails for good.
func (m *Matrix) Sync() error {
	return m.mc.Sync()
}

func (m *Matrix) StopSync() {
	m.mc.StopSync()
}

func (m *Matrix) Close() error {
	if m.store != nil {
		return m.store.Close()
	}

	return nil
}
