package matrix

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/42wim/matterroom/config"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/id"
)

const (
	testUserID = id.UserID("@me:example.org")
	testRoomID = id.RoomID("!room:example.org")
)

type request struct {
	method string
	path   string
	body   map[string]interface{}
}

// homeserver answers every request from routes, matched on a path fragment,
// and remembers what it was asked.
type homeserver struct {
	sync.Mutex
	srv      *httptest.Server
	routes   map[string]string
	status   int
	requests []request
}

func newHomeserver(t *testing.T) *homeserver {
	t.Helper()

	hs := &homeserver{
		routes: make(map[string]string),
		status: http.StatusOK,
	}

	hs.srv = httptest.NewServer(http.HandlerFunc(hs.handle))
	t.Cleanup(hs.srv.Close)

	return hs
}

func (hs *homeserver) handle(w http.ResponseWriter, r *http.Request) {
	hs.Lock()
	defer hs.Unlock()

	req := request{method: r.Method, path: r.URL.Path}

	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &req.body)
	}

	hs.requests = append(hs.requests, req)

	w.Header().Set("Content-Type", "application/json")

	if hs.status != http.StatusOK {
		w.WriteHeader(hs.status)
		_, _ = io.WriteString(w, `{"errcode":"M_FORBIDDEN","error":"you shall not pass"}`)

		return
	}

	for fragment, body := range hs.routes {
		if strings.Contains(r.URL.Path, fragment) {
			_, _ = io.WriteString(w, body)
			return
		}
	}

	_, _ = io.WriteString(w, `{}`)
}

func (hs *homeserver) last() request {
	hs.Lock()
	defer hs.Unlock()

	if len(hs.requests) == 0 {
		return request{}
	}

	return hs.requests[len(hs.requests)-1]
}

func (hs *homeserver) client(t *testing.T) *mautrix.Client {
	t.Helper()

	mc, err := mautrix.NewClient(hs.srv.URL, testUserID, "token")
	require.NoError(t, err)

	return mc
}

func testLogger() *logrus.Entry {
	log, _ := test.NewNullLogger()
	return logrus.NewEntry(log)
}

func newTestMatrix(t *testing.T, hs *homeserver) *Matrix {
	t.Helper()

	v := config.New()
	v.Set("matrix.store", "")

	m, err := NewWithClient(v, hs.client(t), testLogger())
	require.NoError(t, err)

	return m
}
