package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/42wim/matterroom/bridge"
	"github.com/42wim/matterroom/bridge/matrix"
	"github.com/42wim/matterroom/config"
	"github.com/42wim/matterroom/pkg/room"
	"github.com/google/gops/agent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"maunium.net/go/mautrix/id"
)

const version = "0.1.0"

var logger *logrus.Entry

func main() {
	flagConfig := flag.String("conf", "matterroom.toml", "config file")
	flagDebug := flag.Bool("debug", false, "enable debug logging")
	flagTrace := flag.Bool("trace", false, "enable trace logging")
	flagGops := flag.Bool("gops", false, "enable gops agent")
	flagMetrics := flag.String("metrics", "", "serve prometheus metrics on this address, e.g. 127.0.0.1:9090")
	flagList := flag.Bool("list", false, "list the configured rooms and exit")
	flagVersion := flag.Bool("version", false, "show version")
	flag.Parse()

	if *flagVersion {
		fmt.Printf("matterroom version: %s\n", version)
		return
	}

	v, err := config.LoadConfig(*flagConfig)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *flagDebug {
		v.Set("debug", true)
	}

	if *flagTrace {
		v.Set("trace", true)
	}

	logger = config.NewLogger(v, "main")

	if *flagGops {
		if err := agent.Listen(agent.Options{}); err != nil {
			logger.Error(err)
		}
	}

	if *flagMetrics != "" {
		go serveMetrics(*flagMetrics)
	}

	cred, err := bridge.CredentialsFromConfig(v)
	if err != nil {
		logger.Fatal(err)
	}

	m, err := matrix.New(v, cred, config.NewLogger(v, "bridge/matrix"))
	if err != nil {
		logger.Fatalf("login failed: %s", err)
	}
	defer m.Close()

	rooms := joinRooms(m, v.GetStringSlice("matrix.rooms"))

	if *flagList {
		for _, r := range rooms {
			r.ReloadName()
			r.ReloadTopic()
			r.ReloadCanonicalAlias()
			fmt.Println(describeRoom(r, 72))
		}

		return
	}

	if v.GetBool("matrix.autojoin") {
		m.OnInvite(func(roomID id.RoomID) {
			go func() {
				if r, err := m.JoinRoom(roomID.String()); err == nil {
					m.WithRoom(r.ID(), watchRoom)
				} else {
					logger.Errorf("joining %s failed: %s", roomID, err)
				}
			}()
		})
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		logger.Info("stopping sync")
		m.StopSync()
	}()

	if err := m.Sync(); err != nil {
		logger.Errorf("sync stopped: %s", err)
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	logger.Infof("serving metrics on %s", addr)

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Errorf("metrics listener: %s", err)
	}
}

func joinRooms(m *matrix.Matrix, names []string) []*room.Room {
	var rooms []*room.Room

	for _, name := range names {
		r, err := m.JoinRoom(name)
		if err != nil {
			logger.Errorf("joining %s failed: %s", name, err)
			continue
		}

		logger.Infof("joined %s as %s", name, r.ID())
		m.WithRoom(r.ID(), watchRoom)
		rooms = append(rooms, r)
	}

	return rooms
}

func watchRoom(r *room.Room) {
	r.AddListener(func(rec room.Record) {
		body, _ := rec.Event().Content.Raw["body"].(string)
		logger.Infof("[%s] <%s> %s", r.DisplayName(), rec.Sender(), body)
	}, "m.room.message")
}

// describeRoom returns the listing line for a room with its topic wrapped
// to width and indented below it.
func describeRoom(r *room.Room, width int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s)", r.DisplayName(), r.ID())

	if alias := r.CanonicalAlias(); alias != "" {
		fmt.Fprintf(&b, " %s", alias)
	}

	if topic := r.Topic(); topic != "" {
		for _, line := range strings.Split(wordwrap.String(topic, width), "\n") {
			b.WriteString("\n    " + line)
		}
	}

	return b.String()
}
