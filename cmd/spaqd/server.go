package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arzin/spaq/internal/config"
	"github.com/arzin/spaq/internal/daemon"
	"github.com/arzin/spaq/internal/log"
	"github.com/arzin/spaq/internal/snapshot"
	"github.com/arzin/spaq/pkg/engine"
)

// Command is the wire request envelope, shared with the CLI's status/stop
// pings (internal/daemon sends the same "type"/"id" shape).
type Command struct {
	Type    string      `json:"type"`
	ID      string      `json:"id"`
	Session string      `json:"session,omitempty"`
	Path    string      `json:"path,omitempty"`
	Query   string      `json:"query,omitempty"`
	Warm    []WarmEntry `json:"warm,omitempty"`
}

// WarmEntry names one session to parse as part of a batch "warm" command.
type WarmEntry struct {
	Session string `json:"session"`
	Path    string `json:"path"`
}

// Response is the wire reply envelope.
type Response struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// server holds the daemon's session map: each session id owns at most one
// Engine, so a harness can keep several programs warm concurrently without
// one Parse call evicting another's PKB.
type server struct {
	cfg  *config.Config
	snap *snapshot.Store

	mu       sync.Mutex
	sessions map[string]*engine.Engine
}

func newServer(cfg *config.Config) *server {
	return &server{
		cfg:      cfg,
		snap:     snapshot.NewStore(cfg.CacheDir, 512),
		sessions: make(map[string]*engine.Engine),
	}
}

func (s *server) session(id string) *engine.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		e = engine.NewWithAffectsCacheSize(s.cfg.AffectsCacheSize)
		s.sessions[id] = e
	}
	return e
}

func (s *server) sessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// listen opens the socket spaqd accepts connections on: a Unix domain
// socket at cfg.SocketPath, or loopback TCP (SPAQ_TCP_PORT, else
// daemon.DefaultTCPPort) on Windows or when SocketPath is not absolute.
func (s *server) listen() (net.Listener, error) {
	if runtime.GOOS == "windows" || !strings.HasPrefix(s.cfg.SocketPath, "/") {
		port := os.Getenv("SPAQ_TCP_PORT")
		if port == "" {
			port = daemon.DefaultTCPPort
		}
		return net.Listen("tcp", "localhost:"+port)
	}

	os.Remove(s.cfg.SocketPath)
	return net.Listen("unix", s.cfg.SocketPath)
}

func (s *server) serve(listener net.Listener) {
	backoff := 10 * time.Millisecond
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Default().Warn("accept failed", "error", err)
			time.Sleep(backoff)
			if backoff < time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = 10 * time.Millisecond
		go s.handleConn(conn)
	}
}

func (s *server) handleConn(conn net.Conn) {
	defer conn.Close()

	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)

	for {
		var cmd Command
		if err := dec.Decode(&cmd); err != nil {
			return
		}

		resp := s.dispatch(&cmd)
		if err := enc.Encode(resp); err != nil {
			return
		}
		if cmd.Type == "stop" {
			return
		}
	}
}

func (s *server) dispatch(cmd *Command) Response {
	switch cmd.Type {
	case "status":
		return s.handleStatus(cmd)
	case "parse":
		return s.handleParse(cmd)
	case "warm":
		return s.handleWarm(cmd)
	case "query":
		return s.handleQuery(cmd)
	case "stop":
		return s.handleStop(cmd)
	default:
		return Response{ID: cmd.ID, Error: fmt.Sprintf("unknown command type %q", cmd.Type)}
	}
}

func (s *server) handleStatus(cmd *Command) Response {
	return Response{ID: cmd.ID, Result: map[string]interface{}{
		"status":   "running",
		"version":  version,
		"sessions": s.sessionCount(),
	}}
}

func (s *server) handleParse(cmd *Command) Response {
	if cmd.Session == "" {
		return Response{ID: cmd.ID, Error: "parse requires a session id"}
	}
	if cmd.Path == "" {
		return Response{ID: cmd.ID, Error: "parse requires a path"}
	}

	e := s.session(cmd.Session)
	src, err := os.ReadFile(cmd.Path)
	if err != nil {
		return Response{ID: cmd.ID, Error: err.Error()}
	}
	if err := e.ParseSource(string(src)); err != nil {
		return Response{ID: cmd.ID, Error: err.Error()}
	}

	hash := snapshot.Hash(src)
	sum := snapshot.Of(hash, e.PKB())
	if err := s.snap.Save(sum); err != nil {
		log.Default().Warn("saving snapshot failed", "error", err)
	}

	return Response{ID: cmd.ID, Result: sum}
}

// handleWarm parses several sessions concurrently, the daemon's fan-out
// path for a harness that wants many programs resident before the first
// query lands.
func (s *server) handleWarm(cmd *Command) Response {
	results := make([]Response, len(cmd.Warm))

	var g errgroup.Group
	for i, entry := range cmd.Warm {
		i, entry := i, entry
		g.Go(func() error {
			results[i] = s.handleParse(&Command{ID: entry.Session, Session: entry.Session, Path: entry.Path})
			return nil
		})
	}
	_ = g.Wait()

	failures := 0
	for _, r := range results {
		if r.Error != "" {
			failures++
		}
	}

	return Response{ID: cmd.ID, Result: map[string]interface{}{
		"warmed":   len(cmd.Warm) - failures,
		"failed":   failures,
		"sessions": results,
	}}
}

func (s *server) handleQuery(cmd *Command) Response {
	if cmd.Session == "" {
		return Response{ID: cmd.ID, Error: "query requires a session id"}
	}

	s.mu.Lock()
	e, ok := s.sessions[cmd.Session]
	s.mu.Unlock()
	if !ok {
		return Response{ID: cmd.ID, Error: fmt.Sprintf("unknown session %q", cmd.Session)}
	}
	if !e.Loaded() {
		return Response{ID: cmd.ID, Error: fmt.Sprintf("session %q has no loaded program", cmd.Session)}
	}

	return Response{ID: cmd.ID, Result: e.Evaluate(cmd.Query)}
}

func (s *server) handleStop(cmd *Command) Response {
	go func() {
		p, err := os.FindProcess(os.Getpid())
		if err == nil {
			p.Signal(os.Interrupt)
		}
	}()
	return Response{ID: cmd.ID, Result: "stopping"}
}
