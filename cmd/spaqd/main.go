// Command spaqd is the long-running query daemon: it keeps one or more
// parsed programs ("sessions") warm in memory and answers PQL queries
// against them over a Unix domain socket, so a test harness issuing many
// queries against the same program doesn't pay reparse cost per query.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arzin/spaq/internal/config"
	"github.com/arzin/spaq/internal/daemon"
	"github.com/arzin/spaq/internal/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "spaqd: loading config:", err)
		os.Exit(1)
	}
	if v := os.Getenv("SPAQ_VERBOSE"); v != "" {
		cfg.Debug = true
	}
	if cfg.Debug {
		log.Default().SetLevel(log.DebugLevel)
	}

	d := newServer(cfg)

	listener, err := d.listen()
	if err != nil {
		fmt.Fprintln(os.Stderr, "spaqd: listening:", err)
		os.Exit(1)
	}
	defer listener.Close()

	if err := daemon.WritePID(os.Getpid()); err != nil {
		fmt.Fprintln(os.Stderr, "spaqd: writing PID file:", err)
		os.Exit(1)
	}
	defer daemon.RemovePID()

	if err := daemon.WriteStatus(&daemon.DaemonStatus{
		Running: true,
		PID:     os.Getpid(),
		Ready:   true,
		Version: version,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "spaqd: writing status file:", err)
	}
	defer daemon.RemoveStatus()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	done := make(chan struct{})
	go func() {
		d.serve(listener)
		close(done)
	}()

	log.Default().Info("spaqd listening", "socket", cfg.SocketPath)

	select {
	case <-ctx.Done():
		log.Default().Info("spaqd shutting down")
		listener.Close()
	case <-done:
	}
}

const version = "0.1.0"
