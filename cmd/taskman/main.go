// Package main is the entry point for the taskman CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"taskman/internal/api"
	"taskman/internal/cli"
	"taskman/internal/commands"
	"taskman/internal/config"
	"taskman/internal/session"
	"taskman/internal/storage"
	"taskman/internal/tasks"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newApp)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}

// newApp wires the storage, API client and stores for one invocation.
func newApp(ctx context.Context, cfg *config.Config) (*commands.App, error) {
	if err := cfg.EnsureDir(); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	st, err := storage.Open(cfg.SessionDBPath())
	if err != nil {
		return nil, fmt.Errorf("open session storage: %w", err)
	}

	conv, err := api.ParseConvention(cfg.Backend)
	if err != nil {
		return nil, err
	}

	var debug io.Writer = io.Discard
	if cfg.Debug {
		debug = os.Stderr
	}

	client := api.New(cfg.BaseURL, conv, st, api.WithUnauthenticatedHook(func() {
		// The hard-redirect analogue: the persisted session is already
		// cleared by the transport when this fires.
		fmt.Fprintln(os.Stderr, "session expired (run: taskman login)")
	}))

	return &commands.App{
		Session: session.New(client.Auth(), st, debug),
		Tasks:   tasks.New(client.Tasks(), conv),
	}, nil
}
