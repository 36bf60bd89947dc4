// Command tracker is a terminal client for the task-link store.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/csg33k/tugas-tracker/internal/adapters/remotestore"
	"github.com/csg33k/tugas-tracker/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := cfg.Logger()

	c := &cli{
		store: remotestore.New(cfg.APIBase, nil, log),
		log:   log,
		cfg:   cfg,
		in:    os.Stdin,
		out:   os.Stdout,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := c.root().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errActionFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		stop()
		os.Exit(1)
	}
}
