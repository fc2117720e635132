package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/cardroom/handengine/internal/config"
	"github.com/cardroom/handengine/internal/engine"
	"github.com/cardroom/handengine/internal/store"
)

// ReplayCmd folds persisted event logs back into hand state. Replay is a
// pure fold with no side effects, so independent hands run concurrently.
type ReplayCmd struct {
	Files       []string `arg:"" optional:"" type:"existingfile" help:"JSON event log files to replay"`
	DB          string   `help:"SQLite event store to replay hands from" type:"path"`
	Hands       []string `help:"Hand IDs to replay from the store (default: all)"`
	Config      string   `help:"HCL game config file" default:"handengine.hcl"`
	Concurrency int      `help:"Maximum concurrent replays" default:"4"`
}

type replayJob struct {
	name string
	load func(ctx context.Context) ([]engine.Event, error)
}

func (r *ReplayCmd) Run(cli *CLI) error {
	logger := newLogger(cli.Debug)

	cfg, err := config.Load(r.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	jobs, closeStore, err := r.jobs(logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if len(jobs) == 0 {
		return fmt.Errorf("nothing to replay: pass log files or --db")
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(r.Concurrency)
	for _, job := range jobs {
		g.Go(func() error {
			return replayOne(ctx, logger, cfg, job)
		})
	}
	return g.Wait()
}

func (r *ReplayCmd) jobs(logger *log.Logger) ([]replayJob, func(), error) {
	var jobs []replayJob
	for _, file := range r.Files {
		jobs = append(jobs, replayJob{
			name: file,
			load: func(context.Context) ([]engine.Event, error) { return loadEventFile(file) },
		})
	}

	closeStore := func() {}
	if r.DB != "" {
		db, err := store.OpenSQLite(r.DB)
		if err != nil {
			return nil, closeStore, err
		}
		closeStore = func() {
			if err := db.Close(); err != nil {
				logger.Error("close store", "error", err)
			}
		}

		hands := r.Hands
		if len(hands) == 0 {
			hands, err = db.Hands(context.Background())
			if err != nil {
				return nil, closeStore, err
			}
		}
		for _, handID := range hands {
			jobs = append(jobs, replayJob{
				name: handID,
				load: func(ctx context.Context) ([]engine.Event, error) { return db.Load(ctx, handID) },
			})
		}
	}
	return jobs, closeStore, nil
}

func replayOne(ctx context.Context, logger *log.Logger, cfg engine.GameConfig, job replayJob) error {
	events, err := job.load(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", job.name, err)
	}

	e, err := engine.New(cfg, engine.WithEvents(events), engine.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("%s: %w", job.name, err)
	}

	state := e.CurrentState()
	logger.Info("replayed hand",
		"source", job.name,
		"gameId", state.GameID,
		"events", len(state.Events),
		"street", state.Street,
		"complete", state.Complete,
		"pot", state.TotalPot(),
		"winners", formatWinners(state.Winners),
	)
	return nil
}

func formatWinners(winners []engine.Winner) string {
	if len(winners) == 0 {
		return "-"
	}
	parts := make([]string, len(winners))
	for i, w := range winners {
		parts[i] = fmt.Sprintf("%s:%d", w.PlayerID, w.Amount)
	}
	return strings.Join(parts, ",")
}

func loadEventFile(path string) ([]engine.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var events []engine.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("decode event log: %w", err)
	}
	return events, nil
}
