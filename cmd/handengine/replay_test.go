package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroom/handengine/internal/engine"
)

func writeEventLog(t *testing.T, events []engine.Event) string {
	t.Helper()
	data, err := json.Marshal(events)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "hand.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func sampleHandLog(t *testing.T) []engine.Event {
	t.Helper()
	e, err := engine.New(engine.GameConfig{
		Variant: "nlhe",
		Format:  engine.FormatCash,
		Blinds:  engine.Blinds{Small: 5, Big: 10},
	})
	require.NoError(t, err)

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	apply := func(id string, p engine.Payload) {
		ts = ts.Add(time.Second)
		_, err := e.ApplyEvent(engine.NewEvent(id, ts, p))
		require.NoError(t, err)
	}
	apply("evt_1", engine.HandInitialized{
		GameID:     "hand_1",
		GameType:   "nlhe",
		GameFormat: engine.FormatCash,
		Blinds:     engine.Blinds{Small: 5, Big: 10},
		Players: []engine.SeatedPlayer{
			{ID: "btn", Name: "btn", Position: engine.PositionBTN, Seat: 1, Stack: 1000},
			{ID: "bb", Name: "bb", Position: engine.PositionBB, Seat: 2, Stack: 1000},
		},
	})
	apply("evt_2", engine.BlindsPosted{Posts: []engine.BlindPost{
		{PlayerID: "btn", Type: engine.BlindSmall, Amount: 5},
		{PlayerID: "bb", Type: engine.BlindBig, Amount: 10},
	}})
	apply("evt_3", engine.ActionTaken{PlayerID: "btn", Action: engine.ActionFold, Street: engine.StreetPreflop})

	return e.CurrentState().Events
}

func TestLoadEventFile(t *testing.T) {
	t.Parallel()
	events := sampleHandLog(t)
	path := writeEventLog(t, events)

	loaded, err := loadEventFile(path)
	require.NoError(t, err)
	require.Len(t, loaded, len(events))
	assert.Equal(t, engine.EventHandInitialized, loaded[0].Type)
	assert.Equal(t, engine.EventHandCompleted, loaded[len(loaded)-1].Type)
}

func TestLoadEventFileErrors(t *testing.T) {
	t.Parallel()
	_, err := loadEventFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "garbage.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	_, err = loadEventFile(path)
	require.Error(t, err)
}

func TestReplayOneFromFile(t *testing.T) {
	t.Parallel()
	path := writeEventLog(t, sampleHandLog(t))

	job := replayJob{
		name: path,
		load: func(context.Context) ([]engine.Event, error) { return loadEventFile(path) },
	}
	logger := log.New(os.Stderr)
	logger.SetLevel(log.FatalLevel)

	err := replayOne(context.Background(), logger, engine.GameConfig{
		Variant: "nlhe",
		Format:  engine.FormatCash,
		Blinds:  engine.Blinds{Small: 5, Big: 10},
	}, job)
	require.NoError(t, err)
}

func TestFormatWinners(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "-", formatWinners(nil))
	assert.Equal(t, "bb:15", formatWinners([]engine.Winner{{PlayerID: "bb", Amount: 15}}))
	assert.Equal(t, "a:10,b:10", formatWinners([]engine.Winner{
		{PlayerID: "a", Amount: 10},
		{PlayerID: "b", Amount: 10},
	}))
}
