package main

import (
	"fmt"
)

// ValidateCmd checks event log files for structural problems: malformed
// envelopes, unknown event types, missing IDs or timestamps. It never
// applies domain rules; use replay for that.
type ValidateCmd struct {
	Files []string `arg:"" type:"existingfile" help:"JSON event log files to validate"`
}

func (v *ValidateCmd) Run(cli *CLI) error {
	logger := newLogger(cli.Debug)

	failed := 0
	for _, file := range v.Files {
		events, err := loadEventFile(file)
		if err != nil {
			logger.Error("unreadable log", "file", file, "error", err)
			failed++
			continue
		}

		bad := 0
		for i, ev := range events {
			if err := ev.Validate(); err != nil {
				logger.Error("invalid event", "file", file, "index", i, "error", err)
				bad++
			}
		}
		if bad > 0 {
			failed++
			continue
		}
		logger.Info("log is well-formed", "file", file, "events", len(events))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(v.Files))
	}
	return nil
}
