package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"renice/internal/app"
	"renice/internal/statuslog"
	"renice/internal/tui"
)

// runTUI is replaced in tests.
var runTUI = tui.Run

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse targeted processes and apply priorities interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			run, cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			if _, err := run.Validate(); err != nil {
				return err
			}

			// The terminal belongs to Bubble Tea; only the log file sees output.
			logger := statuslog.New(statuslog.Options{
				Out:     io.Discard,
				Err:     io.Discard,
				LogFile: cfg.LogFile,
			})
			defer logger.Close()

			ctrl := app.New(app.Options{Source: newSource(), Log: logger})
			if err := runTUI(ctrl, run); err != nil {
				return fmt.Errorf("tui exited with error: %w", err)
			}
			return nil
		},
	}
}
