package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"renice/internal/app"
	"renice/internal/cli"
	"renice/internal/config"
	"renice/internal/priority"
	"renice/internal/proc"
	"renice/internal/statuslog"
)

// newSource is replaced in tests.
var newSource = func() proc.Source {
	return proc.NewHost()
}

// rootOptions receives the raw flag values shared by every command.
type rootOptions struct {
	configPath string
	watch      bool
	verbose    bool
	dummy      bool
	matches    []string
	interval   int
	logFile    string
	nice       string
	pids       []int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "renice [flags] [pid...]",
		Short: "renice: set the scheduling priority of running processes",
		Long: `renice sets the scheduling priority of processes selected by id (-p) or by a
case-insensitive regular expression (-m) matched against the window title,
process name and command line. Niceness runs from -19 (most favored) to 19
(least favored), or use a name: realtime, high, above, normal, below, idle.

With --watch the priority is re-applied every interval, picking up matching
processes as they start. With --dummy nothing is changed and current
priorities are reported instead.`,
		Example: `  renice -n idle -p 1234
  renice -nhigh -p1234 5678
  renice -n below -m chrome -m steam --watch -i 10
  renice -d -w -m "postgres: .*writer"`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: unexpected arguments %q", app.ErrInvalidArgument, args)
			}
			return opts.run(cmd)
		},
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to YAML config file")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "Keep re-applying the priority every interval")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Report matches and every priority decision")
	flags.BoolVarP(&opts.dummy, "dummy", "d", false, "Report current priorities without changing them")
	flags.StringArrayVarP(&opts.matches, "match", "m", nil, "Regular expression matched against title, name and command line (repeatable)")
	flags.IntVarP(&opts.interval, "interval", "i", int(config.DefaultInterval/time.Second), "Watch interval in seconds")
	flags.StringVarP(&opts.logFile, "logfile", "l", "", "Also append all output to this file")
	flags.StringVarP(&opts.nice, "nice", "n", "", "Target niceness, -19..19 or a priority name")
	flags.IntSliceVarP(&opts.pids, "pid", "p", nil, "Process id to target (repeatable)")

	rootCmd.AddCommand(newClassesCmd(), newTUICmd(opts))
	return rootCmd
}

// normalizeArgs leaves subcommand invocations untouched and rewrites bare
// tokens for the root command.
func normalizeArgs(rootCmd *cobra.Command, args []string) []string {
	if len(args) > 0 {
		if sub, _, err := rootCmd.Find(args); err == nil && sub != rootCmd {
			return args
		}
	}
	return cli.Normalize(args)
}

// resolve merges config file, environment and flags into run options.
func (o *rootOptions) resolve(cmd *cobra.Command) (app.RunOptions, config.Config, error) {
	var run app.RunOptions

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return run, cfg, err
	}
	flags := cmd.Flags()

	niceToken := cfg.Nice
	if flags.Changed("nice") {
		niceToken = o.nice
	}
	if strings.TrimSpace(niceToken) != "" {
		n, err := priority.ParseNiceness(niceToken)
		if err != nil {
			return run, cfg, fmt.Errorf("%w: -n: %w", app.ErrInvalidArgument, err)
		}
		run.Niceness = n
		run.NicenessSet = true
	}

	run.PIDs = append([]int(nil), o.pids...)
	run.Matches = append([]string(nil), o.matches...)
	if len(run.PIDs) == 0 && len(run.Matches) == 0 {
		run.Matches = append(run.Matches, cfg.Matches...)
	}

	run.Interval = cfg.Interval
	if flags.Changed("interval") {
		run.Interval = time.Duration(o.interval) * time.Second
	}
	if flags.Changed("logfile") {
		cfg.LogFile = o.logFile
	}

	run.Watch = o.watch
	run.Dummy = o.dummy
	run.Verbose = o.verbose || cfg.Verbose
	return run, cfg, nil
}

func (o *rootOptions) run(cmd *cobra.Command) error {
	run, cfg, err := o.resolve(cmd)
	if err != nil {
		return err
	}

	logger := statuslog.New(statuslog.Options{
		Out:       cmd.OutOrStdout(),
		Err:       cmd.ErrOrStderr(),
		LogFile:   cfg.LogFile,
		Overwrite: statuslog.IsTerminal(cmd.OutOrStdout()),
	})
	defer logger.Close()

	appOpts := app.Options{Source: newSource(), Log: logger}
	if !run.Watch && !run.Verbose && len(run.Matches) > 0 && statuslog.IsTerminal(os.Stderr) {
		spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		spin.Suffix = " Matching processes…"
		appOpts.Progress = spin
	}

	return app.New(appOpts).Run(cmd.Context(), run)
}
