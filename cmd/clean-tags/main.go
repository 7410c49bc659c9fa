package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"cleantags/internal/cleaner"
	"cleantags/internal/config"
	"cleantags/internal/logging"
)

type cliFlags struct {
	configPath string
	threshold  int
	execute    bool
	block      string
	suffix     string
	sqlitePath string
	verbose    bool
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fatalf("clean-tags: %v", err)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		f      cliFlags
		logger *logging.Logger
	)
	def := config.Default()

	cmd := &cobra.Command{
		Use:   "clean-tags [file]",
		Short: "Report rarely used tags in a generated data file and optionally strip them",
		Long: `clean-tags counts how often each tag appears in the records of a generated
data file (const FULL_DATA = [[id, 'a', 'b', ['tag', ...]], ...];) and lists
the tags used fewer times than the threshold.

Nothing is written unless --execute is given. In execute mode a cleaned copy
is written next to the input (data.js -> data_cleaned.js); the input itself
is never modified.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewLogger(stderr)
			logging.SetVerbose(f.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f, args)
			if err != nil {
				return err
			}
			opts := cleaner.Options{
				Path:      cfg.Input,
				Threshold: cfg.ThresholdValue(),
				Execute:   f.execute,
				Block:     cfg.Block,
				Suffix:    cfg.Suffix,
				SQLite:    cfg.SQLite,
			}
			logger.Debug().
				Str("input", opts.Path).
				Int("threshold", opts.Threshold).
				Bool("execute", opts.Execute).
				Msg("starting run")

			_, err = cleaner.Run(opts, stdout, logger)
			switch {
			case errors.Is(err, cleaner.ErrFileNotFound):
				fmt.Fprintf(stdout, "Error: %s was not found.\n", opts.Path)
				return nil
			case errors.Is(err, cleaner.ErrBlockNotFound):
				fmt.Fprintf(stdout, "No const %s declaration found in %s.\n", opts.Block, opts.Path)
				return nil
			}
			return err
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&f.configPath, "config", "c", "", "Optional YAML settings file")
	flags.IntVarP(&f.threshold, "threshold", "t", def.ThresholdValue(), "Tags used fewer times than this are removal candidates")
	flags.BoolVarP(&f.execute, "execute", "x", false, "Write the cleaned copy instead of only reporting")
	flags.StringVar(&f.block, "block", def.Block, "Name of the declared data array")
	flags.StringVar(&f.suffix, "suffix", def.Suffix, "Suffix inserted before the extension of the cleaned file")
	flags.StringVar(&f.sqlitePath, "sqlite", "", "Optional SQLite path for the tag tally")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	return cmd
}

// resolveConfig layers defaults, the optional settings file, explicitly set
// flags and the positional file argument, in that order.
func resolveConfig(cmd *cobra.Command, f cliFlags, args []string) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("threshold") {
		threshold := f.threshold
		cfg.Threshold = &threshold
	}
	if flags.Changed("block") {
		cfg.Block = f.block
	}
	if flags.Changed("suffix") {
		cfg.Suffix = f.suffix
	}
	if flags.Changed("sqlite") {
		cfg.SQLite = f.sqlitePath
	}
	if len(args) == 1 {
		cfg.Input = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func fatalf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}
