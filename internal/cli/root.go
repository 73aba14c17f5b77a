// Package cli implements the kitzur command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/kitzur/internal/config"
	"github.com/roach88/kitzur/internal/corpus"
	"github.com/roach88/kitzur/internal/cycle"
	"github.com/roach88/kitzur/internal/daily"
	"github.com/roach88/kitzur/internal/store"
)

// RootOptions holds global flags and the state every command shares.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Corpus     string // overrides config corpus
	DB         string // overrides config db
	FromDB     bool   // read the corpus from the database instead of files

	// Config is loaded in PersistentPreRunE.
	Config config.Config

	// Clock supplies "now" for daily; nil means the system clock.
	Clock daily.Clock

	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the kitzur CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kitzur",
		Short: "Kitzur Shulchan Aruch daily study",
		Long: `Normalize and match Hebrew text, and schedule the daily unit of the
Kitzur Shulchan Aruch over a perpetual cycle.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return opts.setup(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.Corpus, "corpus", "", "corpus file or directory")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "SQLite database path")
	cmd.PersistentFlags().BoolVar(&opts.FromDB, "from-db", false, "read the corpus from the database")

	cmd.AddCommand(NewNormalizeCommand(opts))
	cmd.AddCommand(NewMatchCommand(opts))
	cmd.AddCommand(NewGematriaCommand(opts))
	cmd.AddCommand(NewDailyCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewQuestionsCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// setup loads the configuration, applies flag overrides and builds the
// logger.
func (o *RootOptions) setup(stderr io.Writer) error {
	cfg := config.Defaults()
	if o.ConfigPath != "" {
		loaded, err := config.Load(o.ConfigPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = loaded
	}
	if o.Corpus != "" {
		cfg.Corpus = o.Corpus
	}
	if o.DB != "" {
		cfg.DB = o.DB
	}
	o.Config = cfg

	level, err := cfg.Level()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid log level", err)
	}
	if o.Verbose {
		level = slog.LevelDebug
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	}
	return nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// source reads the configured corpus, from files or the database.
func (o *RootOptions) source(ctx context.Context) (*corpus.Source, error) {
	if o.FromDB {
		st, err := store.Open(o.Config.DB)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		return st.LoadCorpus(ctx)
	}

	src, err := corpus.ReadFile(o.Config.Corpus)
	if err != nil {
		return nil, err
	}
	if src.Prefix == "" {
		src.Prefix = o.Config.Prefix
	}
	return src, nil
}

// index reads and loads the configured corpus.
func (o *RootOptions) index(ctx context.Context) (*corpus.Index, error) {
	src, err := o.source(ctx)
	if err != nil {
		return nil, err
	}
	ix, err := src.Index()
	if err != nil {
		return nil, err
	}
	o.Logger.Debug("corpus loaded", "prefix", ix.Prefix(), "units", ix.TotalUnits())
	return ix, nil
}

// scheduler builds the cycle scheduler from the configured anchor and zone.
func (o *RootOptions) scheduler() (*cycle.Scheduler, error) {
	anchor, err := o.Config.AnchorDate()
	if err != nil {
		return nil, err
	}
	loc, err := o.Config.Location()
	if err != nil {
		return nil, err
	}
	return cycle.NewScheduler(anchor, loc), nil
}

func (o *RootOptions) clock() daily.Clock {
	if o.Clock != nil {
		return o.Clock
	}
	return daily.SystemClock{}
}

// openStore opens the configured database.
func (o *RootOptions) openStore() (*store.Store, error) {
	return store.Open(o.Config.DB)
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	cmd := NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !Reported(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		return GetExitCode(err)
	}
	return ExitSuccess
}
