package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/kitzur/internal/corpus"
	"github.com/roach88/kitzur/internal/cycle"
	"github.com/roach88/kitzur/internal/daily"
	"github.com/roach88/kitzur/internal/errs"
)

// DailyOptions holds flags for the daily command.
type DailyOptions struct {
	*RootOptions
	Date  string
	Days  int
	Watch bool
}

// ScheduleResult is the output of the daily command.
type ScheduleResult struct {
	Entries []cycle.Entry `json:"entries"`
}

func (r ScheduleResult) Text() string {
	if len(r.Entries) == 1 {
		return unitText(r.Entries[0].Unit)
	}
	var b strings.Builder
	for i, e := range r.Entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s\t%d\t%s", e.Day.Format(time.DateOnly), e.Position, e.Unit.ID)
	}
	return b.String()
}

// NewDailyCommand creates the daily command.
func NewDailyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DailyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Show the unit of the day",
		Long: `Show the unit scheduled for today (or --date) in the configured time zone.

With --days N, list N consecutive days. With --watch, keep running and print
the new unit whenever the day rolls over.

Examples:
  kitzur daily
  kitzur daily --date 2026-10-19 --days 7
  kitzur daily --watch --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaily(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "calendar date YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&opts.Days, "days", 1, "number of consecutive days to list")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "keep running and report day changes")
	return cmd
}

func runDaily(opts *DailyOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := cmd.Context()

	ix, err := opts.index(ctx)
	if err != nil {
		return f.Fail("failed to load corpus", err)
	}
	sched, err := opts.scheduler()
	if err != nil {
		return f.Fail("invalid schedule configuration", err)
	}
	svc, err := daily.NewService(ix, sched, opts.Config.CacheSize,
		daily.WithClock(opts.clock()), daily.WithLogger(opts.Logger))
	if err != nil {
		return f.Fail("failed to start daily service", err)
	}

	if opts.Watch {
		w, err := daily.NewWatcher(svc, opts.Config.WatchSpec, func(e cycle.Entry) {
			if err := f.Success(ScheduleResult{Entries: []cycle.Entry{e}}); err != nil {
				opts.Logger.Error("write daily unit", "error", err)
			}
		})
		if err != nil {
			return f.Fail("invalid watch spec", err)
		}
		_ = w.Run(ctx)
		return nil
	}

	from := opts.clock().Now()
	if opts.Date != "" {
		d, err := cycle.ParseDate(opts.Date)
		if err != nil {
			return f.Fail("invalid --date", err)
		}
		// Noon in the scheduler's zone keeps the calendar day intact.
		from = time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, sched.Location())
	}

	if opts.Days == 1 {
		e, err := svc.On(from)
		if err != nil {
			return f.Fail("failed to schedule", err)
		}
		return f.Success(ScheduleResult{Entries: []cycle.Entry{e}})
	}
	entries, err := sched.Window(from, opts.Days, ix)
	if err != nil {
		return f.Fail("failed to schedule", err)
	}
	return f.Success(ScheduleResult{Entries: entries})
}

// UnitResult is the output of the show command.
type UnitResult struct {
	Unit     corpus.Unit `json:"unit"`
	Position int         `json:"position"`
}

func (r UnitResult) Text() string { return unitText(r.Unit) }

func unitText(u corpus.Unit) string {
	header := u.ChapterLabel
	if u.ChapterTitle != "" {
		header += " " + u.ChapterTitle
	}
	return fmt.Sprintf("%s, %d\n%s", header, u.SectionNumber, u.SectionText)
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	var chapter, section int

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a unit by identifier or chapter/section",
		Long: `Show a unit by identifier or by --chapter/--section.

Addresses that do not exist verbatim are resolved onto existing units: a
missing chapter wraps over the chapter list and a missing section wraps over
the chapter's sections. A chapter identifier shows its first section.

Examples:
  kitzur show kitzur_orach_chaim-002-s4
  kitzur show kitzur_orach_chaim-072
  kitzur show --chapter 72 --section 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			ix, err := rootOpts.index(cmd.Context())
			if err != nil {
				return f.Fail("failed to load corpus", err)
			}

			var u corpus.Unit
			switch {
			case len(args) == 1:
				u, err = cycle.ResolveID(ix, args[0])
			case cmd.Flags().Changed("chapter"):
				u, err = cycle.Resolve(ix, cycle.Address{Chapter: chapter, Section: section})
			default:
				err = errs.InvalidArgument("give an identifier or --chapter")
			}
			if err != nil {
				return f.Fail("failed to resolve unit", err)
			}

			pos, err := ix.Position(u.ID)
			if err != nil {
				return f.Fail("failed to resolve unit", err)
			}
			return f.Success(UnitResult{Unit: u, Position: pos})
		},
	}

	cmd.Flags().IntVar(&chapter, "chapter", 0, "chapter (siman) number")
	cmd.Flags().IntVar(&section, "section", 1, "section (seif) number")
	return cmd
}

// SearchResult is the output of the search command.
type SearchResult struct {
	Query string       `json:"query"`
	Hits  []corpus.Hit `json:"hits"`
}

func (r SearchResult) Text() string {
	if len(r.Hits) == 0 {
		return "No matches."
	}
	var b strings.Builder
	for i, h := range r.Hits {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s\t%d\t%s", h.Unit.ID, h.Score, h.Unit.SectionText)
	}
	return b.String()
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Search the corpus text, chapter titles and labels",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			ix, err := rootOpts.index(cmd.Context())
			if err != nil {
				return f.Fail("failed to load corpus", err)
			}
			query := strings.Join(args, " ")
			hits := ix.Search(query, limit)
			if hits == nil {
				hits = []corpus.Hit{}
			}
			return f.Success(SearchResult{Query: query, Hits: hits})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of hits (0 for all)")
	return cmd
}
