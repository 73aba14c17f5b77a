package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/kitzur/internal/errs"
	"github.com/roach88/kitzur/internal/qa"
	"github.com/roach88/kitzur/internal/store"
)

// QuestionList is the output of the list, similar and import subcommands.
type QuestionList struct {
	Questions []qa.Question `json:"questions"`
}

func (r QuestionList) Text() string {
	if len(r.Questions) == 0 {
		return "No questions."
	}
	var b strings.Builder
	for i, q := range r.Questions {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(questionLine(q))
	}
	return b.String()
}

// QuestionHits is the output of questions search.
type QuestionHits struct {
	Query string   `json:"query"`
	Hits  []qa.Hit `json:"hits"`
}

func (r QuestionHits) Text() string {
	if len(r.Hits) == 0 {
		return "No matches."
	}
	var b strings.Builder
	for i, h := range r.Hits {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d\t%s", h.Score, questionLine(h.Question))
	}
	return b.String()
}

// QuestionResult is the output of ask and answer.
type QuestionResult struct {
	Question qa.Question `json:"question"`
}

func (r QuestionResult) Text() string {
	s := questionLine(r.Question)
	if r.Question.Answered() {
		s += "\n" + r.Question.Answer.Text
		if r.Question.Answer.Reference != "" {
			s += " (" + r.Question.Answer.Reference + ")"
		}
	}
	return s
}

func questionLine(q qa.Question) string {
	mark := " "
	if q.Answered() {
		mark = "✓"
	}
	return fmt.Sprintf("%s %s [%s] %s", mark, q.ID, q.Category, q.Text)
}

// NewQuestionsCommand creates the questions command group.
func NewQuestionsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "questions",
		Aliases: []string{"qa"},
		Short:   "Ask, answer and search community questions",
	}

	cmd.AddCommand(newQuestionsListCommand(rootOpts))
	cmd.AddCommand(newQuestionsSearchCommand(rootOpts))
	cmd.AddCommand(newQuestionsAskCommand(rootOpts))
	cmd.AddCommand(newQuestionsAnswerCommand(rootOpts))
	cmd.AddCommand(newQuestionsImportCommand(rootOpts))
	cmd.AddCommand(newQuestionsSimilarCommand(rootOpts))
	return cmd
}

// withStore opens the configured database for the duration of fn.
func withStore(opts *RootOptions, fn func(*store.Store) error) error {
	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func loadQuestions(ctx context.Context, opts *RootOptions) ([]qa.Question, error) {
	var out []qa.Question
	err := withStore(opts, func(st *store.Store) error {
		var err error
		out, err = st.Questions(ctx)
		return err
	})
	return out, err
}

func newQuestionsListCommand(rootOpts *RootOptions) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored questions, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			c := qa.Category(category)
			if c != "" && !c.Valid() {
				return f.Fail("invalid --category", errs.InvalidArgument("unknown category %q", category))
			}
			questions, err := loadQuestions(cmd.Context(), rootOpts)
			if err != nil {
				return f.Fail("failed to load questions", err)
			}
			return f.Success(QuestionList{Questions: nonNil(qa.FilterCategory(questions, c))})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list this category")
	return cmd
}

func newQuestionsSearchCommand(rootOpts *RootOptions) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Rank stored questions against a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			questions, err := loadQuestions(cmd.Context(), rootOpts)
			if err != nil {
				return f.Fail("failed to load questions", err)
			}
			query := strings.Join(args, " ")
			hits := qa.Search(qa.FilterCategory(questions, qa.Category(category)), query)
			if hits == nil {
				hits = []qa.Hit{}
			}
			return f.Success(QuestionHits{Query: query, Hits: hits})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only search this category")
	return cmd
}

func newQuestionsAskCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		category string
		tags     []string
		by       string
	)

	cmd := &cobra.Command{
		Use:   "ask <text>...",
		Short: "Store a new question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			q, err := qa.NewQuestion(strings.Join(args, " "), qa.Category(category), tags, by, rootOpts.clock().Now())
			if err != nil {
				return f.Fail("invalid question", err)
			}
			if err := withStore(rootOpts, func(st *store.Store) error {
				return st.SaveQuestion(cmd.Context(), q)
			}); err != nil {
				return f.Fail("failed to save question", err)
			}
			rootOpts.Logger.Info("question stored", "id", q.ID, "category", q.Category)
			return f.Success(QuestionResult{Question: q})
		},
	}
	cmd.Flags().StringVar(&category, "category", string(qa.CategoryOther), "question category")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	cmd.Flags().StringVar(&by, "by", "", "who asked")
	return cmd
}

func newQuestionsAnswerCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		reference string
		by        string
		source    string
	)

	cmd := &cobra.Command{
		Use:   "answer <id> <text>...",
		Short: "Attach an answer to a stored question",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			text := strings.TrimSpace(strings.Join(args[1:], " "))
			if text == "" {
				return f.Fail("invalid answer", errs.InvalidArgument("answer text is empty"))
			}
			src := qa.AnswerSource(source)
			switch src {
			case qa.SourceRabbi, qa.SourceCommunity, qa.SourceAI:
			default:
				return f.Fail("invalid --source", errs.InvalidArgument("unknown answer source %q", source))
			}

			var q qa.Question
			err := withStore(rootOpts, func(st *store.Store) error {
				var err error
				if q, err = st.Question(cmd.Context(), args[0]); err != nil {
					return err
				}
				q.Answer = &qa.Answer{Text: text, Reference: reference, AnsweredBy: by, Source: src}
				return st.SaveQuestion(cmd.Context(), q)
			})
			if err != nil {
				return f.Fail("failed to answer question", err)
			}
			return f.Success(QuestionResult{Question: q})
		},
	}
	cmd.Flags().StringVar(&reference, "reference", "", "source reference, e.g. a unit id")
	cmd.Flags().StringVar(&by, "by", "", "who answered")
	cmd.Flags().StringVar(&source, "source", string(qa.SourceCommunity), "answer source (rabbi|community|ai)")
	return cmd
}

func newQuestionsImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import questions from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			questions, err := qa.ReadFile(args[0])
			if err != nil {
				return f.Fail("failed to read questions", err)
			}
			err = withStore(rootOpts, func(st *store.Store) error {
				for _, q := range questions {
					if err := st.SaveQuestion(cmd.Context(), q); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return f.Fail("failed to import questions", err)
			}
			rootOpts.Logger.Info("questions imported", "file", args[0], "count", len(questions))
			return f.Success(QuestionList{Questions: nonNil(questions)})
		},
	}
	return cmd
}

func newQuestionsSimilarCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "similar <text>...",
		Short: "Find stored questions that fuzzy-match a text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			questions, err := loadQuestions(cmd.Context(), rootOpts)
			if err != nil {
				return f.Fail("failed to load questions", err)
			}
			similar, err := qa.Similar(questions, strings.Join(args, " "), rootOpts.Config.FuzzyThreshold)
			if err != nil {
				return f.Fail("failed to compare questions", err)
			}
			return f.Success(QuestionList{Questions: nonNil(similar)})
		},
	}
	return cmd
}

func nonNil(qs []qa.Question) []qa.Question {
	if qs == nil {
		return []qa.Question{}
	}
	return qs
}
