package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/kitzur/internal/errs"
	"github.com/roach88/kitzur/internal/hebrew"
	"github.com/roach88/kitzur/internal/match"
)

// NormalizeResult is the output of the normalize command.
type NormalizeResult struct {
	Input      string `json:"input"`
	Normalized string `json:"normalized"`
	Words      int    `json:"words"`
}

func (r NormalizeResult) Text() string { return r.Normalized }

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <text>...",
		Short: "Print the canonical comparison form of Hebrew text",
		Long: `Strip vowel points and cantillation, geresh and gershayim, turn maqaf
into a space, fold final letters and ASCII case, and trim.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.Join(args, " ")
			normalized := hebrew.Normalize(input)
			return rootOpts.formatter(cmd).Success(NormalizeResult{
				Input:      input,
				Normalized: normalized,
				Words:      hebrew.CountWords(normalized),
			})
		},
	}
}

// MatchResult is the output of the match command.
type MatchResult struct {
	Mode      string   `json:"mode"`
	A         string   `json:"a"`
	B         string   `json:"b"`
	Match     bool     `json:"match"`
	Ratio     float64  `json:"ratio"`
	Threshold *float64 `json:"threshold,omitempty"`
}

func (r MatchResult) Text() string {
	if r.Mode == "ratio" {
		return strconv.FormatFloat(r.Ratio, 'f', 4, 64)
	}
	return strconv.FormatBool(r.Match)
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "match <exact|contains|fuzzy|ratio> <a> <b>",
		Short: "Compare two strings in normalized form",
		Long: `Compare two strings after normalization.

  exact     a and b normalize to the same string
  contains  a (the query) occurs inside b
  fuzzy     similarity ratio of a and b reaches --threshold
  ratio     print the similarity ratio`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			mode, a, b := args[0], args[1], args[2]
			res := MatchResult{Mode: mode, A: a, B: b, Ratio: match.Ratio(a, b)}

			switch mode {
			case "exact":
				res.Match = match.Exact(a, b)
			case "contains":
				res.Match = match.Contains(a, b)
			case "ratio":
				res.Match = true
			case "fuzzy":
				th := rootOpts.Config.FuzzyThreshold
				if cmd.Flags().Changed("threshold") {
					th = threshold
				}
				ok, err := match.Fuzzy(a, b, th)
				if err != nil {
					return f.Fail("fuzzy match failed", err)
				}
				res.Match = ok
				res.Threshold = &th
			default:
				return f.Fail("match failed", errs.InvalidArgument("unknown mode %q", mode))
			}
			return f.Success(res)
		},
	}

	cmd.Flags().Float64VarP(&threshold, "threshold", "t", match.DefaultThreshold, "fuzzy similarity threshold in [0,1]")
	return cmd
}

// GematriaResult is the output of the gematria command.
type GematriaResult struct {
	Value   int    `json:"value"`
	Numeral string `json:"numeral"`
}

func (r GematriaResult) Text() string { return fmt.Sprintf("%d\t%s", r.Value, r.Numeral) }

// NewGematriaCommand creates the gematria command.
func NewGematriaCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gematria <number|letters>",
		Short: "Convert between numbers and Hebrew numerals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			if n, err := strconv.Atoi(args[0]); err == nil {
				if n < 1 || n > 999 {
					return f.Fail("gematria failed", errs.OutOfRange("numerals cover 1..999, got %d", n))
				}
				return f.Success(GematriaResult{Value: n, Numeral: hebrew.Numeral(n)})
			}
			n := hebrew.ParseNumeral(args[0])
			if n == 0 {
				return f.Fail("gematria failed", errs.InvalidArgument("%q holds no Hebrew letters", args[0]))
			}
			return f.Success(GematriaResult{Value: n, Numeral: hebrew.Numeral(n)})
		},
	}
}
