package corpus

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/kitzur/internal/errs"
)

//go:embed schema.cue
var schemaSource string

// Validate checks records against the corpus CUE schema: at least one record,
// positive chapter and section numbers, non-empty text. Each violation is
// reported in the returned Validation error's Details keyed by CUE path.
//
// Duplicate (chapter, section) pairs are left to Load.
func Validate(records []Record) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile corpus schema: %w", err)
	}

	if records == nil {
		records = []Record{}
	}
	data := ctx.Encode(map[string]any{"records": records})
	if err := data.Err(); err != nil {
		return fmt.Errorf("encode corpus records: %w", err)
	}

	if err := schema.Unify(data).Validate(cue.Concrete(true)); err != nil {
		verr := errs.Validation("corpus does not match schema")
		for _, e := range cueerrors.Errors(err) {
			verr.WithDetail(strings.Join(e.Path(), "."), e.Error())
		}
		return verr
	}
	return nil
}
