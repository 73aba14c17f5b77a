package testutil

import (
	_ "embed"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/kitzur/internal/corpus"
)

// SampleCorpus is an eleven-unit corpus over chapters 1, 2, 3 and 5.
//
//go:embed testdata/corpus.yaml
var SampleCorpus []byte

// WriteSampleCorpus writes SampleCorpus into a temp directory and returns
// its path.
func WriteSampleCorpus(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	if err := os.WriteFile(path, SampleCorpus, 0o644); err != nil {
		t.Fatalf("write sample corpus: %v", err)
	}
	return path
}

// SampleIndex loads SampleCorpus into an index.
func SampleIndex(t testing.TB) *corpus.Index {
	t.Helper()
	ix, err := corpus.Open(WriteSampleCorpus(t))
	if err != nil {
		t.Fatalf("load sample corpus: %v", err)
	}
	return ix
}
