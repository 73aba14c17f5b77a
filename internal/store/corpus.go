package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/kitzur/internal/corpus"
	"github.com/roach88/kitzur/internal/errs"
)

const metaPrefix = "corpus_prefix"

type sectionRow struct {
	Chapter      int    `db:"chapter"`
	Section      int    `db:"section"`
	ChapterLabel string `db:"chapter_label"`
	ChapterTitle string `db:"chapter_title"`
	Text         string `db:"text"`
}

// ImportCorpus replaces the stored corpus with src.
// The source is validated and indexed first; nothing is written if that
// fails. Returns the number of sections written.
func (s *Store) ImportCorpus(ctx context.Context, src *corpus.Source) (int, error) {
	if src == nil {
		return 0, errs.InvalidArgument("corpus source is nil")
	}
	ix, err := src.Index()
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM sections"); err != nil {
		return 0, fmt.Errorf("clear sections: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		metaPrefix, ix.Prefix(),
	); err != nil {
		return 0, fmt.Errorf("store prefix: %w", err)
	}

	stmt, err := tx.PrepareNamedContext(ctx, `
		INSERT INTO sections (chapter, section, chapter_label, chapter_title, text)
		VALUES (:chapter, :section, :chapter_label, :chapter_title, :text)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare section insert: %w", err)
	}
	defer stmt.Close()

	units := ix.Units()
	for _, u := range units {
		row := sectionRow{
			Chapter:      u.ChapterNumber,
			Section:      u.SectionNumber,
			ChapterLabel: u.ChapterLabel,
			ChapterTitle: u.ChapterTitle,
			Text:         u.SectionText,
		}
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			return 0, fmt.Errorf("insert section %s: %w", u.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(units), nil
}

// LoadCorpus returns the stored corpus in (chapter, section) order.
// Returns a NotFound error if nothing has been imported.
func (s *Store) LoadCorpus(ctx context.Context) (*corpus.Source, error) {
	var prefix string
	err := s.db.GetContext(ctx, &prefix, "SELECT value FROM meta WHERE key = ?", metaPrefix)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("no corpus has been imported")
	}
	if err != nil {
		return nil, fmt.Errorf("load prefix: %w", err)
	}

	var rows []sectionRow
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT chapter, section, chapter_label, chapter_title, text
		FROM sections
		ORDER BY chapter ASC, section ASC
	`); err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}

	src := &corpus.Source{Prefix: prefix, Records: make([]corpus.Record, len(rows))}
	for i, r := range rows {
		src.Records[i] = corpus.Record{
			ChapterNumber: r.Chapter,
			ChapterLabel:  r.ChapterLabel,
			ChapterTitle:  r.ChapterTitle,
			SectionNumber: r.Section,
			SectionText:   r.Text,
		}
	}
	return src, nil
}
