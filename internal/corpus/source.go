package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/kitzur/internal/errs"
)

// Source is a decoded corpus: the identifier prefix and its raw records.
type Source struct {
	Prefix  string
	Records []Record
}

// yamlCorpus is the nested YAML corpus form.
type yamlCorpus struct {
	Prefix   string        `yaml:"prefix"`
	Chapters []yamlChapter `yaml:"chapters"`
}

type yamlChapter struct {
	Number   int           `yaml:"number"`
	Label    string        `yaml:"label"`
	Title    string        `yaml:"title"`
	Sections []yamlSection `yaml:"sections"`
}

type yamlSection struct {
	Number int    `yaml:"number"`
	Text   string `yaml:"text"`
}

// jsonChapter is the chapter file form shipped with the mobile application.
type jsonChapter struct {
	ID           string        `json:"id"`
	ChapterLabel string        `json:"chapterLabel"`
	Title        string        `json:"title"`
	Sections     []jsonSection `json:"sections"`
	Version      int           `json:"version"`
}

type jsonSection struct {
	ID      string `json:"id"`
	Section int    `json:"section"`
	Text    string `json:"text"`
}

// ReadFile decodes a corpus from path.
//
// Supported inputs:
//   - .yaml/.yml: the nested prefix/chapters/sections form
//   - .json: one application chapter file, or an array of them
//   - a directory: every .yaml, .yml and .json file in it, in name order
//
// All files must agree on the prefix. The records are not validated; pass
// them to Validate and Load.
func ReadFile(path string) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat corpus: %w", err)
	}
	if !info.IsDir() {
		return readOne(path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && isCorpusFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, errs.Validation("no corpus files in %s", path)
	}
	sort.Strings(names)

	merged := &Source{}
	for _, name := range names {
		src, err := readOne(filepath.Join(path, name))
		if err != nil {
			return nil, err
		}
		if err := merged.merge(src, name); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// Open reads, validates and loads the corpus at path.
func Open(path string) (*Index, error) {
	src, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return src.Index()
}

// Index validates the source against the schema and loads it.
func (s *Source) Index() (*Index, error) {
	if err := Validate(s.Records); err != nil {
		return nil, err
	}
	prefix := s.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return LoadWithPrefix(prefix, s.Records)
}

func (s *Source) merge(other *Source, name string) error {
	switch {
	case s.Prefix == "":
		s.Prefix = other.Prefix
	case other.Prefix != "" && other.Prefix != s.Prefix:
		return errs.Validation("%s: prefix %q differs from %q", name, other.Prefix, s.Prefix)
	}
	s.Records = append(s.Records, other.Records...)
	return nil
}

func isCorpusFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func readOne(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAML(data, path)
	case ".json":
		return decodeJSON(data, path)
	default:
		return nil, errs.Validation("unsupported corpus file %s", path)
	}
}

func decodeYAML(data []byte, path string) (*Source, error) {
	var doc yamlCorpus
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errs.Validation("%s: %v", path, err)
	}
	src := &Source{Prefix: doc.Prefix}
	for _, ch := range doc.Chapters {
		for _, sec := range ch.Sections {
			src.Records = append(src.Records, Record{
				ChapterNumber: ch.Number,
				ChapterLabel:  ch.Label,
				ChapterTitle:  ch.Title,
				SectionNumber: sec.Number,
				SectionText:   sec.Text,
			})
		}
	}
	return src, nil
}

func decodeJSON(data []byte, path string) (*Source, error) {
	var chapters []jsonChapter
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &chapters); err != nil {
			return nil, errs.Validation("%s: %v", path, err)
		}
	} else {
		var one jsonChapter
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, errs.Validation("%s: %v", path, err)
		}
		chapters = []jsonChapter{one}
	}

	src := &Source{}
	for _, ch := range chapters {
		prefix, number, _, err := ParseID(ch.ID)
		if err != nil {
			return nil, errs.Validation("%s: chapter id %q is malformed", path, ch.ID)
		}
		if err := src.merge(&Source{Prefix: prefix}, path); err != nil {
			return nil, err
		}
		for _, sec := range ch.Sections {
			src.Records = append(src.Records, Record{
				ChapterNumber: number,
				ChapterLabel:  ch.ChapterLabel,
				ChapterTitle:  ch.Title,
				SectionNumber: sec.Section,
				SectionText:   sec.Text,
			})
		}
	}
	return src, nil
}
