// Package qa models the question/answer forum and its Hebrew-aware search.
package qa

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/roach88/kitzur/internal/errs"
)

// Category groups questions by halachic topic.
type Category string

const (
	CategoryTefillah      Category = "tefillah"
	CategoryShabbat       Category = "shabbat"
	CategoryKashrut       Category = "kashrut"
	CategoryBrachot       Category = "brachot"
	CategoryHolidays      Category = "holidays"
	CategoryTaharat       Category = "taharat"
	CategoryTzedakah      Category = "tzedakah"
	CategoryMourning      Category = "mourning"
	CategoryStudy         Category = "study"
	CategoryInterpersonal Category = "interpersonal"
	CategoryMedical       Category = "medical"
	CategoryTravel        Category = "travel"
	CategoryWork          Category = "work"
	CategoryConversion    Category = "conversion"
	CategoryMarriage      Category = "marriage"
	CategoryDivorce       Category = "divorce"
	CategoryInheritance   Category = "inheritance"
	CategoryVows          Category = "vows"
	CategoryTemple        Category = "temple"
	CategoryOther         Category = "other"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryTefillah, CategoryShabbat, CategoryKashrut, CategoryBrachot,
	CategoryHolidays, CategoryTaharat, CategoryTzedakah, CategoryMourning,
	CategoryStudy, CategoryInterpersonal, CategoryMedical, CategoryTravel,
	CategoryWork, CategoryConversion, CategoryMarriage, CategoryDivorce,
	CategoryInheritance, CategoryVows, CategoryTemple, CategoryOther,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// AnswerSource records who produced an answer.
type AnswerSource string

const (
	SourceRabbi     AnswerSource = "rabbi"
	SourceCommunity AnswerSource = "community"
	SourceAI        AnswerSource = "ai"
)

// Answer is the accepted answer to a question.
type Answer struct {
	Text       string       `json:"text" yaml:"text"`
	Reference  string       `json:"reference,omitempty" yaml:"reference,omitempty"`
	AnsweredBy string       `json:"answered_by,omitempty" yaml:"answered_by,omitempty"`
	Source     AnswerSource `json:"source,omitempty" yaml:"source,omitempty"`
}

// Question is one forum question.
type Question struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	Category  Category  `json:"category" yaml:"category"`
	Tags      []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	AskedBy   string    `json:"asked_by,omitempty" yaml:"asked_by,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Answer    *Answer   `json:"answer,omitempty" yaml:"answer,omitempty"`
}

// Answered reports whether q has a non-empty answer.
func (q Question) Answered() bool {
	return q.Answer != nil && strings.TrimSpace(q.Answer.Text) != ""
}

// NewQuestion validates the input and returns a question with a fresh
// UUIDv7 identifier.
func NewQuestion(text string, category Category, tags []string, askedBy string, now time.Time) (Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Question{}, errs.InvalidArgument("question text is empty")
	}
	if category == "" {
		category = CategoryOther
	}
	if !category.Valid() {
		return Question{}, errs.InvalidArgument("unknown category %q", category)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return Question{}, fmt.Errorf("generate question id: %w", err)
	}
	return Question{
		ID:        id.String(),
		Text:      text,
		Category:  category,
		Tags:      tags,
		AskedBy:   askedBy,
		CreatedAt: now.UTC(),
	}, nil
}

// ReadFile decodes a YAML list of questions.
func ReadFile(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	var doc struct {
		Questions []Question `yaml:"questions"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errs.Validation("%s: %v", path, err)
	}
	for i, q := range doc.Questions {
		if q.ID == "" {
			return nil, errs.Validation("%s: question %d has no id", path, i)
		}
	}
	return doc.Questions, nil
}
