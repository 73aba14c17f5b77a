package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	err := NotFound("no unit with id %q", "x-001-s1")
	assert.Equal(t, `NOT_FOUND: no unit with id "x-001-s1"`, err.Error())

	bare := &Error{Code: CodeOutOfRange}
	assert.Equal(t, "OUT_OF_RANGE", bare.Error())
}

func TestError_IsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading corpus: %w", Validation("empty corpus"))

	assert.True(t, errors.Is(wrapped, ErrValidation))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
	assert.True(t, IsValidation(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.Equal(t, CodeValidation, CodeOf(wrapped))
}

func TestError_Helpers(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{"validation", Validation("x"), IsValidation},
		{"not found", NotFound("x"), IsNotFound},
		{"out of range", OutOfRange("x"), IsOutOfRange},
		{"invalid argument", InvalidArgument("x"), IsInvalidArgument},
		{"invalid date", InvalidDate("x"), IsInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.is(tt.err))
			assert.False(t, tt.is(errors.New("plain")))
		})
	}
}

func TestError_WithDetail(t *testing.T) {
	err := InvalidArgument("threshold out of range").WithDetail("threshold", "1.5")
	assert.Equal(t, "1.5", err.Details["threshold"])
}

func TestCodeOf_Plain(t *testing.T) {
	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
	assert.Equal(t, Code(""), CodeOf(nil))
}

func TestDetailOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("load: %w", Validation("bad").WithDetail("field", "anchor"))
	assert.Equal(t, "anchor", DetailOf(err, "field"))
	assert.Equal(t, "", DetailOf(err, "other"))
	assert.Equal(t, "", DetailOf(errors.New("plain"), "field"))
}
