package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      stderrors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "validation error",
			err:      Invalid("points", "must be between %d and %d", 1, 100),
			expected: "Error: invalid points: must be between 1 and 100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestTaxonomyUnwrap(t *testing.T) {
	wrapped := fmt.Errorf("failed to create stack: %w", Invalid("activity_ids", "need at least 2"))
	if !Is(wrapped, ErrValidation) {
		t.Errorf("expected wrapped validation error to match ErrValidation")
	}
	if Is(wrapped, ErrNotFound) {
		t.Errorf("validation error should not match ErrNotFound")
	}

	var ve *ValidationError
	if !As(wrapped, &ve) || ve.Field != "activity_ids" {
		t.Errorf("As() did not recover the ValidationError, got %+v", ve)
	}

	nf := NotFound("activity", "abc")
	if !Is(nf, ErrNotFound) {
		t.Errorf("NotFound() should wrap ErrNotFound")
	}
	if nf.Error() != `activity "abc": not found` {
		t.Errorf("NotFound() message = %q", nf.Error())
	}
}

func TestCollected(t *testing.T) {
	timeout := stderrors.New("deadline exceeded")
	c := Collected{
		{Category: "sleep", Err: timeout},
		{Category: "recovery", Err: stderrors.New("401 unauthorized")},
	}

	if got := c.Error(); got != "sleep: deadline exceeded; recovery: 401 unauthorized" {
		t.Errorf("Collected.Error() = %q", got)
	}
	cats := c.Categories()
	if len(cats) != 2 || cats[0] != "sleep" || cats[1] != "recovery" {
		t.Errorf("Categories() = %v", cats)
	}
	if !stderrors.Is(c[0], timeout) {
		t.Errorf("CategoryError should unwrap to its cause")
	}
}
