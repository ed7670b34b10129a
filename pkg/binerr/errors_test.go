package binerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorWrapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		want     string
	}{
		{
			name:     "invalid input",
			err:      InvalidInputf("empty pattern"),
			sentinel: ErrInvalidInput,
			want:     "invalid input: empty pattern",
		},
		{
			name:     "parse",
			err:      Parsef("bad literal %q", "0xZZ"),
			sentinel: ErrParse,
			want:     `parse error: bad literal "0xZZ"`,
		},
		{
			name:     "invalid range",
			err:      InvalidRangef("end %d before start %d", 2, 5),
			sentinel: ErrInvalidRange,
			want:     "invalid range: end 2 before start 5",
		},
		{
			name:     "unsupported",
			err:      Unsupportedf("no such engine"),
			sentinel: ErrUnsupported,
			want:     "operation not supported: no such engine",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, sentinel) = false, want true", tt.err)
			}
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSentinelsDistinct(t *testing.T) {
	err := fmt.Errorf("outer: %w", InvalidInputf("inner"))
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("wrapped error lost ErrInvalidInput identity")
	}
	if errors.Is(err, ErrParse) || errors.Is(err, ErrInvalidRange) || errors.Is(err, ErrUnsupported) {
		t.Error("error matched an unrelated sentinel")
	}
}
