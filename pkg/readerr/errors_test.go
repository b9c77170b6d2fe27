package readerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "unexpected identifier",
			err:      UnexpectedIdentifier("Glul", "image magic"),
			contains: []string{"unexpected_starting_identifier", `"Glul"`, "image magic"},
		},
		{
			name:     "invalid length",
			err:      InvalidLength(10, 36, ""),
			contains: []string{"invalid_length", "actual length 10", "expected 36"},
		},
		{
			name:     "unknown identifier",
			err:      UnknownIdentifier(7, "Pict"),
			contains: []string{"unknown_identifier", "7", "Pict"},
		},
		{
			name:     "unknown file type with cause",
			err:      UnknownFileType(errors.New("boom")),
			contains: []string{"unknown_file_type", "boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				assert.Contains(t, msg, want)
			}
		})
	}
}

func TestIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("reading chunk: %w", InvalidLength(4, 8, "chunk header"))

	assert.ErrorIs(t, err, ErrInvalidLength)
	assert.NotErrorIs(t, err, ErrUnknownIdentifier)

	var re *Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 4, re.Actual)
	assert.Equal(t, 8, re.Want)
}

func TestUnwrapReachesCause(t *testing.T) {
	cause := errors.New("underlying")
	err := UnknownFileType(cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrUnknownFileType)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUnsupported, KindOf(fmt.Errorf("wrap: %w", Unsupported("ZCOD"))))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}
