package lnkerr

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategories(t *testing.T) {
	errMissing := New(ErrGrammar, "missing root entry")

	tests := []struct {
		name     string
		err      error
		category error
		message  string
	}{
		{
			name:     "named sentinel wraps its category",
			err:      errMissing,
			category: ErrGrammar,
			message:  "missing root entry: invalid id list order",
		},
		{
			name:     "value error keeps the raw value",
			err:      Invalid(New(ErrInvalidValue, "invalid show command"), uint32(5)),
			category: ErrInvalidValue,
			message:  "invalid show command: invalid value (0x5)",
		},
		{
			name:     "leftover error",
			err:      &LeftoverError{Region: "console block", Data: []byte{1, 2}},
			category: ErrLeftoverData,
			message:  "2 bytes left over in console block",
		},
		{
			name:     "string error",
			err:      &StringError{Encoding: "utf-16le", Err: errors.New("unpaired surrogate")},
			category: ErrEncoding,
			message:  "invalid utf-16le string: unpaired surrogate",
		},
		{
			name:     "truncated input looks like a short read",
			err:      &TruncatedError{Offset: 4, Need: 8, Have: 2},
			category: io.ErrUnexpectedEOF,
			message:  "truncated input at offset 4: need 8 bytes, have 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.category)
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestValueErrorMatchesSentinel(t *testing.T) {
	sentinel := New(ErrInvalidValue, "invalid drive type")
	err := Invalid(sentinel, uint32(9))

	var ve *ValueError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, uint32(9), ve.Value)
	assert.ErrorIs(t, err, sentinel)
	assert.NotErrorIs(t, err, ErrGrammar)
}
