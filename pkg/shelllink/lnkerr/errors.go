// Package lnkerr holds the error categories shared by every shell link decoder.
//
// Each decoder declares its own named sentinels that wrap exactly one of the
// categories below, so callers can match either the precise failure
// (errors.Is(err, idlist.ErrAnyAfterFile)) or its kind
// (errors.Is(err, lnkerr.ErrGrammar)).
package lnkerr

import (
	"errors"
	"fmt"
	"io"
)

// Error categories
var (
	// ErrInvalidValue marks structural validation failures: bad magic,
	// unknown enum values, flag bits outside the documented set.
	ErrInvalidValue = errors.New("invalid value")

	// ErrEncoding marks string decoding failures and non-zero padding.
	ErrEncoding = errors.New("invalid encoding")

	// ErrGrammar marks ordering violations in an ID list.
	ErrGrammar = errors.New("invalid id list order")

	// ErrLeftoverData marks bytes left unread inside a bounded region.
	ErrLeftoverData = errors.New("leftover data")

	// ErrUnsupported marks constructs that are recognised but not handled.
	ErrUnsupported = errors.New("unsupported")
)

// New returns a named sentinel that belongs to category.
func New(category error, message string) error {
	return fmt.Errorf("%s: %w", message, category)
}

// ValueError reports a rejected raw value together with the sentinel that
// names the field it was read for.
type ValueError struct {
	Err   error
	Value any
}

func (e *ValueError) Error() string {
	switch v := e.Value.(type) {
	case uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%v (%#x)", e.Err, v)
	default:
		return fmt.Sprintf("%v (%v)", e.Err, v)
	}
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

// Invalid builds a ValueError for sentinel carrying value.
func Invalid(sentinel error, value any) error {
	return &ValueError{Err: sentinel, Value: value}
}

// LeftoverError reports unread bytes at the end of a bounded region.
type LeftoverError struct {
	Region string
	Data   []byte
}

func (e *LeftoverError) Error() string {
	return fmt.Sprintf("%d bytes left over in %s", len(e.Data), e.Region)
}

func (e *LeftoverError) Unwrap() error {
	return ErrLeftoverData
}

// StringError reports a string that could not be decoded or encoded.
type StringError struct {
	Encoding string
	Err      error
}

func (e *StringError) Error() string {
	return fmt.Sprintf("invalid %s string: %v", e.Encoding, e.Err)
}

func (e *StringError) Unwrap() []error {
	return []error{ErrEncoding, e.Err}
}

// TruncatedError reports a read that needs more bytes than the region holds.
// It unwraps to io.ErrUnexpectedEOF so short input looks like any other
// short read to callers.
type TruncatedError struct {
	Offset int
	Need   int
	Have   int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated input at offset %d: need %d bytes, have %d", e.Offset, e.Need, e.Have)
}

func (e *TruncatedError) Unwrap() error {
	return io.ErrUnexpectedEOF
}
