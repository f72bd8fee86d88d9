// Package wire implements the little-endian primitives a shell link is
// built from: integers, GUIDs, DOS and FILETIME timestamps, and the three
// string layouts (sized, NUL-terminated UTF-16, NUL-terminated ANSI).
//
// A Reader is a cursor over an in-memory buffer. Sub returns a bounded view
// of the next n bytes without copying them, which is how every
// length-prefixed region of the format is decoded.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/go-restruct/restruct"
	"go.uber.org/zap"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/lnkerr"
)

// Reader reads little-endian values from a byte slice.
type Reader struct {
	data     []byte
	off      int
	base     int
	codePage CodePage
	logger   *zap.Logger
}

// ReaderOption configures a Reader
type ReaderOption func(*Reader)

// WithCodePage sets the code page used for ANSI strings
func WithCodePage(cp CodePage) ReaderOption {
	return func(r *Reader) {
		r.codePage = cp
	}
}

// WithLogger attaches a logger that decoders use for debug tracing
func WithLogger(logger *zap.Logger) ReaderOption {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReader creates a Reader over data.
func NewReader(data []byte, opts ...ReaderOption) *Reader {
	r := &Reader{
		data:     data,
		codePage: UTF8,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CodePage returns the code page used for ANSI strings.
func (r *Reader) CodePage() CodePage {
	return r.codePage
}

// Logger returns the attached logger, never nil.
func (r *Reader) Logger() *zap.Logger {
	return r.logger
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.data) - r.off
}

// Offset returns the absolute position of the cursor in the original input.
func (r *Reader) Offset() int {
	return r.base + r.off
}

// Bytes returns the next n bytes and advances past them. The slice aliases
// the underlying buffer.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 || n > r.Len() {
		return nil, &lnkerr.TruncatedError{Offset: r.Offset(), Need: n, Have: r.Len()}
	}
	b := r.data[r.off : r.off+n : r.off+n]
	r.off += n
	return b, nil
}

// Peek returns the next n bytes without advancing.
func (r *Reader) Peek(n int) ([]byte, error) {
	if n < 0 || n > r.Len() {
		return nil, &lnkerr.TruncatedError{Offset: r.Offset(), Need: n, Have: r.Len()}
	}
	return r.data[r.off : r.off+n : r.off+n], nil
}

// Skip advances past n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.Bytes(n)
	return err
}

// Rest consumes and returns every unread byte.
func (r *Reader) Rest() []byte {
	b := r.data[r.off:len(r.data):len(r.data)]
	r.off = len(r.data)
	return b
}

// Sub returns a Reader bounded to the next n bytes and advances the parent
// past them. The size is checked against the remaining input before any
// decoding happens.
func (r *Reader) Sub(n int) (*Reader, error) {
	start := r.Offset()
	b, err := r.Bytes(n)
	if err != nil {
		return nil, err
	}
	return &Reader{
		data:     b,
		base:     start,
		codePage: r.codePage,
		logger:   r.logger,
	}, nil
}

// At returns a Reader over the unread bytes starting at off, relative to the
// current position, without advancing.
func (r *Reader) At(off int) (*Reader, error) {
	if off < 0 || off > r.Len() {
		return nil, &lnkerr.TruncatedError{Offset: r.Offset(), Need: off, Have: r.Len()}
	}
	return &Reader{
		data:     r.data[r.off+off:],
		base:     r.Offset() + off,
		codePage: r.codePage,
		logger:   r.logger,
	}, nil
}

// ExpectEOF fails with a LeftoverError when unread bytes remain.
func (r *Reader) ExpectEOF(region string) error {
	if r.Len() == 0 {
		return nil
	}
	return &lnkerr.LeftoverError{Region: region, Data: bytes.Clone(r.Rest())}
}

// Uint8 reads a byte
func (r *Reader) Uint8() (uint8, error) {
	b, err := r.Bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16 reads a little-endian uint16
func (r *Reader) Uint16() (uint16, error) {
	b, err := r.Bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Int16 reads a little-endian int16
func (r *Reader) Int16() (int16, error) {
	v, err := r.Uint16()
	return int16(v), err
}

// Uint32 reads a little-endian uint32
func (r *Reader) Uint32() (uint32, error) {
	b, err := r.Bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Int32 reads a little-endian int32
func (r *Reader) Int32() (int32, error) {
	v, err := r.Uint32()
	return int32(v), err
}

// Uint64 reads a little-endian uint64
func (r *Reader) Uint64() (uint64, error) {
	b, err := r.Bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Unpack decodes a fixed-layout struct described by restruct tags.
func (r *Reader) Unpack(v any) error {
	size, err := restruct.SizeOf(reflect.Indirect(reflect.ValueOf(v)).Interface())
	if err != nil {
		return fmt.Errorf("failed to size %T: %w", v, err)
	}
	b, err := r.Bytes(size)
	if err != nil {
		return err
	}
	if err := restruct.Unpack(b, binary.LittleEndian, v); err != nil {
		return fmt.Errorf("failed to unpack %T: %w", v, err)
	}
	return nil
}
