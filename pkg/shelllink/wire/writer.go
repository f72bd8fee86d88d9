package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-restruct/restruct"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/lnkerr"
)

// ErrTooLarge is returned when a value does not fit its length field.
var ErrTooLarge = lnkerr.New(lnkerr.ErrInvalidValue, "value too large for its length field")

// Writer accumulates little-endian values in memory.
type Writer struct {
	buf      bytes.Buffer
	codePage CodePage
}

// NewWriter creates an empty Writer that encodes ANSI strings with cp.
func NewWriter(cp CodePage) *Writer {
	return &Writer{codePage: cp}
}

// Child returns an empty Writer sharing the code page, for regions that
// need a length prefix once their contents are known.
func (w *Writer) Child() *Writer {
	return NewWriter(w.codePage)
}

// CodePage returns the code page used for ANSI strings.
func (w *Writer) CodePage() CodePage {
	return w.codePage
}

// Bytes returns the accumulated bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of accumulated bytes.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Write appends p. It never fails.
func (w *Writer) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

// Raw appends p.
func (w *Writer) Raw(p []byte) {
	w.buf.Write(p)
}

// Zero appends n zero bytes.
func (w *Writer) Zero(n int) {
	for i := 0; i < n; i++ {
		w.buf.WriteByte(0)
	}
}

// Uint8 appends a byte
func (w *Writer) Uint8(v uint8) {
	w.buf.WriteByte(v)
}

// Uint16 appends a little-endian uint16
func (w *Writer) Uint16(v uint16) {
	w.buf.Write(binary.LittleEndian.AppendUint16(nil, v))
}

// Int16 appends a little-endian int16
func (w *Writer) Int16(v int16) {
	w.Uint16(uint16(v))
}

// Uint32 appends a little-endian uint32
func (w *Writer) Uint32(v uint32) {
	w.buf.Write(binary.LittleEndian.AppendUint32(nil, v))
}

// Int32 appends a little-endian int32
func (w *Writer) Int32(v int32) {
	w.Uint32(uint32(v))
}

// Uint64 appends a little-endian uint64
func (w *Writer) Uint64(v uint64) {
	w.buf.Write(binary.LittleEndian.AppendUint64(nil, v))
}

// Pack encodes a fixed-layout struct described by restruct tags.
func (w *Writer) Pack(v any) error {
	b, err := restruct.Pack(binary.LittleEndian, v)
	if err != nil {
		return fmt.Errorf("failed to pack %T: %w", v, err)
	}
	w.buf.Write(b)
	return nil
}

// Size16 converts n to a u16 length field.
func Size16(n int, what string) (uint16, error) {
	if n < 0 || n > math.MaxUint16 {
		return 0, lnkerr.Invalid(fmt.Errorf("%s: %w", what, ErrTooLarge), n)
	}
	return uint16(n), nil
}

// Size32 converts n to a u32 length field.
func Size32(n int, what string) (uint32, error) {
	if n < 0 || uint64(n) > math.MaxUint32 {
		return 0, lnkerr.Invalid(fmt.Errorf("%s: %w", what, ErrTooLarge), n)
	}
	return uint32(n), nil
}
