package wire

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/lnkerr"
)

// SizedString reads a StringData value: a u16 count of characters followed
// by that many UTF-16 code units (unicode) or code page bytes. There is no
// terminator.
func (r *Reader) SizedString(unicode bool) (string, error) {
	count, err := r.Uint16()
	if err != nil {
		return "", err
	}
	if unicode {
		b, err := r.Bytes(int(count) * 2)
		if err != nil {
			return "", err
		}
		return DecodeUTF16(b)
	}
	b, err := r.Bytes(int(count))
	if err != nil {
		return "", err
	}
	return r.codePage.Decode(b)
}

// CUTF16 reads a NUL-terminated UTF-16 string and discards the terminator.
func (r *Reader) CUTF16() (string, error) {
	rest, err := r.Peek(r.Len())
	if err != nil {
		return "", err
	}
	for i := 0; i+1 < len(rest); i += 2 {
		if rest[i] == 0 && rest[i+1] == 0 {
			b, _ := r.Bytes(i)
			_ = r.Skip(2)
			return DecodeUTF16(b)
		}
	}
	return "", &lnkerr.TruncatedError{Offset: r.Offset(), Need: len(rest) + 2, Have: len(rest)}
}

// CANSI reads a NUL-terminated code page string and discards the terminator.
func (r *Reader) CANSI() (string, error) {
	s, _, err := r.cANSI()
	return s, err
}

// CANSIPadded reads a NUL-terminated code page string followed by one pad
// byte when the string length without its terminator is even, so that the
// string, terminator and pad together end on a 16-bit boundary.
func (r *Reader) CANSIPadded() (string, error) {
	s, n, err := r.cANSI()
	if err != nil {
		return "", err
	}
	if n%2 == 0 {
		if err := r.Skip(1); err != nil {
			return "", err
		}
	}
	return s, nil
}

func (r *Reader) cANSI() (string, int, error) {
	rest, err := r.Peek(r.Len())
	if err != nil {
		return "", 0, err
	}
	n := bytes.IndexByte(rest, 0)
	if n < 0 {
		return "", 0, &lnkerr.TruncatedError{Offset: r.Offset(), Need: len(rest) + 1, Have: len(rest)}
	}
	b, _ := r.Bytes(n)
	_ = r.Skip(1)
	s, err := r.codePage.Decode(b)
	return s, n, err
}

// FixedUTF16 decodes a fixed-size, NUL-padded UTF-16 buffer.
func FixedUTF16(b []byte) (string, error) {
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return DecodeUTF16(b[:i])
		}
	}
	return DecodeUTF16(b[:len(b)&^1])
}

// FixedANSI decodes a fixed-size, NUL-padded code page buffer.
func (c CodePage) FixedANSI(b []byte) (string, error) {
	if n := bytes.IndexByte(b, 0); n >= 0 {
		b = b[:n]
	}
	return c.Decode(b)
}

// PutFixedUTF16 encodes s into a NUL-padded buffer of size bytes. The
// string must leave room for a terminator.
func PutFixedUTF16(s string, size int) ([]byte, error) {
	b, err := EncodeUTF16(s)
	if err != nil {
		return nil, err
	}
	if len(b)+2 > size {
		return nil, lnkerr.Invalid(fmt.Errorf("utf-16 buffer of %d bytes: %w", size, ErrTooLarge), s)
	}
	out := make([]byte, size)
	copy(out, b)
	return out, nil
}

// PutFixedANSI encodes s into a NUL-padded code page buffer of size bytes.
func (c CodePage) PutFixedANSI(s string, size int) ([]byte, error) {
	b, err := c.Encode(s)
	if err != nil {
		return nil, err
	}
	if len(b)+1 > size {
		return nil, lnkerr.Invalid(fmt.Errorf("%s buffer of %d bytes: %w", c.Name(), size, ErrTooLarge), s)
	}
	out := make([]byte, size)
	copy(out, b)
	return out, nil
}

// SizedString writes a StringData value. Unicode counts are in UTF-16 code
// units.
func (w *Writer) SizedString(s string, unicode bool) error {
	var (
		b     []byte
		count int
		err   error
	)
	if unicode {
		b, err = EncodeUTF16(s)
		count = len(b) / 2
	} else {
		b, err = w.codePage.Encode(s)
		count = len(b)
	}
	if err != nil {
		return err
	}
	n, err := Size16(count, "string data")
	if err != nil {
		return err
	}
	w.Uint16(n)
	w.Raw(b)
	return nil
}

// CUTF16 writes s as UTF-16 followed by a NUL code unit.
func (w *Writer) CUTF16(s string) error {
	if err := checkNoNUL(s, utf16Name); err != nil {
		return err
	}
	b, err := EncodeUTF16(s)
	if err != nil {
		return err
	}
	w.Raw(b)
	w.Uint16(0)
	return nil
}

// CANSI writes s in the code page followed by a NUL byte.
func (w *Writer) CANSI(s string) error {
	_, err := w.cANSI(s)
	return err
}

// CANSIPadded writes s like CANSI and adds the alignment pad byte that
// CANSIPadded on the Reader expects.
func (w *Writer) CANSIPadded(s string) error {
	n, err := w.cANSI(s)
	if err != nil {
		return err
	}
	if n%2 == 0 {
		w.Uint8(0)
	}
	return nil
}

func (w *Writer) cANSI(s string) (int, error) {
	if err := checkNoNUL(s, w.codePage.Name()); err != nil {
		return 0, err
	}
	b, err := w.codePage.Encode(s)
	if err != nil {
		return 0, err
	}
	w.Raw(b)
	w.Uint8(0)
	return len(b), nil
}

func checkNoNUL(s, encoding string) error {
	if strings.IndexByte(s, 0) >= 0 {
		return &lnkerr.StringError{Encoding: encoding, Err: fmt.Errorf("embedded NUL in %q", s)}
	}
	return nil
}

// CANSILossy writes s like CANSI, replacing runes the code page cannot
// represent instead of failing.
func (w *Writer) CANSILossy(s string) error {
	if err := checkNoNUL(s, w.codePage.Name()); err != nil {
		return err
	}
	w.Raw(w.codePage.EncodeLossy(s))
	w.Uint8(0)
	return nil
}
