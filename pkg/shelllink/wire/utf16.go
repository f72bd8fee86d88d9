package wire

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/lnkerr"
)

const utf16Name = "utf-16le"

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// DecodeUTF16 converts little-endian UTF-16 bytes into a Go string.
// Unpaired surrogates are rejected rather than replaced.
func DecodeUTF16(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", &lnkerr.StringError{Encoding: utf16Name, Err: fmt.Errorf("odd byte length %d", len(b))}
	}
	if err := checkSurrogates(b); err != nil {
		return "", &lnkerr.StringError{Encoding: utf16Name, Err: err}
	}
	out, _, err := transform.Bytes(utf16le.NewDecoder(), b)
	if err != nil {
		return "", &lnkerr.StringError{Encoding: utf16Name, Err: err}
	}
	return string(out), nil
}

// EncodeUTF16 converts s into little-endian UTF-16 bytes without a terminator.
func EncodeUTF16(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, &lnkerr.StringError{Encoding: utf16Name, Err: fmt.Errorf("source %q is not valid UTF-8", s)}
	}
	out, _, err := transform.Bytes(utf16le.NewEncoder(), []byte(s))
	if err != nil {
		return nil, &lnkerr.StringError{Encoding: utf16Name, Err: err}
	}
	return out, nil
}

func checkSurrogates(b []byte) error {
	for i := 0; i < len(b); i += 2 {
		u := binary.LittleEndian.Uint16(b[i:])
		switch {
		case u >= 0xD800 && u < 0xDC00:
			if i+4 > len(b) {
				return fmt.Errorf("unpaired high surrogate %#04x at unit %d", u, i/2)
			}
			next := binary.LittleEndian.Uint16(b[i+2:])
			if next < 0xDC00 || next > 0xDFFF {
				return fmt.Errorf("unpaired high surrogate %#04x at unit %d", u, i/2)
			}
			i += 2
		case u >= 0xDC00 && u <= 0xDFFF:
			return fmt.Errorf("unpaired low surrogate %#04x at unit %d", u, i/2)
		}
	}
	return nil
}
