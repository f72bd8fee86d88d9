package wire

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/lnkerr"
)

// CodePage decodes and encodes the single-byte ("ANSI") strings a link
// stores when it is not written in Unicode. The zero value is strict UTF-8.
type CodePage struct {
	name string
	enc  encoding.Encoding
}

// UTF8 rejects any byte sequence that is not valid UTF-8.
var UTF8 = CodePage{name: "utf-8"}

var codePages = map[string]encoding.Encoding{
	"windows-1250": charmap.Windows1250,
	"windows-1251": charmap.Windows1251,
	"windows-1252": charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"cp437":        charmap.CodePage437,
	"shift_jis":    japanese.ShiftJIS,
}

// CodePageNames lists the accepted names for LookupCodePage.
func CodePageNames() []string {
	return []string{"utf-8", "windows-1250", "windows-1251", "windows-1252", "iso-8859-1", "cp437", "shift_jis"}
}

// LookupCodePage returns the code page registered under name.
func LookupCodePage(name string) (CodePage, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "", "utf-8", "utf8":
		return UTF8, nil
	}
	enc, ok := codePages[key]
	if !ok {
		return CodePage{}, fmt.Errorf("unknown code page %q (supported: %s)", name, strings.Join(CodePageNames(), ", "))
	}
	return CodePage{name: key, enc: enc}, nil
}

// Name returns the code page name.
func (c CodePage) Name() string {
	if c.name == "" {
		return UTF8.name
	}
	return c.name
}

// Decode converts raw code page bytes into a Go string.
func (c CodePage) Decode(b []byte) (string, error) {
	if c.enc == nil {
		if !utf8.Valid(b) {
			return "", &lnkerr.StringError{Encoding: c.Name(), Err: fmt.Errorf("invalid byte sequence % x", b)}
		}
		return string(b), nil
	}
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", &lnkerr.StringError{Encoding: c.Name(), Err: err}
	}
	return string(out), nil
}

// Encode converts s into code page bytes. Runes the code page cannot
// represent are an error.
func (c CodePage) Encode(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, &lnkerr.StringError{Encoding: c.Name(), Err: fmt.Errorf("source %q is not valid UTF-8", s)}
	}
	if c.enc == nil {
		return []byte(s), nil
	}
	out, err := c.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, &lnkerr.StringError{Encoding: c.Name(), Err: err}
	}
	return out, nil
}

// CanEncode reports whether s survives a trip through the code page.
func (c CodePage) CanEncode(s string) bool {
	b, err := c.Encode(s)
	if err != nil {
		return false
	}
	back, err := c.Decode(b)
	return err == nil && back == s
}

// EncodeLossy converts s into code page bytes, replacing runes the code
// page cannot represent. It is used for the ANSI half of fields that also
// carry a Unicode copy.
func (c CodePage) EncodeLossy(s string) []byte {
	if c.enc == nil {
		return []byte(strings.ToValidUTF8(s, "?"))
	}
	out, err := encoding.ReplaceUnsupported(c.enc.NewEncoder()).Bytes([]byte(strings.ToValidUTF8(s, "?")))
	if err != nil {
		return []byte(strings.Repeat("?", utf8.RuneCountInString(s)))
	}
	return out
}
