package shelllink

import (
	"fmt"
	"io"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/lnkerr"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/wire"
)

// Write encodes the link and writes it to dst in one call. Nothing is
// written when encoding fails.
func (l *ShellLink) Write(dst io.Writer, opts ...Option) error {
	data, err := l.Marshal(opts...)
	if err != nil {
		return err
	}
	_, err = dst.Write(data)
	return err
}

// MarshalBinary encodes the link with the default options.
func (l *ShellLink) MarshalBinary() ([]byte, error) {
	return l.Marshal()
}

// Marshal encodes the link. The code page option applies to the ANSI
// copies inside the ID list and link info; the header strings are always
// written as UTF-16.
func (l *ShellLink) Marshal(opts ...Option) ([]byte, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	if !l.ShowCommand.Valid() {
		return nil, lnkerr.Invalid(ErrInvalidShowCommand, uint32(l.ShowCommand))
	}
	flags := l.Flags()
	if !flags.Valid() {
		return nil, lnkerr.Invalid(ErrInvalidLinkFlags, uint32(flags))
	}

	w := wire.NewWriter(o.codePage)
	h := headerLayout{
		HeaderSize:     HeaderSize,
		CLSID:          wire.GUIDToBytes(CLSID),
		LinkFlags:      uint32(flags),
		FileAttributes: uint32(l.FileAttributes),
		CreationTime:   wire.ToFileTime(l.CreationTime),
		AccessTime:     wire.ToFileTime(l.AccessTime),
		WriteTime:      wire.ToFileTime(l.WriteTime),
		FileSize:       l.FileSize,
		IconIndex:      l.IconIndex,
		ShowCommand:    uint32(l.ShowCommand),
	}
	if err := w.Pack(&h); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	if l.IDList != nil {
		if err := l.IDList.Encode(w); err != nil {
			return nil, fmt.Errorf("id list: %w", err)
		}
	}
	if l.LinkInfo != nil {
		if err := l.LinkInfo.Encode(w); err != nil {
			return nil, fmt.Errorf("link info: %w", err)
		}
	}
	for _, f := range l.stringFields() {
		if *f.ptr == nil {
			continue
		}
		if err := w.SizedString(**f.ptr, true); err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
	}
	if err := l.ExtraData.Encode(w); err != nil {
		return nil, fmt.Errorf("extra data: %w", err)
	}
	return w.Bytes(), nil
}
