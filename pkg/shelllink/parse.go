package shelllink

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/extradata"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/idlist"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/linkinfo"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/lnkerr"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/wire"
)

// Parse reads a whole link file from src and decodes it.
func Parse(src io.Reader, opts ...Option) (*ShellLink, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(src, o.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read link: %w", err)
	}
	if int64(len(data)) > o.maxSize {
		return nil, lnkerr.Invalid(ErrInputTooLarge, o.maxSize)
	}
	return parse(data, o)
}

// ParseBytes decodes a link held in memory. Decoded values never alias data.
func ParseBytes(data []byte, opts ...Option) (*ShellLink, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > o.maxSize {
		return nil, lnkerr.Invalid(ErrInputTooLarge, o.maxSize)
	}
	return parse(data, o)
}

func parse(data []byte, o *options) (*ShellLink, error) {
	r := wire.NewReader(data, wire.WithCodePage(o.codePage), wire.WithLogger(o.logger))

	l, err := parseHeader(r)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("decoded shell link header",
		zap.Stringer("link_flags", l.LinkFlags),
		zap.Stringer("file_attributes", l.FileAttributes),
		zap.Stringer("show_command", l.ShowCommand))

	if l.LinkFlags.Has(HasLinkTargetIDList) {
		if l.IDList, err = idlist.Decode(r); err != nil {
			return nil, fmt.Errorf("id list: %w", err)
		}
	}
	if l.LinkFlags.Has(HasLinkInfo) && !l.LinkFlags.Has(ForceNoLinkInfo) {
		if l.LinkInfo, err = linkinfo.Decode(r); err != nil {
			return nil, fmt.Errorf("link info: %w", err)
		}
	}

	unicode := l.LinkFlags.Has(IsUnicode)
	for _, f := range l.stringFields() {
		if !l.LinkFlags.Has(f.flag) {
			continue
		}
		s, err := r.SizedString(unicode)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.ptr = &s
	}

	if l.ExtraData, err = extradata.Decode(r); err != nil {
		return nil, fmt.Errorf("extra data: %w", err)
	}
	if l.ExtraData.Empty() {
		l.ExtraData = nil
	}

	if err := r.ExpectEOF("shell link"); err != nil {
		return nil, err
	}
	return l, nil
}

func parseHeader(r *wire.Reader) (*ShellLink, error) {
	var h headerLayout
	if err := r.Unpack(&h); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if h.HeaderSize != HeaderSize {
		return nil, lnkerr.Invalid(ErrInvalidHeaderSize, h.HeaderSize)
	}
	if clsid := wire.GUIDFromBytes(h.CLSID); clsid != CLSID {
		return nil, lnkerr.Invalid(ErrInvalidCLSID, clsid)
	}

	l := &ShellLink{
		LinkFlags:      LinkFlags(h.LinkFlags),
		FileAttributes: FileAttributeFlags(h.FileAttributes),
		CreationTime:   wire.FromFileTime(h.CreationTime),
		AccessTime:     wire.FromFileTime(h.AccessTime),
		WriteTime:      wire.FromFileTime(h.WriteTime),
		FileSize:       h.FileSize,
		IconIndex:      h.IconIndex,
		ShowCommand:    ShowCommand(h.ShowCommand),
	}
	if !l.LinkFlags.Valid() {
		return nil, lnkerr.Invalid(ErrInvalidLinkFlags, h.LinkFlags)
	}
	if !l.ShowCommand.Valid() {
		return nil, lnkerr.Invalid(ErrInvalidShowCommand, h.ShowCommand)
	}
	return l, nil
}
