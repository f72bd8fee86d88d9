// Package linkinfo decodes and encodes the LinkInfo structure: an offset
// table followed by a data pool holding the volume id, the local base path
// and the common path suffix.
//
// Decoding runs in two phases. The header and its offsets are read first and
// rebased onto the pool, then each structure is sliced out of the pool.
package linkinfo

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/lnkerr"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/wire"
)

// offsets is the decoded header, rebased to the start of the pool.
// A zero value means the field is absent.
type offsets struct {
	headerSize uint32
	flags      Flags

	volumeID                   uint32
	localBasePath              uint32
	commonNetworkRelativeLink  uint32
	commonPathSuffix           uint32
	localBasePathUnicode       uint32
	commonPathSuffixUnicode    uint32
	hasLocalBasePathUnicode    bool
	hasCommonPathSuffixUnicode bool
}

// Decode reads a u32-size-prefixed LinkInfo structure.
func Decode(r *wire.Reader) (*LinkInfo, error) {
	size, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if size < HeaderSizeDefault {
		return nil, lnkerr.Invalid(ErrInvalidSize, size)
	}
	body, err := r.Sub(int(size) - 4)
	if err != nil {
		return nil, fmt.Errorf("failed to bound link info: %w", err)
	}

	off, err := decodeOffsets(body)
	if err != nil {
		return nil, err
	}
	r.Logger().Debug("decoded link info header",
		zap.Uint32("size", size),
		zap.Uint32("header_size", off.headerSize),
		zap.Uint32("flags", uint32(off.flags)))

	if off.flags&FlagCommonNetworkRelativeLinkAndPathSuffix != 0 {
		return nil, lnkerr.Invalid(ErrNetworkLinkUnsupported, off.commonNetworkRelativeLink+off.headerSize)
	}

	pool := wire.NewReader(body.Rest(), wire.WithCodePage(r.CodePage()), wire.WithLogger(r.Logger()))
	info := &LinkInfo{}

	if off.flags&FlagVolumeIDAndLocalBasePath != 0 {
		at, err := pool.At(int(off.volumeID))
		if err != nil {
			return nil, fmt.Errorf("volume id: %w", err)
		}
		if info.VolumeID, err = decodeVolumeID(at); err != nil {
			return nil, err
		}

		if off.hasLocalBasePathUnicode {
			info.LocalBasePath, err = utf16At(pool, off.localBasePathUnicode)
		} else {
			info.LocalBasePath, err = ansiAt(pool, off.localBasePath)
		}
		if err != nil {
			return nil, fmt.Errorf("local base path: %w", err)
		}
	}

	if off.hasCommonPathSuffixUnicode {
		info.CommonPathSuffix, err = utf16At(pool, off.commonPathSuffixUnicode)
	} else {
		info.CommonPathSuffix, err = ansiAt(pool, off.commonPathSuffix)
	}
	if err != nil {
		return nil, fmt.Errorf("common path suffix: %w", err)
	}

	return info, nil
}

func decodeOffsets(body *wire.Reader) (offsets, error) {
	var off offsets
	var err error

	if off.headerSize, err = body.Uint32(); err != nil {
		return off, err
	}
	if off.headerSize != HeaderSizeDefault && off.headerSize != HeaderSizeUnicode {
		return off, lnkerr.Invalid(ErrInvalidHeaderSize, off.headerSize)
	}
	// size and header size are already consumed
	header, err := body.Sub(int(off.headerSize) - 8)
	if err != nil {
		return off, fmt.Errorf("failed to bound link info header: %w", err)
	}

	flags, err := header.Uint32()
	if err != nil {
		return off, err
	}
	off.flags = Flags(flags)
	if off.flags&^knownFlags != 0 {
		return off, lnkerr.Invalid(ErrInvalidFlags, flags)
	}

	raw := make([]uint32, (off.headerSize-12)/4)
	for i := range raw {
		if raw[i], err = header.Uint32(); err != nil {
			return off, err
		}
	}
	if err := header.ExpectEOF("link info header"); err != nil {
		return off, err
	}

	local := off.flags&FlagVolumeIDAndLocalBasePath != 0
	network := off.flags&FlagCommonNetworkRelativeLinkAndPathSuffix != 0

	fields := []offsetField{
		{"volume id", raw[0], local, true, &off.volumeID},
		{"local base path", raw[1], local, true, &off.localBasePath},
		{"common network relative link", raw[2], network, true, &off.commonNetworkRelativeLink},
		{"common path suffix", raw[3], true, true, &off.commonPathSuffix},
	}
	if off.headerSize == HeaderSizeUnicode {
		fields = append(fields,
			offsetField{"local base path unicode", raw[4], local, false, &off.localBasePathUnicode},
			offsetField{"common path suffix unicode", raw[5], true, false, &off.commonPathSuffixUnicode},
		)
		off.hasLocalBasePathUnicode = local && raw[4] != 0
		off.hasCommonPathSuffixUnicode = raw[5] != 0
	}

	for _, f := range fields {
		if err := f.rebase(off.headerSize); err != nil {
			return off, err
		}
	}
	return off, nil
}

// offsetField is one header offset with the flag state that governs it.
type offsetField struct {
	name     string
	value    uint32
	active   bool
	required bool
	dst      *uint32
}

func (f offsetField) rebase(headerSize uint32) error {
	switch {
	case !f.active && f.value != 0:
		return lnkerr.Invalid(fmt.Errorf("%s offset set without its flag: %w", f.name, ErrInvalidOffset), f.value)
	case !f.active:
		return nil
	case f.value == 0 && f.required:
		return lnkerr.Invalid(fmt.Errorf("%s offset missing: %w", f.name, ErrInvalidOffset), f.value)
	case f.value == 0:
		return nil
	case f.value < headerSize:
		return lnkerr.Invalid(fmt.Errorf("%s offset inside the header: %w", f.name, ErrInvalidOffset), f.value)
	}
	*f.dst = f.value - headerSize
	return nil
}

func ansiAt(pool *wire.Reader, off uint32) (string, error) {
	at, err := pool.At(int(off))
	if err != nil {
		return "", err
	}
	return at.CANSI()
}

func utf16At(pool *wire.Reader, off uint32) (string, error) {
	at, err := pool.At(int(off))
	if err != nil {
		return "", err
	}
	return at.CUTF16()
}

func decodeVolumeID(r *wire.Reader) (*VolumeID, error) {
	size, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if size < volumeIDHeaderSize {
		return nil, lnkerr.Invalid(ErrInvalidVolumeID, size)
	}
	body, err := r.Sub(int(size) - 4)
	if err != nil {
		return nil, fmt.Errorf("failed to bound volume id: %w", err)
	}

	driveType, err := body.Uint32()
	if err != nil {
		return nil, err
	}
	v := &VolumeID{DriveType: DriveType(driveType)}
	if !v.DriveType.Valid() {
		return nil, lnkerr.Invalid(ErrInvalidDriveType, driveType)
	}
	if v.SerialNumber, err = body.Uint32(); err != nil {
		return nil, err
	}
	labelOffset, err := body.Uint32()
	if err != nil {
		return nil, err
	}

	if labelOffset == volumeIDUnicodeHeaderSize {
		unicodeOffset, err := body.Uint32()
		if err != nil {
			return nil, err
		}
		if unicodeOffset < volumeIDUnicodeHeaderSize {
			return nil, lnkerr.Invalid(fmt.Errorf("unicode label offset: %w", ErrInvalidVolumeID), unicodeOffset)
		}
		at, err := body.At(int(unicodeOffset - volumeIDUnicodeHeaderSize))
		if err != nil {
			return nil, fmt.Errorf("volume label: %w", err)
		}
		if v.Label, err = at.CUTF16(); err != nil {
			return nil, fmt.Errorf("volume label: %w", err)
		}
		return v, nil
	}

	if labelOffset < volumeIDHeaderSize {
		return nil, lnkerr.Invalid(fmt.Errorf("label offset: %w", ErrInvalidVolumeID), labelOffset)
	}
	at, err := body.At(int(labelOffset - volumeIDHeaderSize))
	if err != nil {
		return nil, fmt.Errorf("volume label: %w", err)
	}
	if v.Label, err = at.CANSI(); err != nil {
		return nil, fmt.Errorf("volume label: %w", err)
	}
	return v, nil
}
