package linkinfo

import (
	"fmt"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/lnkerr"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/wire"
)

// Encode writes the structure with its u32 size prefix. The Unicode header
// is used when a path cannot be represented in the writer's code page, in
// which case the ANSI copies are written with replacement characters.
func (li *LinkInfo) Encode(w *wire.Writer) error {
	if li.VolumeID == nil && li.LocalBasePath != "" {
		return ErrLocalPathWithoutVolume
	}

	cp := w.CodePage()
	unicode := !cp.CanEncode(li.LocalBasePath) || !cp.CanEncode(li.CommonPathSuffix)
	headerSize := uint32(HeaderSizeDefault)
	if unicode {
		headerSize = HeaderSizeUnicode
	}

	var flags Flags
	pool := w.Child()
	var volumeOffset, localOffset, localUnicodeOffset uint32

	if li.VolumeID != nil {
		flags |= FlagVolumeIDAndLocalBasePath

		volumeOffset = headerSize + uint32(pool.Len())
		if err := li.VolumeID.encode(pool); err != nil {
			return err
		}
		localOffset = headerSize + uint32(pool.Len())
		if err := pool.CANSILossy(li.LocalBasePath); err != nil {
			return fmt.Errorf("local base path: %w", err)
		}
	}

	suffixOffset := headerSize + uint32(pool.Len())
	if err := pool.CANSILossy(li.CommonPathSuffix); err != nil {
		return fmt.Errorf("common path suffix: %w", err)
	}

	var suffixUnicodeOffset uint32
	if unicode {
		if li.VolumeID != nil {
			localUnicodeOffset = headerSize + uint32(pool.Len())
			if err := pool.CUTF16(li.LocalBasePath); err != nil {
				return fmt.Errorf("local base path: %w", err)
			}
		}
		suffixUnicodeOffset = headerSize + uint32(pool.Len())
		if err := pool.CUTF16(li.CommonPathSuffix); err != nil {
			return fmt.Errorf("common path suffix: %w", err)
		}
	}

	size, err := wire.Size32(int(headerSize)+pool.Len(), "link info")
	if err != nil {
		return err
	}
	w.Uint32(size)
	w.Uint32(headerSize)
	w.Uint32(uint32(flags))
	w.Uint32(volumeOffset)
	w.Uint32(localOffset)
	w.Uint32(0)
	w.Uint32(suffixOffset)
	if unicode {
		w.Uint32(localUnicodeOffset)
		w.Uint32(suffixUnicodeOffset)
	}
	w.Raw(pool.Bytes())
	return nil
}

func (v *VolumeID) encode(w *wire.Writer) error {
	if !v.DriveType.Valid() {
		return lnkerr.Invalid(ErrInvalidDriveType, uint32(v.DriveType))
	}

	body := w.Child()
	body.Uint32(uint32(v.DriveType))
	body.Uint32(v.SerialNumber)
	if w.CodePage().CanEncode(v.Label) {
		body.Uint32(volumeIDHeaderSize)
		if err := body.CANSI(v.Label); err != nil {
			return fmt.Errorf("volume label: %w", err)
		}
	} else {
		body.Uint32(volumeIDUnicodeHeaderSize)
		body.Uint32(volumeIDUnicodeHeaderSize)
		if err := body.CUTF16(v.Label); err != nil {
			return fmt.Errorf("volume label: %w", err)
		}
	}

	size, err := wire.Size32(body.Len()+4, "volume id")
	if err != nil {
		return err
	}
	w.Uint32(size)
	w.Raw(body.Bytes())
	return nil
}
