// Package idlist decodes and encodes the LinkTargetIDList of a shell link:
// the sequence of shell items that spells out the target's path from the
// My Computer root down to the file.
package idlist

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/lnkerr"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/wire"
)

const (
	rootItemType  = 0x1F
	driveItemType = 0x2F

	rootItemIndex  = 0x50
	driveJunkBytes = 19

	extensionSignature  = 0xBEEF0004
	extensionHeaderSize = 8
)

// entryType is the u16 class code of a non-root, non-drive item.
type entryType uint16

const (
	typeKnownFolder     entryType = 0x00
	typeFolder          entryType = 0x31
	typeFile            entryType = 0x32
	typeFolderUnicode   entryType = 0x35
	typeFileUnicode     entryType = 0x36
	typeKnownRootFolder entryType = 0x802E
	typeRootFolder      entryType = 0x1F
	typeURI             entryType = 0x61
	typeControlPanel    entryType = 0x71
)

var uwpMarker = []byte("APPS")

// Decode reads a u16-size-prefixed ID list, decodes every item and checks
// the entry order.
func Decode(r *wire.Reader) (*IDList, error) {
	size, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	list, err := r.Sub(int(size))
	if err != nil {
		return nil, fmt.Errorf("failed to bound id list: %w", err)
	}

	var items [][]byte
	for {
		length, err := list.Uint16()
		if err != nil {
			return nil, fmt.Errorf("failed to read id list item length: %w", err)
		}
		if length == 0 {
			break
		}
		if length < 2 {
			return nil, lnkerr.Invalid(fmt.Errorf("item length: %w", ErrInvalidEntryType), length)
		}
		item, err := list.Bytes(int(length) - 2)
		if err != nil {
			return nil, fmt.Errorf("failed to read id list item %d: %w", len(items), err)
		}
		items = append(items, item)
	}
	if err := list.ExpectEOF("id list"); err != nil {
		return nil, err
	}

	out := &IDList{Entries: make([]Entry, 0, len(items))}
	for i, item := range items {
		entry, err := decodeItem(wire.NewReader(item, wire.WithCodePage(r.CodePage()), wire.WithLogger(r.Logger())))
		if err != nil {
			return nil, fmt.Errorf("id list item %d: %w", i, err)
		}
		r.Logger().Debug("decoded id list entry",
			zap.Int("index", i),
			zap.String("entry", fmt.Sprintf("%T", entry)),
			zap.Int("size", len(item)+2))
		out.Entries = append(out.Entries, entry)
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeItem(r *wire.Reader) (Entry, error) {
	if head, err := r.Peek(8); err == nil && bytes.Equal(head[4:8], uwpMarker) {
		return nil, ErrUWPUnsupported
	}

	first, err := r.Uint8()
	if err != nil {
		return nil, err
	}

	switch first {
	case rootItemType:
		return decodeRoot(r)
	case driveItemType:
		return decodeDrive(r)
	}

	second, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	code := entryType(uint16(first) | uint16(second)<<8)

	switch code {
	case typeFolder, typeFolderUnicode:
		data, err := decodeEntryData(r, code == typeFolderUnicode)
		if err != nil {
			return nil, err
		}
		return Folder{EntryData: data}, nil
	case typeFile, typeFileUnicode:
		data, err := decodeEntryData(r, code == typeFileUnicode)
		if err != nil {
			return nil, err
		}
		return File{EntryData: data}, nil
	case typeKnownFolder, typeKnownRootFolder, typeRootFolder, typeURI, typeControlPanel:
		return nil, lnkerr.Invalid(ErrUnsupportedEntryType, uint16(code))
	default:
		return nil, lnkerr.Invalid(ErrInvalidEntryType, uint16(code))
	}
}

func decodeRoot(r *wire.Reader) (Entry, error) {
	if _, err := r.Uint8(); err != nil {
		return nil, err
	}
	g, err := r.GUID()
	if err != nil {
		return nil, err
	}
	location, ok := RootLocationFromGUID(g)
	if !ok {
		return nil, lnkerr.Invalid(ErrInvalidRootType, g)
	}
	if err := r.ExpectEOF("root entry"); err != nil {
		return nil, err
	}
	return Root{Location: location}, nil
}

func decodeDrive(r *wire.Reader) (Entry, error) {
	b, err := r.Bytes(3)
	if err != nil {
		return nil, err
	}
	if b[0] < 'A' || b[0] > 'Z' || b[1] != ':' || b[2] != '\\' {
		return nil, lnkerr.Invalid(ErrInvalidDrive, fmt.Sprintf("%q", b))
	}
	if err := r.Skip(driveJunkBytes); err != nil {
		return nil, err
	}
	if err := r.ExpectEOF("drive entry"); err != nil {
		return nil, err
	}
	return Drive{Letter: b[0]}, nil
}

func decodeEntryData(r *wire.Reader, unicode bool) (EntryData, error) {
	var (
		d   = EntryData{Unicode: unicode}
		err error
	)
	if d.FileSize, err = r.Uint32(); err != nil {
		return d, err
	}
	if d.Modified, err = r.DOSDateTime(); err != nil {
		return d, fmt.Errorf("modified time: %w", err)
	}
	if d.Attributes, err = r.Uint16(); err != nil {
		return d, err
	}
	if unicode {
		d.ShortName, err = r.CUTF16()
	} else {
		d.ShortName, err = r.CANSIPadded()
	}
	if err != nil {
		return d, fmt.Errorf("short name: %w", err)
	}

	if r.Len() > 0 {
		if d.Extension, err = decodeExtension(r); err != nil {
			return d, err
		}
	}
	return d, r.ExpectEOF("folder or file entry")
}

func decodeExtension(r *wire.Reader) (*Extension, error) {
	size, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	version, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	signature, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if size < extensionHeaderSize {
		return nil, lnkerr.Invalid(fmt.Errorf("extension size: %w", lnkerr.ErrInvalidValue), size)
	}
	body, err := r.Sub(int(size) - extensionHeaderSize)
	if err != nil {
		return nil, fmt.Errorf("failed to bound entry extension: %w", err)
	}
	// Blocks with other signatures are skipped.
	if signature != extensionSignature {
		r.Logger().Debug("skipped entry extension", zap.Uint32("signature", signature), zap.Uint16("size", size))
		return nil, nil
	}

	ext := &Extension{Version: version}
	if ext.Created, err = body.DOSDateTime(); err != nil {
		return nil, fmt.Errorf("created time: %w", err)
	}
	if ext.Accessed, err = body.DOSDateTime(); err != nil {
		return nil, fmt.Errorf("accessed time: %w", err)
	}
	if _, err = body.Uint16(); err != nil {
		return nil, err
	}
	if version >= 7 {
		if _, err = body.Uint16(); err != nil {
			return nil, err
		}
		if ext.FileReference, err = body.Uint64(); err != nil {
			return nil, err
		}
		if _, err = body.Uint64(); err != nil {
			return nil, err
		}
	}
	var longStringSize uint16
	if version >= 3 {
		if longStringSize, err = body.Uint16(); err != nil {
			return nil, err
		}
	}
	if version >= 9 {
		if _, err = body.Uint32(); err != nil {
			return nil, err
		}
	}
	if version >= 8 {
		if _, err = body.Uint32(); err != nil {
			return nil, err
		}
	}
	if version >= 3 {
		if ext.FullName, err = body.CUTF16(); err != nil {
			return nil, fmt.Errorf("full name: %w", err)
		}
		if longStringSize > 0 {
			if version >= 7 {
				ext.LocalizedName, err = body.CUTF16()
			} else {
				ext.LocalizedName, err = body.CANSI()
			}
			if err != nil {
				return nil, fmt.Errorf("localized name: %w", err)
			}
		}
		if _, err = body.Uint16(); err != nil {
			return nil, err
		}
	}
	if err := body.ExpectEOF("entry extension"); err != nil {
		return nil, err
	}
	return ext, nil
}
