package idlist

import (
	"fmt"
	"time"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/wire"
)

// DefaultExtensionVersion is the extension version written by NewEntryData.
const DefaultExtensionVersion = 9

// Encode writes the list with its u16 total size, u16 item lengths and the
// zero terminator. The entry order is validated first.
func (l *IDList) Encode(w *wire.Writer) error {
	if err := l.Validate(); err != nil {
		return err
	}

	list := w.Child()
	for i, e := range l.Entries {
		item := w.Child()
		if err := encodeItem(item, e); err != nil {
			return fmt.Errorf("id list item %d: %w", i, err)
		}
		length, err := wire.Size16(item.Len()+2, "id list item")
		if err != nil {
			return err
		}
		list.Uint16(length)
		list.Raw(item.Bytes())
	}
	list.Uint16(0)

	size, err := wire.Size16(list.Len(), "id list")
	if err != nil {
		return err
	}
	w.Uint16(size)
	w.Raw(list.Bytes())
	return nil
}

func encodeItem(w *wire.Writer, e Entry) error {
	switch v := e.(type) {
	case Root:
		w.Uint8(rootItemType)
		w.Uint8(rootItemIndex)
		w.GUID(v.Location.GUID())
		return nil
	case Drive:
		if v.Letter < 'A' || v.Letter > 'Z' {
			return fmt.Errorf("%w: letter %q", ErrInvalidDrive, v.Letter)
		}
		w.Uint8(driveItemType)
		w.Raw([]byte{v.Letter, ':', '\\'})
		w.Zero(driveJunkBytes)
		return nil
	case Folder:
		code := typeFolder
		if v.Unicode {
			code = typeFolderUnicode
		}
		return encodeEntryData(w, code, v.EntryData)
	case File:
		code := typeFile
		if v.Unicode {
			code = typeFileUnicode
		}
		return encodeEntryData(w, code, v.EntryData)
	default:
		return fmt.Errorf("%w: %T", ErrInvalidEntryType, e)
	}
}

func encodeEntryData(w *wire.Writer, code entryType, d EntryData) error {
	w.Uint16(uint16(code))
	w.Uint32(d.FileSize)
	if err := w.DOSDateTime(d.Modified); err != nil {
		return fmt.Errorf("modified time: %w", err)
	}
	w.Uint16(d.Attributes)

	var err error
	if d.Unicode {
		err = w.CUTF16(d.ShortName)
	} else {
		err = w.CANSIPadded(d.ShortName)
	}
	if err != nil {
		return fmt.Errorf("short name: %w", err)
	}

	if d.Extension == nil {
		return nil
	}
	// item offsets count the u16 length prefix the caller adds
	return encodeExtension(w, d.Extension, w.Len()+2)
}

func encodeExtension(w *wire.Writer, ext *Extension, itemOffset int) error {
	v := ext.Version
	if v < 3 && (ext.FullName != "" || ext.LocalizedName != "") {
		return fmt.Errorf("%w: version %d has no name fields", ErrExtensionFields, v)
	}
	if v < 7 && ext.FileReference != 0 {
		return fmt.Errorf("%w: version %d has no file reference", ErrExtensionFields, v)
	}

	var localized []byte
	if ext.LocalizedName != "" {
		enc := w.Child()
		var err error
		if v >= 7 {
			err = enc.CUTF16(ext.LocalizedName)
		} else {
			err = enc.CANSI(ext.LocalizedName)
		}
		if err != nil {
			return fmt.Errorf("localized name: %w", err)
		}
		localized = enc.Bytes()
	}

	body := w.Child()
	if err := body.DOSDateTime(ext.Created); err != nil {
		return fmt.Errorf("created time: %w", err)
	}
	if err := body.DOSDateTime(ext.Accessed); err != nil {
		return fmt.Errorf("accessed time: %w", err)
	}

	// offset of the long name from the start of the extension
	nameOffset := extensionHeaderSize + 4 + 4 + 2
	if v >= 7 {
		nameOffset += 2 + 8 + 8
	}
	if v >= 3 {
		nameOffset += 2
	}
	if v >= 9 {
		nameOffset += 4
	}
	if v >= 8 {
		nameOffset += 4
	}
	if v >= 3 {
		body.Uint16(uint16(nameOffset))
	} else {
		body.Uint16(0)
	}

	if v >= 7 {
		body.Uint16(0)
		body.Uint64(ext.FileReference)
		body.Uint64(0)
	}
	if v >= 3 {
		n, err := wire.Size16(len(localized), "localized name")
		if err != nil {
			return err
		}
		body.Uint16(n)
	}
	if v >= 9 {
		body.Uint32(0)
	}
	if v >= 8 {
		body.Uint32(0)
	}
	if v >= 3 {
		if err := body.CUTF16(ext.FullName); err != nil {
			return fmt.Errorf("full name: %w", err)
		}
		body.Raw(localized)
		versionOffset, err := wire.Size16(itemOffset, "extension offset")
		if err != nil {
			return err
		}
		body.Uint16(versionOffset)
	}

	size, err := wire.Size16(body.Len()+extensionHeaderSize, "entry extension")
	if err != nil {
		return err
	}
	w.Uint16(size)
	w.Uint16(v)
	w.Uint32(extensionSignature)
	w.Raw(body.Bytes())
	return nil
}

// NewEntryData builds Unicode entry data carrying name as both the short
// and the long name, with all timestamps set to modified.
func NewEntryData(name string, size uint32, modified time.Time) EntryData {
	return EntryData{
		Unicode:   true,
		FileSize:  size,
		Modified:  modified,
		ShortName: name,
		Extension: &Extension{
			Version:  DefaultExtensionVersion,
			Created:  modified,
			Accessed: modified,
			FullName: name,
		},
	}
}
