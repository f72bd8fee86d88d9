package propstore

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/wire"
)

// Encode writes one storage per non-empty format followed by a zero storage
// size. Formats are written named first, then basic, app user model and the
// remaining sets ordered by format id; values are ordered by name or id.
func (s *Store) Encode(w *wire.Writer) error {
	if len(s.Named) > 0 {
		if err := encodeStorage(w, FormatNamed, func(body *wire.Writer) error {
			return s.encodeNamed(body)
		}); err != nil {
			return err
		}
	}
	if s.Basic != nil {
		if err := encodeIDStorage(w, FormatBasic, s.Basic.values()); err != nil {
			return err
		}
	}
	if s.AppUserModel != nil {
		if err := encodeIDStorage(w, FormatAppUserModel, s.AppUserModel.values()); err != nil {
			return err
		}
	}

	formats := make([]uuid.UUID, 0, len(s.Sets))
	for f := range s.Sets {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i].String() < formats[j].String() })
	for _, f := range formats {
		set := s.Sets[f]
		ids := make([]idValue, 0, len(set))
		for id, v := range set {
			ids = append(ids, idValue{id, v})
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i].id < ids[j].id })
		if err := encodeIDStorage(w, f, ids); err != nil {
			return err
		}
	}

	w.Uint32(0)
	return nil
}

func encodeStorage(w *wire.Writer, format uuid.UUID, values func(*wire.Writer) error) error {
	body := w.Child()
	body.Uint32(Version)
	body.GUID(format)
	if err := values(body); err != nil {
		return fmt.Errorf("property storage %s: %w", format, err)
	}
	body.Uint32(0)

	size, err := wire.Size32(body.Len()+4, "property storage")
	if err != nil {
		return err
	}
	w.Uint32(size)
	w.Raw(body.Bytes())
	return nil
}

func encodeIDStorage(w *wire.Writer, format uuid.UUID, ids []idValue) error {
	return encodeStorage(w, format, func(body *wire.Writer) error {
		for _, p := range ids {
			entry := body.Child()
			entry.Uint32(p.id)
			entry.Uint8(0)
			if err := encodeTyped(entry, p.value); err != nil {
				return fmt.Errorf("pid %d: %w", p.id, err)
			}
			if err := writeEntry(body, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) encodeNamed(body *wire.Writer) error {
	names := make([]string, 0, len(s.Named))
	for n := range s.Named {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		name := body.Child()
		if err := name.CUTF16(n); err != nil {
			return fmt.Errorf("property name: %w", err)
		}
		entry := body.Child()
		entry.Uint32(uint32(name.Len()))
		entry.Uint8(0)
		entry.Raw(name.Bytes())
		if err := encodeTyped(entry, s.Named[n]); err != nil {
			return fmt.Errorf("property %q: %w", n, err)
		}
		if err := writeEntry(body, entry); err != nil {
			return err
		}
	}
	return nil
}

func writeEntry(body, entry *wire.Writer) error {
	size, err := wire.Size32(entry.Len()+4, "property value")
	if err != nil {
		return err
	}
	body.Uint32(size)
	body.Raw(entry.Bytes())
	return nil
}

func encodeTyped(w *wire.Writer, v Value) error {
	if v == nil {
		return ErrNilValue
	}
	w.Uint16(uint16(v.Type()))
	w.Uint16(0)

	switch v := v.(type) {
	case Bool:
		if v {
			w.Uint16(0xFFFF)
		} else {
			w.Uint16(0)
		}
		w.Uint16(0)
	case String:
		str := w.Child()
		if err := str.CUTF16(string(v)); err != nil {
			return err
		}
		w.Uint32(uint32(str.Len() / 2))
		w.Raw(str.Bytes())
		w.Zero((4 - str.Len()%4) % 4)
	case FileTime:
		w.FileTime(time.Time(v))
	case Uint64:
		w.Uint64(uint64(v))
	case Unparsed:
		w.Raw(v.Raw)
	default:
		return fmt.Errorf("unsupported property value %T", v)
	}
	return nil
}
