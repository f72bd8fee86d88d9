// Package propstore decodes and encodes serialized property storages, the
// payload of a link's property store data block.
//
// A payload is a sequence of storages, each with a format id and a list of
// typed values. Values of the basic item and app user model formats are
// decoded into typed records; every other value is kept as-is.
package propstore

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/lnkerr"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/wire"
)

const (
	// size, version and format id, plus the terminating value size
	minStorageSize = 4 + 4 + 16 + 4
	// value size, id or name size, reserved byte
	valueHeaderSize = 4 + 4 + 1
	typedHeaderSize = 2 + 2
)

// Decode reads storages from r until a zero storage size or the end of r,
// merging them into s.
func (s *Store) Decode(r *wire.Reader) error {
	for r.Len() > 0 {
		size, err := r.Uint32()
		if err != nil {
			return err
		}
		if size == 0 {
			return nil
		}
		if size < minStorageSize {
			return lnkerr.Invalid(ErrInvalidStorageSize, size)
		}
		body, err := r.Sub(int(size) - 4)
		if err != nil {
			return fmt.Errorf("failed to bound property storage: %w", err)
		}
		if err := s.decodeStorage(body); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) decodeStorage(r *wire.Reader) error {
	version, err := r.Uint32()
	if err != nil {
		return err
	}
	if version != Version {
		return lnkerr.Invalid(ErrInvalidVersion, version)
	}
	format, err := r.GUID()
	if err != nil {
		return err
	}

	var (
		named = format == FormatNamed
		ids   []idValue
		count int
	)
	for {
		valueSize, err := r.Uint32()
		if err != nil {
			return err
		}
		if valueSize == 0 {
			break
		}
		if valueSize < valueHeaderSize+typedHeaderSize {
			return lnkerr.Invalid(ErrInvalidValueSize, valueSize)
		}
		entry, err := r.Sub(int(valueSize) - 4)
		if err != nil {
			return fmt.Errorf("failed to bound property value: %w", err)
		}

		if named {
			name, value, err := decodeNamed(entry)
			if err != nil {
				return fmt.Errorf("property %q: %w", name, err)
			}
			if s.Named == nil {
				s.Named = make(map[string]Value)
			}
			s.Named[name] = value
		} else {
			id, value, err := decodeID(entry)
			if err != nil {
				return fmt.Errorf("property %s/%d: %w", format, id, err)
			}
			ids = append(ids, idValue{id, value})
		}
		count++
	}
	if err := r.ExpectEOF("property storage"); err != nil {
		return err
	}

	r.Logger().Debug("decoded property storage",
		zap.Stringer("format", format),
		zap.Int("values", count))

	return s.group(format, ids)
}

// group files id-keyed values under their format, decoding the two known
// formats into their records.
func (s *Store) group(format uuid.UUID, ids []idValue) error {
	switch format {
	case FormatBasic:
		if s.Basic == nil {
			s.Basic = &BasicProperties{}
		}
		for _, p := range ids {
			if err := s.Basic.set(p.id, p.value); err != nil {
				return err
			}
		}
	case FormatAppUserModel:
		if s.AppUserModel == nil {
			s.AppUserModel = &AppUserModelProperties{}
		}
		for _, p := range ids {
			if err := s.AppUserModel.set(p.id, p.value); err != nil {
				return err
			}
		}
	case FormatNamed:
	default:
		if len(ids) == 0 {
			return nil
		}
		if s.Sets == nil {
			s.Sets = make(map[uuid.UUID]map[uint32]Value)
		}
		set := s.Sets[format]
		if set == nil {
			set = make(map[uint32]Value, len(ids))
			s.Sets[format] = set
		}
		for _, p := range ids {
			set[p.id] = p.value
		}
	}
	return nil
}

func decodeNamed(r *wire.Reader) (string, Value, error) {
	nameSize, err := r.Uint32()
	if err != nil {
		return "", nil, err
	}
	if err := r.Skip(1); err != nil {
		return "", nil, err
	}
	raw, err := r.Sub(int(nameSize))
	if err != nil {
		return "", nil, fmt.Errorf("name: %w", err)
	}
	name, err := raw.CUTF16()
	if err != nil {
		return "", nil, fmt.Errorf("name: %w", err)
	}
	if err := raw.ExpectEOF("property name"); err != nil {
		return name, nil, err
	}
	value, err := decodeTyped(r)
	return name, value, err
}

func decodeID(r *wire.Reader) (uint32, Value, error) {
	id, err := r.Uint32()
	if err != nil {
		return 0, nil, err
	}
	if err := r.Skip(1); err != nil {
		return id, nil, err
	}
	value, err := decodeTyped(r)
	return id, value, err
}

// decodeTyped reads a TypedPropertyValue filling the rest of r. Zero bytes
// after a decoded value are alignment padding.
func decodeTyped(r *wire.Reader) (Value, error) {
	tag, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	pad, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	if pad != 0 {
		return nil, lnkerr.Invalid(ErrBadPadding, pad)
	}

	var v Value
	switch VarType(tag) {
	case VTBool:
		b, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		v = Bool(b != 0)
		if r.Len() > 0 {
			pad, err := r.Uint16()
			if err != nil {
				return nil, err
			}
			if pad != 0 {
				return nil, lnkerr.Invalid(ErrBadPadding, pad)
			}
		}
	case VTString:
		count, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		raw, err := r.Bytes(int(count) * 2)
		if err != nil {
			return nil, err
		}
		str, err := wire.FixedUTF16(raw)
		if err != nil {
			return nil, err
		}
		v = String(str)
	case VTFileTime:
		t, err := r.FileTime()
		if err != nil {
			return nil, err
		}
		v = FileTime(t)
	case VTUint64:
		n, err := r.Uint64()
		if err != nil {
			return nil, err
		}
		v = Uint64(n)
	default:
		return Unparsed{VT: VarType(tag), Raw: bytes.Clone(r.Rest())}, nil
	}

	if tail := r.Rest(); len(bytes.Trim(tail, "\x00")) != 0 {
		return nil, &lnkerr.LeftoverError{Region: "typed property value", Data: bytes.Clone(tail)}
	}
	return v, nil
}
