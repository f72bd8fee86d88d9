package propstore

import (
	"fmt"
	"time"
)

// idValue is one id-keyed property.
type idValue struct {
	id    uint32
	value Value
}

func wrongType(id uint32, want VarType, got Value) error {
	return fmt.Errorf("pid %d: want %s, got %s: %w", id, want, got.Type(), ErrWrongPropertyType)
}

func asString(id uint32, v Value) (*string, error) {
	s, ok := v.(String)
	if !ok {
		return nil, wrongType(id, VTString, v)
	}
	out := string(s)
	return &out, nil
}

func asBool(id uint32, v Value) (*bool, error) {
	b, ok := v.(Bool)
	if !ok {
		return nil, wrongType(id, VTBool, v)
	}
	out := bool(b)
	return &out, nil
}

func asUint64(id uint32, v Value) (*uint64, error) {
	n, ok := v.(Uint64)
	if !ok {
		return nil, wrongType(id, VTUint64, v)
	}
	out := uint64(n)
	return &out, nil
}

func asTime(id uint32, v Value) (*time.Time, error) {
	t, ok := v.(FileTime)
	if !ok {
		return nil, wrongType(id, VTFileTime, v)
	}
	out := time.Time(t)
	return &out, nil
}

func unknownID(id uint32) error {
	return fmt.Errorf("%w %d", ErrUnknownPropertyID, id)
}

func (p *BasicProperties) set(id uint32, v Value) (err error) {
	switch id {
	case 4:
		p.ItemTypeText, err = asString(id, v)
	case 10:
		p.ItemNameDisplay, err = asString(id, v)
	case 12:
		p.Size, err = asUint64(id, v)
	case 14:
		p.DateCreated, err = asTime(id, v)
	case 15:
		p.DateModified, err = asTime(id, v)
	default:
		err = unknownID(id)
	}
	return err
}

func (p *BasicProperties) values() []idValue {
	var out []idValue
	if p.ItemTypeText != nil {
		out = append(out, idValue{4, String(*p.ItemTypeText)})
	}
	if p.ItemNameDisplay != nil {
		out = append(out, idValue{10, String(*p.ItemNameDisplay)})
	}
	if p.Size != nil {
		out = append(out, idValue{12, Uint64(*p.Size)})
	}
	if p.DateCreated != nil {
		out = append(out, idValue{14, FileTime(*p.DateCreated)})
	}
	if p.DateModified != nil {
		out = append(out, idValue{15, FileTime(*p.DateModified)})
	}
	return out
}

func (p *AppUserModelProperties) set(id uint32, v Value) (err error) {
	switch id {
	case 2:
		p.ExcludeFromShowInNewInstall, err = asBool(id, v)
	case 5:
		p.ID, err = asString(id, v)
	case 6:
		p.RelaunchCommand, err = asString(id, v)
	case 7:
		p.RelaunchDisplayNameResource, err = asString(id, v)
	case 8:
		p.RelaunchIconResource, err = asString(id, v)
	case 9:
		p.PreventPinning, err = asBool(id, v)
	case 11:
		p.IsDualMode, err = asBool(id, v)
	default:
		err = unknownID(id)
	}
	return err
}

func (p *AppUserModelProperties) values() []idValue {
	var out []idValue
	add := func(id uint32, v Value) { out = append(out, idValue{id, v}) }
	if p.ExcludeFromShowInNewInstall != nil {
		add(2, Bool(*p.ExcludeFromShowInNewInstall))
	}
	if p.ID != nil {
		add(5, String(*p.ID))
	}
	if p.RelaunchCommand != nil {
		add(6, String(*p.RelaunchCommand))
	}
	if p.RelaunchDisplayNameResource != nil {
		add(7, String(*p.RelaunchDisplayNameResource))
	}
	if p.RelaunchIconResource != nil {
		add(8, String(*p.RelaunchIconResource))
	}
	if p.PreventPinning != nil {
		add(9, Bool(*p.PreventPinning))
	}
	if p.IsDualMode != nil {
		add(11, Bool(*p.IsDualMode))
	}
	return out
}
