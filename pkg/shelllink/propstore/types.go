package propstore

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/lnkerr"
)

// Errors returned while decoding or encoding a property store
var (
	ErrInvalidVersion     = lnkerr.New(lnkerr.ErrInvalidValue, "invalid property storage version")
	ErrInvalidStorageSize = lnkerr.New(lnkerr.ErrInvalidValue, "invalid property storage size")
	ErrInvalidValueSize   = lnkerr.New(lnkerr.ErrInvalidValue, "invalid property value size")
	ErrBadPadding         = lnkerr.New(lnkerr.ErrEncoding, "typed property value padding must be zero")
	ErrUnknownPropertyID  = lnkerr.New(lnkerr.ErrInvalidValue, "unknown property id")
	ErrWrongPropertyType  = lnkerr.New(lnkerr.ErrInvalidValue, "wrong property type")
	ErrNilValue           = lnkerr.New(lnkerr.ErrInvalidValue, "property value is nil")
)

// Version is the "1SPS" magic at the start of every serialized storage.
const Version uint32 = 0x53505331

// Well-known format identifiers.
var (
	// FormatNamed storages key their values by name rather than by id.
	FormatNamed = uuid.MustParse("D5CDD505-2E9C-101B-9397-08002B2CF9AE")
	// FormatBasic holds the System.ItemTypeText, ItemNameDisplay, Size and
	// date properties.
	FormatBasic = uuid.MustParse("B725F130-47EF-101A-A5F1-02608C9EEBAC")
	// FormatAppUserModel holds the System.AppUserModel properties.
	FormatAppUserModel = uuid.MustParse("9F4C2855-9F79-4B39-A8D0-E1D42DE1D5F3")
)

// VarType is the type tag of a typed property value.
type VarType uint16

// Decoded value types
const (
	VTBool     VarType = 0x000B
	VTUint64   VarType = 0x0015
	VTString   VarType = 0x001F
	VTFileTime VarType = 0x0040
)

func (t VarType) String() string {
	switch t {
	case VTBool:
		return "VT_BOOL"
	case VTUint64:
		return "VT_UI8"
	case VTString:
		return "VT_LPWSTR"
	case VTFileTime:
		return "VT_FILETIME"
	default:
		return fmt.Sprintf("VT(%#04x)", uint16(t))
	}
}

// Value is one typed property value: String, Bool, Uint64, FileTime or
// Unparsed.
type Value interface {
	Type() VarType
}

// String is a VT_LPWSTR value.
type String string

// Bool is a VT_BOOL value.
type Bool bool

// Uint64 is a VT_UI8 value.
type Uint64 uint64

// FileTime is a VT_FILETIME value.
type FileTime time.Time

// Unparsed keeps a value of any other type verbatim.
type Unparsed struct {
	VT  VarType
	Raw []byte
}

func (String) Type() VarType     { return VTString }
func (Bool) Type() VarType       { return VTBool }
func (Uint64) Type() VarType     { return VTUint64 }
func (FileTime) Type() VarType   { return VTFileTime }
func (u Unparsed) Type() VarType { return u.VT }

// BasicProperties is the FormatBasic storage. Absent properties are nil.
type BasicProperties struct {
	ItemTypeText    *string    // PID 4
	ItemNameDisplay *string    // PID 10
	Size            *uint64    // PID 12
	DateCreated     *time.Time // PID 14
	DateModified    *time.Time // PID 15
}

// AppUserModelProperties is the FormatAppUserModel storage. Absent
// properties are nil.
type AppUserModelProperties struct {
	ExcludeFromShowInNewInstall *bool   // PID 2
	ID                          *string // PID 5
	RelaunchCommand             *string // PID 6
	RelaunchDisplayNameResource *string // PID 7
	RelaunchIconResource        *string // PID 8
	PreventPinning              *bool   // PID 9
	IsDualMode                  *bool   // PID 11
}

// Store is every property decoded from the property store blocks of a link.
type Store struct {
	Basic        *BasicProperties
	AppUserModel *AppUserModelProperties

	// Named holds the values of FormatNamed storages.
	Named map[string]Value
	// Sets holds id-keyed values of every other format.
	Sets map[uuid.UUID]map[uint32]Value
}

// Empty reports whether the store holds no properties.
func (s *Store) Empty() bool {
	return s == nil || (s.Basic == nil && s.AppUserModel == nil && len(s.Named) == 0 && len(s.Sets) == 0)
}
