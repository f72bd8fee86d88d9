package shelllink

import (
	"fmt"
	"math/bits"
	"strings"
)

// LinkFlags says which optional structures follow the header.
type LinkFlags uint32

// Link flags
const (
	HasLinkTargetIDList LinkFlags = 1 << iota
	HasLinkInfo
	HasName
	HasRelativePath
	HasWorkingDir
	HasArguments
	HasIconLocation
	IsUnicode
	ForceNoLinkInfo
	HasExpString
	RunInSeparateProcess
	Unused1
	HasDarwinID
	RunAsUser
	HasExpIcon
	NoPidlAlias
	Unused2
	RunWithShimLayer
	ForceNoLinkTrack
	EnableTargetMetadata
	DisableLinkPathTracking
	DisableKnownFolderTracking
	DisableKnownFolderAlias
	AllowLinkToLink
	UnaliasOnSave
	PreferEnvironmentPath
	KeepLocalIDListForUNCTarget

	// AllLinkFlags is the union of every documented bit.
	AllLinkFlags = KeepLocalIDListForUNCTarget<<1 - 1
)

var linkFlagNames = [...]string{
	"HasLinkTargetIDList",
	"HasLinkInfo",
	"HasName",
	"HasRelativePath",
	"HasWorkingDir",
	"HasArguments",
	"HasIconLocation",
	"IsUnicode",
	"ForceNoLinkInfo",
	"HasExpString",
	"RunInSeparateProcess",
	"Unused1",
	"HasDarwinID",
	"RunAsUser",
	"HasExpIcon",
	"NoPidlAlias",
	"Unused2",
	"RunWithShimLayer",
	"ForceNoLinkTrack",
	"EnableTargetMetadata",
	"DisableLinkPathTracking",
	"DisableKnownFolderTracking",
	"DisableKnownFolderAlias",
	"AllowLinkToLink",
	"UnaliasOnSave",
	"PreferEnvironmentPath",
	"KeepLocalIDListForUNCTarget",
}

// Has reports whether every bit of mask is set.
func (f LinkFlags) Has(mask LinkFlags) bool {
	return f&mask == mask
}

// With returns f with mask set or cleared.
func (f LinkFlags) With(mask LinkFlags, on bool) LinkFlags {
	if on {
		return f | mask
	}
	return f &^ mask
}

// Valid reports whether f only uses documented bits.
func (f LinkFlags) Valid() bool {
	return f&^AllLinkFlags == 0
}

// Names lists the names of the set bits, lowest first.
func (f LinkFlags) Names() []string {
	return flagNames(uint32(f), linkFlagNames[:])
}

func (f LinkFlags) String() string {
	return joinFlags(f.Names())
}

// FileAttributeFlags are the attributes of the link target.
type FileAttributeFlags uint32

// File attributes
const (
	FileAttributeReadOnly FileAttributeFlags = 1 << iota
	FileAttributeHidden
	FileAttributeSystem
	FileAttributeReserved1
	FileAttributeDirectory
	FileAttributeArchive
	FileAttributeReserved2
	FileAttributeNormal
	FileAttributeTemporary
	FileAttributeSparseFile
	FileAttributeReparsePoint
	FileAttributeCompressed
	FileAttributeOffline
	FileAttributeNotContentIndexed
	FileAttributeEncrypted
)

var fileAttributeNames = [...]string{
	"ReadOnly",
	"Hidden",
	"System",
	"Reserved1",
	"Directory",
	"Archive",
	"Reserved2",
	"Normal",
	"Temporary",
	"SparseFile",
	"ReparsePoint",
	"Compressed",
	"Offline",
	"NotContentIndexed",
	"Encrypted",
}

// Has reports whether every bit of mask is set.
func (f FileAttributeFlags) Has(mask FileAttributeFlags) bool {
	return f&mask == mask
}

// Names lists the names of the set bits, lowest first. Bits without a name
// are listed in hex.
func (f FileAttributeFlags) Names() []string {
	return flagNames(uint32(f), fileAttributeNames[:])
}

func (f FileAttributeFlags) String() string {
	return joinFlags(f.Names())
}

func flagNames(v uint32, names []string) []string {
	var out []string
	for v != 0 {
		bit := bits.TrailingZeros32(v)
		if bit < len(names) {
			out = append(out, names[bit])
		} else {
			out = append(out, fmt.Sprintf("%#x", uint32(1)<<bit))
		}
		v &^= 1 << bit
	}
	return out
}

func joinFlags(names []string) string {
	if len(names) == 0 {
		return "0"
	}
	return strings.Join(names, "|")
}

// ShowCommand is the window state the target is opened with.
type ShowCommand uint32

// Show commands
const (
	ShowNormal      ShowCommand = 1
	ShowMaximized   ShowCommand = 3
	ShowMinNoActive ShowCommand = 7
)

// Valid reports whether s is one of the three documented values.
func (s ShowCommand) Valid() bool {
	return s == ShowNormal || s == ShowMaximized || s == ShowMinNoActive
}

func (s ShowCommand) String() string {
	switch s {
	case ShowNormal:
		return "normal"
	case ShowMaximized:
		return "maximized"
	case ShowMinNoActive:
		return "minimized"
	default:
		return fmt.Sprintf("ShowCommand(%d)", uint32(s))
	}
}

// ParseShowCommand maps "normal", "maximized" or "minimized" to its value.
func ParseShowCommand(name string) (ShowCommand, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "normal":
		return ShowNormal, nil
	case "maximized", "max":
		return ShowMaximized, nil
	case "minimized", "min", "minnoactive":
		return ShowMinNoActive, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidShowCommand, name)
	}
}
