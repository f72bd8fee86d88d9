// Package shelllink reads and writes Windows shell link (.lnk) files.
//
// A link is a fixed 76-byte header followed by optional structures whose
// presence the header's LinkFlags announce: the target ID list, the link
// info, five strings and a chain of extra data blocks. Parse decodes a whole
// file and fails on any inconsistency; Write assembles a file from a
// ShellLink, deriving the presence flags from the populated fields.
package shelllink

import (
	"time"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/extradata"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/idlist"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/linkinfo"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/lnkerr"
)

// Errors returned by Parse and Write
var (
	ErrInvalidHeaderSize  = lnkerr.New(lnkerr.ErrInvalidValue, "invalid shell link header size")
	ErrInvalidCLSID       = lnkerr.New(lnkerr.ErrInvalidValue, "invalid shell link class id")
	ErrInvalidLinkFlags   = lnkerr.New(lnkerr.ErrInvalidValue, "invalid link flags")
	ErrInvalidShowCommand = lnkerr.New(lnkerr.ErrInvalidValue, "invalid show command")
	ErrInputTooLarge      = lnkerr.New(lnkerr.ErrInvalidValue, "input exceeds the maximum link size")
)

const (
	// HeaderSize is the fixed size of the header and doubles as its magic.
	HeaderSize = 0x4C

	// DefaultMaxSize bounds the input Parse will read.
	DefaultMaxSize = 16 << 20
)

// CLSID is the class identifier every shell link header carries.
var CLSID = uuid.MustParse("00021401-0000-0000-C000-000000000046")

// ShellLink is a decoded link file. Optional strings are nil when absent.
type ShellLink struct {
	LinkFlags      LinkFlags
	FileAttributes FileAttributeFlags

	CreationTime time.Time
	AccessTime   time.Time
	WriteTime    time.Time

	FileSize    uint32
	IconIndex   int32
	ShowCommand ShowCommand

	IDList   *idlist.IDList
	LinkInfo *linkinfo.LinkInfo

	Name         *string
	RelativePath *string
	WorkingDir   *string
	Arguments    *string
	IconLocation *string

	ExtraData *extradata.BlockData
}

// headerLayout is the on-disk header. Hotkey and the reserved fields are
// read and dropped.
type headerLayout struct {
	HeaderSize     uint32
	CLSID          [16]byte
	LinkFlags      uint32
	FileAttributes uint32
	CreationTime   uint64
	AccessTime     uint64
	WriteTime      uint64
	FileSize       uint32
	IconIndex      int32
	ShowCommand    uint32
	HotKey         uint16
	Reserved1      uint16
	Reserved2      uint32
	Reserved3      uint32
}

// Target returns the best available path of the link target: the ID list
// path, else the link info path, else the relative path.
func (l *ShellLink) Target() string {
	if l.IDList != nil {
		if p := l.IDList.Path(); p != "" {
			return p
		}
	}
	if p := l.LinkInfo.Path(); p != "" {
		return p
	}
	if l.RelativePath != nil {
		return *l.RelativePath
	}
	return ""
}

// Flags returns the link flags Write stores: the caller's flags with every
// presence bit derived from the populated fields and IsUnicode set.
func (l *ShellLink) Flags() LinkFlags {
	f := l.LinkFlags | IsUnicode
	f = f.With(HasLinkTargetIDList, l.IDList != nil)
	f = f.With(HasLinkInfo, l.LinkInfo != nil)
	if l.LinkInfo != nil {
		f &^= ForceNoLinkInfo
	}
	f = f.With(HasName, l.Name != nil)
	f = f.With(HasRelativePath, l.RelativePath != nil)
	f = f.With(HasWorkingDir, l.WorkingDir != nil)
	f = f.With(HasArguments, l.Arguments != nil)
	f = f.With(HasIconLocation, l.IconLocation != nil)
	f = f.With(HasExpIcon, l.ExtraData != nil && l.ExtraData.IconEnvironment != nil)
	return f
}

// stringField is an optional string with its presence flag.
type stringField struct {
	flag LinkFlags
	name string
	ptr  **string
}

// stringFields lists the optional strings in file order.
func (l *ShellLink) stringFields() []stringField {
	return []stringField{
		{HasName, "name", &l.Name},
		{HasRelativePath, "relative path", &l.RelativePath},
		{HasWorkingDir, "working directory", &l.WorkingDir},
		{HasArguments, "arguments", &l.Arguments},
		{HasIconLocation, "icon location", &l.IconLocation},
	}
}
