package linkinfo

import (
	"fmt"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/lnkerr"
)

// Errors returned while decoding or encoding a LinkInfo structure
var (
	ErrInvalidSize            = lnkerr.New(lnkerr.ErrInvalidValue, "invalid link info size")
	ErrInvalidHeaderSize      = lnkerr.New(lnkerr.ErrInvalidValue, "invalid link info header size")
	ErrInvalidFlags           = lnkerr.New(lnkerr.ErrInvalidValue, "invalid link info flags")
	ErrInvalidOffset          = lnkerr.New(lnkerr.ErrInvalidValue, "invalid link info offset")
	ErrNetworkLinkUnsupported = lnkerr.New(lnkerr.ErrUnsupported, "common network relative links are not supported")
	ErrInvalidVolumeID        = lnkerr.New(lnkerr.ErrInvalidValue, "invalid volume id")
	ErrInvalidDriveType       = lnkerr.New(lnkerr.ErrInvalidValue, "invalid drive type")
	ErrLocalPathWithoutVolume = lnkerr.New(lnkerr.ErrInvalidValue, "local base path requires a volume id")
)

// Flags selects which location structures a LinkInfo carries.
type Flags uint32

// LinkInfo flags
const (
	FlagVolumeIDAndLocalBasePath               Flags = 0x1
	FlagCommonNetworkRelativeLinkAndPathSuffix Flags = 0x2

	knownFlags = FlagVolumeIDAndLocalBasePath | FlagCommonNetworkRelativeLinkAndPathSuffix
)

const (
	// HeaderSizeDefault is the header without Unicode offsets.
	HeaderSizeDefault = 0x1C
	// HeaderSizeUnicode adds LocalBasePathOffsetUnicode and
	// CommonPathSuffixOffsetUnicode.
	HeaderSizeUnicode = 0x24

	volumeIDHeaderSize        = 0x10
	volumeIDUnicodeHeaderSize = 0x14
)

// DriveType is the type of drive the link target is stored on.
type DriveType uint32

// Drive types
const (
	DriveUnknown DriveType = iota
	DriveNoRootDir
	DriveRemovable
	DriveFixed
	DriveRemote
	DriveCDROM
	DriveRAMDisk
)

var driveTypeNames = [...]string{"Unknown", "NoRootDir", "Removable", "Fixed", "Remote", "CDROM", "RAMDisk"}

func (d DriveType) String() string {
	if d.Valid() {
		return driveTypeNames[d]
	}
	return fmt.Sprintf("DriveType(%d)", uint32(d))
}

// Valid reports whether d is one of the documented drive types.
func (d DriveType) Valid() bool {
	return d <= DriveRAMDisk
}

// VolumeID describes the volume the target was on when the link was made.
type VolumeID struct {
	DriveType    DriveType
	SerialNumber uint32
	Label        string
}

// LinkInfo holds the local file system location of the link target.
type LinkInfo struct {
	// VolumeID and LocalBasePath are present together.
	VolumeID      *VolumeID
	LocalBasePath string

	CommonPathSuffix string
}

// Path joins the local base path and the common path suffix.
func (li *LinkInfo) Path() string {
	if li == nil {
		return ""
	}
	return li.LocalBasePath + li.CommonPathSuffix
}
