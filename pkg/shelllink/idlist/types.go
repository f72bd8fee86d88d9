package idlist

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RootLocation is the shell namespace a root entry points at. Each value is
// identified on disk by a fixed class GUID.
type RootLocation int

// Root locations
const (
	MyComputer RootLocation = iota + 1
	MyDocuments
	NetworkShare
	NetworkServer
	NetworkPlaces
	NetworkDomain
	Internet
	RecycleBin
	ControlPanel
	User
	UWPApps
)

var rootLocations = []struct {
	location RootLocation
	name     string
	guid     uuid.UUID
}{
	{MyComputer, "MyComputer", uuid.MustParse("20D04FE0-3AEA-1069-A2D8-08002B30309D")},
	{MyDocuments, "MyDocuments", uuid.MustParse("450D8FBA-AD25-11D0-98A8-0800361B1103")},
	{NetworkShare, "NetworkShare", uuid.MustParse("54A754C0-4BF1-11D1-83EE-00A0C90DC849")},
	{NetworkServer, "NetworkServer", uuid.MustParse("C0542A90-4BF0-11D1-83EE-00A0C90DC849")},
	{NetworkPlaces, "NetworkPlaces", uuid.MustParse("208D2C60-3AEA-1069-A2D7-08002B30309D")},
	{NetworkDomain, "NetworkDomain", uuid.MustParse("46E06680-4BF0-11D1-83EE-00A0C90DC849")},
	{Internet, "Internet", uuid.MustParse("871C5380-42A0-1069-A2EA-08002B30309D")},
	{RecycleBin, "RecycleBin", uuid.MustParse("645FF040-5081-101B-9F08-00AA002F954E")},
	{ControlPanel, "ControlPanel", uuid.MustParse("21EC2020-3AEA-1069-A2DD-08002B30309D")},
	{User, "User", uuid.MustParse("59031A47-3F72-44A7-89C5-5595FE6B30EE")},
	{UWPApps, "UWPApps", uuid.MustParse("4234D49B-0245-4DF3-B780-3893943456E1")},
}

// RootLocationFromGUID maps a class GUID onto its root location.
func RootLocationFromGUID(g uuid.UUID) (RootLocation, bool) {
	for _, rl := range rootLocations {
		if rl.guid == g {
			return rl.location, true
		}
	}
	return 0, false
}

// GUID returns the class GUID of the location.
func (l RootLocation) GUID() uuid.UUID {
	for _, rl := range rootLocations {
		if rl.location == l {
			return rl.guid
		}
	}
	return uuid.Nil
}

func (l RootLocation) String() string {
	for _, rl := range rootLocations {
		if rl.location == l {
			return rl.name
		}
	}
	return fmt.Sprintf("RootLocation(%d)", int(l))
}

// Entry is one decoded item of an ID list: a Root, Drive, Folder or File.
type Entry interface {
	isEntry()
}

// Root is the namespace root, normally My Computer.
type Root struct {
	Location RootLocation
}

// Drive is a volume root such as C:\.
type Drive struct {
	Letter byte
}

// Folder is a directory on the path to the target.
type Folder struct {
	EntryData
}

// File is the link target itself and is always the last entry.
type File struct {
	EntryData
}

func (Root) isEntry()   {}
func (Drive) isEntry()  {}
func (Folder) isEntry() {}
func (File) isEntry()   {}

// EntryData is the payload shared by folder and file entries.
type EntryData struct {
	// Unicode selects the UTF-16 short name variant of the entry.
	Unicode bool
	// Attributes holds the 16-bit FAT attribute field.
	Attributes uint16
	FileSize   uint32
	Modified   time.Time
	ShortName  string
	// Extension is present when the entry carries a 0xBEEF0004 block.
	// Blocks with other signatures are skipped on decode and not written back.
	Extension *Extension
}

// Extension is the versioned 0xBEEF0004 block of a folder or file entry.
// Fields beyond Created and Accessed exist only from the version noted.
type Extension struct {
	Version  uint16
	Created  time.Time
	Accessed time.Time

	// FileReference is the NTFS MFT reference (version 7 and later).
	FileReference uint64
	// FullName is the long name (version 3 and later).
	FullName string
	// LocalizedName is written only when non-empty (version 3 and later).
	LocalizedName string
}

// IDList is the decoded LinkTargetIDList.
type IDList struct {
	Entries []Entry
}

// Target returns the final File entry, if any.
func (l *IDList) Target() (File, bool) {
	if l == nil || len(l.Entries) == 0 {
		return File{}, false
	}
	f, ok := l.Entries[len(l.Entries)-1].(File)
	return f, ok
}

// Path renders the entries after the root as a Windows path.
func (l *IDList) Path() string {
	if l == nil {
		return ""
	}
	var parts []string
	for _, e := range l.Entries {
		switch v := e.(type) {
		case Drive:
			parts = append(parts, string(v.Letter)+":")
		case Folder:
			parts = append(parts, v.Name())
		case File:
			parts = append(parts, v.Name())
		}
	}
	if len(parts) == 1 {
		return parts[0] + `\`
	}
	return strings.Join(parts, `\`)
}

// Name prefers the long name from the extension over the 8.3 short name.
func (d EntryData) Name() string {
	if d.Extension != nil && d.Extension.FullName != "" {
		return d.Extension.FullName
	}
	return d.ShortName
}
