package extradata

import (
	"fmt"

	"github.com/google/uuid"
)

// CSIDL is a legacy special folder identifier.
type CSIDL uint32

var csidlNames = map[CSIDL]string{
	0x00: "Desktop",
	0x01: "Internet",
	0x02: "Programs",
	0x03: "Controls",
	0x04: "Printers",
	0x05: "Personal",
	0x06: "Favorites",
	0x07: "Startup",
	0x08: "Recent",
	0x09: "SendTo",
	0x0A: "BitBucket",
	0x0B: "StartMenu",
	0x0D: "MyMusic",
	0x0E: "MyVideo",
	0x10: "DesktopDirectory",
	0x11: "MyComputer",
	0x12: "NetworkNeighborhood",
	0x13: "NetHood",
	0x14: "Fonts",
	0x15: "Templates",
	0x16: "CommonStartMenu",
	0x17: "CommonPrograms",
	0x18: "CommonStartup",
	0x19: "CommonDesktopDirectory",
	0x1A: "AppData",
	0x1B: "PrintHood",
	0x1C: "LocalAppData",
	0x1D: "AltStartup",
	0x1E: "CommonAltStartup",
	0x1F: "CommonFavorites",
	0x20: "InternetCache",
	0x21: "Cookies",
	0x22: "History",
	0x23: "CommonAppData",
	0x24: "Windows",
	0x25: "System",
	0x26: "ProgramFiles",
	0x27: "MyPictures",
	0x28: "Profile",
	0x29: "SystemX86",
	0x2A: "ProgramFilesX86",
	0x2B: "ProgramFilesCommon",
	0x2C: "ProgramFilesCommonX86",
	0x2D: "CommonTemplates",
	0x2E: "CommonDocuments",
	0x2F: "CommonAdminTools",
	0x30: "AdminTools",
	0x31: "Connections",
	0x35: "CommonMusic",
	0x36: "CommonPictures",
	0x37: "CommonVideo",
	0x38: "Resources",
	0x39: "ResourcesLocalized",
	0x3A: "CommonOemLinks",
	0x3B: "CDBurnArea",
	0x3D: "ComputersNearMe",
}

// Some commonly used special folders
const (
	CSIDLDesktop      CSIDL = 0x00
	CSIDLPrograms     CSIDL = 0x02
	CSIDLPersonal     CSIDL = 0x05
	CSIDLStartup      CSIDL = 0x07
	CSIDLStartMenu    CSIDL = 0x0B
	CSIDLAppData      CSIDL = 0x1A
	CSIDLWindows      CSIDL = 0x24
	CSIDLSystem       CSIDL = 0x25
	CSIDLProgramFiles CSIDL = 0x26
)

// Valid reports whether c is in the table of known special folders.
func (c CSIDL) Valid() bool {
	_, ok := csidlNames[c]
	return ok
}

func (c CSIDL) String() string {
	if name, ok := csidlNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CSIDL(%#x)", uint32(c))
}

// KnownFolderID is a KNOWNFOLDERID understood by the decoder.
type KnownFolderID int

// Known folders
const (
	FolderDesktop KnownFolderID = iota + 1
	FolderDocuments
	FolderDownloads
	FolderPictures
	FolderMusic
	FolderVideos
	FolderRoamingAppData
	FolderLocalAppData
	FolderProgramFiles
	FolderProgramFilesX86
	FolderWindows
	FolderPublicDesktop
	FolderCommonStartMenu
	FolderCommonPrograms
	FolderStartMenu
	FolderStartup
	FolderQuickLaunch
	FolderOneDrive
	FolderProfile
)

var knownFolders = []struct {
	id   KnownFolderID
	name string
	guid uuid.UUID
}{
	{FolderDesktop, "Desktop", uuid.MustParse("B4BFCC3A-DB2C-424C-B029-7FE99A87C641")},
	{FolderDocuments, "Documents", uuid.MustParse("FDD39AD0-238F-46AF-ADB4-6C85480369C7")},
	{FolderDownloads, "Downloads", uuid.MustParse("374DE290-123F-4565-9164-39C4925E467B")},
	{FolderPictures, "Pictures", uuid.MustParse("33E28130-4E1E-4676-835A-98395C3BC3BB")},
	{FolderMusic, "Music", uuid.MustParse("4BD8D571-6D19-48D3-BE97-422220080E43")},
	{FolderVideos, "Videos", uuid.MustParse("18989B1D-99B5-455B-841C-AB7C74E4DDFC")},
	{FolderRoamingAppData, "RoamingAppData", uuid.MustParse("3EB685DB-65F9-4CF6-A03A-E3EF65729F3D")},
	{FolderLocalAppData, "LocalAppData", uuid.MustParse("F1B32785-6FBA-4FCF-9D55-7B8E7F157091")},
	{FolderProgramFiles, "ProgramFiles", uuid.MustParse("905E63B6-C1BF-494E-B29C-65B732D3D21A")},
	{FolderProgramFilesX86, "ProgramFilesX86", uuid.MustParse("7C5A40EF-A0FB-4BFC-874A-C0F2E0B9FA8E")},
	{FolderWindows, "Windows", uuid.MustParse("F38BF404-1D43-42F2-9305-67DE0B28FC23")},
	{FolderPublicDesktop, "PublicDesktop", uuid.MustParse("C4AA340D-F20F-4863-AFEF-F87EF2E6BA25")},
	{FolderCommonStartMenu, "CommonStartMenu", uuid.MustParse("A4115719-D62E-491D-AA7C-E74B8BE3B067")},
	{FolderCommonPrograms, "CommonPrograms", uuid.MustParse("0139D44E-6AFE-49F2-8690-3DAFCAE6FFB8")},
	{FolderStartMenu, "StartMenu", uuid.MustParse("625B53C3-AB48-4EC1-BA1F-A1EF4146FC19")},
	{FolderStartup, "Startup", uuid.MustParse("B97D20BB-F46A-4C97-BA10-5E3608430854")},
	{FolderQuickLaunch, "QuickLaunch", uuid.MustParse("52A4F021-7B75-48A9-9F6B-4B87A210BC8F")},
	{FolderOneDrive, "OneDrive", uuid.MustParse("A52BBA46-E9E1-435F-B3D9-28DAA648C0F6")},
	{FolderProfile, "Profile", uuid.MustParse("5E6C858F-0E22-4760-9AFE-EA3317B67173")},
}

// KnownFolderFromGUID maps a KNOWNFOLDERID GUID onto its folder.
func KnownFolderFromGUID(g uuid.UUID) (KnownFolderID, bool) {
	for _, kf := range knownFolders {
		if kf.guid == g {
			return kf.id, true
		}
	}
	return 0, false
}

// GUID returns the KNOWNFOLDERID of the folder.
func (k KnownFolderID) GUID() uuid.UUID {
	for _, kf := range knownFolders {
		if kf.id == k {
			return kf.guid
		}
	}
	return uuid.Nil
}

func (k KnownFolderID) String() string {
	for _, kf := range knownFolders {
		if kf.id == k {
			return kf.name
		}
	}
	return fmt.Sprintf("KnownFolderID(%d)", int(k))
}
