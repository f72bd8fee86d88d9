package extradata

import "fmt"

// Signature identifies the type of an extra data block.
type Signature uint32

// Block signatures
const (
	SigEnvironmentVariable Signature = 0xA0000001
	SigConsole             Signature = 0xA0000002
	SigTracker             Signature = 0xA0000003
	SigConsoleFE           Signature = 0xA0000004
	SigSpecialFolder       Signature = 0xA0000005
	SigDarwin              Signature = 0xA0000006
	SigIconEnvironment     Signature = 0xA0000007
	SigShim                Signature = 0xA0000008
	SigPropertyStore       Signature = 0xA0000009
	SigKnownFolder         Signature = 0xA000000B
	SigVistaAndAboveIDList Signature = 0xA000000C
)

var signatureNames = map[Signature]string{
	SigEnvironmentVariable: "EnvironmentVariableDataBlock",
	SigConsole:             "ConsoleDataBlock",
	SigTracker:             "TrackerDataBlock",
	SigConsoleFE:           "ConsoleFEDataBlock",
	SigSpecialFolder:       "SpecialFolderDataBlock",
	SigDarwin:              "DarwinDataBlock",
	SigIconEnvironment:     "IconEnvironmentDataBlock",
	SigShim:                "ShimDataBlock",
	SigPropertyStore:       "PropertyStoreDataBlock",
	SigKnownFolder:         "KnownFolderDataBlock",
	SigVistaAndAboveIDList: "VistaAndAboveIDListDataBlock",
}

// Known reports whether s is one of the documented block signatures.
func (s Signature) Known() bool {
	_, ok := signatureNames[s]
	return ok
}

func (s Signature) String() string {
	if name, ok := signatureNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Signature(%#08x)", uint32(s))
}
