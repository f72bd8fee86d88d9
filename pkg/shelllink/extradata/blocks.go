package extradata

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/lnkerr"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/wire"
)

const (
	trackerLength  = 0x58
	trackerVersion = 0

	iconTargetANSISize    = 260
	iconTargetUnicodeSize = 520
	faceNameSize          = 64
	machineIDSize         = 16
)

// Console holds the display settings used when the target runs in a
// console window.
type Console struct {
	FillAttributes         uint16
	PopupFillAttributes    uint16
	ScreenBufferSizeX      int16
	ScreenBufferSizeY      int16
	WindowSizeX            int16
	WindowSizeY            int16
	WindowOriginX          int16
	WindowOriginY          int16
	FontSize               uint32
	FontFamily             uint32
	FontWeight             uint32
	FaceName               string
	CursorSize             uint32
	FullScreen             uint32
	QuickEdit              uint32
	InsertMode             uint32
	AutoPosition           uint32
	HistoryBufferSize      uint32
	NumberOfHistoryBuffers uint32
	HistoryNoDup           uint32
	ColorTable             [16]uint32
}

// consoleLayout is the on-disk payload of a console block.
type consoleLayout struct {
	FillAttributes         uint16
	PopupFillAttributes    uint16
	ScreenBufferSizeX      int16
	ScreenBufferSizeY      int16
	WindowSizeX            int16
	WindowSizeY            int16
	WindowOriginX          int16
	WindowOriginY          int16
	Unused1                uint32
	Unused2                uint32
	FontSize               uint32
	FontFamily             uint32
	FontWeight             uint32
	FaceName               [faceNameSize]byte
	CursorSize             uint32
	FullScreen             uint32
	QuickEdit              uint32
	InsertMode             uint32
	AutoPosition           uint32
	HistoryBufferSize      uint32
	NumberOfHistoryBuffers uint32
	HistoryNoDup           uint32
	ColorTable             [16]uint32
}

func decodeConsole(r *wire.Reader) (*Console, error) {
	var l consoleLayout
	if err := r.Unpack(&l); err != nil {
		return nil, err
	}
	face, err := wire.FixedUTF16(l.FaceName[:])
	if err != nil {
		return nil, fmt.Errorf("face name: %w", err)
	}
	return &Console{
		FillAttributes:         l.FillAttributes,
		PopupFillAttributes:    l.PopupFillAttributes,
		ScreenBufferSizeX:      l.ScreenBufferSizeX,
		ScreenBufferSizeY:      l.ScreenBufferSizeY,
		WindowSizeX:            l.WindowSizeX,
		WindowSizeY:            l.WindowSizeY,
		WindowOriginX:          l.WindowOriginX,
		WindowOriginY:          l.WindowOriginY,
		FontSize:               l.FontSize,
		FontFamily:             l.FontFamily,
		FontWeight:             l.FontWeight,
		FaceName:               face,
		CursorSize:             l.CursorSize,
		FullScreen:             l.FullScreen,
		QuickEdit:              l.QuickEdit,
		InsertMode:             l.InsertMode,
		AutoPosition:           l.AutoPosition,
		HistoryBufferSize:      l.HistoryBufferSize,
		NumberOfHistoryBuffers: l.NumberOfHistoryBuffers,
		HistoryNoDup:           l.HistoryNoDup,
		ColorTable:             l.ColorTable,
	}, nil
}

func (c *Console) encode(w *wire.Writer) error {
	face, err := wire.PutFixedUTF16(c.FaceName, faceNameSize)
	if err != nil {
		return fmt.Errorf("face name: %w", err)
	}
	l := consoleLayout{
		FillAttributes:         c.FillAttributes,
		PopupFillAttributes:    c.PopupFillAttributes,
		ScreenBufferSizeX:      c.ScreenBufferSizeX,
		ScreenBufferSizeY:      c.ScreenBufferSizeY,
		WindowSizeX:            c.WindowSizeX,
		WindowSizeY:            c.WindowSizeY,
		WindowOriginX:          c.WindowOriginX,
		WindowOriginY:          c.WindowOriginY,
		FontSize:               c.FontSize,
		FontFamily:             c.FontFamily,
		FontWeight:             c.FontWeight,
		CursorSize:             c.CursorSize,
		FullScreen:             c.FullScreen,
		QuickEdit:              c.QuickEdit,
		InsertMode:             c.InsertMode,
		AutoPosition:           c.AutoPosition,
		HistoryBufferSize:      c.HistoryBufferSize,
		NumberOfHistoryBuffers: c.NumberOfHistoryBuffers,
		HistoryNoDup:           c.HistoryNoDup,
		ColorTable:             c.ColorTable,
	}
	copy(l.FaceName[:], face)
	return w.Pack(&l)
}

// Tracker holds the distributed link tracking identifiers of the target.
type Tracker struct {
	MachineID  string
	Droid      [2]uuid.UUID
	DroidBirth [2]uuid.UUID
}

type trackerLayout struct {
	Length         uint32
	Version        uint32
	MachineID      [machineIDSize]byte
	DroidVolume    [16]byte
	DroidFile      [16]byte
	DroidBirthVol  [16]byte
	DroidBirthFile [16]byte
}

func decodeTracker(r *wire.Reader) (*Tracker, error) {
	var l trackerLayout
	if err := r.Unpack(&l); err != nil {
		return nil, err
	}
	if l.Length != trackerLength {
		return nil, lnkerr.Invalid(ErrInvalidTrackerLength, l.Length)
	}
	if l.Version != trackerVersion {
		return nil, lnkerr.Invalid(ErrInvalidTrackerVersion, l.Version)
	}
	machine, err := r.CodePage().FixedANSI(l.MachineID[:])
	if err != nil {
		return nil, fmt.Errorf("machine id: %w", err)
	}
	return &Tracker{
		MachineID:  machine,
		Droid:      [2]uuid.UUID{wire.GUIDFromBytes(l.DroidVolume), wire.GUIDFromBytes(l.DroidFile)},
		DroidBirth: [2]uuid.UUID{wire.GUIDFromBytes(l.DroidBirthVol), wire.GUIDFromBytes(l.DroidBirthFile)},
	}, nil
}

func (t *Tracker) encode(w *wire.Writer) error {
	machine, err := w.CodePage().PutFixedANSI(t.MachineID, machineIDSize)
	if err != nil {
		return fmt.Errorf("machine id: %w", err)
	}
	l := trackerLayout{
		Length:         trackerLength,
		Version:        trackerVersion,
		DroidVolume:    wire.GUIDToBytes(t.Droid[0]),
		DroidFile:      wire.GUIDToBytes(t.Droid[1]),
		DroidBirthVol:  wire.GUIDToBytes(t.DroidBirth[0]),
		DroidBirthFile: wire.GUIDToBytes(t.DroidBirth[1]),
	}
	copy(l.MachineID[:], machine)
	return w.Pack(&l)
}

// IconEnvironment is an icon path that may contain environment variables,
// stored once in the ANSI code page and once in UTF-16.
type IconEnvironment struct {
	TargetANSI    string
	TargetUnicode string
}

func decodeIconEnvironment(r *wire.Reader) (*IconEnvironment, error) {
	ansi, err := r.Bytes(iconTargetANSISize)
	if err != nil {
		return nil, err
	}
	unicode, err := r.Bytes(iconTargetUnicodeSize)
	if err != nil {
		return nil, err
	}
	ie := &IconEnvironment{}
	if ie.TargetANSI, err = r.CodePage().FixedANSI(ansi); err != nil {
		return nil, fmt.Errorf("ansi target: %w", err)
	}
	if ie.TargetUnicode, err = wire.FixedUTF16(unicode); err != nil {
		return nil, fmt.Errorf("unicode target: %w", err)
	}
	return ie, nil
}

func (ie *IconEnvironment) encode(w *wire.Writer) error {
	ansi, err := w.CodePage().PutFixedANSI(ie.TargetANSI, iconTargetANSISize)
	if err != nil {
		return fmt.Errorf("ansi target: %w", err)
	}
	unicode, err := wire.PutFixedUTF16(ie.TargetUnicode, iconTargetUnicodeSize)
	if err != nil {
		return fmt.Errorf("unicode target: %w", err)
	}
	w.Raw(ansi)
	w.Raw(unicode)
	return nil
}

// NewIconEnvironment stores path in both fields, replacing characters the
// code page cannot hold in the ANSI copy.
func NewIconEnvironment(path string, cp wire.CodePage) *IconEnvironment {
	ansi := path
	if !cp.CanEncode(path) {
		ansi, _ = cp.Decode(cp.EncodeLossy(path))
	}
	return &IconEnvironment{TargetANSI: ansi, TargetUnicode: path}
}

// SpecialFolder locates the target relative to a legacy special folder.
// Offset is the byte offset of the folder's item within the ID list.
type SpecialFolder struct {
	Folder CSIDL
	Offset uint32
}

func decodeSpecialFolder(r *wire.Reader) (SpecialFolder, error) {
	id, err := r.Uint32()
	if err != nil {
		return SpecialFolder{}, err
	}
	offset, err := r.Uint32()
	if err != nil {
		return SpecialFolder{}, err
	}
	sf := SpecialFolder{Folder: CSIDL(id), Offset: offset}
	if !sf.Folder.Valid() {
		return SpecialFolder{}, lnkerr.Invalid(ErrUnknownSpecialFolder, id)
	}
	return sf, nil
}

func (sf SpecialFolder) encode(w *wire.Writer) error {
	if !sf.Folder.Valid() {
		return lnkerr.Invalid(ErrUnknownSpecialFolder, uint32(sf.Folder))
	}
	w.Uint32(uint32(sf.Folder))
	w.Uint32(sf.Offset)
	return nil
}

// KnownFolder locates the target relative to a known folder. Offset is the
// byte offset of the folder's item within the ID list.
type KnownFolder struct {
	Folder KnownFolderID
	Offset uint32
}

func decodeKnownFolder(r *wire.Reader) (KnownFolder, error) {
	g, err := r.GUID()
	if err != nil {
		return KnownFolder{}, err
	}
	offset, err := r.Uint32()
	if err != nil {
		return KnownFolder{}, err
	}
	id, ok := KnownFolderFromGUID(g)
	if !ok {
		return KnownFolder{}, lnkerr.Invalid(ErrUnknownKnownFolder, g)
	}
	return KnownFolder{Folder: id, Offset: offset}, nil
}

func (kf KnownFolder) encode(w *wire.Writer) error {
	g := kf.Folder.GUID()
	if g == uuid.Nil {
		return lnkerr.Invalid(ErrUnknownKnownFolder, int(kf.Folder))
	}
	w.GUID(g)
	w.Uint32(kf.Offset)
	return nil
}
