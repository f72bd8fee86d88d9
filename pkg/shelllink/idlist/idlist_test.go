package idlist

import (
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/lnkerr"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/wire"
)

var modified = time.Date(2020, 5, 17, 10, 30, 4, 0, time.UTC)

func rootItem(l RootLocation) []byte {
	g := wire.GUIDToBytes(l.GUID())
	return append([]byte{0x1F, 0x50}, g[:]...)
}

func driveItem(letter byte) []byte {
	return append([]byte{0x2F, letter, ':', '\\'}, make([]byte, 19)...)
}

// ansiFileItem is a hand-built non-Unicode file entry without extension
func ansiFileItem(name string) []byte {
	b := []byte{0x32, 0x00}
	b = binary.LittleEndian.AppendUint32(b, 16)
	b = binary.LittleEndian.AppendUint16(b, 40<<9|5<<5|17)
	b = binary.LittleEndian.AppendUint16(b, 10<<11|30<<5|2)
	b = binary.LittleEndian.AppendUint16(b, 0x20)
	b = append(b, name...)
	b = append(b, 0)
	if len(name)%2 == 0 {
		b = append(b, 0)
	}
	return b
}

func encodedItem(t *testing.T, e Entry) []byte {
	t.Helper()
	w := wire.NewWriter(wire.UTF8)
	require.NoError(t, encodeItem(w, e))
	return w.Bytes()
}

func rawList(items ...[]byte) []byte {
	var list []byte
	for _, item := range items {
		list = binary.LittleEndian.AppendUint16(list, uint16(len(item)+2))
		list = append(list, item...)
	}
	list = append(list, 0, 0)
	return append(binary.LittleEndian.AppendUint16(nil, uint16(len(list))), list...)
}

func folder(name string) Folder {
	return Folder{EntryData: NewEntryData(name, 0, modified)}
}

func file(name string) File {
	return File{EntryData: NewEntryData(name, 1234, modified)}
}

func TestDecodeHandBuiltList(t *testing.T) {
	data := rawList(rootItem(MyComputer), driveItem('C'), ansiFileItem("A.TXT"))

	list, err := Decode(wire.NewReader(data))
	require.NoError(t, err)
	require.Len(t, list.Entries, 3)

	assert.Equal(t, Root{Location: MyComputer}, list.Entries[0])
	assert.Equal(t, Drive{Letter: 'C'}, list.Entries[1])

	f, ok := list.Target()
	require.True(t, ok)
	assert.False(t, f.Unicode)
	assert.Equal(t, uint16(0x20), f.Attributes)
	assert.Equal(t, uint32(16), f.FileSize)
	assert.Equal(t, "A.TXT", f.ShortName)
	assert.True(t, time.Date(2020, 5, 17, 10, 30, 4, 0, time.UTC).Equal(f.Modified))
	assert.Nil(t, f.Extension)
	assert.Equal(t, `C:\A.TXT`, list.Path())
}

func TestDecodeSkipsForeignExtension(t *testing.T) {
	tests := []struct {
		name string
		ext  []byte
	}{
		{name: "header only", ext: []byte{8, 0, 9, 0, 0x03, 0x00, 0xEF, 0xBE}},
		{name: "header and body", ext: []byte{12, 0, 1, 0, 0x04, 0x00, 0xEF, 0xBF, 0xAA, 0xBB, 0xCC, 0xDD}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := append(ansiFileItem("A.TXT"), tt.ext...)
			list, err := Decode(wire.NewReader(rawList(rootItem(MyComputer), driveItem('C'), item)))
			require.NoError(t, err)

			f, ok := list.Target()
			require.True(t, ok)
			assert.Equal(t, "A.TXT", f.ShortName)
			assert.Nil(t, f.Extension)
		})
	}

	t.Run("declared size beyond the entry", func(t *testing.T) {
		item := append(ansiFileItem("A.TXT"), 16, 0, 9, 0, 0x03, 0x00, 0xEF, 0xBE)
		_, err := Decode(wire.NewReader(rawList(rootItem(MyComputer), driveItem('C'), item)))
		var te *lnkerr.TruncatedError
		assert.True(t, errors.As(err, &te))
	})
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		list *IDList
	}{
		{
			name: "drive root only",
			list: &IDList{Entries: []Entry{Root{Location: MyComputer}, Drive{Letter: 'D'}}},
		},
		{
			name: "unicode folders and file with version 9 extensions",
			list: &IDList{Entries: []Entry{
				Root{Location: MyComputer},
				Drive{Letter: 'C'},
				folder("Program Files"),
				folder("Ünïcode ☃"),
				file("setup.exe"),
			}},
		},
		{
			name: "ansi entries with even and odd short names",
			list: &IDList{Entries: []Entry{
				Root{Location: MyComputer},
				Drive{Letter: 'C'},
				Folder{EntryData: EntryData{ShortName: "WINDOWS", Modified: modified, Attributes: 0x10}},
				File{EntryData: EntryData{ShortName: "NOTEPAD.EX", Modified: modified, FileSize: 1}},
			}},
		},
		{
			name: "version 3 extension with ansi localized name",
			list: &IDList{Entries: []Entry{
				Root{Location: MyComputer},
				Drive{Letter: 'C'},
				File{EntryData: EntryData{
					ShortName: "DOCUME~1",
					Modified:  modified,
					Extension: &Extension{
						Version:       3,
						Created:       modified,
						Accessed:      modified,
						FullName:      "Documents and Settings",
						LocalizedName: "Documents",
					},
				}},
			}},
		},
		{
			name: "version 8 extension with file reference and utf-16 localized name",
			list: &IDList{Entries: []Entry{
				Root{Location: MyComputer},
				Drive{Letter: 'C'},
				File{EntryData: EntryData{
					Unicode:   true,
					ShortName: "Users",
					Modified:  modified,
					Extension: &Extension{
						Version:       8,
						Created:       modified,
						Accessed:      modified,
						FileReference: 0x0005000000000123,
						FullName:      "Users",
						LocalizedName: "Benutzer",
					},
				}},
			}},
		},
		{
			name: "version 0 extension holds timestamps only",
			list: &IDList{Entries: []Entry{
				Root{Location: MyComputer},
				Drive{Letter: 'C'},
				File{EntryData: EntryData{
					ShortName: "X",
					Modified:  modified,
					Extension: &Extension{Created: modified, Accessed: modified},
				}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := wire.NewWriter(wire.UTF8)
			require.NoError(t, tt.list.Encode(w))

			r := wire.NewReader(w.Bytes())
			got, err := Decode(r)
			require.NoError(t, err)
			assert.Equal(t, 0, r.Len())
			assert.Equal(t, tt.list, got)
		})
	}
}

func TestEncodedLayout(t *testing.T) {
	list := &IDList{Entries: []Entry{Root{Location: MyComputer}, Drive{Letter: 'C'}}}
	w := wire.NewWriter(wire.UTF8)
	require.NoError(t, list.Encode(w))

	b := w.Bytes()
	// total size, root item (20), drive item (25), terminator
	assert.Equal(t, uint16(20+25+2), binary.LittleEndian.Uint16(b[0:2]))
	assert.Equal(t, uint16(20), binary.LittleEndian.Uint16(b[2:4]))
	assert.Equal(t, []byte{0x1F, 0x50, 0xE0, 0x4F, 0xD0, 0x20}, b[4:10])
	assert.Equal(t, uint16(25), binary.LittleEndian.Uint16(b[22:24]))
	assert.Equal(t, []byte{0x2F, 'C', ':', '\\'}, b[24:28])
	assert.Equal(t, []byte{0, 0}, b[len(b)-2:])
}

func TestGrammar(t *testing.T) {
	root := Root{Location: MyComputer}
	drive := Drive{Letter: 'C'}

	tests := []struct {
		name    string
		entries []Entry
		wantErr error
	}{
		{name: "root drive folder file parses", entries: []Entry{root, drive, folder("a"), file("b")}},
		{name: "root drive file parses", entries: []Entry{root, drive, file("b")}},
		{name: "root drive folder parses", entries: []Entry{root, drive, folder("a")}},
		{name: "file before folder is any after file", entries: []Entry{root, drive, file("b"), folder("a")}, wantErr: ErrAnyAfterFile},
		{name: "drive alone is missing root", entries: []Entry{drive}, wantErr: ErrMissingRoot},
		{name: "bare root is missing drive", entries: []Entry{root}, wantErr: ErrMissingDrive},
		{name: "empty list", entries: nil, wantErr: ErrListEmpty},
		{name: "root then folder is missing drive", entries: []Entry{root, folder("a")}, wantErr: ErrMissingDrive},
		{name: "recycle bin root is unsupported", entries: []Entry{Root{Location: RecycleBin}, drive}, wantErr: ErrUnsupportedRootType},
		{name: "two drives", entries: []Entry{root, drive, drive}, wantErr: ErrInvalidAfterDrive},
		{name: "drive after folder", entries: []Entry{root, drive, folder("a"), drive}, wantErr: ErrInvalidAfterFolder},
		{name: "root after folder", entries: []Entry{root, drive, folder("a"), root}, wantErr: ErrInvalidAfterFolder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([][]byte, 0, len(tt.entries))
			for _, e := range tt.entries {
				items = append(items, encodedItem(t, e))
			}

			_, err := Decode(wire.NewReader(rawList(items...)))
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)

			// the writer refuses the same sequence
			w := wire.NewWriter(wire.UTF8)
			assert.ErrorIs(t, (&IDList{Entries: tt.entries}).Encode(w), tt.wantErr)
		})
	}

	t.Run("ordering errors share the grammar category", func(t *testing.T) {
		assert.ErrorIs(t, ErrAnyAfterFile, lnkerr.ErrGrammar)
		assert.ErrorIs(t, ErrUnsupportedRootType, lnkerr.ErrUnsupported)
	})
}

func TestDecodeItemErrors(t *testing.T) {
	uwp := append([]byte{0x00, 0x00, 0x10, 0x00}, []byte("APPS")...)
	uwp = append(uwp, make([]byte, 8)...)

	unknownGUID := append([]byte{0x1F, 0x50}, make([]byte, 16)...)

	badDrive := driveItem('c')

	tests := []struct {
		name    string
		item    []byte
		wantErr error
	}{
		{name: "uwp marker", item: uwp, wantErr: ErrUWPUnsupported},
		{name: "unknown type code", item: []byte{0x99, 0x00, 0, 0}, wantErr: ErrInvalidEntryType},
		{name: "uri type code is recognised but unsupported", item: []byte{0x61, 0x00, 0, 0}, wantErr: ErrUnsupportedEntryType},
		{name: "control panel type code is recognised but unsupported", item: []byte{0x71, 0x00, 0, 0}, wantErr: ErrUnsupportedEntryType},
		{name: "unknown root guid", item: unknownGUID, wantErr: ErrInvalidRootType},
		{name: "lowercase drive letter", item: badDrive, wantErr: ErrInvalidDrive},
		{name: "extension size below its header", item: append(ansiFileItem("A.TXT"), 6, 0, 9, 0, 0x03, 0x00, 0xEF, 0xBE), wantErr: lnkerr.ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(wire.NewReader(rawList(rootItem(MyComputer), driveItem('C'), tt.item)))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecodeLeftovers(t *testing.T) {
	t.Run("bytes after the terminator inside the list", func(t *testing.T) {
		data := rawList(rootItem(MyComputer), driveItem('C'))
		data = append(data, 0xAA)
		binary.LittleEndian.PutUint16(data, binary.LittleEndian.Uint16(data)+1)

		_, err := Decode(wire.NewReader(data))
		var le *lnkerr.LeftoverError
		require.True(t, errors.As(err, &le))
		assert.Equal(t, "id list", le.Region)
	})

	t.Run("bytes left inside an entry extension", func(t *testing.T) {
		ext := []byte{}
		ext = binary.LittleEndian.AppendUint16(ext, 8+4+4+2+2)
		ext = binary.LittleEndian.AppendUint16(ext, 0)
		ext = binary.LittleEndian.AppendUint32(ext, 0xBEEF0004)
		ext = binary.LittleEndian.AppendUint16(ext, 40<<9|5<<5|17)
		ext = binary.LittleEndian.AppendUint16(ext, 0)
		ext = binary.LittleEndian.AppendUint16(ext, 40<<9|5<<5|17)
		ext = binary.LittleEndian.AppendUint16(ext, 0)
		ext = binary.LittleEndian.AppendUint16(ext, 0)
		ext = append(ext, 0xDE, 0xAD)

		item := append(ansiFileItem("A.TXT"), ext...)
		_, err := Decode(wire.NewReader(rawList(rootItem(MyComputer), driveItem('C'), item)))
		var le *lnkerr.LeftoverError
		require.True(t, errors.As(err, &le))
		assert.Equal(t, "entry extension", le.Region)
		assert.Equal(t, []byte{0xDE, 0xAD}, le.Data)
	})

	t.Run("declared list size beyond the input", func(t *testing.T) {
		_, err := Decode(wire.NewReader([]byte{0xFF, 0xFF, 0x00, 0x00}))
		var te *lnkerr.TruncatedError
		assert.True(t, errors.As(err, &te))
	})
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		entry   Entry
		wantErr error
	}{
		{
			name:    "lowercase drive",
			entry:   Drive{Letter: 'c'},
			wantErr: ErrInvalidDrive,
		},
		{
			name: "names on an old extension",
			entry: File{EntryData: EntryData{ShortName: "x", Modified: modified,
				Extension: &Extension{Version: 2, Created: modified, Accessed: modified, FullName: "long"}}},
			wantErr: ErrExtensionFields,
		},
		{
			name:    "modified before 1980",
			entry:   File{EntryData: EntryData{ShortName: "x", Modified: time.Date(1979, 1, 1, 0, 0, 0, 0, time.UTC)}},
			wantErr: wire.ErrInvalidDOSDateTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := wire.NewWriter(wire.UTF8)
			assert.ErrorIs(t, encodeItem(w, tt.entry), tt.wantErr)
		})
	}
}

func TestRootLocation(t *testing.T) {
	for _, rl := range rootLocations {
		t.Run(rl.name, func(t *testing.T) {
			got, ok := RootLocationFromGUID(rl.location.GUID())
			require.True(t, ok)
			assert.Equal(t, rl.location, got)
			assert.Equal(t, rl.name, got.String())
		})
	}
}
