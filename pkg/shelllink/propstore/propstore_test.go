package propstore

import (
	"encoding/binary"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/lnkerr"
	"github.com/deploymenttheory/go-shelllink/pkg/shelllink/wire"
)

var otherFormat = uuid.MustParse("28636AA6-953D-11D2-B5D6-00C04FD918D0")

func le32(v uint32) []byte { return binary.LittleEndian.AppendUint32(nil, v) }

func typed(tag uint16, body ...byte) []byte {
	b := binary.LittleEndian.AppendUint16(nil, tag)
	b = append(b, 0, 0)
	return append(b, body...)
}

func typedString(t *testing.T, s string) []byte {
	t.Helper()
	u, err := wire.EncodeUTF16(s)
	require.NoError(t, err)
	u = append(u, 0, 0)
	body := append(le32(uint32(len(u)/2)), u...)
	for len(body)%4 != 0 {
		body = append(body, 0)
	}
	return typed(0x1F, body...)
}

func typedBool(v bool) []byte {
	if v {
		return typed(0x0B, 0xFF, 0xFF, 0, 0)
	}
	return typed(0x0B, 0, 0, 0, 0)
}

func typedUint64(v uint64) []byte {
	return typed(0x15, binary.LittleEndian.AppendUint64(nil, v)...)
}

func typedFileTime(tm time.Time) []byte {
	return typed(0x40, binary.LittleEndian.AppendUint64(nil, wire.ToFileTime(tm))...)
}

func idEntry(id uint32, value []byte) []byte {
	b := le32(uint32(4 + 4 + 1 + len(value)))
	b = append(b, le32(id)...)
	b = append(b, 0)
	return append(b, value...)
}

func namedEntry(t *testing.T, name string, value []byte) []byte {
	t.Helper()
	n, err := wire.EncodeUTF16(name)
	require.NoError(t, err)
	n = append(n, 0, 0)
	b := le32(uint32(4 + 4 + 1 + len(n) + len(value)))
	b = append(b, le32(uint32(len(n)))...)
	b = append(b, 0)
	b = append(b, n...)
	return append(b, value...)
}

func storage(format uuid.UUID, entries ...[]byte) []byte {
	var body []byte
	body = append(body, le32(Version)...)
	g := wire.GUIDToBytes(format)
	body = append(body, g[:]...)
	for _, e := range entries {
		body = append(body, e...)
	}
	body = append(body, 0, 0, 0, 0)
	return append(le32(uint32(len(body)+4)), body...)
}

func payload(storages ...[]byte) []byte {
	var b []byte
	for _, s := range storages {
		b = append(b, s...)
	}
	return append(b, 0, 0, 0, 0)
}

func decode(t *testing.T, data []byte) (*Store, error) {
	t.Helper()
	s := &Store{}
	err := s.Decode(wire.NewReader(data))
	return s, err
}

func TestDecodeKnownRecords(t *testing.T) {
	modified := time.Date(2023, 4, 1, 12, 0, 0, 500, time.UTC)
	data := payload(
		storage(FormatBasic,
			idEntry(4, typedString(t, "Text Document")),
			idEntry(12, typedUint64(42)),
			idEntry(15, typedFileTime(modified)),
		),
		storage(FormatAppUserModel,
			idEntry(5, typedString(t, "Vendor.App")),
			idEntry(11, typedBool(true)),
			idEntry(9, typedBool(false)),
		),
	)

	s, err := decode(t, data)
	require.NoError(t, err)

	require.NotNil(t, s.Basic)
	assert.Equal(t, "Text Document", *s.Basic.ItemTypeText)
	assert.Nil(t, s.Basic.ItemNameDisplay)
	assert.Equal(t, uint64(42), *s.Basic.Size)
	assert.Equal(t, modified, *s.Basic.DateModified)
	assert.Nil(t, s.Basic.DateCreated)

	require.NotNil(t, s.AppUserModel)
	assert.Equal(t, "Vendor.App", *s.AppUserModel.ID)
	assert.True(t, *s.AppUserModel.IsDualMode)
	assert.False(t, *s.AppUserModel.PreventPinning)
	assert.Empty(t, s.Sets)
	assert.Empty(t, s.Named)
}

func TestUnknownTagIsPreserved(t *testing.T) {
	// VT_I4 and VT_CLSID are not decoded
	data := payload(storage(otherFormat,
		idEntry(3, typed(0x03, 0x78, 0x56, 0x34, 0x12)),
		idEntry(7, typed(0x48, make([]byte, 16)...)),
	))

	s, err := decode(t, data)
	require.NoError(t, err)
	assert.Equal(t, Unparsed{VT: 0x03, Raw: []byte{0x78, 0x56, 0x34, 0x12}}, s.Sets[otherFormat][3])
	assert.Equal(t, Unparsed{VT: 0x48, Raw: make([]byte, 16)}, s.Sets[otherFormat][7])

	w := wire.NewWriter(wire.UTF8)
	require.NoError(t, s.Encode(w))
	assert.Equal(t, data, w.Bytes())
}

func TestNamedStorage(t *testing.T) {
	data := payload(storage(FormatNamed,
		namedEntry(t, "Author", typedString(t, "Jo")),
		namedEntry(t, "Pages", typed(0x03, 9, 0, 0, 0)),
	))

	s, err := decode(t, data)
	require.NoError(t, err)
	assert.Equal(t, map[string]Value{
		"Author": String("Jo"),
		"Pages":  Unparsed{VT: 0x03, Raw: []byte{9, 0, 0, 0}},
	}, s.Named)

	w := wire.NewWriter(wire.UTF8)
	require.NoError(t, s.Encode(w))
	assert.Equal(t, data, w.Bytes())
}

func TestDecodeAccumulates(t *testing.T) {
	s := &Store{}
	require.NoError(t, s.Decode(wire.NewReader(payload(storage(FormatBasic, idEntry(10, typedString(t, "a.txt")))))))
	require.NoError(t, s.Decode(wire.NewReader(payload(storage(FormatBasic, idEntry(12, typedUint64(7)))))))

	assert.Equal(t, "a.txt", *s.Basic.ItemNameDisplay)
	assert.Equal(t, uint64(7), *s.Basic.Size)
}

func TestDecodeWithoutTerminator(t *testing.T) {
	s, err := decode(t, storage(otherFormat, idEntry(1, typedUint64(1))))
	require.NoError(t, err)
	assert.Equal(t, Uint64(1), s.Sets[otherFormat][1])
}

func TestDecodeErrors(t *testing.T) {
	badVersion := storage(otherFormat)
	copy(badVersion[4:], le32(0x12345678))

	tests := []struct {
		name string
		data func(t *testing.T) []byte
		want []error
	}{
		{
			name: "unknown basic property id",
			data: func(t *testing.T) []byte {
				return payload(storage(FormatBasic, idEntry(99, typedUint64(1))))
			},
			want: []error{ErrUnknownPropertyID, lnkerr.ErrInvalidValue},
		},
		{
			name: "unknown app user model property id",
			data: func(t *testing.T) []byte {
				return payload(storage(FormatAppUserModel, idEntry(3, typedBool(true))))
			},
			want: []error{ErrUnknownPropertyID},
		},
		{
			name: "known id with the wrong value type",
			data: func(t *testing.T) []byte {
				return payload(storage(FormatBasic, idEntry(4, typedBool(true))))
			},
			want: []error{ErrWrongPropertyType},
		},
		{
			name: "non-zero typed value padding",
			data: func(t *testing.T) []byte {
				v := typedUint64(1)
				v[2] = 1
				return payload(storage(otherFormat, idEntry(2, v)))
			},
			want: []error{ErrBadPadding, lnkerr.ErrEncoding},
		},
		{
			name: "non-zero padding after a bool",
			data: func(t *testing.T) []byte {
				return payload(storage(otherFormat, idEntry(2, typed(0x0B, 0xFF, 0xFF, 0x01, 0x00))))
			},
			want: []error{ErrBadPadding, lnkerr.ErrEncoding},
		},
		{
			name: "wrong storage version",
			data: func(t *testing.T) []byte { return badVersion },
			want: []error{ErrInvalidVersion},
		},
		{
			name: "non-zero bytes after a decoded value",
			data: func(t *testing.T) []byte {
				return payload(storage(otherFormat, idEntry(2, append(typedUint64(1), 1))))
			},
			want: []error{lnkerr.ErrLeftoverData},
		},
		{
			name: "storage size past the end of the block",
			data: func(t *testing.T) []byte {
				s := storage(otherFormat)
				copy(s, le32(1000))
				return s
			},
			want: []error{io.ErrUnexpectedEOF},
		},
		{
			name: "storage smaller than its header",
			data: func(t *testing.T) []byte { return le32(8) },
			want: []error{ErrInvalidStorageSize},
		},
		{
			name: "string longer than its value",
			data: func(t *testing.T) []byte {
				return payload(storage(otherFormat, idEntry(2, typed(0x1F, le32(100)...))))
			},
			want: []error{io.ErrUnexpectedEOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(t, tt.data(t))
			require.Error(t, err)
			for _, want := range tt.want {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestTrailingZeroPaddingIsAccepted(t *testing.T) {
	s, err := decode(t, payload(storage(otherFormat, idEntry(2, append(typedUint64(5), 0, 0, 0, 0)))))
	require.NoError(t, err)
	assert.Equal(t, Uint64(5), s.Sets[otherFormat][2])
}

func TestRoundTrip(t *testing.T) {
	str := func(s string) *string { return &s }
	yes := true
	size := uint64(1 << 40)
	created := time.Date(2019, 1, 2, 3, 4, 5, 600, time.UTC)

	store := &Store{
		Basic: &BasicProperties{
			ItemTypeText:    str("Application"),
			ItemNameDisplay: str("tool.exe"),
			Size:            &size,
			DateCreated:     &created,
		},
		AppUserModel: &AppUserModelProperties{
			ID:                   str("Vendor.Tool"),
			RelaunchCommand:      str(`C:\tool.exe --again`),
			RelaunchIconResource: str(`C:\tool.exe,0`),
			IsDualMode:           &yes,
		},
		Named: map[string]Value{"Comment": String("héllo 😀")},
		Sets: map[uuid.UUID]map[uint32]Value{
			otherFormat: {
				1: Bool(false),
				2: FileTime(created),
				3: Unparsed{VT: 0x13, Raw: []byte{1, 2, 3, 4}},
			},
		},
	}

	w := wire.NewWriter(wire.UTF8)
	require.NoError(t, store.Encode(w))

	got, err := decode(t, w.Bytes())
	require.NoError(t, err)
	assert.Equal(t, store, got)
}

func TestEncodeNilValue(t *testing.T) {
	tests := []struct {
		name  string
		store *Store
	}{
		{name: "id keyed", store: &Store{Sets: map[uuid.UUID]map[uint32]Value{otherFormat: {1: nil}}}},
		{name: "named", store: &Store{Named: map[string]Value{"Comment": nil}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.store.Encode(wire.NewWriter(wire.UTF8))
			assert.ErrorIs(t, err, ErrNilValue)
			assert.ErrorIs(t, err, lnkerr.ErrInvalidValue)
		})
	}
}

func TestEmpty(t *testing.T) {
	var nilStore *Store
	assert.True(t, nilStore.Empty())
	assert.True(t, (&Store{}).Empty())
	assert.False(t, (&Store{Named: map[string]Value{"a": Bool(true)}}).Empty())
}
