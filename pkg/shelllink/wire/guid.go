package wire

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// GUIDFromBytes converts the Windows on-disk layout (Data1, Data2 and Data3
// little-endian, Data4 as is) into a uuid.UUID in textual byte order.
func GUIDFromBytes(b [16]byte) uuid.UUID {
	var u uuid.UUID
	binary.BigEndian.PutUint32(u[0:4], binary.LittleEndian.Uint32(b[0:4]))
	binary.BigEndian.PutUint16(u[4:6], binary.LittleEndian.Uint16(b[4:6]))
	binary.BigEndian.PutUint16(u[6:8], binary.LittleEndian.Uint16(b[6:8]))
	copy(u[8:], b[8:])
	return u
}

// GUIDToBytes is the inverse of GUIDFromBytes.
func GUIDToBytes(u uuid.UUID) [16]byte {
	var b [16]byte
	binary.LittleEndian.PutUint32(b[0:4], binary.BigEndian.Uint32(u[0:4]))
	binary.LittleEndian.PutUint16(b[4:6], binary.BigEndian.Uint16(u[4:6]))
	binary.LittleEndian.PutUint16(b[6:8], binary.BigEndian.Uint16(u[6:8]))
	copy(b[8:], u[8:])
	return b
}

// GUID reads a 16-byte Windows GUID.
func (r *Reader) GUID() (uuid.UUID, error) {
	b, err := r.Bytes(16)
	if err != nil {
		return uuid.Nil, err
	}
	return GUIDFromBytes([16]byte(b)), nil
}

// GUID writes a 16-byte Windows GUID.
func (w *Writer) GUID(u uuid.UUID) {
	b := GUIDToBytes(u)
	w.Raw(b[:])
}
