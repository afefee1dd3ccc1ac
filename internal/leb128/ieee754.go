package leb128

import (
	"encoding/binary"
	"io"
	"math"
)

// EncodeFloat32 encodes v as 4 little-endian IEEE-754 bytes.
func EncodeFloat32(v float32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
	return buf
}

// EncodeFloat64 encodes v as 8 little-endian IEEE-754 bytes.
func EncodeFloat64(v float64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
	return buf
}

// DecodeFloat32 reads 4 little-endian IEEE-754 bytes from r.
func DecodeFloat32(r io.Reader) (float32, error) {
	buf := make([]byte, 4)
	_, err := io.ReadFull(r, buf)
	if err != nil {
		return 0, err
	}
	raw := binary.LittleEndian.Uint32(buf)
	return math.Float32frombits(raw), nil
}

// DecodeFloat64 reads 8 little-endian IEEE-754 bytes from r.
func DecodeFloat64(r io.Reader) (float64, error) {
	buf := make([]byte, 8)
	_, err := io.ReadFull(r, buf)
	if err != nil {
		return 0, err
	}
	raw := binary.LittleEndian.Uint64(buf)
	return math.Float64frombits(raw), nil
}
