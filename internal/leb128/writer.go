package leb128

// EncodeUint32 encodes v as unsigned LEB128.
func EncodeUint32(v uint32) []byte {
	return EncodeUint64(uint64(v))
}

// EncodeUint64 encodes v as unsigned LEB128.
func EncodeUint64(v uint64) []byte {
	out := make([]byte, 0, 10)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

// EncodeInt32 encodes v as signed LEB128.
func EncodeInt32(v int32) []byte {
	return EncodeInt64(int64(v))
}

// EncodeInt64 encodes v as signed LEB128.
func EncodeInt64(v int64) []byte {
	out := make([]byte, 0, 10)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		done := (v == 0 && !signBitSet) || (v == -1 && signBitSet)
		if !done {
			b |= 0x80
		}
		out = append(out, b)
		if done {
			return out
		}
	}
}

// LoadUint32 decodes an unsigned LEB128 value from a byte slice, returning the value, the
// number of bytes consumed, and an error if the encoding is malformed or overflows 32 bits.
func LoadUint32(b []byte) (uint32, uint64, error) {
	v, n, err := LoadUint64(b)
	if err != nil {
		return 0, 0, err
	}
	if v > 0xffffffff || n > 5 {
		return 0, 0, errOverflow32
	}
	return uint32(v), n, nil
}

// LoadUint64 decodes an unsigned LEB128 value from a byte slice.
func LoadUint64(b []byte) (uint64, uint64, error) {
	var ret uint64
	var shift uint
	for i := 0; i < len(b); i++ {
		if shift >= 64 {
			return 0, 0, errOverflow64
		}
		c := b[i]
		ret |= uint64(c&0x7f) << shift
		if c&0x80 == 0 {
			return ret, uint64(i + 1), nil
		}
		shift += 7
	}
	return 0, 0, errTruncated
}

// LoadInt32 decodes a signed LEB128 value from a byte slice, returning the value, the number
// of bytes consumed, and an error if the encoding is malformed or overflows 32 bits.
func LoadInt32(b []byte) (int32, uint64, error) {
	v, n, err := loadSigned(b, 32)
	if err != nil {
		return 0, 0, err
	}
	return int32(v), n, nil
}

// LoadInt64 decodes a signed LEB128 value from a byte slice.
func LoadInt64(b []byte) (int64, uint64, error) {
	return loadSigned(b, 64)
}

func loadSigned(b []byte, size uint) (int64, uint64, error) {
	var ret int64
	var shift uint
	for i := 0; i < len(b); i++ {
		if shift >= 64 {
			return 0, 0, errOverflow64
		}
		c := b[i]
		ret |= int64(c&0x7f) << shift
		shift += 7
		if c&0x80 == 0 {
			if shift < 64 && shift < size+7 && c&0x40 != 0 {
				ret |= -1 << shift
			}
			if size < 64 {
				max := int64(1) << (size - 1)
				if ret >= max || ret < -max {
					return 0, 0, errOverflow32
				}
			}
			return ret, uint64(i + 1), nil
		}
	}
	return 0, 0, errTruncated
}
