// Package api includes the byte-level constants and value codecs shared across the compiler's
// subpackages: ir, binaryfmt, vectorize and wasmdebug.
package api

import (
	"fmt"
	"math"
)

// ExternType classifies imports and exports with their respective types.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#import-section%E2%91%A0
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#export-section%E2%91%A0
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#external-types%E2%91%A0
type ExternType = byte

const (
	ExternTypeFunc   ExternType = 0x00
	ExternTypeTable  ExternType = 0x01
	ExternTypeMemory ExternType = 0x02
	ExternTypeGlobal ExternType = 0x03
)

// The below are exported to consolidate parsing behavior for external types.
const (
	ExternTypeFuncName   = "func"
	ExternTypeTableName  = "table"
	ExternTypeMemoryName = "memory"
	ExternTypeGlobalName = "global"
)

// ExternTypeName returns the name of the WebAssembly 1.0 (20191205) Text Format field of the given type.
func ExternTypeName(et ExternType) string {
	switch et {
	case ExternTypeFunc:
		return ExternTypeFuncName
	case ExternTypeTable:
		return ExternTypeTableName
	case ExternTypeMemory:
		return ExternTypeMemoryName
	case ExternTypeGlobal:
		return ExternTypeGlobalName
	}
	return fmt.Sprintf("%#x", et)
}

// ValueType describes a numeric or vector type used by the IR and the binary format.
//
// Note: This is a type alias as it is easier to encode and decode in the binary format.
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#binary-valtype
type ValueType = byte

const (
	// ValueTypeI32 is a 32-bit integer.
	ValueTypeI32 ValueType = 0x7f
	// ValueTypeI64 is a 64-bit integer.
	ValueTypeI64 ValueType = 0x7e
	// ValueTypeF32 is a 32-bit floating point number.
	ValueTypeF32 ValueType = 0x7d
	// ValueTypeF64 is a 64-bit floating point number.
	ValueTypeF64 ValueType = 0x7c
	// ValueTypeV128 is a 128-bit vector value, per the fixed-width SIMD proposal.
	ValueTypeV128 ValueType = 0x7b
	// ValueTypeFuncref is a function reference type.
	ValueTypeFuncref ValueType = 0x70
	// ValueTypeExternref is an externref type.
	ValueTypeExternref ValueType = 0x6f
	// ValueTypeVoid is the block type byte used when a block/loop/if declares no result type.
	ValueTypeVoid ValueType = 0x40
)

// ValueTypeName returns the type name of the given ValueType as a string.
// These type names match the names used in the WebAssembly text format.
//
// Note: This returns "unknown", if an undefined ValueType value is passed.
func ValueTypeName(t ValueType) string {
	switch t {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	case ValueTypeV128:
		return "v128"
	case ValueTypeFuncref:
		return "funcref"
	case ValueTypeExternref:
		return "externref"
	case ValueTypeVoid:
		return "void"
	}
	return "unknown"
}

// EncodeI32 encodes the input as a ValueTypeI32.
func EncodeI32(input int32) uint64 {
	return uint64(uint32(input))
}

// EncodeI64 encodes the input as a ValueTypeI64.
func EncodeI64(input int64) uint64 {
	return uint64(input)
}

// EncodeF32 encodes the input as a ValueTypeF32.
// See DecodeF32
func EncodeF32(input float32) uint64 {
	return uint64(math.Float32bits(input))
}

// DecodeF32 decodes the input as a ValueTypeF32.
// See EncodeF32
func DecodeF32(input uint64) float32 {
	return math.Float32frombits(uint32(input))
}

// EncodeF64 encodes the input as a ValueTypeF64.
// See DecodeF64
func EncodeF64(input float64) uint64 {
	return math.Float64bits(input)
}

// DecodeF64 decodes the input as a ValueTypeF64.
// See EncodeF64
func DecodeF64(input uint64) float64 {
	return math.Float64frombits(input)
}

// EncodeV128_I8x16 encodes the input as a ValueTypeV128.
func EncodeV128_I8x16(ints []int8) (low uint64, hi uint64) {
	_ = ints[15] // bounds check hint to compiler; see golang.org/issue/14808
	low = uint64(uint8(ints[0])) | uint64(uint8(ints[1]))<<8 | uint64(uint8(ints[2]))<<16 | uint64(uint8(ints[3]))<<24 |
		uint64(uint8(ints[4]))<<32 | uint64(uint8(ints[5]))<<40 | uint64(uint8(ints[6]))<<48 | uint64(uint8(ints[7]))<<56
	hi = uint64(uint8(ints[8])) | uint64(uint8(ints[9]))<<8 | uint64(uint8(ints[10]))<<16 | uint64(uint8(ints[11]))<<24 |
		uint64(uint8(ints[12]))<<32 | uint64(uint8(ints[13]))<<40 | uint64(uint8(ints[14]))<<48 | uint64(uint8(ints[15]))<<56
	return
}

// DecodeV128_I8x16 decodes the input as a ValueTypeV128.
func DecodeV128_I8x16(low uint64, hi uint64) (ret []int8) {
	ret = []int8{
		int8(uint8(low)), int8(uint8(low >> 8)), int8(uint8(low >> 16)), int8(uint8(low >> 24)),
		int8(uint8(low >> 32)), int8(uint8(low >> 40)), int8(uint8(low >> 48)), int8(uint8(low >> 56)),
		int8(uint8(hi)), int8(uint8(hi >> 8)), int8(uint8(hi >> 16)), int8(uint8(hi >> 24)),
		int8(uint8(hi >> 32)), int8(uint8(hi >> 40)), int8(uint8(hi >> 48)), int8(uint8(hi >> 56)),
	}
	return
}

// EncodeV128_I16x8 encodes the input as a ValueTypeV128.
func EncodeV128_I16x8(ints []int16) (low uint64, hi uint64) {
	_ = ints[7] // bounds check hint to compiler; see golang.org/issue/14808
	low = uint64(uint16(ints[0])) | uint64(uint16(ints[1]))<<16 | uint64(uint16(ints[2]))<<32 | uint64(uint16(ints[3]))<<48
	hi = uint64(uint16(ints[4])) | uint64(uint16(ints[5]))<<16 | uint64(uint16(ints[6]))<<32 | uint64(uint16(ints[7]))<<48
	return
}

// DecodeV128_I16x8 decodes the input as a ValueTypeV128.
func DecodeV128_I16x8(low uint64, hi uint64) (ret []int16) {
	ret = []int16{
		int16(uint16(low)), int16(uint16(low >> 16)), int16(uint16(low >> 32)), int16(uint16(low >> 48)),
		int16(uint16(hi)), int16(uint16(hi >> 16)), int16(uint16(hi >> 32)), int16(uint16(hi >> 48)),
	}
	return
}

// EncodeV128_I32x4 encodes the input as a ValueTypeV128.
func EncodeV128_I32x4(ints []int32) (low uint64, hi uint64) {
	_ = ints[3] // bounds check hint to compiler; see golang.org/issue/14808
	low = uint64(uint32(ints[0])) | uint64(uint32(ints[1]))<<32
	hi = uint64(uint32(ints[2])) | uint64(uint32(ints[3]))<<32
	return
}

// DecodeV128_I32x4 decodes the input as a ValueTypeV128.
func DecodeV128_I32x4(low uint64, hi uint64) (ret []int32) {
	ret = []int32{
		int32(uint32(low)), int32(uint32(low >> 32)),
		int32(uint32(hi)), int32(uint32(hi >> 32)),
	}
	return
}

// EncodeV128_I64x2 encodes the input as a ValueTypeV128.
func EncodeV128_I64x2(ints []int64) (low uint64, hi uint64) {
	_ = ints[1] // bounds check hint to compiler; see golang.org/issue/14808
	low = uint64(ints[0])
	hi = uint64(ints[1])
	return
}

// DecodeV128_I64x2 decodes the input as a ValueTypeV128.
func DecodeV128_I64x2(low uint64, hi uint64) (ret []int64) {
	ret = []int64{int64(low), int64(hi)}
	return
}

// EncodeV128_F32x4 encodes the input as a ValueTypeV128.
func EncodeV128_F32x4(fs []float32) (low uint64, hi uint64) {
	_ = fs[3] // bounds check hint to compiler; see golang.org/issue/14808
	low = uint64(math.Float32bits(fs[0])) | uint64(math.Float32bits(fs[1]))<<32
	hi = uint64(math.Float32bits(fs[2])) | uint64(math.Float32bits(fs[3]))<<32
	return
}

// DecodeV128_F32x4 decodes the input as a ValueTypeV128.
func DecodeV128_F32x4(low uint64, hi uint64) (ret []float32) {
	ret = []float32{
		math.Float32frombits(uint32(low)), math.Float32frombits(uint32(low >> 32)),
		math.Float32frombits(uint32(hi)), math.Float32frombits(uint32(hi >> 32)),
	}
	return
}

// EncodeV128_F64x2 encodes the input as a ValueTypeV128.
func EncodeV128_F64x2(fs []float64) (low uint64, hi uint64) {
	_ = fs[1] // bounds check hint to compiler; see golang.org/issue/14808
	low = math.Float64bits(fs[0])
	hi = math.Float64bits(fs[1])
	return
}

// DecodeV128_F64x2 decodes the input as a ValueTypeV128.
func DecodeV128_F64x2(low uint64, hi uint64) (ret []float64) {
	ret = []float64{
		math.Float64frombits(low),
		math.Float64frombits(hi),
	}
	return
}
