package ir

// Opcode is a single-byte WebAssembly opcode, or one of the three prefix bytes (OpcodeVecPrefix,
// OpcodeAtomicPrefix, OpcodeMiscPrefix) that introduce a LEB128-encoded sub-code.
//
// See https://www.w3.org/TR/wasm-core-1/#binary-instr
type Opcode = byte

const (
	OpcodeUnreachable  Opcode = 0x00
	OpcodeNop          Opcode = 0x01
	OpcodeBlock        Opcode = 0x02
	OpcodeLoop         Opcode = 0x03
	OpcodeIf           Opcode = 0x04
	OpcodeElse         Opcode = 0x05
	OpcodeEnd          Opcode = 0x0b
	OpcodeBr           Opcode = 0x0c
	OpcodeBrIf         Opcode = 0x0d
	OpcodeBrTable      Opcode = 0x0e
	OpcodeReturn       Opcode = 0x0f
	OpcodeCall         Opcode = 0x10
	OpcodeCallIndirect Opcode = 0x11

	OpcodeDrop   Opcode = 0x1a
	OpcodeSelect Opcode = 0x1b

	OpcodeLocalGet  Opcode = 0x20
	OpcodeLocalSet  Opcode = 0x21
	OpcodeLocalTee  Opcode = 0x22
	OpcodeGlobalGet Opcode = 0x23
	OpcodeGlobalSet Opcode = 0x24

	OpcodeI32Load    Opcode = 0x28
	OpcodeI64Load    Opcode = 0x29
	OpcodeF32Load    Opcode = 0x2a
	OpcodeF64Load    Opcode = 0x2b
	OpcodeI32Load8S  Opcode = 0x2c
	OpcodeI32Load8U  Opcode = 0x2d
	OpcodeI32Load16S Opcode = 0x2e
	OpcodeI32Load16U Opcode = 0x2f
	OpcodeI64Load8S  Opcode = 0x30
	OpcodeI64Load8U  Opcode = 0x31
	OpcodeI64Load16S Opcode = 0x32
	OpcodeI64Load16U Opcode = 0x33
	OpcodeI64Load32S Opcode = 0x34
	OpcodeI64Load32U Opcode = 0x35
	OpcodeI32Store   Opcode = 0x36
	OpcodeI64Store   Opcode = 0x37
	OpcodeF32Store   Opcode = 0x38
	OpcodeF64Store   Opcode = 0x39
	OpcodeI32Store8  Opcode = 0x3a
	OpcodeI32Store16 Opcode = 0x3b
	OpcodeI64Store8  Opcode = 0x3c
	OpcodeI64Store16 Opcode = 0x3d
	OpcodeI64Store32 Opcode = 0x3e
	OpcodeMemorySize Opcode = 0x3f
	OpcodeMemoryGrow Opcode = 0x40

	OpcodeI32Const Opcode = 0x41
	OpcodeI64Const Opcode = 0x42
	OpcodeF32Const Opcode = 0x43
	OpcodeF64Const Opcode = 0x44

	OpcodeI32Eqz Opcode = 0x45
	OpcodeI32Eq  Opcode = 0x46
	OpcodeI32Ne  Opcode = 0x47
	OpcodeI32LtS Opcode = 0x48
	OpcodeI32LtU Opcode = 0x49
	OpcodeI32GtS Opcode = 0x4a
	OpcodeI32GtU Opcode = 0x4b
	OpcodeI32LeS Opcode = 0x4c
	OpcodeI32LeU Opcode = 0x4d
	OpcodeI32GeS Opcode = 0x4e
	OpcodeI32GeU Opcode = 0x4f

	OpcodeI64Eqz Opcode = 0x50
	OpcodeI64Eq  Opcode = 0x51
	OpcodeI64Ne  Opcode = 0x52
	OpcodeI64LtS Opcode = 0x53
	OpcodeI64LtU Opcode = 0x54
	OpcodeI64GtS Opcode = 0x55
	OpcodeI64GtU Opcode = 0x56
	OpcodeI64LeS Opcode = 0x57
	OpcodeI64LeU Opcode = 0x58
	OpcodeI64GeS Opcode = 0x59
	OpcodeI64GeU Opcode = 0x5a

	OpcodeF32Eq Opcode = 0x5b
	OpcodeF32Ne Opcode = 0x5c
	OpcodeF32Lt Opcode = 0x5d
	OpcodeF32Gt Opcode = 0x5e
	OpcodeF32Le Opcode = 0x5f
	OpcodeF32Ge Opcode = 0x60

	OpcodeF64Eq Opcode = 0x61
	OpcodeF64Ne Opcode = 0x62
	OpcodeF64Lt Opcode = 0x63
	OpcodeF64Gt Opcode = 0x64
	OpcodeF64Le Opcode = 0x65
	OpcodeF64Ge Opcode = 0x66

	OpcodeI32Clz    Opcode = 0x67
	OpcodeI32Ctz    Opcode = 0x68
	OpcodeI32Popcnt Opcode = 0x69
	OpcodeI32Add    Opcode = 0x6a
	OpcodeI32Sub    Opcode = 0x6b
	OpcodeI32Mul    Opcode = 0x6c
	OpcodeI32DivS   Opcode = 0x6d
	OpcodeI32DivU   Opcode = 0x6e
	OpcodeI32RemS   Opcode = 0x6f
	OpcodeI32RemU   Opcode = 0x70
	OpcodeI32And    Opcode = 0x71
	OpcodeI32Or     Opcode = 0x72
	OpcodeI32Xor    Opcode = 0x73
	OpcodeI32Shl    Opcode = 0x74
	OpcodeI32ShrS   Opcode = 0x75
	OpcodeI32ShrU   Opcode = 0x76
	OpcodeI32Rotl   Opcode = 0x77
	OpcodeI32Rotr   Opcode = 0x78

	OpcodeI64Clz    Opcode = 0x79
	OpcodeI64Ctz    Opcode = 0x7a
	OpcodeI64Popcnt Opcode = 0x7b
	OpcodeI64Add    Opcode = 0x7c
	OpcodeI64Sub    Opcode = 0x7d
	OpcodeI64Mul    Opcode = 0x7e
	OpcodeI64DivS   Opcode = 0x7f
	OpcodeI64DivU   Opcode = 0x80
	OpcodeI64RemS   Opcode = 0x81
	OpcodeI64RemU   Opcode = 0x82
	OpcodeI64And    Opcode = 0x83
	OpcodeI64Or     Opcode = 0x84
	OpcodeI64Xor    Opcode = 0x85
	OpcodeI64Shl    Opcode = 0x86
	OpcodeI64ShrS   Opcode = 0x87
	OpcodeI64ShrU   Opcode = 0x88
	OpcodeI64Rotl   Opcode = 0x89
	OpcodeI64Rotr   Opcode = 0x8a

	OpcodeF32Abs      Opcode = 0x8b
	OpcodeF32Neg      Opcode = 0x8c
	OpcodeF32Ceil     Opcode = 0x8d
	OpcodeF32Floor    Opcode = 0x8e
	OpcodeF32Trunc    Opcode = 0x8f
	OpcodeF32Nearest  Opcode = 0x90
	OpcodeF32Sqrt     Opcode = 0x91
	OpcodeF32Add      Opcode = 0x92
	OpcodeF32Sub      Opcode = 0x93
	OpcodeF32Mul      Opcode = 0x94
	OpcodeF32Div      Opcode = 0x95
	OpcodeF32Min      Opcode = 0x96
	OpcodeF32Max      Opcode = 0x97
	OpcodeF32Copysign Opcode = 0x98

	OpcodeF64Abs      Opcode = 0x99
	OpcodeF64Neg      Opcode = 0x9a
	OpcodeF64Ceil     Opcode = 0x9b
	OpcodeF64Floor    Opcode = 0x9c
	OpcodeF64Trunc    Opcode = 0x9d
	OpcodeF64Nearest  Opcode = 0x9e
	OpcodeF64Sqrt     Opcode = 0x9f
	OpcodeF64Add      Opcode = 0xa0
	OpcodeF64Sub      Opcode = 0xa1
	OpcodeF64Mul      Opcode = 0xa2
	OpcodeF64Div      Opcode = 0xa3
	OpcodeF64Min      Opcode = 0xa4
	OpcodeF64Max      Opcode = 0xa5
	OpcodeF64Copysign Opcode = 0xa6

	OpcodeI32WrapI64     Opcode = 0xa7
	OpcodeI32TruncF32S   Opcode = 0xa8
	OpcodeI32TruncF32U   Opcode = 0xa9
	OpcodeI32TruncF64S   Opcode = 0xaa
	OpcodeI32TruncF64U   Opcode = 0xab
	OpcodeI64ExtendI32S  Opcode = 0xac
	OpcodeI64ExtendI32U  Opcode = 0xad
	OpcodeI64TruncF32S   Opcode = 0xae
	OpcodeI64TruncF32U   Opcode = 0xaf
	OpcodeI64TruncF64S   Opcode = 0xb0
	OpcodeI64TruncF64U   Opcode = 0xb1
	OpcodeF32ConvertI32S Opcode = 0xb2
	OpcodeF32ConvertI32U Opcode = 0xb3
	OpcodeF32ConvertI64S Opcode = 0xb4
	OpcodeF32ConvertI64U Opcode = 0xb5
	OpcodeF32DemoteF64   Opcode = 0xb6
	OpcodeF64ConvertI32S Opcode = 0xb7
	OpcodeF64ConvertI32U Opcode = 0xb8
	OpcodeF64ConvertI64S Opcode = 0xb9
	OpcodeF64ConvertI64U Opcode = 0xba
	OpcodeF64PromoteF32  Opcode = 0xbb

	OpcodeI32ReinterpretF32 Opcode = 0xbc
	OpcodeI64ReinterpretF64 Opcode = 0xbd
	OpcodeF32ReinterpretI32 Opcode = 0xbe
	OpcodeF64ReinterpretI64 Opcode = 0xbf

	OpcodeI32Extend8S  Opcode = 0xc0
	OpcodeI32Extend16S Opcode = 0xc1
	OpcodeI64Extend8S  Opcode = 0xc2
	OpcodeI64Extend16S Opcode = 0xc3
	OpcodeI64Extend32S Opcode = 0xc4

	// OpcodeMiscPrefix introduces the bulk-memory/table/saturating-truncation sub-code table,
	// per the bulk-memory-operations and non-trapping-float-to-int-conversions proposals.
	OpcodeMiscPrefix Opcode = 0xfc
	// OpcodeVecPrefix introduces the fixed-width 128-bit SIMD sub-code table.
	OpcodeVecPrefix Opcode = 0xfd
	// OpcodeAtomicPrefix introduces the threads/atomics sub-code table.
	OpcodeAtomicPrefix Opcode = 0xfe
)

// OpcodeMisc is a sub-code following OpcodeMiscPrefix, LEB128-encoded at write time.
type OpcodeMisc = byte

const (
	OpcodeMiscI32TruncSatF32S OpcodeMisc = 0x00
	OpcodeMiscI32TruncSatF32U OpcodeMisc = 0x01
	OpcodeMiscI32TruncSatF64S OpcodeMisc = 0x02
	OpcodeMiscI32TruncSatF64U OpcodeMisc = 0x03
	OpcodeMiscI64TruncSatF32S OpcodeMisc = 0x04
	OpcodeMiscI64TruncSatF32U OpcodeMisc = 0x05
	OpcodeMiscI64TruncSatF64S OpcodeMisc = 0x06
	OpcodeMiscI64TruncSatF64U OpcodeMisc = 0x07

	OpcodeMiscMemoryInit OpcodeMisc = 0x08
	OpcodeMiscDataDrop   OpcodeMisc = 0x09
	OpcodeMiscMemoryCopy OpcodeMisc = 0x0a
	OpcodeMiscMemoryFill OpcodeMisc = 0x0b
	OpcodeMiscTableInit  OpcodeMisc = 0x0c
	OpcodeMiscElemDrop   OpcodeMisc = 0x0d
	OpcodeMiscTableCopy  OpcodeMisc = 0x0e
	OpcodeMiscTableGrow  OpcodeMisc = 0x0f
	OpcodeMiscTableSize  OpcodeMisc = 0x10
	OpcodeMiscTableFill  OpcodeMisc = 0x11
)

// OpcodeVec is a sub-code following OpcodeVecPrefix, LEB128-encoded at write time. The fixed
// width SIMD proposal defines over 200 of these; this table covers the subset the IR builders
// and auto-vectorizer emit.
//
// Per the "Opcode table" Design Note: i8x16.add, i16x8.add and i32x4.add are given their own
// distinct sub-codes (they are not the same opcode, unlike an earlier draft of this table).
type OpcodeVec = uint32

const (
	OpcodeVecV128Load  OpcodeVec = 0x00
	OpcodeVecV128Store OpcodeVec = 0x01
	OpcodeVecV128Const OpcodeVec = 0x0c

	OpcodeVecI8x16Splat OpcodeVec = 0x0f
	OpcodeVecI16x8Splat OpcodeVec = 0x10
	OpcodeVecI32x4Splat OpcodeVec = 0x11
	OpcodeVecI64x2Splat OpcodeVec = 0x12
	OpcodeVecF32x4Splat OpcodeVec = 0x13
	OpcodeVecF64x2Splat OpcodeVec = 0x14

	OpcodeVecI8x16ExtractLaneS OpcodeVec = 0x15
	OpcodeVecI8x16ExtractLaneU OpcodeVec = 0x16
	OpcodeVecI8x16ReplaceLane  OpcodeVec = 0x17
	OpcodeVecI16x8ExtractLaneS OpcodeVec = 0x18
	OpcodeVecI16x8ExtractLaneU OpcodeVec = 0x19
	OpcodeVecI16x8ReplaceLane  OpcodeVec = 0x1a
	OpcodeVecI32x4ExtractLane  OpcodeVec = 0x1b
	OpcodeVecI32x4ReplaceLane  OpcodeVec = 0x1c
	OpcodeVecI64x2ExtractLane  OpcodeVec = 0x1d
	OpcodeVecI64x2ReplaceLane  OpcodeVec = 0x1e
	OpcodeVecF32x4ExtractLane  OpcodeVec = 0x1f
	OpcodeVecF32x4ReplaceLane  OpcodeVec = 0x20
	OpcodeVecF64x2ExtractLane  OpcodeVec = 0x21
	OpcodeVecF64x2ReplaceLane  OpcodeVec = 0x22

	OpcodeVecV128Not          OpcodeVec = 0x4d
	OpcodeVecV128And          OpcodeVec = 0x4e
	OpcodeVecV128Or           OpcodeVec = 0x50
	OpcodeVecV128Xor          OpcodeVec = 0x51
	OpcodeVecI8x16Add         OpcodeVec = 0x6e
	OpcodeVecI8x16Sub         OpcodeVec = 0x71
	OpcodeVecI16x8Add         OpcodeVec = 0x8e
	OpcodeVecI16x8Sub         OpcodeVec = 0x91
	OpcodeVecI16x8Mul         OpcodeVec = 0x95
	OpcodeVecI32x4Add         OpcodeVec = 0xae
	OpcodeVecI32x4Sub         OpcodeVec = 0xb1
	OpcodeVecI32x4Mul         OpcodeVec = 0xb5
	OpcodeVecF32x4Add         OpcodeVec = 0xe4
	OpcodeVecF32x4Sub         OpcodeVec = 0xe5
	OpcodeVecF32x4Mul         OpcodeVec = 0xe6
	OpcodeVecF32x4Div         OpcodeVec = 0xe7
	OpcodeVecF32x4Min         OpcodeVec = 0xe8
	OpcodeVecF32x4Max         OpcodeVec = 0xe9
	OpcodeVecF64x2Add         OpcodeVec = 0xf0
	OpcodeVecF64x2Sub         OpcodeVec = 0xf1
	OpcodeVecF64x2Mul         OpcodeVec = 0xf2
	OpcodeVecF64x2Div         OpcodeVec = 0xf3
	OpcodeVecF64x2Min         OpcodeVec = 0xf4
	OpcodeVecF64x2Max         OpcodeVec = 0xf5
)

// OpcodeAtomic is a sub-code following OpcodeAtomicPrefix, LEB128-encoded at write time.
type OpcodeAtomic = uint32

const (
	OpcodeAtomicFence        OpcodeAtomic = 0x03
	OpcodeAtomicI32Load      OpcodeAtomic = 0x10
	OpcodeAtomicI64Load      OpcodeAtomic = 0x11
	OpcodeAtomicI32Store     OpcodeAtomic = 0x17
	OpcodeAtomicI64Store     OpcodeAtomic = 0x18
	OpcodeAtomicI32RmwAdd    OpcodeAtomic = 0x1e
	OpcodeAtomicI64RmwAdd    OpcodeAtomic = 0x1f
	OpcodeAtomicI32RmwSub    OpcodeAtomic = 0x25
	OpcodeAtomicI64RmwSub    OpcodeAtomic = 0x26
	OpcodeAtomicI32RmwCmpxch OpcodeAtomic = 0x48
	OpcodeAtomicI64RmwCmpxch OpcodeAtomic = 0x49
)

// opcodeNames maps a subset of the single-byte opcodes (i32 arithmetic/bitwise/shift and f32
// arithmetic/min/max) to the IR operation name used as Binop.Op. It inverts the matching entries
// of the emitter's name→opcode table in binaryfmt.
var opcodeNames = map[Opcode]string{
	OpcodeI32Add: "i32.add", OpcodeI32Sub: "i32.sub", OpcodeI32Mul: "i32.mul",
	OpcodeI32DivS: "i32.div_s", OpcodeI32DivU: "i32.div_u",
	OpcodeI32And: "i32.and", OpcodeI32Or: "i32.or", OpcodeI32Xor: "i32.xor",
	OpcodeI32Shl: "i32.shl", OpcodeI32ShrS: "i32.shr_s", OpcodeI32ShrU: "i32.shr_u",
	OpcodeF32Add: "f32.add", OpcodeF32Sub: "f32.sub", OpcodeF32Mul: "f32.mul", OpcodeF32Div: "f32.div",
	OpcodeF32Min: "f32.min", OpcodeF32Max: "f32.max",
}

// OpcodeName returns the canonical IR operation name for a single-byte opcode, or "" if unknown.
func OpcodeName(op Opcode) string {
	return opcodeNames[op]
}
