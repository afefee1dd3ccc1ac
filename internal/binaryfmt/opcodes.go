package binaryfmt

import "github.com/wazevm/wazevm/internal/ir"

// scalarOps covers every non-prefixed numeric, comparison and conversion operator the IR's
// Binop/Unop nodes carry.
var scalarOps = map[string]byte{
	"i32.add": ir.OpcodeI32Add, "i32.sub": ir.OpcodeI32Sub, "i32.mul": ir.OpcodeI32Mul,
	"i32.div_s": ir.OpcodeI32DivS, "i32.div_u": ir.OpcodeI32DivU,
	"i32.rem_s": ir.OpcodeI32RemS, "i32.rem_u": ir.OpcodeI32RemU,
	"i32.and": ir.OpcodeI32And, "i32.or": ir.OpcodeI32Or, "i32.xor": ir.OpcodeI32Xor,
	"i32.shl": ir.OpcodeI32Shl, "i32.shr_s": ir.OpcodeI32ShrS, "i32.shr_u": ir.OpcodeI32ShrU,
	"i32.rotl": ir.OpcodeI32Rotl, "i32.rotr": ir.OpcodeI32Rotr,
	"i32.eqz": ir.OpcodeI32Eqz, "i32.eq": ir.OpcodeI32Eq, "i32.ne": ir.OpcodeI32Ne,
	"i32.lt_s": ir.OpcodeI32LtS, "i32.lt_u": ir.OpcodeI32LtU,
	"i32.gt_s": ir.OpcodeI32GtS, "i32.gt_u": ir.OpcodeI32GtU,
	"i32.le_s": ir.OpcodeI32LeS, "i32.le_u": ir.OpcodeI32LeU,
	"i32.ge_s": ir.OpcodeI32GeS, "i32.ge_u": ir.OpcodeI32GeU,
	"i32.clz": ir.OpcodeI32Clz, "i32.ctz": ir.OpcodeI32Ctz, "i32.popcnt": ir.OpcodeI32Popcnt,

	"i64.add": ir.OpcodeI64Add, "i64.sub": ir.OpcodeI64Sub, "i64.mul": ir.OpcodeI64Mul,
	"i64.div_s": ir.OpcodeI64DivS, "i64.div_u": ir.OpcodeI64DivU,
	"i64.rem_s": ir.OpcodeI64RemS, "i64.rem_u": ir.OpcodeI64RemU,
	"i64.and": ir.OpcodeI64And, "i64.or": ir.OpcodeI64Or, "i64.xor": ir.OpcodeI64Xor,
	"i64.shl": ir.OpcodeI64Shl, "i64.shr_s": ir.OpcodeI64ShrS, "i64.shr_u": ir.OpcodeI64ShrU,
	"i64.rotl": ir.OpcodeI64Rotl, "i64.rotr": ir.OpcodeI64Rotr,
	"i64.eqz": ir.OpcodeI64Eqz, "i64.eq": ir.OpcodeI64Eq, "i64.ne": ir.OpcodeI64Ne,
	"i64.lt_s": ir.OpcodeI64LtS, "i64.lt_u": ir.OpcodeI64LtU,
	"i64.gt_s": ir.OpcodeI64GtS, "i64.gt_u": ir.OpcodeI64GtU,
	"i64.le_s": ir.OpcodeI64LeS, "i64.le_u": ir.OpcodeI64LeU,
	"i64.ge_s": ir.OpcodeI64GeS, "i64.ge_u": ir.OpcodeI64GeU,

	"f32.add": ir.OpcodeF32Add, "f32.sub": ir.OpcodeF32Sub, "f32.mul": ir.OpcodeF32Mul, "f32.div": ir.OpcodeF32Div,
	"f32.min": ir.OpcodeF32Min, "f32.max": ir.OpcodeF32Max, "f32.copysign": ir.OpcodeF32Copysign,
	"f32.abs": ir.OpcodeF32Abs, "f32.neg": ir.OpcodeF32Neg, "f32.sqrt": ir.OpcodeF32Sqrt,
	"f32.ceil": ir.OpcodeF32Ceil, "f32.floor": ir.OpcodeF32Floor, "f32.trunc": ir.OpcodeF32Trunc, "f32.nearest": ir.OpcodeF32Nearest,
	"f32.eq": ir.OpcodeF32Eq, "f32.ne": ir.OpcodeF32Ne, "f32.lt": ir.OpcodeF32Lt,
	"f32.gt": ir.OpcodeF32Gt, "f32.le": ir.OpcodeF32Le, "f32.ge": ir.OpcodeF32Ge,

	"f64.add": ir.OpcodeF64Add, "f64.sub": ir.OpcodeF64Sub, "f64.mul": ir.OpcodeF64Mul, "f64.div": ir.OpcodeF64Div,
	"f64.min": ir.OpcodeF64Min, "f64.max": ir.OpcodeF64Max, "f64.copysign": ir.OpcodeF64Copysign,
	"f64.abs": ir.OpcodeF64Abs, "f64.neg": ir.OpcodeF64Neg, "f64.sqrt": ir.OpcodeF64Sqrt,
	"f64.ceil": ir.OpcodeF64Ceil, "f64.floor": ir.OpcodeF64Floor, "f64.trunc": ir.OpcodeF64Trunc, "f64.nearest": ir.OpcodeF64Nearest,
	"f64.eq": ir.OpcodeF64Eq, "f64.ne": ir.OpcodeF64Ne, "f64.lt": ir.OpcodeF64Lt,
	"f64.gt": ir.OpcodeF64Gt, "f64.le": ir.OpcodeF64Le, "f64.ge": ir.OpcodeF64Ge,

	"i32.wrap_i64": ir.OpcodeI32WrapI64,
	"i64.extend_i32_s": ir.OpcodeI64ExtendI32S, "i64.extend_i32_u": ir.OpcodeI64ExtendI32U,
	"f32.convert_i32_s": ir.OpcodeF32ConvertI32S, "f32.demote_f64": ir.OpcodeF32DemoteF64,
	"f64.convert_i32_s": ir.OpcodeF64ConvertI32S, "f64.promote_f32": ir.OpcodeF64PromoteF32,
}

// vecOps covers the SIMD operators emitted under the OpcodeVecPrefix sub-code table.
var vecOps = map[string]uint32{
	"v128.not": ir.OpcodeVecV128Not, "v128.and": ir.OpcodeVecV128And,
	"v128.or": ir.OpcodeVecV128Or, "v128.xor": ir.OpcodeVecV128Xor,

	"i8x16.splat": ir.OpcodeVecI8x16Splat, "i16x8.splat": ir.OpcodeVecI16x8Splat,
	"i32x4.splat": ir.OpcodeVecI32x4Splat, "i64x2.splat": ir.OpcodeVecI64x2Splat,
	"f32x4.splat": ir.OpcodeVecF32x4Splat, "f64x2.splat": ir.OpcodeVecF64x2Splat,

	"i8x16.add": ir.OpcodeVecI8x16Add, "i8x16.sub": ir.OpcodeVecI8x16Sub,
	"i16x8.add": ir.OpcodeVecI16x8Add, "i16x8.sub": ir.OpcodeVecI16x8Sub, "i16x8.mul": ir.OpcodeVecI16x8Mul,
	"i32x4.add": ir.OpcodeVecI32x4Add, "i32x4.sub": ir.OpcodeVecI32x4Sub, "i32x4.mul": ir.OpcodeVecI32x4Mul,
	"f32x4.add": ir.OpcodeVecF32x4Add, "f32x4.sub": ir.OpcodeVecF32x4Sub,
	"f32x4.mul": ir.OpcodeVecF32x4Mul, "f32x4.div": ir.OpcodeVecF32x4Div,
	"f32x4.min": ir.OpcodeVecF32x4Min, "f32x4.max": ir.OpcodeVecF32x4Max,
	"f64x2.add": ir.OpcodeVecF64x2Add, "f64x2.sub": ir.OpcodeVecF64x2Sub,
	"f64x2.mul": ir.OpcodeVecF64x2Mul, "f64x2.div": ir.OpcodeVecF64x2Div,
	"f64x2.min": ir.OpcodeVecF64x2Min, "f64x2.max": ir.OpcodeVecF64x2Max,
}

// vecLaneOps covers the SIMD extract_lane/replace_lane operators.
var vecLaneOps = map[string]uint32{
	"i8x16.extract_lane_s": ir.OpcodeVecI8x16ExtractLaneS, "i8x16.extract_lane_u": ir.OpcodeVecI8x16ExtractLaneU,
	"i8x16.replace_lane": ir.OpcodeVecI8x16ReplaceLane,
	"i16x8.extract_lane_s": ir.OpcodeVecI16x8ExtractLaneS, "i16x8.extract_lane_u": ir.OpcodeVecI16x8ExtractLaneU,
	"i16x8.replace_lane": ir.OpcodeVecI16x8ReplaceLane,
	"i32x4.extract_lane": ir.OpcodeVecI32x4ExtractLane, "i32x4.replace_lane": ir.OpcodeVecI32x4ReplaceLane,
	"i64x2.extract_lane": ir.OpcodeVecI64x2ExtractLane, "i64x2.replace_lane": ir.OpcodeVecI64x2ReplaceLane,
	"f32x4.extract_lane": ir.OpcodeVecF32x4ExtractLane, "f32x4.replace_lane": ir.OpcodeVecF32x4ReplaceLane,
	"f64x2.extract_lane": ir.OpcodeVecF64x2ExtractLane, "f64x2.replace_lane": ir.OpcodeVecF64x2ReplaceLane,
}

// atomicOps covers the threads/atomics operators emitted under OpcodeAtomicPrefix.
var atomicOps = map[string]uint32{
	"i32.atomic.load": ir.OpcodeAtomicI32Load, "i64.atomic.load": ir.OpcodeAtomicI64Load,
	"i32.atomic.store": ir.OpcodeAtomicI32Store, "i64.atomic.store": ir.OpcodeAtomicI64Store,
	"i32.atomic.rmw.add": ir.OpcodeAtomicI32RmwAdd, "i64.atomic.rmw.add": ir.OpcodeAtomicI64RmwAdd,
	"i32.atomic.rmw.sub": ir.OpcodeAtomicI32RmwSub, "i64.atomic.rmw.sub": ir.OpcodeAtomicI64RmwSub,
	"i32.atomic.rmw.cmpxchg": ir.OpcodeAtomicI32RmwCmpxch, "i64.atomic.rmw.cmpxchg": ir.OpcodeAtomicI64RmwCmpxch,
}

// miscOps covers the bulk-memory/table/saturating-conversion operators under OpcodeMiscPrefix.
var miscOps = map[string]byte{
	"memory.init": ir.OpcodeMiscMemoryInit, "data.drop": ir.OpcodeMiscDataDrop,
	"memory.copy": ir.OpcodeMiscMemoryCopy, "memory.fill": ir.OpcodeMiscMemoryFill,
	"table.init": ir.OpcodeMiscTableInit, "elem.drop": ir.OpcodeMiscElemDrop,
	"table.copy": ir.OpcodeMiscTableCopy, "table.grow": ir.OpcodeMiscTableGrow,
	"table.size": ir.OpcodeMiscTableSize, "table.fill": ir.OpcodeMiscTableFill,
}

// scalarMemOps maps scalar/atomic-fence-free load/store operator names to their single-byte
// opcode; v128 load/store are handled separately since they live under the vec prefix.
var scalarMemOps = map[string]byte{
	"i32.load": ir.OpcodeI32Load, "i64.load": ir.OpcodeI64Load,
	"f32.load": ir.OpcodeF32Load, "f64.load": ir.OpcodeF64Load,
	"i32.load8_s": ir.OpcodeI32Load8S, "i32.load8_u": ir.OpcodeI32Load8U,
	"i32.load16_s": ir.OpcodeI32Load16S, "i32.load16_u": ir.OpcodeI32Load16U,
	"i64.load8_s": ir.OpcodeI64Load8S, "i64.load8_u": ir.OpcodeI64Load8U,
	"i64.load16_s": ir.OpcodeI64Load16S, "i64.load16_u": ir.OpcodeI64Load16U,
	"i64.load32_s": ir.OpcodeI64Load32S, "i64.load32_u": ir.OpcodeI64Load32U,
	"i32.store": ir.OpcodeI32Store, "i64.store": ir.OpcodeI64Store,
	"f32.store": ir.OpcodeF32Store, "f64.store": ir.OpcodeF64Store,
	"i32.store8": ir.OpcodeI32Store8, "i32.store16": ir.OpcodeI32Store16,
	"i64.store8": ir.OpcodeI64Store8, "i64.store16": ir.OpcodeI64Store16, "i64.store32": ir.OpcodeI64Store32,
}
