package binaryfmt

import (
	"fmt"

	"github.com/wazevm/wazevm/api"
	"github.com/wazevm/wazevm/internal/ir"
	"github.com/wazevm/wazevm/internal/leb128"
)

// emitBody emits a flat instruction sequence, used for function bodies and the bodies of
// block/loop/if arms.
func emitBody(buf *leb128.Buffer, ctx *context, body []ir.Node, where string) error {
	for _, n := range body {
		if err := emitInstr(buf, ctx, n, where); err != nil {
			return err
		}
	}
	return nil
}

// emitInstr dispatches a single node to one of the binary format's three instruction
// categories: control flow (blocks, branches, calls, and the instructions that terminate or
// restructure control), stack operators (locals, globals, constants, drop/select -- instructions
// whose only effect is pushing or popping the operand stack), and general operations (the
// numeric, memory and SIMD operators, keyed by their canonical text form in scalarOps/vecOps/
// atomicOps/miscOps).
func emitInstr(buf *leb128.Buffer, ctx *context, n ir.Node, where string) error {
	switch v := n.(type) {
	// -- control flow --
	case *ir.Block:
		return emitBlockLike(buf, ctx, ir.OpcodeBlock, v.Label, v.Results, v.Body, nil, where)
	case *ir.Loop:
		return emitBlockLike(buf, ctx, ir.OpcodeLoop, v.Label, v.Results, v.Body, nil, where)
	case *ir.If:
		if err := emitInstr(buf, ctx, v.Cond, where); err != nil {
			return err
		}
		return emitBlockLike(buf, ctx, ir.OpcodeIf, v.Label, v.Results, v.Then, v.Else, where)
	case *ir.Br:
		depth, ok := ctx.labelDepth(v.Label)
		if !ok {
			return errf(MalformedControl, where, "br to unknown label %q", v.Label)
		}
		buf.U8(ir.OpcodeBr)
		buf.U32(depth)
		return nil
	case *ir.BrIf:
		if err := emitInstr(buf, ctx, v.Cond, where); err != nil {
			return err
		}
		depth, ok := ctx.labelDepth(v.Label)
		if !ok {
			return errf(MalformedControl, where, "br_if to unknown label %q", v.Label)
		}
		buf.U8(ir.OpcodeBrIf)
		buf.U32(depth)
		return nil
	case *ir.BrTable:
		if err := emitInstr(buf, ctx, v.Index, where); err != nil {
			return err
		}
		buf.U8(ir.OpcodeBrTable)
		depths := make([]uint32, len(v.Labels))
		for i, l := range v.Labels {
			d, ok := ctx.labelDepth(l)
			if !ok {
				return errf(MalformedControl, where, "br_table to unknown label %q", l)
			}
			depths[i] = d
		}
		defDepth, ok := ctx.labelDepth(v.Default)
		if !ok {
			return errf(MalformedControl, where, "br_table default to unknown label %q", v.Default)
		}
		buf.Vec(len(depths), func(i int) { buf.U32(depths[i]) })
		buf.U32(defDepth)
		return nil
	case *ir.Return:
		if v.Value != nil {
			if err := emitInstr(buf, ctx, v.Value, where); err != nil {
				return err
			}
		}
		buf.U8(ir.OpcodeReturn)
		return nil
	case *ir.Call:
		for _, a := range v.Args {
			if err := emitInstr(buf, ctx, a, where); err != nil {
				return err
			}
		}
		idx, ok := ctx.funcIndex[v.Name]
		if !ok {
			return errf(UnresolvedName, where, "call to unknown function %q", v.Name)
		}
		buf.U8(ir.OpcodeCall)
		buf.U32(idx)
		return nil
	case *ir.CallIndirect:
		for _, a := range v.Args {
			if err := emitInstr(buf, ctx, a, where); err != nil {
				return err
			}
		}
		if err := emitInstr(buf, ctx, v.Index, where); err != nil {
			return err
		}
		t := funcType{params: v.TypeParams, results: v.TypeResults}
		typeIdx, ok := ctx.typeIndex[t.sig()]
		if !ok {
			typeIdx = ctx.internType(&ir.Func{Params: toParams(v.TypeParams), Results: toResults(v.TypeResults)})
		}
		buf.U8(ir.OpcodeCallIndirect)
		buf.U32(typeIdx)
		buf.U8(0x00) // table index, always 0 in the MVP single-table model
		return nil
	case *ir.Unreachable:
		buf.U8(ir.OpcodeUnreachable)
		return nil
	case *ir.Nop:
		buf.U8(ir.OpcodeNop)
		return nil

	// -- stack operators --
	case *ir.Drop:
		if err := emitInstr(buf, ctx, v.Value, where); err != nil {
			return err
		}
		buf.U8(ir.OpcodeDrop)
		return nil
	case *ir.Select:
		if err := emitInstr(buf, ctx, v.A, where); err != nil {
			return err
		}
		if err := emitInstr(buf, ctx, v.B, where); err != nil {
			return err
		}
		if err := emitInstr(buf, ctx, v.Cond, where); err != nil {
			return err
		}
		buf.U8(ir.OpcodeSelect)
		return nil
	case *ir.LocalGet:
		idx, ok := ctx.localIndex[v.Name]
		if !ok {
			return errf(UnresolvedName, where, "local.get of unknown local %q", v.Name)
		}
		buf.U8(ir.OpcodeLocalGet)
		buf.U32(idx)
		return nil
	case *ir.LocalSet:
		if err := emitInstr(buf, ctx, v.Value, where); err != nil {
			return err
		}
		idx, ok := ctx.localIndex[v.Name]
		if !ok {
			return errf(UnresolvedName, where, "local.set of unknown local %q", v.Name)
		}
		buf.U8(ir.OpcodeLocalSet)
		buf.U32(idx)
		return nil
	case *ir.LocalTee:
		if err := emitInstr(buf, ctx, v.Value, where); err != nil {
			return err
		}
		idx, ok := ctx.localIndex[v.Name]
		if !ok {
			return errf(UnresolvedName, where, "local.tee of unknown local %q", v.Name)
		}
		buf.U8(ir.OpcodeLocalTee)
		buf.U32(idx)
		return nil
	case *ir.GlobalGet:
		idx, ok := ctx.globalIndex[v.Name]
		if !ok {
			return errf(UnresolvedName, where, "global.get of unknown global %q", v.Name)
		}
		buf.U8(ir.OpcodeGlobalGet)
		buf.U32(idx)
		return nil
	case *ir.GlobalSet:
		if err := emitInstr(buf, ctx, v.Value, where); err != nil {
			return err
		}
		idx, ok := ctx.globalIndex[v.Name]
		if !ok {
			return errf(UnresolvedName, where, "global.set of unknown global %q", v.Name)
		}
		buf.U8(ir.OpcodeGlobalSet)
		buf.U32(idx)
		return nil
	case *ir.Const:
		return emitConst(buf, v, where)
	case *ir.V128Const:
		buf.U8(ir.OpcodeVecPrefix)
		buf.U32(ir.OpcodeVecV128Const)
		buf.RawBytes(v.Bytes[:])
		return nil

	// -- general operations --
	case *ir.Binop:
		if err := emitInstr(buf, ctx, v.Left, where); err != nil {
			return err
		}
		if err := emitInstr(buf, ctx, v.Right, where); err != nil {
			return err
		}
		return emitOperator(buf, v.Op, where)
	case *ir.Unop:
		if err := emitInstr(buf, ctx, v.Operand, where); err != nil {
			return err
		}
		return emitOperator(buf, v.Op, where)
	case *ir.MemOp:
		return emitMemOp(buf, ctx, v, where)
	case *ir.Lane:
		if err := emitInstr(buf, ctx, v.Operand, where); err != nil {
			return err
		}
		if v.Value != nil {
			if err := emitInstr(buf, ctx, v.Value, where); err != nil {
				return err
			}
		}
		code, ok := vecLaneOps[v.Op]
		if !ok {
			return errf(UnknownOpcode, where, "unknown lane operator %q", v.Op)
		}
		buf.U8(ir.OpcodeVecPrefix)
		buf.U32(code)
		buf.U8(v.Index)
		return nil
	case *ir.Generic:
		return emitGeneric(buf, ctx, v, where)
	default:
		return errf(MalformedControl, where, "unrecognized node type %T", n)
	}
}

func emitOperator(buf *leb128.Buffer, op, where string) error {
	if code, ok := scalarOps[op]; ok {
		buf.U8(code)
		return nil
	}
	if code, ok := vecOps[op]; ok {
		buf.U8(ir.OpcodeVecPrefix)
		buf.U32(code)
		return nil
	}
	if code, ok := atomicOps[op]; ok {
		buf.U8(ir.OpcodeAtomicPrefix)
		buf.U32(code)
		return nil
	}
	return errf(UnknownOpcode, where, "unknown operator %q", op)
}

func emitConst(buf *leb128.Buffer, c *ir.Const, where string) error {
	switch c.ValueType {
	case api.ValueTypeI32:
		v, ok := c.Value.(int32)
		if !ok {
			return errf(UnsupportedConstType, where, "i32.const value is %T, want int32", c.Value)
		}
		buf.U8(ir.OpcodeI32Const)
		buf.S32(v)
	case api.ValueTypeI64:
		v, ok := c.Value.(int64)
		if !ok {
			return errf(UnsupportedConstType, where, "i64.const value is %T, want int64", c.Value)
		}
		buf.U8(ir.OpcodeI64Const)
		buf.S64(v)
	case api.ValueTypeF32:
		v, ok := c.Value.(float32)
		if !ok {
			return errf(UnsupportedConstType, where, "f32.const value is %T, want float32", c.Value)
		}
		buf.U8(ir.OpcodeF32Const)
		buf.F32(v)
	case api.ValueTypeF64:
		v, ok := c.Value.(float64)
		if !ok {
			return errf(UnsupportedConstType, where, "f64.const value is %T, want float64", c.Value)
		}
		buf.U8(ir.OpcodeF64Const)
		buf.F64(v)
	default:
		return errf(UnsupportedConstType, where, "const of unsupported value type 0x%x", c.ValueType)
	}
	return nil
}

func emitMemOp(buf *leb128.Buffer, ctx *context, m *ir.MemOp, where string) error {
	switch m.Op {
	case "memory.size":
		buf.U8(ir.OpcodeMemorySize)
		buf.U8(0x00)
		return nil
	case "memory.grow":
		if err := emitInstr(buf, ctx, m.Value, where); err != nil {
			return err
		}
		buf.U8(ir.OpcodeMemoryGrow)
		buf.U8(0x00)
		return nil
	case "v128.load":
		if err := emitInstr(buf, ctx, m.Addr, where); err != nil {
			return err
		}
		buf.U8(ir.OpcodeVecPrefix)
		buf.U32(ir.OpcodeVecV128Load)
		buf.U32(m.MemArg.Align)
		buf.U32(m.MemArg.Offset)
		return nil
	case "v128.store":
		if err := emitInstr(buf, ctx, m.Addr, where); err != nil {
			return err
		}
		if err := emitInstr(buf, ctx, m.Value, where); err != nil {
			return err
		}
		buf.U8(ir.OpcodeVecPrefix)
		buf.U32(ir.OpcodeVecV128Store)
		buf.U32(m.MemArg.Align)
		buf.U32(m.MemArg.Offset)
		return nil
	}
	if code, ok := atomicOps[m.Op]; ok {
		return emitAtomicMemOp(buf, ctx, m, code, where)
	}
	if code, ok := scalarMemOps[m.Op]; ok {
		if err := emitInstr(buf, ctx, m.Addr, where); err != nil {
			return err
		}
		if m.Value != nil {
			if err := emitInstr(buf, ctx, m.Value, where); err != nil {
				return err
			}
		}
		buf.U8(code)
		buf.U32(m.MemArg.Align)
		buf.U32(m.MemArg.Offset)
		return nil
	}
	return errf(UnknownOpcode, where, "unknown memory operator %q", m.Op)
}

func emitAtomicMemOp(buf *leb128.Buffer, ctx *context, m *ir.MemOp, code uint32, where string) error {
	if err := emitInstr(buf, ctx, m.Addr, where); err != nil {
		return err
	}
	if m.Value != nil {
		if err := emitInstr(buf, ctx, m.Value, where); err != nil {
			return err
		}
	}
	if m.Operand != nil {
		if err := emitInstr(buf, ctx, m.Operand, where); err != nil {
			return err
		}
	}
	buf.U8(ir.OpcodeAtomicPrefix)
	buf.U32(code)
	buf.U32(m.MemArg.Align)
	buf.U32(m.MemArg.Offset)
	return nil
}

func emitGeneric(buf *leb128.Buffer, ctx *context, g *ir.Generic, where string) error {
	if g.Op == "atomic.fence" {
		buf.U8(ir.OpcodeAtomicPrefix)
		buf.U32(ir.OpcodeAtomicFence)
		buf.U8(0x00)
		return nil
	}
	if g.Op == "i8x16.shuffle" {
		for _, o := range g.Operands {
			if err := emitInstr(buf, ctx, o, where); err != nil {
				return err
			}
		}
		mask, ok := g.Imm.([16]byte)
		if !ok {
			return errf(EncodingOverflow, where, "i8x16.shuffle mask is %T, want [16]byte", g.Imm)
		}
		buf.U8(ir.OpcodeVecPrefix)
		buf.U32(0x0d)
		buf.RawBytes(mask[:])
		return nil
	}
	code, ok := miscOps[g.Op]
	if !ok {
		return errf(UnknownOpcode, where, "unknown operator %q", g.Op)
	}
	for _, o := range g.Operands {
		if err := emitInstr(buf, ctx, o, where); err != nil {
			return err
		}
	}
	buf.U8(ir.OpcodeMiscPrefix)
	buf.U32(uint32(code))
	switch g.Op {
	case "memory.init", "table.init":
		idx, ok := g.Imm.(uint32)
		if !ok {
			return errf(EncodingOverflow, where, "%s segment index is %T, want uint32", g.Op, g.Imm)
		}
		buf.U32(idx)
		buf.U8(0x00)
	case "data.drop", "elem.drop":
		idx, ok := g.Imm.(uint32)
		if !ok {
			return errf(EncodingOverflow, where, "%s segment index is %T, want uint32", g.Op, g.Imm)
		}
		buf.U32(idx)
	case "memory.copy":
		buf.U8(0x00)
		buf.U8(0x00)
	case "table.copy":
		buf.U8(0x00)
		buf.U8(0x00)
	case "memory.fill", "table.grow", "table.size", "table.fill":
		buf.U8(0x00)
	}
	return nil
}

// emitBlockLike emits the opcode, block type, then arm(s) of a block/loop/if, terminated by
// an explicit end opcode (and, for if/else, the intervening else opcode).
func emitBlockLike(buf *leb128.Buffer, ctx *context, op ir.Opcode, label string, results []ir.ValueType, then, els []ir.Node, where string) error {
	buf.U8(op)
	if err := emitBlockType(buf, results, where); err != nil {
		return err
	}
	ctx.pushLabel(label)
	if err := emitBody(buf, ctx, then, fmt.Sprintf("%s/%s", where, label)); err != nil {
		ctx.popLabel()
		return err
	}
	if op == ir.OpcodeIf && len(els) > 0 {
		buf.U8(ir.OpcodeElse)
		if err := emitBody(buf, ctx, els, fmt.Sprintf("%s/%s", where, label)); err != nil {
			ctx.popLabel()
			return err
		}
	}
	ctx.popLabel()
	buf.U8(ir.OpcodeEnd)
	return nil
}

func emitBlockType(buf *leb128.Buffer, results []ir.ValueType, where string) error {
	switch len(results) {
	case 0:
		buf.U8(api.ValueTypeVoid)
	case 1:
		buf.U8(results[0])
	default:
		return errf(EncodingOverflow, where, "multi-value block types are not supported")
	}
	return nil
}

func toParams(types []ir.ValueType) []*ir.Param {
	out := make([]*ir.Param, len(types))
	for i, t := range types {
		out[i] = &ir.Param{Name: fmt.Sprintf("_%d", i), ValueType: t}
	}
	return out
}

func toResults(types []ir.ValueType) []*ir.Result {
	out := make([]*ir.Result, len(types))
	for i, t := range types {
		out[i] = &ir.Result{ValueType: t}
	}
	return out
}
