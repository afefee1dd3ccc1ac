package binaryfmt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wazevm/wazevm/api"
	"github.com/wazevm/wazevm/internal/ir"
	"github.com/wazevm/wazevm/internal/leb128"
)

func addModule() *ir.Module {
	fn := ir.NewFunc("add", []*ir.Param{ir.P("a", api.ValueTypeI32), ir.P("b", api.ValueTypeI32)}, []*ir.Result{ir.R(api.ValueTypeI32)})
	fn.Body = []ir.Node{ir.NewReturn(ir.NewBinop("i32.add", ir.NewLocalGet("a"), ir.NewLocalGet("b")))}
	m := ir.NewModule()
	m.Funcs = append(m.Funcs, fn)
	m.Exports = append(m.Exports, ir.NewExportFunc("add", "add"))
	return m
}

func TestEmitHeaderAndMagic(t *testing.T) {
	bin, err := Emit(addModule())
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x61, 0x73, 0x6d}, bin[:4])
	require.Equal(t, []byte{0x01, 0x00, 0x00, 0x00}, bin[4:8])
}

func TestEmitIsDeterministic(t *testing.T) {
	m := addModule()
	a, err := Emit(m)
	require.NoError(t, err)
	b, err := Emit(m)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestEmitSectionIDsStrictlyIncreasing(t *testing.T) {
	bin, err := Emit(addModule())
	require.NoError(t, err)

	var lastID int = -1
	off := 8
	for off < len(bin) {
		id := int(bin[off])
		off++
		n, size, err := leb128.LoadUint32(bin[off:])
		require.NoError(t, err)
		off += int(size)
		require.Greater(t, id, lastID, "section IDs must strictly increase")
		lastID = id
		off += int(n)
	}
}

func TestEmitUnknownOperatorFails(t *testing.T) {
	fn := ir.NewFunc("bad", nil, []*ir.Result{ir.R(api.ValueTypeI32)})
	fn.Body = []ir.Node{ir.NewReturn(ir.NewBinop("i32.frobnicate", ir.I32Const(1), ir.I32Const(2)))}
	m := ir.NewModule()
	m.Funcs = append(m.Funcs, fn)

	_, err := Emit(m)
	require.Error(t, err)
	var binErr *Error
	require.ErrorAs(t, err, &binErr)
	require.Equal(t, UnknownOpcode, binErr.Reason)
}

func TestEmitUnresolvedLocalFails(t *testing.T) {
	fn := ir.NewFunc("bad", nil, []*ir.Result{ir.R(api.ValueTypeI32)})
	fn.Body = []ir.Node{ir.NewReturn(ir.NewLocalGet("nope"))}
	m := ir.NewModule()
	m.Funcs = append(m.Funcs, fn)

	_, err := Emit(m)
	require.Error(t, err)
	var binErr *Error
	require.ErrorAs(t, err, &binErr)
	require.Equal(t, UnresolvedName, binErr.Reason)
}

func TestCoalesceLocalsRunLengthCompresses(t *testing.T) {
	locals := []*ir.Local{
		ir.L("i", api.ValueTypeI32),
		ir.L("j", api.ValueTypeI32),
		ir.L("x", api.ValueTypeF32),
		ir.L("k", api.ValueTypeI32),
	}
	runs := coalesceLocals(locals)
	require.Equal(t, []localRun{
		{count: 2, valueType: api.ValueTypeI32},
		{count: 1, valueType: api.ValueTypeF32},
		{count: 1, valueType: api.ValueTypeI32},
	}, runs)
}

func TestEmitFactorialLoop(t *testing.T) {
	fn := ir.NewFunc("fact", []*ir.Param{ir.P("n", api.ValueTypeI32)}, []*ir.Result{ir.R(api.ValueTypeI32)})
	fn.Locals = []*ir.Local{ir.L("acc", api.ValueTypeI32)}
	fn.Body = []ir.Node{
		ir.NewLocalSet("acc", ir.I32Const(1)),
		ir.NewBlock("exit", nil,
			ir.NewLoop("loop",
				nil,
				ir.NewBrIf("exit", ir.NewBinop("i32.eq", ir.NewLocalGet("n"), ir.I32Const(0))),
				ir.NewLocalSet("acc", ir.NewBinop("i32.mul", ir.NewLocalGet("acc"), ir.NewLocalGet("n"))),
				ir.NewLocalSet("n", ir.NewBinop("i32.sub", ir.NewLocalGet("n"), ir.I32Const(1))),
				ir.NewBr("loop"),
			),
		),
		ir.NewReturn(ir.NewLocalGet("acc")),
	}
	m := ir.NewModule()
	m.Funcs = append(m.Funcs, fn)
	m.Exports = append(m.Exports, ir.NewExportFunc("fact", "fact"))

	bin, err := Emit(m)
	require.NoError(t, err)
	require.NotEmpty(t, bin)
}

// TestEmitIfWithElseArm and TestEmitIfWithoutElseArm guard emitBlockLike's "has an else arm"
// check: a nil Else must not emit the 0x05 else opcode at all, and a populated Else must emit
// it immediately before the else arm's instructions.
func TestEmitIfWithElseArm(t *testing.T) {
	fn := ir.NewFunc("pick", []*ir.Param{ir.P("c", api.ValueTypeI32)}, []*ir.Result{ir.R(api.ValueTypeI32)})
	fn.Body = []ir.Node{
		ir.NewReturn(ir.NewIf("arm", []ir.ValueType{api.ValueTypeI32}, ir.NewLocalGet("c"),
			[]ir.Node{ir.I32Const(1)},
			[]ir.Node{ir.I32Const(0)},
		)),
	}
	m := ir.NewModule()
	m.Funcs = append(m.Funcs, fn)
	m.Exports = append(m.Exports, ir.NewExportFunc("pick", "pick"))

	bin, err := Emit(m)
	require.NoError(t, err)
	require.True(t, bytes.Contains(bin, []byte{byte(ir.OpcodeIf)}))
	require.True(t, bytes.Contains(bin, []byte{byte(ir.OpcodeI32Const), 0x01, byte(ir.OpcodeElse), byte(ir.OpcodeI32Const), 0x00, byte(ir.OpcodeEnd)}))
}

func TestEmitIfWithoutElseArm(t *testing.T) {
	fn := ir.NewFunc("pick", []*ir.Param{ir.P("c", api.ValueTypeI32)}, nil)
	fn.Body = []ir.Node{
		ir.NewIf("arm", nil, ir.NewLocalGet("c"), []ir.Node{ir.NewDrop(ir.I32Const(1))}, nil),
	}
	m := ir.NewModule()
	m.Funcs = append(m.Funcs, fn)
	m.Exports = append(m.Exports, ir.NewExportFunc("pick", "pick"))

	bin, err := Emit(m)
	require.NoError(t, err)
	// the then arm's drop is followed directly by the if's end, with no else opcode between them.
	require.True(t, bytes.Contains(bin, []byte{byte(ir.OpcodeIf), api.ValueTypeVoid, byte(ir.OpcodeI32Const), 0x01, byte(ir.OpcodeDrop), byte(ir.OpcodeEnd)}))
}

// TestEmitIfWithEmptyNonNilElseArm is the regression this review comment identified: a rewrite
// pass (rewriteBody/dceBody/unrollBody) can hand back a non-nil, zero-length Else slice, which
// must be treated the same as a nil Else -- no 0x05 else opcode.
func TestEmitIfWithEmptyNonNilElseArm(t *testing.T) {
	fn := ir.NewFunc("pick", []*ir.Param{ir.P("c", api.ValueTypeI32)}, nil)
	fn.Body = []ir.Node{
		ir.NewIf("arm", nil, ir.NewLocalGet("c"), []ir.Node{ir.NewDrop(ir.I32Const(1))}, []ir.Node{}),
	}
	m := ir.NewModule()
	m.Funcs = append(m.Funcs, fn)
	m.Exports = append(m.Exports, ir.NewExportFunc("pick", "pick"))

	bin, err := Emit(m)
	require.NoError(t, err)
	// the then arm's drop is followed directly by the if's end, with no else opcode between them.
	require.True(t, bytes.Contains(bin, []byte{byte(ir.OpcodeIf), api.ValueTypeVoid, byte(ir.OpcodeI32Const), 0x01, byte(ir.OpcodeDrop), byte(ir.OpcodeEnd)}))
}

// TestEmitMemoryInitAndDataDrop exercises the bulk-memory emitGeneric path for memory.init and
// data.drop, neither of which any test previously drove through Emit.
func TestEmitMemoryInitAndDataDrop(t *testing.T) {
	fn := ir.NewFunc("init", nil, nil)
	fn.Body = []ir.Node{
		ir.NewMemoryInit(0, ir.I32Const(0), ir.I32Const(0), ir.I32Const(4)),
		ir.NewDataDrop(0),
	}
	m := ir.NewModule()
	m.Memory = ir.NewMemory(1, 0)
	m.Data = append(m.Data, ir.NewData(0, []byte{1, 2, 3, 4}))
	m.Funcs = append(m.Funcs, fn)

	bin, err := Emit(m)
	require.NoError(t, err)
	require.True(t, bytes.Contains(bin, []byte{byte(ir.OpcodeMiscPrefix), byte(ir.OpcodeMiscMemoryInit)}))
	require.True(t, bytes.Contains(bin, []byte{byte(ir.OpcodeMiscPrefix), byte(ir.OpcodeMiscDataDrop)}))
}

// TestEmitMemoryCopyAndAtomicFence exercises emitGeneric's memory.copy path and
// emitAtomicMemOp's standalone-fence path (atomic.fence takes no operands and no memarg).
func TestEmitMemoryCopyAndAtomicFence(t *testing.T) {
	fn := ir.NewFunc("copy", nil, nil)
	fn.Body = []ir.Node{
		ir.NewMemoryCopy(ir.I32Const(0), ir.I32Const(8), ir.I32Const(4)),
		ir.NewAtomicFence(),
	}
	m := ir.NewModule()
	m.Memory = ir.NewMemory(1, 0)
	m.Funcs = append(m.Funcs, fn)

	bin, err := Emit(m)
	require.NoError(t, err)
	require.True(t, bytes.Contains(bin, []byte{byte(ir.OpcodeMiscPrefix), byte(ir.OpcodeMiscMemoryCopy)}))
	require.True(t, bytes.Contains(bin, []byte{byte(ir.OpcodeAtomicPrefix), byte(ir.OpcodeAtomicFence)}))
}

// TestEmitShuffleExtractLaneAndReplaceLane exercises the i8x16.shuffle fixed-mask encoding and
// the extract_lane/replace_lane index-immediate encoding.
func TestEmitShuffleExtractLaneAndReplaceLane(t *testing.T) {
	fn := ir.NewFunc("lanes", nil, []*ir.Result{ir.R(api.ValueTypeI32)})
	mask := [16]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	v := ir.NewV128Const([16]byte{})
	fn.Body = []ir.Node{
		ir.NewDrop(ir.NewShuffle(v, v, mask)),
		ir.NewDrop(ir.NewReplaceLane("i32x4.replace_lane", v, 2, ir.I32Const(7))),
		ir.NewReturn(ir.NewExtractLane("i32x4.extract_lane", v, 0)),
	}
	m := ir.NewModule()
	m.Funcs = append(m.Funcs, fn)

	bin, err := Emit(m)
	require.NoError(t, err)
	require.True(t, bytes.Contains(bin, mask[:]))
}

// TestEmitVecUnop exercises emitOperator's vecOps path for a unary SIMD operator, distinct from
// the binary i32x4.add path every other SIMD test uses.
func TestEmitVecUnop(t *testing.T) {
	fn := ir.NewFunc("inv", nil, []*ir.Result{ir.R(api.ValueTypeI32)})
	fn.Body = []ir.Node{
		ir.NewDrop(ir.NewVecUnop("v128.not", ir.NewV128Const([16]byte{}))),
		ir.NewReturn(ir.I32Const(0)),
	}
	m := ir.NewModule()
	m.Funcs = append(m.Funcs, fn)

	bin, err := Emit(m)
	require.NoError(t, err)
	require.True(t, bytes.Contains(bin, []byte{byte(ir.OpcodeVecPrefix), byte(ir.OpcodeVecV128Not)}))
}
