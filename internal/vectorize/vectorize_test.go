package vectorize

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wazevm/wazevm/api"
	"github.com/wazevm/wazevm/internal/ir"
)

func mapKernel() *ir.Func {
	// for (i = 0; i < n; i++) mem[i] = mem[i] + 1.0;
	fn := ir.NewFunc("addk", []*ir.Param{ir.P("n", api.ValueTypeI32)}, nil)
	fn.Locals = []*ir.Local{ir.L("i", api.ValueTypeI32)}
	addr := func() ir.Node { return ir.NewBinop("i32.mul", ir.NewLocalGet("i"), ir.I32Const(4)) }
	fn.Body = []ir.Node{
		ir.NewLocalSet("i", ir.I32Const(0)),
		ir.NewBlock("exit", nil,
			ir.NewLoop("loop", nil,
				ir.NewBrIf("exit", ir.NewBinop("i32.eq", ir.NewLocalGet("i"), ir.NewLocalGet("n"))),
				ir.NewStore("f32.store", 2, addr(), ir.NewBinop("f32.add", ir.NewLoad("f32.load", 2, addr()), ir.F32Const(1.0))),
				ir.NewLocalSet("i", ir.NewBinop("i32.add", ir.NewLocalGet("i"), ir.I32Const(1))),
				ir.NewBr("loop"),
			),
		),
	}
	return fn
}

func TestAutoVectorizeMapKernelAppendsSimdSuffix(t *testing.T) {
	out, width, ok := autoVectorize(mapKernel(), Options{})
	require.True(t, ok)
	require.Equal(t, 4, width)
	require.Equal(t, "addk_simd", out.Name)

	block := out.Body[1].(*ir.Block)
	loop := block.Body[0].(*ir.Loop)

	store := loop.Body[1].(*ir.MemOp)
	require.Equal(t, "v128.store", store.Op)
	add := store.Value.(*ir.Binop)
	require.Equal(t, "f32x4.add", add.Op)
	load := add.Left.(*ir.MemOp)
	require.Equal(t, "v128.load", load.Op)
	splat := add.Right.(*ir.Unop)
	require.Equal(t, "f32x4.splat", splat.Op)

	strideSet := loop.Body[2].(*ir.LocalSet)
	stride := strideSet.Value.(*ir.Binop)
	c := stride.Right.(*ir.Const)
	require.Equal(t, int32(4), c.Value)
}

func TestAutoVectorizeLeavesUnrelatedCodeAlone(t *testing.T) {
	fn := ir.NewFunc("f", nil, []*ir.Result{ir.R(api.ValueTypeI32)})
	fn.Body = []ir.Node{ir.NewReturn(ir.NewBinop("i32.shl", ir.I32Const(1), ir.I32Const(2)))}

	out, width, ok := autoVectorize(fn, Options{})
	require.False(t, ok)
	require.Equal(t, 1, width)
	require.Same(t, fn, out)
}

func TestAutoVectorizeI32BitwiseOps(t *testing.T) {
	// dst[i] = (a[i] & b[i]) | ~c[i]  -- exercises and, or, and not in one pass.
	fn := ir.NewFunc("bits", []*ir.Param{ir.P("p", api.ValueTypeI32)}, nil)
	fn.Body = []ir.Node{
		ir.NewStore("i32.store", 2, ir.NewLocalGet("p"),
			ir.NewBinop("i32.or",
				ir.NewBinop("i32.and", ir.NewLoad("i32.load", 2, ir.NewLocalGet("p")), ir.NewLoad("i32.load", 2, ir.NewLocalGet("p"))),
				ir.NewUnop("i32.not", ir.NewLoad("i32.load", 2, ir.NewLocalGet("p"))),
			),
		),
	}

	out, width, ok := autoVectorize(fn, Options{TargetType: api.ValueTypeI32})
	require.True(t, ok)
	require.Equal(t, 4, width)

	store := out.Body[0].(*ir.MemOp)
	require.Equal(t, "v128.store", store.Op)
	or := store.Value.(*ir.Binop)
	require.Equal(t, "v128.or", or.Op)
	and := or.Left.(*ir.Binop)
	require.Equal(t, "v128.and", and.Op)
	not := or.Right.(*ir.Unop)
	require.Equal(t, "v128.not", not.Op)
}

func TestAutoVectorizeF32MinMax(t *testing.T) {
	fn := ir.NewFunc("clamp", []*ir.Param{ir.P("p", api.ValueTypeI32)}, nil)
	fn.Body = []ir.Node{
		ir.NewStore("f32.store", 2, ir.NewLocalGet("p"),
			ir.NewBinop("f32.min",
				ir.NewBinop("f32.max", ir.NewLoad("f32.load", 2, ir.NewLocalGet("p")), ir.F32Const(0)),
				ir.F32Const(1),
			),
		),
	}

	out, width, ok := autoVectorize(fn, Options{})
	require.True(t, ok)
	require.Equal(t, 4, width)

	store := out.Body[0].(*ir.MemOp)
	min := store.Value.(*ir.Binop)
	require.Equal(t, "f32x4.min", min.Op)
	max := min.Left.(*ir.Binop)
	require.Equal(t, "f32x4.max", max.Op)
}

func TestAutoVectorizeTargetTypeDefaultsToF32(t *testing.T) {
	fn := mapKernel()
	out, _, ok := autoVectorize(fn, Options{})
	require.True(t, ok)
	require.NotSame(t, fn, out)
}
