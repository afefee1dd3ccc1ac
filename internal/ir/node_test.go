package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wazevm/wazevm/api"
)

func TestBuildSimpleAdd(t *testing.T) {
	fn := NewFunc("add", []*Param{P("a", api.ValueTypeI32), P("b", api.ValueTypeI32)}, []*Result{R(api.ValueTypeI32)})
	fn.Body = []Node{
		NewReturn(NewBinop("i32.add", NewLocalGet("a"), NewLocalGet("b"))),
	}

	require.Equal(t, KindFunc, fn.Kind())
	require.Len(t, fn.Children(), 4) // 2 params + 1 result + 0 locals + 1 body stmt

	ret, ok := fn.Body[0].(*Return)
	require.True(t, ok)
	add, ok := ret.Value.(*Binop)
	require.True(t, ok)
	require.Equal(t, "i32.add", add.Op)
	require.Equal(t, KindLocalGet, add.Left.Kind())
}

func TestBuildMemOpDefaults(t *testing.T) {
	load := NewLoad("i32.load", align32, NewLocalGet("ptr"))
	require.Equal(t, uint32(align32), load.MemArg.Align)
	require.Equal(t, uint32(0), load.MemArg.Offset)

	overridden := NewLoad("i32.load", align32, NewLocalGet("ptr"), WithOffset(8), WithAlign(align64))
	require.Equal(t, uint32(align64), overridden.MemArg.Align)
	require.Equal(t, uint32(8), overridden.MemArg.Offset)
}

func TestV128ConstAndSplat(t *testing.T) {
	c := NewV128Const([16]byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0, 4, 0, 0, 0})
	require.Equal(t, KindV128Const, c.Kind())
	require.Nil(t, c.Children())

	splat := NewSplat("i32x4.splat", I32Const(7))
	require.Equal(t, "i32x4.splat", splat.Op)
	require.Len(t, splat.Children(), 1)
}

func TestGenericBulkMemoryOps(t *testing.T) {
	fill := NewMemoryFill(I32Const(0), I32Const(0xff), I32Const(1024))
	require.Equal(t, "memory.fill", fill.Op)
	require.Len(t, fill.Children(), 3)

	drop := NewDataDrop(2)
	require.Equal(t, uint32(2), drop.Imm)
	require.Nil(t, drop.Children())
}
