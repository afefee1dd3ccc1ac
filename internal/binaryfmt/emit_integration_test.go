package binaryfmt

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/bytecodealliance/wasmtime-go"
	"github.com/stretchr/testify/require"
	wasmer "github.com/wasmerio/wasmer-go/wasmer"
	"github.com/wazevm/wazevm/api"
	"github.com/wazevm/wazevm/internal/ir"
	"github.com/wazevm/wazevm/internal/optimize"
	"github.com/wazevm/wazevm/internal/vectorize"
)

// TestEmitAddRunsOnWasmtimeAndWasmer cross-checks the "simple add" scenario against two
// independent engines: if wasmtime-go and wasmer-go both accept and run the emitted binary
// identically, the bytes are faithful to the binary format, not merely accepted by one engine's
// particular leniency.
func TestEmitAddRunsOnWasmtimeAndWasmer(t *testing.T) {
	bin, err := Emit(addModule())
	require.NoError(t, err)

	require.Equal(t, int32(30), callI32I32ToI32Wasmtime(t, bin, "add", 10, 20))
	require.Equal(t, int32(30), callI32I32ToI32Wasmer(t, bin, "add", 10, 20))
}

func TestEmitFactorialRunsOnWasmtime(t *testing.T) {
	fn := ir.NewFunc("fact", []*ir.Param{ir.P("n", api.ValueTypeI32)}, []*ir.Result{ir.R(api.ValueTypeI32)})
	fn.Locals = []*ir.Local{ir.L("acc", api.ValueTypeI32)}
	fn.Body = []ir.Node{
		ir.NewLocalSet("acc", ir.I32Const(1)),
		ir.NewBlock("exit", nil,
			ir.NewLoop("loop", nil,
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

	require.Equal(t, int32(120), callI32ToI32Wasmtime(t, bin, "fact", 5))
}

// vecAddModule builds the spec's "SIMD i32x4 add" scenario: a module that imports env.memory
// and exports vec_add(a_off, b_off, out_off), which loads two v128s from memory, adds them
// lanewise, and stores the result back to memory.
func vecAddModule() *ir.Module {
	fn := ir.NewFunc("vec_add", []*ir.Param{
		ir.P("a_off", api.ValueTypeI32),
		ir.P("b_off", api.ValueTypeI32),
		ir.P("out_off", api.ValueTypeI32),
	}, nil)
	fn.Body = []ir.Node{
		ir.NewV128Store(
			ir.NewLocalGet("out_off"),
			ir.NewVecBinop("i32x4.add",
				ir.NewV128Load(ir.NewLocalGet("a_off")),
				ir.NewV128Load(ir.NewLocalGet("b_off")),
			),
		),
	}

	m := ir.NewModule()
	m.Memory = ir.NewMemory(1, 0)
	m.Imports = append(m.Imports, ir.NewImportMemory("env", "memory"))
	m.Funcs = append(m.Funcs, fn)
	m.Exports = append(m.Exports, ir.NewExportFunc("vec_add", "vec_add"))
	return m
}

// TestEmitVecAddRunsOnWasmtime exercises the memory-import path end to end: an imported (unshared)
// linear memory, the Memory section's omission in favor of the Import section's memory
// descriptor, and v128.load/v128.store's memarg encoding. Memory bytes 0..15 hold one i32x4
// lane group, 16..31 hold a second; calling vec_add(0, 16, 32) must leave their lanewise sum at
// 32..47.
func TestEmitVecAddRunsOnWasmtime(t *testing.T) {
	bin, err := Emit(vecAddModule())
	require.NoError(t, err)

	engine := wasmtime.NewEngine()
	module, err := wasmtime.NewModule(engine, bin)
	require.NoError(t, err)
	store := wasmtime.NewStore(engine)

	memType := wasmtime.NewMemoryType(1, false, 0)
	mem, err := wasmtime.NewMemory(store, memType)
	require.NoError(t, err)

	instance, err := wasmtime.NewInstance(store, module, []wasmtime.AsExtern{mem})
	require.NoError(t, err)

	data := mem.UnsafeData(store)
	putI32 := func(off int, v int32) { binary.LittleEndian.PutUint32(data[off:], uint32(v)) }
	putI32(0, 10)
	putI32(4, 20)
	putI32(8, 30)
	putI32(12, 40)
	putI32(16, 1)
	putI32(20, 2)
	putI32(24, 3)
	putI32(28, 4)

	fn := instance.GetExport(store, "vec_add").Func()
	require.NotNil(t, fn)
	_, err = fn.Call(store, int32(0), int32(16), int32(32))
	require.NoError(t, err)

	data = mem.UnsafeData(store)
	getI32 := func(off int) int32 { return int32(binary.LittleEndian.Uint32(data[off:])) }
	require.Equal(t, int32(11), getI32(32))
	require.Equal(t, int32(22), getI32(36))
	require.Equal(t, int32(33), getI32(40))
	require.Equal(t, int32(44), getI32(44))
}

// addOneScalarFunc builds the canonical counted loop the vectorizer and unroller are both meant
// to recognize: for i from 0 up to count, mem[base+4i] = mem[base+4i] + 1.0, incrementing i by the
// canonical local.set i (i32.add (local.get i) (i32.const 1)) shape recognizeCountedLoop and
// adjustStrideBody both key off of.
func addOneScalarFunc() *ir.Func {
	fn := ir.NewFunc("add_one", []*ir.Param{
		ir.P("base", api.ValueTypeI32),
		ir.P("count", api.ValueTypeI32),
	}, nil)
	fn.Locals = []*ir.Local{ir.L("i", api.ValueTypeI32)}
	addr := ir.NewBinop("i32.add", ir.NewLocalGet("base"), ir.NewBinop("i32.mul", ir.NewLocalGet("i"), ir.I32Const(4)))
	fn.Body = []ir.Node{
		ir.NewLocalSet("i", ir.I32Const(0)),
		ir.NewBlock("exit", nil,
			ir.NewLoop("loop", nil,
				ir.NewBrIf("exit", ir.NewBinop("i32.eq", ir.NewLocalGet("i"), ir.NewLocalGet("count"))),
				ir.NewStore("f32.store", 2, addr, ir.NewBinop("f32.add", ir.NewLoad("f32.load", 2, addr), ir.F32Const(1.0))),
				ir.NewLocalSet("i", ir.NewBinop("i32.add", ir.NewLocalGet("i"), ir.I32Const(1))),
				ir.NewBr("loop"),
			),
		),
	}
	return fn
}

// TestVectorizeAndUnrollCooperateOnAddOneLoop exercises the full scenario-6 pipeline:
// auto-vectorize the scalar add-one-per-element loop to f32x4, optimize it at level 3 (which
// unrolls the now-widened loop 4x), emit the result, and run it over 655360 floats on wasmtime.
// Calling the kernel 100 times must leave 100.0 at every element, the same answer the
// unvectorized scalar loop would produce -- proving the vectorizer's stride rewrite and the
// unroller's own stride-aware duplication agree on how far one physical loop iteration advances.
func TestVectorizeAndUnrollCooperateOnAddOneLoop(t *testing.T) {
	const count = 655360
	const pages = count * 4 / (64 * 1024) // 655360 f32s is exactly 40 64KiB pages

	simdFn, width, ok := vectorize.AutoVectorize(addOneScalarFunc(), vectorize.Options{TargetType: api.ValueTypeF32})
	require.True(t, ok, "host engine must support SIMD to run this scenario")
	require.Equal(t, 4, width)

	optimized := optimize.Optimize(simdFn, optimize.Options{Level: 3, UnrollFactor: 4}).(*ir.Func)

	m := ir.NewModule()
	m.Memory = ir.NewMemory(pages, 0)
	m.Funcs = append(m.Funcs, optimized)
	m.Exports = append(m.Exports,
		ir.NewExportFunc("add_one", optimized.Name),
		&ir.Export{Name: "memory", Desc: "memory"},
	)

	bin, err := Emit(m)
	require.NoError(t, err)

	engine := wasmtime.NewEngine()
	module, err := wasmtime.NewModule(engine, bin)
	require.NoError(t, err)
	store := wasmtime.NewStore(engine)
	instance, err := wasmtime.NewInstance(store, module, nil)
	require.NoError(t, err)

	mem := instance.GetExport(store, "memory").Memory()
	require.NotNil(t, mem)
	data := mem.UnsafeData(store)
	for i := 0; i < count; i++ {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(0))
	}

	fn := instance.GetExport(store, "add_one").Func()
	require.NotNil(t, fn)
	for i := 0; i < 100; i++ {
		_, err = fn.Call(store, int32(0), int32(count))
		require.NoError(t, err)
	}

	data = mem.UnsafeData(store)
	getF32 := func(idx int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(data[idx*4:])) }
	require.Equal(t, float32(100.0), getF32(0))
	require.Equal(t, float32(100.0), getF32(count-1))
}

func callI32I32ToI32Wasmtime(t *testing.T, bin []byte, name string, a, b int32) int32 {
	t.Helper()
	engine := wasmtime.NewEngine()
	module, err := wasmtime.NewModule(engine, bin)
	require.NoError(t, err)
	store := wasmtime.NewStore(engine)
	instance, err := wasmtime.NewInstance(store, module, nil)
	require.NoError(t, err)
	fn := instance.GetExport(store, name).Func()
	require.NotNil(t, fn)
	result, err := fn.Call(store, a, b)
	require.NoError(t, err)
	return result.(int32)
}

func callI32ToI32Wasmtime(t *testing.T, bin []byte, name string, a int32) int32 {
	t.Helper()
	engine := wasmtime.NewEngine()
	module, err := wasmtime.NewModule(engine, bin)
	require.NoError(t, err)
	store := wasmtime.NewStore(engine)
	instance, err := wasmtime.NewInstance(store, module, nil)
	require.NoError(t, err)
	fn := instance.GetExport(store, name).Func()
	require.NotNil(t, fn)
	result, err := fn.Call(store, a)
	require.NoError(t, err)
	return result.(int32)
}

func callI32I32ToI32Wasmer(t *testing.T, bin []byte, name string, a, b int32) int32 {
	t.Helper()
	engine := wasmer.NewEngine()
	store := wasmer.NewStore(engine)
	module, err := wasmer.NewModule(store, bin)
	require.NoError(t, err)
	instance, err := wasmer.NewInstance(module, wasmer.NewImportObject())
	require.NoError(t, err)
	fn, err := instance.Exports.GetFunction(name)
	require.NoError(t, err)
	result, err := fn(a, b)
	require.NoError(t, err)
	return result.(int32)
}
