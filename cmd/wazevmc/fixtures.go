package main

import (
	"github.com/wazevm/wazevm/api"
	"github.com/wazevm/wazevm/internal/ir"
)

// fixtures maps a -fixture flag value to a builder for one of the spec's worked scenarios, kept
// here rather than read from a file since this compiler takes IR trees as input, not source
// text.
var fixtures = map[string]func() *ir.Module{
	"add":       buildAddModule,
	"factorial": buildFactorialModule,
	"vecadd":    buildVecAddModule,
}

func buildAddModule() *ir.Module {
	fn := ir.NewFunc("add", []*ir.Param{ir.P("a", api.ValueTypeI32), ir.P("b", api.ValueTypeI32)}, []*ir.Result{ir.R(api.ValueTypeI32)})
	fn.Body = []ir.Node{ir.NewReturn(ir.NewBinop("i32.add", ir.NewLocalGet("a"), ir.NewLocalGet("b")))}

	m := ir.NewModule()
	m.Funcs = append(m.Funcs, fn)
	m.Exports = append(m.Exports, ir.NewExportFunc("add", "add"))
	return m
}

func buildFactorialModule() *ir.Module {
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
	return m
}

// buildVecAddModule builds the spec's "SIMD i32x4 add" scenario: a module that imports
// env.memory and exports vec_add(a_off, b_off, out_off), which loads two v128s from memory,
// adds them lanewise, and stores the result back to memory.
func buildVecAddModule() *ir.Module {
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
