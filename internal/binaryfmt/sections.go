package binaryfmt

import (
	"strings"

	"github.com/wazevm/wazevm/api"
	"github.com/wazevm/wazevm/internal/ir"
	"github.com/wazevm/wazevm/internal/leb128"
	"github.com/wazevm/wazevm/internal/wasmdebug"
)

// Canonical section IDs, strictly increasing in the emitted binary per the format's ordering
// rule.
const (
	sectionType     = 1
	sectionImport   = 2
	sectionFunction = 3
	sectionTable    = 4
	sectionMemory   = 5
	sectionGlobal   = 6
	sectionExport   = 7
	sectionStart    = 8
	sectionElement  = 9
	sectionCode     = 10
	sectionData     = 11
)

func buildTypeSection(buf *leb128.Buffer, ctx *context) {
	payload := leb128.NewBuffer()
	payload.Vec(len(ctx.types), func(i int) {
		t := ctx.types[i]
		payload.U8(0x60) // func type tag
		payload.Vec(len(t.params), func(j int) { payload.U8(t.params[j]) })
		payload.Vec(len(t.results), func(j int) { payload.U8(t.results[j]) })
	})
	buf.Section(sectionType, payload.Bytes())
}

func buildImportSection(buf *leb128.Buffer, ctx *context) {
	imports := ctx.module.Imports
	if len(imports) == 0 {
		return
	}
	payload := leb128.NewBuffer()
	payload.Vec(len(imports), func(i int) {
		imp := imports[i]
		payload.Name(imp.ModuleName)
		payload.Name(imp.FieldName)
		switch imp.Desc {
		case "func":
			payload.U8(0x00)
			payload.U32(ctx.funcTypes[imp.Func.Name])
		case "memory":
			payload.U8(0x02)
			encodeLimits(payload, ctx.module.Memory)
		case "global":
			payload.U8(0x03)
			// global imports are not modeled beyond func/memory in this compiler's IR.
		}
	})
	buf.Section(sectionImport, payload.Bytes())
}

func buildFunctionSection(buf *leb128.Buffer, ctx *context) {
	fns := ctx.module.Funcs
	if len(fns) == 0 {
		return
	}
	payload := leb128.NewBuffer()
	payload.Vec(len(fns), func(i int) {
		payload.U32(ctx.funcTypes[fns[i].Name])
	})
	buf.Section(sectionFunction, payload.Bytes())
}

// needsTable reports whether the module contains any call_indirect instruction, which implies
// an implicit funcref table covering every function, imported and defined, in index order.
func needsTable(m *ir.Module) bool {
	var found bool
	var walk func(n ir.Node)
	walk = func(n ir.Node) {
		if found || n == nil {
			return
		}
		if _, ok := n.(*ir.CallIndirect); ok {
			found = true
			return
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	for _, fn := range m.Funcs {
		for _, n := range fn.Body {
			walk(n)
		}
	}
	return found
}

func buildTableSection(buf *leb128.Buffer, ctx *context) {
	if !needsTable(ctx.module) {
		return
	}
	n := uint32(len(ctx.funcIndex))
	payload := leb128.NewBuffer()
	payload.Vec(1, func(int) {
		payload.U8(api.ValueTypeFuncref)
		payload.U8(0x00) // limits: min only
		payload.U32(n)
	})
	buf.Section(sectionTable, payload.Bytes())
}

func buildElementSection(buf *leb128.Buffer, ctx *context) {
	if !needsTable(ctx.module) {
		return
	}
	n := uint32(len(ctx.funcIndex))
	payload := leb128.NewBuffer()
	payload.Vec(1, func(int) {
		payload.U32(0) // table index 0
		payload.U8(ir.OpcodeI32Const)
		payload.S32(0) // offset 0
		payload.U8(ir.OpcodeEnd)
		payload.Vec(int(n), func(i int) { payload.U32(uint32(i)) })
	})
	buf.Section(sectionElement, payload.Bytes())
}

func encodeLimits(payload *leb128.Buffer, mem *ir.Memory) {
	if mem == nil {
		payload.U8(0x00)
		payload.U32(0)
		return
	}
	if mem.MaxPages > 0 {
		payload.U8(0x01)
		payload.U32(mem.MinPages)
		payload.U32(mem.MaxPages)
	} else {
		payload.U8(0x00)
		payload.U32(mem.MinPages)
	}
}

func buildMemorySection(buf *leb128.Buffer, ctx *context) {
	if ctx.module.Memory == nil {
		return
	}
	// an imported memory has no memory-section entry of its own.
	for _, imp := range ctx.module.Imports {
		if imp.Desc == "memory" {
			return
		}
	}
	payload := leb128.NewBuffer()
	payload.Vec(1, func(int) { encodeLimits(payload, ctx.module.Memory) })
	buf.Section(sectionMemory, payload.Bytes())
}

func buildGlobalSection(buf *leb128.Buffer, ctx *context, where string) error {
	globals := ctx.module.Globals
	if len(globals) == 0 {
		return nil
	}
	payload := leb128.NewBuffer()
	var firstErr error
	payload.Vec(len(globals), func(i int) {
		g := globals[i]
		payload.U8(g.ValueType)
		if g.Mutable {
			payload.U8(0x01)
		} else {
			payload.U8(0x00)
		}
		if err := emitInstr(payload, ctx, g.Init, where); err != nil && firstErr == nil {
			firstErr = err
		}
		payload.U8(ir.OpcodeEnd)
	})
	if firstErr != nil {
		return firstErr
	}
	buf.Section(sectionGlobal, payload.Bytes())
	return nil
}

// resolveExports derives the default export set per spec.md §4.4 item 4: every declared func
// whose name does not begin with "$_" is exported under its own name with any leading "$"
// stripped. Explicit ir.Export nodes then override the default entry for the same function (so
// a function can be renamed or re-targeted on export) and augment the list with anything a
// default can't express -- memory/global exports, or a second export name for one function.
func resolveExports(m *ir.Module) []*ir.Export {
	final := make([]*ir.Export, 0, len(m.Funcs)+len(m.Exports))
	defaultIdx := make(map[string]int, len(m.Funcs))
	for _, fn := range m.Funcs {
		if strings.HasPrefix(fn.Name, "$_") {
			continue
		}
		defaultIdx[fn.Name] = len(final)
		final = append(final, &ir.Export{Name: strings.TrimPrefix(fn.Name, "$"), Desc: "func", Ref: fn.Name})
	}
	for _, e := range m.Exports {
		if e.Desc == "func" {
			if idx, ok := defaultIdx[e.Ref]; ok {
				final[idx] = e
				delete(defaultIdx, e.Ref)
				continue
			}
		}
		final = append(final, e)
	}
	return final
}

func buildExportSection(buf *leb128.Buffer, ctx *context) error {
	exports := resolveExports(ctx.module)
	if len(exports) == 0 {
		return nil
	}
	var firstErr error
	payload := leb128.NewBuffer()
	payload.Vec(len(exports), func(i int) {
		e := exports[i]
		payload.Name(e.Name)
		switch e.Desc {
		case "func":
			idx, ok := ctx.funcIndex[e.Ref]
			if !ok {
				firstErr = errf(UnresolvedName, "export", "export %q references unknown function %q", e.Name, e.Ref)
				return
			}
			payload.U8(0x00)
			payload.U32(idx)
		case "memory":
			payload.U8(0x02)
			payload.U32(0)
		case "global":
			idx, ok := ctx.globalIndex[e.Ref]
			if !ok {
				firstErr = errf(UnresolvedName, "export", "export %q references unknown global %q", e.Name, e.Ref)
				return
			}
			payload.U8(0x03)
			payload.U32(idx)
		}
	})
	if firstErr != nil {
		return firstErr
	}
	buf.Section(sectionExport, payload.Bytes())
	return nil
}

func buildStartSection(buf *leb128.Buffer, ctx *context) error {
	if ctx.module.Start == "" {
		return nil
	}
	idx, ok := ctx.funcIndex[ctx.module.Start]
	if !ok {
		return errf(UnresolvedName, "start", "start function %q not found", ctx.module.Start)
	}
	payload := leb128.NewBuffer()
	payload.U32(idx)
	buf.Section(sectionStart, payload.Bytes())
	return nil
}

func buildCodeSection(buf *leb128.Buffer, ctx *context) error {
	fns := ctx.module.Funcs
	if len(fns) == 0 {
		return nil
	}
	payload := leb128.NewBuffer()
	var firstErr error
	payload.Vec(len(fns), func(i int) {
		fn := fns[i]
		body := leb128.NewBuffer()
		ctx.newFuncScope(fn)
		runs := coalesceLocals(fn.Locals)
		body.Vec(len(runs), func(j int) {
			body.U32(runs[j].count)
			body.U8(runs[j].valueType)
		})
		where := wasmdebug.Signature(fn.Name, paramTypes(fn.Params), resultTypes(fn.Results))
		if err := emitBody(body, ctx, fn.Body, where); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		body.U8(ir.OpcodeEnd)
		payload.U32(uint32(body.Len()))
		payload.RawBytes(body.Bytes())
	})
	if firstErr != nil {
		return firstErr
	}
	buf.Section(sectionCode, payload.Bytes())
	return nil
}

// localRun is one run-length-compressed (count, type) entry in a function body's local
// declaration, per spec.md §4.4 item (a): consecutive locals sharing a type are coalesced into
// one entry rather than written one-by-one.
type localRun struct {
	count     uint32
	valueType ir.ValueType
}

// coalesceLocals groups consecutive locals sharing a value type into runs, preserving fn.Locals'
// order -- which determines each local's numeric index, unaffected by this grouping.
func coalesceLocals(locals []*ir.Local) []localRun {
	var runs []localRun
	for _, l := range locals {
		if n := len(runs); n > 0 && runs[n-1].valueType == l.ValueType {
			runs[n-1].count++
			continue
		}
		runs = append(runs, localRun{count: 1, valueType: l.ValueType})
	}
	return runs
}

func buildDataSection(buf *leb128.Buffer, ctx *context) {
	data := ctx.module.Data
	if len(data) == 0 {
		return
	}
	payload := leb128.NewBuffer()
	payload.Vec(len(data), func(i int) {
		d := data[i]
		payload.U32(0) // memory index 0
		payload.U8(ir.OpcodeI32Const)
		payload.S32(int32(d.Offset))
		payload.U8(ir.OpcodeEnd)
		payload.Vec(len(d.Bytes), func(j int) { payload.U8(d.Bytes[j]) })
	})
	buf.Section(sectionData, payload.Bytes())
}
