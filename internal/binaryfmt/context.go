package binaryfmt

import (
	"github.com/wazevm/wazevm/api"
	"github.com/wazevm/wazevm/internal/ir"
)

// funcType is a deduplicated function signature; sig() is its dedup key.
type funcType struct {
	params  []ir.ValueType
	results []ir.ValueType
}

// sig renders t as a human-readable dedup key -- each side's value types spelled out by
// api.ValueTypeName, "null" standing in for an empty side, and a single "_" separating params
// from results.
func (t funcType) sig() string {
	ret := ""
	for _, p := range t.params {
		ret += api.ValueTypeName(p)
	}
	if len(t.params) == 0 {
		ret += "null"
	}
	ret += "_"
	for _, r := range t.results {
		ret += api.ValueTypeName(r)
	}
	if len(t.results) == 0 {
		ret += "null"
	}
	return ret
}

// context is the emitter's explicit state: everything a naive port would reach for a
// thread-local or a package-level global to hold instead lives here, threaded through every
// emission function as a parameter. There is exactly one context per Emit call.
type context struct {
	module *ir.Module

	// types holds the deduplicated function-type table in first-use order; typeIndex maps a
	// signature key to its position in types.
	types     []funcType
	typeIndex map[string]uint32

	// funcIndex maps a function name to its WebAssembly function index. Imported functions are
	// numbered first, in declaration order, followed by defined functions, in declaration
	// order -- the index-space ordering the binary format requires.
	funcIndex map[string]uint32
	funcTypes map[string]uint32 // function name -> its type index

	globalIndex map[string]uint32

	// current function emission state, reset per function by newFuncScope.
	localIndex map[string]uint32
	labels     []string // enclosing label stack, innermost last
}

func newContext(m *ir.Module) *context {
	c := &context{
		module:      m,
		typeIndex:   map[string]uint32{},
		funcIndex:   map[string]uint32{},
		funcTypes:   map[string]uint32{},
		globalIndex: map[string]uint32{},
	}
	c.buildIndices()
	return c
}

func (c *context) buildIndices() {
	idx := uint32(0)
	for _, imp := range c.module.Imports {
		if imp.Desc != "func" {
			continue
		}
		c.funcIndex[imp.Func.Name] = idx
		c.funcTypes[imp.Func.Name] = c.internType(imp.Func)
		idx++
	}
	for _, fn := range c.module.Funcs {
		c.funcIndex[fn.Name] = idx
		c.funcTypes[fn.Name] = c.internType(fn)
		idx++
	}
	for i, g := range c.module.Globals {
		c.globalIndex[g.Name] = uint32(i)
	}
	c.internCallIndirectTypes()
}

// internCallIndirectTypes walks every function body up front so that a call_indirect
// signature never seen on a declared function or import is still interned before the type
// section is built -- the type section is emitted before the code section, so any type-table
// entry call_indirect needs has to exist by the time buildTypeSection runs.
func (c *context) internCallIndirectTypes() {
	var walk func(n ir.Node)
	walk = func(n ir.Node) {
		if n == nil {
			return
		}
		if ci, ok := n.(*ir.CallIndirect); ok {
			t := funcType{params: ci.TypeParams, results: ci.TypeResults}
			if _, ok := c.typeIndex[t.sig()]; !ok {
				c.internType(&ir.Func{Params: toParams(ci.TypeParams), Results: toResults(ci.TypeResults)})
			}
		}
		for _, child := range n.Children() {
			walk(child)
		}
	}
	for _, fn := range c.module.Funcs {
		for _, n := range fn.Body {
			walk(n)
		}
	}
}

// internType deduplicates fn's signature into the module-wide type table, returning its index.
func (c *context) internType(fn *ir.Func) uint32 {
	t := funcType{params: paramTypes(fn.Params), results: resultTypes(fn.Results)}
	key := t.sig()
	if i, ok := c.typeIndex[key]; ok {
		return i
	}
	i := uint32(len(c.types))
	c.types = append(c.types, t)
	c.typeIndex[key] = i
	return i
}

func paramTypes(params []*ir.Param) []ir.ValueType {
	out := make([]ir.ValueType, len(params))
	for i, p := range params {
		out[i] = p.ValueType
	}
	return out
}

func resultTypes(results []*ir.Result) []ir.ValueType {
	out := make([]ir.ValueType, len(results))
	for i, r := range results {
		out[i] = r.ValueType
	}
	return out
}

// newFuncScope resets the per-function local-index and label state before emitting fn's body.
func (c *context) newFuncScope(fn *ir.Func) {
	c.localIndex = map[string]uint32{}
	idx := uint32(0)
	for _, p := range fn.Params {
		c.localIndex[p.Name] = idx
		idx++
	}
	for _, l := range fn.Locals {
		c.localIndex[l.Name] = idx
		idx++
	}
	c.labels = nil
}

func (c *context) pushLabel(label string) { c.labels = append(c.labels, label) }
func (c *context) popLabel()              { c.labels = c.labels[:len(c.labels)-1] }

// labelDepth returns the branch depth of label relative to the innermost enclosing construct,
// per the binary format's relative-depth branch encoding. Depth 0 is the innermost label.
func (c *context) labelDepth(label string) (uint32, bool) {
	for i := len(c.labels) - 1; i >= 0; i-- {
		if c.labels[i] == label {
			return uint32(len(c.labels) - 1 - i), true
		}
	}
	return 0, false
}
