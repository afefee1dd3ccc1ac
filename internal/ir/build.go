package ir

import "github.com/wazevm/wazevm/api"

// NewModule returns an empty Module ready to have Funcs/Imports/Exports/Globals appended.
func NewModule() *Module {
	return &Module{}
}

// NewFunc returns a Func with the given name and signature; Body is appended by the caller.
func NewFunc(name string, params []*Param, results []*Result) *Func {
	return &Func{Name: name, Params: params, Results: results}
}

// P returns a named parameter of the given value type, for use in NewFunc's params list.
func P(name string, vt ValueType) *Param { return &Param{Name: name, ValueType: vt} }

// R returns a result of the given value type, for use in NewFunc's results list.
func R(vt ValueType) *Result { return &Result{ValueType: vt} }

// L returns a named local of the given value type, for use in Func.Locals.
func L(name string, vt ValueType) *Local { return &Local{Name: name, ValueType: vt} }

// NewImportFunc returns a function import descriptor.
func NewImportFunc(moduleName, fieldName string, params []*Param, results []*Result) *Import {
	return &Import{
		ModuleName: moduleName,
		FieldName:  fieldName,
		Desc:       "func",
		Func:       &Func{Name: fieldName, Params: params, Results: results},
	}
}

// NewExportFunc exposes the function named ref under the external name name.
func NewExportFunc(name, ref string) *Export {
	return &Export{Name: name, Desc: "func", Ref: ref}
}

// NewImportMemory imports the module's linear memory from moduleName.fieldName. Its limits come
// from the importing module's own Memory field, mirroring how a declared memory's limits are
// read -- the IR does not carry separate limits per import site.
func NewImportMemory(moduleName, fieldName string) *Import {
	return &Import{ModuleName: moduleName, FieldName: fieldName, Desc: "memory"}
}

// NewMemory declares the module's linear memory, minPages to maxPages (0 == unbounded) in
// 64KiB pages.
func NewMemory(minPages, maxPages uint32) *Memory {
	return &Memory{MinPages: minPages, MaxPages: maxPages}
}

// NewGlobal declares a module-level global initialized by init.
func NewGlobal(name string, vt ValueType, mutable bool, init Node) *Global {
	return &Global{Name: name, ValueType: vt, Mutable: mutable, Init: init}
}

// NewData declares an active data segment initializing memory at offset.
func NewData(offset uint32, bytes []byte) *Data {
	return &Data{Offset: offset, Bytes: bytes}
}

// NewBlock returns a structured block labeled label, with the given block-type result (0 or 1
// value types) and body.
func NewBlock(label string, results []ValueType, body ...Node) *Block {
	return &Block{Label: label, Results: results, Body: body}
}

// NewLoop returns a structured loop labeled label.
func NewLoop(label string, results []ValueType, body ...Node) *Loop {
	return &Loop{Label: label, Results: results, Body: body}
}

// NewIf returns a structured conditional; els may be nil for an if with no else arm.
func NewIf(label string, results []ValueType, cond Node, then, els []Node) *If {
	return &If{Label: label, Results: results, Cond: cond, Then: then, Else: els}
}

// I32Const, I64Const, F32Const and F64Const return scalar numeric literal nodes.
func I32Const(v int32) *Const   { return &Const{ValueType: api.ValueTypeI32, Value: v} }
func I64Const(v int64) *Const   { return &Const{ValueType: api.ValueTypeI64, Value: v} }
func F32Const(v float32) *Const { return &Const{ValueType: api.ValueTypeF32, Value: v} }
func F64Const(v float64) *Const { return &Const{ValueType: api.ValueTypeF64, Value: v} }

// NewLocalGet, NewLocalSet and NewLocalTee reference a local by name.
func NewLocalGet(name string) *LocalGet { return &LocalGet{Name: name} }
func NewLocalSet(name string, v Node) *LocalSet {
	return &LocalSet{Name: name, Value: v}
}
func NewLocalTee(name string, v Node) *LocalTee {
	return &LocalTee{Name: name, Value: v}
}

// NewGlobalGet and NewGlobalSet reference a module-level global by name.
func NewGlobalGet(name string) *GlobalGet { return &GlobalGet{Name: name} }
func NewGlobalSet(name string, v Node) *GlobalSet {
	return &GlobalSet{Name: name, Value: v}
}

// NewCall invokes the function named name with args.
func NewCall(name string, args ...Node) *Call { return &Call{Name: name, Args: args} }

// NewCallIndirect invokes a table entry matching the given signature.
func NewCallIndirect(typeParams, typeResults []ValueType, index Node, args ...Node) *CallIndirect {
	return &CallIndirect{TypeParams: typeParams, TypeResults: typeResults, Index: index, Args: args}
}

// NewBr, NewBrIf and NewBrTable branch to an enclosing label by name.
func NewBr(label string) *Br { return &Br{Label: label} }
func NewBrIf(label string, cond Node) *BrIf {
	return &BrIf{Label: label, Cond: cond}
}
func NewBrTable(labels []string, def string, index Node) *BrTable {
	return &BrTable{Labels: labels, Default: def, Index: index}
}

// NewDrop, NewReturn and NewSelect build the remaining MVP structural forms.
func NewDrop(v Node) *Drop { return &Drop{Value: v} }
func NewReturn(v Node) *Return {
	return &Return{Value: v}
}
func NewSelect(a, b, cond Node) *Select { return &Select{A: a, B: b, Cond: cond} }

// NewUnreachable and NewNop build the two zero-operand control instructions.
func NewUnreachable() *Unreachable { return &Unreachable{} }
func NewNop() *Nop                 { return &Nop{} }

// NewBinop and NewUnop build a numeric/SIMD operator node named by its canonical text form.
func NewBinop(op string, left, right Node) *Binop { return &Binop{Op: op, Left: left, Right: right} }
func NewUnop(op string, operand Node) *Unop       { return &Unop{Op: op, Operand: operand} }
