// Package vectorize rewrites a scalar i32/f32 function's arithmetic over natural-width loads and
// stores into its fixed-width 128-bit SIMD equivalent. The rewrite is shallow and non-proving: it
// matches a fixed set of syntactic shapes bottom-up and never attempts to establish memory
// independence, alignment safety, or trip-count divisibility by proof. A shape it doesn't
// recognize is left exactly as it was.
package vectorize

import (
	"github.com/wazevm/wazevm/api"
	"github.com/wazevm/wazevm/internal/feature"
	"github.com/wazevm/wazevm/internal/ir"
)

// Options configures AutoVectorize. TargetType selects which scalar family ("i32" or "f32") the
// rewrite looks for; the zero value defaults to f32, per spec.md §4.6.
type Options struct {
	TargetType ir.ValueType
}

// laneWidth is the number of scalar elements folded into a single v128 lane group; it also
// drives the stride heuristic (a loop-increment constant of 1 becomes laneWidth once its body
// has been vectorized).
const laneWidth = 4

// i32Binops covers the i32 arithmetic and bitwise operators mapped when targetType is i32.
// Bitwise ops rewrite to the type-agnostic v128.and/or/xor, since bits have no lane width of
// their own.
var i32Binops = map[string]string{
	"i32.add": "i32x4.add", "i32.sub": "i32x4.sub", "i32.mul": "i32x4.mul",
	"i32.and": "v128.and", "i32.or": "v128.or", "i32.xor": "v128.xor",
}

// i32Unops covers the i32 unary bitwise operator mapped when targetType is i32.
var i32Unops = map[string]string{
	"i32.not": "v128.not",
}

// f32Binops covers the f32 arithmetic operators mapped when targetType is f32.
var f32Binops = map[string]string{
	"f32.add": "f32x4.add", "f32.sub": "f32x4.sub", "f32.mul": "f32x4.mul",
	"f32.div": "f32x4.div", "f32.min": "f32x4.min", "f32.max": "f32x4.max",
}

// vecSplat maps a rewritten vector operator to the splat form that broadcasts a surviving scalar
// constant operand across its lanes.
var vecSplat = map[string]string{
	"i32x4.add": "i32x4.splat", "i32x4.sub": "i32x4.splat", "i32x4.mul": "i32x4.splat",
	"v128.and": "i32x4.splat", "v128.or": "i32x4.splat", "v128.xor": "i32x4.splat", "v128.not": "i32x4.splat",
	"f32x4.add": "f32x4.splat", "f32x4.sub": "f32x4.splat", "f32x4.mul": "f32x4.splat",
	"f32x4.div": "f32x4.splat", "f32x4.min": "f32x4.splat", "f32x4.max": "f32x4.splat",
}

// rules bundles the target-type-specific lookup tables threaded through the recursive rewrite.
type rules struct {
	binops  map[string]string
	unops   map[string]string
	loadOp  string
	storeOp string
}

func rulesForTarget(t ir.ValueType) rules {
	if t == api.ValueTypeI32 {
		return rules{binops: i32Binops, unops: i32Unops, loadOp: "i32.load", storeOp: "i32.store"}
	}
	return rules{binops: f32Binops, loadOp: "f32.load", storeOp: "f32.store"}
}

// AutoVectorize rewrites fn's body to use 128-bit SIMD in place of the scalar operations of
// opts.TargetType (default f32), returning a new function with "_simd" appended to its name, the
// lane width it rewrote to, and success true. If the host engine lacks v128 support, or fn's body
// contains no load/store or other mapped operation of the target type, fn is returned unchanged
// with width=1 and success=false -- vectorization never fails outright, it simply declines.
func AutoVectorize(fn *ir.Func, opts Options) (*ir.Func, int, bool) {
	if !feature.SimdSupported() {
		return fn, 1, false
	}
	return autoVectorize(fn, opts)
}

// autoVectorize is the feature-gate-free rewrite AutoVectorize applies once SIMD support is
// confirmed; split out so the rewrite rules themselves are exercised directly in tests without
// depending on the host engine's actual SIMD support.
func autoVectorize(fn *ir.Func, opts Options) (*ir.Func, int, bool) {
	targetType := opts.TargetType
	if targetType == 0 {
		targetType = api.ValueTypeF32
	}
	r := rulesForTarget(targetType)

	body, changed := vectorizeBody(fn.Body, r)
	if !changed {
		return fn, 1, false
	}
	// widening the memory-access stride from 1 element to laneWidth elements is only sound once
	// the loop's own work has been rewritten to consume laneWidth elements per pass, so the
	// stride rewrite runs as a second pass over the already-vectorized body.
	body = adjustStrideBody(body)

	nf := *fn
	nf.Name = fn.Name + "_simd"
	nf.Body = body
	return &nf, laneWidth, true
}

func vectorizeBody(body []ir.Node, r rules) ([]ir.Node, bool) {
	changed := false
	out := make([]ir.Node, len(body))
	for i, n := range body {
		rn, ch := vectorizeNode(n, r)
		if ch {
			changed = true
		}
		out[i] = rn
	}
	if !changed {
		return body, false
	}
	return out, true
}

// vectorizeNode recurses bottom-up, first descending into structural containers and operand
// subtrees, then attempting to rewrite the current node once its children are already in their
// final (possibly vectorized) form.
func vectorizeNode(n ir.Node, r rules) (ir.Node, bool) {
	switch v := n.(type) {
	case *ir.Block:
		body, ch := vectorizeBody(v.Body, r)
		if !ch {
			return n, false
		}
		return &ir.Block{Label: v.Label, Results: v.Results, Body: body}, true
	case *ir.Loop:
		body, ch := vectorizeBody(v.Body, r)
		if !ch {
			return n, false
		}
		return &ir.Loop{Label: v.Label, Results: v.Results, Body: body}, true
	case *ir.If:
		then, ch1 := vectorizeBody(v.Then, r)
		els, ch2 := vectorizeBody(v.Else, r)
		if !ch1 && !ch2 {
			return n, false
		}
		return &ir.If{Label: v.Label, Results: v.Results, Cond: v.Cond, Then: then, Else: els}, true
	case *ir.LocalSet:
		val, ch := vectorizeNode(v.Value, r)
		if !ch {
			return n, false
		}
		return &ir.LocalSet{Name: v.Name, Value: val}, true
	case *ir.MemOp:
		return vectorizeMemOp(v, r)
	case *ir.Binop:
		return vectorizeBinop(v, r)
	case *ir.Unop:
		return vectorizeUnop(v, r)
	default:
		return n, false
	}
}

// vectorizeMemOp widens a natural-width load or store of the target scalar type to its v128
// equivalent. Alignment policy per spec.md §4.6: a packed (align=0, byte-aligned) scalar access
// stays packed; anything else is widened to the 16-byte-aligned encoding.
func vectorizeMemOp(m *ir.MemOp, r rules) (ir.Node, bool) {
	switch m.Op {
	case r.loadOp:
		return &ir.MemOp{Op: "v128.load", MemArg: ir.MemArg{Align: simdAlign(m.MemArg.Align), Offset: m.MemArg.Offset}, Addr: m.Addr}, true
	case r.storeOp:
		val, ch := vectorizeNode(m.Value, r)
		if !ch {
			// storing a value that wasn't itself widened -- not eligible.
			return m, false
		}
		return &ir.MemOp{Op: "v128.store", MemArg: ir.MemArg{Align: simdAlign(m.MemArg.Align), Offset: m.MemArg.Offset}, Addr: m.Addr, Value: val}, true
	}
	return m, false
}

func simdAlign(scalarAlign uint32) uint32 {
	if scalarAlign == 0 {
		return 0
	}
	return 4
}

// vectorizeBinop rewrites a scalar arithmetic or bitwise node into its SIMD form when at least one
// operand is (or rewrites to) a v128 load; the other operand, if a bare scalar load, a nested
// eligible operator, or a constant, is widened in turn.
func vectorizeBinop(b *ir.Binop, r rules) (ir.Node, bool) {
	vecOp, ok := r.binops[b.Op]
	if !ok {
		return b, false
	}

	left, leftChanged := widenOperand(b.Left, vecOp, r)
	right, rightChanged := widenOperand(b.Right, vecOp, r)
	// a splatted constant on its own does not make the operator vector-valued.
	_, leftConst := b.Left.(*ir.Const)
	_, rightConst := b.Right.(*ir.Const)
	if (!leftChanged || leftConst) && (!rightChanged || rightConst) {
		return b, false
	}
	return &ir.Binop{Op: vecOp, Left: left, Right: right}, true
}

// vectorizeUnop rewrites a scalar bitwise unary node (i32.not) into its type-agnostic v128 form.
func vectorizeUnop(u *ir.Unop, r rules) (ir.Node, bool) {
	vecOp, ok := r.unops[u.Op]
	if !ok {
		return u, false
	}
	operand, ch := widenOperand(u.Operand, vecOp, r)
	if !ch {
		return u, false
	}
	return &ir.Unop{Op: vecOp, Operand: operand}, true
}

// widenOperand converts a single operand into its v128 form: a natural-width load widens to
// v128.load, a nested eligible Binop/Unop widens recursively, and a scalar Const is
// splat-wrapped so it broadcasts across all lanes, using the splat form matching vecOp.
func widenOperand(n ir.Node, vecOp string, r rules) (ir.Node, bool) {
	switch v := n.(type) {
	case *ir.MemOp:
		return vectorizeMemOp(v, r)
	case *ir.Binop:
		return vectorizeBinop(v, r)
	case *ir.Unop:
		return vectorizeUnop(v, r)
	case *ir.Const:
		splatOp, ok := vecSplat[vecOp]
		if !ok {
			return n, false
		}
		return ir.NewSplat(splatOp, v), true
	default:
		return n, false
	}
}

// adjustStrideBody finds statements of the canonical loop-increment form
// local.set idx (i32.add (local.get idx) (i32.const 1)) and rewrites the stride constant from 1
// to laneWidth. It skips the whole body of any loop containing no v128 load/store, but rewrites
// matching statements anywhere else, including outside every loop. This is a heuristic, not a
// dependence analysis: it fires on the syntactic shape alone.
func adjustStrideBody(body []ir.Node) []ir.Node {
	out := make([]ir.Node, len(body))
	for i, n := range body {
		out[i] = adjustStrideNode(n)
	}
	return out
}

func adjustStrideNode(n ir.Node) ir.Node {
	switch v := n.(type) {
	case *ir.Loop:
		if !bodyContainsV128(v.Body) {
			return n
		}
		return &ir.Loop{Label: v.Label, Results: v.Results, Body: adjustStrideBody(v.Body)}
	case *ir.Block:
		return &ir.Block{Label: v.Label, Results: v.Results, Body: adjustStrideBody(v.Body)}
	case *ir.If:
		return &ir.If{Label: v.Label, Results: v.Results, Cond: v.Cond, Then: adjustStrideBody(v.Then), Else: adjustStrideBody(v.Else)}
	case *ir.LocalSet:
		if add, ok := v.Value.(*ir.Binop); ok && add.Op == "i32.add" {
			if lg, ok := add.Left.(*ir.LocalGet); ok && lg.Name == v.Name {
				if c, ok := add.Right.(*ir.Const); ok {
					if one, ok := c.Value.(int32); ok && one == 1 {
						return &ir.LocalSet{Name: v.Name, Value: &ir.Binop{Op: "i32.add", Left: add.Left, Right: ir.I32Const(laneWidth)}}
					}
				}
			}
		}
		return n
	default:
		return n
	}
}

func bodyContainsV128(body []ir.Node) bool {
	for _, n := range body {
		if nodeContainsV128(n) {
			return true
		}
	}
	return false
}

func nodeContainsV128(n ir.Node) bool {
	switch v := n.(type) {
	case *ir.MemOp:
		return v.Op == "v128.load" || v.Op == "v128.store"
	case *ir.Binop:
		return nodeContainsV128(v.Left) || nodeContainsV128(v.Right)
	case *ir.Unop:
		return nodeContainsV128(v.Operand)
	}
	for _, c := range n.Children() {
		if nodeContainsV128(c) {
			return true
		}
	}
	return false
}
