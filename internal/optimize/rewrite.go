// Package optimize runs a fixed-point pipeline of constant folding, algebraic peephole
// simplification, and structural dead-code elimination over an ir.Node -- a module, a func, or
// any bare node -- followed by an optional loop-unrolling pass. Every pass is purely functional:
// it returns a new tree (sharing unchanged subtrees with its input) rather than mutating nodes in
// place, and none of the passes can fail -- a rewrite rule that doesn't apply simply returns its
// input unchanged.
package optimize

import "github.com/wazevm/wazevm/internal/ir"

// visitor rewrites a single node after its children have already been rewritten. It returns the
// (possibly identical) node to use in the node's place.
type visitor func(ir.Node) ir.Node

// rewriteBody applies visit bottom-up across a flat instruction list, returning a new slice iff
// any element changed.
func rewriteBody(body []ir.Node, visit visitor) ([]ir.Node, bool) {
	changed := false
	out := make([]ir.Node, len(body))
	for i, n := range body {
		rn := rewriteNode(n, visit)
		if rn != n {
			changed = true
		}
		out[i] = rn
	}
	if !changed {
		return body, false
	}
	return out, true
}

// rewriteNode recurses into n's own operand fields (rebuilding n only if a child actually
// changed), then calls visit on the result. This is the one place that needs a type switch over
// every concrete ir.Node variant; every pass in this package is expressed purely in terms of
// visit functions and never needs its own traversal.
func rewriteNode(n ir.Node, visit visitor) ir.Node {
	switch v := n.(type) {
	case *ir.Block:
		body, ch := rewriteBody(v.Body, visit)
		if !ch {
			return visit(n)
		}
		return visit(&ir.Block{Label: v.Label, Results: v.Results, Body: body})
	case *ir.Loop:
		body, ch := rewriteBody(v.Body, visit)
		if !ch {
			return visit(n)
		}
		return visit(&ir.Loop{Label: v.Label, Results: v.Results, Body: body})
	case *ir.If:
		cond := rewriteNode(v.Cond, visit)
		then, ch1 := rewriteBody(v.Then, visit)
		els, ch2 := rewriteBody(v.Else, visit)
		if cond == v.Cond && !ch1 && !ch2 {
			return visit(n)
		}
		return visit(&ir.If{Label: v.Label, Results: v.Results, Cond: cond, Then: then, Else: els})
	case *ir.LocalSet:
		val := rewriteNode(v.Value, visit)
		if val == v.Value {
			return visit(n)
		}
		return visit(&ir.LocalSet{Name: v.Name, Value: val})
	case *ir.LocalTee:
		val := rewriteNode(v.Value, visit)
		if val == v.Value {
			return visit(n)
		}
		return visit(&ir.LocalTee{Name: v.Name, Value: val})
	case *ir.GlobalSet:
		val := rewriteNode(v.Value, visit)
		if val == v.Value {
			return visit(n)
		}
		return visit(&ir.GlobalSet{Name: v.Name, Value: val})
	case *ir.Call:
		args, ch := rewriteBody(v.Args, visit)
		if !ch {
			return visit(n)
		}
		return visit(&ir.Call{Name: v.Name, Args: args})
	case *ir.CallIndirect:
		idx := rewriteNode(v.Index, visit)
		args, ch := rewriteBody(v.Args, visit)
		if idx == v.Index && !ch {
			return visit(n)
		}
		return visit(&ir.CallIndirect{TypeParams: v.TypeParams, TypeResults: v.TypeResults, Index: idx, Args: args})
	case *ir.BrIf:
		cond := rewriteNode(v.Cond, visit)
		if cond == v.Cond {
			return visit(n)
		}
		return visit(&ir.BrIf{Label: v.Label, Cond: cond})
	case *ir.BrTable:
		idx := rewriteNode(v.Index, visit)
		if idx == v.Index {
			return visit(n)
		}
		return visit(&ir.BrTable{Labels: v.Labels, Default: v.Default, Index: idx})
	case *ir.Drop:
		val := rewriteNode(v.Value, visit)
		if val == v.Value {
			return visit(n)
		}
		return visit(&ir.Drop{Value: val})
	case *ir.Return:
		if v.Value == nil {
			return visit(n)
		}
		val := rewriteNode(v.Value, visit)
		if val == v.Value {
			return visit(n)
		}
		return visit(&ir.Return{Value: val})
	case *ir.Select:
		a := rewriteNode(v.A, visit)
		b := rewriteNode(v.B, visit)
		cond := rewriteNode(v.Cond, visit)
		if a == v.A && b == v.B && cond == v.Cond {
			return visit(n)
		}
		return visit(&ir.Select{A: a, B: b, Cond: cond})
	case *ir.Binop:
		left := rewriteNode(v.Left, visit)
		right := rewriteNode(v.Right, visit)
		if left == v.Left && right == v.Right {
			return visit(n)
		}
		return visit(&ir.Binop{Op: v.Op, Left: left, Right: right})
	case *ir.Unop:
		operand := rewriteNode(v.Operand, visit)
		if operand == v.Operand {
			return visit(n)
		}
		return visit(&ir.Unop{Op: v.Op, Operand: operand})
	case *ir.MemOp:
		addr, value, operand := v.Addr, v.Value, v.Operand
		changed := false
		if addr != nil {
			na := rewriteNode(addr, visit)
			changed = changed || na != addr
			addr = na
		}
		if value != nil {
			nv := rewriteNode(value, visit)
			changed = changed || nv != value
			value = nv
		}
		if operand != nil {
			no := rewriteNode(operand, visit)
			changed = changed || no != operand
			operand = no
		}
		if !changed {
			return visit(n)
		}
		return visit(&ir.MemOp{Op: v.Op, MemArg: v.MemArg, Addr: addr, Value: value, Operand: operand})
	case *ir.Lane:
		operand := rewriteNode(v.Operand, visit)
		value := v.Value
		changed := operand != v.Operand
		if value != nil {
			nv := rewriteNode(value, visit)
			changed = changed || nv != value
			value = nv
		}
		if !changed {
			return visit(n)
		}
		return visit(&ir.Lane{Op: v.Op, Operand: operand, Index: v.Index, Value: value})
	case *ir.Generic:
		ops, ch := rewriteBody(v.Operands, visit)
		if !ch {
			return visit(n)
		}
		return visit(&ir.Generic{Op: v.Op, Operands: ops, Imm: v.Imm})
	default:
		// leaf nodes: Const, V128Const, LocalGet, GlobalGet, Br, Unreachable, Nop.
		return visit(n)
	}
}
