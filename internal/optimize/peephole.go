package optimize

import "github.com/wazevm/wazevm/internal/ir"

// peepholeBody applies algebraic identity simplifications bottom-up across a flat instruction
// list: x+0/0+x, x-0, x<<0 and x>>0 all reduce to x for both integer and float add/sub, and
// x*1/1*x reduces to x for both integer and float. i32.mul by a constant zero reduces to a
// constant zero (multiplication by zero is exact for integers, so the non-zero operand's value
// never matters). The float multiply-by-zero identity is deliberately NOT applied: 0.0 * NaN and
// 0.0 * Inf are not 0.0, so f32.mul by a constant zero is left alone.
func peepholeBody(body []ir.Node) ([]ir.Node, bool) {
	return rewriteBody(body, peepholeNode)
}

func peepholeNode(n ir.Node) ir.Node {
	b, ok := n.(*ir.Binop)
	if !ok {
		return n
	}
	switch b.Op {
	case "i32.add":
		if isI32(b.Right, 0) {
			return b.Left
		}
		if isI32(b.Left, 0) {
			return b.Right
		}
	case "i32.sub":
		if isI32(b.Right, 0) {
			return b.Left
		}
	case "i32.shl", "i32.shr_s", "i32.shr_u":
		if isI32(b.Right, 0) {
			return b.Left
		}
	case "i32.mul":
		if isI32(b.Right, 1) {
			return b.Left
		}
		if isI32(b.Left, 1) {
			return b.Right
		}
		if isI32(b.Right, 0) || isI32(b.Left, 0) {
			return ir.I32Const(0)
		}
	case "f32.add":
		if isF32(b.Right, 0) {
			return b.Left
		}
		if isF32(b.Left, 0) {
			return b.Right
		}
	case "f32.sub":
		if isF32(b.Right, 0) {
			return b.Left
		}
	case "f32.mul":
		if isF32(b.Right, 1) {
			return b.Left
		}
		if isF32(b.Left, 1) {
			return b.Right
		}
	}
	return n
}

func isI32(n ir.Node, want int32) bool {
	v, ok := asI32(n)
	return ok && v == want
}

func isF32(n ir.Node, want float32) bool {
	v, ok := asF32(n)
	return ok && v == want
}
