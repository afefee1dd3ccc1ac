package optimize

import "github.com/wazevm/wazevm/internal/ir"

// foldBody applies constant folding bottom-up across a flat instruction list: a Binop/Unop
// whose operands are already Const nodes is replaced by the single Const its operation would
// produce. i32 arithmetic wraps at 2's complement width, matching the binary format's
// semantics; i32.div_s by a constant zero is deliberately left unfolded since it is a runtime
// trap, not a compile-time value. There is no cross-local constant propagation: a local.get is
// never folded, even if every assignment to that local happens to be the same constant.
func foldBody(body []ir.Node) ([]ir.Node, bool) {
	return rewriteBody(body, foldNode)
}

func foldNode(n ir.Node) ir.Node {
	switch v := n.(type) {
	case *ir.Binop:
		if folded := foldBinop(v); folded != nil {
			return folded
		}
	case *ir.Unop:
		if folded := foldUnop(v); folded != nil {
			return folded
		}
	}
	return n
}

func asI32(n ir.Node) (int32, bool) {
	c, ok := n.(*ir.Const)
	if !ok {
		return 0, false
	}
	v, ok := c.Value.(int32)
	return v, ok
}

func asF32(n ir.Node) (float32, bool) {
	c, ok := n.(*ir.Const)
	if !ok {
		return 0, false
	}
	v, ok := c.Value.(float32)
	return v, ok
}

func foldBinop(b *ir.Binop) ir.Node {
	switch b.Op {
	case "i32.add", "i32.sub", "i32.mul", "i32.div_s", "i32.shl", "i32.shr_s":
		l, ok1 := asI32(b.Left)
		r, ok2 := asI32(b.Right)
		if !ok1 || !ok2 {
			return nil
		}
		switch b.Op {
		case "i32.add":
			return ir.I32Const(l + r)
		case "i32.sub":
			return ir.I32Const(l - r)
		case "i32.mul":
			return ir.I32Const(l * r) // wraps at 2's complement width by Go int32 overflow semantics
		case "i32.div_s":
			if r == 0 {
				return nil // a runtime trap, never folded
			}
			return ir.I32Const(l / r)
		case "i32.shl":
			return ir.I32Const(l << (uint32(r) & 31))
		case "i32.shr_s":
			return ir.I32Const(l >> (uint32(r) & 31))
		}
	case "f32.add", "f32.sub", "f32.mul", "f32.div":
		l, ok1 := asF32(b.Left)
		r, ok2 := asF32(b.Right)
		if !ok1 || !ok2 {
			return nil
		}
		switch b.Op {
		case "f32.add":
			return ir.F32Const(l + r)
		case "f32.sub":
			return ir.F32Const(l - r)
		case "f32.mul":
			return ir.F32Const(l * r)
		case "f32.div":
			return ir.F32Const(l / r)
		}
	}
	return nil
}

func foldUnop(u *ir.Unop) ir.Node {
	switch u.Op {
	case "i32.eqz":
		v, ok := asI32(u.Operand)
		if !ok {
			return nil
		}
		if v == 0 {
			return ir.I32Const(1)
		}
		return ir.I32Const(0)
	}
	return nil
}
