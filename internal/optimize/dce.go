package optimize

import "github.com/wazevm/wazevm/internal/ir"

// isTerminator reports whether n ends control flow within its body: any instruction sibling
// following a return, br, br_table or unreachable in the same flat body is dead, since control
// can never reach it. br_if is deliberately not a terminator -- it only branches conditionally,
// so control may fall through to the next sibling.
func isTerminator(n ir.Node) bool {
	switch n.(type) {
	case *ir.Return, *ir.Br, *ir.BrTable, *ir.Unreachable:
		return true
	}
	return false
}

// dceBody recurses into every structural child's own body first, then truncates this body
// immediately after its first terminator (if any).
func dceBody(body []ir.Node) ([]ir.Node, bool) {
	changed := false
	out := make([]ir.Node, 0, len(body))
	for _, n := range body {
		rn, ch := dceRecurse(n)
		if ch {
			changed = true
		}
		out = append(out, rn)
		if isTerminator(n) {
			break
		}
	}
	if len(out) != len(body) {
		changed = true
	}
	if !changed {
		return body, false
	}
	return out, true
}

// dceRecurse descends into n's own nested bodies (Block/Loop/If) without altering n's own
// position in its parent's list; that truncation happens in dceBody.
func dceRecurse(n ir.Node) (ir.Node, bool) {
	switch v := n.(type) {
	case *ir.Block:
		body, ch := dceBody(v.Body)
		if !ch {
			return n, false
		}
		return &ir.Block{Label: v.Label, Results: v.Results, Body: body}, true
	case *ir.Loop:
		body, ch := dceBody(v.Body)
		if !ch {
			return n, false
		}
		return &ir.Loop{Label: v.Label, Results: v.Results, Body: body}, true
	case *ir.If:
		then, ch1 := dceBody(v.Then)
		els, ch2 := dceBody(v.Else)
		if !ch1 && !ch2 {
			return n, false
		}
		return &ir.If{Label: v.Label, Results: v.Results, Cond: v.Cond, Then: then, Else: els}, true
	default:
		return n, false
	}
}
