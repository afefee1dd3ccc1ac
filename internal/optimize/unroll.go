package optimize

import "github.com/wazevm/wazevm/internal/ir"

// unrollBody applies loop unrolling once, after the fold/peephole/DCE fixed point has
// converged, to every loop matching the canonical counted-loop shape:
//
//	loop L
//	  br_if exit, <cond>      ; the exit test, first statement
//	  ...work...
//	  local.set i (i32.add (local.get i) (const step)) ; the increment, penultimate statement
//	  br L                    ; unconditional back-edge, last statement
//	end
//
// (see recognizeCountedLoop). The unroller duplicates ...work... factor times between a single
// exit test and a single back-edge, with one increment after each copy, so the loop's exit test (and thus its branch overhead) runs once per factor
// original iterations instead of once per iteration. This assumes the loop's trip count is a
// multiple of factor; by design there is no generated remainder/residual loop to handle the
// case where it isn't -- callers are responsible for only unrolling loops that satisfy this
// precondition.
func unrollBody(body []ir.Node, factor int) ([]ir.Node, bool) {
	changed := false
	out := make([]ir.Node, len(body))
	for i, n := range body {
		rn, ch := unrollRecurse(n, factor)
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

func unrollRecurse(n ir.Node, factor int) (ir.Node, bool) {
	switch v := n.(type) {
	case *ir.Loop:
		body, ch := unrollBody(v.Body, factor)
		loop := v
		if ch {
			loop = &ir.Loop{Label: v.Label, Results: v.Results, Body: body}
		}
		if work, cond, increment, back, ok := recognizeCountedLoop(loop); ok {
			return unrollLoop(loop, work, cond, increment, back, factor), true
		}
		return loop, ch
	case *ir.Block:
		body, ch := unrollBody(v.Body, factor)
		if !ch {
			return n, false
		}
		return &ir.Block{Label: v.Label, Results: v.Results, Body: body}, true
	case *ir.If:
		then, ch1 := unrollBody(v.Then, factor)
		els, ch2 := unrollBody(v.Else, factor)
		if !ch1 && !ch2 {
			return n, false
		}
		return &ir.If{Label: v.Label, Results: v.Results, Cond: v.Cond, Then: then, Else: els}, true
	default:
		return n, false
	}
}

// recognizeCountedLoop matches the canonical counted-loop shape spec.md §4.5 identifies:
//
//	loop L {
//	  br_if OUT  (condition referring to i and bound)
//	  … body …
//	  local.set i (i32.add i, <const step>)
//	  br L
//	}
//
// All of the identification conditions must hold: at least 4 children, the first child an exit
// br_if, the penultimate child a local.set of some local i whose value is
// i32.add(local.get i, const step), and the last child an unconditional br back to the loop's own
// label. A loop that merely starts with br_if and ends with br -- without the canonical
// local.set-of-an-i32.add increment immediately before that br -- is left untouched: quadrupling
// an unrecognized loop's side effects would change its behavior, not just its speed.
func recognizeCountedLoop(loop *ir.Loop) (work []ir.Node, cond *ir.BrIf, increment *ir.LocalSet, back *ir.Br, ok bool) {
	body := loop.Body
	if len(body) < 4 {
		return nil, nil, nil, nil, false
	}
	cond, ok1 := body[0].(*ir.BrIf)
	back, ok2 := body[len(body)-1].(*ir.Br)
	increment, ok3 := body[len(body)-2].(*ir.LocalSet)
	if !ok1 || !ok2 || !ok3 || back.Label != loop.Label {
		return nil, nil, nil, nil, false
	}
	add, ok4 := increment.Value.(*ir.Binop)
	if !ok4 || add.Op != "i32.add" {
		return nil, nil, nil, nil, false
	}
	base, ok5 := add.Left.(*ir.LocalGet)
	if !ok5 || base.Name != increment.Name {
		return nil, nil, nil, nil, false
	}
	if _, ok6 := add.Right.(*ir.Const); !ok6 {
		return nil, nil, nil, nil, false
	}
	return body[1 : len(body)-2], cond, increment, back, true
}

// unrollLoop duplicates work factor times between cond and back, per spec.md §4.5's
// transformation: the br_if is emitted once, then each work copy after the first is preceded by
// one copy of increment so the m-th copy observes i advanced by m steps, and a final increment
// follows the last copy to set up the next macro-iteration before the original back-edge.
// increment's subtree is shared verbatim across every copy -- it re-reads the local at emission
// time, so the same node produces the correct value at each position.
func unrollLoop(loop *ir.Loop, work []ir.Node, cond *ir.BrIf, increment *ir.LocalSet, back *ir.Br, factor int) *ir.Loop {
	newBody := make([]ir.Node, 0, 2+len(work)*factor+factor)
	newBody = append(newBody, cond)
	for m := 0; m < factor; m++ {
		if m > 0 {
			newBody = append(newBody, increment)
		}
		newBody = append(newBody, work...)
	}
	newBody = append(newBody, increment) // final increment, sets up the next macro-iteration
	newBody = append(newBody, back)
	return &ir.Loop{Label: loop.Label, Results: loop.Results, Body: newBody}
}
