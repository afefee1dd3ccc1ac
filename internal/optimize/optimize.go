package optimize

import "github.com/wazevm/wazevm/internal/ir"

// maxFixedPointIterations bounds the constant-fold/peephole/DCE loop: each pass only ever
// shrinks or simplifies the tree, so convergence is expected well before this bound, and it
// exists purely so a mistaken rewrite rule cannot spin forever.
const maxFixedPointIterations = 10

// unrollLevel is the optimization level at and above which the loop unroller runs, once the
// fold/peephole/DCE fixed point has converged.
const unrollLevel = 3

// defaultUnrollFactor is the duplication factor the unroller applies when Options.UnrollFactor
// is left at its zero value.
const defaultUnrollFactor = 4

// Options configures a single Optimize call.
type Options struct {
	// Level selects which passes run: 0 is the identity, 1 adds constant folding, 2 adds the
	// algebraic peephole and structural DCE passes, 3 additionally unrolls canonical counted
	// loops once the fixed point converges.
	Level int
	// UnrollFactor is the loop-unroll duplication factor used at Level 3 and above. Zero (the
	// default) means defaultUnrollFactor.
	UnrollFactor int
}

func (o Options) unrollFactor() int {
	if o.UnrollFactor <= 0 {
		return defaultUnrollFactor
	}
	return o.UnrollFactor
}

// Optimize runs the fixed-point pass manager (constant folding, algebraic peephole
// simplification, and structural dead-code elimination, iterated to convergence) followed by
// loop unrolling when opts.Level is at or above unrollLevel.
//
// n may be a *ir.Module, a *ir.Func, or any other ir.Node -- a module is optimized by recursing
// into each child and applying Optimize to every *ir.Func child (other children pass through
// unchanged); a func is optimized by running the pass manager over its body; any other node is
// treated as a single-statement body of its own. At level 0, Optimize is the identity: n is
// returned unchanged, not merely equivalent -- Optimize(n, Options{}) == n by pointer. None of
// the passes can fail; a pass that finds nothing to do just returns its input.
func Optimize(n ir.Node, opts Options) ir.Node {
	if opts.Level <= 0 {
		return n
	}
	switch v := n.(type) {
	case *ir.Module:
		return optimizeModule(v, opts)
	case *ir.Func:
		return optimizeFunc(v, opts)
	default:
		body := optimizeBody([]ir.Node{n}, opts)
		return body[0]
	}
}

// optimizeModule recurses into m's children, applying Optimize to every *ir.Func and passing
// every other child through untouched.
func optimizeModule(m *ir.Module, opts Options) *ir.Module {
	changed := false
	newFuncs := make([]*ir.Func, len(m.Funcs))
	for i, fn := range m.Funcs {
		nf := optimizeFunc(fn, opts)
		if nf != fn {
			changed = true
		}
		newFuncs[i] = nf
	}
	if !changed {
		return m
	}
	nm := *m
	nm.Funcs = newFuncs
	return &nm
}

// optimizeFunc runs the pass manager over fn's body, returning fn unchanged (by pointer) if
// nothing simplified.
func optimizeFunc(fn *ir.Func, opts Options) *ir.Func {
	body := optimizeBody(fn.Body, opts)
	if sameBody(body, fn.Body) {
		return fn
	}
	nf := *fn
	nf.Body = body
	return &nf
}

// optimizeBody is the body-level pass manager shared by optimizeModule, optimizeFunc, and the
// bare-node path of Optimize: up to maxFixedPointIterations rounds of fold/peephole/DCE until a
// round changes nothing, then -- at Level >= unrollLevel -- one unroll pass followed by a second
// fixed point to simplify the duplicated index arithmetic the unroller introduces.
func optimizeBody(body []ir.Node, opts Options) []ir.Node {
	cur := body
	for i := 0; i < maxFixedPointIterations; i++ {
		next, changed := fixedPointRound(cur, opts.Level)
		cur = next
		if !changed {
			break
		}
	}

	if opts.Level >= unrollLevel {
		if next, changed := unrollBody(cur, opts.unrollFactor()); changed {
			cur = next
			for i := 0; i < maxFixedPointIterations; i++ {
				next, changed := fixedPointRound(cur, opts.Level)
				cur = next
				if !changed {
					break
				}
			}
		}
	}
	return cur
}

// fixedPointRound runs constant folding unconditionally, and -- only at level 2 and above, per
// spec.md §4.5's "(b) at level ≥ 2, peephole and structural DCE" -- the algebraic peephole and
// structural dead-code passes.
func fixedPointRound(body []ir.Node, level int) ([]ir.Node, bool) {
	changed := false
	if next, ch := foldBody(body); ch {
		body, changed = next, true
	}
	if level < 2 {
		return body, changed
	}
	if next, ch := peepholeBody(body); ch {
		body, changed = next, true
	}
	if next, ch := dceBody(body); ch {
		body, changed = next, true
	}
	return body, changed
}

func sameBody(a, b []ir.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
