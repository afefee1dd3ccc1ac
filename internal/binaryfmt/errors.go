// Package binaryfmt serializes an *ir.Module into the WebAssembly binary format in a single
// deterministic pass: same input tree, same output bytes, every time.
package binaryfmt

import "fmt"

// Reason classifies why Emit failed, per the five-error taxonomy: emission is fail-fast, unlike
// the optimizer and vectorizer passes which never fail.
type Reason int

const (
	// UnknownOpcode means a node named an operator string with no binary-format encoding.
	UnknownOpcode Reason = iota
	// UnresolvedName means a local, global, or function name had no matching declaration in
	// scope.
	UnresolvedName
	// MalformedControl means a branch referenced a label with no enclosing block/loop/if, or a
	// structural node had an internally inconsistent shape.
	MalformedControl
	// EncodingOverflow means a value did not fit its target encoding: a block type with more
	// than one result, or an immediate (segment index, shuffle mask) of the wrong Go type.
	EncodingOverflow
	// UnsupportedConstType means a Const node held a Go value of a type that has no core
	// WebAssembly numeric encoding, or a value type outside i32/i64/f32/f64.
	UnsupportedConstType
)

func (r Reason) String() string {
	switch r {
	case UnknownOpcode:
		return "unknown opcode"
	case UnresolvedName:
		return "unresolved name"
	case MalformedControl:
		return "malformed control"
	case EncodingOverflow:
		return "encoding overflow"
	case UnsupportedConstType:
		return "unsupported const type"
	default:
		return "unknown error"
	}
}

// Error reports a single emission failure, with the location (function/label) it occurred in
// where known.
type Error struct {
	Reason Reason
	Where  string
	Detail string
}

func (e *Error) Error() string {
	if e.Where == "" {
		return fmt.Sprintf("binaryfmt: %s: %s", e.Reason, e.Detail)
	}
	return fmt.Sprintf("binaryfmt: %s in %s: %s", e.Reason, e.Where, e.Detail)
}

func errf(reason Reason, where, format string, args ...interface{}) error {
	return &Error{Reason: reason, Where: where, Detail: fmt.Sprintf(format, args...)}
}
