package ir

// NewV128Const builds a 128-bit SIMD literal from its raw lane bytes.
func NewV128Const(bytes [16]byte) *V128Const { return &V128Const{Bytes: bytes} }

// NewSplat builds a lane-broadcast instruction (op like "i32x4.splat", "f32x4.splat") from a
// scalar operand.
func NewSplat(op string, scalar Node) *Unop { return &Unop{Op: op, Operand: scalar} }

// NewExtractLane builds a lane-extraction instruction, e.g. i32x4.extract_lane index 2.
func NewExtractLane(op string, operand Node, index byte) *Lane {
	return &Lane{Op: op, Operand: operand, Index: index}
}

// NewReplaceLane builds a lane-replacement instruction, substituting value into operand at
// index.
func NewReplaceLane(op string, operand Node, index byte, value Node) *Lane {
	return &Lane{Op: op, Operand: operand, Index: index, Value: value}
}

// NewVecBinop builds a lanewise binary SIMD operator, e.g. "i32x4.add", "f32x4.mul".
func NewVecBinop(op string, left, right Node) *Binop { return &Binop{Op: op, Left: left, Right: right} }

// NewVecUnop builds a unary SIMD operator, e.g. "v128.not".
func NewVecUnop(op string, operand Node) *Unop { return &Unop{Op: op, Operand: operand} }

// NewShuffle builds a 16-lane shuffle with a fixed permutation mask.
func NewShuffle(a, b Node, mask [16]byte) *Generic {
	return &Generic{Op: "i8x16.shuffle", Operands: []Node{a, b}, Imm: mask}
}
