package leb128

import "errors"

var (
	errOverflow32 = errors.New("leb128: value overflows 32 bits")
	errOverflow64 = errors.New("leb128: value overflows 64 bits")
	errTruncated  = errors.New("leb128: truncated encoding")
)
