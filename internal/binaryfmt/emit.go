package binaryfmt

import (
	"github.com/wazevm/wazevm/internal/ir"
	"github.com/wazevm/wazevm/internal/leb128"
)

var magic = []byte{0x00, 0x61, 0x73, 0x6d} // "\0asm"
var version = []byte{0x01, 0x00, 0x00, 0x00}

// Emit serializes m into the WebAssembly binary format in a single deterministic pass: the same
// tree always produces the same bytes, since emission never consults map-iteration order,
// wall-clock time, or any other unstable source -- every collection it walks is a module-order
// slice, and the one map lookup per collection (type/func/global index) is by a key the pre-pass
// already assigned deterministically.
//
// Emit fails fast: the first UnknownOpcode, UnresolvedName, MalformedControl, EncodingOverflow
// or UnsupportedConstType encountered aborts the whole emission.
func Emit(m *ir.Module) ([]byte, error) {
	ctx := newContext(m)

	out := leb128.NewBuffer()
	out.RawBytes(magic)
	out.RawBytes(version)

	buildTypeSection(out, ctx)
	buildImportSection(out, ctx)
	buildFunctionSection(out, ctx)
	buildTableSection(out, ctx)
	buildMemorySection(out, ctx)
	if err := buildGlobalSection(out, ctx, "global"); err != nil {
		return nil, err
	}
	if err := buildExportSection(out, ctx); err != nil {
		return nil, err
	}
	if err := buildStartSection(out, ctx); err != nil {
		return nil, err
	}
	buildElementSection(out, ctx)
	if err := buildCodeSection(out, ctx); err != nil {
		return nil, err
	}
	buildDataSection(out, ctx)

	return out.Bytes(), nil
}
