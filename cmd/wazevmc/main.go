// Command wazevmc builds a WebAssembly binary from an IR module constructed by one of the
// fixtures in this package, running it through the optimizer and auto-vectorizer before
// emission, and optionally smoke-tests the result by instantiating it with wasmtime-go and
// cross-checking with wasmer-go.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/wazevm/wazevm/internal/binaryfmt"
	"github.com/wazevm/wazevm/internal/ir"
	"github.com/wazevm/wazevm/internal/optimize"
	"github.com/wazevm/wazevm/internal/vectorize"
)

func main() {
	var (
		out          = flag.String("o", "out.wasm", "output path for the emitted binary")
		level        = flag.Int("O", 1, "optimization level (0 disables the optimizer)")
		unrollFactor = flag.Int("unroll-factor", 0, "loop-unroll duplication factor at -O 3 (0 uses the optimizer's default)")
		vectorizeOpt = flag.Bool("vectorize", false, "run the auto-vectorizer before emission")
		vectorizeFn  = flag.String("vectorize-func", "", "name of the function to vectorize (defaults to the fixture's sole function)")
		fixture      = flag.String("fixture", "add", "named fixture to build: add, factorial, vecadd")
		smokeTest    = flag.Bool("smoke-test", false, "instantiate the emitted binary with wasmtime-go and wasmer-go")
	)
	flag.Parse()

	if err := run(*fixture, *out, *level, *unrollFactor, *vectorizeOpt, *vectorizeFn, *smokeTest); err != nil {
		fmt.Fprintf(os.Stderr, "wazevmc: %v\n", err)
		os.Exit(1)
	}
}

func run(fixtureName, out string, level, unrollFactor int, vectorizeOpt bool, vectorizeFn string, smokeTest bool) error {
	build, ok := fixtures[fixtureName]
	if !ok {
		return fmt.Errorf("unknown fixture %q", fixtureName)
	}

	m := build()
	m = optimize.Optimize(m, optimize.Options{Level: level, UnrollFactor: unrollFactor}).(*ir.Module)
	if vectorizeOpt {
		if err := vectorizeFunc(m, vectorizeFn); err != nil {
			return err
		}
	}

	bin, err := binaryfmt.Emit(m)
	if err != nil {
		return fmt.Errorf("emit: %w", err)
	}

	if err := os.WriteFile(out, bin, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(os.Stderr, "wazevmc: wrote %d bytes to %s\n", len(bin), out)

	if smokeTest {
		if err := smokeTestBinary(bin); err != nil {
			return fmt.Errorf("smoke test: %w", err)
		}
		fmt.Fprintln(os.Stderr, "wazevmc: smoke test passed on wasmtime-go and wasmer-go")
	}
	return nil
}

// vectorizeFunc finds fnName in m (or the module's sole function, if fnName is empty), runs the
// auto-vectorizer over it, and -- on success -- replaces it in place and repoints any export that
// referenced its old name.
func vectorizeFunc(m *ir.Module, fnName string) error {
	idx := -1
	if fnName == "" {
		if len(m.Funcs) != 1 {
			return fmt.Errorf("-vectorize-func is required when the fixture defines more than one function")
		}
		idx = 0
	} else {
		for i, fn := range m.Funcs {
			if fn.Name == fnName {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("no function named %q", fnName)
		}
	}

	oldName := m.Funcs[idx].Name
	out, width, ok := vectorize.AutoVectorize(m.Funcs[idx], vectorize.Options{})
	if !ok {
		fmt.Fprintln(os.Stderr, "wazevmc: no eligible vectorization opportunity found")
		return nil
	}
	m.Funcs[idx] = out
	for _, ex := range m.Exports {
		if ex.Ref == oldName {
			ex.Ref = out.Name
		}
	}
	fmt.Fprintf(os.Stderr, "wazevmc: vectorized %s to width %d\n", oldName, width)
	return nil
}
