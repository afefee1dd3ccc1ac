// Package feature answers "does this engine support fixed-width SIMD / threads-and-atomics"
// for the auto-vectorizer and for callers deciding whether to request those proposals at all.
// Probing has a real side effect (it spins up a wasmtime engine and compiles a throwaway
// module), so each answer is computed at most once and cached with sync.Once; the probing
// engine and module are released immediately after the answer is known, never retained.
package feature

import (
	"sync"

	"github.com/bytecodealliance/wasmtime-go"
)

var (
	simdOnce      sync.Once
	simdResult    bool
	threadsOnce   sync.Once
	threadsResult bool
)

// minimalSimdModule is "\0asm" + version + a single (unexported) func that pushes a v128.const,
// applies v128.not and drops the result -- the smallest module body that exercises the SIMD
// opcode prefix end to end.
var minimalSimdModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00, // type section: () -> ()
	0x03, 0x02, 0x01, 0x00, // function section: one func of type 0
	0x0a, 0x19, 0x01, 0x17, 0x00, // code section: one body, 0x17 bytes
	0xfd, 0x0c, // v128.const
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 16 zero lane bytes
	0xfd, 0x4d, // v128.not, to give the value a consumer
	0x1a, // drop
	0x0b, // end
}

// minimalThreadsModule declares a shared memory, which only a threads-capable engine accepts.
var minimalThreadsModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x05, 0x04, 0x01, 0x03, 0x01, 0x0a, // memory section: shared (flags=0x03), min=1, max=10
}

// SimdSupported reports whether the host engine accepts fixed-width 128-bit SIMD modules. The
// answer is cached for the lifetime of the process.
func SimdSupported() bool {
	simdOnce.Do(func() {
		simdResult = archSimdCapable && probe(minimalSimdModule, func(cfg *wasmtime.Config) {
			cfg.SetWasmSIMD(true)
		})
	})
	return simdResult
}

// ThreadsSupported reports whether the host engine accepts modules declaring shared memory and
// atomic instructions. The answer is cached for the lifetime of the process.
func ThreadsSupported() bool {
	threadsOnce.Do(func() {
		threadsResult = probe(minimalThreadsModule, func(cfg *wasmtime.Config) {
			cfg.SetWasmThreads(true)
		})
	})
	return threadsResult
}

// probe never fails outward: any panic or error from the engine is treated as "unsupported",
// matching the feature-probe error-handling rule that probes return false rather than
// propagating an error.
func probe(wasm []byte, configure func(*wasmtime.Config)) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	cfg := wasmtime.NewConfig()
	configure(cfg)
	engine := wasmtime.NewEngineWithConfig(cfg)
	_, err := wasmtime.NewModule(engine, wasm)
	return err == nil
}
