//go:build amd64 || arm64

package feature

// archSimdCapable is true on architectures wasmtime's compiler backend can target with fixed
// width SIMD codegen. It is one input to SimdSupported, not the whole answer: the runtime probe
// in feature.go still confirms the engine actually accepted a SIMD-bearing module.
const archSimdCapable = true
