package main

import (
	"fmt"

	"github.com/bytecodealliance/wasmtime-go"
	wasmer "github.com/wasmerio/wasmer-go/wasmer"
)

// smokeTestBinary instantiates bin with both wasmtime-go and wasmer-go, the two runtimes this
// project cross-checks emitted binaries against: if either engine rejects the module outright,
// the emitted bytes are malformed regardless of what this compiler's own tests believe.
func smokeTestBinary(bin []byte) error {
	if err := instantiateWithWasmtime(bin); err != nil {
		return fmt.Errorf("wasmtime: %w", err)
	}
	if err := instantiateWithWasmer(bin); err != nil {
		return fmt.Errorf("wasmer: %w", err)
	}
	return nil
}

func instantiateWithWasmtime(bin []byte) error {
	engine := wasmtime.NewEngine()
	module, err := wasmtime.NewModule(engine, bin)
	if err != nil {
		return err
	}
	store := wasmtime.NewStore(engine)
	_, err = wasmtime.NewInstance(store, module, nil)
	return err
}

func instantiateWithWasmer(bin []byte) error {
	engine := wasmer.NewEngine()
	store := wasmer.NewStore(engine)
	module, err := wasmer.NewModule(store, bin)
	if err != nil {
		return err
	}
	imports := wasmer.NewImportObject()
	_, err = wasmer.NewInstance(module, imports)
	return err
}
