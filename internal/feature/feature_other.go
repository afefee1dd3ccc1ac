//go:build !amd64 && !arm64

package feature

const archSimdCapable = false
