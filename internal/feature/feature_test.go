package feature

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimdSupportedIsCached(t *testing.T) {
	first := SimdSupported()
	second := SimdSupported()
	require.Equal(t, first, second)
}

func TestThreadsSupportedIsCached(t *testing.T) {
	first := ThreadsSupported()
	second := ThreadsSupported()
	require.Equal(t, first, second)
}
