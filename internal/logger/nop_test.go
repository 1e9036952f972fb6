package logger

import (
	"testing"

	"github.com/arloliu/statictopic/types"
	"github.com/stretchr/testify/require"
)

func TestNopLogger(t *testing.T) {
	var logger types.Logger = NewNop()

	require.NotPanics(t, func() {
		logger.Debug("placed new queue", "globalId", 1)
		logger.Info("")
		logger.Warn("message", "single")
		logger.Error("message", nil)
		logger.Fatal("message", "k1", "v1", "k2", "v2") // Should NOT exit
	})
}

func BenchmarkNopLogger(b *testing.B) {
	logger := NewNop()

	for b.Loop() {
		logger.Debug("benchmark message", "key1", "value1", "key2", 42)
	}
}
