package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewFile(t *testing.T) {
	dir := t.TempDir()
	logger, closeFn, err := NewFile(dir, false)
	require.NoError(t, err)

	logger.Info("hello", zap.String("k", "v"))
	require.NoError(t, closeFn())

	data, err := os.ReadFile(filepath.Join(dir, "autoaccel.log"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"hello"`))
	assert.True(t, strings.Contains(string(data), `"k":"v"`))
}

func TestNewFileDebugLevel(t *testing.T) {
	dir := t.TempDir()

	logger, closeFn, err := NewFile(dir, false)
	require.NoError(t, err)
	logger.Debug("quiet")
	require.NoError(t, closeFn())

	logger, closeFn, err = NewFile(dir, true)
	require.NoError(t, err)
	logger.Debug("loud")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(filepath.Join(dir, "autoaccel.log"))
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "quiet"))
	assert.True(t, strings.Contains(string(data), "loud"))
}

func TestNewCLI(t *testing.T) {
	logger, err := NewCLI(true)
	require.NoError(t, err)
	assert.NotNil(t, logger)
	_ = logger.Sync()
}
