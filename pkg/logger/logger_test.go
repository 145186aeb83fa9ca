package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.info)
	assert.NotNil(t, logger.error)
	assert.NotNil(t, logger.warn)
}

func TestInfo(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)

	// Test that Info doesn't panic
	logger.Info("Test message: %s", "info")
}

func TestError(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)

	// Test that Error doesn't panic
	logger.Error("Test error: %s", "error")
}

func TestWarn(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)

	// Test that Warn doesn't panic
	logger.Warn("Test warning: %s", "warning")
}

func TestLogger_MultipleCalls(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)

	// Test multiple calls don't panic
	logger.Info("Info 1")
	logger.Error("Error 1")
	logger.Warn("Warn 1")

	logger.Info("Info 2")
	logger.Error("Error 2")
	logger.Warn("Warn 2")
}
