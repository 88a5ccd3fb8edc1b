package testutil

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTestLogger(t *testing.T) {
	logger := NewTestLogger(t)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	logger.Debug("visible with -v", "source", 1)
}
