package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitness-tracker/models"
)

func TestRun_FailureIsLogged(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "pipeline.log")
	missing := filepath.Join(dir, "A-bench-heavy-x-Accelerometer.csv")

	err := run(context.Background(), []string{"--config", "", "--log", logPath, "make-dataset", missing})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUnreadableFile)

	data, rerr := os.ReadFile(logPath)
	require.NoError(t, rerr)
	assert.Contains(t, string(data), "reading the raw data")
	assert.Contains(t, string(data), "fitness-tracker failed")
	assert.Contains(t, string(data), missing)
}
