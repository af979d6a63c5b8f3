package controller

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"fitness-tracker/models"
	"fitness-tracker/utils"
	"fitness-tracker/views"
)

// writeRaw writes a MetaMotion-style export with rows every step ms from start.
func writeRaw(t *testing.T, dir, name, unit string, start int64, n int, step int64, base float64) string {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "epoch (ms),time (01:00),elapsed (s),x-axis (%[1]s),y-axis (%[1]s),z-axis (%[1]s)\n", unit)
	for i := 0; i < n; i++ {
		ms := start + int64(i)*step
		fmt.Fprintf(&b, "%d,2019-01-11T16:08:05.000,%.3f,%.3f,%.3f,%.3f\n",
			ms, float64(i)*float64(step)/1000, base+float64(i), base, -base)
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	return path
}

func testConfig(dir string) *utils.PipelineConfig {
	cfg := utils.DefaultPipelineConfig()
	cfg.Input.Glob = filepath.Join(dir, "raw", "*.csv")
	cfg.Input.PathPrefix = filepath.Join(dir, "raw") + "/"
	cfg.Output.Artifact = filepath.Join(dir, "interim", "data.parquet")
	cfg.Output.CSV = filepath.Join(dir, "interim", "data.csv")
	cfg.Output.Npy = filepath.Join(dir, "interim", "axes.npy")
	cfg.Output.ReportsDir = filepath.Join(dir, "reports")
	return cfg
}

func TestDatasetController_Build(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "raw")
	require.NoError(t, os.MkdirAll(raw, 0755))

	const t0 = 1547222885000 // 2019-01-11 16:08:05 UTC
	writeRaw(t, raw, "A-bench-heavy2-rpe8_MetaWear_2019-01-11T16.08.05.000_C42732BE255C_Accelerometer_12.500Hz_1.4.4.csv", "g", t0, 10, 80, 1)
	writeRaw(t, raw, "A-bench-heavy2-rpe8_MetaWear_2019-01-11T16.08.05.000_C42732BE255C_Gyroscope_25.000Hz_1.4.4.csv", "deg/s", t0, 20, 40, 10)

	cfg := testConfig(dir)
	dc := NewDatasetController(cfg)
	require.NoError(t, dc.Build(context.Background()))

	assert.Equal(t, 10, dc.Acc.Len())
	assert.Equal(t, 20, dc.Gyr.Len())
	assert.Equal(t, 20, dc.Merged.Len(), "accelerometer stamps are a subset of the gyroscope ones")
	assert.Equal(t, 4, dc.Resampled.Len(), "800 ms of data in 200 ms buckets")
	assert.Equal(t, 1, dc.Stats.Days)

	for _, p := range []string{cfg.Output.Artifact, cfg.Output.CSV, cfg.Output.Npy} {
		assert.FileExists(t, p)
	}

	loaded, err := views.LoadArtifact(context.Background(), cfg.Output.Artifact)
	require.NoError(t, err)
	require.Equal(t, dc.Resampled.Len(), loaded.Len())
	first := loaded.Records[0]
	assert.Equal(t, models.EpochMsToTime(t0), first.Time)
	assert.Equal(t, "A", first.Participant)
	assert.Equal(t, "bench", first.Label)
	assert.Equal(t, "heavy", first.Category)
	assert.Equal(t, 1, first.Set)
	// accelerometer rows at 0, 80 and 160 ms
	assert.InDelta(t, 2.0, first.Acc[0], 1e-9)
	assert.True(t, first.Complete())
}

func TestDatasetController_MalformedFileWritesNothing(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "raw")
	require.NoError(t, os.MkdirAll(raw, 0755))
	good := writeRaw(t, raw, "A-bench-heavy-x-Accelerometer.csv", "g", 1547222885000, 3, 80, 1)
	bad := writeRaw(t, raw, "garbage_Gyroscope.csv", "deg/s", 1547222885000, 3, 40, 1)

	cfg := testConfig(dir)
	err := NewDatasetController(cfg).BuildFrom(context.Background(), []string{good, bad})
	assert.ErrorIs(t, err, models.ErrMalformedFilename)
	assert.NoFileExists(t, cfg.Output.Artifact)
}

func TestDatasetController_NoInput(t *testing.T) {
	cfg := testConfig(t.TempDir())
	err := NewDatasetController(cfg).Build(context.Background())
	assert.ErrorIs(t, err, models.ErrUnreadableFile)
}

func TestDatasetController_Cancelled(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "raw")
	require.NoError(t, os.MkdirAll(raw, 0755))
	f := writeRaw(t, raw, "A-bench-heavy-x-Accelerometer.csv", "g", 1547222885000, 3, 80, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := testConfig(dir)
	err := NewDatasetController(cfg).BuildFrom(ctx, []string{f})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, cfg.Output.Artifact)
}

func TestDatasetController_FailedExportWritesNothing(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "raw")
	require.NoError(t, os.MkdirAll(raw, 0755))
	writeRaw(t, raw, "A-bench-heavy-x-Accelerometer.csv", "g", 1547222885000, 3, 80, 1)

	cfg := testConfig(dir)
	require.NoError(t, os.MkdirAll(cfg.Output.Npy+".tmp", 0755))

	err := NewDatasetController(cfg).Build(context.Background())
	require.Error(t, err)
	assert.NoFileExists(t, cfg.Output.Artifact)
	assert.NoFileExists(t, cfg.Output.CSV)
}

func TestDatasetController_LogsResampledSpan(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	utils.UseLogger(zap.New(core))
	t.Cleanup(func() { utils.InitLogger(utils.INFO, "") })

	dir := t.TempDir()
	raw := filepath.Join(dir, "raw")
	require.NoError(t, os.MkdirAll(raw, 0755))
	writeRaw(t, raw, "A-bench-heavy-x-Accelerometer.csv", "g", 1547222885000, 10, 80, 1)

	require.NoError(t, NewDatasetController(testConfig(dir)).Build(context.Background()))
	span := logs.FilterMessageSnippet("span").All()
	require.Len(t, span, 1)
	assert.Contains(t, span[0].Message, "2019-01-11 16:08:05.000 .. 2019-01-11 16:08:05.600")
}
