package controller

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitness-tracker/models"
	"fitness-tracker/utils"
)

func TestExportController_AllOutputs(t *testing.T) {
	dir := t.TempDir()
	cfg := utils.OutputConfig{
		Artifact: filepath.Join(dir, "a", "data.parquet"),
		CSV:      filepath.Join(dir, "b", "data.csv"),
		Npy:      filepath.Join(dir, "c", "axes.npy"),
	}
	ec := NewExportController(cfg)

	tbl := &models.MergedTable{Records: []models.MergedRecord{record(at(0), 1, 2), record(at(200), 3, nan())}}
	require.NoError(t, ec.Export(tbl))
	assert.Equal(t, []string{cfg.Artifact, cfg.CSV, cfg.Npy}, ec.Written())
	assert.EqualValues(t, 2, ec.RowsWritten())
	for _, p := range ec.Written() {
		assert.FileExists(t, p)
		assert.NoFileExists(t, p+".tmp")
	}
}

func TestExportController_EmptyTableSkipsNpy(t *testing.T) {
	dir := t.TempDir()
	cfg := utils.OutputConfig{
		Artifact: filepath.Join(dir, "data.parquet"),
		Npy:      filepath.Join(dir, "axes.npy"),
	}
	ec := NewExportController(cfg)

	require.NoError(t, ec.Export(&models.MergedTable{}))
	assert.Equal(t, []string{cfg.Artifact}, ec.Written())
	assert.FileExists(t, cfg.Artifact)
	assert.NoFileExists(t, cfg.Npy)
}

func TestExportController_FailedCopyPersistsNothing(t *testing.T) {
	dir := t.TempDir()
	cfg := utils.OutputConfig{
		Artifact: filepath.Join(dir, "data.parquet"),
		CSV:      filepath.Join(dir, "data.csv"),
	}
	require.NoError(t, os.WriteFile(cfg.Artifact, []byte("previous run"), 0644))
	// a directory in the way of the CSV's temporary file makes that write fail
	require.NoError(t, os.Mkdir(cfg.CSV+".tmp", 0755))

	ec := NewExportController(cfg)
	err := ec.Export(&models.MergedTable{Records: []models.MergedRecord{record(at(0), 1, 2)}})
	require.Error(t, err)

	data, rerr := os.ReadFile(cfg.Artifact)
	require.NoError(t, rerr)
	assert.Equal(t, "previous run", string(data), "the earlier artifact is left untouched")
	assert.NoFileExists(t, cfg.Artifact+".tmp")
	assert.NoFileExists(t, cfg.CSV)
	assert.Empty(t, ec.Written())
	assert.Zero(t, ec.RowsWritten())
}
