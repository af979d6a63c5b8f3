package controller

import (
	"context"
	"time"

	"fitness-tracker/models"
	"fitness-tracker/services/ingest"
	"fitness-tracker/utils"
)

// DatasetController owns the make-dataset run: ingest, merge, resample,
// export. Any failure aborts the run before anything is persisted.
type DatasetController struct {
	cfg *utils.PipelineConfig

	Acc       *models.SensorTable
	Gyr       *models.SensorTable
	Merged    *models.MergedTable
	Resampled *models.MergedTable
	Stats     ResampleStats
}

// NewDatasetController creates a controller for cfg.
func NewDatasetController(cfg *utils.PipelineConfig) *DatasetController {
	return &DatasetController{cfg: cfg}
}

// Build runs the whole pipeline over the files matching the input glob.
func (dc *DatasetController) Build(ctx context.Context) error {
	files, err := ingest.DiscoverFiles(dc.cfg.Input.Glob)
	if err != nil {
		return err
	}
	return dc.BuildFrom(ctx, files)
}

// BuildFrom runs the pipeline over an explicit, ordered file list.
func (dc *DatasetController) BuildFrom(ctx context.Context, files []string) error {
	start := time.Now()

	utils.L().Info("reading the raw data (%d files)...", len(files))
	acc, gyr, err := ingest.NewIngestorFromConfig(dc.cfg.Input).Ingest(files)
	if err != nil {
		return err
	}
	dc.Acc, dc.Gyr = acc, gyr
	if err := ctx.Err(); err != nil {
		return err
	}

	utils.L().Info("merging the accelerometer and gyroscope tables...")
	dc.Merged, err = Merge(acc, gyr)
	if err != nil {
		return err
	}

	utils.L().Info("resampling the data and handling gaps...")
	dc.Resampled, dc.Stats, err = Resample(dc.Merged, ResampleOptions{
		Interval:    dc.cfg.Resample.Interval(),
		DropPartial: dc.cfg.Resample.DropPartial,
	})
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := NewExportController(dc.cfg.Output).Export(dc.Resampled); err != nil {
		return err
	}

	dc.LogStats()
	utils.L().Info("dataset built in %s", time.Since(start).Round(time.Millisecond))
	return nil
}

// LogStats prints the row counts of every stage.
func (dc *DatasetController) LogStats() {
	utils.L().Info("  accelerometer  rows=%d  sets=%d", dc.Acc.Len(), len(dc.Acc.Sets()))
	utils.L().Info("  gyroscope      rows=%d  sets=%d", dc.Gyr.Len(), len(dc.Gyr.Sets()))
	utils.L().Info("  merged         rows=%d", dc.Merged.Len())
	utils.L().Info("  resampled      rows=%d  days=%d  empty_days=%d",
		dc.Resampled.Len(), dc.Stats.Days, len(dc.Stats.EmptyDays))
	if n := dc.Resampled.Len(); n > 0 {
		utils.L().Info("  span           %s .. %s",
			utils.FormatTimestamp(dc.Resampled.Records[0].Time), utils.FormatTimestamp(dc.Resampled.Records[n-1].Time))
	}
}
