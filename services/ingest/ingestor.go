package ingest

import (
	"fmt"
	"path/filepath"
	"sort"

	"fitness-tracker/models"
	"fitness-tracker/utils"
)

// Ingestor turns a list of raw exports into one labelled table per sensor
// kind. Each kind keeps its own set counter, starting at 1 and advancing
// once per file of that kind. Counters restart on every Ingest call.
type Ingestor struct {
	names   FilenameOptions
	columns Columns

	accSet int
	gyrSet int
}

// NewIngestor creates an ingestor with both set counters at 1.
func NewIngestor(names FilenameOptions, cols Columns) *Ingestor {
	return &Ingestor{names: names, columns: cols, accSet: 1, gyrSet: 1}
}

// NewIngestorFromConfig builds an ingestor from the input section of pipeline.yaml.
func NewIngestorFromConfig(cfg utils.InputConfig) *Ingestor {
	return NewIngestor(
		FilenameOptions{PathPrefix: cfg.PathPrefix, DeviceSuffix: cfg.DeviceSuffix},
		Columns{Epoch: cfg.EpochColumn, Elapsed: cfg.ElapsedColumn, Clock: cfg.ClockColumn},
	)
}

// Ingest reads paths in order. The first malformed name or unreadable file
// aborts the whole ingestion; no partial tables are returned.
func (in *Ingestor) Ingest(paths []string) (acc, gyr *models.SensorTable, err error) {
	in.accSet, in.gyrSet = 1, 1
	acc = models.NewSensorTable(models.Accelerometer)
	gyr = models.NewSensorTable(models.Gyroscope)

	for _, p := range paths {
		meta, err := ParseFilename(p, in.names)
		if err != nil {
			return nil, nil, err
		}
		raw, err := ReadSensorFile(p, in.columns)
		if err != nil {
			return nil, nil, err
		}

		table, set := acc, &in.accSet
		if meta.Kind == models.Gyroscope {
			table, set = gyr, &in.gyrSet
		}
		if err := appendFile(table, raw, meta, *set); err != nil {
			return nil, nil, err
		}
		utils.L().Debug("ingested %-60s kind=%s set=%d rows=%d", filepath.Base(p), meta.Kind, *set, raw.Len())
		*set++
	}

	utils.L().Info("ingestion done  accelerometer=%d rows/%d sets  gyroscope=%d rows/%d sets",
		acc.Len(), in.accSet-1, gyr.Len(), in.gyrSet-1)
	return acc, gyr, nil
}

func appendFile(table *models.SensorTable, raw *RawFile, meta models.Metadata, set int) error {
	if table.AxisColumns == nil {
		table.AxisColumns = raw.AxisColumns
	} else if len(raw.AxisColumns) != len(table.AxisColumns) {
		return models.UnreadableFile(raw.Path, fmt.Errorf("has %d axis columns, %s table has %d",
			len(raw.AxisColumns), table.Kind, len(table.AxisColumns)))
	}
	for i := range raw.Times {
		table.Rows = append(table.Rows, models.Sample{
			Time:        raw.Times[i],
			Axes:        raw.Axes[i],
			Participant: meta.Participant,
			Label:       meta.Label,
			Category:    meta.Category,
			Set:         set,
		})
	}
	return nil
}

// DiscoverFiles expands glob into a sorted list of paths. No match is an error.
func DiscoverFiles(glob string) ([]string, error) {
	paths, err := filepath.Glob(glob)
	if err != nil {
		return nil, fmt.Errorf("expand %q: %w", glob, err)
	}
	if len(paths) == 0 {
		return nil, models.UnreadableFile(glob, fmt.Errorf("no files match"))
	}
	sort.Strings(paths)
	return paths, nil
}
