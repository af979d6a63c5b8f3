package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"fitness-tracker/models"
)

// Columns names the housekeeping columns of a MetaMotion export. Every other
// column is read as a float axis value.
type Columns struct {
	Epoch   string // epoch milliseconds, becomes the time index
	Elapsed string // device-local elapsed seconds, dropped
	Clock   string // device-local wall clock, dropped
}

// MinAxisColumns is the number of axis columns a file must carry: the X, Y
// and Z readings the merged table is built from.
const MinAxisColumns = 3

// DefaultColumns matches the MetaMotion CSV exports.
var DefaultColumns = Columns{
	Epoch:   "epoch (ms)",
	Elapsed: "elapsed (s)",
	Clock:   "time (01:00)",
}

// RawFile is one export after parsing: time index plus axis values.
type RawFile struct {
	Path        string
	AxisColumns []string
	Times       []time.Time
	Axes        [][]float64
}

// Len returns the number of data rows.
func (f *RawFile) Len() int { return len(f.Times) }

// ReadSensorFile parses a MetaMotion CSV export. A missing file, a file
// without the epoch column or with fewer than MinAxisColumns axis columns,
// a malformed value or a file without data rows yields
// models.ErrUnreadableFile naming path.
func ReadSensorFile(path string, cols Columns) (*RawFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, models.UnreadableFile(path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, models.UnreadableFile(path, errors.New("empty file"))
	}
	if err != nil {
		return nil, models.UnreadableFile(path, err)
	}

	epochIdx := -1
	var axisIdx []int
	out := &RawFile{Path: path}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch h {
		case cols.Epoch:
			epochIdx = i
		case cols.Elapsed, cols.Clock:
		default:
			axisIdx = append(axisIdx, i)
			out.AxisColumns = append(out.AxisColumns, h)
		}
	}
	if epochIdx < 0 {
		return nil, models.UnreadableFile(path, fmt.Errorf("missing %q column", cols.Epoch))
	}
	if len(axisIdx) < MinAxisColumns {
		return nil, models.UnreadableFile(path, fmt.Errorf("has %d axis column(s), need %d", len(axisIdx), MinAxisColumns))
	}

	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, models.UnreadableFile(path, err)
		}
		ms, err := parseEpoch(rec[epochIdx])
		if err != nil {
			return nil, models.UnreadableFile(path, fmt.Errorf("line %d: %w", line, err))
		}
		axes := make([]float64, len(axisIdx))
		for j, idx := range axisIdx {
			v, err := parseAxis(rec[idx])
			if err != nil {
				return nil, models.UnreadableFile(path, fmt.Errorf("line %d column %q: %w", line, out.AxisColumns[j], err))
			}
			axes[j] = v
		}
		out.Times = append(out.Times, models.EpochMsToTime(ms))
		out.Axes = append(out.Axes, axes)
	}

	if out.Len() == 0 {
		return nil, models.UnreadableFile(path, errors.New("no data rows"))
	}
	return out, nil
}

func parseEpoch(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid epoch %q", s)
	}
	return int64(f), nil
}

func parseAxis(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.Missing(), nil
	}
	return strconv.ParseFloat(s, 64)
}
