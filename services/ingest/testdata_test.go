package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const metaMotionHeader = "epoch (ms),time (01:00),elapsed (s),x-axis (g),y-axis (g),z-axis (g)"

// writeExport writes a MetaMotion-style CSV with one row per epoch stamp.
func writeExport(t *testing.T, dir, name string, epochs ...int64) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(metaMotionHeader + "\n")
	for i, ms := range epochs {
		fmt.Fprintf(&b, "%d,2019-01-11T16:08:05.200,%.3f,%.3f,%.3f,%.3f\n",
			ms, float64(i)*0.08, 0.01*float64(i), -0.97+0.001*float64(i), 0.2)
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	return path
}
