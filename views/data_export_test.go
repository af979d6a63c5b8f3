package views

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTableCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	n, err := WriteTableCSV(path, 0, sampleTable())
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6)

	require.NoError(t, CheckHeader(rows[0]))
	assert.Equal(t, []string{
		"1547222885000", "0.010000", "-0.970000", "0.200000", "1.500000", "-2.500000", "3.000000",
		"A", "bench", "heavy", "1",
	}, rows[1])
	assert.Equal(t, []string{"", "", ""}, rows[2][4:7], "missing gyroscope cells are empty")
}

func TestCSVWriter_Rows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.csv")
	w, err := NewCSVWriter(path, 16, []string{"a", "b"})
	require.NoError(t, err)
	w.WriteRow([]string{"1", "2"})
	w.WriteRow([]string{"3", "4"})
	require.NoError(t, w.Close())
	assert.EqualValues(t, 2, w.Rows())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n3,4\n", string(data))
}

func TestCheckHeader(t *testing.T) {
	assert.NoError(t, CheckHeader(MergedHeader))
	assert.Equal(t, "epoch (ms)", MergedHeader[0])
	assert.Error(t, CheckHeader([]string{"epoch (ms)"}))

	swapped := append([]string(nil), MergedHeader...)
	swapped[1], swapped[2] = swapped[2], swapped[1]
	assert.Error(t, CheckHeader(swapped))
}

func TestAxisIndex(t *testing.T) {
	i, err := AxisIndex("gyr_y")
	require.NoError(t, err)
	assert.Equal(t, 4, i)
	_, err = AxisIndex("set")
	assert.Error(t, err)
}

func TestSensorAxes(t *testing.T) {
	cols, idx, err := SensorAxes("Gyroscope")
	require.NoError(t, err)
	assert.Equal(t, []string{"gyr_x", "gyr_y", "gyr_z"}, cols)
	assert.Equal(t, []int{3, 4, 5}, idx)

	_, _, err = SensorAxes("gyroscope")
	assert.Error(t, err)
}
