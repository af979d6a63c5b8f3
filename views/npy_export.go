package views

import (
	"fmt"

	"github.com/kshedden/gonpy"
	"gonum.org/v1/gonum/mat"

	"fitness-tracker/models"
)

// AxisMatrix lays the six axis columns of table out as an N×6 matrix.
// Missing cells stay NaN.
func AxisMatrix(table *models.MergedTable) *mat.Dense {
	if table.Len() == 0 {
		return nil
	}
	m := mat.NewDense(table.Len(), len(models.AxisColumns), nil)
	for i := range table.Records {
		axes := table.Records[i].Axes()
		m.SetRow(i, axes[:])
	}
	return m
}

// WriteAxisNpy writes the axis matrix of table as a numpy .npy file.
func WriteAxisNpy(path string, table *models.MergedTable) error {
	m := AxisMatrix(table)
	if m == nil {
		return fmt.Errorf("npy %s: empty table", path)
	}
	rows, cols := m.Dims()

	w, err := gonpy.NewFileWriter(path)
	if err != nil {
		return fmt.Errorf("npy open %s: %w", path, err)
	}
	w.Shape = []int{rows, cols}
	w.Version = 2
	// gonpy closes the file once the data is written
	if err := w.WriteFloat64(m.RawMatrix().Data); err != nil {
		return fmt.Errorf("npy write %s: %w", path, err)
	}
	return nil
}

// ReadAxisNpy loads an N×6 matrix written by WriteAxisNpy.
func ReadAxisNpy(path string) (*mat.Dense, error) {
	r, err := gonpy.NewFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("npy open %s: %w", path, err)
	}
	if len(r.Shape) != 2 {
		return nil, fmt.Errorf("npy %s: want 2-d array, got shape %v", path, r.Shape)
	}
	data, err := r.GetFloat64()
	if err != nil {
		return nil, fmt.Errorf("npy read %s: %w", path, err)
	}
	return mat.NewDense(r.Shape[0], r.Shape[1], data), nil
}
