package views

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"

	"fitness-tracker/models"
)

// CSVWriter streams models.CSVRowWriter rows into a buffered CSV file.
// Encoding errors are sticky and reported by Close.
type CSVWriter struct {
	file *os.File
	buf  *bufio.Writer
	csv  *csv.Writer
	rows uint64
}

// NewCSVWriter creates path and writes header.
func NewCSVWriter(path string, bufSizeBytes int, header []string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv create %s: %w", path, err)
	}
	if bufSizeBytes <= 0 {
		bufSizeBytes = 256 * 1024
	}

	bw := bufio.NewWriterSize(f, bufSizeBytes)
	w := &CSVWriter{file: f, buf: bw, csv: csv.NewWriter(bw)}
	if len(header) > 0 {
		if err := w.csv.Write(header); err != nil {
			f.Close()
			return nil, fmt.Errorf("csv write header: %w", err)
		}
	}
	return w, nil
}

// Write encodes one model row.
func (w *CSVWriter) Write(r models.CSVRowWriter) {
	w.WriteRow(r.CSVRow())
}

// WriteRow appends raw cells.
func (w *CSVWriter) WriteRow(row []string) {
	_ = w.csv.Write(row)
	w.rows++
}

// Close flushes remaining data and closes the file.
func (w *CSVWriter) Close() error {
	w.csv.Flush()
	err := w.csv.Error()
	if err == nil {
		err = w.buf.Flush()
	}
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("csv flush %s: %w", w.file.Name(), err)
	}
	return nil
}

// Rows returns the number of data rows written, header excluded.
func (w *CSVWriter) Rows() uint64 { return w.rows }

// WriteTableCSV exports every record of table with the merged header.
func WriteTableCSV(path string, bufSizeBytes int, table *models.MergedTable) (uint64, error) {
	w, err := NewCSVWriter(path, bufSizeBytes, MergedHeader)
	if err != nil {
		return 0, err
	}
	for i := range table.Records {
		w.Write(&table.Records[i])
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	return w.Rows(), nil
}
