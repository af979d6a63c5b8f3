package views

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"fitness-tracker/models"
)

// Pool is the Go memory allocator used by Arrow.
var Pool = memory.NewGoAllocator()

// ArtifactSchema is the layout of the processed dataset on disk: the time
// index followed by the canonical merged columns. Axis cells are nullable;
// a null is a bucket in which that sensor had no reading.
var ArtifactSchema = arrow.NewSchema([]arrow.Field{
	{Name: models.IndexColumn, Type: arrow.FixedWidthTypes.Timestamp_ms},
	{Name: "acc_x", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	{Name: "acc_y", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	{Name: "acc_z", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	{Name: "gyr_x", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	{Name: "gyr_y", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	{Name: "gyr_z", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	{Name: "participant", Type: arrow.BinaryTypes.String},
	{Name: "label", Type: arrow.BinaryTypes.String},
	{Name: "category", Type: arrow.BinaryTypes.String},
	{Name: "set", Type: arrow.PrimitiveTypes.Int64},
}, nil)

// WriteArtifact persists table as a Parquet file at path. Callers that need
// the file to appear atomically write to a Stage path.
func WriteArtifact(path string, table *models.MergedTable) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	rec := buildRecord(table)
	defer rec.Release()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("artifact create %s: %w", path, err)
	}

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	w, err := pqarrow.NewFileWriter(ArtifactSchema, f, props,
		pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema()))
	if err != nil {
		f.Close()
		return fmt.Errorf("artifact writer: %w", err)
	}
	if err := w.Write(rec); err != nil {
		w.Close()
		return fmt.Errorf("artifact write: %w", err)
	}
	// closing the parquet writer also closes f
	if err := w.Close(); err != nil {
		return fmt.Errorf("artifact close: %w", err)
	}
	return nil
}

func buildRecord(table *models.MergedTable) arrow.Record {
	b := array.NewRecordBuilder(Pool, ArtifactSchema)
	defer b.Release()

	ts := b.Field(0).(*array.TimestampBuilder)
	participant := b.Field(7).(*array.StringBuilder)
	label := b.Field(8).(*array.StringBuilder)
	category := b.Field(9).(*array.StringBuilder)
	set := b.Field(10).(*array.Int64Builder)

	for i := range table.Records {
		r := &table.Records[i]
		ts.Append(arrow.Timestamp(r.Time.UnixMilli()))
		for k, v := range r.Axes() {
			fb := b.Field(1 + k).(*array.Float64Builder)
			if models.IsMissing(v) {
				fb.AppendNull()
			} else {
				fb.Append(v)
			}
		}
		participant.Append(r.Participant)
		label.Append(r.Label)
		category.Append(r.Category)
		set.Append(int64(r.Set))
	}
	return b.NewRecord()
}

// LoadArtifact reads a dataset written by WriteArtifact.
func LoadArtifact(ctx context.Context, path string) (*models.MergedTable, error) {
	pf, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, models.UnreadableFile(path, err)
	}
	defer pf.Close()

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, Pool)
	if err != nil {
		return nil, models.UnreadableFile(path, err)
	}
	tbl, err := fr.ReadTable(ctx)
	if err != nil {
		return nil, models.UnreadableFile(path, err)
	}
	defer tbl.Release()

	if err := checkSchema(tbl.Schema()); err != nil {
		return nil, models.UnreadableFile(path, err)
	}

	out := &models.MergedTable{Records: make([]models.MergedRecord, 0, tbl.NumRows())}
	tr := array.NewTableReader(tbl, 64*1024)
	defer tr.Release()
	for tr.Next() {
		appendRecords(out, tr.Record())
	}
	if err := tr.Err(); err != nil {
		return nil, models.UnreadableFile(path, err)
	}
	return out, nil
}

func checkSchema(got *arrow.Schema) error {
	names := make([]string, got.NumFields())
	for i, f := range got.Fields() {
		names[i] = f.Name
	}
	if err := CheckHeader(names); err != nil {
		return fmt.Errorf("artifact %w", err)
	}
	for i, f := range ArtifactSchema.Fields() {
		if g := got.Field(i); !arrow.TypeEqual(g.Type, f.Type) {
			return fmt.Errorf("artifact column %s is %s, want %s", f.Name, g.Type, f.Type)
		}
	}
	return nil
}

func appendRecords(out *models.MergedTable, rec arrow.Record) {
	ts := rec.Column(0).(*array.Timestamp)
	participant := rec.Column(7).(*array.String)
	label := rec.Column(8).(*array.String)
	category := rec.Column(9).(*array.String)
	set := rec.Column(10).(*array.Int64)

	for i := 0; i < int(rec.NumRows()); i++ {
		r := models.NewMergedRecord(time.UnixMilli(int64(ts.Value(i))).UTC())
		for k := 0; k < 6; k++ {
			col := rec.Column(1 + k).(*array.Float64)
			if col.IsValid(i) {
				r.SetAxis(k, col.Value(i))
			}
		}
		r.Participant = participant.Value(i)
		r.Label = label.Value(i)
		r.Category = category.Value(i)
		r.Set = int(set.Value(i))
		out.Records = append(out.Records, r)
	}
}
