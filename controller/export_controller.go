package controller

import (
	"fitness-tracker/models"
	"fitness-tracker/utils"
	"fitness-tracker/views"
)

// ExportController is the final pipeline stage. It writes the resampled
// table to:
//   - the Parquet artifact (always)
//   - a CSV copy (optional)
//   - an N×6 numpy axis matrix (optional)
//
// Every output goes to a temporary sibling first. The files are moved into
// place only once all of them were written, so a failed export persists
// nothing.
type ExportController struct {
	cfg utils.OutputConfig

	rowsWritten uint64
	written     []string
}

// NewExportController creates an export stage for cfg.
func NewExportController(cfg utils.OutputConfig) *ExportController {
	return &ExportController{cfg: cfg}
}

// Export persists table.
func (ec *ExportController) Export(table *models.MergedTable) error {
	var st views.Stage
	defer st.Discard()

	tmp, err := st.Path(ec.cfg.Artifact)
	if err != nil {
		return err
	}
	if err := views.WriteArtifact(tmp, table); err != nil {
		return err
	}
	outputs := []string{ec.cfg.Artifact}

	if ec.cfg.CSV != "" {
		tmp, err := st.Path(ec.cfg.CSV)
		if err != nil {
			return err
		}
		if _, err := views.WriteTableCSV(tmp, ec.cfg.BufferSize*1024, table); err != nil {
			return err
		}
		outputs = append(outputs, ec.cfg.CSV)
	}

	if ec.cfg.Npy != "" && table.Len() > 0 {
		tmp, err := st.Path(ec.cfg.Npy)
		if err != nil {
			return err
		}
		if err := views.WriteAxisNpy(tmp, table); err != nil {
			return err
		}
		outputs = append(outputs, ec.cfg.Npy)
	}

	if err := st.Commit(); err != nil {
		return err
	}
	ec.rowsWritten = uint64(table.Len())
	ec.written = append(ec.written, outputs...)
	for _, p := range outputs {
		utils.L().Info("written  path=%s rows=%d", p, table.Len())
	}
	return nil
}

// Written returns the paths produced so far.
func (ec *ExportController) Written() []string { return ec.written }

// RowsWritten returns the number of dataset rows persisted.
func (ec *ExportController) RowsWritten() uint64 { return ec.rowsWritten }
