package controller

import (
	"context"
	"path/filepath"
	"time"

	"fitness-tracker/models"
	"fitness-tracker/services/analysis"
	"fitness-tracker/services/reporting"
	"fitness-tracker/services/secrets"
	"fitness-tracker/utils"
	"fitness-tracker/views"
)

// ReportController renders charts from the processed dataset, saves them
// locally and hands them to the reporter. Reporting problems never fail a
// report; only rendering and local IO errors do.
type ReportController struct {
	cfg      *utils.PipelineConfig
	reporter *reporting.Reporter
}

// NewReportController creates a controller that reports through reporter.
func NewReportController(cfg *utils.PipelineConfig, reporter *reporting.Reporter) *ReportController {
	if reporter == nil {
		reporter = reporting.Disabled()
	}
	return &ReportController{cfg: cfg, reporter: reporter}
}

// ConnectReporter fetches the tracker token from the secret manager and
// returns a live reporter. Any failure degrades to a disabled reporter.
func ConnectReporter(ctx context.Context, cfg utils.ReportingConfig) *reporting.Reporter {
	if !cfg.Enabled {
		return reporting.Disabled()
	}
	creds, err := secrets.LoadCredentials(cfg.SecretsPath)
	if err != nil {
		utils.L().Warn("reporting disabled: %v", err)
		return reporting.Disabled()
	}
	secret, err := secrets.NewClient(cfg.SecretsURL, creds, cfg.Timeout()).Fetch(ctx, cfg.SecretName, cfg.Environment)
	if err != nil {
		utils.L().Warn("reporting disabled: %v", err)
		return reporting.Disabled()
	}
	client := reporting.NewClient(cfg.TrackerURL, secret.Value, cfg.Timeout())
	return reporting.NewReporter(client.Project(cfg.Project))
}

// AxisReport renders one axis chart per group × subgroup, saves each under
// the reports directory and uploads it to a fresh run and to the project.
// It returns the local paths.
func (rc *ReportController) AxisReport(ctx context.Context, table *models.MergedTable) ([]string, error) {
	theme, err := views.ThemeFromConfig(rc.cfg.Charts, rc.cfg.Charts.AxisPalette)
	if err != nil {
		return nil, err
	}
	group, subgroup := rc.cfg.Charts.Group, rc.cfg.Charts.Subgroup

	rc.reporter.SetAttribute(ctx, "general/brief", rc.cfg.Reporting.Brief)
	rc.reporter.StartRun(ctx, reporting.RunSpec{
		CustomRunID: utils.RunID("Axis Variation", time.Now()),
		Name:        "Axis variations per " + group + "s within " + subgroup + "s",
		Description: "Registering the visualizations on the axis of both sensors.",
		Tags:        []string{"Report", "Frequencies", "Line"},
	})
	defer rc.reporter.Stop(ctx)

	utils.L().Info("generating axis charts per %s within each %s...", group, subgroup)
	charts, err := views.AxisCharts(table, group, subgroup, theme)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		p, err := views.SaveChart(filepath.Join(rc.cfg.Output.ReportsDir, "axis"), c.Key, c.PNG)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
		rc.reporter.UploadRun(ctx, "reports/figures/axis/"+c.Key, c.PNG)
		rc.reporter.UploadProject(ctx, "reports/axis/"+c.Key, c.PNG)
		utils.L().Debug("axis chart %s saved to %s", c.Key, p)
	}
	utils.L().Info("%d axis chart(s) written to %s (reporting failures=%d)",
		len(paths), rc.cfg.Output.ReportsDir, rc.reporter.Failures())
	return paths, nil
}

// DistributionReport renders one boxplot grid per sensor grouped by the
// configured column and uploads each under reports/distributions/<sensor>.
func (rc *ReportController) DistributionReport(ctx context.Context, table *models.MergedTable, sensors []string) ([]string, error) {
	theme, err := views.ThemeFromConfig(rc.cfg.Charts, rc.cfg.Charts.BoxPalette)
	if err != nil {
		return nil, err
	}
	by := rc.cfg.Charts.DistributedBy

	var paths []string
	for _, sensor := range sensors {
		png, err := views.RenderDistribution(table, sensor, by, theme)
		if err != nil {
			return paths, err
		}
		p, err := views.SaveChart(filepath.Join(rc.cfg.Output.ReportsDir, "distributions"), sensor+"_by_"+by, png)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
		rc.reporter.UploadProject(ctx, "reports/distributions/"+sensor, png)
		utils.L().Info("%s distribution by %s saved to %s", sensor, by, p)
	}
	return paths, nil
}

// OutlierReport logs IQR outlier counts for every axis column.
func (rc *ReportController) OutlierReport(table *models.MergedTable) []analysis.ColumnOutliers {
	summary := analysis.Summarize(table)
	for _, s := range summary {
		utils.L().Info("  %-6s outliers=%-6d of %-7d  bounds=[%.4f, %.4f]",
			s.Column, s.Count, s.Present, s.Bounds.Lower, s.Bounds.Upper)
	}
	return summary
}

// OutlierCharts renders one IQR outlier scatter per axis column, saves it
// under the reports directory and uploads it under reports/outliers/<column>.
// No columns means all six axes.
func (rc *ReportController) OutlierCharts(ctx context.Context, table *models.MergedTable, columns []string) ([]string, error) {
	if len(columns) == 0 {
		columns = models.AxisColumns
	}
	theme, err := views.ThemeFromConfig(rc.cfg.Charts, rc.cfg.Charts.OutlierPalette)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, column := range columns {
		axis, err := views.AxisIndex(column)
		if err != nil {
			return paths, err
		}
		marks, b := analysis.MarkIQR(table.AxisValues(axis))
		png, err := views.RenderOutliers(table, column, marks, theme)
		if err != nil {
			return paths, err
		}
		p, err := views.SaveChart(filepath.Join(rc.cfg.Output.ReportsDir, "outliers"), column, png)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
		rc.reporter.UploadProject(ctx, "reports/outliers/"+column, png)
		utils.L().Info("%s outlier chart saved to %s  bounds=[%.4f, %.4f]", column, p, b.Lower, b.Upper)
	}
	return paths, nil
}
