package utils

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ─── Section configs ────────────────────────────────────────────────────

// InputConfig locates the raw MetaMotion exports and describes their layout.
type InputConfig struct {
	Glob          string `yaml:"glob"`
	PathPrefix    string `yaml:"path_prefix"`   // stripped before parsing the file name
	DeviceSuffix  string `yaml:"device_suffix"` // e.g. "_MetaWear_2019"
	EpochColumn   string `yaml:"epoch_column"`
	ElapsedColumn string `yaml:"elapsed_column"`
	ClockColumn   string `yaml:"clock_column"`
}

// ResampleConfig controls bucket aggregation.
type ResampleConfig struct {
	IntervalMs  int  `yaml:"interval_ms"`
	DropPartial bool `yaml:"drop_partial"` // drop buckets with any missing axis
}

// Interval returns the bucket width as a duration.
func (r ResampleConfig) Interval() time.Duration {
	return time.Duration(r.IntervalMs) * time.Millisecond
}

// OutputConfig names the persisted artifacts.
type OutputConfig struct {
	Artifact   string `yaml:"artifact"`    // parquet dataset
	CSV        string `yaml:"csv"`         // optional CSV copy
	Npy        string `yaml:"npy"`         // optional N×6 axis matrix
	BufferSize int    `yaml:"buffer_size_kb"`
	ReportsDir string `yaml:"reports_dir"` // rendered charts
}

// ChartConfig is the YAML face of views.Theme.
type ChartConfig struct {
	DarkTheme      bool    `yaml:"dark_theme"`
	AxisPalette    string  `yaml:"axis_palette"`
	BoxPalette     string  `yaml:"box_palette"`
	OutlierPalette string  `yaml:"outlier_palette"`
	DPI            int     `yaml:"dpi"`
	WidthInches    float64 `yaml:"width_inches"`
	HeightInches   float64 `yaml:"height_inches"`
	Group          string  `yaml:"group"`
	Subgroup       string  `yaml:"subgroup"`
	DistributedBy  string  `yaml:"distributed_by"`
}

// ReportingConfig wires the optional secret manager and experiment tracker.
type ReportingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	SecretsPath string `yaml:"secrets_path"`
	SecretsURL  string `yaml:"secrets_url"`
	SecretName  string `yaml:"secret_name"`
	Environment string `yaml:"environment"`
	TrackerURL  string `yaml:"tracker_url"`
	Project     string `yaml:"project"`
	Brief       string `yaml:"brief"`
	TimeoutSec  int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-request HTTP timeout.
func (r ReportingConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSec) * time.Second
}

// PipelineConfig is the top-level structure for pipeline.yaml.
type PipelineConfig struct {
	LogLevel  string          `yaml:"log_level"`
	Input     InputConfig     `yaml:"input"`
	Resample  ResampleConfig  `yaml:"resample"`
	Output    OutputConfig    `yaml:"output"`
	Charts    ChartConfig     `yaml:"charts"`
	Reporting ReportingConfig `yaml:"reporting"`
}

// DefaultPipelineConfig mirrors the layout of the MetaMotion dataset.
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		LogLevel: "info",
		Input: InputConfig{
			Glob:          "data/raw/MetaMotion/*.csv",
			PathPrefix:    "data/raw/MetaMotion/",
			DeviceSuffix:  "_MetaWear_2019",
			EpochColumn:   "epoch (ms)",
			ElapsedColumn: "elapsed (s)",
			ClockColumn:   "time (01:00)",
		},
		Resample: ResampleConfig{IntervalMs: 200},
		Output: OutputConfig{
			Artifact:   "data/interim/01_processed_data.parquet",
			BufferSize: 256,
			ReportsDir: "reports/figures",
		},
		Charts: ChartConfig{
			AxisPalette:    "dark",
			BoxPalette:     "Set3",
			OutlierPalette: "rocket",
			DPI:            300,
			WidthInches:    15,
			HeightInches:   10,
			Group:          "participant",
			Subgroup:       "label",
			DistributedBy:  "category",
		},
		Reporting: ReportingConfig{
			SecretsPath: ".secrets.json",
			SecretsURL:  "https://app.infisical.com",
			SecretName:  "NEPTUNE",
			Environment: "dev",
			Brief:       "Exploratory analysis of MetaMotion barbell exercise recordings.",
			TimeoutSec:  30,
		},
	}
}

// ─── Loaders ────────────────────────────────────────────────────────────

// LoadPipelineConfig reads pipeline.yaml over the defaults. An empty path
// yields the defaults.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	cfg := DefaultPipelineConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read pipeline config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse pipeline config: %w", err)
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML.
func (c *PipelineConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal pipeline config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write pipeline config: %w", err)
	}
	return nil
}

func (c *PipelineConfig) applyEnvOverrides() {
	if v := os.Getenv("FITNESS_SECRETS_PATH"); v != "" {
		c.Reporting.SecretsPath = v
	}
	if v := os.Getenv("FITNESS_SECRETS_URL"); v != "" {
		c.Reporting.SecretsURL = v
	}
	if v := os.Getenv("FITNESS_TRACKER_URL"); v != "" {
		c.Reporting.TrackerURL = v
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c *PipelineConfig) Validate() error {
	if c.Input.Glob == "" {
		return fmt.Errorf("input.glob must be set")
	}
	if c.Input.EpochColumn == "" {
		return fmt.Errorf("input.epoch_column must be set")
	}
	if c.Resample.IntervalMs <= 0 {
		return fmt.Errorf("resample.interval_ms must be positive, got %d", c.Resample.IntervalMs)
	}
	if c.Output.Artifact == "" {
		return fmt.Errorf("output.artifact must be set")
	}
	if c.Reporting.Enabled {
		if c.Reporting.TrackerURL == "" {
			return fmt.Errorf("reporting.tracker_url must be set when reporting is enabled")
		}
		if c.Reporting.Project == "" {
			return fmt.Errorf("reporting.project must be set when reporting is enabled")
		}
	}
	return nil
}
