package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fitness-tracker/controller"
	"fitness-tracker/models"
	"fitness-tracker/utils"
	"fitness-tracker/views"
)

var (
	// Global flags
	configPath string
	logFile    string
	verbose    bool

	plotOutliers bool

	cfg *utils.PipelineConfig
)

var rootCmd = &cobra.Command{
	Use:   "fitness-tracker",
	Short: "MetaMotion fitness data pipeline",
	Long: `Builds a 200 ms resampled dataset out of raw MetaMotion accelerometer and
gyroscope exports, and renders diagnostic charts from it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = utils.LoadPipelineConfig(configPath)
		if err != nil {
			return err
		}
		level := utils.ParseLogLevel(cfg.LogLevel)
		if verbose {
			level = utils.DEBUG
		}
		utils.InitLogger(level, logFile)
		utils.L().Info("fitness-tracker · %s · PID=%d", cmd.Name(), os.Getpid())
		return nil
	},
}

var makeDatasetCmd = &cobra.Command{
	Use:   "make-dataset",
	Short: "Ingest raw exports, merge, resample and persist the dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		dc := controller.NewDatasetController(cfg)
		var err error
		if len(args) > 0 {
			err = dc.BuildFrom(cmd.Context(), args)
		} else {
			err = dc.Build(cmd.Context())
		}
		if err != nil {
			return err
		}
		fmt.Println("✓ dataset written to:", cfg.Output.Artifact)
		return nil
	},
}

var visualizeCmd = &cobra.Command{
	Use:   "visualize",
	Short: "Render axis charts per participant and label",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := views.LoadArtifact(cmd.Context(), cfg.Output.Artifact)
		if err != nil {
			return err
		}
		rc := controller.NewReportController(cfg, controller.ConnectReporter(cmd.Context(), cfg.Reporting))
		_, err = rc.AxisReport(cmd.Context(), table)
		return err
	},
}

var distributionsCmd = &cobra.Command{
	Use:   "distributions [sensor...]",
	Short: "Render per-category boxplots of each sensor's axes",
	RunE: func(cmd *cobra.Command, args []string) error {
		sensors := args
		if len(sensors) == 0 {
			sensors = []string{models.Accelerometer.String(), models.Gyroscope.String()}
		}
		table, err := views.LoadArtifact(cmd.Context(), cfg.Output.Artifact)
		if err != nil {
			return err
		}
		rc := controller.NewReportController(cfg, controller.ConnectReporter(cmd.Context(), cfg.Reporting))
		_, err = rc.DistributionReport(cmd.Context(), table, sensors)
		return err
	},
}

var outliersCmd = &cobra.Command{
	Use:   "outliers",
	Short: "Report IQR outliers per axis column",
	Long: `Logs IQR outlier counts for every axis column. With --plot, also renders
an outlier scatter for each column given as argument (all six when none).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := views.LoadArtifact(cmd.Context(), cfg.Output.Artifact)
		if err != nil {
			return err
		}
		controller.NewReportController(cfg, nil).OutlierReport(table)
		if !plotOutliers {
			return nil
		}
		rc := controller.NewReportController(cfg, controller.ConnectReporter(cmd.Context(), cfg.Reporting))
		_, err = rc.OutlierCharts(cmd.Context(), table, args)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/pipeline.yaml", "path to pipeline.yaml (empty for defaults)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "optional log file path (stdout is always included)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	outliersCmd.Flags().BoolVar(&plotOutliers, "plot", false, "render an outlier chart per column into the reports dir")

	rootCmd.AddCommand(makeDatasetCmd, visualizeCmd, distributionsCmd, outliersCmd)
}

// run executes the command line and always flushes the logger, also when
// the command failed.
func run(ctx context.Context, args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		utils.L().Error("%s failed: %v", rootCmd.Name(), err)
	}
	utils.L().Close()
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
