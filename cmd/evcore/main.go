package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"evcore/adapters/excel"
	"evcore/adapters/report"
	"evcore/app"
	domainCompliance "evcore/domain/compliance"
	"evcore/domain/ev"
	"evcore/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	rootCmd := &cobra.Command{
		Use:   "evcore",
		Short: "EV anomaly detection and best-practice compliance scoring",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newCheckCmd(),
		newReportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// analysisFlags holds the anomaly/binning overrides shared by subcommands.
type analysisFlags struct {
	column             string
	method             string
	zscoreThreshold    float64
	iqrFactor          float64
	binCount           int
	highlightThreshold float64
	demoFallback       bool
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.column, "column", "", "measurement column name (default: first numeric column)")
	cmd.Flags().StringVar(&f.method, "method", "", "detection method: zscore, iqr or both")
	cmd.Flags().Float64Var(&f.zscoreThreshold, "zscore", 0, "z-score threshold in sigmas")
	cmd.Flags().Float64Var(&f.iqrFactor, "iqr-factor", 0, "IQR fence multiplier")
	cmd.Flags().IntVar(&f.binCount, "bins", 0, "histogram bin count")
	cmd.Flags().Float64Var(&f.highlightThreshold, "highlight", 0, "hot-bin anomaly percentage threshold")
	cmd.Flags().BoolVar(&f.demoFallback, "demo-fallback", false, "emit a synthetic placeholder histogram for empty input")
}

// apply loads env config and layers the explicitly set flags on top.
func (f *analysisFlags) apply(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("method") {
		cfg.Anomaly.Method = ev.DetectionMethod(f.method)
	}
	if cmd.Flags().Changed("zscore") {
		cfg.Anomaly.ZScoreThreshold = f.zscoreThreshold
	}
	if cmd.Flags().Changed("iqr-factor") {
		cfg.Anomaly.IQRFactor = f.iqrFactor
	}
	if cmd.Flags().Changed("bins") {
		cfg.Histogram.BinCount = f.binCount
	}
	if cmd.Flags().Changed("highlight") {
		cfg.Histogram.HighlightThreshold = f.highlightThreshold
	}
	if cmd.Flags().Changed("demo-fallback") {
		cfg.Histogram.DemoFallback = f.demoFallback
	}
	if err := cfg.Anomaly.Validate(); err != nil {
		return nil, err
	}
	if cfg.Histogram.BinCount < 1 {
		return nil, fmt.Errorf("bin count must be at least 1")
	}
	return cfg, nil
}

func loadSeries(path, column string) (string, ev.MeasurementSeries, error) {
	mf, err := excel.NewDataReader(path).ReadData()
	if err != nil {
		return "", nil, err
	}
	if column != "" {
		series, err := mf.Series(column)
		return column, series, err
	}
	return mf.FirstSeries()
}

func newAnalyzeCmd() *cobra.Command {
	flags := &analysisFlags{}

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Classify anomalies and bin a measurement file",
		Long: `Read a CSV or XLSX measurement export, flag anomalous events and emit the
binned histogram, series profile and anomaly indices as JSON.

Example: evcore analyze sizes.csv --column diameter_nm --method both --zscore 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.apply(cmd)
			if err != nil {
				return err
			}
			label, series, err := loadSeries(args[0], flags.column)
			if err != nil {
				return err
			}

			service := app.NewAnalysisService(cfg)
			run, err := service.Analyze(cmd.Context(), label, series)
			if err != nil {
				return err
			}
			return printJSON(cmd, run)
		},
	}

	flags.register(cmd)
	return cmd
}

func newCheckCmd() *cobra.Command {
	flags := &analysisFlags{}
	var measurements string

	cmd := &cobra.Command{
		Use:   "check [metadata.json]",
		Short: "Score experiment metadata against EV best practices",
		Long: `Evaluate an experiment record against the best-practice rule table.
With --measurements, size statistics missing from the record are derived
from the measurement file first.

Example: evcore check experiment.json --measurements sizes.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadExperimentData(args[0])
			if err != nil {
				return err
			}

			cfg, err := flags.apply(cmd)
			if err != nil {
				return err
			}
			service := app.NewAnalysisService(cfg)

			if measurements != "" {
				label, series, err := loadSeries(measurements, flags.column)
				if err != nil {
					return err
				}
				run, err := service.Analyze(cmd.Context(), label, series)
				if err != nil {
					return err
				}
				data = app.MergeRunStatistics(data, run)
			}

			return printJSON(cmd, service.EvaluateCompliance(data))
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&measurements, "measurements", "", "CSV/XLSX file to derive size statistics from")
	return cmd
}

func newReportCmd() *cobra.Command {
	flags := &analysisFlags{}
	var metadataPath, xlsxOut, markdownOut string

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Write analysis and compliance artifacts",
		Long: `Run the full pipeline over a measurement file and write an XLSX workbook
and/or markdown summary.

Example: evcore report sizes.csv --metadata experiment.json --xlsx report.xlsx --markdown report.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if xlsxOut == "" && markdownOut == "" {
				return fmt.Errorf("at least one of --xlsx or --markdown is required")
			}

			cfg, err := flags.apply(cmd)
			if err != nil {
				return err
			}
			label, series, err := loadSeries(args[0], flags.column)
			if err != nil {
				return err
			}

			service := app.NewAnalysisService(cfg)
			run, err := service.Analyze(cmd.Context(), label, series)
			if err != nil {
				return err
			}

			rep := report.Report{
				RunID:     run.ID,
				Source:    args[0],
				Histogram: run.Histogram,
				Profile:   &run.Profile,
			}

			if metadataPath != "" {
				data, err := loadExperimentData(metadataPath)
				if err != nil {
					return err
				}
				check := service.EvaluateCompliance(app.MergeRunStatistics(data, run))
				rep.Check = &check
			}

			if xlsxOut != "" {
				if err := report.WriteExcel(rep, xlsxOut); err != nil {
					return err
				}
				cmd.Printf("wrote %s\n", xlsxOut)
			}
			if markdownOut != "" {
				if err := os.WriteFile(markdownOut, []byte(report.Markdown(rep)), 0o644); err != nil {
					return err
				}
				cmd.Printf("wrote %s\n", markdownOut)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&metadataPath, "metadata", "", "experiment metadata JSON for compliance scoring")
	cmd.Flags().StringVar(&xlsxOut, "xlsx", "", "XLSX report output path")
	cmd.Flags().StringVar(&markdownOut, "markdown", "", "markdown report output path")
	return cmd
}

func loadExperimentData(path string) (domainCompliance.ExperimentData, error) {
	var data domainCompliance.ExperimentData
	raw, err := os.ReadFile(path)
	if err != nil {
		return data, err
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("failed to parse experiment metadata: %w", err)
	}
	return data, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(out))
	return nil
}
