package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"statdesc/adapters/datareadiness/coercer"
	"statdesc/adapters/excel"
	"statdesc/adapters/plot"
	"statdesc/app"
	"statdesc/internal"
	"statdesc/internal/config"
	"statdesc/internal/synthetic"
	"statdesc/ports"
)

var (
	cfgFile  string
	logLevel string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "statdesc",
		Short:         "Descriptive statistics for tabular numeric data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./statdesc.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: ERROR|WARN|INFO|DEBUG|TRACE")

	rootCmd.AddCommand(
		newDescribeCmd(),
		newGenerateCmd(),
		newDemoCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, *internal.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, internal.NewLogger(cfg.LogLevel()), nil
}

func newService(cfg *config.Config, logger *internal.Logger) (*app.DescribeService, error) {
	opts := excel.ReadOptions{
		Sheet:     cfg.Input.Sheet,
		Delimiter: cfg.DelimiterRune(),
		Header:    cfg.Input.Header,
	}
	open := func(path string) (ports.TableSource, error) {
		r, err := excel.NewDataReader(path, opts, logger.With("reader"))
		if err != nil {
			return nil, err
		}
		return r, nil
	}

	var renderer ports.Renderer
	if cfg.Plot.Dir != "" && cfg.Analysis.Show > 0 {
		r, err := plot.NewChartRenderer(cfg.Plot.Dir, cfg.Plot.Width, cfg.Plot.Height, logger)
		if err != nil {
			return nil, err
		}
		renderer = r
	}

	return app.NewDescribeService(cfg, open, coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()), renderer, logger), nil
}

func newDescribeCmd() *cobra.Command {
	var (
		missing   string
		labels    []string
		alpha     float64
		show      int
		format    string
		plotDir   string
		sheet     string
		delimiter string
		noHeader  bool
	)

	cmd := &cobra.Command{
		Use:   "describe <file>",
		Short: "Describe the numeric columns of a CSV, TSV or XLSX file",
		Long: `Compute per-column descriptive statistics (mean, STD, 95% confidence
interval, range, quartiles, Shapiro-Wilk normality) and, for several columns,
Bartlett's or Levene's test for equality of variances.

Flags override values from the config file and STATDESC_* environment
variables.

Example: statdesc describe data.csv --missing -999 --format markdown --plot-dir plots`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("missing") {
				cfg.Analysis.Missing = missing
			}
			if flags.Changed("labels") {
				cfg.Analysis.Labels = labels
			}
			if flags.Changed("alpha") {
				cfg.Analysis.Alpha = alpha
			}
			if flags.Changed("show") {
				cfg.Analysis.Show = show
			}
			if flags.Changed("format") {
				cfg.Report.Format = format
			}
			if flags.Changed("plot-dir") {
				cfg.Plot.Dir = plotDir
			}
			if flags.Changed("sheet") {
				cfg.Input.Sheet = sheet
			}
			if flags.Changed("delimiter") {
				cfg.Input.Delimiter = delimiter
			}
			if flags.Changed("no-header") {
				cfg.Input.Header = !noHeader
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			svc, err := newService(cfg, logger)
			if err != nil {
				return err
			}
			_, err = svc.DescribeFile(cmd.Context(), args[0], cmd.OutOrStdout())
			return err
		},
	}

	defaults := config.Default()
	cmd.Flags().StringVar(&missing, "missing", defaults.Analysis.Missing, `Missing-value marker: "nan" or a number`)
	cmd.Flags().StringSliceVar(&labels, "labels", nil, "Column labels (default: header row, then column numbers)")
	cmd.Flags().Float64Var(&alpha, "alpha", defaults.Analysis.Alpha, "Significance level for plot titles")
	cmd.Flags().IntVar(&show, "show", defaults.Analysis.Show, "Plots: 0 none, 1 all-variable plots, 2 also one per variable")
	cmd.Flags().StringVar(&format, "format", defaults.Report.Format, "Report format: text|markdown|html|json|yaml")
	cmd.Flags().StringVar(&plotDir, "plot-dir", "", "Directory for PNG plots (empty disables plotting)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "XLSX sheet (default first sheet)")
	cmd.Flags().StringVar(&delimiter, "delimiter", defaults.Input.Delimiter, "CSV field delimiter")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "First row holds data, not column names")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var (
		rows        int
		cols        int
		seed        int64
		missingRate float64
		sentinel    string
		shapes      []string
		decimals    int
		out         string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a seeded synthetic dataset to CSV or XLSX",
		Long: `Generate a deterministic dataset for trying out describe. Column j is drawn
with mean 10j and scale j from the given shapes, cycled over the columns.

Example: statdesc generate --rows 200 --cols 4 --missing-rate 0.05 --sentinel -999 --out data.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := synthetic.Config{
				Rows:        rows,
				Cols:        cols,
				Seed:        seed,
				MissingRate: missingRate,
				Decimals:    decimals,
			}
			for _, s := range shapes {
				gen.Shapes = append(gen.Shapes, synthetic.Shape(s))
			}
			if cmd.Flags().Changed("sentinel") {
				v, err := strconv.ParseFloat(sentinel, 64)
				if err != nil {
					return fmt.Errorf("invalid sentinel %q: %w", sentinel, err)
				}
				gen.Sentinel = &v
			}

			ds, err := synthetic.Generate(gen)
			if err != nil {
				return err
			}
			if err := synthetic.Write(out, ds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows x %d columns to %s\n", rows, cols, out)
			return nil
		},
	}

	defaults := synthetic.DefaultConfig()
	cmd.Flags().IntVar(&rows, "rows", defaults.Rows, "Number of rows")
	cmd.Flags().IntVar(&cols, "cols", defaults.Cols, "Number of columns")
	cmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Random seed")
	cmd.Flags().Float64Var(&missingRate, "missing-rate", 0, "Probability that a cell is missing")
	cmd.Flags().StringVar(&sentinel, "sentinel", "", "Number written for missing cells (default NaN)")
	cmd.Flags().StringSliceVar(&shapes, "shapes", nil, "Column shapes: normal|uniform|exponential")
	cmd.Flags().IntVar(&decimals, "decimals", defaults.Decimals, "Decimal places")
	cmd.Flags().StringVar(&out, "out", "", "Output file (.csv or .xlsx)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newDemoCmd() *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Describe 100x3 standard normal data labelled A, B and C",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if len(cfg.Analysis.Labels) == 0 {
				cfg.Analysis.Labels = []string{"A", "B", "C"}
			}

			svc, err := newService(cfg, logger)
			if err != nil {
				return err
			}
			_, err = svc.Describe(cmd.Context(), synthetic.Normal(100, 3, seed), cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")
	return cmd
}
