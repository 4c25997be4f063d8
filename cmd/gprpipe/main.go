package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	logLevel    string
	configFile  string
	preset      string
	ledgerPath  string
	metricsFile string
	// Scenario overrides
	frequencyGHz float64
	soilName     string
	waterContent float64
	fillRatio    float64
	geometryMode string
	quiet        bool
	// Sweep
	sweepWorkers int
	useTUI       bool
	// Curve
	curveGHz    float64
	temperature float64
	curveFrom   float64
	curveTo     float64
	curvePoints int
	// Batch
	solver        string
	solverArgs    []string
	solverTimeout time.Duration
	solverWorkers int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "gprpipe",
		Short:         "buried pipe GPR scenario generator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			if ledgerPath == "" {
				ledgerPath = filepath.Join(dataDir, "ledger.db")
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "gpr_out", "output directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&ledgerPath, "ledger", "", "outcome ledger database (default <data>/ledger.db)")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "assemble and write one scenario",
		Args:  cobra.NoArgs,
		RunE:  generateScenario,
	}
	addScenarioFlags(generateCmd)
	generateCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the parameter table")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "assemble and write every scenario of the configured sweep",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 0, "parallel assemblies (0 = one per CPU)")
	sweepCmd.Flags().BoolVar(&useTUI, "tui", false, "show interactive progress")

	inspectCmd := &cobra.Command{
		Use:   "inspect [filename]",
		Short: "show a stored scenario, or list all when no name is given",
		Args:  cobra.MaximumNArgs(1),
		RunE:  inspectScenario,
	}

	materialsCmd := &cobra.Command{
		Use:   "materials",
		Short: "list building materials",
		Args:  cobra.NoArgs,
		RunE:  listMaterials,
	}
	materialsCmd.Flags().Float64Var(&frequencyGHz, "frequency", 0, "evaluate at this frequency (GHz)")

	soilsCmd := &cobra.Command{
		Use:   "soils",
		Short: "list soil compositions",
		Args:  cobra.NoArgs,
		RunE:  listSoils,
	}

	curveCmd := &cobra.Command{
		Use:   "curve [soil]",
		Short: "plot soil permittivity against water content",
		Args:  cobra.ExactArgs(1),
		RunE:  plotCurve,
	}
	curveCmd.Flags().Float64Var(&curveGHz, "frequency", 1, "frequency (GHz)")
	curveCmd.Flags().Float64Var(&temperature, "temperature", 10, "soil temperature (°C)")
	curveCmd.Flags().Float64Var(&curveFrom, "from", 0.01, "lowest water content")
	curveCmd.Flags().Float64Var(&curveTo, "to", 0.5, "highest water content")
	curveCmd.Flags().IntVar(&curvePoints, "points", 50, "number of samples")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or print one as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the solver over every stored input file",
		Args:  cobra.NoArgs,
		RunE:  runBatch,
	}
	runCmd.Flags().StringVar(&solver, "solver", "python", "solver executable")
	runCmd.Flags().StringSliceVar(&solverArgs, "solver-args", []string{"-m", "gprMax"}, "arguments placed before the input path")
	runCmd.Flags().DurationVar(&solverTimeout, "timeout", 0, "per-run timeout (0 = none)")
	runCmd.Flags().IntVar(&solverWorkers, "workers", 1, "parallel solver runs")

	historyCmd := &cobra.Command{
		Use:   "history [sweep_id]",
		Short: "show recorded sweeps, or the outcomes of one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showHistory,
	}

	rootCmd.AddCommand(generateCmd, sweepCmd, inspectCmd, materialsCmd, soilsCmd, curveCmd, presetsCmd, runCmd, historyCmd)

	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&frequencyGHz, "frequency", 0, "fundamental frequency (GHz)")
	cmd.Flags().StringVar(&soilName, "soil", "", "soil name")
	cmd.Flags().Float64Var(&waterContent, "water", 0, "volumetric water content")
	cmd.Flags().Float64Var(&fillRatio, "fill", 0, "pipe fill ratio (enables fill)")
	cmd.Flags().StringVar(&geometryMode, "mode", "", "geometry mode (2D or 3D)")
}
