package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gprpipe/internal/batch"
	"github.com/san-kum/gprpipe/internal/config"
	"github.com/san-kum/gprpipe/internal/dielectric"
	"github.com/san-kum/gprpipe/internal/gpr"
	"github.com/san-kum/gprpipe/internal/metrics"
	"github.com/san-kum/gprpipe/internal/render"
	"github.com/san-kum/gprpipe/internal/scenario"
	"github.com/san-kum/gprpipe/internal/storage"
	"github.com/san-kum/gprpipe/internal/sweep"
	"github.com/san-kum/gprpipe/internal/viz"
)

// loadConfig applies, in order: defaults, preset, config file, flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("frequency") {
		cfg.Frequency = frequencyGHz * gpr.GHz
	}
	if cmd.Flags().Changed("soil") {
		cfg.Soil.Name = soilName
	}
	if cmd.Flags().Changed("water") {
		cfg.Soil.WaterContent = waterContent
	}
	if cmd.Flags().Changed("fill") {
		cfg.Fill.Enabled = true
		cfg.Fill.Ratio = fillRatio
	}
	if cmd.Flags().Changed("mode") {
		cfg.GeometryMode = geometryMode
	}
	return cfg, nil
}

// workspace bundles the output store, the ledger and the metrics collector.
type workspace struct {
	store   *storage.Store
	ledger  *storage.Ledger
	metrics *metrics.Collector
}

func openWorkspace(ctx context.Context, dir, ledgerFile string) (*workspace, error) {
	r, err := render.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load input template: %w", err)
	}
	store := storage.New(dir, r, logrus.StandardLogger())
	if err := store.Init(); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	ledger, err := storage.OpenLedger(ctx, ledgerFile)
	if err != nil {
		return nil, err
	}
	m, err := metrics.NewCollector(prometheus.NewRegistry())
	if err != nil {
		ledger.Close()
		return nil, err
	}
	return &workspace{store: store, ledger: ledger, metrics: m}, nil
}

func (w *workspace) Close() error {
	if metricsFile != "" {
		if err := w.metrics.WriteTextfile(metricsFile); err != nil {
			logrus.WithError(err).Warn("failed to write metrics")
		}
	}
	return w.ledger.Close()
}

// record saves the outcome of one assembly and returns the input file path.
func (w *workspace) record(ctx context.Context, sweepID string, o sweep.Outcome) string {
	e := storage.Entry{
		SweepID:  sweepID,
		Stage:    storage.StageGenerate,
		Status:   metrics.OutcomeOK,
		Duration: o.Duration,
	}
	var path string
	switch {
	case o.Cancelled():
		e.Status = metrics.OutcomeCancelled
	case o.Err != nil:
		e.Status = metrics.OutcomeFailed
		e.Error = o.Err.Error()
	default:
		e.Filename = o.Set.GeometryFilename
		p, err := w.store.Save(sweepID, o.Set)
		if err != nil {
			e.Status = metrics.OutcomeFailed
			e.Error = err.Error()
			logrus.WithError(err).WithField("file", o.Set.GeometryFilename).Error("failed to write input file")
		}
		path = p
	}
	if err := w.ledger.Record(context.WithoutCancel(ctx), e); err != nil {
		logrus.WithError(err).Error("failed to record outcome")
	}
	return path
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func generateScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	asm, err := cfg.Assembler()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	ws, err := openWorkspace(ctx, dataDir, ledgerPath)
	if err != nil {
		return err
	}
	defer ws.Close()

	runner := sweep.NewRunner(asm, 1, logrus.StandardLogger(), ws.metrics)
	outcomes, err := runner.Run(ctx, []scenario.Input{cfg.Input()})
	if err != nil {
		return err
	}
	o := outcomes[0]
	sweepID := storage.NewSweepID(cfg.Name, time.Now())
	path := ws.record(ctx, sweepID, o)
	if o.Err != nil {
		return o.Err
	}
	if path == "" {
		return fmt.Errorf("failed to write %s", o.Set.GeometryFilename)
	}

	if !quiet {
		fmt.Println(viz.ParameterTable(o.Set))
	}
	fmt.Printf("Written: %s\n", path)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	asm, err := cfg.Assembler()
	if err != nil {
		return err
	}
	inputs := cfg.Inputs()

	ctx, cancel := signalContext()
	defer cancel()
	ws, err := openWorkspace(ctx, dataDir, ledgerPath)
	if err != nil {
		return err
	}
	defer ws.Close()

	sweepID := storage.NewSweepID(cfg.Name, time.Now())
	log := logrus.WithField("sweep", sweepID)
	log.WithField("instances", len(inputs)).Info("starting sweep")

	runner := sweep.NewRunner(asm, sweepWorkers, log, ws.metrics)
	var outcomes []sweep.Outcome
	run := func(ctx context.Context, report func(sweep.Outcome)) error {
		runner.OnOutcome = func(o sweep.Outcome) {
			ws.record(ctx, sweepID, o)
			if report != nil {
				report(o)
			}
		}
		var err error
		outcomes, err = runner.Run(ctx, inputs)
		return err
	}

	if useTUI {
		// The display owns the terminal.
		logrus.SetLevel(logrus.WarnLevel)
		err = viz.RunProgress(ctx, sweepID, len(inputs), os.Stdout, run)
	} else {
		err = run(ctx, nil)
	}

	var ok, failed int
	for _, o := range outcomes {
		switch {
		case o.OK():
			ok++
		case !o.Cancelled():
			failed++
		}
	}
	fmt.Println(viz.Table(
		[]string{"sweep", "instances", "ok", "failed"},
		[][]string{{sweepID, fmt.Sprint(len(inputs)), fmt.Sprint(ok), fmt.Sprint(failed)}},
	))
	return err
}

func inspectScenario(cmd *cobra.Command, args []string) error {
	// Listing and loading never render.
	store := storage.New(dataDir, nil, logrus.StandardLogger())

	if len(args) == 1 {
		md, err := store.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Println(viz.Subtle.Render(fmt.Sprintf("sweep %s, written %s", md.SweepID, md.Timestamp.Format(time.RFC3339))))
		fmt.Println(viz.ParameterTable(md.Set))
		return nil
	}

	all, err := store.List()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No scenarios found")
		return nil
	}
	rows := make([][]string, 0, len(all))
	for _, md := range all {
		rows = append(rows, []string{
			md.Filename,
			md.SweepID,
			viz.FormatValue(md.Set.Discretization.Step),
			viz.FormatValue(md.Set.Runtime),
		})
	}
	fmt.Println(viz.Table([]string{"filename", "sweep", "delta_d", "runtime"}, rows))
	return nil
}

func listMaterials(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	db := cfg.Resolver().Materials()

	headers := []string{"material", "a", "b", "c", "d", "range (GHz)"}
	evaluate := cmd.Flags().Changed("frequency")
	if evaluate {
		headers = append(headers, "er", "sigma")
	}
	rows := make([][]string, 0)
	for _, name := range db.Names() {
		m, err := db.Get(name)
		if err != nil {
			return err
		}
		row := []string{
			m.Name,
			viz.FormatValue(m.A), viz.FormatValue(m.B), viz.FormatValue(m.C), viz.FormatValue(m.D),
			fmt.Sprintf("%g-%g", m.MinGHz, m.MaxGHz),
		}
		if evaluate {
			if mat, err := m.Eval(frequencyGHz * gpr.GHz); err == nil {
				row = append(row, viz.FormatValue(mat.Permittivity), viz.FormatValue(mat.Conductivity))
			} else {
				row = append(row, "-", "-")
			}
		}
		rows = append(rows, row)
	}
	fmt.Println(viz.Table(headers, rows))
	return nil
}

func listSoils(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	soils := cfg.Resolver().Soils()

	rows := make([][]string, 0)
	for _, name := range soils.Names() {
		s, err := soils.Get(name)
		if err != nil {
			return err
		}
		rows = append(rows, []string{
			s.Name,
			viz.FormatValue(s.Sand), viz.FormatValue(s.Clay), viz.FormatValue(s.Silt),
			viz.FormatValue(s.BulkDensity), viz.FormatValue(s.SpecificDensity),
		})
	}
	fmt.Println(viz.Table([]string{"soil", "sand %", "clay %", "silt %", "bulk g/cm3", "specific g/cm3"}, rows))
	return nil
}

func plotCurve(cmd *cobra.Command, args []string) error {
	if curvePoints < 2 || !(curveTo > curveFrom) {
		return fmt.Errorf("need at least 2 points over an increasing range")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	contents := make([]float64, curvePoints)
	step := (curveTo - curveFrom) / float64(curvePoints-1)
	for i := range contents {
		contents[i] = curveFrom + float64(i)*step
	}
	spec := dielectric.SoilSpec{Name: args[0], Temperature: temperature}
	mats, err := cfg.Resolver().SoilCurve(curveGHz*gpr.GHz, spec, contents)
	if err != nil {
		return err
	}

	eps := make([]float64, len(mats))
	sigma := make([]float64, len(mats))
	for i, m := range mats {
		eps[i] = m.Permittivity
		sigma[i] = m.Conductivity
	}
	caption := fmt.Sprintf("%s at %g GHz, %g °C, mv %g..%g", args[0], curveGHz, temperature, curveFrom, curveTo)
	fmt.Println(viz.Curve(eps, 60, 15, "relative permittivity, "+caption))
	fmt.Println()
	fmt.Println(viz.Curve(sigma, 60, 10, "conductivity (S/m), "+caption))
	return nil
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println("Available presets:")
		for _, name := range config.ListPresets() {
			fmt.Printf("  %s\n", name)
		}
		return nil
	}
	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s", args[0])
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	ws, err := openWorkspace(ctx, dataDir, ledgerPath)
	if err != nil {
		return err
	}
	defer ws.Close()

	inputs, err := ws.store.Inputs()
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		fmt.Printf("No input files in %s\n", ws.store.Dir())
		return nil
	}

	r := &batch.Runner{
		Command:  solver,
		Args:     solverArgs,
		Timeout:  solverTimeout,
		Workers:  solverWorkers,
		Log:      logrus.StandardLogger(),
		Metrics:  ws.metrics,
		Recorder: ws.ledger,
	}
	sum, err := r.Run(ctx, storage.NewSweepID("solve", time.Now()), inputs)

	rows := make([][]string, 0, len(sum.Results))
	for _, res := range sum.Results {
		rows = append(rows, []string{filepath.Base(res.Input), viz.Status(res.Status), res.Duration.Round(time.Millisecond).String()})
	}
	fmt.Println(viz.Table([]string{"input", "status", "duration"}, rows))
	fmt.Printf("passed %d, failed %d, cancelled %d\n", sum.Passed, sum.Failed, sum.Cancelled)
	for _, res := range sum.Results {
		if res.Status == metrics.OutcomeFailed && res.Output != "" {
			fmt.Println(viz.Subtle.Render(res.Input))
			fmt.Println(res.Output)
		}
	}
	if err != nil {
		return err
	}
	if sum.Failed > 0 {
		return fmt.Errorf("%d solver runs failed", sum.Failed)
	}
	return nil
}

func showHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	ledger, err := storage.OpenLedger(ctx, ledgerPath)
	if err != nil {
		return err
	}
	defer ledger.Close()

	if len(args) == 1 {
		entries, err := ledger.Entries(ctx, args[0])
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{e.Stage, e.Filename, viz.Status(e.Status), e.Duration.String(), e.Error})
		}
		fmt.Println(viz.Table([]string{"stage", "filename", "status", "duration", "error"}, rows))
		return nil
	}

	sums, err := ledger.Summaries(ctx)
	if err != nil {
		return err
	}
	if len(sums) == 0 {
		fmt.Println("No sweeps recorded")
		return nil
	}
	rows := make([][]string, 0, len(sums))
	for _, s := range sums {
		rows = append(rows, []string{
			s.SweepID, s.Stage, s.Started.Format(time.RFC3339),
			fmt.Sprint(s.OK), fmt.Sprint(s.Failed), fmt.Sprint(s.Total),
		})
	}
	fmt.Println(viz.Table([]string{"sweep", "stage", "started", "ok", "failed", "total"}, rows))
	return nil
}
