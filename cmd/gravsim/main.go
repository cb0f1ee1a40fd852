package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

var (
	dataDir       string
	configFile    string
	dt            float64
	duration      float64
	seed          int64
	theta         float64
	gConst        float64
	timeScale     float64
	direct        bool
	numBodies     int
	ringRadius    float64
	snapshotEvery int
	integrator    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravsim",
		Short: "gravitational n-body simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().IntVar(&snapshotEvery, "snapshot-every", 10, "snapshot cadence in steps")
	runCmd.Flags().StringVar(&integrator, "integrator", "symplectic", "integrator (symplectic, euler)")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and trajectory of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark direct vs barnes-hut evaluation",
		RunE:  benchEvaluators,
	}

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare barnes-hut accuracy across theta values",
		RunE:  compareTheta,
	}
	compareCmd.Flags().IntVar(&numBodies, "bodies", 128, "number of bodies")
	compareCmd.Flags().Int64Var(&seed, "seed", 42, "random seed")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trajectories to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and trajectories to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export run trajectories to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, benchCmd, compareCmd,
		presetsCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario config file (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep (overrides scenario)")
	cmd.Flags().Float64Var(&duration, "time", 0, "duration (overrides scenario)")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().Float64Var(&theta, "theta", 0, "opening-angle threshold (overrides scenario)")
	cmd.Flags().Float64Var(&gConst, "g", 0, "gravitational constant (overrides scenario)")
	cmd.Flags().Float64Var(&timeScale, "time-scale", 0, "global dt scale factor")
	cmd.Flags().BoolVar(&direct, "direct", false, "force exact O(N^2) evaluation")
	cmd.Flags().IntVar(&numBodies, "bodies", 0, "generate a ring of N bodies instead of a preset")
	cmd.Flags().Float64Var(&ringRadius, "radius", 40, "ring radius for generated scenarios")
}

// resolveConfig builds the scenario from, in priority order: --config file,
// --bodies ring generator, named preset argument, or the orbit preset.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config

	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	case numBodies > 0:
		cfg = config.Ring(numBodies, ringRadius, seed)
	case len(args) == 1:
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
	default:
		cfg = config.GetPreset("orbit")
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("theta") {
		cfg.Theta = theta
	}
	if cmd.Flags().Changed("g") {
		cfg.G = gConst
	}
	if cmd.Flags().Changed("time-scale") {
		cfg.TimeScale = timeScale
	}
	if direct {
		cfg.UseApproximation = false
	}
	if cfg.Seed == 0 {
		cfg.Seed = seed
	}
	return cfg, nil
}

func buildEngine(cfg *config.Config) *gravity.Engine {
	eng := gravity.New(cfg.BuildRegistry())
	eng.G = cfg.G
	eng.Theta = cfg.Theta
	eng.UseApproximation = cfg.UseApproximation
	return eng
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	eng := buildEngine(cfg)
	if integrator == "euler" {
		eng.SetIntegrator(integrators.NewExplicitEuler())
	}

	runner := sim.New(eng)
	for _, m := range metrics.Defaults(eng) {
		runner.AddMetric(m)
	}

	simCfg := sim.Config{
		Dt:            cfg.Dt,
		Duration:      cfg.Duration,
		Seed:          cfg.Seed,
		TimeScale:     cfg.TimeScale,
		SnapshotEvery: snapshotEvery,
		ValidateState: true,
	}

	fmt.Printf("running %s (%d bodies)...\n", cfg.Scenario, eng.Registry().Len())
	start := time.Now()

	result, err := runner.Run(context.Background(), simCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := saveRun(st, cfg, eng.Registry().Len(), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("energy drift: %.2e\n", result.EnergyDrift)
	for _, stepErr := range result.Errors {
		fmt.Printf("warning: %v\n", stepErr)
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
}

func saveRun(st *storage.Store, cfg *config.Config, bodies int, result *sim.Result) (string, error) {
	times := make([]float64, len(result.Snapshots))
	energies := make([]float64, len(result.Snapshots))
	positions := make([][]float64, len(result.Snapshots))
	for i, snap := range result.Snapshots {
		times[i] = snap.Time
		energies[i] = snap.Energy
		row := make([]float64, 0, len(snap.Positions)*3)
		for _, p := range snap.Positions {
			row = append(row, p[0], p[1], p[2])
		}
		positions[i] = row
	}

	meta := storage.RunMetadata{
		Scenario:    cfg.Scenario,
		Seed:        cfg.Seed,
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		G:           cfg.G,
		Theta:       cfg.Theta,
		Approximate: cfg.UseApproximation,
		Bodies:      bodies,
		Metrics:     result.Metrics,
	}
	return st.Save(meta, times, energies, positions)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	eng := buildEngine(cfg)
	eng.Reseed(cfg.Seed)

	m := viz.NewModel(eng, cfg.Scenario, cfg.Dt)
	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tBODIES\tDT\tTHETA\tEVAL")
	for _, run := range runs {
		eval := "direct"
		if run.Approximate {
			eval = "barnes-hut"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%.2f\t%s\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Dt,
			run.Theta,
			eval,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	_, energies, positions, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(positions) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(positions))

	graph := asciigraph.Plot(energies,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("total energy"),
	)
	fmt.Println(graph)
	fmt.Println()

	coords := []struct {
		index int
		label string
	}{
		{0, "b0 x"},
		{1, "b0 y"},
	}
	for _, c := range coords {
		if len(positions[0]) <= c.index {
			continue
		}
		data := make([]float64, len(positions))
		for i := range positions {
			data[i] = positions[i][c.index]
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(c.label),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func benchEvaluators(cmd *cobra.Command, args []string) error {
	sizes := []int{64, 256, 1024}
	const steps = 50

	fmt.Println("benchmarking force evaluation")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tEVALUATOR\tSTEPS\tTIME\tSTEPS/SEC")

	for _, n := range sizes {
		for _, approximate := range []bool{false, true} {
			cfg := config.Ring(n, 40, 42)
			cfg.UseApproximation = approximate
			eng := buildEngine(cfg)
			eng.Reseed(42)

			start := time.Now()
			for i := 0; i < steps; i++ {
				eng.Step(cfg.Dt)
			}
			elapsed := time.Since(start)

			eval := "direct"
			if approximate {
				eval = "barnes-hut"
			}
			fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%.0f\n",
				n, eval, steps, elapsed, float64(steps)/elapsed.Seconds())
		}
	}
	return w.Flush()
}

func compareTheta(cmd *cobra.Command, args []string) error {
	thetas := []float64{1.0, 0.7, 0.5, 0.3, 0.1}

	cfg := config.Ring(numBodies, 40, seed)
	eng := buildEngine(cfg)
	eng.Reseed(seed)
	bodies := eng.Registry().Bodies()

	// Exact reference forces.
	eng.UseApproximation = false
	exact := make([]float64, len(bodies))
	reference := make([][3]float64, len(bodies))
	for i, b := range bodies {
		f := eng.TotalForce(b)
		reference[i] = [3]float64{f[0], f[1], f[2]}
		exact[i] = f.Len()
	}

	fmt.Printf("barnes-hut accuracy vs direct (%d bodies)\n\n", len(bodies))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "THETA\tMAX_REL_ERR\tTIME")

	eng.UseApproximation = true
	for _, th := range thetas {
		eng.Theta = th

		start := time.Now()
		maxErr := 0.0
		for i, b := range bodies {
			f := eng.TotalForce(b)
			dx := f[0] - reference[i][0]
			dy := f[1] - reference[i][1]
			dz := f[2] - reference[i][2]
			if exact[i] > 0 {
				relErr := math.Sqrt(dx*dx+dy*dy+dz*dz) / exact[i]
				if relErr > maxErr {
					maxErr = relErr
				}
			}
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%.2f\t%.2e\t%v\n", th, maxErr, elapsed)
	}
	return w.Flush()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	_, _, positions, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(positions) == 0 {
		return fmt.Errorf("no data to export")
	}

	tracks := make([][]export.Point, meta.Bodies)
	for _, row := range positions {
		for b := 0; b < meta.Bodies && b*3+1 < len(row); b++ {
			tracks[b] = append(tracks[b], export.Point{X: row[b*3], Y: row[b*3+1]})
		}
	}

	fmt.Println(export.OrbitsToSVG(tracks, 800, 800))
	return nil
}
