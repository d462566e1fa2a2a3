package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/okuno/cellsim/internal/cell"
	"github.com/okuno/cellsim/internal/config"
	"github.com/okuno/cellsim/internal/live"
	"github.com/okuno/cellsim/internal/model"
	"github.com/okuno/cellsim/internal/params"
	"github.com/okuno/cellsim/internal/plot"
	"github.com/okuno/cellsim/internal/sim"
	"github.com/okuno/cellsim/internal/storage"
)

var (
	dataDir    string
	dt         float64
	tEnd       float64
	cRate      float64
	solverName string
	chemistry  string
	adaptive   bool
	tolerance  float64
	// Submodel options
	particle     string
	shape        string
	cracking     string
	kinetics     string
	thermal      string
	seiOption    string
	seiPorosity  bool
	conductivity string
	collector    string
	dims         int
	// Files
	configFile string
	paramsFile string
	preset     string
	// Plot / live
	varName   string
	frameRate int
)

func main() {
	envCfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "cellsim",
		Short: "composable battery cell simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", envCfg.DataDir, "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "build a model and solve it",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolve,
	}
	addModelFlags(runCmd, envCfg)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run variable",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&varName, "var", "voltage", "output variable to plot")

	compareCmd := &cobra.Command{
		Use:   "compare [model] [c-rate1] [c-rate2] ...",
		Short: "compare discharge curves across c-rates",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareCRates,
	}
	addModelFlags(compareCmd, envCfg)

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "solve with live terminal visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addModelFlags(liveCmd, envCfg)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "list models, solvers, chemistries, and options",
		RunE:  showInfo,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, compareCmd, liveCmd, presetsCmd, infoCmd, exportCSVCmd, exportJSONCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command, envCfg config.Env) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep [s]")
	cmd.Flags().Float64Var(&tEnd, "time", config.DefaultTEnd, "final time [s]")
	cmd.Flags().Float64Var(&cRate, "c-rate", config.DefaultCRate, "discharge rate (negative charges)")
	cmd.Flags().StringVar(&solverName, "solver", config.DefaultSolver, "solver")
	cmd.Flags().StringVar(&chemistry, "chemistry", envCfg.Chemistry, "parameter chemistry")
	cmd.Flags().BoolVar(&adaptive, "adaptive", false, "adaptive stepping")
	cmd.Flags().Float64Var(&tolerance, "tol", config.DefaultShellTol, "adaptive tolerance")
	cmd.Flags().StringVar(&particle, "particle", "", "particle submodel (fickian|uniform|quadratic|quartic)")
	cmd.Flags().StringVar(&shape, "particle-shape", "", "particle geometry (spherical|user)")
	cmd.Flags().StringVar(&cracking, "cracking", "", "particle cracking (none|negative|positive|both)")
	cmd.Flags().StringVar(&kinetics, "kinetics", "", "kinetics submodel (butler-volmer|linear)")
	cmd.Flags().StringVar(&thermal, "thermal", "", "thermal submodel (isothermal|lumped|x-lumped|x-full)")
	cmd.Flags().StringVar(&seiOption, "sei", "", "sei submodel")
	cmd.Flags().BoolVar(&seiPorosity, "sei-porosity-change", false, "couple sei growth to porosity")
	cmd.Flags().StringVar(&conductivity, "conductivity", "", "electrolyte conductivity submodel")
	cmd.Flags().StringVar(&collector, "collector", "", "current collector submodel")
	cmd.Flags().IntVar(&dims, "dimensionality", 0, "current collector dimensionality")
	cmd.Flags().StringVar(&paramsFile, "params", "", "parameter override file (yaml)")
}

func flagOptions() model.Options {
	return model.Options{
		Chemistry:               chemistry,
		Particle:                particle,
		ParticleShape:           shape,
		ParticleCracking:        cracking,
		Kinetics:                kinetics,
		Thermal:                 thermal,
		SEI:                     seiOption,
		SEIPorosityChange:       seiPorosity,
		ElectrolyteConductivity: conductivity,
		CurrentCollector:        collector,
		Dimensionality:          dims,
	}
}

// applyConfig overlays preset and config-file values onto flags that
// the user did not set explicitly.
func applyConfig(cmd *cobra.Command, modelName string) error {
	var cfg *config.Config
	if preset != "" {
		cfg = config.GetPreset(modelName, preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(modelName))
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if cfg == nil {
		return nil
	}

	if !cmd.Flags().Changed("dt") && cfg.Dt > 0 {
		dt = cfg.Dt
	}
	if !cmd.Flags().Changed("time") && cfg.TEnd > 0 {
		tEnd = cfg.TEnd
	}
	if !cmd.Flags().Changed("c-rate") && cfg.CRate != 0 {
		cRate = cfg.CRate
	}
	if !cmd.Flags().Changed("solver") && cfg.Solver != "" {
		solverName = cfg.Solver
	}
	if !cmd.Flags().Changed("chemistry") && cfg.Chemistry != "" {
		chemistry = cfg.Chemistry
	}
	if !cmd.Flags().Changed("adaptive") {
		adaptive = cfg.Adaptive
	}
	if !cmd.Flags().Changed("tol") && cfg.Tolerance > 0 {
		tolerance = cfg.Tolerance
	}
	if !cmd.Flags().Changed("params") && cfg.ParamsFile != "" {
		paramsFile = cfg.ParamsFile
	}

	opts := cfg.ToOptions()
	if !cmd.Flags().Changed("particle") {
		particle = opts.Particle
	}
	if !cmd.Flags().Changed("particle-shape") {
		shape = opts.ParticleShape
	}
	if !cmd.Flags().Changed("cracking") {
		cracking = opts.ParticleCracking
	}
	if !cmd.Flags().Changed("kinetics") {
		kinetics = opts.Kinetics
	}
	if !cmd.Flags().Changed("thermal") {
		thermal = opts.Thermal
	}
	if !cmd.Flags().Changed("sei") {
		seiOption = opts.SEI
	}
	if !cmd.Flags().Changed("sei-porosity-change") {
		seiPorosity = opts.SEIPorosityChange
	}
	if !cmd.Flags().Changed("conductivity") {
		conductivity = opts.ElectrolyteConductivity
	}
	if !cmd.Flags().Changed("collector") {
		collector = opts.CurrentCollector
	}
	if !cmd.Flags().Changed("dimensionality") {
		dims = opts.Dimensionality
	}
	return nil
}

func buildParams(rate float64) (params.Values, error) {
	p, err := params.Chemistry(chemistry)
	if err != nil {
		return nil, err
	}
	if paramsFile != "" {
		overrides, err := params.Load(paramsFile)
		if err != nil {
			return nil, err
		}
		p = p.Merge(overrides)
	}
	p.Set("c_rate", rate)
	return p, nil
}

func buildSimulation(modelName string, rate float64) (*sim.Simulation, error) {
	p, err := buildParams(rate)
	if err != nil {
		return nil, err
	}
	registry := model.NewRegistry()
	m, err := registry.Model(modelName, flagOptions(), p, true)
	if err != nil {
		return nil, err
	}
	if err := m.CheckWellPosed(); err != nil {
		return nil, err
	}
	stepper, err := registry.Solver(solverName)
	if err != nil {
		return nil, err
	}
	return sim.New(m, stepper)
}

func solveConfig() cell.SolveConfig {
	cfg := cell.DefaultSolveConfig()
	cfg.Dt = dt
	cfg.TEnd = tEnd
	cfg.Adaptive = adaptive
	cfg.Tolerance = tolerance
	if adaptive {
		cfg.MaxDt = dt * 30
		cfg.MinDt = dt / 1e6
	}
	return cfg
}

func runSolve(cmd *cobra.Command, args []string) error {
	modelName := args[0]
	if err := applyConfig(cmd, modelName); err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	simulation, err := buildSimulation(modelName, cRate)
	if err != nil {
		return err
	}

	fmt.Printf("solving %s (%s, %.2gC)...\n", modelName, chemistry, cRate)
	start := time.Now()

	sol, err := simulation.Solve(context.Background(), solveConfig())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Model:     modelName,
		Chemistry: chemistry,
		Solver:    solverName,
		CRate:     cRate,
		Dt:        dt,
		TEnd:      tEnd,
	}, sol)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", sol.StepsTaken)
	fmt.Printf("termination: %s", sol.Termination)
	if sol.Event != "" {
		fmt.Printf(" (%s)", sol.Event)
	}
	fmt.Println()

	fmt.Println("\nsummary:")
	names := make([]string, 0, len(sol.Summary))
	for name := range sol.Summary {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, sol.Summary[name])
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tCHEM\tC-RATE\tSOLVER\tTIME\tTERMINATION")
	for _, run := range runs {
		termination := run.Termination
		if run.Event != "" {
			termination += " (" + run.Event + ")"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2g\t%s\t%s\t%s\n",
			run.ID,
			run.Model,
			run.Chemistry,
			run.CRate,
			run.Solver,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			termination,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	_, values, err := st.LoadSeries(runID, varName)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Println(plot.Header(fmt.Sprintf("%s / %s (%s)", meta.ID, meta.Model, meta.Chemistry)))
	fmt.Printf("samples: %d\n\n", len(values))
	fmt.Println(plot.Series(values, plot.Caption(varName)))
	return nil
}

func compareCRates(cmd *cobra.Command, args []string) error {
	modelName := args[0]
	if err := applyConfig(cmd, modelName); err != nil {
		return err
	}

	cases := make([]sim.Case, 0, len(args)-1)
	for _, arg := range args[1:] {
		var rate float64
		if _, err := fmt.Sscanf(arg, "%f", &rate); err != nil {
			return fmt.Errorf("bad c-rate %q: %w", arg, err)
		}
		cases = append(cases, sim.Case{Name: fmt.Sprintf("%.2gC", rate), CRate: rate})
	}

	sweep := sim.NewSweep(func(c sim.Case) (*sim.Simulation, error) {
		return buildSimulation(modelName, c.CRate)
	}, cases)

	solutions, err := sweep.Run(context.Background(), solveConfig())
	if err != nil {
		return err
	}

	series := make([][]float64, 0, len(solutions))
	labels := make([]string, 0, len(solutions))
	for i, sol := range solutions {
		voltage, ok := sol.Series("voltage")
		if !ok {
			continue
		}
		series = append(series, voltage)
		labels = append(labels, cases[i].Name)
	}

	fmt.Println(plot.Header(fmt.Sprintf("%s discharge comparison", modelName)))
	fmt.Println(plot.Compare(series, labels, plot.Caption("voltage")))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	modelName := args[0]
	if err := applyConfig(cmd, modelName); err != nil {
		return err
	}

	p, err := buildParams(cRate)
	if err != nil {
		return err
	}
	registry := model.NewRegistry()
	m, err := registry.Model(modelName, flagOptions(), p, true)
	if err != nil {
		return err
	}
	stepper, err := registry.Solver(solverName)
	if err != nil {
		return err
	}
	return live.Run(m, stepper, solveConfig(), frameRate)
}

func showInfo(cmd *cobra.Command, args []string) error {
	registry := model.NewRegistry()
	fmt.Println("models:")
	for _, name := range registry.Models() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("solvers:")
	for _, name := range registry.Solvers() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("chemistries:")
	for _, name := range params.Chemistries() {
		fmt.Printf("  %s\n", name)
	}

	fmt.Println("\nphysics areas:")
	for _, area := range model.RequiredAreas {
		fmt.Printf("  %s\n", area)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	dest := runID + ".csv"
	if err := st.Export(runID, dest); err != nil {
		return err
	}
	fmt.Printf("exported %s\n", dest)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
