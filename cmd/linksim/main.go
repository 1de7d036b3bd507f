package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/guptarohit/asciigraph"
	"github.com/siglab/linksim/internal/analysis"
	"github.com/siglab/linksim/internal/config"
	"github.com/siglab/linksim/internal/constellation"
	"github.com/siglab/linksim/internal/dashboard"
	"github.com/siglab/linksim/internal/detect"
	"github.com/siglab/linksim/internal/link"
	"github.com/siglab/linksim/internal/metrics"
	"github.com/siglab/linksim/internal/plot"
	"github.com/siglab/linksim/internal/store"
	"github.com/siglab/linksim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	amplitude  float64
	symbols    int
	noisePower float64
	seed       uint64
	batch      int
	configFile string
	preset     string
	// Sweep range
	sweepFrom  float64
	sweepTo    float64
	sweepCount int
	trials     int
	csvOut     string
	pngOut     string
	// Region slice
	steps      int
	xAxis      int
	yAxis      int
	fixedValue float64
	// Output paths
	outDir  string
	htmlOut string
)

// regionColors maps symbol indices to terminal colors, one per octant.
var regionColors = []*color.Color{
	color.New(color.FgBlue),
	color.New(color.FgCyan),
	color.New(color.FgGreen),
	color.New(color.FgYellow),
	color.New(color.FgRed),
	color.New(color.FgMagenta),
	color.New(color.FgHiBlue),
	color.New(color.FgHiMagenta),
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "linksim",
		Short: "cube-constellation AWGN link simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".linksim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run one batch simulation",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&amplitude, "amplitude", config.DefaultAmplitude, "constellation half-side A")
	runCmd.Flags().IntVar(&symbols, "symbols", config.DefaultSymbols, "symbols to transmit")
	runCmd.Flags().Float64Var(&noisePower, "noise", config.DefaultNoisePower, "noise power N0")
	runCmd.Flags().Uint64Var(&seed, "seed", uint64(time.Now().UnixNano()), "random seed")
	runCmd.Flags().IntVar(&batch, "batch", 0, "detector batch size (0 = whole run)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep noise power and measure SER",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&amplitude, "amplitude", config.DefaultAmplitude, "constellation half-side A")
	sweepCmd.Flags().IntVar(&symbols, "symbols", config.DefaultSymbols, "symbols per trial")
	sweepCmd.Flags().Uint64Var(&seed, "seed", uint64(time.Now().UnixNano()), "random seed")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 2e-5, "lowest noise power")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 2e-3, "highest noise power")
	sweepCmd.Flags().IntVar(&sweepCount, "points", 9, "number of sweep points (log-spaced)")
	sweepCmd.Flags().IntVar(&trials, "trials", 3, "independent trials per point")
	sweepCmd.Flags().StringVar(&csvOut, "csv", "", "write sweep results to CSV file")
	sweepCmd.Flags().StringVar(&pngOut, "png", "", "write SER curve to PNG file")
	sweepCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	sweepCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	regionsCmd := &cobra.Command{
		Use:   "regions",
		Short: "map decision regions over a coordinate plane",
		Args:  cobra.NoArgs,
		RunE:  showRegions,
	}
	regionsCmd.Flags().Float64Var(&amplitude, "amplitude", config.DefaultAmplitude, "constellation half-side A")
	regionsCmd.Flags().IntVar(&steps, "steps", 41, "grid steps per axis")
	regionsCmd.Flags().IntVar(&xAxis, "x-axis", 0, "coordinate index for the x axis")
	regionsCmd.Flags().IntVar(&yAxis, "y-axis", 1, "coordinate index for the y axis")
	regionsCmd.Flags().Float64Var(&fixedValue, "fixed-value", 0, "value of the remaining coordinate")
	regionsCmd.Flags().StringVar(&pngOut, "png", "", "write region heat map to PNG file")
	regionsCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	regionsCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "render a stored run to PNG figures",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().StringVar(&outDir, "out", ".", "output directory")

	htmlCmd := &cobra.Command{
		Use:   "html [run_id]",
		Short: "render a stored run to an HTML dashboard",
		Args:  cobra.ExactArgs(1),
		RunE:  renderHTML,
	}
	htmlCmd.Flags().StringVar(&htmlOut, "out", "", "output file (default <run_id>.html)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored run's samples as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive live view of the link",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&amplitude, "amplitude", config.DefaultAmplitude, "constellation half-side A")
	liveCmd.Flags().Float64Var(&noisePower, "noise", config.DefaultNoisePower, "noise power N0")
	liveCmd.Flags().Uint64Var(&seed, "seed", uint64(time.Now().UnixNano()), "random seed")
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, sweepCmd, regionsCmd, listCmd, showCmd, renderCmd, htmlCmd, exportCmd, exportCSVCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig merges preset, config file and CLI flags into one
// configuration. Precedence (lowest first): defaults, preset, config
// file, explicit flags. A seed pinned in the file wins over the
// time-based flag default but not over an explicit --seed.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
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
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("amplitude") {
		cfg.Amplitude = amplitude
	}
	if cmd.Flags().Changed("symbols") {
		cfg.Symbols = symbols
	}
	if cmd.Flags().Changed("noise") {
		cfg.NoisePower = noisePower
	}
	if cfg.Seed == 0 || cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}

	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	lcfg := cfg.Link()
	lcfg.Batch = batch
	sim, err := link.New(lcfg)
	if err != nil {
		return err
	}

	set := sim.Set()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAMETER\tVALUE")
	fmt.Fprintf(w, "constellation\t%s (%d points, %d axes)\n", set.Name(), set.Size(), set.Dim())
	fmt.Fprintf(w, "amplitude\t%.6g\n", lcfg.Amplitude)
	fmt.Fprintf(w, "symbol energy\t%.6g\n", set.Energy())
	fmt.Fprintf(w, "symbols\t%d\n", lcfg.Symbols)
	fmt.Fprintf(w, "noise power\t%.6g\n", lcfg.NoisePower)
	fmt.Fprintf(w, "sigma\t%.6g\n", math.Sqrt(lcfg.NoisePower/2))
	if lcfg.NoisePower > 0 {
		fmt.Fprintf(w, "Es/N0\t%.2f dB\n", analysis.EsN0DB(lcfg.Amplitude, lcfg.NoisePower, link.Dim))
	}
	fmt.Fprintf(w, "seed\t%d\n", lcfg.Seed)
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\ntransmitting...")
	result, err := sim.Run(context.Background())
	if err != nil {
		return err
	}

	runID, err := st.Save(lcfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("run id: %s\n\n", runID)

	theory := result.Metrics["theory_ser"]
	conf := analysis.SERConfidence(result.ErrorRate, lcfg.Symbols)
	fmt.Printf("errors: %d / %d\n", result.ErrorCount, lcfg.Symbols)
	fmt.Printf("SER: %.6f ±%.6f\n", result.ErrorRate, conf)
	fmt.Printf("theory SER: %.6f\n", theory)
	if lcfg.NoisePower > 0 {
		fmt.Printf("noise variance: %.6g (N0/2 = %.6g)\n", result.Metrics["noise_variance"], lcfg.NoisePower/2)
	}
	if math.Abs(result.ErrorRate-theory) <= conf {
		color.Green("SER agrees with theory within the 95%% interval\n")
	} else {
		color.Yellow("SER is %.6f away from theory (95%% interval ±%.6f)\n", math.Abs(result.ErrorRate-theory), conf)
	}

	if result.Sigma > 0 {
		centers, density := analysis.Histogram(analysis.Flatten(result.Noise), 40)
		caption := fmt.Sprintf("noise density over [%.3g, %.3g]", centers[0], centers[len(centers)-1])
		fmt.Println()
		fmt.Println(asciigraph.Plot(density,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption(caption),
		))
	}

	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	powers, err := link.LogSpace(sweepFrom, sweepTo, sweepCount)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %d noise powers, %d trial(s) of %d symbols each...\n", len(powers), trials, cfg.Symbols)
	start := time.Now()
	points, err := link.Sweep(context.Background(), cfg.Link(), powers, trials)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "N0\tES/N0 DB\tSER\tTHEORY\tERRORS\tSYMBOLS")
	for _, p := range points {
		fmt.Fprintf(w, "%.4g\t%.2f\t%.6f\t%.6f\t%d\t%d\n",
			p.NoisePower, p.EsN0DB, p.SER, p.TheorySER, p.Errors, p.Symbols)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	series := make([]float64, len(points))
	for i, p := range points {
		series[i] = p.SER
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(series,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption("SER per sweep point (N0 ascending, log-spaced)"),
	))

	if csvOut != "" {
		if err := writeSweepCSV(csvOut, points); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", csvOut)
	}
	if pngOut != "" {
		if err := plot.SweepCurve(pngOut, points); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", pngOut)
	}

	return nil
}

func writeSweepCSV(path string, points []link.SweepPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"noise_power", "esn0_db", "ser", "theory_ser", "errors", "symbols"}); err != nil {
		return err
	}
	for _, p := range points {
		record := []string{
			strconv.FormatFloat(p.NoisePower, 'g', -1, 64),
			strconv.FormatFloat(p.EsN0DB, 'g', -1, 64),
			strconv.FormatFloat(p.SER, 'g', -1, 64),
			strconv.FormatFloat(p.TheorySER, 'g', -1, 64),
			strconv.Itoa(p.Errors),
			strconv.Itoa(p.Symbols),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func showRegions(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	set, err := constellation.Cube(cfg.Amplitude, link.Dim)
	if err != nil {
		return err
	}
	det, err := detect.New(set)
	if err != nil {
		return err
	}

	spec := detect.DefaultRegionSpec(set)
	spec.Steps = steps
	if cmd.Flags().Changed("x-axis") {
		spec.AxisX = xAxis
	}
	if cmd.Flags().Changed("y-axis") {
		spec.AxisY = yAxis
	}
	if cmd.Flags().Changed("fixed-value") {
		spec.FixedValue = fixedValue
	}

	m, err := det.Regions(spec)
	if err != nil {
		return err
	}

	fmt.Printf("decision regions: %s-%s plane", axisLabel(m.Spec.AxisX), axisLabel(m.Spec.AxisY))
	if m.Spec.Fixed >= 0 {
		fmt.Printf(" at %s = %.4g", axisLabel(m.Spec.Fixed), m.Spec.FixedValue)
	}
	fmt.Printf(" (%dx%d grid)\n\n", len(m.Xs), len(m.Ys))

	printRegionMap(m)

	fmt.Println("\nsymbols:")
	for i, p := range set.Points() {
		coords := make([]string, len(p))
		for d := range p {
			coords[d] = fmt.Sprintf("%+.4g", p[d])
		}
		fmt.Printf("  %s  (%s)\n", regionColors[i%len(regionColors)].Sprint(strconv.Itoa(i)), strings.Join(coords, ", "))
	}

	if pngOut != "" {
		if err := plot.RegionHeatMap(pngOut, m, set); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", pngOut)
	}

	return nil
}

// printRegionMap draws the labeled grid as colored digits inside a
// box, highest y on top.
func printRegionMap(m *detect.RegionMap) {
	w := len(m.Xs)
	xMin, xMax := m.Xs[0], m.Xs[w-1]
	yMin, yMax := m.Ys[0], m.Ys[len(m.Ys)-1]

	fmt.Printf("  %8.4g ┌%s┐\n", yMax, strings.Repeat("─", w))
	for r := len(m.Ys) - 1; r >= 0; r-- {
		if r == len(m.Ys)/2 {
			fmt.Printf("  %8.4g │", (yMax+yMin)/2)
		} else {
			fmt.Print("           │")
		}
		var row strings.Builder
		for c := 0; c < w; c++ {
			idx := m.Index[r][c]
			row.WriteString(regionColors[idx%len(regionColors)].Sprint(strconv.Itoa(idx)))
		}
		fmt.Print(row.String())
		fmt.Println("│")
	}
	fmt.Printf("  %8.4g └%s┘\n", yMin, strings.Repeat("─", w))

	left := fmt.Sprintf("%.4g", xMin)
	right := fmt.Sprintf("%.4g", xMax)
	pad := w - len(left) - len(right)
	if pad < 1 {
		pad = 1
	}
	fmt.Printf("            %s%s%s\n", left, strings.Repeat(" ", pad), right)
}

func axisLabel(axis int) string {
	switch axis {
	case 0:
		return "x"
	case 1:
		return "y"
	case 2:
		return "z"
	default:
		return fmt.Sprintf("x%d", axis)
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCONST\tTIME\tSYMBOLS\tAMPLITUDE\tN0\tSER")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4g\t%.4g\t%.6f\n",
			run.ID,
			run.Constellation,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Symbols,
			run.Amplitude,
			run.NoisePower,
			run.Metrics["symbol_error_rate"],
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tVALUE")
	fmt.Fprintf(w, "id\t%s\n", meta.ID)
	fmt.Fprintf(w, "constellation\t%s\n", meta.Constellation)
	fmt.Fprintf(w, "time\t%s\n", meta.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(w, "seed\t%d\n", meta.Seed)
	fmt.Fprintf(w, "amplitude\t%.6g\n", meta.Amplitude)
	fmt.Fprintf(w, "symbols\t%d\n", meta.Symbols)
	fmt.Fprintf(w, "noise power\t%.6g\n", meta.NoisePower)
	fmt.Fprintf(w, "sigma\t%.6g\n", meta.Sigma)
	if meta.NoisePower > 0 {
		fmt.Fprintf(w, "Es/N0\t%.2f dB\n", meta.EsN0DB)
	}
	fmt.Fprintf(w, "samples on disk\t%d\n", len(samples.TxIndices))
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nmetrics:")
	keys := make([]string, 0, len(meta.Metrics))
	for k := range meta.Metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s: %.6g\n", k, meta.Metrics[k])
	}

	if len(samples.TxIndices) > 0 {
		printConfusion(samples)
	}

	if len(samples.Noise) > 0 && meta.Sigma > 0 {
		_, density := analysis.Histogram(analysis.Flatten(samples.Noise), 40)
		fmt.Println()
		fmt.Println(asciigraph.Plot(density,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("noise density"),
		))
	}

	return nil
}

// printConfusion rebuilds and prints the transmitted-vs-detected
// matrix from the stored samples.
func printConfusion(samples *store.Samples) {
	m := 0
	for i := range samples.TxIndices {
		if samples.TxIndices[i] >= m {
			m = samples.TxIndices[i] + 1
		}
		if samples.Detected[i] >= m {
			m = samples.Detected[i] + 1
		}
	}
	if m == 0 {
		return
	}

	confusion := metrics.NewConfusion(m)
	for i := range samples.TxIndices {
		if samples.TxIndices[i] < 0 || samples.Detected[i] < 0 {
			continue
		}
		confusion.Observe(samples.TxIndices[i], samples.Detected[i])
	}

	fmt.Println("\nconfusion (rows transmitted, columns detected):")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := "TX"
	for j := 0; j < m; j++ {
		header += fmt.Sprintf("\t%d", j)
	}
	fmt.Fprintln(w, header)
	for i := 0; i < m; i++ {
		row := strconv.Itoa(i)
		for j := 0; j < m; j++ {
			row += fmt.Sprintf("\t%d", confusion.Count(i, j))
		}
		fmt.Fprintln(w, row)
	}
	w.Flush()
}

// loadRun reconstructs a run's configuration and result from the
// store. Error accounting and the confusion matrix are recomputed from
// the stored samples; scalar derivations come from the metadata.
func loadRun(st *store.Store, runID string) (link.Config, *link.Result, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return link.Config{}, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return link.Config{}, nil, err
	}

	cfg := link.Config{
		Amplitude:  meta.Amplitude,
		Symbols:    meta.Symbols,
		NoisePower: meta.NoisePower,
		Seed:       meta.Seed,
	}

	set, err := constellation.Cube(meta.Amplitude, link.Dim)
	if err != nil {
		return link.Config{}, nil, err
	}

	count, rate, err := metrics.Compare(samples.TxIndices, samples.Detected)
	if err != nil {
		return link.Config{}, nil, err
	}
	confusion := metrics.NewConfusion(set.Size())
	for i := range samples.TxIndices {
		tx, det := samples.TxIndices[i], samples.Detected[i]
		if tx < 0 || tx >= set.Size() || det < 0 || det >= set.Size() {
			continue
		}
		confusion.Observe(tx, det)
	}

	result := &link.Result{
		Constellation: set.Points(),
		TxIndices:     samples.TxIndices,
		TxPoints:      samples.TxPoints,
		Noise:         samples.Noise,
		RxPoints:      samples.RxPoints,
		Detected:      samples.Detected,
		ErrorCount:    count,
		ErrorRate:     rate,
		Confusion:     confusion.Matrix(),
		Metrics:       meta.Metrics,
		Seed:          meta.Seed,
		Sigma:         meta.Sigma,
		EsN0DB:        meta.EsN0DB,
	}
	return cfg, result, nil
}

// regionsForRun recomputes the default decision-region slice for a
// reconstructed run.
func regionsForRun(cfg link.Config) (*detect.RegionMap, *constellation.Set, error) {
	set, err := constellation.Cube(cfg.Amplitude, link.Dim)
	if err != nil {
		return nil, nil, err
	}
	det, err := detect.New(set)
	if err != nil {
		return nil, nil, err
	}
	m, err := det.Regions(detect.DefaultRegionSpec(set))
	if err != nil {
		return nil, nil, err
	}
	return m, set, nil
}

func renderRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	cfg, result, err := loadRun(st, runID)
	if err != nil {
		return err
	}
	regions, set, err := regionsForRun(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	noisePath := filepath.Join(outDir, runID+"_noise.png")
	if err := plot.NoiseHistogram(noisePath, result.Noise, result.Sigma); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", noisePath)

	scatterPath := filepath.Join(outDir, runID+"_scatter.png")
	if err := plot.RxScatter(scatterPath, result); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", scatterPath)

	regionsPath := filepath.Join(outDir, runID+"_regions.png")
	if err := plot.RegionHeatMap(regionsPath, regions, set); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", regionsPath)

	return nil
}

func renderHTML(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	cfg, result, err := loadRun(st, runID)
	if err != nil {
		return err
	}
	regions, _, err := regionsForRun(cfg)
	if err != nil {
		return err
	}

	out := htmlOut
	if out == "" {
		out = runID + ".html"
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := dashboard.Render(f, result, regions); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	cfg, result, err := loadRun(st, runID)
	if err != nil {
		return err
	}
	regions, _, err := regionsForRun(cfg)
	if err != nil {
		return err
	}

	return store.ExportJSONTo(os.Stdout, cfg, result, regions)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	_, result, err := loadRun(st, runID)
	if err != nil {
		return err
	}
	return store.WriteSamples(os.Stdout, result)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return viz.Run(cfg.Link())
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tAMPLITUDE\tSYMBOLS\tN0\tSIGMA\tTHEORY SER")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.4g\t%d\t%.4g\t%.4g\t%.4f\n",
			name,
			p.Amplitude,
			p.Symbols,
			p.NoisePower,
			math.Sqrt(p.NoisePower/2),
			analysis.TheorySER(p.Amplitude, p.NoisePower, link.Dim),
		)
	}
	return w.Flush()
}
