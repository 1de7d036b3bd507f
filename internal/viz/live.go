package viz

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/siglab/linksim/internal/analysis"
	"github.com/siglab/linksim/internal/channel"
	"github.com/siglab/linksim/internal/constellation"
	"github.com/siglab/linksim/internal/detect"
	"github.com/siglab/linksim/internal/link"
	"github.com/siglab/linksim/internal/metrics"
	"github.com/siglab/linksim/internal/signal"
	"github.com/siglab/linksim/internal/source"
)

const (
	width  = 72
	height = 22

	// Symbols pushed through the pipeline per animation tick.
	tickBatch = 64

	// Received points kept on screen. Older points fall off the back
	// so the cloud always reflects the current operating point.
	cloudCapacity = 600

	historyCapacity = 120
)

var (
	canvasStyle      = lipgloss.NewStyle().Padding(1, 2)
	statsStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// paramNames indexes the live-tunable parameters in tab order.
var paramNames = [...]string{"amplitude", "noise", "seed"}

// Model contains the pipeline stages, visualization buffers, and UI
// context for the live link view. Every tick draws a fresh batch of
// symbols, runs them through source, channel and detector, and folds
// the outcome into the on-screen counters and received cloud.
type Model struct {
	cfg     link.Config
	initial link.Config

	set *constellation.Set
	src *source.Uniform
	chn *channel.AWGN
	det *detect.Detector

	canvas *Canvas
	camera *Camera

	cloud      []signal.Point
	symbols    int
	errs       int
	serHistory []float64

	running  bool
	showHelp bool
	selected int
	saved    string
	err      error
}

// NewModel validates the configuration eagerly and builds the first
// pipeline, so a broken config fails before the terminal is taken over.
func NewModel(cfg link.Config) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	m := Model{
		cfg:        cfg,
		initial:    cfg,
		canvas:     NewCanvas(width, height),
		camera:     NewCamera(),
		cloud:      make([]signal.Point, 0, cloudCapacity),
		serHistory: make([]float64, 0, historyCapacity),
		running:    true,
	}
	if err := m.rebuild(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// rebuild constructs every stage from the current configuration and
// zeroes the counters. One PCG stream seeded from cfg.Seed feeds both
// the symbol source and the channel, same as a batch run, so reset
// replays the identical symbol and noise sequence.
func (m *Model) rebuild() error {
	set, err := constellation.Cube(m.cfg.Amplitude, link.Dim)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(m.cfg.Seed, m.cfg.Seed))
	src, err := source.NewUniform(set.Size(), rng)
	if err != nil {
		return err
	}
	chn, err := channel.NewAWGN(m.cfg.NoisePower, rng)
	if err != nil {
		return err
	}
	det, err := detect.New(set)
	if err != nil {
		return err
	}

	m.set, m.src, m.chn, m.det = set, src, chn, det
	m.cloud = m.cloud[:0]
	m.serHistory = m.serHistory[:0]
	m.symbols, m.errs = 0, 0
	m.err = nil
	return nil
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and advances the run.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.25)
		case "down", "j":
			m.adjustParam(0.8)
		case "s":
			m.saved = m.snapshot()
		case "?":
			m.showHelp = !m.showHelp
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
	case TickMsg:
		if m.camera.RotX == 0 && m.camera.RotZ == 0 {
			m.camera.RotY += 0.005
		}
		if m.running && m.err == nil {
			m.step()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) cycleParam() {
	m.selected = (m.selected + 1) % len(paramNames)
}

// adjustParam scales the selected parameter and rebuilds the pipeline
// at the new operating point. The seed steps by one instead of
// scaling, giving a fresh noise realization per press.
func (m *Model) adjustParam(factor float64) {
	switch m.selected {
	case 0:
		m.cfg.Amplitude *= factor
	case 1:
		m.cfg.NoisePower *= factor
	case 2:
		if factor > 1 {
			m.cfg.Seed++
		} else if m.cfg.Seed > 0 {
			m.cfg.Seed--
		}
	}
	if err := m.rebuild(); err != nil {
		m.err = err
		m.running = false
	}
}

// step pushes one batch through the pipeline.
func (m *Model) step() {
	idx, err := m.src.Draw(tickBatch)
	if err != nil {
		m.fail(err)
		return
	}
	tx := make([]signal.Point, len(idx))
	for i, s := range idx {
		tx[i] = m.set.Point(s)
	}
	rx, _, err := m.chn.Transmit(tx)
	if err != nil {
		m.fail(err)
		return
	}
	detected, err := m.det.Detect(rx)
	if err != nil {
		m.fail(err)
		return
	}
	count, _, err := metrics.Compare(idx, detected)
	if err != nil {
		m.fail(err)
		return
	}

	m.symbols += len(idx)
	m.errs += count
	m.cloud = append(m.cloud, rx...)
	if over := len(m.cloud) - cloudCapacity; over > 0 {
		m.cloud = m.cloud[over:]
	}
	m.serHistory = append(m.serHistory, m.ser())
	if len(m.serHistory) > historyCapacity {
		m.serHistory = m.serHistory[1:]
	}
}

func (m *Model) fail(err error) {
	m.err = err
	m.running = false
}

// reset restores the initial operating point and replays the seed.
func (m *Model) reset() {
	m.cfg = m.initial
	if err := m.rebuild(); err != nil {
		m.err = err
		m.running = false
	}
}

func (m Model) ser() float64 {
	if m.symbols == 0 {
		return 0
	}
	return float64(m.errs) / float64(m.symbols)
}

// draw projects the constellation wireframe, the coordinate axes and
// the received cloud onto the braille canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	wf := ConstellationWireframe(m.set)
	axes := AxesWireframe(0.75)
	wf.Edges = append(wf.Edges, axes.Edges...)
	ref := m.set.Amplitude()
	for _, p := range m.cloud {
		wf.AddPoint(vecFromPoint(p, ref))
	}
	Render3D(m.canvas, wf, m.camera)
}

// snapshot saves the current canvas as an SVG in the working directory
// and returns the file name, or an empty string on failure.
func (m *Model) snapshot() string {
	m.draw()
	name := fmt.Sprintf("linksim_%d.svg", time.Now().Unix())
	if err := os.WriteFile(name, []byte(CanvasToSVG(m.canvas, 4)), 0644); err != nil {
		return ""
	}
	return name
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.set.Name())+" LIVE") + "\n")
	status := "RUNNING"
	if m.err != nil {
		status = "ERROR"
	} else if !m.running {
		status = "PAUSED"
	}
	s.WriteString(fmt.Sprintf("%s\n\n", status))
	if len(m.serHistory) > 1 {
		chart := asciigraph.Plot(m.serHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("SER"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}
	ser := m.ser()
	serView := fmt.Sprintf("%.4f", ser)
	if m.symbols > 0 {
		serView += fmt.Sprintf(" ±%.4f", analysis.SERConfidence(ser, m.symbols))
	}
	esn0 := "inf"
	if m.cfg.NoisePower > 0 {
		esn0 = fmt.Sprintf("%.2f dB", analysis.EsN0DB(m.cfg.Amplitude, m.cfg.NoisePower, link.Dim))
	}
	s.WriteString(labelStyle.Render("Symbols") + valueStyle.Render(fmt.Sprintf("%d", m.symbols)) + "\n")
	s.WriteString(labelStyle.Render("Errors") + valueStyle.Render(fmt.Sprintf("%d", m.errs)) + "\n")
	s.WriteString(labelStyle.Render("SER") + valueStyle.Render(serView) + "\n")
	s.WriteString(labelStyle.Render("Theory") + valueStyle.Render(fmt.Sprintf("%.4f", analysis.TheorySER(m.cfg.Amplitude, m.cfg.NoisePower, link.Dim))) + "\n")
	s.WriteString(labelStyle.Render("Sigma") + valueStyle.Render(fmt.Sprintf("%.4g", m.chn.Sigma())) + "\n")
	s.WriteString(labelStyle.Render("Es/N0") + valueStyle.Render(esn0) + "\n")
	s.WriteString("\nPARAMETERS\n")
	values := []float64{m.cfg.Amplitude, m.cfg.NoisePower}
	initials := []float64{m.initial.Amplitude, m.initial.NoisePower}
	for i, name := range paramNames {
		var line string
		if i < len(values) {
			barWidth, ratio := 10, values[i]/(2.0*initials[i])
			if ratio > 1 {
				ratio = 1
			} else if ratio < 0 {
				ratio = 0
			}
			filled := int(ratio * float64(barWidth))
			bar := "[" + strings.Repeat("=", filled) + strings.Repeat("-", barWidth-filled) + "]"
			line = fmt.Sprintf("%-10s %s %.3g", name, bar, values[i])
		} else {
			line = fmt.Sprintf("%-10s %d", name, m.cfg.Seed)
		}
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}
	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}
	if m.saved != "" {
		s.WriteString("\n" + labelStyle.Render("Saved") + valueStyle.Render(m.saved) + "\n")
	}
	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\nS:SVG Tab:Param ↑↓:Tune\nX/Y/Z:Rotate +-:Zoom ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume run         ║
║  R        - Reset to initial config  ║
║  Q        - Quit                     ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Scale parameter (x1.25)  ║
║  Down/J   - Scale parameter (x0.8)   ║
║  S        - Save canvas as SVG       ║
║  X/Y/Z    - Rotate camera            ║
║  +/-      - Zoom in/out              ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run starts the live view and blocks until the user quits.
func Run(cfg link.Config) error {
	m, err := NewModel(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
