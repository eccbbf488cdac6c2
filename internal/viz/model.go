package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gasmix/internal/gas"
	"github.com/san-kum/gasmix/internal/metrics"
)

const (
	canvasWidth     = 60
	canvasHeight    = 24
	historyCapacity = 600
	maxCount        = 5000
	countStep       = 5
	tuneFactor      = 1.1
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(46)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

type TickMsg time.Time

// Preset is a named pair of population settings the user can cycle through.
type Preset struct {
	Name string
	A, B gas.PopulationConfig
}

type Options struct {
	Dt      float64
	FPS     int
	GIFPath string
	Presets []Preset
	// MixingThreshold marks when the gases count as mixed.
	MixingThreshold float64
}

type paramKind int

const (
	paramCount paramKind = iota
	paramTemperature
	paramMass
)

type param struct {
	pop  gas.Population
	kind paramKind
}

func (p param) String() string {
	switch p.kind {
	case paramCount:
		return "count_" + strings.ToLower(p.pop.String())
	case paramTemperature:
		return "temp_" + strings.ToLower(p.pop.String())
	}
	return "mass_" + strings.ToLower(p.pop.String())
}

var params = []param{
	{gas.PopulationA, paramCount}, {gas.PopulationA, paramTemperature}, {gas.PopulationA, paramMass},
	{gas.PopulationB, paramCount}, {gas.PopulationB, paramTemperature}, {gas.PopulationB, paramMass},
}

// Model drives a gas.Simulation from keyboard input and renders it.
type Model struct {
	sim       *gas.Simulation
	pending   [2]gas.PopulationConfig
	opts      Options
	tick      time.Duration
	canvas    *Canvas
	camera    *Camera
	started   bool
	selected  int
	preset    int
	mixing    []float64
	hits      []float64
	mixTime   *metrics.MixingTime
	recorder  *Recorder
	recording bool
	showHelp  bool
	message   string
}

// NewModel resets sim with a and b and returns an idle model.
func NewModel(sim *gas.Simulation, a, b gas.PopulationConfig, opts Options) Model {
	if !(opts.Dt > 0) {
		opts.Dt = 1.0 / 60
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "gasmix.gif"
	}
	if !(opts.MixingThreshold > 0) {
		opts.MixingThreshold = 0.9
	}

	m := Model{
		sim:     sim,
		pending: [2]gas.PopulationConfig{a, b},
		opts:    opts,
		tick:    time.Second / time.Duration(opts.FPS),
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		camera:  NewCamera(sim.HalfSize()),
		mixing:  make([]float64, 0, historyCapacity),
		hits:    make([]float64, 0, historyCapacity),
		mixTime: metrics.NewMixingTime(opts.MixingThreshold),
		preset:  -1,
	}
	m.reset()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.nextTick()
}

func (m Model) nextTick() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Simulation exposes the driven engine.
func (m Model) Simulation() *gas.Simulation { return m.sim }

// Pending returns the population settings the next reset will use.
func (m Model) Pending(pop gas.Population) gas.PopulationConfig { return m.pending[pop] }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "s":
			m.sim.SetRunning(true)
			m.started = true
		case "p":
			m.sim.SetRunning(false)
		case "r":
			m.reset()
		case "n":
			m.nextPreset()
		case "tab":
			m.selected = (m.selected + 1) % len(params)
		case "shift+tab":
			m.selected = (m.selected + len(params) - 1) % len(params)
		case "up", "k":
			m.adjust(1)
		case "down", "j":
			m.adjust(-1)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			CurrentTheme = nextTheme()
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
		m.step()
		if m.recording {
			m.draw()
			m.recorder.Capture(m.canvas)
		}
		return m, m.nextTick()
	}
	return m, nil
}

// step advances one frame and records the mixing history. Idle frames
// leave everything untouched.
func (m *Model) step() {
	if !m.sim.Running() {
		return
	}
	before := m.sim.WallHits()
	m.sim.Step(m.opts.Dt)

	ps := m.sim.Particles()
	m.mixTime.Observe(ps, m.sim.Elapsed())
	m.mixing = pushBounded(m.mixing, metrics.MixingIndex(ps))
	m.hits = pushBounded(m.hits, float64(m.sim.WallHits()-before))
}

func pushBounded(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

// reset rebuilds the simulation from the pending settings.
func (m *Model) reset() {
	m.sim.Reset(m.pending[gas.PopulationA], m.pending[gas.PopulationB])
	m.started = false
	m.mixing = m.mixing[:0]
	m.hits = m.hits[:0]
	m.mixTime.Reset()
}

func (m *Model) nextPreset() {
	if len(m.opts.Presets) == 0 {
		return
	}
	m.preset = (m.preset + 1) % len(m.opts.Presets)
	p := m.opts.Presets[m.preset]
	m.pending = [2]gas.PopulationConfig{p.A, p.B}
	m.reset()
	m.message = "preset: " + p.Name
}

// adjust nudges the selected parameter up (dir > 0) or down.
func (m *Model) adjust(dir int) {
	p := params[m.selected]
	cfg := &m.pending[p.pop]
	switch p.kind {
	case paramCount:
		cfg.Count = max(0, min(maxCount, cfg.Count+dir*countStep))
	case paramTemperature:
		cfg.Temperature = scaled(cfg.Temperature, dir, 1)
	case paramMass:
		cfg.Mass = scaled(cfg.Mass, dir, gas.MinMass)
	}
}

func scaled(v float64, dir int, floor float64) float64 {
	if dir > 0 {
		v *= tuneFactor
	} else {
		v /= tuneFactor
	}
	return math.Max(floor, v)
}

func (m *Model) toggleRecording() {
	if m.recording {
		if err := m.recorder.Save(m.opts.GIFPath); err != nil {
			m.message = "gif: " + err.Error()
		} else {
			m.message = "saved " + m.opts.GIFPath
		}
		m.recording = false
		m.recorder = nil
		return
	}
	m.recorder = NewRecorder(CurrentTheme, max(1, 100/m.opts.FPS))
	m.recording = true
	m.message = ""
}

// draw renders the box, the partition while idle, and every particle.
func (m *Model) draw() {
	m.canvas.Clear()
	h := m.sim.HalfSize()
	wf := BoxWireframe(h)
	if !m.sim.Running() && !m.started {
		wf.AddPartition(h)
	}
	Render3D(m.canvas, wf, m.camera)

	ps := make([]gas.Particle, 0, m.sim.Len())
	m.sim.Each(func(p gas.Particle) bool {
		ps = append(ps, p)
		return true
	})
	DrawParticles(m.canvas, ps, m.camera)
}

func (m Model) status() string {
	switch {
	case m.sim.Running():
		return StatusRunning.Render("RUNNING")
	case m.started:
		return StatusPaused.Render("PAUSED")
	}
	return StatusPaused.Render("IDLE")
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Render(PaletteFor(CurrentTheme)))

	var s strings.Builder
	s.WriteString(GradientText("GAS MIXING", CurrentTheme.Primary, CurrentTheme.Secondary) + "\n\n")
	s.WriteString(m.status())
	if m.recording {
		s.WriteString("  " + StatusRecording.Render(fmt.Sprintf("REC %d", m.recorder.Len())))
	}
	s.WriteString("\n\n")

	mix := 0.0
	if len(m.mixing) > 0 {
		mix = m.mixing[len(m.mixing)-1]
	}
	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2f", m.sim.Elapsed()))
	row("Particles", fmt.Sprintf("A %d / B %d", m.sim.Count(gas.PopulationA), m.sim.Count(gas.PopulationB)))
	s.WriteString(MetricLabel.Render("Mixing") + ProgressBar(mix, 20) + MetricValue.Render(fmt.Sprintf(" %.2f", mix)) + "\n")
	if m.mixTime.Reached() {
		row("Mixed at", fmt.Sprintf("%.2f", m.mixTime.Value()))
	} else {
		row("Mixed at", "-")
	}
	row("Wall hits", fmt.Sprintf("%d", m.sim.WallHits()))
	s.WriteString(MetricLabel.Render("") + SparkMid.Render(Sparkline(m.hits, 30)) + "\n")

	if len(m.mixing) > 1 {
		chart := asciigraph.Plot(m.mixing, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Mixing"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString("\nPARAMETERS (applied on reset)\n")
	for i, p := range params {
		cfg := m.pending[p.pop]
		var val string
		switch p.kind {
		case paramCount:
			val = fmt.Sprintf("%d", cfg.Count)
		case paramTemperature:
			val = fmt.Sprintf("%.1f", cfg.Temperature)
		default:
			val = fmt.Sprintf("%.2f", cfg.Mass)
		}
		mark := " "
		if cfg != m.sim.Config(p.pop) {
			mark = "*"
		}
		line := fmt.Sprintf("%-8s %10s %s", p, val, mark)
		if i == m.selected {
			s.WriteString(ActiveParam.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}

	if m.message != "" {
		s.WriteString("\n" + m.message + "\n")
	}
	s.WriteString(KeyHint.Render("\nSP:Start P:Pause R:Reset Q:Quit\nTab ↑↓:Tune N:Preset T:Theme\nG:Record ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space/S  - Remove partition, start  ║
║  P        - Pause                    ║
║  R        - Reset with parameters    ║
║  Tab      - Next parameter           ║
║  Up/K     - Increase parameter       ║
║  Down/J   - Decrease parameter       ║
║  N        - Next preset              ║
║  X/Y/Z    - Rotate (shift reverses)  ║
║  +/-      - Zoom                     ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`
