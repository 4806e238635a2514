package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/framehold/internal/sim"
)

const (
	width           = 60
	height          = 22
	frameRate       = 30
	historyCapacity = 300
	trailCapacity   = 60
	maxWarp         = 1024
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model steps a scenario in real time (times warp) and draws the active
// vessel from above.
type Model struct {
	sc       *sim.Scenario
	name     string
	canvas   *Canvas
	warp     int
	running  bool
	showHelp bool
	last     sim.Sample
	drift    []float64
	trail    []mgl64.Vec3
	err      error
}

// NewModel fires the scenario's UI-ready event so the toggle button exists
// before the first frame.
func NewModel(sc *sim.Scenario, name string) Model {
	sc.Sim.UIReady()

	warp := int(math.Round(1 / (frameRate * sc.Config.Dt)))
	if warp < 1 {
		warp = 1
	}

	return Model{
		sc:      sc,
		name:    name,
		canvas:  NewCanvas(width, height),
		warp:    warp,
		running: true,
		drift:   make([]float64, 0, historyCapacity),
		trail:   make([]mgl64.Vec3, 0, trailCapacity),
	}
}

func (m Model) Init() tea.Cmd    { return tick() }
func (m Model) Last() sim.Sample { return m.last }
func (m Model) Warp() int        { return m.warp }
func (m Model) Running() bool    { return m.running }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err = nil
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case ".":
			if !m.running {
				m.step(1)
			}
		case "m":
			if b := m.sc.Sim.Button(); b != nil {
				b.Click()
			}
		case "h":
			if v := m.sc.Sim.World().Active(); v != nil {
				v.SetHold(!v.HoldEngaged())
			}
		case "p":
			if v := m.sc.Sim.World().Active(); v != nil {
				v.SetPacked(!v.Packed())
			}
		case "n":
			m.err = m.nextVessel()
		case "+", "=":
			m.warp = min(m.warp*2, maxWarp)
		case "-", "_":
			m.warp = max(m.warp/2, 1)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step(m.warp)
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step(n int) {
	for i := 0; i < n; i++ {
		m.last = m.sc.Sim.Step(m.sc.Config.Dt)
		m.drift = append(m.drift, m.last.DriftDeg)
	}
	if over := len(m.drift) - historyCapacity; over > 0 {
		m.drift = append(m.drift[:0], m.drift[over:]...)
	}
	if m.last.Vessel != 0 {
		m.trail = append(m.trail, m.last.Relative)
		if len(m.trail) > trailCapacity {
			m.trail = append(m.trail[:0], m.trail[1:]...)
		}
	}
}

func (m *Model) nextVessel() error {
	vessels := m.sc.Sim.World().Vessels()
	if len(vessels) == 0 {
		return sim.ErrNoActive
	}
	next := vessels[0].ID()
	for i, v := range vessels {
		if v.ID() == m.last.Vessel && i+1 < len(vessels) {
			next = vessels[i+1].ID()
		}
	}
	m.trail = m.trail[:0]
	return m.sc.Sim.World().SetActive(next)
}

// draw renders the body, the reference vector and the held heading. The
// view is scaled so the vessel sits on a fixed ring.
func (m *Model) draw() {
	m.canvas.Clear()
	if m.last.Vessel == 0 {
		return
	}

	cw, ch := m.canvas.PixelSize()
	cx, cy := cw/2, ch/2
	ring := 0.42 * float64(min(cw, ch))

	r := m.last.Relative.Len()
	if r == 0 {
		return
	}
	scale := ring / r

	if body, ok := m.sc.Sim.World().Body(m.last.Body); ok {
		m.canvas.DrawCircle(cx, cy, int(math.Round(body.Radius()*scale)))
	}

	project := func(v mgl64.Vec3) (int, int) {
		return cx + int(math.Round(v.X()*scale)), cy - int(math.Round(v.Y()*scale))
	}

	for _, p := range m.trail {
		m.canvas.Set(project(p))
	}
	vx, vy := project(m.last.Relative)
	m.canvas.DrawLine(cx, cy, vx, vy)

	fwd := m.last.Held.Rotate(mgl64.Vec3{1, 0, 0})
	if l := math.Hypot(fwd.X(), fwd.Y()); l > 1e-9 {
		hx := vx + int(math.Round(fwd.X()/l*10))
		hy := vy - int(math.Round(fwd.Y()/l*10))
		m.canvas.DrawLine(vx, vy, hx, hy)
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	if m.running {
		s.WriteString(statusRunning.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(statusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.drift) > 1 {
		chart := asciigraph.Plot(m.drift, asciigraph.Height(5), asciigraph.Width(24),
			asciigraph.LowerBound(0), asciigraph.Precision(4), asciigraph.Caption("Drift (deg)"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	last := m.last
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + value + "\n")
	}
	row("Time", valueStyle.Render(fmt.Sprintf("%.2fs", last.Time)))
	if last.Vessel == 0 {
		row("Vessel", valueStyle.Render("none"))
	} else {
		row("Vessel", valueStyle.Render(fmt.Sprintf("#%d on body %d", last.Vessel, last.Body)))
		row("Situation", valueStyle.Render(last.Situation.String()))
		row("Hold", valueStyle.Render(onOff(last.Hold)))
		row("Packed", valueStyle.Render(onOff(last.Packed)))
	}
	if b := m.sc.Sim.Button(); b != nil {
		row("Mode", iconStyles[b.Icon()].Render(string(b.Icon())))
		if b.Pressed() {
			row("Button", pressedStyle.Render("CORRECTING"))
		} else {
			row("Button", releasedStyle.Render("idle"))
		}
	}
	row("Drift", valueStyle.Render(fmt.Sprintf("%.6f deg", last.DriftDeg)))
	row("Warp", valueStyle.Render(fmt.Sprintf("x%d", m.warp)))

	if m.err != nil {
		s.WriteString(errStyle.Render(m.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause M:Mode H:Hold P:Pack\nN:Vessel +/-:Warp ?:Help Q:Quit"))

	view := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpOverlay + "\n\n" + view
	}
	return view
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space  - Pause/Resume               ║
║  .      - Single step while paused   ║
║  M      - Cycle AUTO / ON / OFF      ║
║  H      - Engage or release hold     ║
║  P      - Pack or unpack vessel      ║
║  N      - Focus next vessel          ║
║  + / -  - Faster / slower warp       ║
║  ?      - Toggle this help           ║
║  Q      - Quit                       ║
╚══════════════════════════════════════╝`

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
