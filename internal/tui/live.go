// Package tui renders a running simulation in the terminal: a top-down
// view of the bodies plus per-tick solver counters.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/voxelphys/internal/config"
	"github.com/san-kum/voxelphys/internal/metrics"
	"github.com/san-kum/voxelphys/internal/phys"
	"github.com/san-kum/voxelphys/internal/sim"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// viewExtent is the half-width of the world region shown, in blocks.
const viewExtent float32 = 32

type model struct {
	cfg       *config.Config
	world     *sim.World
	collector *metrics.Collector

	running   bool
	paused    bool
	simTime   float32
	speed     float64
	history   []float64
	lastFrame time.Time
	fps       float64
	err       error

	width  int
	height int
}

// NewModel builds the live view around an already-assembled world.
func NewModel(cfg *config.Config, world *sim.World) tea.Model {
	return model{
		cfg:   cfg,
		world: world,
		collector: metrics.NewCollector(
			metrics.NewContactLoad(),
			metrics.NewTickTime(),
			metrics.NewSettled(),
		),
		running: true,
		speed:   1.0,
		history: make([]float64, 0, 60),
		width:   80,
		height:  24,
	}
}

func (m model) Init() tea.Cmd { return tick() }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.running {
			return m, nil
		}
		if !m.paused {
			now := time.Now()
			if !m.lastFrame.IsZero() {
				dt := now.Sub(m.lastFrame).Seconds()
				if dt > 0 {
					m.fps = 1.0 / dt
				}
			}
			m.lastFrame = now

			frame := float32(0.016 * m.speed)
			m.world.Update(frame)
			m.simTime += frame

			stats := m.world.Stats()
			m.collector.Observe(m.world.Store(), stats)
			m.history = append(m.history, float64(stats.Contacts))
			if len(m.history) > 60 {
				m.history = m.history[1:]
			}

			if m.simTime >= m.cfg.Scene.Duration {
				m.paused = true
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "escape":
		m.running = false
		return m, tea.Quit
	case " ", "p":
		m.paused = !m.paused
		m.lastFrame = time.Time{}
	case "r":
		w, err := sim.BuildScene(m.cfg, nil)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.world = w
		m.simTime = 0
		m.paused = false
		m.history = m.history[:0]
		m.collector.Reset()
		return m, tea.ClearScreen
	case "+", "=":
		m.speed = math.Min(m.speed*2, 8)
	case "-", "_":
		m.speed = math.Max(m.speed/2, 0.25)
	case "0":
		m.speed = 1.0
	}
	return m, nil
}

func (m model) View() string {
	if m.err != nil {
		return "\n   error: " + m.err.Error() + "\n"
	}

	cw := m.width - 6
	ch := m.height - 10
	if cw < 50 {
		cw = 50
	}
	if ch < 12 {
		ch = 12
	}

	canvas := make([][]rune, ch)
	for i := range canvas {
		canvas[i] = make([]rune, cw)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}
	m.drawBodies(canvas, cw, ch)

	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	if m.paused {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s  %s\n",
		statusIcon, cyan.Render(m.cfg.Scene.Name), statusText,
		dim.Render(fmt.Sprintf("x%.2g  %.0ffps", m.speed, m.fps))))

	progress := float64(m.simTime / m.cfg.Scene.Duration)
	if progress > 1 {
		progress = 1
	}
	barWidth := 36
	filled := int(progress * float64(barWidth))
	timeStr := fmt.Sprintf("%.1fs/%.0fs", m.simTime, m.cfg.Scene.Duration)
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	b.WriteString(fmt.Sprintf("   %s %s\n\n", bar, dim.Render(timeStr)))

	for _, row := range canvas {
		b.WriteString("   " + string(row) + "\n")
	}

	stats := m.world.Stats()
	vals := m.collector.Values()
	b.WriteString(fmt.Sprintf("\n   %s%s  %s%s  %s%s  %s%s\n",
		dim.Render("bodies="), white.Render(fmt.Sprintf("%d", m.world.Store().Len())),
		dim.Render("pairs="), white.Render(fmt.Sprintf("%d", stats.CandidatePairs)),
		dim.Render("contacts="), white.Render(fmt.Sprintf("%d", stats.Contacts)),
		dim.Render("settled="), white.Render(fmt.Sprintf("%.0f%%", vals["settled"]*100))))
	b.WriteString(fmt.Sprintf("   %s%s\n",
		dim.Render("tick="), white.Render(fmt.Sprintf("%.0fus", vals["tick_micros"]))))

	if len(m.history) > 1 {
		b.WriteString(fmt.Sprintf("   %s %s\n", dim.Render("contacts"), cyan.Render(sparkline(m.history, 24))))
	}

	b.WriteString("\n" + dim.Render("   space pause  ±speed  r reset  q quit") + "\n")

	return b.String()
}

// drawBodies projects entities onto the XZ plane. Glyph encodes state:
// airborne bodies by altitude, grounded solid, swimming wavy.
func (m model) drawBodies(canvas [][]rune, w, h int) {
	st := m.world.Store()
	alpha := m.world.Alpha()
	n := st.Len()

	for i := 0; i < n; i++ {
		id := phys.EntityID(i)
		p := m.world.InterpolatedPositionAt(id, alpha)

		cx := int((p[0] + viewExtent) / (2 * viewExtent) * float32(w))
		cy := int((p[2] + viewExtent) / (2 * viewExtent) * float32(h))
		if cx < 0 || cx >= w || cy < 0 || cy >= h {
			continue
		}

		flags := st.Flags(id)
		var c rune
		switch {
		case flags.Has(phys.FlagInWater):
			c = '≈'
		case flags.Has(phys.FlagGrounded):
			c = '▪'
		default:
			alt := p[1] - float32(m.cfg.Scene.FloorY)
			switch {
			case alt > 12:
				c = '·'
			case alt > 6:
				c = 'o'
			default:
				c = '●'
			}
		}
		canvas[cy][cx] = c
	}
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		v := data[i*step]
		idx := int((v - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

// Run launches the live view over the given configuration.
func Run(cfg *config.Config) error {
	world, err := sim.BuildScene(cfg, nil)
	if err != nil {
		return err
	}
	p := tea.NewProgram(NewModel(cfg, world), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
