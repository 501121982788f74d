package viz

import (
	"fmt"
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/galaxysim/internal/analysis"
	"github.com/san-kum/galaxysim/internal/series"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	width       = 80
	height      = 24
	graphWindow = 200
	playbackFPS = 30
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

type TickMsg time.Time

// Player replays a recorded series frame by frame.
type Player struct {
	series    *series.Series
	title     string
	half      int
	frame     int
	running   bool
	canvas    *Canvas
	camera    *Camera
	meanAcc   []float64
	sep       []float64
	recording bool
	gifFrames []*image.Paletted
	gifPath   string
	showHelp  bool
}

// NewPlayer prepares playback of ser. The camera is fitted to the first
// and last frames.
func NewPlayer(ser *series.Series, title string) Player {
	cam := NewCamera()
	if ser.Len() > 0 {
		first, _, _ := ser.Frame(0)
		last, _, _ := ser.Frame(ser.Len() - 1)
		cam.Fit(first, last)
	}

	sep, _ := analysis.Separation(ser)

	return Player{
		series:  ser,
		sep:     sep,
		title:   title,
		half:    ser.Bodies() / 2,
		running: true,
		canvas:  NewCanvas(width, height),
		camera:  cam,
		meanAcc: analysis.MeanAccelerationSeries(ser),
		gifPath: title + ".gif",
	}
}

func (m Player) Frame() int      { return m.frame }
func (m Player) Running() bool   { return m.running }
func (m Player) Camera() *Camera { return m.camera }

func tick() tea.Cmd {
	return tea.Tick(time.Second/playbackFPS, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Player) Init() tea.Cmd {
	return tick()
}

func (m Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.saveGIF()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
			if m.running && m.frame >= m.series.Len()-1 {
				m.frame = 0
			}
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "{":
			m.scrub(-10)
		case "}":
			m.scrub(10)
		case "home":
			m.frame = 0
		case "end":
			m.frame = max(m.series.Len()-1, 0)
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
		case "t":
			NextTheme()
		case "g":
			if m.recording {
				m.saveGIF()
				m.recording = false
				m.gifFrames = nil
			} else {
				m.recording = true
				m.gifFrames = make([]*image.Paletted, 0)
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		if m.recording {
			m.draw()
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Player) advance() {
	if m.frame+1 >= m.series.Len() {
		m.running = false
		return
	}
	m.frame++
}

// scrub pauses playback and moves the play head by dir frames.
func (m *Player) scrub(dir int) {
	m.running = false
	m.frame += dir
	if m.frame < 0 {
		m.frame = 0
	}
	if last := m.series.Len() - 1; m.frame > last {
		m.frame = max(last, 0)
	}
}

func (m *Player) draw() {
	m.canvas.Clear()
	pos, _, err := m.series.Frame(m.frame)
	if err != nil {
		return
	}
	RenderBodies(m.canvas, pos, m.half, m.camera)
}

func (m Player) View() string {
	m.draw()
	layers, mixed := CurrentTheme.galaxyStyles()
	canvasView := canvasStyle.Render(m.canvas.Render(layers, mixed))

	var s strings.Builder
	s.WriteString(headerStyle.Render(GradientText(strings.ToUpper(m.title), CurrentTheme.Primary, CurrentTheme.Accent)) + "\n")

	status := StatusRunning.Render("PLAYING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	if m.recording {
		status += " " + StatusRecording.Render("● REC")
	}
	s.WriteString(status + "\n\n")

	if m.frame > 0 {
		lo := max(0, m.frame+1-graphWindow)
		chart := asciigraph.Plot(m.meanAcc[lo:m.frame+1], asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("mean |a|"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(MetricLabel.Render("Frame") + valueStyle.Render(fmt.Sprintf("%d / %d", m.frame+1, m.series.Len())) + "\n")
	s.WriteString(MetricLabel.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d", m.series.Bodies())) + "\n")
	s.WriteString(MetricLabel.Render("Unit") + valueStyle.Render(m.series.Unit()) + "\n")

	if st, err := analysis.FrameStats(m.series, m.frame); err == nil {
		s.WriteString(MetricLabel.Render("|a| max") + MetricValue.Render(fmt.Sprintf("%.4g", st.Max)) + "\n")
		s.WriteString(MetricLabel.Render("|a| mean") + MetricValue.Render(fmt.Sprintf("%.4g", st.Mean)) + "\n")
	}
	if bottom, top, err := analysis.Centroids(m.series, m.frame); err == nil {
		sep := fmt.Sprintf("%.3g %s", r3.Norm(r3.Sub(top, bottom)), m.series.Unit())
		s.WriteString(MetricLabel.Render("Separation") + MetricValue.Render(sep) + "\n")
	}
	if len(m.sep) > 1 {
		s.WriteString("\n" + SparklineChart(m.sep[:m.frame+1], 30) + "\n")
		s.WriteString(Subtle.Render("separation so far") + "\n")
	}

	s.WriteString("\n" + Separator(30) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause Q:Quit ?:Help\n[ ]:Scrub xyz:Rotate +-:Zoom"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))

	if m.showHelp {
		return GlassPanel.Render(helpText()) + "\n\n" + mainView
	}
	return mainView
}

func helpText() string {
	keys := [][2]string{
		{"space", "pause / resume playback"},
		{"[ ]", "step one frame"},
		{"{ }", "step ten frames"},
		{"home end", "first / last frame"},
		{"x y z", "rotate (shift reverses)"},
		{"+ -", "zoom"},
		{"t", "cycle themes"},
		{"g", "toggle GIF recording"},
		{"q", "quit"},
		{"?", "toggle this help"},
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render("KEYBOARD SHORTCUTS") + "\n")
	for _, k := range keys {
		s.WriteString(MetricLabel.Render(k[0]) + KeyHint.Render(k[1]) + "\n")
	}
	return strings.TrimRight(s.String(), "\n")
}

// Play runs the playback TUI until the user quits.
func Play(ser *series.Series, title string) error {
	_, err := tea.NewProgram(NewPlayer(ser, title), tea.WithAltScreen()).Run()
	return err
}
