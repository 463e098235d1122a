package main

import (
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"locap/caption"
	"locap/config"
	"locap/layout"
)

// TUI message types
type HistoryLineMsg struct {
	Index int
	Text  string
}
type PartialMsg struct{ Text string }
type ErrorMsg struct{ Text string }
type StyleMsg struct{ Style caption.Style }
type GeometryMsg struct{ Geometry layout.Geometry }

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex
)

// tuiSend delivers a message to the TUI if it is running.
func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// tuiTarget adapts the Bubble Tea program to the RenderTarget surface.
// Every command becomes a typed message handled on the TUI goroutine.
type tuiTarget struct{}

func (tuiTarget) SetHistoryLine(i int, text string) { tuiSend(HistoryLineMsg{Index: i, Text: text}) }
func (tuiTarget) SetPartial(text string)            { tuiSend(PartialMsg{Text: text}) }
func (tuiTarget) ShowError(text string)             { tuiSend(ErrorMsg{Text: text}) }
func (tuiTarget) ApplyStyle(s caption.Style)        { tuiSend(StyleMsg{Style: s}) }
func (tuiTarget) ApplyGeometry(g layout.Geometry)   { tuiSend(GeometryMsg{Geometry: g}) }

// tuiControls is what the key handlers drive. Plain funcs so model
// tests run without a live worker.
type tuiControls struct {
	toggle func() // start or stop listening
	update func(func(*config.Settings))
}

type tuiModel struct {
	history [caption.MaxHistory]string
	partial string
	errText string
	style   caption.Style
	hasGeo  bool

	listening     bool
	width, height int
	controls      tuiControls

	historyStyles [caption.MaxHistory]lipgloss.Style
	partialStyle  lipgloss.Style
}

var (
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
)

func NewTUIProgram(controls tuiControls) *tea.Program {
	m := tuiModel{controls: controls, listening: true}
	return tea.NewProgram(m, tea.WithAltScreen())
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) applyStyle(s caption.Style) tuiModel {
	m.style = s
	for i, c := range s.Colors {
		m.historyStyles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	m.partialStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(s.PartialColor)).Bold(true)
	return m
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		return m.handleKey(msg)

	case HistoryLineMsg:
		if msg.Index >= 0 && msg.Index < caption.MaxHistory {
			m.history[msg.Index] = msg.Text
		}

	case PartialMsg:
		m.partial = msg.Text
		m.errText = ""

	case ErrorMsg:
		m.errText = msg.Text
		m.listening = false

	case StyleMsg:
		m = m.applyStyle(msg.Style)

	case GeometryMsg:
		// Terminal windows are not repositionable; geometry only matters
		// for the GUI target.
		m.hasGeo = true
	}
	return m, nil
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case " ":
		m.listening = !m.listening
		if m.controls.toggle != nil {
			m.controls.toggle()
		}

	case "d":
		if m.controls.update != nil {
			m.controls.update(func(s *config.Settings) {
				s.Dock = nextDock(s.Dock)
			})
		}

	case "f":
		if m.controls.update != nil {
			m.controls.update(func(s *config.Settings) {
				s.Fullscreen = !s.Fullscreen
			})
		}

	case "+", "=":
		if m.controls.update != nil {
			m.controls.update(func(s *config.Settings) {
				if s.FontSize < config.MaxFontSize {
					s.FontSize++
				}
			})
		}

	case "-":
		if m.controls.update != nil {
			m.controls.update(func(s *config.Settings) {
				if s.FontSize > config.MinFontSize {
					s.FontSize--
				}
			})
		}
	}
	return m, nil
}

func nextDock(d config.Dock) config.Dock {
	switch d {
	case config.DockFloating:
		return config.DockTop
	case config.DockTop:
		return config.DockBottom
	}
	return config.DockFloating
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	wrapWidth := m.width - 2
	if wrapWidth < 10 {
		wrapWidth = 10
	}

	var b strings.Builder

	status := "● LIVE"
	style := m.partialStyle
	if !m.listening {
		status = "○ PAUSED"
		style = dimStyle
	}
	b.WriteString(style.Render(status))
	if m.style.FontSize > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  [%dpt]", m.style.FontSize)))
	}
	b.WriteString("\n\n")

	// History, oldest on top: slot MaxHistory-1 down to 0.
	for i := caption.MaxHistory - 1; i >= 0; i-- {
		if m.history[i] == "" {
			continue
		}
		for _, line := range wrapText(m.history[i], wrapWidth) {
			b.WriteString(m.historyStyles[i].Render(line))
			b.WriteString("\n")
		}
	}

	if m.errText != "" {
		b.WriteString(errStyle.Render("⚠ " + m.errText))
		b.WriteString("\n")
	} else if m.partial != "" {
		for _, line := range wrapText(m.partial, wrapWidth) {
			b.WriteString(m.partialStyle.Render(line))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space pause · d dock · f fullscreen · +/- font · q quit"))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("locap " + version))

	return b.String()
}

func wrapText(text string, width int) []string {
	if len(text) == 0 {
		return []string{""}
	}
	if width <= 0 {
		width = 1
	}

	var lines []string
	for len(text) > width {
		splitAt := width
		for i := width; i > 0; i-- {
			if text[i] == ' ' {
				splitAt = i
				break
			}
		}
		lines = append(lines, text[:splitAt])
		text = strings.TrimLeft(text[splitAt:], " ")
	}
	if len(text) > 0 {
		lines = append(lines, text)
	}
	return lines
}
