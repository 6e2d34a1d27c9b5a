package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wasm96/core/abi"
	"github.com/wasm96/core/input"
	"github.com/wasm96/core/runtime"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type viewerState int

const (
	statePickFile viewerState = iota
	stateRunning
)

// joypadKeys maps viewer keys to port-0 joypad buttons. A key counts as held
// for the frame after it arrives; terminals deliver no release events.
var joypadKeys = map[string]uint32{
	"up":    abi.ButtonUp,
	"down":  abi.ButtonDown,
	"left":  abi.ButtonLeft,
	"right": abi.ButtonRight,
	"z":     abi.ButtonB,
	"x":     abi.ButtonA,
	"a":     abi.ButtonY,
	"s":     abi.ButtonX,
	"enter": abi.ButtonStart,
	"tab":   abi.ButtonSelect,
}

type viewerModel struct {
	console  *runtime.Console
	err      error
	state    viewerState
	picker   textinput.Model
	filename string
	pressed  uint32
	termW    int
	termH    int
	frame    int
}

type frameMsg time.Time

func frameTick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func newViewerModel(filename string) *viewerModel {
	picker := textinput.New()
	picker.Placeholder = "path/to/cartridge.wasm"
	picker.Prompt = "cartridge: "
	picker.Width = 60
	picker.Focus()

	return &viewerModel{
		state:    statePickFile,
		picker:   picker,
		filename: filename,
		termW:    80,
		termH:    24,
	}
}

func (m *viewerModel) Init() tea.Cmd {
	if m.filename != "" {
		return m.load(m.filename)
	}
	return textinput.Blink
}

type loadedMsg struct {
	err     error
	console *runtime.Console
}

func (m *viewerModel) load(filename string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		data, err := os.ReadFile(filename)
		if err != nil {
			return loadedMsg{err: err}
		}

		console, err := runtime.NewConsole(ctx, nil)
		if err != nil {
			return loadedMsg{err: err}
		}
		if err := console.Load(ctx, data); err != nil {
			console.Close(ctx)
			return loadedMsg{err: err}
		}
		return loadedMsg{console: console}
	}
}

func (m *viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termW = msg.Width
		m.termH = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.console != nil {
				m.console.Close(context.Background())
			}
			return m, tea.Quit
		}

		if m.state == statePickFile {
			if msg.String() == "enter" && m.picker.Value() != "" {
				m.filename = m.picker.Value()
				return m, m.load(m.filename)
			}
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}

		if button, ok := joypadKeys[msg.String()]; ok {
			m.pressed |= 1 << button
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = statePickFile
			return m, nil
		}
		m.err = nil
		m.console = msg.console
		m.state = stateRunning
		return m, frameTick()

	case frameMsg:
		if m.state != stateRunning {
			return m, nil
		}

		var snap input.Snapshot
		snap.SetJoypad(0, m.pressed)
		m.pressed = 0
		m.console.SetInput(snap)

		ctx := context.Background()
		if err := m.console.RunFrame(ctx); err != nil {
			m.err = err
			return m, nil
		}
		m.console.Audio().Drain(0)
		m.console.TakeAudio()
		m.frame++
		return m, frameTick()
	}

	return m, nil
}

func (m *viewerModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("wasm96"))
	if m.filename != "" {
		b.WriteString(" " + m.filename)
	}
	b.WriteString("\n")

	switch m.state {
	case statePickFile:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(m.picker.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter load • q quit"))

	case stateRunning:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n")
		}
		b.WriteString(m.renderFramebuffer())
		b.WriteString(helpStyle.Render("arrows d-pad • z/x/a/s buttons • enter start • tab select • q quit"))
	}

	return b.String()
}

// renderFramebuffer samples the surface into half-block cells: one terminal
// row carries two pixel rows via the upper-half glyph with independent
// foreground and background colors.
func (m *viewerModel) renderFramebuffer() string {
	video := m.console.Video()
	srcW := int(video.Width())
	srcH := int(video.Height())
	if srcW == 0 || srcH == 0 {
		return "\n"
	}

	cols := m.termW
	rows := (m.termH - 3) * 2
	if cols <= 0 || rows <= 0 {
		return "\n"
	}

	// Preserve the cartridge's aspect in cell space.
	if srcW < cols {
		cols = srcW
	}
	if srcH < rows {
		rows = srcH
	}

	var b strings.Builder
	for cy := 0; cy+1 < rows; cy += 2 {
		for cx := 0; cx < cols; cx++ {
			topX := int32(cx * srcW / cols)
			topY := int32(cy * srcH / rows)
			botY := int32((cy + 1) * srcH / rows)

			style := lipgloss.NewStyle().
				Foreground(pixelColor(video.Pixel(topX, topY))).
				Background(pixelColor(video.Pixel(topX, botY)))
			b.WriteString(style.Render("▀"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func pixelColor(p uint32) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%06x", p&0xFFFFFF))
}

func runInteractive(filename string) error {
	p := tea.NewProgram(newViewerModel(filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
