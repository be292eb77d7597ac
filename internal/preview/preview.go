// Package preview renders the watch face in a terminal: the time, the four
// bars and the status line, redrawn on every frame the face presents.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"barface/tickos/dict"
	"barface/tickos/proto"
	"barface/tickos/tasks/watchface"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MaxStatusBytes is the longest status line the watch stores.
const MaxStatusBytes = proto.SyncValueBytes - 1

// ErrStatusTooLong is returned for a status line the watch would reject.
var ErrStatusTooLong = errors.New("status too long")

// StatusSender returns a send func for New that writes each status line to
// link as one frame under the status key.
func StatusSender(link io.Writer) func(string) error {
	return func(s string) error {
		if len(s) > MaxStatusBytes {
			return fmt.Errorf("%w: %d bytes, limit %d", ErrStatusTooLong, len(s), MaxStatusBytes)
		}
		return dict.WriteFrame(link, []dict.Tuple{dict.CString(watchface.KeyStatusLine, s)})
	}
}

// FrameMsg carries one presented frame into the program.
type FrameMsg watchface.Frame

// sentMsg reports the outcome of pushing a status line to the link.
type sentMsg struct{ err error }

const barCells = 36

var barColors = [4]string{"#FF5500", "#00FF00", "#55AAFF", "#FFFFFF"}

var barLabels = [4]string{"24h", "12h", "min", "sec"}

// Model is the bubbletea model for the preview.
type Model struct {
	frame  watchface.Frame
	seen   bool
	bars   [4]progress.Model
	input  textinput.Model
	send   func(string) error
	typing bool
	err    error

	faceStyle   lipgloss.Style
	timeStyle   lipgloss.Style
	labelStyle  lipgloss.Style
	statusStyle lipgloss.Style
	helpStyle   lipgloss.Style
	errStyle    lipgloss.Style
}

// New builds a preview. send, if non-nil, lets the user type a status line
// that is delivered over the companion link.
func New(send func(string) error) Model {
	m := Model{send: send}
	for i := range m.bars {
		m.bars[i] = progress.New(
			progress.WithSolidFill(barColors[i]),
			progress.WithoutPercentage(),
			progress.WithWidth(barCells),
		)
	}

	m.input = textinput.New()
	m.input.Placeholder = "status line"
	m.input.CharLimit = MaxStatusBytes
	m.input.Width = barCells

	m.faceStyle = lipgloss.NewStyle().
		Background(lipgloss.Color("#000055")).
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("238"))
	m.timeStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Width(barCells + 4).
		Align(lipgloss.Center)
	m.labelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Width(4)
	m.statusStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Width(barCells + 4)
	m.helpStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	m.errStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		m.frame = watchface.Frame(msg)
		m.seen = true
		return m, nil

	case sentMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if m.typing {
			return m.updateInput(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			if m.send == nil {
				return m, nil
			}
			m.typing = true
			m.err = nil
			return m, m.input.Focus()
		}
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.typing = false
		m.input.Blur()
		m.input.Reset()
		return m, nil
	case "enter":
		text := m.input.Value()
		m.typing = false
		m.input.Blur()
		m.input.Reset()
		send := m.send
		return m, func() tea.Msg { return sentMsg{err: send(text)} }
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder

	clock := "--:--"
	if m.seen {
		clock = m.frame.Time
	}
	lengths := [4]int{m.frame.Bars.Day, m.frame.Bars.HalfDay, m.frame.Bars.Minute, m.frame.Bars.Second}
	for i, px := range lengths {
		pct := float64(px) / float64(watchface.BarWidth)
		fmt.Fprintf(&b, "%s%s\n", m.labelStyle.Render(barLabels[i]), m.bars[i].ViewAs(pct))
	}
	b.WriteString("\n")
	b.WriteString(m.timeStyle.Render(clock))
	b.WriteString("\n\n")
	b.WriteString(m.statusStyle.Render(m.frame.Status))

	out := m.faceStyle.Render(b.String()) + "\n"
	if m.typing {
		out += m.input.View() + "\n"
	}
	if m.err != nil {
		out += m.errStyle.Render("send: "+m.err.Error()) + "\n"
	}
	help := "q quit"
	if m.send != nil {
		help = "s status  " + help
	}
	return out + m.helpStyle.Render(help)
}

// Run shows the preview until the user quits or ctx ends. Frames are read
// from frames until it closes.
func Run(ctx context.Context, frames <-chan watchface.Frame, send func(string) error) error {
	p := tea.NewProgram(New(send), tea.WithContext(ctx), tea.WithAltScreen())
	go func() {
		for f := range frames {
			p.Send(FrameMsg(f))
		}
	}()
	_, err := p.Run()
	return err
}
