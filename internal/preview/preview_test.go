package preview

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"barface/tickos/dict"
	"barface/tickos/tasks/watchface"

	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m tea.Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	pm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, want Model", next)
	}
	return pm, cmd
}

func TestViewShowsFrame(t *testing.T) {
	m := New(nil)
	if !strings.Contains(m.View(), "--:--") {
		t.Fatal("View() before any frame should show a placeholder clock")
	}
	m, _ = update(t, m, FrameMsg(watchface.Frame{
		Time:   "13:04",
		Bars:   watchface.ComputeBars(13, 4, 5),
		Status: "Hello",
	}))
	view := m.View()
	for _, want := range []string{"13:04", "Hello", "24h", "sec", "q quit"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View() missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "s status") {
		t.Fatal("View() offers status input without a link")
	}
}

func TestQuit(t *testing.T) {
	_, cmd := update(t, New(nil), key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q command = %T, want tea.QuitMsg", cmd())
	}
}

func TestStatusInputSends(t *testing.T) {
	var got []string
	m := New(func(s string) error {
		got = append(got, s)
		return nil
	})

	m, _ = update(t, m, key("s"))
	if !m.typing {
		t.Fatal("s did not start status input")
	}
	m, _ = update(t, m, key("Hi there"))
	m, cmd := update(t, m, key("enter"))
	if m.typing {
		t.Fatal("enter left input open")
	}
	if cmd == nil {
		t.Fatal("enter returned no command")
	}
	m, _ = update(t, m, cmd())
	if len(got) != 1 || got[0] != "Hi there" {
		t.Fatalf("sent = %q, want [Hi there]", got)
	}
	if m.err != nil {
		t.Fatalf("err = %v, want nil", m.err)
	}

	m, _ = update(t, m, key("q"))
	if m.typing {
		t.Fatal("q should not reopen input")
	}
}

func TestStatusInputEscapeAndError(t *testing.T) {
	m := New(func(string) error { return errors.New("link closed") })
	m, _ = update(t, m, key("s"))
	m, _ = update(t, m, key("x"))
	m, cmd := update(t, m, key("esc"))
	if m.typing || cmd != nil {
		t.Fatalf("esc: typing=%v cmd=%v, want closed without command", m.typing, cmd != nil)
	}

	m, _ = update(t, m, key("s"))
	m, _ = update(t, m, key("y"))
	m, cmd = update(t, m, key("enter"))
	m, _ = update(t, m, cmd())
	if m.err == nil || !strings.Contains(m.View(), "link closed") {
		t.Fatalf("err = %v, want link closed shown", m.err)
	}
}

func TestStatusSenderLimitsBytes(t *testing.T) {
	var link bytes.Buffer
	send := StatusSender(&link)

	if err := send("Hello"); err != nil {
		t.Fatalf("send(Hello) err = %v", err)
	}
	tuples, err := dict.NewFrameReader(&link).Next()
	if err != nil || len(tuples) != 1 || tuples[0].Key != watchface.KeyStatusLine || tuples[0].Str() != "Hello" {
		t.Fatalf("frame = %v, %v, want one status tuple Hello", tuples, err)
	}

	// 31 runes, 62 bytes.
	wide := strings.Repeat("é", MaxStatusBytes)
	if err := send(wide); !errors.Is(err, ErrStatusTooLong) {
		t.Fatalf("send(%d bytes) err = %v, want ErrStatusTooLong", len(wide), err)
	}
	if link.Len() != 0 {
		t.Fatalf("wrote %d bytes for a rejected line", link.Len())
	}
}

func TestStatusTooLongShown(t *testing.T) {
	var link bytes.Buffer
	m := New(StatusSender(&link))
	m, _ = update(t, m, key("s"))
	m, _ = update(t, m, key(strings.Repeat("é", 20)))
	m, cmd := update(t, m, key("enter"))
	m, _ = update(t, m, cmd())
	if !errors.Is(m.err, ErrStatusTooLong) || !strings.Contains(m.View(), "status too long") {
		t.Fatalf("err = %v, want status too long shown", m.err)
	}
}
