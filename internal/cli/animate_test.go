package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/keywheel/pkg/radial"
	"github.com/matzehuels/keywheel/pkg/theory"
)

func testAnimateModel(t *testing.T, loop bool) animateModel {
	t.Helper()
	topo := radial.BuildTopology(theory.MustParseKey("C"), radial.DefaultConfig())
	return newAnimateModel(topo, 30, loop)
}

func update(t *testing.T, m animateModel, msg tea.Msg) (animateModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(animateModel)
	if !ok {
		t.Fatalf("Update returned %T, want animateModel", next)
	}
	return am, cmd
}

func TestAnimateStopsAtSaturation(t *testing.T) {
	m := testAnimateModel(t, false)
	if m.saturated != 38 {
		t.Fatalf("saturated = %d, want 38", m.saturated)
	}

	var cmd tea.Cmd
	for i := uint(0); i < m.saturated; i++ {
		m, cmd = update(t, m, tickMsg{seq: m.seq})
	}
	if m.tick != m.saturated {
		t.Errorf("tick = %d, want %d", m.tick, m.saturated)
	}
	if cmd != nil {
		t.Error("still scheduling ticks after saturation")
	}
}

func TestAnimateLoop(t *testing.T) {
	m := testAnimateModel(t, true)
	var cmd tea.Cmd
	for i := uint(0); i <= m.saturated; i++ {
		m, cmd = update(t, m, tickMsg{seq: m.seq})
	}
	if m.tick != 0 {
		t.Errorf("tick after wrap = %d, want 0", m.tick)
	}
	if cmd == nil {
		t.Error("loop stopped scheduling ticks")
	}
}

func TestAnimatePauseAndRestart(t *testing.T) {
	m := testAnimateModel(t, false)
	m, _ = update(t, m, tickMsg{seq: m.seq})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.paused {
		t.Fatal("space did not pause")
	}
	m, cmd := update(t, m, tickMsg{seq: m.seq})
	if m.tick != 1 || cmd != nil {
		t.Errorf("paused tick = %d (cmd %v), want 1 and no cmd", m.tick, cmd != nil)
	}

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.paused || cmd == nil {
		t.Error("space did not resume")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if m.tick != 0 {
		t.Errorf("tick after restart = %d, want 0", m.tick)
	}
}

func TestAnimateQuit(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
	} {
		t.Run(key.String(), func(t *testing.T) {
			_, cmd := update(t, testAnimateModel(t, false), key)
			if cmd == nil {
				t.Fatal("no command returned")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Errorf("%s did not quit", key)
			}
		})
	}
}

func TestAnimateView(t *testing.T) {
	m := testAnimateModel(t, false)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m.tick = m.saturated

	view := m.View()
	lines := strings.Split(view, "\n")
	if len(lines) != 40 {
		t.Errorf("view has %d lines, want 40", len(lines))
	}
	for _, want := range []string{"Cm", "Am", "tick 38/38", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAnimateViewTooSmall(t *testing.T) {
	m := testAnimateModel(t, false)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 10, Height: 1})
	if v := m.View(); v != "" {
		t.Errorf("View() = %q, want empty", v)
	}
}

func TestCanvasLine(t *testing.T) {
	c := newCanvas(5, 3)
	c.line(0, 0, 4, 2)
	got := 0
	for _, row := range c.cells {
		for _, cl := range row {
			if cl.r == edgeRune {
				got++
			}
		}
	}
	if got != 5 {
		t.Errorf("line drew %d cells, want 5", got)
	}
	if c.cells[0][0].r != edgeRune || c.cells[2][4].r != edgeRune {
		t.Error("line does not reach both end points")
	}
}

// tickOf runs a scheduled tick command and returns its message.
func tickOf(t *testing.T, cmd tea.Cmd) tickMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("no tick scheduled")
	}
	raw := cmd()
	msg, ok := raw.(tickMsg)
	if !ok {
		t.Fatalf("command produced %T, want tickMsg", raw)
	}
	return msg
}

func TestAnimatePauseResumeDropsStaleTick(t *testing.T) {
	m := testAnimateModel(t, false)
	m.interval = time.Millisecond
	stale := tickOf(t, m.Init())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m, resume := update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	fresh := tickOf(t, resume)

	m, cmd := update(t, m, stale)
	if cmd != nil || m.tick != 0 {
		t.Errorf("stale tick advanced to %d (rescheduled %v), want 0 and no reschedule", m.tick, cmd != nil)
	}

	m, cmd = update(t, m, fresh)
	if m.tick != 1 || cmd == nil {
		t.Errorf("current tick = %d (rescheduled %v), want 1 and a reschedule", m.tick, cmd != nil)
	}
}

func TestAnimateRestartDropsStaleTick(t *testing.T) {
	m := testAnimateModel(t, false)
	m.interval = time.Millisecond
	stale := tickOf(t, m.Init())

	m, restart := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	tickOf(t, restart)

	if m, cmd := update(t, m, stale); cmd != nil || m.tick != 0 {
		t.Errorf("stale tick after restart advanced to %d", m.tick)
	}
}
