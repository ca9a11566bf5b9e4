package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	kerrors "github.com/matzehuels/keywheel/pkg/errors"
	"github.com/matzehuels/keywheel/pkg/radial"
	"github.com/matzehuels/keywheel/pkg/theory"
)

const (
	defaultTermWidth  = 80
	defaultTermHeight = 24
	footerLines       = 2
	edgeRune          = '·'
)

// animateCommand creates the animate command, which grows a key's tree in
// the terminal.
func (c *CLI) animateCommand() *cobra.Command {
	var (
		fps  int
		loop bool
	)

	cmd := &cobra.Command{
		Use:   "animate <key>",
		Short: "Grow a key's tree in the terminal",
		Long: `Grow a key's tree in the terminal, one tick per frame, until every ring
has reached its radius. Space pauses, r restarts and q quits.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: keyCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := theory.ParseKey(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("fps") {
				fps = c.Config.Animate.FPS
			}
			if fps <= 0 {
				return kerrors.New(kerrors.ErrCodeInvalidInput, "fps must be positive (got %d)", fps)
			}

			runner := c.newRunner()
			defer runner.Close()
			topo, err := runner.Topology(cmd.Context(), key, c.Config.Radial())
			if err != nil {
				return err
			}

			m := newAnimateModel(topo, fps, loop)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().IntVar(&fps, "fps", 30, "frames per second (default: config animate.fps)")
	cmd.Flags().BoolVar(&loop, "loop", false, "start over once the tree is fully grown")

	return cmd
}

// =============================================================================
// animateModel - terminal growth animation
// =============================================================================

// tickMsg carries the sequence number of the clock that scheduled it, so that
// ticks from a clock stopped by pause or restart are dropped.
type tickMsg struct {
	seq  int
	time time.Time
}

type animateModel struct {
	topo      *radial.Topology
	tick      uint
	saturated uint // first fully grown tick
	interval  time.Duration
	loop      bool
	paused    bool
	seq       int // current clock; ticks with another seq are stale
	width     int
	height    int
}

func newAnimateModel(topo *radial.Topology, fps int, loop bool) animateModel {
	return animateModel{
		topo:      topo,
		saturated: topo.Config.SaturationTick(),
		interval:  time.Second / time.Duration(fps),
		loop:      loop,
		width:     defaultTermWidth,
		height:    defaultTermHeight,
	}
}

func (m animateModel) Init() tea.Cmd {
	return m.next()
}

func (m animateModel) next() tea.Cmd {
	seq := m.seq
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg{seq: seq, time: t} })
}

// running reports whether the frame counter still has somewhere to go.
func (m animateModel) running() bool {
	return m.loop || m.tick < m.saturated
}

func (m animateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			m.seq++
			if !m.paused && m.running() {
				return m, m.next()
			}
		case "r":
			m.tick = 0
			m.seq++
			if !m.paused {
				return m, m.next()
			}
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tickMsg:
		if m.paused || msg.seq != m.seq {
			return m, nil
		}
		m.tick++
		if m.tick > m.saturated {
			m.tick = 0
		}
		if !m.running() {
			return m, nil
		}
		return m, m.next()
	}
	return m, nil
}

func (m animateModel) View() string {
	var b strings.Builder
	rows := m.height - footerLines
	if rows < 1 || m.width < 1 {
		return ""
	}

	c := newCanvas(m.width, rows)
	c.draw(m.topo.Layout(m.tick), m.topo.Config)
	b.WriteString(c.String())

	status := fmt.Sprintf("%s  tick %d/%d", m.topo.Root.Key, m.tick, m.saturated)
	if m.paused {
		status += "  paused"
	}
	b.WriteString("\n\n")
	b.WriteString(StyleValue.Render(status))
	b.WriteString(StyleDim.Render("  space pause · r restart · q quit"))
	return b.String()
}

// =============================================================================
// canvas - character grid
// =============================================================================

// noStyle marks cells drawn without a generation colour.
const noStyle = -1

type cell struct {
	r     rune
	style int // index into generationStyles, or noStyle
}

type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	cells := make([][]cell, h)
	for y := range cells {
		cells[y] = make([]cell, w)
		for x := range cells[y] {
			cells[y][x] = cell{r: ' ', style: noStyle}
		}
	}
	return &canvas{w: w, h: h, cells: cells}
}

// project maps a frame position onto a cell. Cells are about twice as tall
// as they are wide, so the vertical scale is halved.
func (c *canvas) project(p, center radial.Point, scale float64) (int, int) {
	x := float64(c.w)/2 + (p.X-center.X)*scale
	y := float64(c.h)/2 + (p.Y-center.Y)*scale/2
	return int(math.Round(x)), int(math.Round(y))
}

func (c *canvas) set(x, y int, r rune, style int) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = cell{r: r, style: style}
}

// line draws from (x0,y0) to (x1,y1) with Bresenham's algorithm.
func (c *canvas) line(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.set(x0, y0, edgeRune, noStyle)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *canvas) label(x, y int, text string, style int) {
	runes := []rune(text)
	start := x - len(runes)/2
	for i, r := range runes {
		c.set(start+i, y, r, style)
	}
}

func (c *canvas) draw(nodes []radial.Node, cfg radial.Config) {
	extent := cfg.Ring3Radius * 1.15
	scale := math.Min(float64(c.w), float64(c.h)*2) / (2 * extent)

	for _, n := range nodes {
		if n.IsRoot() {
			continue
		}
		x0, y0 := c.project(n.ParentPosition, cfg.Center, scale)
		x1, y1 := c.project(n.Position, cfg.Center, scale)
		c.line(x0, y0, x1, y1)
	}
	// Inner rings last so their labels stay readable.
	for g := radial.Generations; g >= 0; g-- {
		for _, n := range nodes {
			if n.Generation != g {
				continue
			}
			x, y := c.project(n.Position, cfg.Center, scale)
			c.label(x, y, n.Label, min(g, len(generationStyles)-1))
		}
	}
}

func (c *canvas) String() string {
	edge := StyleDim
	lines := make([]string, c.h)
	for y, row := range c.cells {
		var b strings.Builder
		for x := 0; x < len(row); {
			style := row[x].style
			var run strings.Builder
			for x < len(row) && row[x].style == style {
				run.WriteRune(row[x].r)
				x++
			}
			b.WriteString(cellStyle(style, edge).Render(run.String()))
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

func cellStyle(style int, fallback lipgloss.Style) lipgloss.Style {
	if style == noStyle {
		return fallback
	}
	return generationStyles[style]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
