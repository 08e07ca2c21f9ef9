package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/erdraft/erdraft/pkg/canvas"
	"github.com/erdraft/erdraft/pkg/diagram"
	"github.com/erdraft/erdraft/pkg/geom"
	"github.com/erdraft/erdraft/pkg/scene"
	"github.com/erdraft/erdraft/pkg/schema"
)

// Terminal cells are not square; a canvas unit grid of 8x16 pixels per cell
// keeps diagrams roughly proportional to their desktop rendering.
const (
	cellWidth  = 8.0
	cellHeight = 16.0

	// canvasTop is the number of header lines above the drawing area.
	canvasTop = 1
	// canvasBottom is the number of status lines below the drawing area.
	canvasBottom = 2
)

// Editor styles.
var (
	colorCyan   = lipgloss.Color("36")
	colorYellow = lipgloss.Color("220")
	colorWhite  = lipgloss.Color("255")
	colorDim    = lipgloss.Color("240")

	styleHeader   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleStatus   = lipgloss.NewStyle().Foreground(colorWhite)
	styleHelp     = lipgloss.NewStyle().Foreground(colorDim)
	stylePrompt   = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	styleSelected = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
)

// editorModel is the bubbletea model for the interactive diagram editor. It
// owns no diagram state itself: every input is translated into a controller
// call and the view is redrawn from the scene.
type editorModel struct {
	cli     *CLI
	ctrl    *canvas.Controller
	project *schema.Project
	diag    *diagram.Diagram

	width  int
	height int

	// confirming is set while a bulk remove waits for y/n.
	confirming bool
	// picker holds the off-canvas entities shown by the add overlay, nil
	// while the overlay is closed.
	picker       []string
	pickerCursor int

	aborted bool
}

func newEditorModel(c *CLI, ctrl *canvas.Controller, p *schema.Project, d *diagram.Diagram) editorModel {
	return editorModel{cli: c, ctrl: ctrl, project: p, diag: d}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		first := m.width == 0
		m.width, m.height = msg.Width, msg.Height
		if first {
			// Layout exists now; apply the saved scroll position.
			m.ctrl.FlushDeferred()
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	return m, nil
}

func (m editorModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirming {
		switch msg.String() {
		case "y", "Y":
			m.confirming = false
			m.ctrl.RemoveSelected()
		case "n", "N", "esc":
			m.confirming = false
		}
		return m, nil
	}

	if m.picker != nil {
		return m.updatePicker(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "ctrl+c":
		m.aborted = true
		return m, tea.Quit

	case "esc":
		m.ctrl.Escape()
	case "ctrl+a":
		m.ctrl.SelectAll()

	case "a":
		m.picker = m.offCanvasEntities()
		m.pickerCursor = 0
	case "c":
		if id, ok := m.ctrl.Selection().First(); ok {
			m.ctrl.StartConnection(id)
		}
	case "delete", "backspace", "x":
		if m.ctrl.Selection().Len() > 1 && m.cli.Config.ConfirmBulkRemove {
			m.confirming = true
		} else {
			m.ctrl.RemoveSelected()
		}

	case "L":
		m.ctrl.Align(canvas.AlignLeft)
	case "R":
		m.ctrl.Align(canvas.AlignRight)
	case "T":
		m.ctrl.Align(canvas.AlignTop)
	case "B":
		m.ctrl.Align(canvas.AlignBottom)
	case "H":
		m.ctrl.Distribute(canvas.Horizontal)
	case "V":
		m.ctrl.Distribute(canvas.Vertical)

	case "+", "=":
		m.ctrl.ZoomIn()
	case "-":
		m.ctrl.ZoomOut()

	case "up", "down", "left", "right":
		m.scrollByKey(msg.String())
	}
	return m, nil
}

func (m *editorModel) scrollByKey(key string) {
	step := 4 * cellHeight / m.ctrl.Zoom()
	x, y := m.ctrl.Scroll()
	switch key {
	case "up":
		y -= step
	case "down":
		y += step
	case "left":
		x -= step
	case "right":
		x += step
	}
	m.ctrl.SetScroll(x, y)
}

func (m editorModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.picker = nil
	case "up", "k":
		if m.pickerCursor > 0 {
			m.pickerCursor--
		}
	case "down", "j":
		if m.pickerCursor < len(m.picker)-1 {
			m.pickerCursor++
		}
	case "enter":
		if len(m.picker) > 0 {
			name := m.picker[m.pickerCursor]
			if err := m.ctrl.Drop(name, m.viewCenter()); err != nil {
				m.cli.Logger.Warn("cannot place entity", "entity", name, "err", err)
			}
		}
		m.picker = nil
	}
	return m, nil
}

func (m editorModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.confirming || m.picker != nil {
		return m, nil
	}

	p := m.toCanvas(msg.X, msg.Y)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.ctrl.ZoomIn()
		return m, nil
	case tea.MouseButtonWheelDown:
		m.ctrl.ZoomOut()
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.ctrl.PrimaryPress(p, msg.Shift || msg.Ctrl)
		case tea.MouseButtonRight:
			m.ctrl.SecondaryPress(p)
		}
	case tea.MouseActionMotion:
		m.ctrl.PointerMove(p)
	case tea.MouseActionRelease:
		if msg.Button == tea.MouseButtonLeft {
			m.ctrl.PrimaryRelease(p)
		}
	}
	return m, nil
}

// toCanvas converts a terminal cell position to canvas coordinates through
// the current zoom and scroll.
func (m editorModel) toCanvas(cx, cy int) geom.Point {
	sx, sy := m.ctrl.Scroll()
	z := m.ctrl.Zoom()
	return geom.Point{
		X: float64(cx)*cellWidth/z + sx,
		Y: float64(cy-canvasTop)*cellHeight/z + sy,
	}
}

// viewCenter returns the canvas point at the middle of the drawing area,
// where newly added entities are placed.
func (m editorModel) viewCenter() geom.Point {
	return m.toCanvas(m.width/2, (m.height-canvasBottom+canvasTop)/2)
}

// offCanvasEntities lists schema entities not yet placed on the diagram,
// sorted by full name.
func (m editorModel) offCanvasEntities() []string {
	var names []string
	for _, t := range m.project.Tables {
		if !m.ctrl.Scene().HasNode(t.FullName()) {
			names = append(names, t.FullName())
		}
	}
	for _, s := range m.project.Sequences {
		if !m.ctrl.Scene().HasNode(s.FullName()) {
			names = append(names, s.FullName())
		}
	}
	sort.Strings(names)
	return names
}

func (m editorModel) View() string {
	if m.width == 0 {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(styleHeader.Render(fmt.Sprintf(" %s · %s", m.project.Name, m.diag.Name)))
	b.WriteString("\n")

	if m.picker != nil {
		b.WriteString(m.pickerView())
	} else {
		b.WriteString(m.canvasView())
	}

	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(styleHelp.Render(" a add  c connect  x remove  L/R/T/B align  H/V distribute  ctrl+a all  +/- zoom  q quit"))
	return b.String()
}

func (m editorModel) statusLine() string {
	if m.confirming {
		return stylePrompt.Render(fmt.Sprintf(" remove %d nodes? y/n", m.ctrl.Selection().Len()))
	}
	status := fmt.Sprintf(" %d nodes · %d selected · zoom %.0f%%",
		m.ctrl.Scene().NodeCount(), m.ctrl.Selection().Len(), m.ctrl.Zoom()*100)
	if m.ctrl.Armed() {
		status += " · connecting (click a target, esc cancels)"
	}
	return styleStatus.Render(status)
}

func (m editorModel) pickerView() string {
	var b strings.Builder
	b.WriteString(stylePrompt.Render(" Add entity (↑/↓, ⏎ place, esc close)"))
	b.WriteString("\n")

	visible := m.height - canvasTop - canvasBottom - 1
	if visible < 1 {
		visible = 1
	}
	if len(m.picker) == 0 {
		b.WriteString(styleHelp.Render("  every entity is already on this diagram"))
		b.WriteString("\n")
	}
	for i, name := range m.picker {
		if i >= visible {
			break
		}
		line := "  " + name
		if i == m.pickerCursor {
			line = styleSelected.Render("▸ " + name)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	for i := max(len(m.picker), 1); i < visible; i++ {
		b.WriteString("\n")
	}
	return b.String()
}

// canvasView rasterizes the scene into a cell grid: edges first, then node
// boxes on top, matching the draw order of the image exporter.
func (m editorModel) canvasView() string {
	rows := m.height - canvasTop - canvasBottom
	if rows < 1 {
		rows = 1
	}
	grid := newCellGrid(m.width, rows)

	for _, e := range m.ctrl.Scene().Edges() {
		m.drawEdge(grid, e)
	}
	if from, to, ok := m.ctrl.RubberBand(); ok {
		grid.line(m.toCell(from), m.toCell(to), '~')
	}
	for _, n := range m.ctrl.Scene().Nodes() {
		m.drawNode(grid, n)
	}

	return grid.String()
}

type cell struct{ x, y int }

// toCell converts canvas coordinates to a grid cell.
func (m editorModel) toCell(p geom.Point) cell {
	sx, sy := m.ctrl.Scroll()
	z := m.ctrl.Zoom()
	return cell{
		x: int((p.X - sx) * z / cellWidth),
		y: int((p.Y - sy) * z / cellHeight),
	}
}

func (m editorModel) drawEdge(g *cellGrid, e *scene.Edge) {
	ch := byte('.')
	if e.Kind == scene.EdgeManual {
		ch = '~'
	}
	from := m.toCell(e.Geometry.Source)
	to := m.toCell(e.Geometry.Target)
	g.line(from, to, rune(ch))
	if e.Geometry.HasArrow {
		g.set(to.x, to.y, '*')
	}
}

func (m editorModel) drawNode(g *cellGrid, n *scene.Node) {
	tl := m.toCell(geom.Point{X: n.Rect.X, Y: n.Rect.Y})
	br := m.toCell(geom.Point{X: n.Rect.X + n.Rect.Width, Y: n.Rect.Y + n.Rect.Height})
	w := br.x - tl.x
	h := br.y - tl.y
	if w < 2 || h < 1 {
		g.set(tl.x, tl.y, '▪')
		return
	}

	selected := m.ctrl.Selection().Contains(n.ID)
	g.box(tl.x, tl.y, w, h, selected)

	inner := w - 2
	if inner <= 0 {
		return
	}
	for i, line := range n.Lines {
		y := tl.y + 1 + i
		if i > 0 {
			y++ // row 0 is the title; attribute rows start under the separator
		}
		if y >= tl.y+h {
			break
		}
		if i == 0 && h > 2 && len(n.Lines) > 1 {
			g.hline(tl.x+1, tl.y+2, inner, '─')
		}
		g.text(tl.x+1, y, line, inner)
	}
}

// cellGrid is a rune raster the canvas view draws into.
type cellGrid struct {
	w, h  int
	cells [][]rune
}

func newCellGrid(w, h int) *cellGrid {
	cells := make([][]rune, h)
	for i := range cells {
		row := make([]rune, w)
		for j := range row {
			row[j] = ' '
		}
		cells[i] = row
	}
	return &cellGrid{w: w, h: h, cells: cells}
}

func (g *cellGrid) set(x, y int, r rune) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.cells[y][x] = r
}

func (g *cellGrid) hline(x, y, w int, r rune) {
	for i := 0; i < w; i++ {
		g.set(x+i, y, r)
	}
}

func (g *cellGrid) text(x, y int, s string, maxWidth int) {
	for i, r := range []rune(s) {
		if i >= maxWidth {
			break
		}
		g.set(x+i, y, r)
	}
}

// line draws a straight run of cells between two points.
func (g *cellGrid) line(a, b cell, r rune) {
	dx, dy := b.x-a.x, b.y-a.y
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		g.set(a.x, a.y, r)
		return
	}
	for i := 0; i <= steps; i++ {
		x := a.x + dx*i/steps
		y := a.y + dy*i/steps
		g.set(x, y, r)
	}
}

// box draws a bordered rectangle. Selected boxes use double borders.
func (g *cellGrid) box(x, y, w, h int, selected bool) {
	tlr, trr, blr, brr := '┌', '┐', '└', '┘'
	hr, vr := '─', '│'
	if selected {
		tlr, trr, blr, brr = '╔', '╗', '╚', '╝'
		hr, vr = '═', '║'
	}

	for i := 1; i < w; i++ {
		g.set(x+i, y, hr)
		g.set(x+i, y+h, hr)
	}
	for i := 1; i < h; i++ {
		g.set(x, y+i, vr)
		g.set(x+w, y+i, vr)
		for j := 1; j < w; j++ {
			g.set(x+j, y+i, ' ')
		}
	}
	g.set(x, y, tlr)
	g.set(x+w, y, trr)
	g.set(x, y+h, blr)
	g.set(x+w, y+h, brr)
}

func (g *cellGrid) String() string {
	var b strings.Builder
	for _, row := range g.cells {
		b.WriteString(strings.TrimRight(string(row), " "))
		b.WriteString("\n")
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
