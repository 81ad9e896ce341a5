package render

import (
	"math"
	"strings"
)

// Default terminal canvas: 40 columns by 30 rows. Terminal cells are about
// twice as tall as wide, so each cell covers 10x20 canvas pixels.
const (
	DefaultCols = 40
	DefaultRows = 30
)

// RowsFor returns the row count that keeps vp's aspect at cols columns.
func RowsFor(vp Viewport, cols int) int {
	rows := int(float64(cols) * vp.Height / vp.Width / 2)
	if rows < 1 {
		rows = 1
	}
	return rows
}

// Runes used by the rasterizer.
const (
	RuneBlank  = ' '
	RuneSolid  = '█'
	RuneLaneV  = '│'
	RuneLaneH  = '─'
	RuneSensor = '·'
)

// Cell is one terminal character cell.
type Cell struct {
	Rune rune
	FG   Color
	BG   Color
	Bold bool
}

// Grid is a row-major cell raster.
type Grid struct {
	Cols, Rows int
	Cells      []Cell
}

// At returns the cell at col, row.
func (g Grid) At(col, row int) Cell {
	return g.Cells[row*g.Cols+col]
}

// Row returns the cells of one row.
func (g Grid) Row(row int) []Cell {
	return g.Cells[row*g.Cols : (row+1)*g.Cols]
}

// String returns the runes only, one line per row.
func (g Grid) String() string {
	var sb strings.Builder
	sb.Grow((g.Cols + 1) * g.Rows * 3)
	for r := 0; r < g.Rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range g.Row(r) {
			sb.WriteRune(c.Rune)
		}
	}
	return sb.String()
}

type raster struct {
	Grid
	cw, ch float64 // canvas pixels per cell
}

func (r *raster) cell(col, row int) *Cell {
	if col < 0 || row < 0 || col >= r.Cols || row >= r.Rows {
		return nil
	}
	return &r.Cells[row*r.Cols+col]
}

func (r *raster) cellAt(x, y float64) *Cell {
	return r.cell(int(math.Floor(x/r.cw)), int(math.Floor(y/r.ch)))
}

// Rasterize draws f into a cols x rows grid.
func Rasterize(f Frame, cols, rows int) Grid {
	if cols <= 0 {
		cols = DefaultCols
	}
	if rows <= 0 {
		rows = DefaultRows
	}
	r := &raster{
		Grid: Grid{Cols: cols, Rows: rows, Cells: make([]Cell, cols*rows)},
		cw:   f.Viewport.Width / float64(cols),
		ch:   f.Viewport.Height / float64(rows),
	}
	bg := f.Background.Over(Color{})
	for i := range r.Cells {
		r.Cells[i] = Cell{Rune: RuneBlank, FG: bg, BG: bg}
	}

	for _, cmd := range f.Commands {
		switch c := cmd.(type) {
		case Rect:
			r.rect(c)
		case DashedLine:
			r.dashed(c)
		case Arc:
			r.arc(c)
		case Text:
			r.text(c)
		}
	}
	return r.Grid
}

func (r *raster) rect(c Rect) {
	for row := 0; row < r.Rows; row++ {
		y := (float64(row) + 0.5) * r.ch
		if y < c.Y || y >= c.Y+c.H {
			continue
		}
		for col := 0; col < r.Cols; col++ {
			x := (float64(col) + 0.5) * r.cw
			if x < c.X || x >= c.X+c.W {
				continue
			}
			cell := r.cell(col, row)
			if c.Fill.A >= 1 {
				*cell = Cell{Rune: RuneSolid, FG: c.Fill, BG: c.Fill}
				continue
			}
			cell.FG = c.Fill.Over(cell.FG)
			cell.BG = c.Fill.Over(cell.BG)
		}
	}
}

// dashVisible reports whether distance d along a dashed path is inside a
// dash, with canvas lineDashOffset semantics.
func dashVisible(d float64, dash [2]float64, offset float64) bool {
	period := dash[0] + dash[1]
	if period <= 0 {
		return true
	}
	p := math.Mod(d+offset, period)
	if p < 0 {
		p += period
	}
	return p < dash[0]
}

func (r *raster) dashed(c DashedLine) {
	dx, dy := c.X2-c.X1, c.Y2-c.Y1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}

	vertical := math.Abs(dy) >= math.Abs(dx)
	glyph := RuneLaneH
	n, step := int(math.Ceil(math.Abs(dx)/r.cw)), r.cw
	if vertical {
		glyph = RuneLaneV
		n, step = int(math.Ceil(math.Abs(dy)/r.ch)), r.ch
	}

	// One sample per cell along the major axis, at the cell center.
	for i := 0; i < n; i++ {
		var x, y float64
		if vertical {
			y = math.Min(c.Y1, c.Y2) + (float64(i)+0.5)*step
			x = c.X1 + (y-c.Y1)*dx/dy
		} else {
			x = math.Min(c.X1, c.X2) + (float64(i)+0.5)*step
			y = c.Y1 + (x-c.X1)*dy/dx
		}
		d := math.Hypot(x-c.X1, y-c.Y1)
		if !dashVisible(d, c.Dash, c.Offset) {
			continue
		}
		if cell := r.cellAt(x, y); cell != nil && cell.Rune == RuneBlank {
			cell.Rune = glyph
			cell.FG = c.Stroke.Over(cell.BG)
		}
	}
}

func (r *raster) plot(x, y float64, stroke Color) {
	cell := r.cellAt(x, y)
	if cell == nil || cell.Rune == RuneSolid {
		return
	}
	cell.Rune = RuneSensor
	cell.FG = stroke.Over(cell.BG)
}

func (r *raster) arc(c Arc) {
	step := math.Min(r.cw, r.ch) / 2
	sweep := c.End - c.Start
	n := int(math.Ceil(math.Abs(sweep) * c.R / step))
	for i := 0; i <= n; i++ {
		theta := c.Start + sweep*float64(i)/float64(max(n, 1))
		r.plot(c.CX+c.R*math.Cos(theta), c.CY+c.R*math.Sin(theta), c.Stroke)
	}

	if !c.FromCenter {
		return
	}
	sx, sy := c.CX+c.R*math.Cos(c.Start), c.CY+c.R*math.Sin(c.Start)
	m := int(math.Ceil(c.R / step))
	for i := 1; i <= m; i++ {
		t := float64(i) / float64(m)
		r.plot(c.CX+(sx-c.CX)*t, c.CY+(sy-c.CY)*t, c.Stroke)
	}
}

func (r *raster) text(c Text) {
	runes := []rune(c.Value)
	row := int(math.Floor(c.Y / r.ch))
	col := int(math.Floor(c.X / r.cw))
	if c.Align == AlignCenter {
		col -= len(runes) / 2
	}
	for i, ch := range runes {
		cell := r.cell(col+i, row)
		if cell == nil {
			continue
		}
		cell.Rune = ch
		cell.FG = c.Fill
		cell.Bold = c.Bold
	}
}
