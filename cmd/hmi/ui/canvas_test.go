package ui

import (
	"strings"
	"testing"

	"torhmi/internal/render"
	"torhmi/internal/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestPaintGrid(t *testing.T) {
	v := types.VehicleState{LeadDistance: 60, Mode: types.ModeTakeoverRequest}
	g := render.Rasterize(render.Project(v, 0, render.DefaultViewport), render.DefaultCols, render.DefaultRows)

	out := PaintGrid(g)
	assert.Equal(t, render.DefaultRows, lipgloss.Height(out))
	assert.Equal(t, render.DefaultCols, lipgloss.Width(out))
	assert.True(t, strings.Contains(out, render.TORTitle))
}
