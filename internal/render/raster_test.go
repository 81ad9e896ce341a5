package render

import (
	"strings"
	"testing"

	"torhmi/internal/types"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRasterize_Dimensions(t *testing.T) {
	g := Rasterize(Project(types.InitialVehicle(), 0, DefaultViewport), 0, 0)
	require.Equal(t, DefaultCols, g.Cols)
	require.Equal(t, DefaultRows, g.Rows)

	lines := strings.Split(g.String(), "\n")
	require.Len(t, lines, DefaultRows)
	for i, l := range lines {
		assert.Equal(t, DefaultCols, len([]rune(l)), "row %d", i)
	}
}

func TestRowsFor(t *testing.T) {
	assert.Equal(t, DefaultRows, RowsFor(DefaultViewport, DefaultCols))
	assert.Equal(t, 45, RowsFor(DefaultViewport, 60))
	assert.Equal(t, 1, RowsFor(DefaultViewport, 0))
}

func TestRasterize_Vehicles(t *testing.T) {
	v := types.VehicleState{LeadDistance: 80, Mode: types.ModeManual}
	g := Rasterize(Project(v, 0, DefaultViewport), DefaultCols, DefaultRows)

	// Lead rect spans x 180..220, y 80..140: cols 18-21, rows 4-6.
	for row := 4; row <= 6; row++ {
		for col := 18; col <= 21; col++ {
			assert.Equal(t, Cell{Rune: RuneSolid, FG: ColorLead, BG: ColorLead}, g.At(col, row))
		}
	}
	assert.NotEqual(t, RuneSolid, g.At(18, 3).Rune)
	assert.NotEqual(t, RuneSolid, g.At(22, 5).Rune)

	// Ego rect at y 500..560: rows 25-27.
	for row := 25; row <= 27; row++ {
		assert.Equal(t, ColorEgoManual, g.At(19, row).BG)
	}
}

func TestRasterize_LaneDashesScroll(t *testing.T) {
	column := func(scroll float64) string {
		g := Rasterize(Project(types.VehicleState{LeadDistance: 150}, scroll, DefaultViewport), DefaultCols, DefaultRows)
		var sb strings.Builder
		for row := 0; row < 8; row++ {
			sb.WriteRune(g.At(30, row).Rune)
		}
		return sb.String()
	}

	if diff := cmp.Diff("│ │ │ │ ", column(0)); diff != "" {
		t.Errorf("scroll 0 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(" │ │ │ │", column(20)); diff != "" {
		t.Errorf("scroll 20 (-want +got):\n%s", diff)
	}
	assert.Equal(t, column(0), column(DashPeriod))
}

func TestRasterize_SensorArcOnlyInAutonomous(t *testing.T) {
	count := func(mode types.DrivingMode) int {
		v := types.VehicleState{LeadDistance: 150, Mode: mode}
		g := Rasterize(Project(v, 0, DefaultViewport), DefaultCols, DefaultRows)
		return strings.Count(g.String(), string(RuneSensor))
	}
	assert.Positive(t, count(types.ModeAutonomous))
	assert.Zero(t, count(types.ModeManual))
	assert.Zero(t, count(types.ModeTakeoverRequest))
}

func TestRasterize_TakeoverOverlay(t *testing.T) {
	v := types.VehicleState{LeadDistance: 150, Mode: types.ModeTakeoverRequest}
	g := Rasterize(Project(v, 0, DefaultViewport), DefaultCols, DefaultRows)
	out := g.String()

	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[14], TORTitle)
	assert.Contains(t, lines[16], TORSubtitle)
	assert.Contains(t, lines[0], FeedLabel)

	// The wash tints the road.
	assert.NotEqual(t, ColorRoad, g.At(0, 20).BG)
	assert.True(t, g.At(20, 14).Bold)
}

func TestDashVisible(t *testing.T) {
	dash := [2]float64{20, 20}
	assert.True(t, dashVisible(0, dash, 0))
	assert.True(t, dashVisible(19.9, dash, 0))
	assert.False(t, dashVisible(20, dash, 0))
	assert.True(t, dashVisible(5, dash, -10), "negative phase wraps")
	assert.False(t, dashVisible(15, dash, -10))
	assert.True(t, dashVisible(7, [2]float64{}, 0))
}
