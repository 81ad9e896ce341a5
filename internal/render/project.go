package render

import (
	"math"

	"torhmi/internal/types"
)

// Scene geometry in canvas pixels.
const (
	DashOn     = 20.0
	DashOff    = 20.0
	DashPeriod = DashOn + DashOff

	LaneWidth = 2.0

	CarWidth  = 40.0
	CarHeight = 60.0

	EgoY       = 500.0
	LaneOffset = 50.0 // px per unit of LanePosition

	LeadBaseY   = 400.0
	LeadScale   = 4.0 // px per metre of gap
	LeadMinY    = 50.0
	SensorRange = 200.0

	ScrollDivisor = 10.0 // scroll grows by speed/10 per frame
)

var laneFractions = [...]float64{0.25, 0.5, 0.75}

const (
	TORTitle    = "TAKE CONTROL"
	TORSubtitle = "MANUAL INTERVENTION REQUIRED"
	FeedLabel   = "LIVE LIDAR / RADAR FEED"
)

// Project returns the draw list for v at the given scroll offset.
func Project(v types.VehicleState, scroll float64, vp Viewport) Frame {
	w, h := vp.Width, vp.Height
	cmds := make([]Command, 0, 9)

	for _, f := range laneFractions {
		x := w * f
		cmds = append(cmds, DashedLine{
			X1: x, Y1: 0, X2: x, Y2: h,
			Stroke: ColorLane,
			Width:  LaneWidth,
			Dash:   [2]float64{DashOn, DashOff},
			Offset: -scroll,
		})
	}

	leadY := math.Max(LeadMinY, LeadBaseY-v.LeadDistance*LeadScale)
	cmds = append(cmds, Rect{X: w/2 - CarWidth/2, Y: leadY, W: CarWidth, H: CarHeight, Fill: ColorLead})

	carX := EgoX(v, vp)
	ego := ColorEgoManual
	if v.Mode == types.ModeAutonomous {
		ego = ColorEgoAuto
	}
	cmds = append(cmds, Rect{X: carX - CarWidth/2, Y: EgoY, W: CarWidth, H: CarHeight, Fill: ego})

	if v.Mode == types.ModeAutonomous {
		cmds = append(cmds, Arc{
			CX: carX, CY: EgoY, R: SensorRange,
			Start: -0.7 * math.Pi, End: -0.3 * math.Pi,
			Stroke:     ColorSensor,
			FromCenter: true,
		})
	}

	cmds = append(cmds, Text{X: 16, Y: 16, Value: FeedLabel, Fill: ColorFeedLabel, Size: 12, Bold: true, Align: AlignLeft})

	if v.Mode == types.ModeTakeoverRequest {
		cmds = append(cmds,
			Rect{X: 0, Y: 0, W: w, H: h, Fill: ColorTORWash},
			Text{X: w / 2, Y: h/2 - 20, Value: TORTitle, Fill: ColorTORTitle, Size: 36, Bold: true, Align: AlignCenter},
			Text{X: w / 2, Y: h/2 + 20, Value: TORSubtitle, Fill: ColorTORSubline, Size: 20, Bold: true, Align: AlignCenter},
		)
	}

	return Frame{Viewport: vp, Background: ColorRoad, Commands: cmds}
}

// EgoX is the horizontal center of the ego vehicle.
func EgoX(v types.VehicleState, vp Viewport) float64 {
	return vp.Width/2 + v.LanePosition*LaneOffset
}

// Scroller accumulates the lane-marking offset across frames.
type Scroller struct {
	offset float64
}

// Advance moves the markings by speed/10 and returns the new offset. The
// offset wraps at the dash period, which leaves the pattern unchanged.
func (s *Scroller) Advance(speed float64) float64 {
	s.offset = math.Mod(s.offset+speed/ScrollDivisor, DashPeriod)
	return s.offset
}

// Offset returns the current offset.
func (s *Scroller) Offset() float64 {
	return s.offset
}
