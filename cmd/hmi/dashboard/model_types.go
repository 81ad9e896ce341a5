package dashboard

import (
	"torhmi/internal/config"
	"torhmi/internal/session"
)

// page selects what the main area shows.
type page int

const (
	pageDashboard page = iota
	pageHelp
	pageLogic
)

// Messages
type (
	// tickMsg advances the simulation clock.
	tickMsg struct{}

	// frameMsg advances the road animation.
	frameMsg struct{}

	// outcomeMsg carries a finished reasoning request.
	outcomeMsg session.Outcome

	// configMsg carries a reloaded config file.
	configMsg struct{ cfg *config.Config }
)

// Step sizes for the slider keys.
const sliderStep = 5
