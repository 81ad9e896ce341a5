// Package dashboard is the interactive terminal HMI: instrument cluster,
// driver monitoring, live road feed and the reasoning panel.
//
// The bubbletea update loop is the single owner of the session controller.
// Clock ticks, animation frames, key presses and reasoning outcomes all
// arrive as messages.
package dashboard

import (
	"context"
	"sync"
	"time"

	"torhmi/cmd/hmi/ui"
	"torhmi/internal/config"
	"torhmi/internal/logging"
	"torhmi/internal/render"
	"torhmi/internal/session"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
)

// Options configures New.
type Options struct {
	Config     *config.Config
	Controller *session.Controller

	// Watcher is optional. When set, reloaded configs update the driver and
	// environment presets and the theme.
	Watcher *config.Watcher

	// StopWatcher cancels the watcher's context.
	StopWatcher context.CancelFunc
}

// Model is the dashboard bubbletea model.
type Model struct {
	cfg   *config.Config
	ctrl  *session.Controller
	keys  keyMap
	help  help.Model
	spin  spinner.Model
	style ui.Styles

	scroller render.Scroller
	cols     int
	rows     int

	page     page
	pageView viewport.Model
	renderer *glamour.TermRenderer

	tickInterval  time.Duration
	frameInterval time.Duration

	watcher *config.Watcher
	status  string
	width   int
	height  int

	life *lifecycle
}

// lifecycle is shared by every copy of the model.
type lifecycle struct {
	once        sync.Once
	stopWatcher context.CancelFunc
}

// New creates the dashboard model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ctrl := opts.Controller
	if ctrl == nil {
		ctrl = session.NewController(session.DefaultOptions())
	}

	styles := ui.NewStyles(ui.ThemeFor(cfg.UX.Theme))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	cols := cfg.UX.CanvasWidth
	if cols <= 0 {
		cols = render.DefaultCols
	}

	m := Model{
		cfg:           cfg,
		ctrl:          ctrl,
		keys:          defaultKeyMap(),
		help:          help.New(),
		spin:          sp,
		style:         styles,
		cols:          cols,
		rows:          render.RowsFor(render.DefaultViewport, cols),
		pageView:      viewport.New(80, 20),
		renderer:      newRenderer(styles.Theme.IsDark, 80),
		tickInterval:  cfg.GetTickInterval(),
		frameInterval: cfg.GetFrameInterval(),
		watcher:       opts.Watcher,
		life:          &lifecycle{stopWatcher: opts.StopWatcher},
	}
	logging.UI("Dashboard created: canvas=%dx%d tick=%s frame=%s", m.cols, m.rows, m.tickInterval, m.frameInterval)
	return m
}

// Controller returns the session controller.
func (m Model) Controller() *session.Controller {
	return m.ctrl
}
