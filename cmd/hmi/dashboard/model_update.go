package dashboard

import (
	"errors"
	"fmt"

	"torhmi/cmd/hmi/ui"
	"torhmi/internal/logging"
	"torhmi/internal/session"
	"torhmi/internal/sim"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update routes every message to the session controller or the UI.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 0)
		m.height = max(msg.Height, 0)
		m.help.Width = m.width
		m.pageView.Width = max(m.width-2, 10)
		m.pageView.Height = max(m.height-4, 5)
		m.renderer = newRenderer(m.style.Theme.IsDark, m.pageView.Width-2)
		m.refreshPage()
		return m, nil

	case tickMsg:
		m.ctrl.Tick()
		return m, m.tick()

	case frameMsg:
		m.scroller.Advance(m.ctrl.State().Vehicle.Speed)
		return m, m.frame()

	case outcomeMsg:
		o := session.Outcome(msg)
		if m.ctrl.Resolve(o) && o.Result.Fallback {
			m.status = "Reasoning unavailable: showing fallback guidance"
		}
		return m, nil

	case configMsg:
		m.applyConfig(msg)
		return m, m.waitForConfig()

	case spinner.TickMsg:
		if !m.ctrl.State().Thinking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Shutdown()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.togglePage(pageHelp)
		return m, nil
	case key.Matches(msg, m.keys.Logic):
		m.togglePage(pageLogic)
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.page = pageDashboard
		return m, nil
	}

	if m.page != pageDashboard {
		var cmd tea.Cmd
		m.pageView, cmd = m.pageView.Update(msg)
		return m, cmd
	}

	m.status = ""
	s := m.ctrl.State()
	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.report("toggle mode", m.ctrl.ToggleMode())
	case key.Matches(msg, m.keys.Override):
		m.report("manual override", m.ctrl.ManualOverride())
	case key.Matches(msg, m.keys.Failure):
		if _, err := m.ctrl.SimulateFailure(); err != nil {
			m.report("simulate failure", err)
			return m, nil
		}
		return m, tea.Batch(m.waitForOutcome(), m.spin.Tick)
	case key.Matches(msg, m.keys.Accel):
		m.ctrl.AdjustSpeed(sim.SpeedStep)
	case key.Matches(msg, m.keys.Brake):
		m.ctrl.AdjustSpeed(-sim.SpeedStep)
	case key.Matches(msg, m.keys.Hands):
		m.ctrl.ToggleHandsOnWheel()
	case key.Matches(msg, m.keys.EyeDown):
		m.ctrl.SetEyeAttention(s.Driver.EyeAttention - sliderStep)
	case key.Matches(msg, m.keys.EyeUp):
		m.ctrl.SetEyeAttention(s.Driver.EyeAttention + sliderStep)
	case key.Matches(msg, m.keys.DrowsyDown):
		m.ctrl.SetDrowsiness(s.Driver.Drowsiness - sliderStep)
	case key.Matches(msg, m.keys.DrowsyUp):
		m.ctrl.SetDrowsiness(s.Driver.Drowsiness + sliderStep)
	case key.Matches(msg, m.keys.ReadinessDown):
		m.ctrl.SetReadiness(s.Driver.ReadinessScore - sliderStep)
	case key.Matches(msg, m.keys.ReadinessUp):
		m.ctrl.SetReadiness(s.Driver.ReadinessScore + sliderStep)
	case key.Matches(msg, m.keys.ComplexityDown):
		m.ctrl.SetComplexity(s.Environment.Complexity - sliderStep)
	case key.Matches(msg, m.keys.ComplexityUp):
		m.ctrl.SetComplexity(s.Environment.Complexity + sliderStep)
	case key.Matches(msg, m.keys.Weather):
		m.ctrl.CycleWeather()
	case key.Matches(msg, m.keys.Traffic):
		m.ctrl.CycleTraffic()
	}
	return m, nil
}

// report turns a rejected command into a footer message.
func (m *Model) report(action string, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, session.ErrReasoningInFlight):
		m.status = "Reasoning engine busy: wait for the current explanation"
	case errors.Is(err, session.ErrInvalidTransition):
		m.status = fmt.Sprintf("Cannot %s in %s", action, m.ctrl.Mode().Short())
	default:
		m.status = err.Error()
	}
	logging.UIDebug("%s rejected: %v", action, err)
}

func (m *Model) togglePage(p page) {
	if m.page == p {
		m.page = pageDashboard
		return
	}
	m.page = p
	m.refreshPage()
	m.pageView.GotoTop()
}

func (m *Model) refreshPage() {
	switch m.page {
	case pageHelp:
		m.pageView.SetContent(renderMarkdown(m.renderer, helpMarkdown(m.keys)))
	case pageLogic:
		m.pageView.SetContent(renderMarkdown(m.renderer, logicMarkdown()))
	}
}

// applyConfig applies a reloaded config file.
func (m *Model) applyConfig(msg configMsg) {
	cfg := msg.cfg
	m.ctrl.ApplyDriver(cfg.Driver.State())
	m.ctrl.ApplyEnvironment(cfg.Environment.State())

	if cfg.UX.Theme != m.cfg.UX.Theme {
		m.style = ui.NewStyles(ui.ThemeFor(cfg.UX.Theme))
		m.spin.Style = m.style.Spinner
		m.renderer = newRenderer(m.style.Theme.IsDark, m.pageView.Width-2)
		m.refreshPage()
	}
	m.cfg = cfg
	m.status = "Config reloaded"
	logging.UI("Applied reloaded config: complexity=%d weather=%s theme=%s",
		cfg.Environment.Complexity, cfg.Environment.Weather, cfg.UX.Theme)
}
