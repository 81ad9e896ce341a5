package dashboard

import (
	"time"

	"torhmi/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
)

// Init starts the clock, the animation and the config listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tick(),
		m.frame(),
		m.waitForConfig(),
	)
}

// tick schedules the next simulation clock period.
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.tickInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

// frame schedules the next animation frame.
func (m Model) frame() tea.Cmd {
	return tea.Tick(m.frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

// waitForOutcome waits for the in-flight reasoning request.
func (m Model) waitForOutcome() tea.Cmd {
	results := m.ctrl.Results()
	return func() tea.Msg {
		return outcomeMsg(<-results)
	}
}

// waitForConfig listens for config reloads. Returns nil without a watcher.
func (m Model) waitForConfig() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	updates := m.watcher.Updates()
	return func() tea.Msg {
		cfg, ok := <-updates
		if !ok {
			return nil
		}
		return configMsg{cfg: cfg}
	}
}

// Shutdown stops the watcher and cancels any in-flight reasoning request.
// Safe to call multiple times.
func (m Model) Shutdown() {
	m.life.once.Do(func() {
		if m.life.stopWatcher != nil {
			m.life.stopWatcher()
		}
		if m.watcher != nil {
			m.watcher.Wait()
		}
		m.ctrl.Close()
		logging.UI("Dashboard shut down after %d ticks", m.ctrl.State().Ticks)
	})
}

// Run starts the interactive dashboard and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	defer m.Shutdown()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
