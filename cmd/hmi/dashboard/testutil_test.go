package dashboard

import (
	"context"
	"testing"
	"time"

	"torhmi/internal/config"
	"torhmi/internal/reasoning"
	"torhmi/internal/session"
	"torhmi/internal/sim"
	"torhmi/internal/types"

	tea "github.com/charmbracelet/bubbletea"
)

// NewTestModel returns a dashboard wired to a deterministic session whose
// reasoning calls are answered by e.
func NewTestModel(t *testing.T, e reasoning.Explainer) Model {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Reasoning.Provider = config.ProviderOffline
	cfg.UX.Theme = config.ThemeDark

	opts := session.DefaultOptions()
	opts.Reasoner = reasoning.NewReasoner(e, time.Second)
	opts.Clock = sim.NewClock(7, sim.StepOptions{})
	ctrl := session.NewController(opts)

	m := New(Options{Config: cfg, Controller: ctrl})
	t.Cleanup(m.Shutdown)
	return m
}

func explainWith(exp types.TakeoverExplanation) reasoning.Explainer {
	return reasoning.ExplainerFunc(func(context.Context, types.Snapshot) (types.TakeoverExplanation, error) {
		return exp, nil
	})
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// awaitOutcome feeds the next reasoning outcome back into the model.
func awaitOutcome(t *testing.T, m Model) Model {
	t.Helper()
	select {
	case o := <-m.ctrl.Results():
		next, _ := m.Update(outcomeMsg(o))
		return next.(Model)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reasoning outcome")
		return m
	}
}
