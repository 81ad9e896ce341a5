package dashboard

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every dashboard key binding.
type keyMap struct {
	Toggle         key.Binding
	Override       key.Binding
	Accel          key.Binding
	Brake          key.Binding
	Failure        key.Binding
	Hands          key.Binding
	EyeDown        key.Binding
	EyeUp          key.Binding
	ComplexityDown key.Binding
	ComplexityUp   key.Binding
	DrowsyDown     key.Binding
	DrowsyUp       key.Binding
	ReadinessDown  key.Binding
	ReadinessUp    key.Binding
	Weather        key.Binding
	Traffic        key.Binding
	Help           key.Binding
	Logic          key.Binding
	Back           key.Binding
	Quit           key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "engage/disengage autopilot")),
		Override:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "manual override")),
		Accel:          key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "accelerate +10")),
		Brake:          key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "brake -10")),
		Failure:        key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "simulate failure / TOR")),
		Hands:          key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hands on wheel")),
		EyeDown:        key.NewBinding(key.WithKeys("["), key.WithHelp("[", "eyes on road -5")),
		EyeUp:          key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "eyes on road +5")),
		ComplexityDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "complexity -5")),
		ComplexityUp:   key.NewBinding(key.WithKeys("="), key.WithHelp("=", "complexity +5")),
		DrowsyDown:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "drowsiness -5")),
		DrowsyUp:       key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "drowsiness +5")),
		ReadinessDown:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "readiness -5")),
		ReadinessUp:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "readiness +5")),
		Weather:        key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "cycle weather")),
		Traffic:        key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "cycle traffic")),
		Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Logic:          key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "decision logic")),
		Back:           key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp is shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Override, k.Failure, k.Accel, k.Brake, k.Help, k.Logic, k.Quit}
}

// FullHelp groups every binding by panel.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Override, k.Failure, k.Accel, k.Brake},
		{k.Hands, k.EyeDown, k.EyeUp, k.DrowsyDown, k.DrowsyUp, k.ReadinessDown, k.ReadinessUp},
		{k.ComplexityDown, k.ComplexityUp, k.Weather, k.Traffic},
		{k.Help, k.Logic, k.Back, k.Quit},
	}
}
