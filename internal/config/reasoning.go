package config

// Reasoning providers.
const (
	ProviderGemini  = "gemini"  // Google GenAI generateContent
	ProviderOffline = "offline" // no network; every takeover uses the fallback
)

// ReasoningConfig configures the takeover reasoning client.
type ReasoningConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key,omitempty"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url,omitempty"` // empty = SDK default endpoint
	Timeout  string `yaml:"timeout"`

	// CancelOnExit cancels an outstanding request when the driver leaves
	// TAKEOVER_REQUEST before it resolves.
	CancelOnExit bool `yaml:"cancel_on_exit"`
}

// DefaultReasoningConfig returns the Gemini defaults.
func DefaultReasoningConfig() ReasoningConfig {
	return ReasoningConfig{
		Provider: ProviderGemini,
		Model:    "gemini-3-flash-preview",
		Timeout:  "30s",
	}
}

// HasCredentials reports whether a network provider can be used.
func (r ReasoningConfig) HasCredentials() bool {
	return r.APIKey != ""
}
