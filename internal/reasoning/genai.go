package reasoning

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"torhmi/internal/config"
	"torhmi/internal/logging"
	"torhmi/internal/types"

	"google.golang.org/genai"
)

// =============================================================================
// GOOGLE GENAI EXPLAINER
// =============================================================================

const defaultModel = "gemini-3-flash-preview"

// generator is the slice of *genai.Models the explainer needs.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GenAIExplainer asks a Gemini model for a structured takeover explanation.
type GenAIExplainer struct {
	models generator
	model  string
}

// GenAIOptions configures NewGenAIExplainer.
type GenAIOptions struct {
	APIKey     string
	Model      string
	BaseURL    string       // empty = SDK default
	HTTPClient *http.Client // nil = SDK default
}

// NewGenAIExplainer creates a Gemini-backed explainer.
func NewGenAIExplainer(ctx context.Context, opts GenAIOptions) (*GenAIExplainer, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGenAIExplainer(client.Models, opts.Model), nil
}

func newGenAIExplainer(models generator, model string) *GenAIExplainer {
	model = strings.TrimSpace(model)
	if model == "" {
		model = defaultModel
	}
	return &GenAIExplainer{models: models, model: model}
}

// explanationSchema constrains the model to the three required keys.
func explanationSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"reason":  {Type: genai.TypeString},
			"urgency": {Type: genai.TypeNumber},
			"action":  {Type: genai.TypeString},
		},
		Required: []string{"reason", "urgency", "action"},
	}
}

// Explain sends the snapshot prompt and parses the JSON reply.
func (g *GenAIExplainer) Explain(ctx context.Context, snap types.Snapshot) (types.TakeoverExplanation, error) {
	prompt := BuildPrompt(snap)
	logging.ReasoningDebug("[GenAI] generateContent: model=%s prompt_len=%d", g.model, len(prompt))

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    explanationSchema(),
	})
	if err != nil {
		return types.TakeoverExplanation{}, fmt.Errorf("GenAI generate failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return types.TakeoverExplanation{}, fmt.Errorf("%w: no candidates returned", ErrMalformed)
	}

	return ParseExplanation(resp.Text())
}

// Name returns the explainer name.
func (g *GenAIExplainer) Name() string {
	return fmt.Sprintf("genai:%s", g.model)
}

// NewExplainer builds the explainer selected by cfg. Without credentials, or
// with the offline provider, it returns Unavailable so every takeover gets
// the fallback.
func NewExplainer(ctx context.Context, cfg config.ReasoningConfig) (Explainer, error) {
	switch cfg.Provider {
	case config.ProviderOffline:
		return Unavailable{Why: "offline provider"}, nil
	case "", config.ProviderGemini:
		if !cfg.HasCredentials() {
			logging.ReasoningWarn("no API key configured; takeovers will use the fallback explanation")
			return Unavailable{Why: "missing API key"}, nil
		}
		return NewGenAIExplainer(ctx, GenAIOptions{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	default:
		return nil, fmt.Errorf("unknown reasoning provider %q", cfg.Provider)
	}
}
