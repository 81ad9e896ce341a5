package reasoning

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"torhmi/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	model string
	cfg   *genai.GenerateContentConfig
	text  string
	resp  *genai.GenerateContentResponse
	err   error
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.cfg = cfg
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.text = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(s string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: s}}},
		}},
	}
}

func TestGenAIExplainer_RequestShape(t *testing.T) {
	fake := &fakeGenerator{resp: textResponse(`{"reason":"Sensor degraded in fog","urgency":9,"action":"Take control"}`)}
	g := newGenAIExplainer(fake, "")

	exp, err := g.Explain(context.Background(), sampleSnapshot())
	require.NoError(t, err)
	assert.Equal(t, 9, exp.Urgency)
	assert.Equal(t, "Sensor degraded in fog", exp.Reason)

	assert.Equal(t, defaultModel, fake.model)
	assert.Equal(t, "genai:"+defaultModel, g.Name())
	require.NotNil(t, fake.cfg)
	assert.Equal(t, "application/json", fake.cfg.ResponseMIMEType)
	require.NotNil(t, fake.cfg.ResponseSchema)
	assert.ElementsMatch(t, []string{"reason", "urgency", "action"}, fake.cfg.ResponseSchema.Required)
	assert.Contains(t, fake.text, "Takeover Request (TOR)")
}

func TestGenAIExplainer_Errors(t *testing.T) {
	g := newGenAIExplainer(&fakeGenerator{err: errors.New("quota")}, "m")
	_, err := g.Explain(context.Background(), sampleSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota")

	g = newGenAIExplainer(&fakeGenerator{resp: &genai.GenerateContentResponse{}}, "m")
	_, err = g.Explain(context.Background(), sampleSnapshot())
	assert.ErrorIs(t, err, ErrMalformed)

	g = newGenAIExplainer(&fakeGenerator{resp: textResponse(`{"reason":"r"}`)}, "m")
	_, err = g.Explain(context.Background(), sampleSnapshot())
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestGenAIExplainer_OverHTTP(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"reason\":\"X\",\"urgency\":7,\"action\":\"Y\"}"}]}}]}`)
	}))
	defer srv.Close()

	g, err := NewGenAIExplainer(context.Background(), GenAIOptions{
		APIKey:     "test-key",
		Model:      "gemini-test",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)

	exp, err := g.Explain(context.Background(), sampleSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "X", exp.Reason)
	assert.Equal(t, 7, exp.Urgency)
	assert.Equal(t, "Y", exp.Action)
	assert.True(t, strings.HasSuffix(gotPath, "models/gemini-test:generateContent"), gotPath)
	assert.Contains(t, gotBody, "Distance to lead vehicle")
}

func TestGenAIExplainer_ServerErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g, err := NewGenAIExplainer(context.Background(), GenAIOptions{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)

	res := NewReasoner(g, 0).Explain(context.Background(), sampleSnapshot())
	assert.True(t, res.Fallback)
	assert.Equal(t, Fallback(), res.Explanation)
}

func TestNewExplainer(t *testing.T) {
	ctx := context.Background()

	e, err := NewExplainer(ctx, config.ReasoningConfig{Provider: config.ProviderOffline, APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, Unavailable{}, e)

	e, err = NewExplainer(ctx, config.ReasoningConfig{Provider: config.ProviderGemini})
	require.NoError(t, err)
	assert.IsType(t, Unavailable{}, e)

	e, err = NewExplainer(ctx, config.ReasoningConfig{Provider: config.ProviderGemini, APIKey: "k", Model: "m"})
	require.NoError(t, err)
	assert.IsType(t, &GenAIExplainer{}, e)

	_, err = NewExplainer(ctx, config.ReasoningConfig{Provider: "carrier-pigeon"})
	assert.Error(t, err)

	_, err = NewGenAIExplainer(ctx, GenAIOptions{})
	assert.Error(t, err)
}
