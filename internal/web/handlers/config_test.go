package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestConfigHandler_Get(t *testing.T) {
	cfg := testConfig()
	cfg.OpenAI.Token = "sk-test"
	provider := &stubProvider{}
	provider.calls = 3
	handler := NewConfigHandler(cfg, provider)

	recorder := httptest.NewRecorder()
	handler.Get(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/config", nil))

	assertStatusCode(t, recorder, http.StatusOK)

	var result ConfigResponse
	parseJSONResponse(t, recorder, &result)

	available := map[string]bool{}
	for _, p := range result.Providers {
		available[p.Name] = p.Available
	}
	if !available["openai"] {
		t.Error("expected openai to be available with a token")
	}
	if available["gemini"] {
		t.Error("expected gemini to be unavailable without an API key")
	}
	if !available["ollama"] || !available["llamacpp"] {
		t.Error("expected local providers to be available")
	}
	if result.Active != "ollama" || result.Model != "stub-model" {
		t.Errorf("unexpected active provider: %s / %s", result.Active, result.Model)
	}
	if result.Generation.MaxSeqLen != 512 || result.Generation.MaxGenLen != 511 {
		t.Errorf("unexpected generation settings: %+v", result.Generation)
	}
	if result.Usage.InputTokens != 30 || result.Usage.OutputTokens != 6 {
		t.Errorf("unexpected usage: %+v", result.Usage)
	}
}
