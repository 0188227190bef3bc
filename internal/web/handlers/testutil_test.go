package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/frame-diff/internal/ai"
	"github.com/kozaktomas/frame-diff/internal/config"
	"github.com/kozaktomas/frame-diff/internal/dataset"
	"github.com/kozaktomas/frame-diff/internal/framediff"
)

// stubProvider answers every dialog with a fixed reply, or fails with err.
type stubProvider struct {
	reply string
	err   error
	calls int
}

func (p *stubProvider) Name() string { return "stub-model" }

func (p *stubProvider) Chat(_ context.Context, _ ai.Dialog, _ ai.GenerationParams) (*ai.ChatPrediction, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &ai.ChatPrediction{Generation: ai.Message{Role: ai.RoleAssistant, Content: p.reply}}, nil
}

func (p *stubProvider) GetUsage() ai.Usage {
	return ai.Usage{InputTokens: 10 * p.calls, OutputTokens: 2 * p.calls}
}

func (p *stubProvider) ResetUsage() { p.calls = 0 }

var errBackendDown = errors.New("backend down")

// testConfig creates a minimal config for testing
func testConfig() *config.Config {
	return &config.Config{
		Provider: "ollama",
		Generation: config.GenerationConfig{
			MaxSeqLen:    512,
			MaxBatchSize: 4,
			Temperature:  0.6,
			TopP:         0.9,
		},
	}
}

// testIndex builds a small index with one two-frame video and one empty video
func testIndex(t *testing.T) dataset.Index {
	t.Helper()
	ds := dataset.Dataset{
		{Name: "0.mp4", Frames: []dataset.Frame{
			{Questions: []dataset.Question{{Answer: "cat"}, {Answer: "sitting"}, {Answer: "red"}, {Answer: "day"}}},
			{Questions: []dataset.Question{{Answer: "dog"}, {Answer: "running"}, {Answer: "blue"}, {Answer: "night"}}},
		}},
		{Name: "empty.mp4"},
	}
	index, err := dataset.BuildIndex(ds, dataset.IndexOptions{})
	if err != nil {
		t.Fatalf("failed to build index: %v", err)
	}
	return index
}

// testDiffer wires the test index to provider
func testDiffer(t *testing.T, index dataset.Index, provider ai.Provider) *framediff.Differ {
	t.Helper()
	gen, err := ai.NewGenerator(provider, testConfig().GeneratorConfig())
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}
	return framediff.New(index, gen, nil)
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertContentType checks if the response has the expected content type
func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, expected string) {
	t.Helper()
	ct := recorder.Header().Get("Content-Type")
	if ct != expected {
		t.Errorf("expected Content-Type '%s', got '%s'", expected, ct)
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
