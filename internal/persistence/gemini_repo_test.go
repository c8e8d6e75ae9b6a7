package persistence

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixbrock/arigato/internal/optimizer"
)

func newTestGeminiRepo(url string) GeminiRepo {
	return NewGeminiRepo("test-key", url, "", &http.Client{Timeout: 5 * time.Second})
}

func testGenerateRequest() optimizer.GenerateRequest {
	return optimizer.GenerateRequest{
		SystemInstruction: "be helpful",
		Prompt:            "optimize this",
		Temperature:       optimizer.Temperature,
		ResponseMIMEType:  optimizer.ResponseMIMEType,
		ResponseSchema:    optimizer.ResponseSchema(),
	}
}

func TestGeminiRepoGenerateContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))

		sys := raw["systemInstruction"].(map[string]any)["parts"].([]any)[0].(map[string]any)
		assert.Equal(t, "be helpful", sys["text"])

		contents := raw["contents"].([]any)
		require.Len(t, contents, 1)
		user := contents[0].(map[string]any)
		assert.Equal(t, "user", user["role"])
		assert.Equal(t, "optimize this", user["parts"].([]any)[0].(map[string]any)["text"])

		cfg := raw["generationConfig"].(map[string]any)
		assert.Equal(t, 0.7, cfg["temperature"])
		assert.Equal(t, "application/json", cfg["responseMimeType"])
		schema := cfg["responseSchema"].(map[string]any)
		assert.Equal(t, "OBJECT", schema["type"])
		assert.Len(t, schema["required"], 3)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"optimizedPrompt\":"},{"text":"\"p\"}"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	got, err := newTestGeminiRepo(srv.URL).GenerateContent(context.Background(), testGenerateRequest())
	require.NoError(t, err)
	assert.Equal(t, `{"optimizedPrompt":"p"}`, got)
}

func TestGeminiRepoErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"api error message", http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`, "gemini: API error: API key not valid"},
		{"opaque server error", http.StatusInternalServerError, `oops`, "gemini: unexpected status 500"},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, "gemini: no candidates in response"},
		{"blocked prompt", http.StatusOK, `{"promptFeedback":{"blockReason":"SAFETY"}}`, "gemini: prompt blocked: SAFETY"},
		{"empty candidate", http.StatusOK, `{"candidates":[{"content":{"parts":[]},"finishReason":"MAX_TOKENS"}]}`, "gemini: empty candidate (finish reason MAX_TOKENS)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestGeminiRepo(srv.URL).GenerateContent(context.Background(), testGenerateRequest())
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestGeminiRepoTransportError(t *testing.T) {
	repo := NewGeminiRepo("k", "http://127.0.0.1:1", "m", &http.Client{Timeout: time.Second})

	_, err := repo.GenerateContent(context.Background(), testGenerateRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini: request:")
}

func TestNewGeminiRepoDefaults(t *testing.T) {
	repo := NewGeminiRepo("k", "", "", nil)
	assert.Equal(t, GeminiBaseUrl, repo.BaseUrl)
	assert.Equal(t, GeminiDefaultModel, repo.Model)

	repo = NewGeminiRepo("k", "http://proxy.local/v1beta/", "gemini-pro", nil)
	assert.Equal(t, "http://proxy.local/v1beta", repo.BaseUrl)
	assert.Equal(t, "gemini-pro", repo.Model)
}
