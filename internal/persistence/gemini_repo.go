package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/felixbrock/arigato/internal/optimizer"
)

const (
	GeminiBaseUrl      = "https://generativelanguage.googleapis.com/v1beta"
	GeminiDefaultModel = "gemini-2.5-flash"
)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float64           `json:"temperature"`
	ResponseMimeType string            `json:"responseMimeType,omitempty"`
	ResponseSchema   *optimizer.Schema `json:"responseSchema,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type geminiPromptFeedback struct {
	BlockReason string `json:"blockReason"`
}

type geminiResponse struct {
	Candidates     []geminiCandidate     `json:"candidates"`
	PromptFeedback *geminiPromptFeedback `json:"promptFeedback,omitempty"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GeminiRepo calls the Generative Language generateContent endpoint.
type GeminiRepo struct {
	BaseHeaders []string
	BaseUrl     string
	Model       string
	Client      *http.Client
}

func NewGeminiRepo(apiKey, baseUrl, model string, client *http.Client) GeminiRepo {
	if baseUrl == "" {
		baseUrl = GeminiBaseUrl
	}
	if model == "" {
		model = GeminiDefaultModel
	}

	return GeminiRepo{
		BaseHeaders: []string{
			"Content-Type:application/json",
			fmt.Sprintf("x-goog-api-key:%s", apiKey)},
		BaseUrl: strings.TrimRight(baseUrl, "/"),
		Model:   model,
		Client:  client,
	}
}

func (r GeminiRepo) GenerateContent(ctx context.Context, req optimizer.GenerateRequest) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:      req.Temperature,
			ResponseMimeType: req.ResponseMIMEType,
			ResponseSchema:   req.ResponseSchema,
		},
	}
	if req.SystemInstruction != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemInstruction}}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("gemini: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", r.BaseUrl, r.Model)

	resp, err := request[geminiResponse](ctx, r.Client, reqConfig{Method: http.MethodPost, Url: url, Headers: r.BaseHeaders, Body: body}, http.StatusOK)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return "", providerError(statusErr)
		}
		return "", fmt.Errorf("gemini: request: %w", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini: prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}

	if len(resp.Candidates) == 0 {
		return "", errors.New("gemini: no candidates in response")
	}

	var text strings.Builder
	candidate := resp.Candidates[0]
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}

	if text.Len() == 0 && candidate.FinishReason != "" && candidate.FinishReason != "STOP" {
		return "", fmt.Errorf("gemini: empty candidate (finish reason %s)", candidate.FinishReason)
	}

	return text.String(), nil
}

func providerError(statusErr *StatusError) error {
	var e geminiError
	if err := json.Unmarshal(statusErr.Body, &e); err != nil || e.Error.Message == "" {
		return fmt.Errorf("gemini: unexpected status %d", statusErr.Code)
	}
	return fmt.Errorf("gemini: API error: %s", e.Error.Message)
}
