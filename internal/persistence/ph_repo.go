package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const PHBaseUrl = "https://eu.posthog.com"

type phEvent struct {
	ApiKey     string         `json:"api_key"`
	Event      string         `json:"event"`
	Properties map[string]any `json:"properties"`
}

// PHRepo sends product analytics events to PostHog.
type PHRepo struct {
	BaseHeaders []string
	BaseUrl     string
	ApiKey      string
	Client      *http.Client
}

func NewPHRepo(apiKey, baseUrl string, client *http.Client) PHRepo {
	if baseUrl == "" {
		baseUrl = PHBaseUrl
	}
	return PHRepo{
		BaseHeaders: []string{"Content-Type:application/json"},
		BaseUrl:     strings.TrimRight(baseUrl, "/"),
		ApiKey:      apiKey,
		Client:      client,
	}
}

func (r PHRepo) Capture(ctx context.Context, eventType string, distinctId string, props map[string]any) error {
	properties := map[string]any{"distinct_id": distinctId}
	for k, v := range props {
		properties[k] = v
	}

	body, err := json.Marshal(phEvent{ApiKey: r.ApiKey, Event: eventType, Properties: properties})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/capture/", r.BaseUrl)
	_, err = request[struct{}](ctx, r.Client, reqConfig{Method: http.MethodPost, Url: url, Headers: r.BaseHeaders, Body: body}, http.StatusOK)
	if err != nil {
		return fmt.Errorf("posthog: capture %s: %w", eventType, err)
	}

	return nil
}
