package persistence

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/felixbrock/arigato/internal/app"
)

type reqConfig struct {
	Method    string
	Url     string
	Headers []string
	Body    []byte
}

// StatusError is returned when the remote answers with an unexpected code.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response status code %d", e.Code)
}

func request[T any](ctx context.Context, client *http.Client, config reqConfig, expectedResCode int) (*T, error) {
	req, err := http.NewRequestWithContext(ctx, config.Method, config.Url, bytes.NewBuffer(config.Body))
	if err != nil {
		return nil, err
	}

	for i := 0; i < len(config.Headers); i++ {
		key, value, _ := strings.Cut(config.Headers[i], ":")
		req.Header.Add(strings.TrimSpace(key), strings.TrimSpace(value))
	}

	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	body, err := app.Read(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != expectedResCode {
		return nil, &StatusError{Code: resp.StatusCode, Body: body}
	}

	if len(body) == 0 {
		return new(T), nil
	}

	return app.ReadJSON[T](body)
}
