package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

var ErrBodyTooLarge = errors.New("request body too large")

func Read(reader io.ReadCloser) ([]byte, error) {
	defer func() {
		if err := reader.Close(); err != nil {
			slog.Error(fmt.Sprintf("Error occurred: %s", err.Error()))
		}
	}()

	return io.ReadAll(reader)
}

// ReadLimited is Read with an upper bound on the body size.
func ReadLimited(reader io.ReadCloser, limit int64) ([]byte, error) {
	content, err := Read(struct {
		io.Reader
		io.Closer
	}{io.LimitReader(reader, limit+1), reader})
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > limit {
		return nil, ErrBodyTooLarge
	}
	return content, nil
}

func ReadJSON[T any](content []byte) (*T, error) {
	var t T
	if err := json.Unmarshal(content, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
