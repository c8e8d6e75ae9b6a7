package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

type component interface {
	Render(ctx context.Context, w io.Writer) error
}

type ComponentResponse struct {
	Error       error
	Message     string
	Code        int
	ContentType string
	Component   component
	Redirect    string
}

type ComponentHandler func(http.ResponseWriter, *http.Request) *ComponentResponse

func (ch ComponentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := ch(w, r)

	if resp.Error != nil {
		slog.Error(fmt.Sprintf(`Error occurred: %s`, resp.Error.Error()), "message", resp.Message, "path", r.URL.Path)
	}

	if resp.Redirect != "" {
		http.Redirect(w, r, resp.Redirect, http.StatusSeeOther)
		return
	}

	code := resp.Code
	if code == 0 {
		code = http.StatusOK
	}

	// htmx only swaps 2xx responses into the page
	if isHTMX(r) && code >= 400 {
		code = http.StatusOK
	}

	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.WriteHeader(code)

	if resp.Component == nil {
		return
	}

	if err := resp.Component.Render(r.Context(), w); err != nil {
		slog.Error(fmt.Sprintf(`Error occurred: templ: failed to render template: %s`, err.Error()))
	}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
