package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/felixbrock/arigato/internal/components"
	"github.com/felixbrock/arigato/internal/domain"
	"github.com/felixbrock/arigato/internal/metrics"
	"github.com/felixbrock/arigato/internal/theme"
)

const (
	sessionCookie = "arigato_session"
	themeMaxAge   = 365 * 24 * 60 * 60
	maxBodyBytes  = 64 * 1024
)

type apiOptimizeRequest struct {
	Prompt   string `json:"prompt"`
	TargetAI string `json:"targetAI"`
	Style    string `json:"style"`
}

type healthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model,omitempty"`
}

// cookieStore persists client preferences in the browser's cookie jar.
type cookieStore struct {
	r *http.Request
	w http.ResponseWriter
}

func (c cookieStore) Get(key string) (string, bool) {
	cookie, err := c.r.Cookie(key)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}

func (c cookieStore) Set(key, value string) error {
	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   themeMaxAge,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (a *App) session(w http.ResponseWriter, r *http.Request) *Session {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := a.sessions.Get(cookie.Value); ok {
			return sess
		}
	}

	sess := a.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.Id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

func inputFromForm(form url.Values) (domain.UserInput, error) {
	target, err := domain.ParseTargetAI(form.Get("targetAI"))
	if err != nil {
		return domain.UserInput{}, err
	}

	style, err := domain.ParseStyle(form.Get("style"))
	if err != nil {
		return domain.UserInput{}, err
	}

	return domain.UserInput{Prompt: form.Get("prompt"), TargetAI: target, Style: style}, nil
}

func (a *App) index(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	if r.URL.Path != "/" {
		return errorResponse(get404(), nil)
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return errorResponse(get405(), nil)
	}

	sess := a.session(w, r)
	pref := theme.Load(cookieStore{r: r, w: w})

	return htmlResponse(components.Index(components.PageView{
		Theme:     pref.Current(),
		Workspace: sess.Snapshot(),
	}))
}

func (a *App) optimize(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	if r.Method != http.MethodPost {
		return errorResponse(get405(), nil)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return errorResponse(get400(), err)
	}

	input, err := inputFromForm(r.PostForm)
	if err != nil {
		return errorResponse(get400(), err)
	}

	sess := a.session(w, r)
	sess.Update(input)
	if !sess.Submit(r.Context(), input, a.runFor(sess.Id)) {
		slog.Debug("submission ignored", "session", sess.Id, "state", sess.Snapshot().State)
	}

	if !isHTMX(r) {
		return &ComponentResponse{Redirect: "/"}
	}

	return htmlResponse(components.Workspace(sess.Snapshot()))
}

// saveForm records form edits so they survive a reload. Nothing is rendered.
func (a *App) saveForm(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	if r.Method != http.MethodPost {
		return errorResponse(get405(), nil)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return errorResponse(get400(), err)
	}

	input, err := inputFromForm(r.PostForm)
	if err != nil {
		return errorResponse(get400(), err)
	}

	a.session(w, r).Update(input)

	return &ComponentResponse{Code: http.StatusNoContent, Message: "No Content"}
}

func (a *App) workspace(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	if r.Method != http.MethodGet {
		return errorResponse(get405(), nil)
	}

	return htmlResponse(components.Workspace(a.session(w, r).Snapshot()))
}

func (a *App) toggleTheme(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	if r.Method != http.MethodPost {
		return errorResponse(get405(), nil)
	}

	if _, err := theme.Load(cookieStore{r: r, w: w}).Toggle(); err != nil {
		return errorResponse(get500(), err)
	}

	return &ComponentResponse{Redirect: "/"}
}

func (a *App) apiOptimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
		return
	}

	body, err := ReadLimited(r.Body, maxBodyBytes)
	if err != nil {
		if errors.Is(err, ErrBodyTooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "could not read body"})
		return
	}

	req, err := ReadJSON[apiOptimizeRequest](body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return
	}

	input := domain.DefaultUserInput()
	input.Prompt = req.Prompt
	if req.TargetAI != "" {
		if input.TargetAI, err = domain.ParseTargetAI(req.TargetAI); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}
	}
	if req.Style != "" {
		if input.Style, err = domain.ParseStyle(req.Style); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}
	}

	if !input.Submittable() {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "prompt is required"})
		return
	}

	result, err := a.run(r.Context(), RequestIDFromContext(r.Context()), input)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorBody{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Model: a.Config.Model})
}

func (a *App) runFor(distinctId string) RunFunc {
	return func(ctx context.Context, input domain.UserInput) (*domain.OptimizationResult, error) {
		return a.run(ctx, distinctId, input)
	}
}

func (a *App) run(ctx context.Context, distinctId string, input domain.UserInput) (*domain.OptimizationResult, error) {
	metrics.PromptChars.Observe(float64(len(input.Prompt)))

	start := time.Now()
	result, err := a.Optimizer.Optimize(ctx, input)
	elapsed := time.Since(start)

	outcome := "succeeded"
	if err != nil {
		outcome = "failed"
	}

	metrics.OptimizeDuration.WithLabelValues(string(input.Style), outcome).Observe(elapsed.Seconds())
	metrics.OptimizationsTotal.WithLabelValues(string(input.TargetAI), string(input.Style), outcome).Inc()

	a.capture(distinctId, fmt.Sprintf("optimization_%s", outcome), map[string]any{
		"target_ai":  string(input.TargetAI),
		"style":      string(input.Style),
		"elapsed_ms": elapsed.Milliseconds(),
	})

	return result, err
}

func (a *App) capture(distinctId, event string, props map[string]any) {
	if a.Analytics == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := a.Analytics.Capture(ctx, event, distinctId, props); err != nil {
			slog.Error(fmt.Sprintf("Error occurred: %s", err.Error()))
		}
	}()
}
