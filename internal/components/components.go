package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/felixbrock/arigato/internal/domain"
	"github.com/felixbrock/arigato/internal/theme"
)

const htmxSrc = "https://unpkg.com/htmx.org@1.9.10"

// PollInterval is how often a pending workspace asks for its new state.
const PollInterval = "1s"

type WorkspaceView struct {
	Input  domain.UserInput
	State  domain.RequestState
	Result *domain.OptimizationResult
	Error  string
}

type PageView struct {
	Theme     theme.Theme
	Workspace WorkspaceView
}

type writer struct {
	w   io.Writer
	err error
}

func (h *writer) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *writer) rawf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

func (h *writer) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *writer) render(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func Index(view PageView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &writer{w: w}
		next := view.Theme.Toggle()

		h.raw(`<!DOCTYPE html>`)
		h.rawf(`<html lang="en" class="%s">`, templ.EscapeString(string(view.Theme)))
		h.raw(`<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>Arigato | AI Prompt Optimizer</title>`)
		h.rawf(`<script src="%s"></script></head>`, htmxSrc)
		h.raw(`<body>`)
		h.raw(`<form class="theme-toggle" method="post" action="/theme">`)
		h.rawf(`<button type="submit" aria-label="Switch to %s theme">%s</button></form>`,
			templ.EscapeString(string(next)), templ.EscapeString(string(next)))
		h.raw(`<main><header><h1>Arigato</h1><p>AI Prompt Generator &amp; Optimizer</p></header>`)
		h.raw(`<div class="welcome"><h2>Hello! I&#39;m Arigato, your AI prompt optimizer.</h2>`)
		h.raw(`<p>I transform vague requests into precise, effective prompts that deliver better results. `)
		h.raw(`Just share your rough prompt, choose a target AI and style, and I&#39;ll handle the optimization!</p></div>`)
		h.render(ctx, Workspace(view.Workspace))
		h.raw(`</main><footer><p>Powered by Gemini API</p></footer></body></html>`)
		return h.err
	})
}

// Workspace renders the form and the output area. A pending workspace
// replaces itself on every poll until the optimization resolves.
func Workspace(view WorkspaceView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &writer{w: w}
		pending := view.State == domain.StatePending

		h.rawf(`<div id="workspace" data-state="%s"`, view.State)
		if pending {
			h.rawf(` hx-get="/workspace" hx-trigger="every %s" hx-swap="outerHTML"`, PollInterval)
		}
		h.raw(`>`)
		h.render(ctx, Form(view.Input, pending))
		h.raw(`<div id="output">`)
		switch view.State {
		case domain.StatePending:
			h.render(ctx, Loading())
		case domain.StateFailed:
			h.render(ctx, Error(view.Error))
		case domain.StateSucceeded:
			if view.Result != nil {
				h.render(ctx, Result(*view.Result))
			}
		}
		h.raw(`</div></div>`)
		return h.err
	})
}

func Form(input domain.UserInput, pending bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &writer{w: w}

		h.raw(`<form id="prompt-form" method="post" action="/optimize" hx-post="/optimize" hx-target="#workspace" hx-swap="outerHTML">`)
		if pending {
			h.raw(`<fieldset disabled>`)
		} else {
			h.raw(`<fieldset hx-post="/form" hx-trigger="change, keyup changed delay:500ms" hx-swap="none">`)
		}

		h.raw(`<label for="prompt">Your Rough Prompt</label>`)
		h.raw(`<textarea id="prompt" name="prompt" rows="6" placeholder="Enter your idea, question, or task here..." required>`)
		h.text(input.Prompt)
		h.raw(`</textarea>`)

		h.raw(`<div class="choices"><h3>Target AI</h3>`)
		for _, target := range domain.TargetAIs {
			radio(h, "targetAI", string(target), string(target), input.TargetAI == target)
		}
		h.raw(`</div>`)

		h.raw(`<div class="choices"><h3>Prompt Style</h3>`)
		for _, style := range domain.Styles {
			radio(h, "style", string(style), style.Label(), input.Style == style)
		}
		h.raw(`</div>`)

		if pending {
			h.raw(`<button type="submit" id="optimize" disabled>Optimizing...</button>`)
		} else {
			h.raw(`<button type="submit" id="optimize">Optimize Prompt</button>`)
		}
		h.raw(`</fieldset></form>`)
		return h.err
	})
}

func radio(h *writer, name, value, label string, checked bool) {
	h.rawf(`<label><input type="radio" name="%s" value="%s"`, templ.EscapeString(name), templ.EscapeString(value))
	if checked {
		h.raw(` checked`)
	}
	h.raw(`> `)
	h.text(label)
	h.raw(`</label>`)
}

func Loading() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div class="loader" role="status"><span>Optimizing your prompt...</span></div>`)
		return err
	})
}

func Error(message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &writer{w: w}
		h.raw(`<div class="error" role="alert"><p class="error-title">Oops! Something went wrong.</p><p>`)
		h.text(message)
		h.raw(`</p></div>`)
		return h.err
	})
}

func Result(result domain.OptimizationResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &writer{w: w}

		h.raw(`<section class="result"><h2>Your Optimized Prompt</h2><pre><code>`)
		h.text(result.OptimizedPrompt)
		h.raw(`</code></pre>`)

		h.raw(`<div class="explanation"><h3>`)
		h.text(result.ExplanationTitle)
		h.raw(`</h3><ul class="improvements">`)
		for _, item := range result.Improvements {
			h.raw(`<li><span>&#10003;</span> `)
			h.text(item)
			h.raw(`</li>`)
		}
		h.raw(`</ul></div>`)

		if result.TechniquesApplied != "" {
			h.raw(`<div class="techniques"><h3>Techniques Applied</h3><p>`)
			h.text(result.TechniquesApplied)
			h.raw(`</p></div>`)
		}

		if result.ProTip != "" {
			h.raw(`<div class="pro-tip"><h3>Pro Tip</h3><p>`)
			h.text(result.ProTip)
			h.raw(`</p></div>`)
		}

		h.raw(`</section>`)
		return h.err
	})
}

// ErrorPage is the standalone page for requests that cannot be served.
func ErrorPage(code int, title string, msg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &writer{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		h.text(title)
		h.rawf(`</title></head><body><main class="error-page"><p class="code">%d</p><h1>`, code)
		h.text(title)
		h.raw(`</h1><p>`)
		h.text(msg)
		h.raw(`</p><a href="/">Go back home</a></main></body></html>`)
		return h.err
	})
}
