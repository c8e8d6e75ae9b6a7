package components

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixbrock/arigato/internal/domain"
	"github.com/felixbrock/arigato/internal/theme"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func visible(html string) (loader, banner, result bool) {
	return strings.Contains(html, `class="loader"`),
		strings.Contains(html, `class="error"`),
		strings.Contains(html, `class="result"`)
}

func TestWorkspaceShowsExactlyOneOutput(t *testing.T) {
	res := &domain.OptimizationResult{OptimizedPrompt: "p", ExplanationTitle: "What Changed", Improvements: []string{"a"}}

	tests := []struct {
		name                string
		view                WorkspaceView
		loader, err, result bool
	}{
		{"idle", WorkspaceView{Input: domain.DefaultUserInput(), State: domain.StateIdle}, false, false, false},
		{"pending", WorkspaceView{Input: domain.DefaultUserInput(), State: domain.StatePending}, true, false, false},
		{"failed", WorkspaceView{Input: domain.DefaultUserInput(), State: domain.StateFailed, Error: "boom"}, false, true, false},
		{"succeeded", WorkspaceView{Input: domain.DefaultUserInput(), State: domain.StateSucceeded, Result: res}, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := render(t, Workspace(tt.view))
			loader, banner, result := visible(html)
			assert.Equal(t, tt.loader, loader, "loader")
			assert.Equal(t, tt.err, banner, "error")
			assert.Equal(t, tt.result, result, "result")
		})
	}
}

func TestWorkspacePendingDisablesFormAndPolls(t *testing.T) {
	html := render(t, Workspace(WorkspaceView{Input: domain.DefaultUserInput(), State: domain.StatePending}))

	assert.Contains(t, html, `<fieldset disabled>`)
	assert.Contains(t, html, `<button type="submit" id="optimize" disabled>Optimizing...</button>`)
	assert.Contains(t, html, `hx-get="/workspace" hx-trigger="every 1s"`)
}

func TestWorkspaceIdleHasNoPolling(t *testing.T) {
	html := render(t, Workspace(WorkspaceView{Input: domain.DefaultUserInput()}))

	assert.NotContains(t, html, `hx-get="/workspace"`)
	assert.Contains(t, html, `<fieldset hx-post="/form" hx-trigger="change, keyup changed delay:500ms" hx-swap="none">`)
	assert.Contains(t, html, `Optimize Prompt</button>`)
	assert.NotContains(t, html, "disabled")
}

func TestFormSelections(t *testing.T) {
	in := domain.UserInput{Prompt: "write essay on bees", TargetAI: domain.TargetClaude, Style: domain.StyleDetail}
	html := render(t, Form(in, false))

	assert.Contains(t, html, `value="Claude" checked>`)
	assert.Contains(t, html, `value="DETAIL" checked> Detail`)
	assert.Contains(t, html, `value="BASIC"> Basic`)
	assert.Equal(t, 1, strings.Count(html, `name="targetAI" value="Claude" checked`))
	assert.Equal(t, 4, strings.Count(html, `name="targetAI"`))
	assert.Equal(t, 2, strings.Count(html, `name="style"`))
	assert.Equal(t, 2, strings.Count(html, " checked"))
	assert.Contains(t, html, ">write essay on bees</textarea>")
}

func TestResultBasic(t *testing.T) {
	html := render(t, Result(domain.OptimizationResult{
		OptimizedPrompt:  "Act as a teacher",
		ExplanationTitle: "What Changed",
		Improvements:     []string{"Added audience context", "Specified output length"},
	}))

	assert.Contains(t, html, "<h3>What Changed</h3>")
	assert.Equal(t, 2, strings.Count(html, "<li>"))
	assert.NotContains(t, html, "Techniques Applied")
	assert.NotContains(t, html, "Pro Tip")
}

func TestResultDetail(t *testing.T) {
	html := render(t, Result(domain.OptimizationResult{
		OptimizedPrompt:   "p",
		ExplanationTitle:  "Key Improvements",
		Improvements:      []string{"a", "b", "c"},
		TechniquesApplied: "Chain-of-thought",
		ProTip:            "Iterate on the output",
	}))

	assert.Contains(t, html, "<h3>Techniques Applied</h3><p>Chain-of-thought</p>")
	assert.Contains(t, html, "<h3>Pro Tip</h3><p>Iterate on the output</p>")
}

func TestUserTextIsEscaped(t *testing.T) {
	html := render(t, Error(`<script>alert(1)</script>`))
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")

	html = render(t, Form(domain.UserInput{Prompt: `</textarea><b>x</b>`, TargetAI: domain.TargetGemini, Style: domain.StyleBasic}, false))
	assert.NotContains(t, html, "<b>x</b>")
}

func TestIndexTheme(t *testing.T) {
	html := render(t, Index(PageView{Theme: theme.Light, Workspace: WorkspaceView{Input: domain.DefaultUserInput()}}))

	assert.Contains(t, html, `<html lang="en" class="light">`)
	assert.Contains(t, html, `aria-label="Switch to dark theme"`)
	assert.Contains(t, html, "Powered by Gemini API")
	assert.Contains(t, html, `id="workspace"`)
}

func TestErrorPage(t *testing.T) {
	html := render(t, ErrorPage(400, "Bad request", "unknown target AI"))
	assert.Contains(t, html, `<p class="code">400</p>`)
	assert.Contains(t, html, "<h1>Bad request</h1>")
	assert.Contains(t, html, `<html lang="en"><head>`)
	assert.NotContains(t, html, `class="dark"`)
}
