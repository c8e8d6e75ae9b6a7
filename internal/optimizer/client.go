package optimizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/felixbrock/arigato/internal/domain"
)

const (
	Temperature      = 0.7
	ResponseMIMEType = "application/json"

	failurePrefix = "Failed to get a valid response from the AI. "
)

var (
	ErrMissingAPIKey   = errors.New("API_KEY environment variable is not set")
	ErrInvalidResponse = errors.New("response does not match the expected schema")
)

type GenerateRequest struct {
	SystemInstruction string
	Prompt            string
	Temperature       float64
	ResponseMIMEType  string
	ResponseSchema    *Schema
}

// Generator issues a single structured-output call and returns the raw text
// payload of the first candidate.
type Generator interface {
	GenerateContent(ctx context.Context, req GenerateRequest) (string, error)
}

type Options struct {
	APIKey string
	// Strict additionally enforces the BASIC/DETAIL field contracts.
	Strict bool
}

type Client struct {
	gen    Generator
	strict bool
}

func New(gen Generator, opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if gen == nil {
		return nil, errors.New("optimizer: generator is nil")
	}
	return &Client{gen: gen, strict: opts.Strict}, nil
}

// Optimize issues exactly one provider call. Every failure is returned with a
// human readable message; no partial result is ever returned.
func (c *Client) Optimize(ctx context.Context, input domain.UserInput) (*domain.OptimizationResult, error) {
	result, err := c.optimize(ctx, input)
	if err != nil {
		slog.Error("Error optimizing prompt", "target", input.TargetAI, "style", input.Style, "error", err)
		return nil, fmt.Errorf("%s%w", failurePrefix, err)
	}
	return result, nil
}

func (c *Client) optimize(ctx context.Context, input domain.UserInput) (*domain.OptimizationResult, error) {
	text, err := c.gen.GenerateContent(ctx, GenerateRequest{
		SystemInstruction: SystemInstruction,
		Prompt:            UserPrompt(input),
		Temperature:       Temperature,
		ResponseMIMEType:  ResponseMIMEType,
		ResponseSchema:    ResponseSchema(),
	})
	if err != nil {
		return nil, err
	}

	result, err := ParseResult(text)
	if err != nil {
		return nil, err
	}

	if c.strict {
		if err := CheckStyleContract(input.Style, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

type wireResult struct {
	OptimizedPrompt   *string  `json:"optimizedPrompt"`
	ExplanationTitle  *string  `json:"explanationTitle"`
	Improvements      []string `json:"improvements"`
	TechniquesApplied *string  `json:"techniquesApplied"`
	ProTip            *string  `json:"proTip"`
}

// ParseResult trims the raw payload, decodes it and checks the required
// fields. It never repairs malformed input.
func ParseResult(raw string) (*domain.OptimizationResult, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}

	var w wireResult
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, err.Error())
	}

	switch {
	case w.OptimizedPrompt == nil:
		return nil, fmt.Errorf("%w: missing optimizedPrompt", ErrInvalidResponse)
	case strings.TrimSpace(*w.OptimizedPrompt) == "":
		return nil, fmt.Errorf("%w: empty optimizedPrompt", ErrInvalidResponse)
	case w.ExplanationTitle == nil:
		return nil, fmt.Errorf("%w: missing explanationTitle", ErrInvalidResponse)
	case len(w.Improvements) == 0:
		return nil, fmt.Errorf("%w: improvements must contain at least one entry", ErrInvalidResponse)
	}

	result := &domain.OptimizationResult{
		OptimizedPrompt:  *w.OptimizedPrompt,
		ExplanationTitle: *w.ExplanationTitle,
		Improvements:     w.Improvements,
	}
	if w.TechniquesApplied != nil {
		result.TechniquesApplied = *w.TechniquesApplied
	}
	if w.ProTip != nil {
		result.ProTip = *w.ProTip
	}

	return result, nil
}

const (
	TitleBasic  = "What Changed"
	TitleDetail = "Key Improvements"
)

// CheckStyleContract validates the mode-conditional fields the system
// instruction asks the model for.
func CheckStyleContract(style domain.Style, r *domain.OptimizationResult) error {
	n := len(r.Improvements)

	switch style {
	case domain.StyleBasic:
		if n < 1 || n > 3 {
			return fmt.Errorf("%w: BASIC expects 1-3 improvements, got %d", ErrInvalidResponse, n)
		}
		if r.ExplanationTitle != TitleBasic {
			return fmt.Errorf("%w: BASIC expects title %q, got %q", ErrInvalidResponse, TitleBasic, r.ExplanationTitle)
		}
		if r.TechniquesApplied != "" || r.ProTip != "" {
			return fmt.Errorf("%w: BASIC must omit techniquesApplied and proTip", ErrInvalidResponse)
		}
	case domain.StyleDetail:
		if n < 2 || n > 4 {
			return fmt.Errorf("%w: DETAIL expects 2-4 improvements, got %d", ErrInvalidResponse, n)
		}
		if r.ExplanationTitle != TitleDetail {
			return fmt.Errorf("%w: DETAIL expects title %q, got %q", ErrInvalidResponse, TitleDetail, r.ExplanationTitle)
		}
		if strings.TrimSpace(r.TechniquesApplied) == "" || strings.TrimSpace(r.ProTip) == "" {
			return fmt.Errorf("%w: DETAIL requires techniquesApplied and proTip", ErrInvalidResponse)
		}
	default:
		return fmt.Errorf("unknown style %q", style)
	}

	return nil
}
