package domain

import (
	"fmt"
	"strings"
)

type TargetAI string

const (
	TargetGemini  TargetAI = "Gemini"
	TargetChatGPT TargetAI = "ChatGPT"
	TargetClaude  TargetAI = "Claude"
	TargetOther   TargetAI = "Other"
)

// TargetAIs lists the selectable target assistants in display order.
var TargetAIs = []TargetAI{TargetGemini, TargetChatGPT, TargetClaude, TargetOther}

func ParseTargetAI(value string) (TargetAI, error) {
	for _, t := range TargetAIs {
		if string(t) == value {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown target AI %q", value)
}

type Style string

const (
	StyleBasic  Style = "BASIC"
	StyleDetail Style = "DETAIL"
)

var Styles = []Style{StyleBasic, StyleDetail}

func ParseStyle(value string) (Style, error) {
	for _, s := range Styles {
		if string(s) == value {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown style %q", value)
}

// Label is the capitalized form shown on buttons, e.g. "Basic".
func (s Style) Label() string {
	if s == "" {
		return ""
	}
	return string(s[0]) + strings.ToLower(string(s[1:]))
}

type UserInput struct {
	Prompt   string   `json:"prompt"`
	TargetAI TargetAI `json:"targetAI"`
	Style    Style    `json:"style"`
}

func DefaultUserInput() UserInput {
	return UserInput{TargetAI: TargetGemini, Style: StyleBasic}
}

// Submittable reports whether the input may be sent for optimization.
func (i UserInput) Submittable() bool {
	return i.Prompt != ""
}

type OptimizationResult struct {
	OptimizedPrompt   string   `json:"optimizedPrompt"`
	ExplanationTitle  string   `json:"explanationTitle"`
	Improvements      []string `json:"improvements"`
	TechniquesApplied string   `json:"techniquesApplied,omitempty"`
	ProTip            string   `json:"proTip,omitempty"`
}

type RequestState int

const (
	StateIdle RequestState = iota
	StatePending
	StateSucceeded
	StateFailed
)

func (s RequestState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
