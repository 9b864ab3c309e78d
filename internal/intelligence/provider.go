// Package intelligence wraps the text-generation backends that explain and
// critique an analysis. Backends are optional and fallible; the Advisor turns
// every failure into placeholder text.
package intelligence

import (
	"context"
	"errors"
)

var (
	ErrNotConfigured  = errors.New("provider is not configured")
	ErrNotImplemented = errors.New("provider is not implemented")
)

// Format tells a provider what shape of answer the prompt asks for so it can
// switch on a JSON mode where the backend has one.
type Format int

const (
	FormatText Format = iota
	FormatStringList
	FormatTrace
)

func (f Format) JSON() bool {
	return f != FormatText
}

type Prompt struct {
	Text   string
	Format Format
}

// Usage is token consumption. Model names the model that served the most
// recent call folded into it.
type Usage struct {
	Model        string `json:"model,omitempty"`
	InputTokens  int    `json:"inputTokens"`
	OutputTokens int    `json:"outputTokens"`
}

func (u Usage) Add(o Usage) Usage {
	sum := Usage{Model: u.Model, InputTokens: u.InputTokens + o.InputTokens, OutputTokens: u.OutputTokens + o.OutputTokens}
	if o.Model != "" {
		sum.Model = o.Model
	}
	return sum
}

func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

type Generation struct {
	Text  string
	Model string
	Usage Usage
}

// Provider is one text-generation backend.
type Provider interface {
	ID() string
	Name() string
	Description() string
	IsConfigured() bool
	Generate(ctx context.Context, p Prompt) (*Generation, error)
}
