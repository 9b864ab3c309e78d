// Package pricing prices provider token usage from a YAML table keyed by
// provider id, then model. Prices are USD per 1K tokens.
package pricing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/signalnine/algolens/internal/intelligence"
)

type ModelPricing struct {
	Input  float64 `yaml:"input" json:"input"`
	Output float64 `yaml:"output" json:"output"`
}

type Table struct {
	Providers map[string]map[string]ModelPricing
}

func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pricing file: %w", err)
	}
	var providers map[string]map[string]ModelPricing
	if err := yaml.Unmarshal(data, &providers); err != nil {
		return nil, fmt.Errorf("parsing pricing file: %w", err)
	}
	return &Table{Providers: providers}, nil
}

// LoadOptional is Load, except that an empty path yields an empty table.
func LoadOptional(path string) (*Table, error) {
	if path == "" {
		return &Table{}, nil
	}
	return Load(path)
}

// Lookup returns the prices for provider/model.
func (t *Table) Lookup(provider, model string) (ModelPricing, bool) {
	if t == nil || t.Providers == nil {
		return ModelPricing{}, false
	}
	p, ok := t.Providers[provider][model]
	return p, ok
}

// Cost is zero for anything not in the table.
func (t *Table) Cost(provider, model string, inputTokens, outputTokens int) float64 {
	p, ok := t.Lookup(provider, model)
	if !ok {
		return 0
	}
	return (float64(inputTokens)/1000.0)*p.Input + (float64(outputTokens)/1000.0)*p.Output
}

// UsageCost prices the usage accumulated by one analysis.
func (t *Table) UsageCost(provider string, u intelligence.Usage) float64 {
	return t.Cost(provider, u.Model, u.InputTokens, u.OutputTokens)
}
