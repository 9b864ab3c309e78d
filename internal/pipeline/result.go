package pipeline

import (
	"slices"

	"github.com/signalnine/algolens/internal/intelligence"
	"github.com/signalnine/algolens/pkg/complexity"
)

// Result is the analysis so far. Fields fill in stage by stage.
type Result struct {
	Code     string              `json:"code"`
	Language complexity.Language `json:"language"`
	Stats    *SourceStats        `json:"stats,omitempty"`

	StructuralLabel complexity.StructuralLabel `json:"astSummary,omitempty"`
	Rule            string                     `json:"rule,omitempty"`
	Complexity      *complexity.Class          `json:"complexityEstimation,omitempty"`
	Benchmark       complexity.BenchmarkCurve  `json:"benchmarkData,omitempty"`
	Judgment        *complexity.Judgment       `json:"judgement,omitempty"`
	RuntimeSummary  string                     `json:"runtimeSummary,omitempty"`

	Provider    string             `json:"provider,omitempty"`
	Explanation string             `json:"explanation,omitempty"`
	Suggestions []string           `json:"suggestions,omitempty"`
	Usage       intelligence.Usage `json:"usage"`
}

// Clone returns a copy that shares no mutable state with r.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	c := *r
	if r.Stats != nil {
		s := *r.Stats
		c.Stats = &s
	}
	if r.Complexity != nil {
		cl := *r.Complexity
		c.Complexity = &cl
	}
	if r.Judgment != nil {
		j := *r.Judgment
		c.Judgment = &j
	}
	c.Benchmark = slices.Clone(r.Benchmark)
	c.Suggestions = slices.Clone(r.Suggestions)
	return &c
}

// RuntimeSummary is the one-line runtime-vs-static summary handed to providers.
func RuntimeSummary(static complexity.Class, j complexity.Judgment) string {
	if j.Match {
		return "Consistent with " + static.String() + " behavior."
	}
	return "Unexpectedly slower/faster than " + static.String() + "."
}
