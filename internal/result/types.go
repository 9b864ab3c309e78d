package result

import (
	"time"

	"github.com/google/uuid"

	"github.com/signalnine/algolens/internal/pipeline"
)

// Record is one stored analysis.
type Record struct {
	ID            string           `json:"id"`
	Source        string           `json:"source"`
	Provider      string           `json:"provider,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	DurationMs    int64            `json:"duration_ms"`
	CostUSD       float64          `json:"cost_usd"`
	RevalidatedAt *time.Time       `json:"revalidated_at,omitempty"`
	Analysis      *pipeline.Result `json:"analysis"`
}

// NewRecord stamps res with a fresh id and the current time.
func NewRecord(source string, res *pipeline.Result, took time.Duration) *Record {
	return &Record{
		ID:         uuid.NewString(),
		Source:     source,
		Provider:   res.Provider,
		CreatedAt:  time.Now().UTC(),
		DurationMs: took.Milliseconds(),
		Analysis:   res,
	}
}

// Confirmed reports whether the stored judgment matched the static class.
func (r *Record) Confirmed() bool {
	return r.Analysis != nil && r.Analysis.Judgment != nil && r.Analysis.Judgment.Match
}
