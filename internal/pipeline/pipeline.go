// Package pipeline sequences one analysis through its stages: parse, static
// classification, synthetic benchmark, judgment, then the optional
// explanation and suggestion stages backed by an intelligence provider.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/signalnine/algolens/internal/config"
	"github.com/signalnine/algolens/internal/intelligence"
	"github.com/signalnine/algolens/internal/metrics"
	"github.com/signalnine/algolens/pkg/complexity"
)

type Request struct {
	Code     string
	Language complexity.Language
	// Provider is a registry id. Unknown or empty ids use the default provider.
	Provider string
	// Offline skips the explanation and suggestion stages.
	Offline bool
}

// Event is emitted when a stage starts (Done false) and when it finishes.
// Result is a snapshot the observer may keep.
type Event struct {
	Stage  Stage   `json:"stage"`
	NodeID string  `json:"nodeId,omitempty"`
	Done   bool    `json:"done"`
	Result *Result `json:"result"`
}

// Observer receives events synchronously on the running goroutine.
type Observer func(Event)

type Pipeline struct {
	advisor *intelligence.Advisor
	delays  config.Delays
	noise   complexity.NoiseSource
	logger  *zap.Logger
	metrics *metrics.Registry
}

type Option func(*Pipeline)

// WithDelays sets the artificial per-stage pacing. Zero durations disable it.
func WithDelays(d config.Delays) Option {
	return func(p *Pipeline) { p.delays = d }
}

func WithNoise(n complexity.NoiseSource) Option {
	return func(p *Pipeline) { p.noise = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

func WithMetrics(m *metrics.Registry) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// New builds a pipeline. A nil advisor makes every run offline.
func New(advisor *intelligence.Advisor, opts ...Option) *Pipeline {
	p := &Pipeline{
		advisor: advisor,
		delays:  config.DefaultDelays,
		noise:   complexity.UniformNoise,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type run struct {
	p   *Pipeline
	obs Observer
	res *Result
}

func (r *run) emit(stage Stage, done bool) {
	if r.obs == nil {
		return
	}
	ev := Event{Stage: stage, Done: done, Result: r.res.Clone()}
	if n, ok := NodeForStage(stage); ok {
		ev.NodeID = n.ID
	}
	r.obs(ev)
}

func (r *run) stage(ctx context.Context, stage Stage, delay time.Duration, fn func()) error {
	r.emit(stage, false)
	start := time.Now()
	if err := sleep(ctx, delay); err != nil {
		return fmt.Errorf("%s: %w", stage, err)
	}
	fn()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", stage, err)
	}
	r.p.metrics.RecordStage(stage.String(), time.Since(start))
	r.emit(stage, true)
	return nil
}

// Run executes every stage in order. Provider failures never fail a run; only
// context cancellation does, in which case the partial result is returned
// alongside the error and an Error event is emitted.
func (p *Pipeline) Run(ctx context.Context, req Request, obs Observer) (*Result, error) {
	r := &run{p: p, obs: obs, res: &Result{Code: req.Code, Language: req.Language}}
	res := r.res
	sample := complexity.SourceSample{Text: req.Code, Language: req.Language}
	var class complexity.Class

	steps := []struct {
		stage Stage
		delay time.Duration
		fn    func()
	}{
		{Parsing, p.delays.Parse, func() {
			stats := Stats(req.Code, req.Language)
			res.Stats = &stats
		}},
		{StaticAnalysis, p.delays.Static, func() {
			var label complexity.StructuralLabel
			label, class = complexity.Classify(sample)
			res.StructuralLabel = label
			res.Rule = complexity.RuleName(sample)
			res.Complexity = &class
		}},
		{Benchmarking, p.delays.Benchmark, func() {
			res.Benchmark = complexity.SynthesizeWith(class, p.noise)
		}},
		{Judgment, p.delays.Judge, func() {
			j := complexity.Judge(class, res.Benchmark)
			res.Judgment = &j
			res.RuntimeSummary = RuntimeSummary(class, j)
		}},
	}
	for _, s := range steps {
		if err := r.stage(ctx, s.stage, s.delay, s.fn); err != nil {
			return p.fail(r, err)
		}
	}
	p.metrics.RecordAnalysis(class.String(), res.Judgment.Verdict)
	p.logger.Debug("judged",
		zap.Stringer("language", req.Language),
		zap.String("rule", res.Rule),
		zap.Stringer("complexity", class),
		zap.Stringer("observed", res.Judgment.Observed),
		zap.Float64("ratio", res.Judgment.Ratio),
		zap.String("verdict", res.Judgment.Verdict))

	if p.advisor != nil && !req.Offline {
		provider := p.advisor.Provider(req.Provider)
		res.Provider = provider.ID()
		ictx := intelligence.Context{
			Code:           req.Code,
			Language:       req.Language,
			Complexity:     class,
			RuntimeSummary: res.RuntimeSummary,
			Judgment:       res.Judgment,
		}
		intel := []struct {
			stage Stage
			fn    func()
		}{
			{Explanation, func() {
				text, usage := p.advisor.Explain(ctx, provider, ictx)
				res.Explanation = text
				res.Usage = res.Usage.Add(usage)
			}},
			{Suggestion, func() {
				items, usage := p.advisor.Suggest(ctx, provider, ictx)
				res.Suggestions = items
				res.Usage = res.Usage.Add(usage)
			}},
		}
		for _, s := range intel {
			if err := r.stage(ctx, s.stage, 0, s.fn); err != nil {
				return p.fail(r, err)
			}
		}
	}

	r.emit(Complete, true)
	return res, nil
}

func (p *Pipeline) fail(r *run, err error) (*Result, error) {
	p.logger.Info("analysis aborted", zap.Error(err))
	r.emit(Error, true)
	return r.res, err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
