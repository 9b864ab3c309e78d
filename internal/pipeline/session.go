package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/signalnine/algolens/pkg/complexity"
)

var (
	ErrRunInProgress = errors.New("analysis already in progress")
	ErrNodeLocked    = errors.New("node has not been reached")
)

// Session is one user's workspace: the current code, language and provider,
// the stage of the latest run and the node being inspected. It allows at
// most one run at a time.
type Session struct {
	pipeline *Pipeline

	mu         sync.Mutex
	running    bool
	language   complexity.Language
	code       string
	provider   string
	stage      Stage
	activeNode string
	result     *Result
}

// NewSession starts in JavaScript with its starter sample loaded.
func NewSession(p *Pipeline) *Session {
	return &Session{
		pipeline: p,
		language: complexity.JavaScript,
		code:     Sample(complexity.JavaScript),
		provider: "gemini",
		result:   &Result{Code: Sample(complexity.JavaScript), Language: complexity.JavaScript},
	}
}

func (s *Session) Language() complexity.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

func (s *Session) Code() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.code
}

func (s *Session) SetCode(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.code = code
}

func (s *Session) Provider() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider
}

func (s *Session) SetProvider(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = id
}

func (s *Session) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

func (s *Session) ActiveNode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeNode
}

// Result returns a snapshot of the latest result.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result.Clone()
}

func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// SwitchLanguage loads lang's starter sample, resets the stage to Idle and
// clears the result. It returns the new code.
func (s *Session) SwitchLanguage(lang complexity.Language) (string, error) {
	code := Sample(lang)
	if code == "" {
		return "", fmt.Errorf("unsupported language %s", lang)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return "", ErrRunInProgress
	}
	s.language = lang
	s.code = code
	s.stage = Idle
	s.activeNode = ""
	s.result = &Result{}
	return code, nil
}

// Select makes id the inspected node if CanSelect allows it.
func (s *Session) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !CanSelect(id, s.stage) {
		return fmt.Errorf("selecting %q at %s: %w", id, s.stage, ErrNodeLocked)
	}
	s.activeNode = id
	return nil
}

// Run analyzes the current code. It returns ErrRunInProgress if another run
// has not finished. obs may be nil.
func (s *Session) Run(ctx context.Context, obs Observer) (*Result, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrRunInProgress
	}
	s.running = true
	req := Request{Code: s.code, Language: s.language, Provider: s.provider}
	s.stage = Parsing
	s.activeNode = Nodes[0].ID
	s.result = &Result{Code: s.code, Language: s.language}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	return s.pipeline.Run(ctx, req, func(ev Event) {
		s.mu.Lock()
		s.stage = ev.Stage
		if ev.NodeID != "" && !ev.Done {
			s.activeNode = ev.NodeID
		}
		s.result = ev.Result
		s.mu.Unlock()
		if obs != nil {
			obs(ev)
		}
	})
}
