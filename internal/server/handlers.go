package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/signalnine/algolens/internal/intelligence"
	"github.com/signalnine/algolens/internal/pipeline"
	"github.com/signalnine/algolens/pkg/complexity"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func fail(c *gin.Context, status int, code string, err error) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

type ProviderInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Configured  bool   `json:"configured"`
}

type ClassifyRequest struct {
	Code     string `json:"code"`
	Language string `json:"language" binding:"omitempty,oneof=javascript python java"`
}

type ClassifyResponse struct {
	StructuralLabel complexity.StructuralLabel `json:"astSummary"`
	Complexity      complexity.Class           `json:"complexityEstimation"`
	Rule            string                     `json:"rule"`
}

type SynthesizeRequest struct {
	Complexity string `json:"complexity" binding:"required"`
}

type JudgeRequest struct {
	Complexity string                    `json:"complexity" binding:"required"`
	Curve      complexity.BenchmarkCurve `json:"curve"`
}

type AnalyzeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language" binding:"omitempty,oneof=javascript python java"`
	Provider string `json:"provider"`
	Offline  bool   `json:"offline"`
}

type AnalyzeResponse struct {
	Result *pipeline.Result `json:"result"`
	Events []pipeline.Event `json:"events"`
}

type TraceRequest struct {
	Code     string `json:"code" binding:"required"`
	Input    string `json:"input"`
	Language string `json:"language" binding:"omitempty,oneof=javascript python java"`
	Provider string `json:"provider"`
}

type TraceResponse struct {
	intelligence.TraceResult
	Provider string             `json:"provider"`
	Usage    intelligence.Usage `json:"usage"`
}

func language(s string) complexity.Language {
	lang, _ := complexity.ParseLanguage(s)
	return lang
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleProviders(c *gin.Context) {
	out := []ProviderInfo{}
	if s.advisor != nil {
		for _, p := range s.advisor.Providers() {
			out = append(out, ProviderInfo{ID: p.ID(), Name: p.Name(), Description: p.Description(), Configured: p.IsConfigured()})
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleSample(c *gin.Context) {
	lang, ok := complexity.ParseLanguage(c.Param("language"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no sample for " + c.Param("language"), Code: "UNKNOWN_LANGUAGE"})
		return
	}
	c.JSON(http.StatusOK, complexity.SourceSample{Text: pipeline.Sample(lang), Language: lang})
}

func (s *Server) handleClassify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	sample := complexity.SourceSample{Text: req.Code, Language: language(req.Language)}
	label, class := complexity.Classify(sample)
	c.JSON(http.StatusOK, ClassifyResponse{StructuralLabel: label, Complexity: class, Rule: complexity.RuleName(sample)})
}

func (s *Server) handleSynthesize(c *gin.Context) {
	var req SynthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	class, err := complexity.ParseClass(req.Complexity)
	if err != nil {
		fail(c, http.StatusBadRequest, "UNKNOWN_CLASS", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"benchmarkData": complexity.Synthesize(class)})
}

func (s *Server) handleJudge(c *gin.Context) {
	var req JudgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	class, err := complexity.ParseClass(req.Complexity)
	if err != nil {
		fail(c, http.StatusBadRequest, "UNKNOWN_CLASS", err)
		return
	}
	c.JSON(http.StatusOK, complexity.Judge(class, req.Curve))
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	var events []pipeline.Event
	res, err := s.pipeline.Run(c.Request.Context(), pipeline.Request{
		Code:     req.Code,
		Language: language(req.Language),
		Provider: req.Provider,
		Offline:  req.Offline || s.advisor == nil,
	}, func(ev pipeline.Event) {
		events = append(events, ev)
	})
	if err != nil {
		s.logger.Info("analysis aborted", zap.String("request_id", c.GetString("request_id")), zap.Error(err))
		fail(c, http.StatusServiceUnavailable, "ANALYSIS_ABORTED", err)
		return
	}
	c.JSON(http.StatusOK, AnalyzeResponse{Result: res, Events: events})
}

func (s *Server) handleTrace(c *gin.Context) {
	var req TraceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	if s.advisor == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "no intelligence providers available", Code: "NO_PROVIDERS"})
		return
	}
	p := s.advisor.Provider(req.Provider)
	trace, usage := s.advisor.Trace(c.Request.Context(), p, req.Code, req.Input, language(req.Language))
	c.JSON(http.StatusOK, TraceResponse{TraceResult: trace, Provider: p.ID(), Usage: usage})
}
