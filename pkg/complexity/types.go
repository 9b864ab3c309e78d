// Package complexity estimates the asymptotic complexity of a code sample from
// superficial text patterns, synthesizes a benchmark curve consistent with that
// estimate and cross-checks the curve's growth against the static claim.
//
// Nothing here parses or executes the sample. All measurements are synthetic.
package complexity

import (
	"fmt"
	"math"
	"strings"
)

// Language is the declared source language of a sample.
type Language int

const (
	LanguageUnknown Language = iota
	JavaScript
	Python
	Java
)

var languageNames = map[Language]string{
	JavaScript: "javascript",
	Python:     "python",
	Java:       "java",
}

// Languages lists the supported languages in display order.
var Languages = []Language{JavaScript, Python, Java}

func (l Language) String() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return "unknown"
}

// ParseLanguage maps a language name to a Language. Unknown names return
// LanguageUnknown and ok=false; callers may still classify with it.
func ParseLanguage(s string) (Language, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for l, name := range languageNames {
		if name == s {
			return l, true
		}
	}
	return LanguageUnknown, false
}

func (l Language) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Language) UnmarshalText(b []byte) error {
	parsed, _ := ParseLanguage(string(b))
	*l = parsed
	return nil
}

// Class is an asymptotic complexity class. The underlying value is the growth
// rank, so classes compare with < and >; new classes slot in between by rank.
type Class int

const (
	Constant  Class = 10
	Linear    Class = 30
	Quadratic Class = 50
)

var classNotation = map[Class]string{
	Constant:  "O(1)",
	Linear:    "O(n)",
	Quadratic: "O(n^2)",
}

func (c Class) String() string {
	if s, ok := classNotation[c]; ok {
		return s
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// ParseClass maps O-notation ("O(1)", "O(n)", "O(n^2)") back to a Class.
func ParseClass(s string) (Class, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "²", "^2")
	for c, notation := range classNotation {
		if notation == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown complexity class %q", s)
}

func (c Class) MarshalText() ([]byte, error) {
	if _, ok := classNotation[c]; !ok {
		return nil, fmt.Errorf("unknown complexity class %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Class) UnmarshalText(b []byte) error {
	parsed, err := ParseClass(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// SourceSample is the immutable input to classification.
type SourceSample struct {
	Text     string   `json:"code"`
	Language Language `json:"language"`
}

// StructuralLabel describes the pattern that drove a classification.
type StructuralLabel string

const (
	LabelNested   StructuralLabel = "Nested Iteration Detected"
	LabelLinear   StructuralLabel = "Linear Iteration Detected"
	LabelStream   StructuralLabel = "Stream/Iterator Detected"
	LabelConstant StructuralLabel = "Constant/Logarithmic logic"
)

// MetricPoint is one synthetic latency measurement.
type MetricPoint struct {
	InputSize int     `json:"inputSize"`
	TimeMs    float64 `json:"timeMs"`
}

// BenchmarkCurve is ordered by strictly increasing InputSize.
type BenchmarkCurve []MetricPoint

// GrowthRatio is the last point's latency over the first's, with the first
// floored to epsilon. An empty curve has ratio 1.
func (c BenchmarkCurve) GrowthRatio() float64 {
	if len(c) == 0 {
		return 1
	}
	first := math.Max(c[0].TimeMs, epsilonMs)
	return c[len(c)-1].TimeMs / first
}

// Judgment compares a static class against the class observed on a curve.
type Judgment struct {
	Verdict    string  `json:"verdict"`
	Confidence float64 `json:"confidence"`
	Match      bool    `json:"match"`

	Observed Class   `json:"observed"`
	Ratio    float64 `json:"ratio"`
}
