package complexity

import (
	"regexp"
	"strings"
)

// looseNested is deliberately broad: any "for" followed somewhere later by
// another "for", across lines.
var looseNested = regexp.MustCompile(`for.*[\s\S]*for`)

type rule struct {
	name  string
	match func(SourceSample) bool
	label StructuralLabel
	class Class
}

// rules are evaluated top to bottom, first match wins. Later rules are broader
// than earlier ones, so the order is load-bearing.
var rules = []rule{
	{
		name:  "nested-loop",
		match: hasNestedLoop,
		label: LabelNested,
		class: Quadratic,
	},
	{
		name: "javascript-functional",
		match: func(s SourceSample) bool {
			return s.Language == JavaScript && containsAny(s.Text, "reduce", "map")
		},
		label: LabelLinear,
		class: Linear,
	},
	{
		name: "java-stream",
		match: func(s SourceSample) bool {
			return s.Language == Java && containsAny(s.Text, "stream", "forEach")
		},
		label: LabelStream,
		class: Linear,
	},
	{
		name: "loop-keyword",
		match: func(s SourceSample) bool {
			return containsAny(s.Text, "for", "while")
		},
		label: LabelLinear,
		class: Linear,
	},
}

var fallback = rule{name: "default", label: LabelConstant, class: Constant}

// Classify assigns a structural label and complexity class to a sample. It is
// a text heuristic: loop keywords inside comments or strings count, and two
// sibling loops read as nested.
func Classify(sample SourceSample) (StructuralLabel, Class) {
	r := matchRule(sample)
	return r.label, r.class
}

// RuleName reports which rule Classify would apply, for diagnostics.
func RuleName(sample SourceSample) string {
	return matchRule(sample).name
}

func matchRule(sample SourceSample) rule {
	for _, r := range rules {
		if r.match(sample) {
			return r
		}
	}
	return fallback
}

func hasNestedLoop(s SourceSample) bool {
	first := strings.Index(s.Text, "for")
	if first == -1 {
		return false
	}
	second := strings.Index(s.Text[first+1:], "for")
	if second == -1 {
		return false
	}
	return looseNested.MatchString(s.Text)
}

func containsAny(text string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
