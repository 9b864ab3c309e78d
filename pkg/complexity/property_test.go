package complexity_test

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/signalnine/algolens/pkg/complexity"
)

var ruleKeywords = []string{"for", "while", "reduce", "map", "stream", "forEach"}

// keywordFree strips every rule keyword so generated filler cannot trigger a
// rule by accident. Removal can splice a new keyword together, so repeat
// until stable.
func keywordFree(s string) string {
	for {
		out := s
		for _, kw := range ruleKeywords {
			out = strings.ReplaceAll(out, kw, "")
		}
		if out == s {
			return out
		}
		s = out
	}
}

func countKeywords(s string) int {
	n := 0
	for _, kw := range ruleKeywords {
		n += strings.Count(s, kw)
	}
	return n
}

func TestClassifierProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	languages := gen.IntRange(0, len(complexity.Languages)).Map(func(i int) complexity.Language {
		if i == len(complexity.Languages) {
			return complexity.LanguageUnknown
		}
		return complexity.Languages[i]
	})

	properties.Property("two loop keywords classify as quadratic", prop.ForAll(
		func(pre, mid, post string, lang complexity.Language) bool {
			text := keywordFree(pre) + "for" + keywordFree(mid) + "for" + keywordFree(post)
			_, class := complexity.Classify(complexity.SourceSample{Text: text, Language: lang})
			return class == complexity.Quadratic
		},
		gen.AnyString(), gen.AnyString(), gen.AnyString(), languages,
	))

	properties.Property("a single loop keyword classifies as linear", prop.ForAll(
		func(pre, post string, lang complexity.Language) bool {
			text := keywordFree(pre) + "for" + keywordFree(post)
			if countKeywords(text) != 1 {
				return true
			}
			label, class := complexity.Classify(complexity.SourceSample{Text: text, Language: lang})
			return class == complexity.Linear && label == complexity.LabelLinear
		},
		gen.AlphaString(), gen.AlphaString(), languages,
	))

	properties.Property("keyword-free text classifies as constant", prop.ForAll(
		func(text string, lang complexity.Language) bool {
			text = keywordFree(text)
			if strings.Contains(text, "for") || strings.Contains(text, "while") {
				return true
			}
			_, class := complexity.Classify(complexity.SourceSample{Text: text, Language: lang})
			return class == complexity.Constant
		},
		gen.AnyString(), languages,
	))

	properties.TestingRun(t)
}

func TestSynthesisProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	all := []complexity.Class{complexity.Constant, complexity.Linear, complexity.Quadratic}
	classes := gen.IntRange(0, len(all)-1).Map(func(i int) complexity.Class { return all[i] })

	properties.Property("any noise in band round-trips through the judge", prop.ForAll(
		func(class complexity.Class, noise float64) bool {
			curve := complexity.SynthesizeWith(class, complexity.FixedNoise(noise))
			return complexity.Judge(class, curve).Match
		},
		classes, gen.Float64Range(0.9, 1.1),
	))

	properties.Property("curve keeps the fixed input ladder", prop.ForAll(
		func(class complexity.Class) bool {
			curve := complexity.Synthesize(class)
			if len(curve) != len(complexity.InputSizes) {
				return false
			}
			for i, p := range curve {
				if p.InputSize != complexity.InputSizes[i] || p.TimeMs < 0 {
					return false
				}
			}
			return true
		},
		classes,
	))

	properties.TestingRun(t)
}
