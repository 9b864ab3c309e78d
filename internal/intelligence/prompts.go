package intelligence

import (
	"fmt"
	"strings"

	"github.com/signalnine/algolens/pkg/complexity"
)

// Context is everything a provider sees about one analysis.
type Context struct {
	Code           string
	Language       complexity.Language
	Complexity     complexity.Class
	RuntimeSummary string
	Judgment       *complexity.Judgment
}

func (c Context) verdict() string {
	if c.Judgment == nil {
		return "unknown"
	}
	return c.Judgment.Verdict
}

func explainPrompt(c Context) Prompt {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an algorithmic analysis expert.\n")
	fmt.Fprintf(&b, "Analyze the following %s code and the provided performance metrics.\n\n", c.Language)
	fmt.Fprintf(&b, "Code:\n```%s\n%s\n```\n\n", c.Language, c.Code)
	fmt.Fprintf(&b, "Estimated Complexity: %s\n", c.Complexity)
	fmt.Fprintf(&b, "Observed Runtime Behavior: %s\n\n", c.RuntimeSummary)
	b.WriteString("Explain strictly WHY the code exhibits this behavior.\n")
	b.WriteString("Do not suggest fixes yet. Focus on the mechanics causing the latency or efficiency.\n")
	b.WriteString("Keep it concise (max 3 sentences).\n")
	return Prompt{Text: b.String(), Format: FormatText}
}

func suggestPrompt(c Context) Prompt {
	var b strings.Builder
	b.WriteString("You are an algorithmic optimization engine.\n")
	b.WriteString("Suggest improvements; do not rewrite the code.\n\n")
	fmt.Fprintf(&b, "Code:\n```%s\n%s\n```\n\n", c.Language, c.Code)
	b.WriteString("Analysis:\n")
	fmt.Fprintf(&b, "- Static Complexity: %s\n", c.Complexity)
	fmt.Fprintf(&b, "- Runtime Verdict: %s\n\n", c.verdict())
	b.WriteString("Provide 1 to 3 specific, actionable suggestions to improve performance.\n")
	b.WriteString("Return ONLY a JSON array of strings.\n")
	b.WriteString(`Example: ["Use a Set for O(1) lookups.", "Avoid nested loops."]` + "\n")
	return Prompt{Text: b.String(), Format: FormatStringList}
}

func tracePrompt(code, input string, lang complexity.Language) Prompt {
	var b strings.Builder
	b.WriteString("You are a code execution tracer.\n")
	fmt.Fprintf(&b, "Execute the following %s code MENTALLY step-by-step with the provided input.\n", lang)
	b.WriteString("Return a JSON object containing an array of 'steps'.\n\n")
	fmt.Fprintf(&b, "Code:\n```%s\n%s\n```\n\n", lang, code)
	fmt.Fprintf(&b, "Input: %s\n\n", input)
	b.WriteString("Each step has 'step' (integer), 'description' (string), 'data', 'pointers' and 'variables'.\n")
	b.WriteString("Rules:\n")
	b.WriteString("- 'data': The current state of the main array/structure (array of strings/numbers).\n")
	b.WriteString("- 'pointers': Variables used as index pointers (e.g. i, j), as an array of objects: { varName: string, index: number }.\n")
	b.WriteString("- 'variables': Other relevant variables as an array of objects: { key: string, value: string }.\n\n")
	fmt.Fprintf(&b, "Limit to max %d steps.\n", MaxTraceSteps)
	return Prompt{Text: b.String(), Format: FormatTrace}
}
