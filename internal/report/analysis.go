package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/signalnine/algolens/internal/pipeline"
	"github.com/signalnine/algolens/pkg/complexity"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(20)

	confirmedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#04B575"))

	divergenceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5F87"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// WriteAnalysis renders one result for a terminal. plain drops all styling.
func WriteAnalysis(w io.Writer, res *pipeline.Result, plain bool) error {
	style := func(s lipgloss.Style, text string) string {
		if plain {
			return text
		}
		return s.Render(text)
	}
	row := func(b *strings.Builder, label, value string) {
		fmt.Fprintf(b, "%s %s\n", style(labelStyle, label), value)
	}

	var b strings.Builder
	b.WriteString(style(titleStyle, "Analysis") + "\n")
	row(&b, "Language", res.Language.String())
	if res.Stats != nil {
		row(&b, "Lines", fmt.Sprintf("%d (%d code)", res.Stats.Lines, res.Stats.CodeLines))
	}
	if res.StructuralLabel != "" {
		row(&b, "Structure", string(res.StructuralLabel))
	}
	if res.Complexity != nil {
		row(&b, "Static complexity", res.Complexity.String())
	}
	if len(res.Benchmark) > 0 {
		row(&b, "Benchmark", formatCurve(res.Benchmark))
	}
	if j := res.Judgment; j != nil {
		verdict := style(confirmedStyle, j.Verdict)
		if !j.Match {
			verdict = style(divergenceStyle, j.Verdict)
		}
		row(&b, "Verdict", fmt.Sprintf("%s (confidence %.2f)", verdict, j.Confidence))
		row(&b, "Observed", fmt.Sprintf("%s, growth %.1fx", j.Observed, j.Ratio))
	}
	if res.RuntimeSummary != "" {
		row(&b, "Runtime", res.RuntimeSummary)
	}
	if res.Explanation != "" {
		b.WriteString("\n" + style(titleStyle, "Explanation") + "\n")
		b.WriteString(res.Explanation + "\n")
	}
	if len(res.Suggestions) > 0 {
		b.WriteString("\n" + style(titleStyle, "Suggestions") + "\n")
		for i, s := range res.Suggestions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, s)
		}
	}
	if res.Provider != "" {
		b.WriteString("\n")
		row(&b, "Provider", fmt.Sprintf("%s (%d tokens)", res.Provider, res.Usage.Total()))
	}

	out := strings.TrimRight(b.String(), "\n")
	if !plain {
		out = boxStyle.Render(out)
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

func formatCurve(c complexity.BenchmarkCurve) string {
	parts := make([]string, len(c))
	for i, p := range c {
		parts[i] = fmt.Sprintf("n=%d:%gms", p.InputSize, p.TimeMs)
	}
	return strings.Join(parts, " ")
}
