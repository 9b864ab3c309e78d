// Package report summarizes stored analyses and renders single results.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/signalnine/algolens/internal/pricing"
	"github.com/signalnine/algolens/internal/result"
)

const (
	GroupByClass    = "class"
	GroupByProvider = "provider"
	GroupByLanguage = "language"
)

type Summary struct {
	Group          string  `json:"group"`
	Analyses       int     `json:"analyses"`
	ConfirmedRate  float64 `json:"confirmed_rate"`
	MeanConfidence float64 `json:"mean_confidence"`
	MeanTokens     float64 `json:"mean_tokens"`
	MeanCostUSD    float64 `json:"mean_cost_usd"`
}

type Options struct {
	Format  string
	GroupBy string
	// PricingPath re-prices every record from this table when set.
	PricingPath string
}

// Generate reads the records in runDir and writes a grouped summary.
func Generate(runDir string, w io.Writer, opts Options) error {
	recs, err := result.ReadRun(runDir)
	if err != nil {
		return err
	}
	if opts.PricingPath != "" {
		table, err := pricing.Load(opts.PricingPath)
		if err != nil {
			return err
		}
		enrichCosts(recs, table)
	}

	summaries, err := Aggregate(recs, opts.GroupBy)
	if err != nil {
		return err
	}

	switch opts.Format {
	case "markdown":
		return writeMarkdown(summaries, opts.GroupBy, w)
	case "json":
		return writeJSON(summaries, w)
	default:
		return writeTable(summaries, opts.GroupBy, w)
	}
}

func groupKey(rec *result.Record, by string) (string, error) {
	a := rec.Analysis
	switch by {
	case GroupByClass, "":
		if a == nil || a.Complexity == nil {
			return "unclassified", nil
		}
		return a.Complexity.String(), nil
	case GroupByProvider:
		if rec.Provider == "" {
			return "offline", nil
		}
		return rec.Provider, nil
	case GroupByLanguage:
		if a == nil {
			return "unknown", nil
		}
		return a.Language.String(), nil
	default:
		return "", fmt.Errorf("unknown grouping %q", by)
	}
}

// Aggregate groups records and computes per-group rates and means.
func Aggregate(recs []*result.Record, by string) ([]Summary, error) {
	type accum struct {
		count      int
		confirmed  int
		confidence float64
		tokens     float64
		cost       float64
	}
	groups := map[string]*accum{}

	for _, r := range recs {
		key, err := groupKey(r, by)
		if err != nil {
			return nil, err
		}
		a, ok := groups[key]
		if !ok {
			a = &accum{}
			groups[key] = a
		}
		a.count++
		a.cost += r.CostUSD
		if r.Analysis != nil {
			a.tokens += float64(r.Analysis.Usage.Total())
			if j := r.Analysis.Judgment; j != nil {
				a.confidence += j.Confidence
			}
		}
		if r.Confirmed() {
			a.confirmed++
		}
	}

	summaries := make([]Summary, 0, len(groups))
	for key, a := range groups {
		n := float64(a.count)
		summaries = append(summaries, Summary{
			Group:          key,
			Analyses:       a.count,
			ConfirmedRate:  float64(a.confirmed) / n,
			MeanConfidence: a.confidence / n,
			MeanTokens:     a.tokens / n,
			MeanCostUSD:    a.cost / n,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Group < summaries[j].Group
	})
	return summaries, nil
}

func enrichCosts(recs []*result.Record, table *pricing.Table) {
	for _, r := range recs {
		if r.Analysis == nil {
			continue
		}
		r.CostUSD = table.UsageCost(r.Provider, r.Analysis.Usage)
	}
}

func header(by string) string {
	if by == "" {
		by = GroupByClass
	}
	return by
}

func writeTable(summaries []Summary, by string, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\tANALYSES\tCONFIRMED\tMEAN CONFIDENCE\tMEAN TOKENS\tMEAN COST\n", strings.ToUpper(header(by)))
	fmt.Fprintln(tw, strings.Repeat("-", 80))
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%.0f%%\t%.2f\t%.0f\t$%.4f\n",
			s.Group, s.Analyses, s.ConfirmedRate*100, s.MeanConfidence, s.MeanTokens, s.MeanCostUSD)
	}
	return tw.Flush()
}

func writeMarkdown(summaries []Summary, by string, w io.Writer) error {
	title := header(by)
	fmt.Fprintf(w, "| %s | Analyses | Confirmed | Mean Confidence | Mean Tokens | Mean Cost |\n", strings.ToUpper(title[:1])+title[1:])
	fmt.Fprintln(w, "|---|---|---|---|---|---|")
	for _, s := range summaries {
		fmt.Fprintf(w, "| %s | %d | %.0f%% | %.2f | %.0f | $%.4f |\n",
			s.Group, s.Analyses, s.ConfirmedRate*100, s.MeanConfidence, s.MeanTokens, s.MeanCostUSD)
	}
	return nil
}

func writeJSON(summaries []Summary, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summaries)
}
