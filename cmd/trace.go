package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/signalnine/algolens/internal/intelligence"
)

var flagInput string

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace [file]",
		Short: "Ask a provider to simulate the snippet step by step",
		Long: "Request a step-by-step execution trace of a source file, stdin (\"-\") or the built-in " +
			"sample. The code is never executed locally; the trace is the provider's simulation.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			code, lang, _, err := readSource(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			ctx, stop := withInterrupt(cmd.Context())
			defer stop()

			p := a.advisor.Provider(a.provider(flagProvider))
			tr, usage := a.advisor.Trace(ctx, p, code, flagInput, lang)
			out := cmd.OutOrStdout()
			if flagJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					intelligence.TraceResult
					Provider string             `json:"provider"`
					Usage    intelligence.Usage `json:"usage"`
				}{tr, p.ID(), usage})
			}
			if tr.Error != "" {
				return fmt.Errorf("%s", tr.Error)
			}
			writeTrace(out, tr.Steps)
			fmt.Fprintf(out, "\n%s · %d tokens · $%.4f\n", p.Name(), usage.Total(), a.pricing.UsageCost(p.ID(), usage))
			return nil
		},
	}
	cmd.Flags().StringVar(&flagInput, "input", "", "input the trace should assume, e.g. \"[1, 2, 3, 2]\"")
	cmd.Flags().StringVarP(&flagLanguage, "language", "l", "", "javascript, python or java (default: from file extension)")
	cmd.Flags().StringVarP(&flagProvider, "provider", "p", "", "intelligence provider id (default: from config)")
	cmd.Flags().BoolVar(&flagSample, "sample", false, "trace the built-in sample for --language")
	cmd.Flags().BoolVar(&flagJSON, "json", false, "print the trace as JSON")
	return cmd
}

func writeTrace(w io.Writer, steps []intelligence.TraceStep) {
	for _, s := range steps {
		fmt.Fprintf(w, "%2d. %s\n", s.Step, s.Description)
		if len(s.Variables) > 0 {
			fmt.Fprintf(w, "    vars: %s\n", joinSorted(s.Variables, func(v string) string { return v }))
		}
		if len(s.Data) > 0 {
			fmt.Fprintf(w, "    data: [%s]\n", strings.Join(s.Data, ", "))
		}
		if len(s.Pointers) > 0 {
			fmt.Fprintf(w, "    ptrs: %s\n", joinSorted(s.Pointers, func(i int) string { return fmt.Sprint(i) }))
		}
	}
}

func joinSorted[V any](m map[string]V, format func(V) string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + format(m[k])
	}
	return strings.Join(parts, " ")
}
