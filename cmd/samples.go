package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/signalnine/algolens/internal/pipeline"
	"github.com/signalnine/algolens/pkg/complexity"
)

func newSamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "samples [language]",
		Short: "Print the built-in sample for a language, or list the languages",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, lang := range complexity.Languages {
					fmt.Fprintln(out, lang)
				}
				return nil
			}
			lang, ok := complexity.ParseLanguage(args[0])
			if !ok {
				return fmt.Errorf("unknown language %q", args[0])
			}
			fmt.Fprint(out, pipeline.Sample(lang))
			return nil
		},
	}
}
