package main

import (
	"github.com/spf13/cobra"

	"github.com/dusk-indust/syntax-highlighter/internal/features"
)

func newFeaturesCmd() *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "features",
		Short: "List supported parsers, lexers and themes as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := features.Collect()
			if summary {
				return features.WriteSummary(cmd.OutOrStdout(), r)
			}
			return features.Write(cmd.OutOrStdout(), r)
		},
	}
	cmd.Flags().BoolVar(&summary, "summary", false, "print the short listing shown at startup")
	return cmd
}
