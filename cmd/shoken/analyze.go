package main

import (
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(c *cli) *cobra.Command {
	var samplesFile string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Learn the user's writing style from samples",
		Long: "Analyzes writing samples with Gemini and stores the resulting style profile. " +
			"With --samples the file's paragraphs replace the stored samples first; " +
			"without it the stored samples are analyzed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			uc, err := c.open(ctx)
			if err != nil {
				return err
			}

			var samples []string
			if samplesFile != "" {
				raw, err := readSamplesFile(samplesFile)
				if err != nil {
					return err
				}
				if samples, err = uc.SaveSamples(ctx, raw); err != nil {
					return err
				}
			}

			summary, err := c.agent.AnalyzeStyle(ctx, uc, samples)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		},
	}

	cmd.Flags().StringVarP(&samplesFile, "samples", "s", "", "Text file with one sample per paragraph")
	return cmd
}
