package main

import (
	"fmt"
	"os"
	"strings"

	"shoken-assist/backend/internal/agent"

	"github.com/spf13/cobra"
)

func newSetKeyCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "set-key KEY",
		Short: "Save the Gemini API key for the user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := uc.SaveAPIKey(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "APIキーを保存しました。")
			return nil
		},
	}
}

func newSamplesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "samples",
		Short: "Show or replace the stored writing samples",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored samples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			samples, err := uc.Samples(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(samples) == 0 {
				fmt.Fprintln(out, agent.SampleHeading)
				fmt.Fprintln(out, agent.SampleHint)
				return nil
			}
			for i, s := range samples {
				fmt.Fprintf(out, "[%d] %s\n", i+1, s)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set FILE",
		Short: "Replace the stored samples with the paragraphs of FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := readSamplesFile(args[0])
			if err != nil {
				return err
			}
			uc, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			saved, err := uc.SaveSamples(cmd.Context(), samples)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d件の文例を保存しました。\n", len(saved))
			return nil
		},
	})
	return cmd
}

// readSamplesFile splits a text file into samples at blank lines
func readSamplesFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read samples file: %w", err)
	}
	return splitParagraphs(string(data)), nil
}

func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var (
		samples []string
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			samples = append(samples, strings.Join(current, "\n"))
			current = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, strings.TrimRight(line, " \t"))
	}
	flush()
	return samples
}
