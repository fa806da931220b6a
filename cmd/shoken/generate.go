package main

import (
	"fmt"
	"os"
	"strings"

	"shoken-assist/backend/internal/model"

	"github.com/spf13/cobra"
)

func newGenerateCmd(c *cli) *cobra.Command {
	var (
		memos    []string
		memoFile string
		goal     string
		grade    string
		chars    int
		sheet    string
		cell     string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Draft a remark from observation memos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			lines := append([]string(nil), memos...)
			if memoFile != "" {
				data, err := os.ReadFile(memoFile)
				if err != nil {
					return fmt.Errorf("failed to read memo file: %w", err)
				}
				lines = append(lines, strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")...)
			}

			req := model.RemarkRequest{
				MemoLines:  lines,
				GoalCode:   model.ParseGoalCode(goal),
				GradeLevel: model.ParseGradeLevel(grade),
			}
			if chars > 0 {
				req.CharCount = &chars
			}
			if cell != "" {
				req.Destination = &model.Destination{Sheet: sheet, Cell: cell}
			}

			uc, err := c.open(ctx)
			if err != nil {
				return err
			}
			remark, err := c.agent.GenerateRemark(ctx, uc, req)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), remark)
			}
			fmt.Fprintln(cmd.OutOrStdout(), remark.Text)
			for _, w := range remark.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&memos, "memo", "m", nil, "Observation memo line (repeatable)")
	cmd.Flags().StringVar(&memoFile, "memo-file", "", "File with one memo per line")
	cmd.Flags().StringVarP(&goal, "goal", "g", "", "Goal code: A (growth), B (reassurance), C (next steps)")
	cmd.Flags().StringVar(&grade, "grade", "", "Grade level, e.g. elementary_3, middle_school")
	cmd.Flags().IntVar(&chars, "chars", 0, "Target length in characters")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Destination sheet name echoed in --json output")
	cmd.Flags().StringVar(&cell, "cell", "", "Destination cell echoed in --json output")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	cmd.MarkFlagsOneRequired("memo", "memo-file")
	return cmd
}
