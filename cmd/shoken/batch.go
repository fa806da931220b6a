package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"shoken-assist/backend/internal/agent"
	"shoken-assist/backend/internal/model"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Batch CSV columns. Only memo is required in the input.
const (
	colSheet    = "sheet"
	colCell     = "cell"
	colGoal     = "goal"
	colGrade    = "grade"
	colChars    = "chars"
	colMemo     = "memo"
	colRemark   = "remark"
	colWarnings = "warnings"
	colError    = "error"
)

func newBatchCmd(c *cli) *cobra.Command {
	var (
		inPath      string
		outPath     string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Draft remarks for every row of a CSV file",
		Long: "Reads rows with columns sheet, cell, goal, grade, chars and memo (memo lines " +
			"separated by newlines inside the cell) and writes one remark per row. " +
			"A failed row is reported in the error column and does not stop the others.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			in, err := os.Open(inPath)
			if err != nil {
				return fmt.Errorf("failed to open input: %w", err)
			}
			reqs, err := readBatchCSV(in)
			in.Close()
			if err != nil {
				return err
			}

			uc, err := c.open(ctx)
			if err != nil {
				return err
			}
			if concurrency <= 0 {
				concurrency = c.cfg.BatchConcurrency
			}
			results, runErr := c.agent.GenerateBatch(ctx, uc, reqs, concurrency)

			var out io.Writer = cmd.OutOrStdout()
			if outPath != "" && outPath != "-" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("failed to create output: %w", err)
				}
				defer f.Close()
				out = f
			}
			if err := writeBatchCSV(out, reqs, results); err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
				}
			}
			c.logger.Info("Batch written", zap.Int("rows", len(reqs)), zap.Int("failed", failed))
			if runErr != nil {
				return runErr
			}
			if failed > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d/%d rows failed\n", failed, len(reqs))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inPath, "in", "i", "", "Input CSV file (required)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output CSV file (default stdout)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Requests in flight (default from config)")
	if err := cmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	return cmd
}

// readBatchCSV parses the header-led batch input. Columns may appear in any order.
func readBatchCSV(r io.Reader) ([]model.RemarkRequest, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("batch input is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read batch header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		index[name] = i
	}
	if _, ok := index[colMemo]; !ok {
		return nil, fmt.Errorf("batch input has no %q column", colMemo)
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var reqs []model.RemarkRequest
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read batch row: %w", err)
		}

		req := model.RemarkRequest{
			MemoLines:  strings.Split(strings.ReplaceAll(field(record, colMemo), "\r\n", "\n"), "\n"),
			GoalCode:   model.ParseGoalCode(field(record, colGoal)),
			GradeLevel: model.ParseGradeLevel(field(record, colGrade)),
		}
		if v := field(record, colChars); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid chars %q", line, v)
			}
			req.CharCount = &n
		}
		if cell := field(record, colCell); cell != "" {
			req.Destination = &model.Destination{Sheet: field(record, colSheet), Cell: cell}
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func writeBatchCSV(w io.Writer, reqs []model.RemarkRequest, results []agent.BatchResult) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{colSheet, colCell, colRemark, colWarnings, colError}); err != nil {
		return err
	}
	for i, res := range results {
		var sheet, cell string
		if d := reqs[i].Destination; d != nil {
			sheet, cell = d.Sheet, d.Cell
		}
		row := []string{sheet, cell, "", "", ""}
		if res.Err != nil {
			row[4] = res.Err.Error()
		} else if res.Remark != nil {
			row[2] = res.Remark.Text
			row[3] = strings.Join(res.Remark.Warnings, "\n")
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
