package main

import (
	"fmt"
	"io"
	"os"

	"shoken-assist/backend/internal/profile"

	"github.com/spf13/cobra"
)

func newProfileCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Inspect or edit the stored style profile",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the style profile as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			p, err := uc.StyleProfile(cmd.Context())
			if err != nil {
				return err
			}
			if p == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "文体プロファイルはまだありません。")
				return nil
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	})

	var exportPath string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the style profile as a key,value CSV table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			p, err := uc.StyleProfile(cmd.Context())
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("no style profile for user %q", c.userID)
			}

			var out io.Writer = cmd.OutOrStdout()
			if exportPath != "" {
				f, err := os.Create(exportPath)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", exportPath, err)
				}
				defer f.Close()
				out = f
			}
			return profile.WriteCSV(out, profile.ToTable(p))
		},
	}
	export.Flags().StringVarP(&exportPath, "out", "o", "", "Output file (default stdout)")
	cmd.AddCommand(export)

	cmd.AddCommand(&cobra.Command{
		Use:   "import FILE",
		Short: "Replace the style profile with an edited CSV table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			rows, err := profile.ReadCSV(f)
			if err != nil {
				return err
			}
			p, err := profile.FromTable(rows)
			if err != nil {
				return err
			}

			uc, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			summary, err := c.agent.ImportStyleProfile(cmd.Context(), uc, p)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Delete the style profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := uc.ResetStyleProfile(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "文体プロファイルを削除しました。")
			return nil
		},
	})
	return cmd
}
