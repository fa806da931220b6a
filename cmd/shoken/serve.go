package main

import (
	"shoken-assist/backend/internal/server"

	"github.com/spf13/cobra"
)

func newServeCmd(c *cli) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port != "" {
				c.cfg.Port = port
			}
			return server.Run(cmd.Context(), c.cfg, c.logger)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (overrides PORT)")
	return cmd
}
