package main

import (
	"github.com/spf13/cobra"

	"github.com/JustJay7/collections-tracker/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			current.cfg.Port, _ = cmd.Flags().GetString("port")
		}

		srv := server.New(current.cfg, current.svc, current.log)

		current.log.Info("Starting collections tracker",
			"host", current.cfg.Host,
			"port", current.cfg.Port,
		)
		return srv.Run()
	},
}

func init() {
	serveCmd.Flags().String("port", "", "Override PORT")
}
