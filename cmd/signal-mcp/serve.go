package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/traffic-signal-mcp/internal/logging"
	"github.com/ironsheep/traffic-signal-mcp/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the MCP protocol on stdin/stdout (default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	pipeline, err := newPipeline()
	if err != nil {
		return err
	}

	srv := server.New(
		server.WithLogger(logging.Component(logger, "server")),
		server.WithPipeline(pipeline),
		server.WithVersion(Version),
	)
	return srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout())
}
