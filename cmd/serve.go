package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	mcpserver "github.com/lukman83/boostgg-scrap/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP stdio server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := initPlatforms(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Starting BoostGG MCP server on stdio...")

	if err := mcpserver.Serve(cfg); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
	return nil
}
