package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/progvibe/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing tools to browse sections, tutorials and articles.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		source := cfg.ContentDir
		if cfg.UsesRemoteContent() {
			source = cfg.ContentURL
		}
		fmt.Fprintf(os.Stderr, "progvibe MCP server started on stdio (content=%s)\n", source)

		srv := mcpserver.NewServer(newLoader(cfg, log))
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
