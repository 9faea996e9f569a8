package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/progvibe/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "progvibe",
	Short: "Programming tutorials site: sections, tutorials and articles from a static content tree",
	Long: `progvibe serves a tutorial website from a content tree of JSON indexes
and Markdown articles, either from a local directory or from a remote static
file server. Articles are rendered with syntax highlighting and copy buttons,
readers can switch between a dark and a light theme, and the whole site can
be exported as static HTML.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
