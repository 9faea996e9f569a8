package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/progvibe/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize progvibe configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the content source, port and theme storage, and writes a .progvibe.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
