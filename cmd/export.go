package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/progvibe/internal/progress"
	"github.com/ziadkadry99/progvibe/internal/site"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the tutorial site as static HTML",
	Long: `Renders every section, tutorial and article of the content tree into a
directory of static HTML pages that can be hosted by any file server at the
site root.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("output", "o", "public", "output directory")
	exportCmd.Flags().Int("workers", 4, "pages rendered concurrently")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	s, err := newSite(cfg, log, nil)
	if err != nil {
		return err
	}

	outputDir, _ := cmd.Flags().GetString("output")
	workers, _ := cmd.Flags().GetInt("workers")

	e := site.NewExporter(s, outputDir)
	e.Workers = workers
	e.Reporter = progress.NewReporter("Exporting pages")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	n, err := e.Export(ctx)
	if err != nil {
		return fmt.Errorf("exporting site: %w", err)
	}
	fmt.Printf("Static site exported: %s (%d pages)\n", outputDir, n)
	return nil
}
