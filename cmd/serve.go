package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/progvibe/internal/livereload"
	"github.com/ziadkadry99/progvibe/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tutorial site over HTTP",
	Long: `Starts the tutorial website. Pages are rendered on request from the
configured content source. With --watch and a local content directory, open
article tabs reload as soon as a content file changes.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "override the configured port")
	serveCmd.Flags().Bool("watch", false, "reload live sessions when the content directory changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Port = port
	}
	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		cfg.Watch = true
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	prefs, err := openPreferences(cfg)
	if err != nil {
		return err
	}
	if prefs != nil {
		defer prefs.Close()
		log.Info("theme preferences stored server-side", "db", prefs.Path())
	}

	s, err := newSite(cfg, log, prefs)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{Port: cfg.Port, AllowAll: cfg.AllowAllOrigins}, log)
	s.Mount(srv.Router(), srv.Long())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})

	if cfg.Watch {
		if cfg.UsesRemoteContent() {
			log.Warn("watch ignored: content is fetched from a remote server", "content_url", cfg.ContentURL)
		} else {
			w, err := livereload.New(cfg.ContentDir, s.Hub().ReloadAll, livereload.WithLogger(log.With("component", "watcher")))
			if err != nil {
				return fmt.Errorf("watching %s: %w", cfg.ContentDir, err)
			}
			log.Info("watching content", "dir", cfg.ContentDir)
			g.Go(func() error {
				return w.Run(gctx)
			})
		}
	}

	fmt.Fprintf(os.Stderr, "Serving %s at http://localhost:%d (press Ctrl+C to stop)\n", cfg.SiteTitle, cfg.Port)
	return g.Wait()
}
