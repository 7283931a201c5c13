package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"wellpull/internal/audit"
	"wellpull/internal/config"
	"wellpull/internal/dataset"
	"wellpull/internal/db"
	"wellpull/internal/jobs"
	"wellpull/internal/notifications"
	"wellpull/internal/server"
	"wellpull/internal/web"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the wellpull web server",
	Long:  `Starts the web server: workbook upload, zone filtering, pulling selection, and the assignment priority matrix.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if servePort != 0 {
			cfg.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}
		database, err := db.Open(filepath.Join(cfg.DataDir, "wellpull.db"))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		datasets := dataset.NewStore(database)
		jobStore := jobs.NewStore(database)
		audits := audit.NewStore(database)
		notifStore := notifications.NewStore(database)
		dispatcher := notifications.NewDispatcher(notifStore, cfg.WebhookURL)

		worker := jobs.NewWorker(jobStore, datasets, audits, dispatcher, cfg.SheetName, cfg.MaxConcurrency)
		defer worker.Close()

		sessions := web.NewSessionStore(database)
		frontend, err := web.New(sessions, datasets, jobStore, worker, audits, cfg.UploadDir)
		if err != nil {
			return fmt.Errorf("creating web frontend: %w", err)
		}

		srv := server.New(server.Config{Port: cfg.Port})
		frontend.RegisterRoutes(srv.Router())
		jobs.RegisterRoutes(srv.Router(), jobStore)
		audit.RegisterRoutes(srv.Router(), audits)
		notifications.RegisterRoutes(srv.Router(), notifStore)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		select {
		case err := <-errCh:
			if err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		fmt.Fprintln(os.Stderr, "shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "override the configured port")
	rootCmd.AddCommand(serveCmd)
}
