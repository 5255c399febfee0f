package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/finquery/internal/db"
	"github.com/ziadkadry99/finquery/internal/engine"
	"github.com/ziadkadry99/finquery/internal/querylog"
	"github.com/ziadkadry99/finquery/internal/server"
	"github.com/ziadkadry99/finquery/internal/session"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the finquery HTTP server",
	Long:  `Starts the finquery server with the query API, topic news, WebSocket chat and query log endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serverPort > 0 {
			cfg.Port = serverPort
		}

		dbPath := filepath.Join(cfg.DataDir, "finquery.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		sessions := session.NewStore(cfg.HistoryCap)
		logStore := querylog.NewStore(database)

		eng, err := buildEngine(cfg, sessions, logStore)
		if err != nil {
			return err
		}

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: true,
		}, database, sessions)

		engine.RegisterRoutes(srv.Router(), eng)
		querylog.RegisterRoutes(srv.Router(), logStore)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Expire idle sessions on a fixed interval.
		go func() {
			ttl := time.Duration(cfg.SessionTTLMinutes) * time.Minute
			ticker := time.NewTicker(time.Duration(cfg.SweepIntervalMinutes) * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if removed := sessions.Sweep(ttl); removed > 0 && verbose {
						fmt.Fprintf(os.Stderr, "swept %d idle sessions\n", removed)
					}
				}
			}
		}()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "finquery server v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  AI provider: %s (%s)\n", cfg.Provider, cfg.Model)

		return srv.Start()
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serverCmd)
}
