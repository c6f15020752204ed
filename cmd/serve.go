package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"tasktrack/api"
	"tasktrack/config"
	"tasktrack/logger"
	"time"

	"github.com/spf13/cobra"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP API server the desktop shell connects to",
	Run: func(cmd *cobra.Command, args []string) {
		portToUse := servePort
		if portToUse == "" {
			portToUse = config.AppConfig.Server.Port
		}
		if portToUse == "" {
			portToUse = "8665"
		}

		apiRouter := api.NewRouter()

		mainMux := http.NewServeMux()
		mainMux.Handle("/api/", http.StripPrefix("/api", apiRouter))

		server := &http.Server{
			Addr:    "127.0.0.1:" + portToUse,
			Handler: mainMux,
		}

		go func() {
			logger.Info("Serving API on %s", server.Addr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal("Could not start server: %v", err)
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		logger.Info("Shutdown signal received, draining connections...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error: %v", err)
		}
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port for the server to listen on (overrides config/default)")
	rootCmd.AddCommand(serveCmd)
}
