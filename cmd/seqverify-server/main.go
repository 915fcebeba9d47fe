// Command seqverify-server provides a REST API for sequencing read import
// and verification.
//
// Usage:
//
//	seqverify-server [options]
//
// Options:
//
//	--port      Port to listen on (default: 8080)
//	--host      Host to bind to (default: localhost)
//	--config    Settings file (YAML or JSON)
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/robertftenbosch/tenbio/api/handlers"
	"github.com/robertftenbosch/tenbio/api/middleware"
	"github.com/robertftenbosch/tenbio/internal/config"
	"github.com/robertftenbosch/tenbio/pkg/seqverify"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:          "seqverify-server",
		Short:        "REST API for sequencing read verification",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd.Flags(), configFile)
			if err != nil {
				return err
			}
			return serve(c)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "settings file (YAML or JSON)")
	cmd.Flags().String("host", "localhost", "Host to bind to")
	cmd.Flags().Int("port", 8080, "Port to listen on")
	cmd.Flags().Int64("max-upload", 50<<20, "Largest accepted upload in bytes")

	return cmd
}

// loadConfig merges defaults, the settings file, environment and flags.
func loadConfig(flags *pflag.FlagSet, configFile string) (*config.Config, error) {
	v, err := config.New(configFile)
	if err != nil {
		return nil, err
	}
	err = config.BindFlags(v, flags, map[string]string{
		"server.host":         "host",
		"server.port":         "port",
		"limits.upload-bytes": "max-upload",
	})
	if err != nil {
		return nil, err
	}
	return config.Load(v)
}

// newRouter wires middleware and routes.
func newRouter(c *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(c.Server.RequestTimeout))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(seqverify.Version()))
	})

	// API routes
	r.Route("/api/v1", handlers.New(c.Importer()).Routes)

	return r
}

func serve(c *config.Config) error {
	addr := c.Server.Addr()
	server := &http.Server{
		Addr:         addr,
		Handler:      newRouter(c),
		ReadTimeout:  c.Server.ReadTimeout,
		WriteTimeout: c.Server.WriteTimeout,
		IdleTimeout:  c.Server.IdleTimeout,
	}

	// Graceful shutdown
	done := make(chan struct{})
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), c.Server.ShutdownTimeout)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Could not gracefully shutdown: %v\n", err)
		}
		close(done)
	}()

	log.Printf("seqverify API server starting on http://%s\n", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not listen on %s: %w", addr, err)
	}

	<-done
	log.Println("Server stopped")
	return nil
}
