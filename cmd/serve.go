package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"ranobelib-downloader/config"
	"ranobelib-downloader/downloader/ranobelib"
	"ranobelib-downloader/server"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the downloader over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&flagListen, "listen", "l", "", "listen address, e.g. :8080")
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(config.Options{Listen: flagListen})
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:    a.cfg.Listen,
		Handler: server.New(a.service, a.store, ranobelib.SiteKey).Router(),
	}

	ctx, cancel := signalContext()
	defer cancel()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Failed to shut down server: %v", err)
		}
	}()

	log.Printf("Listening on %s", a.cfg.Listen)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
