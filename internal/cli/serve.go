package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rajaldebnath/circleator/pkg/pipeline"
)

// serveCommand creates the serve command, a small HTTP front end for
// batch rendering. POST /render takes a JSON options document and
// responds with the SVG; GET /healthz reports liveness. File paths in
// the options are resolved on the server's filesystem.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve renders over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.serve(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}

func (c *CLI) serve(ctx context.Context, addr string) error {
	logger := loggerFromContext(ctx)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newServeMux(c.newRunner(), logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logger.Info("listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newServeMux builds the HTTP routes. Split from serve so tests can
// exercise the handlers without a listening socket.
func newServeMux(runner *pipeline.Runner, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	r.Post("/render", func(w http.ResponseWriter, req *http.Request) {
		job := uuid.NewString()

		var opts pipeline.Options
		if err := json.NewDecoder(req.Body).Decode(&opts); err != nil {
			http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := opts.ValidateAndSetDefaults(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		start := time.Now()
		result, err := runner.Execute(req.Context(), opts)
		if err != nil {
			logger.Error("render failed", "job", job, "err", err)
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("X-Render-Job", job)
		_, _ = w.Write(result.SVG)
		logger.Info("rendered",
			"job", job,
			"bytes", len(result.SVG),
			"duration", time.Since(start).Round(time.Millisecond))
	})

	return r
}
