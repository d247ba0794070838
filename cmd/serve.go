package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/directory-cli/internal/config"
	"github.com/sells-group/directory-cli/internal/export"
	"github.com/sells-group/directory-cli/internal/fetcher"
	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/pipeline"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve discover and build over a JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(cfg),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newRouter builds the API. Every request gets its own run and page cache,
// but all runs pass one politeness gate so concurrent requests never raise
// the outbound request rate.
func newRouter(c *config.Config) http.Handler {
	gate := fetcher.NewGate(c.Fetch.PolitenessDelay)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: c.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		if n := c.Server.MaxRequestsPerMinute; n > 0 {
			r.Use(throttle(rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)))
		}
		r.Post("/discover", handleDiscover(c, gate))
		r.Post("/build", handleBuild(c, gate))
	})
	return r
}

// newRun starts a run whose fetcher waits on the shared gate.
func newRun(c *config.Config, gate *fetcher.Gate) (*pipeline.Run, error) {
	opts := pipeline.FetchOptions(c.Fetch)
	opts.Gate = gate
	return pipeline.NewRun(c, fetcher.New(opts))
}

// throttle rejects API calls beyond the limiter's budget with 429.
func throttle(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type discoverRequest struct {
	Seeds []string `json:"seeds"`
}

func handleDiscover(c *config.Config, gate *fetcher.Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req discoverRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		seeds, seedErrs, err := pipeline.ReadSeeds(strings.NewReader(strings.Join(req.Seeds, "\n")))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid seeds")
			return
		}
		if len(seeds) == 0 {
			writeError(w, http.StatusBadRequest, "no valid seed URLs given")
			return
		}

		run, err := newRun(c, gate)
		if err != nil {
			zap.L().Error("serve: init run", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "cannot start run")
			return
		}
		writeJSON(w, http.StatusOK, discoverTargets(r.Context(), run, seeds, seedErrs))
	}
}

func handleBuild(c *config.Config, gate *fetcher.Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var list model.TargetList
		if err := json.NewDecoder(r.Body).Decode(&list); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(list.Included(0)) == 0 {
			writeError(w, http.StatusBadRequest, "no included targets")
			return
		}
		schemaName := c.Export.Schema
		if s := r.URL.Query().Get("schema"); s != "" {
			schemaName = s
		}
		schema, err := export.ParseSchema(schemaName)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		run, err := newRun(c, gate)
		if err != nil {
			zap.L().Error("serve: init run", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "cannot start run")
			return
		}
		result := run.Build(r.Context(), list.Targets)
		withDiscoverErrors(result, list.Errors)

		if err := saveRun(r.Context(), c.Store, result); err != nil {
			zap.L().Error("serve: save run", zap.String("run_id", result.RunID), zap.Error(err))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := export.Write(w, export.FormatJSON, schema, result); err != nil {
			zap.L().Error("serve: write result", zap.Error(err))
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("serve: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
