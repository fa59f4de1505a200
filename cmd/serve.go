package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadtrack-cli/internal/classify"
	"github.com/sells-group/leadtrack-cli/internal/reconcile"
	"github.com/sells-group/leadtrack-cli/internal/stats"
	"github.com/sells-group/leadtrack-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the capture API server",
	Long:  "Exposes the reconciler over HTTP so browser-side capture surfaces can post candidates and read the collection.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		session, err := initSession(ctx, st)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(st, session),
			ReadHeaderTimeout: 5 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

// newRouter wires the capture endpoints. CORS stays wide open because
// the callers are browser extensions running on third-party origins.
func newRouter(st store.Store, session *reconcile.Session) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/leads", func(w http.ResponseWriter, req *http.Request) {
		leads, version, err := st.Leads(req.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, err)
			return
		}
		now := time.Now()
		for i := range leads {
			leads[i].TopLead = leads[i].TopLead || classify.IsTopLead(leads[i], now)
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"leads":   leads,
			"version": version,
		})
	})

	r.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
		leads, _, err := st.Leads(req.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, err)
			return
		}
		now := time.Now()
		for i := range leads {
			leads[i].TopLead = leads[i].TopLead || classify.IsTopLead(leads[i], now)
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"summary":  stats.Aggregate(leads, now),
			"timeline": stats.Timeline(leads, now),
		})
	})

	r.Post("/capture", func(w http.ResponseWriter, req *http.Request) {
		var cand reconcile.Candidate
		if err := json.NewDecoder(req.Body).Decode(&cand); err != nil {
			respondError(w, http.StatusBadRequest, eris.Wrap(err, "decode candidate"))
			return
		}
		res, err := session.Capture(req.Context(), cand)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err)
			return
		}
		respondJSON(w, http.StatusOK, res)
	})

	r.Post("/capture/batch", func(w http.ResponseWriter, req *http.Request) {
		var cands []reconcile.Candidate
		if err := json.NewDecoder(req.Body).Decode(&cands); err != nil {
			respondError(w, http.StatusBadRequest, eris.Wrap(err, "decode candidates"))
			return
		}
		sum, err := session.CaptureBatch(req.Context(), cands)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err)
			return
		}
		respondJSON(w, http.StatusOK, sum)
	})

	return r
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, err error) {
	zap.L().Error("request failed", zap.Error(err))
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
