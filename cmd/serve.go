package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/ingest"
	"github.com/sells-group/lead-intel/internal/intel"
	"github.com/sells-group/lead-intel/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the intelligence HTTP API",
	Long: `Serve the computed intelligence payload over HTTP for the listing
dashboard.

  GET  /health            liveness check
  GET  /api/intelligence  recompute from the latest stored snapshot
  POST /api/intelligence  compute for a dataset sent in the request body

The POST body carries either a raw table ("headers" plus "rows") or
pre-resolved "records" (field name to cell text). Responses always have
the uniform payload shape; dataset-level failures set meta.error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		aliases, err := loadAliases()
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: buildRouter(st, cfg.Engine, aliases),
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

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// computeRequest is the POST /api/intelligence body. Exactly one input
// form is used: records wins when both are present.
type computeRequest struct {
	Headers []string            `json:"headers"`
	Rows    [][]string          `json:"rows"`
	Records []map[string]string `json:"records"`
}

func buildRouter(st store.Store, engineCfg intel.Config, aliases ingest.Aliases) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/intelligence", func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()
			now := time.Now()

			snap, err := st.LatestSnapshot(ctx)
			if err != nil {
				zap.L().Error("serve: latest snapshot", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})
				return
			}
			if snap == nil {
				// Uniform payload shape even with nothing imported.
				writeJSON(w, http.StatusOK, intel.Empty(ingest.ErrEmptyDataset, nil, now))
				return
			}

			writeJSON(w, http.StatusOK, ingest.BuildFromLeads(snap.Leads, engineCfg, now))
		})

		r.Post("/intelligence", func(w http.ResponseWriter, req *http.Request) {
			var body computeRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}

			ctx := req.Context()
			now := time.Now()

			switch {
			case len(body.Records) > 0:
				writeJSON(w, http.StatusOK, ingest.BuildFromRecords(ctx, body.Records, engineCfg, aliases, now))
			case len(body.Headers) > 0:
				table := ingest.Table{Label: "request", Headers: body.Headers, Data: body.Rows}
				writeJSON(w, http.StatusOK, ingest.Build(ctx, table, engineCfg, aliases, now))
			default:
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "headers and rows, or records, are required"})
			}
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("serve: encode response", zap.Error(err))
	}
}
