package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/formic-dev/formic/internal/formdef"
	"github.com/formic-dev/formic/pkg/extenders"
	"github.com/formic-dev/formic/pkg/form"
	"github.com/formic-dev/formic/pkg/path"
	"github.com/formic-dev/formic/pkg/upload"
)

func serveCmd() *cobra.Command {
	var (
		addr       string
		uploadsDir string
	)

	cmd := &cobra.Command{
		Use:   "serve <form.yaml>",
		Short: "Run a development endpoint for a form definition",
		Long: `Serve binds a form definition and accepts submissions over HTTP.

Endpoints:
  POST /submit   submit a JSON value tree; responds with the error tree
  POST /upload   stage a file, responds with its temp ID
  GET  /schema   the form's default value tree
  GET  /metrics  Prometheus metrics

Examples:
  formic serve signup.yaml
  formic serve signup.yaml --addr :8080`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(args[0], addr, uploadsDir)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8637", "Address to listen on")
	cmd.Flags().StringVar(&uploadsDir, "uploads", "", "Directory for staged uploads (default: temp dir)")

	return cmd
}

func runServe(file, addr, uploadsDir string) error {
	def, err := formdef.Load(file)
	if err != nil {
		return err
	}

	logger := slog.Default()
	root := def.Build()
	defaults := form.Defaults(root)

	if uploadsDir == "" {
		uploadsDir, err = os.MkdirTemp("", "formic-uploads-*")
		if err != nil {
			return err
		}
	}
	store, err := upload.NewDiskStore(uploadsDir, 10<<20)
	if err != nil {
		return err
	}

	b := form.Bind(root,
		form.WithLogger(logger),
		form.WithExtenders(
			extenders.Metrics(),
			extenders.Logging(logger),
		),
		form.WithOnSubmit(func(_ context.Context, data path.Tree, _ *form.SubmitContext) error {
			logger.Info("submission accepted", "form", def.Name, "fields", len(data))
			return nil
		}),
	)
	defer b.Destroy()

	// One binding serves every request; submissions are serialized.
	var mu sync.Mutex

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/schema", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(defaults)
	})

	r.Post("/submit", func(w http.ResponseWriter, req *http.Request) {
		var body path.Tree
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		mu.Lock()
		defer mu.Unlock()

		b.Data.Set(path.Merge(body, defaults))
		if err := b.HandleSubmit(req.Context(), nil); err != nil {
			http.Error(w, "submission failed", http.StatusBadGateway)
			return
		}

		errTree := b.Errors.Get()
		failed := path.Some(errTree, func(v any) bool {
			s, ok := v.(string)
			return ok && s != ""
		})

		w.Header().Set("Content-Type", "application/json")
		if failed {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]any{"ok": false, "errors": errTree})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	r.Method(http.MethodPost, "/upload", upload.Handler(store))
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: r}

	// Expired staged files get swept while the server runs.
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				if err := store.Cleanup(cleanupCtx, time.Hour); err != nil {
					logger.Warn("upload cleanup failed", "error", err)
				}
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving form", "form", def.Name, "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		fmt.Println()
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
