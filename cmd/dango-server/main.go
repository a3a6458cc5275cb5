package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/coby5502/dango/internal/app"
	"github.com/coby5502/dango/internal/cache"
	"github.com/coby5502/dango/internal/config"
	"github.com/coby5502/dango/internal/dictionary"
	"github.com/coby5502/dango/internal/server"
	"github.com/coby5502/dango/internal/store"
	"github.com/coby5502/dango/internal/translate"
	"github.com/coby5502/dango/internal/words"
)

var configFile string

func main() {
	var debugMode bool
	rootCmd := &cobra.Command{
		Use:           "dango-server",
		Short:         "Dango vocabulary HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug mode")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	lifecycle := app.New()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	// Storage comes up before anything that creates handles off it. This is
	// the one intentionally blocking load in the process.
	cell := store.NewStatusCell(store.Offline)
	st, err := store.Bootstrap(ctx, store.Tiers(cfg, false), cell, store.Options{
		LoadTimeout: time.Duration(cfg.Store.LoadTimeoutSeconds) * time.Second,
	})
	if err != nil {
		var fatalErr *store.FatalError
		if errors.As(err, &fatalErr) {
			return fmt.Errorf("unrecoverable storage failure: %w", fatalErr)
		}
		return fmt.Errorf("store.Bootstrap > %w", err)
	}
	lifecycle.AddShutdownHook("store", func(context.Context) error {
		return st.Close()
	})

	hasIdentity := cfg.Database.Host != ""
	var probe store.AccountProbe
	if hasIdentity {
		if st.Kind() == store.RemoteSync {
			probe = store.NewPingProbe(st.DB())
		} else {
			probe = store.NewDialProbe(store.NewMySQLBackend(cfg.Database))
		}
	}
	monitor := store.NewMonitor(cell, probe, hasIdentity)
	monitor.Retry(ctx)

	resultCache := cache.New(
		cache.WithTTL[*dictionary.Result](time.Duration(cfg.Cache.TTLDays) * 24 * time.Hour),
	)
	var translator dictionary.Translator
	if cfg.Translator.Enabled {
		client := translate.NewClient(cfg.Translator.BaseURL, cfg.Translator.RetryAttempts)
		lifecycle.AddShutdownHook("translator", func(context.Context) error {
			return client.Close()
		})
		translator = client
	}
	primary := dictionary.NewJishoProvider(dictionary.JishoConfig{
		BaseURL:    cfg.Dictionary.BaseURL,
		Timeout:    time.Duration(cfg.Dictionary.TimeoutSeconds) * time.Second,
		SourceLang: cfg.Dictionary.SourceLang,
		TargetLang: cfg.Dictionary.TargetLang,
	}, translator)
	cascade := dictionary.NewCascade(resultCache, primary, dictionary.NewOfflineProvider(resultCache))

	handler := server.NewHandler(cascade, words.NewDBRepository(st.DB()), monitor)
	mux := http.NewServeMux()
	handler.Register(mux)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: corsMiddleware(h2c.NewHandler(mux, &http2.Server{}), cfg.Server.CORS.AllowedOrigins),
	}
	lifecycle.AddShutdownHook("http server", srv.Shutdown)

	return lifecycle.Run(ctx, func(ctx context.Context) error {
		log.Printf("Starting server on %s (store %s)", srv.Addr, st.Kind())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		})),
	)
}

func corsMiddleware(next http.Handler, allowedOrigins []string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
