package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coby5502/dango/internal/cache"
	"github.com/coby5502/dango/internal/config"
	"github.com/coby5502/dango/internal/dictionary"
	"github.com/coby5502/dango/internal/store"
	"github.com/coby5502/dango/internal/translate"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// newCascade wires the lookup chain: TTL cache, Jisho network provider with
// optional translation enrichment, offline fallback.
func newCascade(cfg *config.Config) *dictionary.Cascade {
	resultCache := cache.New(
		cache.WithTTL[*dictionary.Result](time.Duration(cfg.Cache.TTLDays) * 24 * time.Hour),
	)

	var translator dictionary.Translator
	if cfg.Translator.Enabled {
		translator = translate.NewClient(cfg.Translator.BaseURL, cfg.Translator.RetryAttempts)
	}

	primary := dictionary.NewJishoProvider(dictionary.JishoConfig{
		BaseURL:    cfg.Dictionary.BaseURL,
		Timeout:    time.Duration(cfg.Dictionary.TimeoutSeconds) * time.Second,
		SourceLang: cfg.Dictionary.SourceLang,
		TargetLang: cfg.Dictionary.TargetLang,
	}, translator)
	fallback := dictionary.NewOfflineProvider(resultCache)

	return dictionary.NewCascade(resultCache, primary, fallback)
}

// openStore bootstraps the tiered store and starts the sync monitor with an
// initial probe.
func openStore(ctx context.Context, cfg *config.Config) (*store.Store, *store.Monitor, error) {
	cell := store.NewStatusCell(store.Offline)
	tiers := store.Tiers(cfg, false)

	st, err := store.Bootstrap(ctx, tiers, cell, store.Options{
		LoadTimeout: time.Duration(cfg.Store.LoadTimeoutSeconds) * time.Second,
	})
	if err != nil {
		var fatalErr *store.FatalError
		if errors.As(err, &fatalErr) {
			return nil, nil, fmt.Errorf("unrecoverable storage failure: %w", fatalErr)
		}
		return nil, nil, fmt.Errorf("store.Bootstrap > %w", err)
	}

	// Probe the remote account regardless of which tier ended up active:
	// the status answers "could we sync", not "which tier are we on".
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
	return st, monitor, nil
}
