package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/ppiankov/claimmark/internal/cache"
	"github.com/ppiankov/claimmark/internal/claims"
	"github.com/ppiankov/claimmark/internal/extract/adapters"
	"github.com/ppiankov/claimmark/internal/model"
	"github.com/ppiankov/claimmark/internal/pipeline"
	"github.com/ppiankov/claimmark/internal/util"
)

// app bundles the configuration and collaborators shared by commands
type app struct {
	cfg      model.Config
	log      *logrus.Logger
	store    *claims.Store
	registry *adapters.Registry
}

// newApp loads configuration, sets up logging and loads every --claims file
func newApp() (*app, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}

	log, err := util.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}

	// 1. Claim store with built-in and configured extractors
	store := claims.NewStore(log)
	registry := adapters.NewRegistry()
	if err := registry.RegisterConfig(cfg.Extractors); err != nil {
		return nil, fmt.Errorf("configure extractors: %w", err)
	}
	registry.Install(store)

	a := &app{cfg: cfg, log: log, store: store, registry: registry}

	// 2. Claims files
	sub := store.Subscribe(len(claimFiles) + 1)
	defer sub.Close()

	for _, path := range claimFiles {
		if err := a.loadClaims(path); err != nil {
			return nil, err
		}
	}

	if cfg.Output.Verbose {
		a.reportLoaded(sub)
	}

	return a, nil
}

func (a *app) loadClaims(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open claims: %w", err)
	}
	defer func() { _ = f.Close() }()

	n, err := a.store.LoadJSON(f)
	if err != nil {
		return fmt.Errorf("load claims %s: %w", path, err)
	}
	a.log.WithFields(logrus.Fields{"path": path, "count": n}).Info("loaded claims file")
	return nil
}

// reportLoaded prints one line per registration event already delivered
func (a *app) reportLoaded(sub *claims.Subscription) {
	for {
		select {
		case ev := <-sub.C:
			fmt.Fprintf(os.Stderr, "✓ Registered %d claims (revision %d)\n", len(ev.IDs), ev.Revision)
		default:
			fmt.Fprintf(os.Stderr, "✓ %d claims available\n", a.store.Len())
			return
		}
	}
}

// pipeline builds the annotation pipeline with the configured cache
func (a *app) pipeline() (*pipeline.Pipeline, error) {
	c, err := cache.New(a.cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return pipeline.NewPipeline(&a.cfg, a.store, c, a.log), nil
}

func (a *app) loader() *pipeline.Loader {
	return pipeline.NewLoader(a.cfg.Input.MaxBytes)
}

func (a *app) renderer() *pipeline.Renderer {
	return pipeline.NewRenderer(a.cfg.Output.IncludeFooter, a.cfg.Output.Color && !color.NoColor)
}
