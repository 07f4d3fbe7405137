package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"sitescope/browser"
	"sitescope/config"
	"sitescope/services"
	"sitescope/source"
	"sitescope/storage"
	"sitescope/utils"
	"sitescope/web"
)

func serveAction(c *cli.Context, cfg *config.Config, logger *utils.Logger) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.ListenAddr
	if c.IsSet("addr") {
		addr = c.String("addr")
	}

	logger.Info("=== SiteScope starting ===")
	logger.Info("Config: source=%s | sessions=%s | submit delay=%v | locale=%s",
		cfg.DataSource, cfg.SessionBackend, cfg.SubmitDelay, cfg.Locale)

	sessions, err := newSessionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer sessions.Close()

	srv, err := web.NewServer(web.Options{
		Sessions:      sessions,
		Results:       newResultsService(cfg, logger),
		Sources:       newSources(cfg, logger),
		DefaultSource: cfg.DataSource,
		SubmitDelay:   cfg.SubmitDelay,
		CookieName:    cfg.SessionCookie,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	return srv.ListenAndServe(ctx, addr)
}

func reportAction(c *cli.Context, cfg *config.Config, logger *utils.Logger) error {
	src, err := pickSource(newSources(cfg, logger), c.String("source"))
	if err != nil {
		return err
	}

	results := newResultsService(cfg, logger)
	page := results.Load(c.Context, src)
	results.Aggregator().Print(os.Stdout, c.String("name"), page)

	if page.Error != "" {
		return cli.Exit(page.Error, 1)
	}

	if c.Bool("csv") {
		w, err := storage.NewCSVWriter(cfg.CSVOutputPath)
		if err != nil {
			return err
		}
		defer w.Close()
		if err := w.WriteRows(page.Rows); err != nil {
			return err
		}
		logger.Info("Exported %d rows to %s", len(page.Rows), cfg.CSVOutputPath)
	}
	return nil
}

func snapshotAction(c *cli.Context, cfg *config.Config, logger *utils.Logger) error {
	timeout := c.Duration("timeout")
	if timeout <= 0 {
		timeout = 60*time.Second + cfg.SubmitDelay
	}

	s := browser.New(cfg.ChromeBin, timeout, logger)
	return s.Capture(c.Context, browser.Request{
		BaseURL:            c.String("url"),
		ContractorName:     c.String("name"),
		CompanyDescription: c.String("description"),
		Source:             c.String("source"),
		OutputPath:         c.String("out"),
	})
}

func newResultsService(cfg *config.Config, logger *utils.Logger) *services.ResultsService {
	currency := services.NewCurrencyFormatter(cfg.Locale)
	return services.NewResultsService(
		services.NewTransformer(logger, currency),
		services.NewAggregator(logger, currency),
		logger,
	)
}

func newSources(cfg *config.Config, logger *utils.Logger) []source.RFPSource {
	return []source.RFPSource{
		source.NewLiveSource(cfg.RFPEndpoint, cfg.HTTPTimeout, logger),
		source.NewFixtureSource(),
	}
}

func pickSource(sources []source.RFPSource, name string) (source.RFPSource, error) {
	for _, src := range sources {
		if src.Name() == name {
			return src, nil
		}
	}
	return nil, fmt.Errorf("unknown source %q (want %s or %s)", name, source.Live, source.Fixture)
}

func newSessionStore(ctx context.Context, cfg *config.Config, logger *utils.Logger) (storage.SessionStore, error) {
	retry := &utils.RetryConfig{
		MaxAttempts: cfg.ConnectRetries,
		BaseDelay:   2 * time.Second,
		Logger:      logger,
	}

	switch cfg.SessionBackend {
	case "memory":
		return storage.NewMemoryStore(cfg.SessionTTL), nil
	case "redis":
		store, err := storage.NewRedisStore(ctx, storage.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.SessionTTL,
		}, retry)
		if err != nil {
			logger.Error("Failed to connect to Redis at %s", cfg.RedisAddr)
			return nil, err
		}
		return store, nil
	case "postgres":
		store, err := storage.NewPostgresStore(ctx, cfg.DSN(), cfg.SessionTTL, retry)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL at %s:%s", cfg.PostgresHost, cfg.PostgresPort)
			return nil, err
		}
		if n, err := store.PurgeExpired(ctx); err != nil {
			logger.Warn("Could not purge expired sessions: %v", err)
		} else if n > 0 {
			logger.Info("Purged %d expired session values", n)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown SESSION_BACKEND %q (want memory, redis or postgres)", cfg.SessionBackend)
	}
}
