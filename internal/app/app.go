package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ShoppingAssistant/internal/catalog"
	"ShoppingAssistant/internal/config"
	"ShoppingAssistant/internal/domain"
	"ShoppingAssistant/internal/engine"
	"ShoppingAssistant/internal/infrastructure/cache"
	"ShoppingAssistant/internal/infrastructure/filecatalog"
	"ShoppingAssistant/internal/infrastructure/llm"
	"ShoppingAssistant/internal/infrastructure/ml"
	"ShoppingAssistant/internal/infrastructure/parser"
	"ShoppingAssistant/internal/infrastructure/scheduler"
	"ShoppingAssistant/internal/infrastructure/storage"
	"ShoppingAssistant/internal/infrastructure/telegram"
	"ShoppingAssistant/internal/logging"
	"ShoppingAssistant/internal/metrics"
	"ShoppingAssistant/internal/ports"
	"ShoppingAssistant/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	pipeline  *usecase.Pipeline
	snapshot  *catalog.Snapshot
	refresher *usecase.Scheduler
	metrics   *metrics.Recorder
	postgres  *storage.PostgresCatalog
	analyzer  ports.NutritionAnalyzer
	closers   []func() error
}

// New builds a runnable application instance. Optional backends (Postgres,
// Redis, ChatGPT) are wired only when configured.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	a := &Application{cfg: cfg, logger: baseLogger.With("component", "app")}

	registry := catalog.NewRegistry()
	registry.Register(filecatalog.Loader{})
	registry.Register(parser.NewStorefrontLoader(nil, baseLogger))

	if dsn := strings.TrimSpace(cfg.Database.DSN); dsn != "" {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		a.postgres = storage.NewPostgresCatalog(db)
		registry.Register(a.postgres)
	}

	var (
		snapshots ports.SnapshotCache
		lists     ports.ListStore
	)
	if addr := strings.TrimSpace(cfg.Redis.Addr); addr != "" {
		client := cache.NewClient(cfg.Redis)
		a.closers = append(a.closers, client.Close)
		store := cache.NewRedisStore(client, cfg.Redis.KeyPrefix, cfg.Redis.SnapshotTTL)
		snapshots, lists = store, store
	}

	var phraser ports.Phraser
	if cfg.ChatGPT.APIKey != "" {
		phraser = llm.NewChatGPTClient(cfg.ChatGPT)
	}

	var publisher ports.Publisher
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		publisher = telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	}

	if cfg.Nutrition.Endpoint != "" {
		a.analyzer = ml.NewClient(cfg.Nutrition.Endpoint, cfg.Nutrition.APIKey)
	}

	source := catalog.NewSource(registry, cfg.Catalog.Stores, baseLogger)
	a.snapshot = catalog.NewSnapshot(source, snapshots, baseLogger)
	a.metrics = metrics.New(cfg.Metrics.Prefix)

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Catalog: a.snapshot,
		Engine: engine.New(baseLogger, engine.Options{
			BudgetMode:  cfg.Engine.BudgetMode,
			Currency:    cfg.Engine.Currency,
			RankedLimit: cfg.Engine.RankedLimit,
		}),
		Phraser:   phraser,
		Lists:     lists,
		Publisher: publisher,
		Metrics:   a.metrics,
		ShareTTL:  cfg.Redis.ShareTTL,
		Logger:    baseLogger,
	})

	a.refresher = usecase.NewScheduler(
		scheduler.NewIntervalScheduler(cfg.Catalog.RefreshInterval),
		a.snapshot,
		a.metrics,
		baseLogger,
	)

	a.logger.Info("application ready",
		"stores", cfg.Catalog.String(),
		"postgres", a.postgres != nil,
		"redis", lists != nil,
		"polish", phraser != nil,
		"telegram", publisher != nil,
		"nutrition", a.analyzer != nil,
		"budget_mode", cfg.Engine.BudgetMode,
	)
	return a, nil
}

// Pipeline exposes the query use case.
func (a *Application) Pipeline() *usecase.Pipeline {
	return a.pipeline
}

// Metrics exposes the Prometheus recorder.
func (a *Application) Metrics() *metrics.Recorder {
	return a.metrics
}

// Start launches the periodic catalog refresh. One-shot runs can skip it:
// the catalog also loads lazily on the first query.
func (a *Application) Start(ctx context.Context) error {
	return a.refresher.Start(ctx)
}

// ImportCatalog copies a JSON/YAML catalog file into the Postgres table,
// tagging rows without a store name with store. Rows without nutrition
// are enriched first when a nutrition service is configured.
func (a *Application) ImportCatalog(ctx context.Context, path, store, table string) (int, error) {
	if a.postgres == nil {
		return 0, fmt.Errorf("import catalog: database dsn is not configured")
	}

	products, err := filecatalog.Loader{}.Load(ctx, catalog.Request{Store: store, Location: path})
	if err != nil {
		return 0, fmt.Errorf("import catalog: %w", err)
	}

	valid := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p, ok := catalog.Prepare(store, p); ok {
			valid = append(valid, p)
		}
	}

	if n := catalog.Enrich(ctx, a.analyzer, valid, a.cfg.Nutrition.Workers, a.logger); n > 0 {
		a.logger.Info("nutrition enriched", "products", n)
	}

	if err := a.postgres.EnsureSchema(ctx, table); err != nil {
		return 0, fmt.Errorf("import catalog: %w", err)
	}
	if err := a.postgres.Upsert(ctx, table, valid); err != nil {
		return 0, fmt.Errorf("import catalog: %w", err)
	}
	a.logger.Info("catalog imported", "path", path, "table", table, "products", len(valid))
	return len(valid), nil
}

// Close stops background work and releases connections.
func (a *Application) Close(ctx context.Context) error {
	errs := []error{a.refresher.Stop(ctx)}
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}
