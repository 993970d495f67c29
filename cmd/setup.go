package cmd

import (
	"context"
	"fmt"

	"license-auditor/core/config"
	"license-auditor/core/database"
	"license-auditor/core/logger"
	"license-auditor/core/storage"
	"license-auditor/feature/audit"
	"license-auditor/feature/history"
	"license-auditor/feature/report"

	"go.uber.org/zap"
)

// runtime bundles what every command needs.
type runtime struct {
	cfg     *config.Config
	log     *zap.Logger
	service *audit.Service
}

// setup loads the configuration, creates the logger and wires the audit
// service. Storage and database are optional: failures are logged and the
// corresponding stage is disabled.
func setup(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &runtime{
		cfg:     cfg,
		log:     l,
		service: audit.NewService(cfg.Audit, newPublisher(cfg, l), openHistory(ctx, cfg.Database, l), l),
	}, nil
}

func newPublisher(cfg *config.Config, l *zap.Logger) *report.Publisher {
	if !cfg.Storage.Enabled {
		return nil
	}
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		l.Warn("Optional storage client failed, artifacts will not be published", zap.Error(err))
		return nil
	}
	return report.NewPublisher(client, cfg.Storage.Bucket, cfg.Storage.Prefix, l)
}

func openHistory(ctx context.Context, cfg database.Config, l *zap.Logger) *history.Repository {
	if !cfg.Enabled {
		return nil
	}
	db, err := database.Connect(cfg)
	if err != nil {
		l.Warn("Optional database connection failed, runs will not be recorded", zap.Error(err))
		return nil
	}
	repo := history.NewRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		l.Warn("Optional database migration failed, runs will not be recorded", zap.Error(err))
		return nil
	}
	l.Debug("Connected to history database", zap.String("driver", cfg.Driver))
	return repo
}
