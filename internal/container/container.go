// Package container provides dependency injection for the meo-settle application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"io"

	"github.com/Kris2339/MEO-PayDay/internal/batch"
	"github.com/Kris2339/MEO-PayDay/internal/classifier"
	"github.com/Kris2339/MEO-PayDay/internal/common"
	"github.com/Kris2339/MEO-PayDay/internal/config"
	"github.com/Kris2339/MEO-PayDay/internal/logging"
	"github.com/Kris2339/MEO-PayDay/internal/market"
	"github.com/Kris2339/MEO-PayDay/internal/report"
	"github.com/Kris2339/MEO-PayDay/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	store      store.Store
	classifier classifier.Classifier
	market     *market.Manager
	processor  *batch.Processor
	reports    *report.ReportGenerator
	delimiter  rune
}

// Option customizes container construction.
type Option func(*options)

type options struct {
	logger logging.Logger
	store  store.Store
}

// WithLogger uses logger instead of building one from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithStore uses st instead of the configured backend.
func WithStore(st store.Store) Option {
	return func(o *options) { o.store = st }
}

// NewContainer creates and wires all application dependencies.
// The market list is not loaded; callers decide when to contact the store.
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Create logger first as it's needed by other components
	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	policy, err := classifier.ParsePolicy(cfg.Classification.Policy)
	if err != nil {
		return nil, err
	}
	delimiter, err := common.ParseDelimiter(cfg.CSV.Delimiter)
	if err != nil {
		return nil, err
	}

	st := o.store
	if st == nil {
		st, err = store.New(ctx, StoreOptions(cfg), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s store: %w", cfg.Store.Backend, err)
		}
	}

	cls := classifier.New(policy)

	logger.Debug("Container initialized",
		logging.Field{Key: logging.FieldBackend, Value: st.Name()},
		logging.Field{Key: logging.FieldPolicy, Value: string(policy)})

	return &Container{
		logger:     logger,
		config:     cfg,
		store:      st,
		classifier: cls,
		market:     market.NewManager(st, logger),
		processor:  batch.NewProcessor(cls, logger),
		reports:    report.NewReportGenerator(logger),
		delimiter:  delimiter,
	}, nil
}

// StoreOptions maps the configuration onto store options.
func StoreOptions(cfg *config.Config) store.Options {
	return store.Options{
		Backend:  cfg.Store.Backend,
		FilePath: cfg.Store.File.Path,
		GitHub: store.GitHubConfig{
			Token:   cfg.Store.GitHub.Token,
			Repo:    cfg.Store.GitHub.Repo,
			Path:    cfg.Store.GitHub.Path,
			Branch:  cfg.Store.GitHub.Branch,
			BaseURL: cfg.Store.GitHub.BaseURL,
		},
		GCS: store.GCSConfig{
			Bucket:   cfg.Store.GCS.Bucket,
			Object:   cfg.Store.GCS.Object,
			Endpoint: cfg.Store.GCS.Endpoint,
		},
	}
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the market list store.
func (c *Container) GetStore() store.Store {
	return c.store
}

// GetClassifier returns the configured classifier.
func (c *Container) GetClassifier() classifier.Classifier {
	return c.classifier
}

// GetMarketManager returns the session market list manager.
func (c *Container) GetMarketManager() *market.Manager {
	return c.market
}

// GetProcessor returns the batch processor.
func (c *Container) GetProcessor() *batch.Processor {
	return c.processor
}

// GetReportGenerator returns the summary renderer.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.reports
}

// GetCSVDelimiter returns the parsed CSV delimiter.
func (c *Container) GetCSVDelimiter() rune {
	return c.delimiter
}

// Close releases store resources.
func (c *Container) Close() error {
	if closer, ok := c.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("failed to close store: %w", err)
		}
	}
	c.logger.Debug("Container closed")
	return nil
}
