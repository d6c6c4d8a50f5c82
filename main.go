package MyDB

import (
	"log/slog"

	"github.com/nickyhof/MyDB/core"
	"github.com/nickyhof/MyDB/db"
)

// Instance is an open database: one catalog shared by every engine created
// from it.
type Instance struct {
	catalog   *db.Catalog
	logger    *slog.Logger
	cacheSize int
}

type Option func(*Instance)

// WithLogger sets the logger handed to every engine.
func WithLogger(logger *slog.Logger) Option {
	return func(instance *Instance) {
		instance.logger = logger
	}
}

// WithStatementCache sets the per-engine prepared statement cache size.
// Zero disables caching.
func WithStatementCache(size int) Option {
	return func(instance *Instance) {
		instance.cacheSize = size
	}
}

// WithCatalog opens the instance over an existing catalog.
func WithCatalog(catalog *db.Catalog) Option {
	return func(instance *Instance) {
		instance.catalog = catalog
	}
}

func Open(opts ...Option) *Instance {
	instance := &Instance{cacheSize: db.DefaultStatementCacheSize}
	for _, opt := range opts {
		opt(instance)
	}
	if instance.catalog == nil {
		instance.catalog = db.NewCatalog()
	}
	if instance.logger == nil {
		instance.logger = slog.New(slog.DiscardHandler)
	}
	return instance
}

func (instance *Instance) Catalog() *db.Catalog {
	return instance.catalog
}

// Engine starts a new session acting as identity.
func (instance *Instance) Engine(identity core.Identity) *db.Engine {
	return db.NewEngine(instance.catalog, identity,
		db.WithLogger(instance.logger),
		db.WithStatementCache(instance.cacheSize),
	)
}
