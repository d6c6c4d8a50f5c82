package db

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/nickyhof/MyDB/core"
	"github.com/nickyhof/MyDB/sql"
)

// Engine is one session against a catalog. Statements it prepares are bound
// to it, and it is the sql.Session they report.
type Engine struct {
	id       string
	identity core.Identity
	catalog  *Catalog
	cache    *statementCache
	logger   *slog.Logger
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(engine *Engine) {
		engine.logger = logger
	}
}

// WithStatementCache sets how many prepared statements the engine keeps.
// Zero disables caching.
func WithStatementCache(size int) Option {
	return func(engine *Engine) {
		engine.cache = newStatementCache(size)
	}
}

func NewEngine(catalog *Catalog, identity core.Identity, opts ...Option) *Engine {
	engine := &Engine{
		id:       uuid.NewString(),
		identity: identity,
		catalog:  catalog,
		cache:    newStatementCache(DefaultStatementCacheSize),
	}
	for _, opt := range opts {
		opt(engine)
	}
	if engine.logger == nil {
		engine.logger = slog.New(slog.DiscardHandler)
	}
	engine.logger = engine.logger.With("session", engine.id)
	return engine
}

func (engine *Engine) ID() string {
	return engine.id
}

func (engine *Engine) Identity() core.Identity {
	return engine.identity
}

func (engine *Engine) Catalog() *Catalog {
	return engine.catalog
}

// Prepare compiles query and binds the result to this engine. Successful
// compilations are cached by SQL text.
func (engine *Engine) Prepare(query string) (sql.Prepared, error) {
	if prepared, ok := engine.cache.get(query); ok {
		engine.logger.Debug("statement cache hit", "sql", query)
		return prepared, nil
	}

	prepared, err := sql.Parse(query)
	if err != nil {
		engine.logger.Debug("compile failed", "sql", query, "error", err)
		return nil, err
	}
	prepared.Bind(engine)

	engine.cache.add(query, prepared)
	return prepared, nil
}

func (engine *Engine) Execute(query string) (Result, error) {
	prepared, err := engine.Prepare(query)
	if err != nil {
		return nil, err
	}
	return engine.ExecutePrepared(prepared)
}

func (engine *Engine) ExecutePrepared(prepared sql.Prepared) (Result, error) {
	switch statement := prepared.(type) {
	case *sql.CreateTableStatement:
		return engine.executeCreateTableStatement(statement)
	case *sql.NoOperation:
		return CommitResult{Session: engine.id}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedStatement, prepared.Type())
	}
}

func (engine *Engine) executeCreateTableStatement(statement *sql.CreateTableStatement) (CommitResult, error) {
	startTime := time.Now()

	if err := engine.catalog.Create(statement.Table); err != nil {
		return CommitResult{}, err
	}

	engine.logger.Info("table created",
		"table", statement.Table.Name(),
		"columns", len(statement.Table.Columns()),
		"user", engine.identity.Name)

	return CommitResult{
		Session:          engine.id,
		TablesCreated:    1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

// Tables lists the catalog's tables with their column counts.
func (engine *Engine) Tables() QueryResult {
	startTime := time.Now()

	names := engine.catalog.Names()
	data := make([][]string, 0, len(names))
	for _, name := range names {
		table, err := engine.catalog.Get(name)
		if err != nil {
			continue
		}
		data = append(data, []string{name, strconv.Itoa(len(table.Columns()))})
	}

	return QueryResult{
		Session:          engine.id,
		Columns:          []string{"Table", "Columns"},
		Data:             data,
		RecordsRead:      len(data),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     len(data),
	}
}

// Describe lists the columns of one table.
func (engine *Engine) Describe(name string) (QueryResult, error) {
	startTime := time.Now()

	table, err := engine.catalog.Get(name)
	if err != nil {
		return QueryResult{}, err
	}

	var data [][]string
	for _, column := range table.Columns() {
		precision, scale := "", ""
		if value, ok := column.Precision(); ok {
			precision = strconv.Itoa(value)
		}
		if value, ok := column.Scale(); ok {
			scale = strconv.Itoa(value)
		}
		data = append(data, []string{column.Name(), column.DataType().Name(), precision, scale})
	}

	return QueryResult{
		Session:          engine.id,
		Columns:          []string{"Column", "Type", "Precision", "Scale"},
		Data:             data,
		RecordsRead:      len(data),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}
