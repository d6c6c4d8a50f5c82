package db

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/nickyhof/MyDB/core"
)

var (
	ErrTableExists          = errors.New("table already exists")
	ErrTableNotFound        = errors.New("table not found")
	ErrUnsupportedStatement = errors.New("unsupported statement")
)

// Catalog is the in-memory set of table definitions shared by every engine
// of an instance. Nothing is persisted.
type Catalog struct {
	mu     sync.RWMutex
	tables map[string]*core.Table
}

func NewCatalog() *Catalog {
	return &Catalog{tables: make(map[string]*core.Table)}
}

// Create registers table under its name.
func (catalog *Catalog) Create(table *core.Table) error {
	catalog.mu.Lock()
	defer catalog.mu.Unlock()

	if _, ok := catalog.tables[table.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrTableExists, table.Name())
	}
	catalog.tables[table.Name()] = table
	return nil
}

func (catalog *Catalog) Get(name string) (*core.Table, error) {
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	table, ok := catalog.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return table, nil
}

// Names returns the table names in sorted order.
func (catalog *Catalog) Names() []string {
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	names := make([]string, 0, len(catalog.tables))
	for name := range catalog.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (catalog *Catalog) Len() int {
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	return len(catalog.tables)
}
