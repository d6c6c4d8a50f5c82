package MyDB

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/nickyhof/MyDB/core"
	"github.com/nickyhof/MyDB/db"
	"github.com/nickyhof/MyDB/sql"
)

// TestFunc is the signature for test functions that work with any engine setup
type TestFunc func(t *testing.T, engine *db.Engine)

// runWithBothCacheModes runs a test function with and without a statement cache
func runWithBothCacheModes(t *testing.T, testFunc TestFunc) {
	t.Run("Cached", func(t *testing.T) {
		DB := Open()
		engine := DB.Engine(core.Identity{Name: "test", Email: "test@test.com"})
		testFunc(t, engine)
	})

	t.Run("Uncached", func(t *testing.T) {
		DB := Open(WithStatementCache(0))
		engine := DB.Engine(core.Identity{Name: "test", Email: "test@test.com"})
		testFunc(t, engine)
	})
}

// TestIntegrationWorkflow tests a complete catalog workflow
func TestIntegrationWorkflow(t *testing.T) {
	runWithBothCacheModes(t, func(t *testing.T, engine *db.Engine) {
		result, err := engine.Execute("CREATE TABLE MY_TABLE (C1 NUMBER(5,2), C2 VARCHAR(10), C3 DATE)")
		if err != nil {
			t.Fatalf("Failed to create table: %v", err)
		}
		if result.(db.CommitResult).TablesCreated != 1 {
			t.Error("Expected 1 table created")
		}

		_, err = engine.Execute("create table other (id number, name varchar);")
		if err != nil {
			t.Fatalf("Failed to create second table: %v", err)
		}

		tables := engine.Tables()
		if len(tables.Data) != 2 {
			t.Fatalf("Expected 2 tables, got %d", len(tables.Data))
		}
		if tables.Data[0][0] != "MY_TABLE" || tables.Data[1][0] != "OTHER" {
			t.Errorf("Unexpected table order: %v", tables.Data)
		}

		desc, err := engine.Describe("MY_TABLE")
		if err != nil {
			t.Fatalf("Failed to describe: %v", err)
		}
		expected := [][]string{
			{"C1", "NUMBER", "5", "2"},
			{"C2", "VARCHAR", "10", ""},
			{"C3", "DATE", "", ""},
		}
		if fmt.Sprint(desc.Data) != fmt.Sprint(expected) {
			t.Errorf("Expected %v, got %v", expected, desc.Data)
		}

		table, err := engine.Catalog().Get("OTHER")
		if err != nil {
			t.Fatalf("Failed to get table: %v", err)
		}
		id, _ := table.Column("ID")
		if p, ok := id.Precision(); !ok || p != 10 {
			t.Errorf("Expected default NUMBER precision 10, got %d", p)
		}
		if s, ok := id.Scale(); !ok || s != 0 {
			t.Errorf("Expected default NUMBER scale 0, got %d", s)
		}
	})
}

// TestIntegrationSharedCatalog tests that engines of one instance see each other's tables
func TestIntegrationSharedCatalog(t *testing.T) {
	DB := Open()
	alice := DB.Engine(core.Identity{Name: "alice", Email: "alice@test.com"})
	bob := DB.Engine(core.Identity{Name: "bob", Email: "bob@test.com"})

	if alice.ID() == bob.ID() {
		t.Fatal("Expected distinct session ids")
	}

	if _, err := alice.Execute("CREATE TABLE SHARED (X DATE)"); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	if _, err := bob.Describe("SHARED"); err != nil {
		t.Errorf("Expected bob to see SHARED: %v", err)
	}

	_, err := bob.Execute("CREATE TABLE SHARED (Y DATE)")
	if !errors.Is(err, db.ErrTableExists) {
		t.Errorf("Expected ErrTableExists, got %v", err)
	}

	other := Open().Engine(core.Identity{Name: "carol", Email: "carol@test.com"})
	if _, err := other.Describe("SHARED"); !errors.Is(err, db.ErrTableNotFound) {
		t.Errorf("Expected ErrTableNotFound on a separate instance, got %v", err)
	}
}

// TestIntegrationWithCatalog tests opening over an existing catalog
func TestIntegrationWithCatalog(t *testing.T) {
	catalog := db.NewCatalog()
	DB := Open(WithCatalog(catalog))
	if DB.Catalog() != catalog {
		t.Fatal("Expected instance to use the given catalog")
	}

	engine := DB.Engine(core.Identity{Name: "test", Email: "test@test.com"})
	if _, err := engine.Execute("CREATE TABLE T (A NUMBER)"); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	if catalog.Len() != 1 {
		t.Errorf("Expected 1 table in catalog, got %d", catalog.Len())
	}
}

// TestIntegrationScript tests running a multi-statement script
func TestIntegrationScript(t *testing.T) {
	runWithBothCacheModes(t, func(t *testing.T, engine *db.Engine) {
		script := `
-- schema
CREATE TABLE A (X NUMBER(3));
CREATE TABLE B (Y VARCHAR(5), Z DATE);
CREATE TABLE A (X NUMBER(3));
CREATE TABLE C (W NUMBER(11));
`
		report, err := engine.ExecuteScript(strings.NewReader(script))
		if err != nil {
			t.Fatalf("Failed to run script: %v", err)
		}
		if report.Succeeded != 2 || report.Failed != 2 {
			t.Errorf("Expected 2 succeeded and 2 failed, got %d and %d", report.Succeeded, report.Failed)
		}
		if engine.Catalog().Len() != 2 {
			t.Errorf("Expected 2 tables, got %d", engine.Catalog().Len())
		}
	})
}

// TestIntegrationErrorHandling tests compile and execution errors
func TestIntegrationErrorHandling(t *testing.T) {
	runWithBothCacheModes(t, func(t *testing.T, engine *db.Engine) {
		tests := []struct {
			query string
			want  string
		}{
			{"DROP TABLE T", "wrong syntax near Identifier(DROP)"},
			{"CREATE INDEX I", "unsupported statement: CREATE"},
			{"CREATE TABLE T (A BLOB)", "data type not supported: BLOB"},
			{"CREATE TABLE T (A NUMBER(11))", "precision 11 exceeds max value 10"},
			{"CREATE TABLE T (A DATE, A DATE)", "column name exists: A"},
			{"CREATE TABLE T (A VARCHAR('x'))", "invalid number: x"},
			{"SELECT * FROM T", "unsupported statement: SELECT"},
		}

		for _, tt := range tests {
			_, err := engine.Execute(tt.query)
			if err == nil {
				t.Errorf("%s: expected error", tt.query)
				continue
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("%s: expected error containing %q, got %q", tt.query, tt.want, err.Error())
			}
		}

		if engine.Catalog().Len() != 0 {
			t.Errorf("Expected no tables after failures, got %d", engine.Catalog().Len())
		}
	})
}

// TestIntegrationPreparedSession tests that prepared statements report their session
func TestIntegrationPreparedSession(t *testing.T) {
	DB := Open()
	engine := DB.Engine(core.Identity{Name: "test", Email: "test@test.com"})

	prepared, err := engine.Prepare("CREATE TABLE T (A DATE)")
	if err != nil {
		t.Fatalf("Failed to prepare: %v", err)
	}
	if prepared.Type() != sql.CreateTableStatementType {
		t.Errorf("Expected CREATE TABLE, got %s", prepared.Type())
	}
	if prepared.Session() != sql.Session(engine) {
		t.Error("Expected statement bound to engine")
	}
}

// TestIntegrationConcurrentEngines tests many sessions creating tables at once
func TestIntegrationConcurrentEngines(t *testing.T) {
	DB := Open()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			engine := DB.Engine(core.Identity{Name: fmt.Sprintf("user%d", i)})
			if _, err := engine.Execute(fmt.Sprintf("CREATE TABLE T%d (A NUMBER)", i)); err != nil {
				t.Errorf("Failed to create T%d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	if DB.Catalog().Len() != 20 {
		t.Errorf("Expected 20 tables, got %d", DB.Catalog().Len())
	}
}
