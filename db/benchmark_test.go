package db

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/nickyhof/MyDB/core"
)

func setupBenchmarkEngine(b *testing.B, opts ...Option) *Engine {
	b.Helper()
	return NewEngine(NewCatalog(), core.Identity{Name: "benchmark", Email: "bench@test.com"}, opts...)
}

// BenchmarkCreateTable benchmarks compiling and registering a table
func BenchmarkCreateTable(b *testing.B) {
	engine := setupBenchmarkEngine(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		query := fmt.Sprintf("CREATE TABLE T%d (ID NUMBER(8), NAME VARCHAR(40), JOINED DATE)", i)
		if _, err := engine.Execute(query); err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
}

// BenchmarkPrepare compares repeated preparation with and without the
// statement cache
func BenchmarkPrepare(b *testing.B) {
	query := "CREATE TABLE USERS (ID NUMBER(8), NAME VARCHAR(40), JOINED DATE)"

	for _, size := range []int{0, DefaultStatementCacheSize} {
		b.Run(fmt.Sprintf("cache=%d", size), func(b *testing.B) {
			engine := setupBenchmarkEngine(b, WithStatementCache(size))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := engine.Prepare(query); err != nil {
					b.Fatalf("Prepare error: %v", err)
				}
			}
		})
	}
}

// BenchmarkCompileAll benchmarks parallel compilation of many scripts
func BenchmarkCompileAll(b *testing.B) {
	scripts := make([]Script, 100)
	for i := range scripts {
		var text strings.Builder
		for j := 0; j < 20; j++ {
			fmt.Fprintf(&text, "CREATE TABLE T%d_%d (A NUMBER(5,2), B VARCHAR(10), C DATE);\n", i, j)
		}
		scripts[i] = Script{Name: fmt.Sprintf("s%d.sql", i), Text: text.String()}
	}

	for _, concurrency := range []int{1, 0} {
		b.Run(fmt.Sprintf("concurrency=%d", concurrency), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := CompileAll(context.Background(), scripts, concurrency); err != nil {
					b.Fatalf("CompileAll error: %v", err)
				}
			}
		})
	}
}

// BenchmarkExportCatalog benchmarks writing a catalog as DDL
func BenchmarkExportCatalog(b *testing.B) {
	engine := setupBenchmarkEngine(b)
	for i := 0; i < 100; i++ {
		if _, err := engine.Execute(fmt.Sprintf("CREATE TABLE T%03d (A NUMBER(5,2), B VARCHAR(10), C DATE)", i)); err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		var out strings.Builder
		if err := ExportCatalog(&out, engine.Catalog(), DialectDuckDB); err != nil {
			b.Fatalf("Export error: %v", err)
		}
	}
}
