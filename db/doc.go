// Package db runs compiled statements against an in-memory catalog.
//
// An Engine is one session. It compiles SQL with the sql package, binds the
// resulting statements to itself and keeps recent compilations in an LRU
// cache. Engines created from the same Catalog see each other's tables.
//
// # Engine Usage
//
//	catalog := db.NewCatalog()
//	engine := db.NewEngine(catalog, core.Identity{Name: "alice"})
//	result, err := engine.Execute("CREATE TABLE users (id NUMBER, name VARCHAR(40))")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result.Display()
//
// # Result Types
//
// There are two result types:
//   - QueryResult: returned by Tables and Describe
//   - CommitResult: returned by CREATE TABLE and empty statements
//
// # Scripts
//
// SplitStatements, Engine.ExecuteScript and CompileAll work on whole files.
// OpenSource and OpenSink reach local files, HTTP and S3, and LoadGitScripts
// reads every .sql file of a git repository. ExportDDL writes tables back
// out as mydb or duckdb DDL.
package db
