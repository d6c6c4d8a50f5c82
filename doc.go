// Package MyDB provides an in-memory SQL catalog with a hand-written SQL
// front end.
//
// SQL text is classified character by character, tokenized and compiled by a
// recursive-descent parser into prepared statements. CREATE TABLE statements
// build a table model with typed columns (NUMBER, VARCHAR, DATE) and are
// registered in a catalog shared by every session of an instance.
//
// # Quick Start
//
//	instance := MyDB.Open()
//	engine := instance.Engine(core.Identity{Name: "App", Email: "app@example.com"})
//
//	engine.Execute("CREATE TABLE MY_TABLE (C1 NUMBER(5,2), C2 VARCHAR(10), C3 DATE)")
//
//	result, _ := engine.Describe("MY_TABLE")
//	result.Display()
//
// # Supported SQL
//
// MyDB compiles:
//   - CREATE TABLE with NUMBER(p[,s]), VARCHAR[(n)] and DATE columns
//   - INSERT and SELECT (recognized, not executed)
//   - empty statements
package MyDB
