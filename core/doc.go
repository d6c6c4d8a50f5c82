// Package core provides the schema model shared by the parser and the engine.
//
// The package defines Identity, the data-type registry, and the Table and
// Column types produced by CREATE TABLE.
//
// # Identity
//
// Identity identifies the principal a session runs as:
//
//	identity := core.Identity{
//	    Name:  "John Doe",
//	    Email: "john@example.com",
//	}
//
// # Data Types
//
// Data types are looked up by name, case-insensitively:
//
//	dataType, ok := core.LookupDataType("varchar")
//
// Registered types:
//   - NUMBER: precision up to 10 (default 10), scale (default 0)
//   - VARCHAR: precision up to math.MaxInt (default math.MaxInt)
//   - DATE: no precision or scale
//
// # Table Definition
//
//	table := core.NewTable("USERS")
//	id := core.NewColumn("ID", core.NumberType)
//	if err := id.SetPrecision(8); err != nil {
//	    log.Fatal(err)
//	}
//	if err := table.AddColumn(id); err != nil {
//	    log.Fatal(err)
//	}
package core
