package db

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/nickyhof/MyDB/core"
)

// Dialect selects the SQL flavour ExportDDL writes.
type Dialect string

const (
	DialectMyDB   Dialect = "mydb"
	DialectDuckDB Dialect = "duckdb"
)

func ParseDialect(name string) (Dialect, error) {
	switch dialect := Dialect(strings.ToLower(name)); dialect {
	case DialectMyDB, DialectDuckDB:
		return dialect, nil
	default:
		return "", fmt.Errorf("unknown dialect %q (expected mydb or duckdb)", name)
	}
}

// ExportDDL renders a CREATE TABLE statement for table. The mydb dialect
// compiles back to an equal table.
func ExportDDL(table *core.Table, dialect Dialect) (string, error) {
	columns := table.Columns()

	if dialect == DialectDuckDB && len(columns) == 0 {
		return "", fmt.Errorf("table %s: duckdb tables need at least one column", table.Name())
	}

	var builder strings.Builder
	builder.WriteString("CREATE TABLE ")
	builder.WriteString(quoteName(table.Name(), dialect))

	if len(columns) == 0 {
		builder.WriteString(";\n")
		return builder.String(), nil
	}

	builder.WriteString(" (\n")
	for i, column := range columns {
		columnType, err := exportType(column, dialect)
		if err != nil {
			return "", fmt.Errorf("table %s: %w", table.Name(), err)
		}

		builder.WriteString("    ")
		builder.WriteString(quoteName(column.Name(), dialect))
		builder.WriteString(" ")
		builder.WriteString(columnType)
		if i < len(columns)-1 {
			builder.WriteString(",")
		}
		builder.WriteString("\n")
	}
	builder.WriteString(");\n")

	return builder.String(), nil
}

// ExportCatalog writes the DDL of every table, in name order, to w.
func ExportCatalog(w io.Writer, catalog *Catalog, dialect Dialect) error {
	for _, name := range catalog.Names() {
		table, err := catalog.Get(name)
		if err != nil {
			return err
		}
		ddl, err := ExportDDL(table, dialect)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, ddl); err != nil {
			return err
		}
	}
	return nil
}

func quoteName(name string, dialect Dialect) string {
	if dialect == DialectDuckDB {
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
	return name
}

func exportType(column *core.Column, dialect Dialect) (string, error) {
	dataType := column.DataType()
	precision, hasPrecision := column.Precision()
	scale, hasScale := column.Scale()

	switch dataType {
	case core.NumberType:
		if dialect == DialectMyDB {
			return fmt.Sprintf("NUMBER(%d,%d)", precision, scale), nil
		}
		if precision < 1 {
			return "", fmt.Errorf("column %s: %s has no DECIMAL equivalent", column.Name(), column.TypeString())
		}
		return fmt.Sprintf("DECIMAL(%d,%d)", precision, scale), nil

	case core.VarcharType:
		if !hasPrecision || precision == math.MaxInt {
			return "VARCHAR", nil
		}
		return fmt.Sprintf("VARCHAR(%d)", precision), nil

	case core.DateType:
		return "DATE", nil

	default:
		if hasPrecision || hasScale {
			return column.TypeString(), nil
		}
		return dataType.Name(), nil
	}
}
