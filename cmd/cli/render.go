package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/nickyhof/MyDB/db"
)

// Output formats for compile results.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

func validateFormat(format string) error {
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected table, json or yaml)", format)
	}
}

func renderCompiled(w io.Writer, compiled []db.Compiled, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(compiled)

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(compiled); err != nil {
			return err
		}
		return enc.Close()

	default:
		t := db.NewTable(w)
		t.Header([]string{"Script", "#", "Type", "Table", "Status"})
		for _, c := range compiled {
			table, status := "", "ok"
			if c.Table != nil {
				table = fmt.Sprintf("%s (%d columns)", c.Table.Name(), len(c.Table.Columns()))
			}
			if !c.OK() {
				status = c.Error
			}
			t.Row([]string{c.Script, strconv.Itoa(c.Index), c.Type, table, status})
		}
		t.Render()

		failed := countFailed(compiled)
		fmt.Fprintf(w, "%d statements, %d failed\n", len(compiled), failed)
		return nil
	}
}

func countFailed(compiled []db.Compiled) int {
	failed := 0
	for _, c := range compiled {
		if !c.OK() {
			failed++
		}
	}
	return failed
}
