package db

import (
	"context"
	"runtime"

	"github.com/nickyhof/MyDB/core"
	"github.com/nickyhof/MyDB/sql"
	"golang.org/x/sync/errgroup"
)

// Script is a named piece of SQL text, typically one file.
type Script struct {
	Name string
	Text string
}

// Compiled is the outcome of compiling one statement without executing it.
type Compiled struct {
	Script string      `json:"script" yaml:"script"`
	Index  int         `json:"index" yaml:"index"`
	SQL    string      `json:"sql" yaml:"sql"`
	Type   string      `json:"type,omitempty" yaml:"type,omitempty"`
	Table  *core.Table `json:"table,omitempty" yaml:"table,omitempty"`
	Error  string      `json:"error,omitempty" yaml:"error,omitempty"`
}

func (compiled Compiled) OK() bool {
	return compiled.Error == ""
}

// Compile compiles each statement of script independently.
func Compile(script Script) []Compiled {
	statements := SplitStatements(script.Text)
	results := make([]Compiled, 0, len(statements))

	for i, statement := range statements {
		compiled := Compiled{Script: script.Name, Index: i + 1, SQL: statement}

		prepared, err := sql.Parse(statement)
		if err != nil {
			compiled.Error = err.Error()
		} else {
			compiled.Type = prepared.Type().String()
			if create, ok := prepared.(*sql.CreateTableStatement); ok {
				compiled.Table = create.Table
			}
		}
		results = append(results, compiled)
	}

	return results
}

// CompileAll compiles scripts on up to concurrency goroutines and returns the
// results in script order. Compile errors are reported per statement; only
// cancellation of ctx fails the call.
func CompileAll(ctx context.Context, scripts []Script, concurrency int) ([]Compiled, error) {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	perScript := make([][]Compiled, len(scripts))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	for i, script := range scripts {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			perScript[i] = Compile(script)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var results []Compiled
	for _, compiled := range perScript {
		results = append(results, compiled...)
	}
	return results, nil
}
