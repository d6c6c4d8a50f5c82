package db

import (
	"fmt"
	"io"
	"strings"
)

// StatementOutcome records what happened to one statement of a script.
type StatementOutcome struct {
	Index  int    `json:"index" yaml:"index"`
	SQL    string `json:"sql" yaml:"sql"`
	Result Result `json:"result,omitempty" yaml:"result,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

type ScriptReport struct {
	Statements []StatementOutcome `json:"statements" yaml:"statements"`
	Succeeded  int                `json:"succeeded" yaml:"succeeded"`
	Failed     int                `json:"failed" yaml:"failed"`
}

// ExecuteScript runs every statement read from r in order. A failing
// statement is recorded and the script continues.
func (engine *Engine) ExecuteScript(r io.Reader) (ScriptReport, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ScriptReport{}, fmt.Errorf("failed to read script: %w", err)
	}

	var report ScriptReport
	for i, statement := range SplitStatements(string(data)) {
		outcome := StatementOutcome{Index: i + 1, SQL: statement}

		result, err := engine.Execute(statement)
		if err != nil {
			outcome.Error = err.Error()
			report.Failed++
		} else {
			outcome.Result = result
			report.Succeeded++
		}
		report.Statements = append(report.Statements, outcome)
	}

	engine.logger.Debug("script executed", "succeeded", report.Succeeded, "failed", report.Failed)
	return report, nil
}

// SplitStatements splits a script on semicolons that are outside string
// literals and -- comments. Comments are dropped and blank statements are
// skipped.
func SplitStatements(content string) []string {
	content = StripComments(content)

	var statements []string
	var current strings.Builder
	inString := false

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if ch == '\'' {
			// a doubled quote inside a literal toggles twice and stays inside
			inString = !inString
		}

		if !inString && ch == ';' {
			if stmt := strings.TrimSpace(current.String()); stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
			continue
		}

		current.WriteByte(ch)
	}

	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}

	return statements
}

// StripComments removes -- comments that are outside string literals. The
// line break ending a comment is kept so the surrounding lines stay apart.
func StripComments(content string) string {
	var stripped strings.Builder
	stripped.Grow(len(content))
	inString := false

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if ch == '\'' {
			inString = !inString
		}

		if !inString && ch == '-' && i+1 < len(content) && content[i+1] == '-' {
			for i < len(content) && content[i] != '\n' {
				i++
			}
			if i < len(content) {
				stripped.WriteByte('\n')
			}
			continue
		}

		stripped.WriteByte(ch)
	}

	return stripped.String()
}
