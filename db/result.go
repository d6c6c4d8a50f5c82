package db

import (
	"fmt"
	"io"
	"os"
	"strings"
)

type ResultType int

const (
	QueryResultType ResultType = iota
	CommitResultType
)

type Result interface {
	Type() ResultType
	Render(w io.Writer)
	Display()
}

type QueryResult struct {
	Session          string     `json:"session"`
	Columns          []string   `json:"columns"`
	Data             [][]string `json:"data"`
	RecordsRead      int        `json:"records_read"`
	ExecutionTimeSec float64    `json:"execution_time_sec"`
	ExecutionOps     int        `json:"execution_ops"`
}

type CommitResult struct {
	Session          string  `json:"session"`
	TablesCreated    int     `json:"tables_created"`
	ExecutionTimeSec float64 `json:"execution_time_sec"`
	ExecutionOps     int     `json:"execution_ops"`
}

func (result QueryResult) Type() ResultType {
	return QueryResultType
}

func (result CommitResult) Type() ResultType {
	return CommitResultType
}

// formatDuration formats a duration in human-readable form
func formatDuration(secs float64) string {
	if secs < 0.001 {
		return "<1ms"
	} else if secs < 1 {
		return fmt.Sprintf("%dms", int(secs*1000))
	} else if secs < 60 {
		if secs < 10 {
			return fmt.Sprintf("%.1fs", secs)
		}
		return fmt.Sprintf("%ds", int(secs))
	} else {
		mins := int(secs / 60)
		remainSecs := int(secs) % 60
		if remainSecs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm%ds", mins, remainSecs)
	}
}

func formatThroughput(secs float64, ops int) string {
	if secs <= 0 || ops <= 0 {
		return ""
	}
	perSec := float64(ops) / secs
	switch {
	case perSec >= 1000000:
		return fmt.Sprintf(", %.1fM ops/s", perSec/1000000)
	case perSec >= 1000:
		return fmt.Sprintf(", %.1fK ops/s", perSec/1000)
	default:
		return fmt.Sprintf(", %.0f ops/s", perSec)
	}
}

func (result QueryResult) ExecutionTime() string {
	return formatDuration(result.ExecutionTimeSec)
}

func (result CommitResult) ExecutionTime() string {
	return formatDuration(result.ExecutionTimeSec)
}

func (result QueryResult) Render(w io.Writer) {
	if len(result.Data) > 0 {
		data := NewTable(w)
		data.Header(result.Columns)
		data.Bulk(result.Data)
		data.Render()
	}

	_, _ = fmt.Fprintf(w, "%d rows (%s%s)\n", result.RecordsRead, result.ExecutionTime(),
		formatThroughput(result.ExecutionTimeSec, result.ExecutionOps))
}

func (result CommitResult) Render(w io.Writer) {
	var parts []string
	if result.TablesCreated > 0 {
		parts = append(parts, fmt.Sprintf("%d table(s) created", result.TablesCreated))
	}

	summary := "OK"
	if len(parts) > 0 {
		summary = strings.Join(parts, ", ")
	}
	_, _ = fmt.Fprintf(w, "%s (%s%s)\n", summary, result.ExecutionTime(),
		formatThroughput(result.ExecutionTimeSec, result.ExecutionOps))
}

func (result QueryResult) Display() {
	result.Render(os.Stdout)
}

func (result CommitResult) Display() {
	result.Render(os.Stdout)
}
