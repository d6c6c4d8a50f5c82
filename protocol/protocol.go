// Package protocol defines the JSON envelope shared by the MyDB TCP server,
// its HTTP API and the C bindings.
package protocol

import (
	"encoding/json"

	"github.com/nickyhof/MyDB/db"
)

// Request represents a SQL query from the client.
type Request struct {
	Query string `json:"query"`
}

// Response represents the server's response to a query.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Type    string          `json:"type,omitempty"` // "query", "commit", "compile", "script" or "auth"
	Result  json.RawMessage `json:"result,omitempty"`
}

// QueryResponse contains tabular query results.
type QueryResponse struct {
	Columns     []string   `json:"columns"`
	Data        [][]string `json:"data"`
	RecordsRead int        `json:"records_read"`
	TimeMs      float64    `json:"time_ms"`
}

// CommitResponse contains mutation operation results.
type CommitResponse struct {
	TablesCreated int     `json:"tables_created,omitempty"`
	TimeMs        float64 `json:"time_ms"`
}

// AuthResponse contains the outcome of an AUTH command.
type AuthResponse struct {
	Authenticated bool   `json:"authenticated"`
	Identity      string `json:"identity,omitempty"`
	ExpiresIn     int64  `json:"expires_in,omitempty"` // seconds until the token expires
}

// CompileResponse contains the statements compiled from a script.
type CompileResponse struct {
	Statements []db.Compiled `json:"statements"`
	Failed     int           `json:"failed"`
}

// Error builds a failed response.
func Error(msg string) Response {
	return Response{Success: false, Error: msg}
}

// Success builds a successful response of the given type with payload as its
// result.
func Success(typ string, payload any) Response {
	data, err := json.Marshal(payload)
	if err != nil {
		return Error(err.Error())
	}
	return Response{Success: true, Type: typ, Result: data}
}

// FromResult converts an engine result into a response.
func FromResult(result db.Result, err error) Response {
	if err != nil {
		return Error(err.Error())
	}

	switch r := result.(type) {
	case db.QueryResult:
		return Success("query", QueryResponse{
			Columns:     r.Columns,
			Data:        r.Data,
			RecordsRead: r.RecordsRead,
			TimeMs:      r.ExecutionTimeSec * 1000,
		})
	case db.CommitResult:
		return Success("commit", CommitResponse{
			TablesCreated: r.TablesCreated,
			TimeMs:        r.ExecutionTimeSec * 1000,
		})
	default:
		return Error("unknown result type")
	}
}

// FromCompiled summarizes compiled statements into a response. The response
// is successful even when some statements failed; each carries its own error.
func FromCompiled(compiled []db.Compiled) Response {
	resp := CompileResponse{Statements: compiled}
	if resp.Statements == nil {
		resp.Statements = []db.Compiled{}
	}
	for _, c := range compiled {
		if !c.OK() {
			resp.Failed++
		}
	}
	return Success("compile", resp)
}

// FromReport converts the outcome of a script run into a response. Like
// FromCompiled it succeeds even when some statements failed.
func FromReport(report db.ScriptReport) Response {
	if report.Statements == nil {
		report.Statements = []db.StatementOutcome{}
	}
	return Success("script", report)
}

// EncodeResponse serializes a Response to JSON with a newline.
func EncodeResponse(resp Response) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// DecodeRequest parses a JSON request from a byte slice.
func DecodeRequest(data []byte) (Request, error) {
	var req Request
	err := json.Unmarshal(data, &req)
	return req, err
}
