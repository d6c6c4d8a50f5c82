package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nickyhof/MyDB/core"
	"github.com/nickyhof/MyDB/db"
	"github.com/nickyhof/MyDB/protocol"
)

// maxBodySize caps the SQL accepted in one HTTP request.
const maxBodySize = 1 << 20

type contextKey string

const identityKey contextKey = "identity"

// requestLogFormatter sends chi access logs to the server's slog logger.
type requestLogFormatter struct {
	logger *slog.Logger
}

func (f *requestLogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &requestLogEntry{
		logger: f.logger.With(
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		),
	}
}

type requestLogEntry struct {
	logger *slog.Logger
}

func (e *requestLogEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ interface{}) {
	e.logger.Info("http request", "status", status, "bytes", bytes, "elapsed", elapsed)
}

func (e *requestLogEntry) Panic(v interface{}, stack []byte) {
	e.logger.Error("http handler panic", "panic", v, "stack", string(stack))
}

// HTTPHandler returns the HTTP API. When auth is enabled every /api request
// needs an "Authorization: Bearer <jwt>" header.
func (s *Server) HTTPHandler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RequestLogger(&requestLogFormatter{logger: s.logger}),
		middleware.Recoverer,
	)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authenticate)
		r.Post("/compile", s.handleCompile)
		r.Post("/execute", s.handleExecute)
		r.Get("/tables", s.handleTables)
		r.Get("/tables/{name}", s.handleDescribe)
	})

	return r
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := s.identity

		if s.authRequired() {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeJSON(w, http.StatusUnauthorized, protocol.Error("authentication required"))
				return
			}
			result := validateJWT(s.authConfig, token)
			if result.err != nil {
				writeJSON(w, http.StatusUnauthorized, protocol.Error(result.err.Error()))
				return
			}
			identity = result.identity
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// engine starts a session for the request's identity.
func (s *Server) engine(r *http.Request) *db.Engine {
	identity, ok := r.Context().Value(identityKey).(core.Identity)
	if !ok {
		identity = s.identity
	}
	return s.instance.Engine(identity)
}

// readQuery accepts either a JSON {"query": "..."} body or raw SQL text.
func readQuery(r *http.Request) (string, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return "", err
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		req, err := protocol.DecodeRequest(body)
		if err != nil {
			return "", errors.New("invalid JSON request")
		}
		return req.Query, nil
	}
	return string(body), nil
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	query, err := readQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, protocol.Error(err.Error()))
		return
	}

	compiled := db.Compile(db.Script{Name: "request", Text: query})
	writeJSON(w, http.StatusOK, protocol.FromCompiled(compiled))
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	query, err := readQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, protocol.Error(err.Error()))
		return
	}

	engine := s.engine(r)
	statements := db.SplitStatements(query)
	if len(statements) > 1 {
		report, err := engine.ExecuteScript(strings.NewReader(query))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, protocol.Error(err.Error()))
			return
		}
		status := http.StatusOK
		if report.Failed > 0 {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, protocol.FromReport(report))
		return
	}

	result, err := engine.Execute(query)
	if err != nil {
		writeJSON(w, statusFor(err), protocol.Error(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, protocol.FromResult(result, nil))
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, protocol.FromResult(s.engine(r).Tables(), nil))
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	name := strings.ToUpper(chi.URLParam(r, "name"))

	result, err := s.engine(r).Describe(name)
	if errors.Is(err, db.ErrTableNotFound) {
		writeJSON(w, http.StatusNotFound, protocol.Error(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, protocol.FromResult(result, err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, db.ErrTableExists):
		return http.StatusConflict
	case errors.Is(err, db.ErrUnsupportedStatement):
		return http.StatusNotImplemented
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
