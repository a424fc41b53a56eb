package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sourcegraph/log"

	"github.com/dusk-indust/syntax-highlighter/internal/dispatch"
	"github.com/dusk-indust/syntax-highlighter/internal/envelope"
	"github.com/dusk-indust/syntax-highlighter/internal/highlight"
)

const mcpPrefix = "/mcp"

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleLegacy).Methods(http.MethodPost)
	r.HandleFunc("/lsif", s.handleLsif).Methods(http.MethodPost)
	r.HandleFunc("/scip", s.handleScip).Methods(http.MethodPost)
	r.HandleFunc("/symbols", s.handleSymbols).Methods(http.MethodPost)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet, http.MethodHead)
	if s.opts.MCP != nil {
		r.PathPrefix(mcpPrefix).Handler(s.opts.MCP)
	}

	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.handleNotFound)
	return r
}

func (s *Server) handleLegacy(w http.ResponseWriter, r *http.Request) {
	var q highlight.Query
	if !s.decode(w, r, &q) {
		return
	}
	writeEnvelope(w, http.StatusOK, s.dispatch.Legacy(r.Context(), q))
}

func (s *Server) handleLsif(w http.ResponseWriter, r *http.Request) {
	var q highlight.Query
	if !s.decode(w, r, &q) {
		return
	}
	writeEnvelope(w, http.StatusOK, s.dispatch.Lsif(r.Context(), q))
}

func (s *Server) handleScip(w http.ResponseWriter, r *http.Request) {
	var q highlight.ScipQuery
	if !s.decode(w, r, &q) {
		return
	}
	writeEnvelope(w, http.StatusOK, s.dispatch.Scip(r.Context(), q))
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	var req dispatch.SymbolRequest
	if !s.decode(w, r, &req) {
		return
	}
	writeEnvelope(w, http.StatusOK, s.dispatch.Symbols(r.Context(), req))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "OK")
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, http.StatusNotFound, envelope.NotFound())
}

// decode reads a JSON body into v, answering 400 itself when it cannot.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxRequestBytes)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			err = fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		case errors.Is(err, io.EOF):
			err = errors.New("request body is empty")
		default:
			err = fmt.Errorf("invalid request body: %w", err)
		}
		s.logger.Debug("rejected request body",
			log.String("request_id", RequestID(r.Context())),
			log.String("path", r.URL.Path),
			log.Error(err))
		writeEnvelope(w, http.StatusBadRequest, envelope.InvalidRequest(err))
		return false
	}
	return true
}

func writeEnvelope(w http.ResponseWriter, status int, env envelope.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}
