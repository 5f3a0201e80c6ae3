// Package httpapi exposes the query endpoint over HTTP.
//
// The adapter is deliberately thin: it resolves the principal from the
// forwarded identity headers, hands payloads to the core services, and
// serializes envelopes. Authentication itself happens upstream; the
// aggregator forwards the already-resolved identity.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/caselib/internal/core/domain"
	"github.com/custodia-labs/caselib/internal/core/ports/driven"
	"github.com/custodia-labs/caselib/internal/core/ports/driving"
	"github.com/custodia-labs/caselib/internal/core/services"
	"github.com/custodia-labs/caselib/internal/logger"
)

// maxQueryPayload bounds the accepted query payload size.
const maxQueryPayload = 1 << 20

// Identity headers set by the upstream aggregator.
const (
	headerUser  = "X-Caselib-User"
	headerRoles = "X-Caselib-Roles"
)

// Server hosts the HTTP endpoints.
type Server struct {
	listen    string
	queries   driving.QueryService
	policy    driving.PolicyService
	index     driven.Index
	libraries driven.LibraryStore
	limiter   *visitorLimiter
}

// NewServer creates a configured server.
func NewServer(listen string, queries driving.QueryService, policy driving.PolicyService, index driven.Index, libraries driven.LibraryStore) *Server {
	return &Server{
		listen:    listen,
		queries:   queries,
		policy:    policy,
		index:     index,
		libraries: libraries,
		limiter:   newVisitorLimiter(defaultQueryRate, defaultQueryBurst),
	}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /libraries", s.handleLibraries)
	mux.Handle("POST /libraries/{library}/query", s.limiter.middleware(http.HandlerFunc(s.handleQuery)))
	mux.HandleFunc("GET /libraries/{library}/documents/{path...}", s.handleDocument)
	mux.HandleFunc("DELETE /libraries/{library}/documents/{path...}", s.handleDelete)
	return mux
}

// Serve runs the HTTP server until the context is cancelled, then shuts
// down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	logger.Info("Listening on %s", s.listen)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLibraries(w http.ResponseWriter, r *http.Request) {
	libs, err := s.libraries.List(r.Context())
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, libs)
}

// handleQuery answers a structured query with a result envelope. The
// response status is always 200: failures travel inside the envelope as
// diagnostic preambles, so the aggregator has a single decode path.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	libraryID := r.PathValue("library")
	principal := principalFrom(r)

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxQueryPayload))
	if err != nil {
		respondJSON(w, http.StatusOK, s.queries.MalformedQuery(err, nil))
		return
	}

	q, err := domain.ParseQuery(payload)
	if err != nil {
		logger.Warn("Malformed query for %s: %v", libraryID, err)
		respondJSON(w, http.StatusOK, s.queries.MalformedQuery(err, payload))
		return
	}

	respondJSON(w, http.StatusOK, s.queries.Run(r.Context(), libraryID, q, principal))
}

// handleDocument serves a single-document browsing view: the document
// plus the principal's action affordances.
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	libraryID := r.PathValue("library")
	path := r.PathValue("path")
	principal := principalFrom(r)

	lib, err := s.libraries.Get(r.Context(), libraryID)
	if err != nil {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "unknown library: " + libraryID})
		return
	}

	doc, err := s.index.Get(r.Context(), libraryID, path)
	if err != nil {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "document not found"})
		return
	}

	if !s.policy.Evaluate(domain.ActionRead, doc, principal) {
		respondJSON(w, http.StatusForbidden, map[string]string{"error": "read not authorized"})
		return
	}

	// The stored document is shared with the index; serve a copy with
	// the alternates stripped so they never leak.
	view := doc.Clone()
	view.AlternativeTitle = ""
	view.AlternativeAbstract = ""

	logger.Info("Serving %s/%s to %q", libraryID, path, principal.Username)
	respondJSON(w, http.StatusOK, struct {
		Document    *domain.Document     `json:"document"`
		Affordances services.Affordances `json:"affordances"`
	}{
		Document:    view,
		Affordances: services.BuildAffordances(s.policy, lib, doc, principal),
	})
}

// handleDelete removes a document when the principal is an owner or
// admin. The result mirrors the ok/notok contract of the original
// function endpoint: an unauthorized or missing document is notok, not
// a distinct error shape.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	libraryID := r.PathValue("library")
	path := r.PathValue("path")
	principal := principalFrom(r)

	ok := false
	if doc, err := s.index.Get(r.Context(), libraryID, path); err == nil {
		if s.policy.Evaluate(domain.ActionDelete, doc, principal) {
			ok = s.index.Delete(r.Context(), libraryID, path) == nil
		}
	}

	status := http.StatusOK
	if !ok {
		status = http.StatusNotFound
	} else {
		logger.Info("Deleted %s/%s for %q", libraryID, path, principal.Username)
	}
	respondJSON(w, status, map[string]bool{"ok": ok})
}

// principalFrom materializes the principal from the forwarded identity
// headers. An absent user header is the anonymous principal.
func principalFrom(r *http.Request) domain.Principal {
	username := strings.TrimSpace(r.Header.Get(headerUser))
	if username == "" {
		return domain.Anonymous()
	}
	var roles []string
	for _, role := range strings.Split(r.Header.Get(headerRoles), ",") {
		if role = strings.TrimSpace(role); role != "" {
			roles = append(roles, role)
		}
	}
	return domain.Principal{Username: username, Authenticated: true, Roles: roles}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Warn("Encoding response failed: %v", err)
	}
}
