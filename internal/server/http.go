package server

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"
)

const (
	apiPrefix   = "/api/"
	metricsPath = "/metrics"
)

// NewHTTPHandler returns the full request pipeline: request ID, access log,
// metrics, CORS, panic recovery and body limit around the route dispatcher.
func (s *Server) NewHTTPHandler() http.Handler {
	var h http.Handler = http.HandlerFunc(s.dispatch)
	h = BodyLimitMiddleware(s.opts.MaxRequestBytes, h)
	h = s.recoveryMiddleware(h)
	h = CORSMiddleware(h)
	h = s.metrics.middleware(s.endpointLabel, h)
	h = s.accessLogMiddleware(h)
	h = RequestIDMiddleware(h)
	return h
}

// dispatch routes API paths through the route table and everything else to
// the metrics endpoint or the static/SPA handler. Unknown API paths are 404
// and never fall back to the SPA.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Path
	if isAPIPath(p) {
		methods, ok := s.apiRoutes[p]
		if !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		handler, ok := methods[r.Method]
		if !ok && r.Method == http.MethodHead {
			handler, ok = methods[http.MethodGet]
		}
		if !ok {
			w.Header().Set("Allow", allowHeader(methods))
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		handler(w, r)
		return
	}

	if p == metricsPath {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.metricsHandler.ServeHTTP(w, r)
		return
	}

	s.serveStatic(w, r)
}

// endpointLabel bounds metric label cardinality: registered API paths are
// kept, unknown API paths collapse to "unmatched", the rest to "static".
func (s *Server) endpointLabel(r *http.Request) string {
	p := r.URL.Path
	switch {
	case isAPIPath(p):
		if _, ok := s.apiRoutes[p]; ok {
			return p
		}
		return "unmatched"
	case p == metricsPath:
		return metricsPath
	default:
		return "static"
	}
}

func isAPIPath(p string) bool {
	return p == "/api" || strings.HasPrefix(p, apiPrefix)
}

func allowHeader(methods map[string]http.HandlerFunc) string {
	allowed := []string{http.MethodOptions}
	for m := range methods {
		allowed = append(allowed, m)
		if m == http.MethodGet {
			allowed = append(allowed, http.MethodHead)
		}
	}
	slices.Sort(allowed)
	return strings.Join(allowed, ", ")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// failureResponse is the body of every rejected import or export.
type failureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// writeFailure writes {success:false, error:message}.
func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, failureResponse{Success: false, Error: message})
}
