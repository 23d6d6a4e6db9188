package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/alfredjeanlab/confighelper/internal/idgen"
	"github.com/gorilla/handlers"
)

// HeaderRequestID carries the request identifier in both directions.
const HeaderRequestID = "X-Request-ID"

const (
	corsAllowOrigin  = "*"
	corsAllowMethods = "GET, POST, OPTIONS"
	corsAllowHeaders = "Content-Type, " + HeaderRequestID
)

type requestIDKey struct{}

// RequestIDFromContext returns the request ID stored by RequestIDMiddleware,
// or "unknown".
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return "unknown"
}

// RequestIDMiddleware echoes a client-supplied X-Request-ID verbatim, or
// generates one, and sets it on the response before anything else runs.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			var err error
			if id, err = idgen.NewRequestID(); err != nil {
				id = "req-" + strconv.FormatInt(time.Now().UnixNano(), 36)
			}
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// CORSMiddleware allows every origin on every response. OPTIONS requests are
// answered here with 200 and an empty body.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", corsAllowOrigin)
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)
		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		h.Set("Access-Control-Expose-Headers", HeaderRequestID)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sizeLimitError reports input over one of the size ceilings.
type sizeLimitError struct {
	what  string
	limit int64
}

func (e *sizeLimitError) Error() string {
	return fmt.Sprintf("%s exceeds maximum size of %s", e.what, formatSize(e.limit))
}

func formatSize(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return fmt.Sprintf("%d MB", n>>20)
	}
	return fmt.Sprintf("%d bytes", n)
}

// BodyLimitMiddleware rejects bodies larger than limit with 400 before any
// handler sees them. A declared Content-Length over the limit is rejected
// without reading; otherwise at most limit+1 bytes are read and the buffered
// body is handed on.
func BodyLimitMiddleware(limit int64, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil || r.Body == http.NoBody {
			next.ServeHTTP(w, r)
			return
		}
		tooLarge := &sizeLimitError{what: "request body", limit: limit}
		if r.ContentLength > limit {
			rejectOversized(w, r, tooLarge)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
		_ = r.Body.Close()
		if err != nil {
			writeFailure(w, http.StatusBadRequest, "failed to read request body")
			return
		}
		if int64(len(body)) > limit {
			rejectOversized(w, r, tooLarge)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		r.ContentLength = int64(len(body))
		next.ServeHTTP(w, r)
	})
}

func rejectOversized(w http.ResponseWriter, r *http.Request, err *sizeLimitError) {
	// The rest of the body is not drained; ask the client to drop the connection.
	w.Header().Set("Connection", "close")
	slog.Warn("rejected oversized request", "path", r.URL.Path, "request_id", RequestIDFromContext(r.Context()), "limit", err.limit)
	writeFailure(w, http.StatusBadRequest, err.Error())
}

// recoveryMiddleware turns a handler panic into a 500 JSON response so one
// bad request cannot take down the process.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			s.logger.Error("panic recovered in HTTP handler",
				"path", r.URL.Path,
				"request_id", RequestIDFromContext(r.Context()),
				"panic", fmt.Sprintf("%v", rec),
				"stack", string(debug.Stack()),
			)
			writeFailure(w, http.StatusInternalServerError, "internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}

// accessLogMiddleware logs one line per request through slog.
func (s *Server) accessLogMiddleware(next http.Handler) http.Handler {
	return handlers.CustomLoggingHandler(io.Discard, next, func(_ io.Writer, p handlers.LogFormatterParams) {
		level := slog.LevelInfo
		if p.StatusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.LogAttrs(p.Request.Context(), level, "http request",
			slog.String("method", p.Request.Method),
			slog.String("path", p.URL.Path),
			slog.Int("status", p.StatusCode),
			slog.Int("bytes", p.Size),
			slog.Duration("duration", time.Since(p.TimeStamp)),
			slog.String("request_id", RequestIDFromContext(p.Request.Context())),
		)
	})
}
