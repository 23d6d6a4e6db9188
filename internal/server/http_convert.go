package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alfredjeanlab/confighelper/internal/codec"
	"github.com/alfredjeanlab/confighelper/internal/events"
	"github.com/alfredjeanlab/confighelper/internal/model"
)

// importRequest is the body of POST /api/import. A missing or null config is
// an empty document.
type importRequest struct {
	Config *string `json:"config"`
}

type importResponse struct {
	Success bool          `json:"success"`
	Config  *model.Config `json:"config"`
}

// exportRequest is the body of POST /api/export. The config field is required.
type exportRequest struct {
	Config *model.Config `json:"config"`
}

type exportResponse struct {
	Success bool   `json:"success"`
	YAML    string `json:"yaml"`
}

// handleImport handles POST /api/import: YAML text to Config.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := RequestIDFromContext(ctx)
	log := s.logger.With("request_id", reqID, "operation", "import")

	var req importRequest
	if _, err := decodeBody(r, &req); err != nil {
		log.Warn("failed to decode import request", "error", err)
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	var text string
	if req.Config != nil {
		text = *req.Config
	}
	if int64(len(text)) > s.opts.MaxYAMLBytes {
		err := &sizeLimitError{what: "YAML config", limit: s.opts.MaxYAMLBytes}
		log.Warn("yaml config too large", "bytes", len(text), "limit", s.opts.MaxYAMLBytes)
		s.metrics.observeYAML(parseErrorSize, time.Now(), len(text))
		s.reject(r, "import", len(text), err)
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	cfg, err := codec.Decode([]byte(text))
	if err != nil {
		s.metrics.observeYAML(parseErrorParse, start, len(text))
		log.Warn("failed to parse yaml config", "error", err)
		s.reject(r, "import", len(text), err)
		writeFailure(w, http.StatusBadRequest, "Failed to parse YAML: "+parseDetail(err))
		return
	}
	s.metrics.observeYAML(parseSuccess, start, len(text))

	s.publish(ctx, events.TopicConfigImported, events.Conversion{
		RequestID: reqID,
		Operation: "import",
		Summary:   cfg.Summarize(),
		Bytes:     len(text),
	})
	writeJSON(w, http.StatusOK, importResponse{Success: true, Config: cfg})
}

// handleExport handles POST /api/export: Config to YAML text.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := RequestIDFromContext(ctx)
	log := s.logger.With("request_id", reqID, "operation", "export")

	var req exportRequest
	body, err := decodeBody(r, &req)
	if err != nil {
		log.Warn("failed to decode export request", "error", err)
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	if err := model.RequireFields(body, "config"); err != nil {
		log.Warn("export request rejected", "error", err)
		s.reject(r, "export", len(body), err)
		writeFailure(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	start := time.Now()
	out, err := codec.Encode(req.Config)
	if err != nil {
		s.metrics.observeYAML(parseErrorMarshal, start, 0)
		log.Error("failed to generate yaml", "error", err)
		s.reject(r, "export", len(body), err)
		writeFailure(w, http.StatusInternalServerError, fmt.Sprintf("Failed to generate YAML: %v", err))
		return
	}
	s.metrics.observeYAML(parseSuccess, start, len(out))

	s.publish(ctx, events.TopicConfigExported, events.Conversion{
		RequestID: reqID,
		Operation: "export",
		Summary:   req.Config.Summarize(),
		Bytes:     len(out),
	})
	writeJSON(w, http.StatusOK, exportResponse{Success: true, YAML: string(out)})
}

// reject publishes a rejected-conversion event.
func (s *Server) reject(r *http.Request, op string, size int, err error) {
	s.publish(r.Context(), events.TopicConfigRejected, events.Conversion{
		RequestID: RequestIDFromContext(r.Context()),
		Operation: op,
		Bytes:     size,
		Reason:    err.Error(),
	})
}

// decodeBody reads the (already size-limited) body and unmarshals it into v.
// The raw bytes are returned for field-presence checks.
func decodeBody(r *http.Request, v any) ([]byte, error) {
	if r.Body == nil {
		return nil, errors.New("empty request body")
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return nil, errors.New("empty request body")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return nil, err
	}
	return body, nil
}

// parseDetail strips the codec prefix so the message reads
// "Failed to parse YAML: yaml: line 3: ...".
func parseDetail(err error) string {
	var pe *codec.ParseError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}

// validationMessage renders the first field error as "Config is required".
func validationMessage(err error) string {
	var ve *model.ValidationError
	if !errors.As(err, &ve) || !ve.HasErrors() {
		return err.Error()
	}
	fe := ve.Errors[0]
	if fe.Field == "" {
		return fe.Message
	}
	return strings.ToUpper(fe.Field[:1]) + fe.Field[1:] + " " + fe.Message
}
