package httphandler

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ericfisherdev/commentbox/internal/application"
	"github.com/ericfisherdev/commentbox/internal/domain/model"
	"github.com/ericfisherdev/commentbox/internal/telemetry"
)

// maxBodyBytes caps a POST /comment body. It leaves room for the longest
// allowed comment after JSON escaping.
const maxBodyBytes = 256 << 10

// Handler is the HTTP driving adapter that serves the comment REST API.
type Handler struct {
	svc           *application.CommentService
	allowedOrigin string
	metrics       *telemetry.Metrics
	logger        *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. metrics may be
// nil.
func NewHandler(
	svc *application.CommentService,
	allowedOrigin string,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
) *Handler {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return &Handler{
		svc:           svc,
		allowedOrigin: allowedOrigin,
		metrics:       metrics,
		logger:        logger,
	}
}

// NewServeMux creates an http.Handler with the comment routes registered and
// wrapped with recovery, metrics and logging middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	h.Register(mux)

	return Wrap(mux, h.metrics, logger)
}

// Register adds the API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.Handle("GET /comment/{ref}", h.cors(http.HandlerFunc(h.ListComments)))
	mux.Handle("POST /comment", h.cors(http.HandlerFunc(h.PostComment)))
	mux.Handle("OPTIONS /comment", h.cors(http.HandlerFunc(preflight)))
	mux.Handle("OPTIONS /comment/{ref}", h.cors(http.HandlerFunc(preflight)))
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// ListComments returns every comment for the ref in the path, newest first.
// The response carries an ETag so caching clients can revalidate.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("ref")

	comments, err := h.svc.ListComments(r.Context(), ref)
	if err != nil {
		h.writeServiceError(w, "list comments", ref, err)
		return
	}

	data, err := json.Marshal(toCommentResponses(comments))
	if err != nil {
		h.logger.Error("failed to encode comments", "ref", ref, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	etag := entityTag(data)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	writeRaw(w, http.StatusOK, data)
}

// PostComment stores the comment in the body and returns the full updated
// collection for its ref.
func (h *Handler) PostComment(w http.ResponseWriter, r *http.Request) {
	var req CommentRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comments, err := h.svc.AddComment(r.Context(), model.Comment{
		Ref:     req.Ref,
		Name:    req.Name,
		Comment: req.Comment,
	})
	if err != nil {
		h.writeServiceError(w, "add comment", req.Ref, err)
		return
	}
	h.metrics.CommentPosted()

	writeJSON(w, http.StatusOK, toCommentResponses(comments))
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// writeServiceError maps validation errors to 400 and anything else to a
// logged 500.
func (h *Handler) writeServiceError(w http.ResponseWriter, op, ref string, err error) {
	if model.IsValidationError(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error("failed to "+op, "ref", ref, "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// cors sets the configured allowed origin on comment routes.
func (h *Handler) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr := w.Header()
		hdr.Set("Access-Control-Allow-Origin", h.allowedOrigin)
		hdr.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		hdr.Set("Access-Control-Allow-Headers", "Content-Type, If-None-Match")
		hdr.Set("Access-Control-Expose-Headers", "ETag")
		if h.allowedOrigin != "*" {
			hdr.Add("Vary", "Origin")
		}
		next.ServeHTTP(w, r)
	})
}

func preflight(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Access-Control-Max-Age", "600")
	w.WriteHeader(http.StatusNoContent)
}

// entityTag is a strong ETag over the encoded response body.
func entityTag(body []byte) string {
	sum := sha256.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// etagMatches reports whether an If-None-Match header value names etag.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
