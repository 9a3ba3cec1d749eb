// Package web hosts comment widgets as server-rendered HTML pages.
package web

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/ericfisherdev/commentbox/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/commentbox/internal/domain/model"
	"github.com/ericfisherdev/commentbox/internal/domain/port/driven"
	"github.com/ericfisherdev/commentbox/internal/telemetry"
	"github.com/ericfisherdev/commentbox/internal/widget"
)

// Handler serves one widget per request: it mounts a fresh widget for the
// ref in the path, applies the form input on POST, and renders the result.
type Handler struct {
	api     driven.CommentAPI
	metrics *telemetry.Metrics
	now     func() time.Time
	logger  *slog.Logger
}

// NewHandler creates a Handler whose widgets talk to api. metrics may be nil.
func NewHandler(api driven.CommentAPI, metrics *telemetry.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		api:     api,
		metrics: metrics,
		now:     time.Now,
		logger:  logger,
	}
}

// ShowWidget renders the widget for a ref with its comments loaded. A failed
// load still renders the page with an inline notice.
func (h *Handler) ShowWidget(w http.ResponseWriter, r *http.Request) {
	wg, ok := h.newWidget(w, r)
	if !ok {
		return
	}
	token := csrfToken(w, r)

	// Load failures are recorded in the widget state and rendered inline.
	_ = wg.OnMount(r.Context())

	h.render(w, r, wg, token, http.StatusOK)
}

// SubmitWidget posts the form's name and comment through a freshly mounted
// widget and renders the outcome. Validation problems answer 422 and service
// failures 502, both with the drafts kept in the form.
func (h *Handler) SubmitWidget(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	wg, ok := h.newWidget(w, r)
	if !ok {
		return
	}
	token := csrfToken(w, r)

	_ = wg.OnMount(r.Context())
	wg.UpdateDraftName(r.PostFormValue("name"))
	wg.UpdateDraftComment(r.PostFormValue("comment"))

	status := http.StatusOK
	outcome := "ok"
	if err := wg.Submit(r.Context()); err != nil {
		status, outcome = submitStatus(err)
	}
	h.metrics.WidgetSubmit(outcome)

	h.render(w, r, wg, token, status)
}

func (h *Handler) newWidget(w http.ResponseWriter, r *http.Request) (*widget.Widget, bool) {
	ref := r.PathValue("ref")
	wg, err := widget.New(h.api, ref, h.logger)
	if err != nil {
		if errors.Is(err, model.ErrBlankRef) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return nil, false
		}
		h.logger.Error("failed to create widget", "ref", ref, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return wg, true
}

// render buffers the page so a render failure can still produce a clean 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, wg *widget.Widget, token string, status int) {
	body := wg.Render(widget.RenderOptions{
		Now:       h.now(),
		ActionURL: widgetPath(wg.Ref()),
		CSRFToken: token,
	})

	var buf bytes.Buffer
	if err := templates.Layout("Comments", body).Render(r.Context(), &buf); err != nil {
		h.logger.Error("failed to render widget", "ref", wg.Ref(), "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// submitStatus maps a widget submit error to an HTTP status and a metrics
// outcome label.
func submitStatus(err error) (int, string) {
	if errors.Is(err, widget.ErrEmptyComment) {
		return http.StatusUnprocessableEntity, "invalid"
	}
	var rejected interface{ Rejection() (string, bool) }
	if errors.As(err, &rejected) {
		if _, ok := rejected.Rejection(); ok {
			return http.StatusUnprocessableEntity, "invalid"
		}
	}
	return http.StatusBadGateway, "failed"
}

func widgetPath(ref string) string {
	return "/widget/" + url.PathEscape(ref)
}
