package httphandler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/commentbox/internal/adapter/driving/http"
	"github.com/ericfisherdev/commentbox/internal/application"
	"github.com/ericfisherdev/commentbox/internal/domain/model"
	"github.com/ericfisherdev/commentbox/internal/telemetry"
)

// --- Mock implementations ---

type mockCommentStore struct {
	comments []model.Comment
	added    []model.Comment
	listErr  error
	addErr   error
}

func (m *mockCommentStore) Add(_ context.Context, c model.Comment) (int64, error) {
	if m.addErr != nil {
		return 0, m.addErr
	}
	c.ID = int64(len(m.comments) + 1)
	m.added = append(m.added, c)
	// Newest first, as the real store orders.
	m.comments = append([]model.Comment{c}, m.comments...)
	return c.ID, nil
}

func (m *mockCommentStore) ListByRef(_ context.Context, ref string) ([]model.Comment, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.Comment
	for _, c := range m.comments {
		if c.Ref == ref {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCommentStore) CountByRef(_ context.Context, _ string) (int, error) {
	return len(m.comments), nil
}

// --- Test helpers ---

var (
	testTime    = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	testTimeStr = "2026-02-10T12:00:00Z"
)

func setupMux(store *mockCommentStore) http.Handler {
	return setupMuxWithOrigin(store, "")
}

func setupMuxWithOrigin(store *mockCommentStore, origin string) http.Handler {
	svc := application.NewCommentService(store, slog.Default())
	h := httphandler.NewHandler(svc, origin, nil, slog.Default())
	return httphandler.NewServeMux(h, slog.Default())
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	err := json.NewDecoder(rec.Body).Decode(v)
	require.NoError(t, err)
}

func postComment(t *testing.T, mux http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/comment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestListComments(t *testing.T) {
	older := testTime.Add(-time.Hour)
	tests := []struct {
		name       string
		store      *mockCommentStore
		path       string
		wantStatus int
		wantLen    int
		checkFirst func(t *testing.T, c map[string]any)
	}{
		{
			name:       "empty thread is an empty array",
			store:      &mockCommentStore{},
			path:       "/comment/post-1",
			wantStatus: http.StatusOK,
			wantLen:    0,
		},
		{
			name: "store order preserved",
			store: &mockCommentStore{comments: []model.Comment{
				{ID: 2, Ref: "post-1", Name: "Bob", Comment: "newer", Time: &testTime},
				{ID: 1, Ref: "post-1", Name: "Alice", Comment: "**older**", Time: &older},
				{ID: 3, Ref: "other", Name: "Eve", Comment: "elsewhere", Time: &testTime},
			}},
			path:       "/comment/post-1",
			wantStatus: http.StatusOK,
			wantLen:    2,
			checkFirst: func(t *testing.T, c map[string]any) {
				assert.Equal(t, float64(2), c["id"])
				assert.Equal(t, "post-1", c["ref"])
				assert.Equal(t, "Bob", c["name"])
				assert.Equal(t, "newer", c["comment"])
				assert.Equal(t, testTimeStr, c["time"])
			},
		},
		{
			name: "escaped ref",
			store: &mockCommentStore{comments: []model.Comment{
				{ID: 1, Ref: "blog/a post", Name: "Alice", Comment: "hi", Time: &testTime},
			}},
			path:       "/comment/blog%2Fa%20post",
			wantStatus: http.StatusOK,
			wantLen:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := setupMux(tt.store)
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body []map[string]any
			decodeJSON(t, rec, &body)
			require.NotNil(t, body)
			assert.Len(t, body, tt.wantLen)
			if tt.checkFirst != nil && len(body) > 0 {
				tt.checkFirst(t, body[0])
			}
		})
	}
}

func TestListComments_StoreError(t *testing.T) {
	mux := setupMux(&mockCommentStore{listErr: errors.New("database is locked")})
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/comment/post-1", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	decodeJSON(t, rec, &body)
	assert.Equal(t, "internal server error", body["error"])
}

func TestListComments_BlankRef(t *testing.T) {
	mux := setupMux(&mockCommentStore{})
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/comment/%20", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListComments_ETagRevalidation(t *testing.T) {
	store := &mockCommentStore{comments: []model.Comment{
		{ID: 1, Ref: "post-1", Name: "Alice", Comment: "hi", Time: &testTime},
	}}
	mux := setupMux(store)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/comment/post-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))

	req := httptest.NewRequest(http.MethodGet, "/comment/post-1", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())

	// A new comment changes the tag.
	require.Equal(t, http.StatusOK, postComment(t, mux, `{"ref":"post-1","comment":"again"}`).Code)
	req = httptest.NewRequest(http.MethodGet, "/comment/post-1", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, etag, rec.Header().Get("ETag"))
}

func TestPostComment(t *testing.T) {
	store := &mockCommentStore{}
	mux := setupMux(store)

	rec := postComment(t, mux, `{"ref":"post-1","name":"Alice","comment":"**hi**"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body []map[string]any
	decodeJSON(t, rec, &body)
	require.Len(t, body, 1)
	assert.Equal(t, "post-1", body[0]["ref"])
	assert.Equal(t, "Alice", body[0]["name"])
	assert.Equal(t, "**hi**", body[0]["comment"])
	assert.NotEmpty(t, body[0]["time"], "service stamps the time")

	require.Len(t, store.added, 1)
	assert.Equal(t, "Alice", store.added[0].Name)
}

func TestPostComment_ReturnsFullCollection(t *testing.T) {
	store := &mockCommentStore{comments: []model.Comment{
		{ID: 1, Ref: "post-1", Name: "Bob", Comment: "first", Time: &testTime},
	}}
	mux := setupMux(store)

	rec := postComment(t, mux, `{"ref":"post-1","name":"","comment":"second"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body []map[string]any
	decodeJSON(t, rec, &body)
	require.Len(t, body, 2)
	assert.Equal(t, model.AnonymousName, body[0]["name"])
	assert.Equal(t, "Bob", body[1]["name"])
}

func TestPostComment_IgnoresClientTime(t *testing.T) {
	store := &mockCommentStore{}
	mux := setupMux(store)

	rec := postComment(t, mux, `{"ref":"r","comment":"c","time":"1999-01-01T00:00:00Z","id":77}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.added, 1)
	require.NotNil(t, store.added[0].Time)
	assert.NotEqual(t, 1999, store.added[0].Time.Year())
}

func TestPostComment_Errors(t *testing.T) {
	tests := []struct {
		name       string
		store      *mockCommentStore
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "malformed JSON",
			store:      &mockCommentStore{},
			body:       `{"ref":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
		{
			name:       "blank ref",
			store:      &mockCommentStore{},
			body:       `{"ref":"  ","comment":"hi"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  model.ErrBlankRef.Error(),
		},
		{
			name:       "blank comment",
			store:      &mockCommentStore{},
			body:       `{"ref":"r","comment":"\n"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  model.ErrBlankComment.Error(),
		},
		{
			name:       "name too long",
			store:      &mockCommentStore{},
			body:       `{"ref":"r","name":"` + strings.Repeat("n", model.MaxNameLength+1) + `","comment":"c"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "store failure",
			store:      &mockCommentStore{addErr: errors.New("disk full")},
			body:       `{"ref":"r","comment":"c"}`,
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postComment(t, setupMux(tt.store), tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]string
			decodeJSON(t, rec, &body)
			assert.NotEmpty(t, body["error"])
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			}
			assert.Empty(t, tt.store.added)
		})
	}
}

func TestCORS(t *testing.T) {
	t.Run("default origin on GET", func(t *testing.T) {
		rec := httptest.NewRecorder()
		setupMux(&mockCommentStore{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/comment/r", nil))

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "ETag")
	})

	t.Run("preflight", func(t *testing.T) {
		mux := setupMuxWithOrigin(&mockCommentStore{}, "https://blog.example")
		for _, path := range []string{"/comment", "/comment/post-1"} {
			req := httptest.NewRequest(http.MethodOptions, path, nil)
			req.Header.Set("Origin", "https://blog.example")
			req.Header.Set("Access-Control-Request-Method", "POST")
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNoContent, rec.Code, path)
			assert.Equal(t, "https://blog.example", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
			assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
		}
	})
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	setupMux(&mockCommentStore{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	decodeJSON(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	_, err := time.Parse(time.RFC3339, body["time"])
	assert.NoError(t, err)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	setupMux(&mockCommentStore{}).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/comment/r", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(reg)
	svc := application.NewCommentService(&mockCommentStore{}, slog.Default())
	mux := httphandler.NewServeMux(httphandler.NewHandler(svc, "", metrics, slog.Default()), slog.Default())

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/comment/a", nil))
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/comment/b", nil))
	req := httptest.NewRequest(http.MethodPost, "/comment", bytes.NewBufferString(`{"ref":"a","comment":"c"}`))
	mux.ServeHTTP(httptest.NewRecorder(), req)

	expected := `
# HELP commentbox_comments_posted_total Comments accepted and stored by the service.
# TYPE commentbox_comments_posted_total counter
commentbox_comments_posted_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "commentbox_comments_posted_total"))

	expected = `
# HELP commentbox_http_requests_total HTTP requests by method, route pattern and status code.
# TYPE commentbox_http_requests_total counter
commentbox_http_requests_total{method="GET",route="GET /comment/{ref}",status="200"} 2
commentbox_http_requests_total{method="POST",route="POST /comment",status="200"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "commentbox_http_requests_total"))
}

func TestRecoveryMiddleware(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	handler := httphandler.Wrap(mux, nil, slog.Default())

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	decodeJSON(t, rec, &body)
	assert.Equal(t, "internal server error", body["error"])
}
