package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/commentbox/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeRaw(w, http.StatusInternalServerError, []byte(`{"error":"internal server error"}`))
		return
	}

	writeRaw(w, status, data)
}

// writeRaw writes an already encoded JSON body.
func writeRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// CommentRequest is the JSON body for POST /comment. Any id or time in the
// body is ignored.
type CommentRequest struct {
	Ref     string `json:"ref"`
	Name    string `json:"name"`
	Comment string `json:"comment"`
}

// CommentResponse is the JSON representation of a stored comment.
type CommentResponse struct {
	ID      int64  `json:"id"`
	Ref     string `json:"ref"`
	Name    string `json:"name"`
	Comment string `json:"comment"`
	Time    string `json:"time,omitempty"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toCommentResponse converts a domain Comment to its JSON representation.
func toCommentResponse(c model.Comment) CommentResponse {
	resp := CommentResponse{
		ID:      c.ID,
		Ref:     c.Ref,
		Name:    c.Name,
		Comment: c.Comment,
	}
	if c.Time != nil {
		resp.Time = c.Time.UTC().Format(time.RFC3339)
	}
	return resp
}

// toCommentResponses converts a list, always yielding a non-nil slice so the
// body is [] rather than null.
func toCommentResponses(comments []model.Comment) []CommentResponse {
	resp := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		resp = append(resp, toCommentResponse(c))
	}
	return resp
}
