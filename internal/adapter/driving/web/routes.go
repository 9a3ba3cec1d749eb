package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers the widget pages and the embedded stylesheet on
// the provided mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	mux.HandleFunc("GET /widget/{ref}", h.ShowWidget)
	mux.HandleFunc("POST /widget/{ref}", h.SubmitWidget)
}
