// Package site handles the embedded landing site.
package site

import (
	"context"
	"errors"
	"net/http"
)

// Error constants
var (
	ErrGenerate = errors.New("site generation failed")
	ErrServe    = errors.New("site serve failed")
)

// Register attaches the embedded landing site routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	// Serve the embedded landing site at root /
	files := http.FileServer(FS())
	mux.Handle("/", files)
}

// RootHandler handles root path requests
type RootHandler struct{}

// NewRootHandler creates a new root handler
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot handles GET / requests and serves the embedded landing site
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	// Serve the landing index page
	files := http.FileServer(FS())
	files.ServeHTTP(w, r)
}
