// Package expohttp serves the expo controller over net/http.
package expohttp

import (
	"net/http"

	"github.com/goliatone/go-expo/adapters/expoapi"
	"github.com/goliatone/go-expo/expo"
)

// Config configures the HTTP adapter.
type Config = expoapi.Config

// Handler exposes expo HTTP endpoints.
type Handler struct {
	controller *expoapi.Controller
}

// NewHandler creates a new HTTP handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{controller: expoapi.NewController(cfg)}
}

// RegisterRoutes registers handlers on a compatible router.
func (h *Handler) RegisterRoutes(router any) {
	switch r := router.(type) {
	case interface{ Handle(string, http.Handler) }:
		r.Handle("/", h)
	case interface {
		HandleFunc(string, func(http.ResponseWriter, *http.Request))
	}:
		r.HandleFunc("/", h.ServeHTTP)
	}
}

// ServeHTTP routes expo endpoints.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if w == nil {
		return
	}
	if h == nil || h.controller == nil {
		expoapi.WriteError(httpResponse{w: w}, expo.NewError(expo.KindInternal, "handler is nil", nil))
		return
	}
	h.controller.Serve(httpRequest{r: r}, httpResponse{w: w, req: r})
}
