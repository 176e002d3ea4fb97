package exporouter

import (
	"github.com/goliatone/go-expo/adapters/expoapi"
	"github.com/goliatone/go-expo/expo"
	"github.com/goliatone/go-router"
)

// Config configures the go-router adapter.
type Config = expoapi.Config

// Handler exposes expo routes for go-router.
type Handler struct {
	controller *expoapi.Controller
}

// NewHandler creates a go-router handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{controller: expoapi.NewController(cfg)}
}

// RegisterRoutes registers routes on a compatible go-router router.
func (h *Handler) RegisterRoutes(router any) {
	r, ok := router.(routeRegistrar)
	if !ok {
		return
	}

	r.Get("/", h.Handle)
	r.Get("/healthz", h.Handle)
	r.Get("/public/*", h.Handle)

	r.Get("/register", h.Handle)
	r.Post("/register", h.Handle)
	r.Post("/api/registrations", h.Handle)

	r.Get("/badge/:token", h.Handle)
	r.Get("/badge/:token/card", h.Handle)
	r.Get("/badge/:token/download", h.Handle)
}

// Handle executes the shared expo workflow.
func (h *Handler) Handle(c router.Context) error {
	if c == nil {
		return nil
	}
	if h == nil || h.controller == nil {
		expoapi.WriteError(routerResponse{ctx: c}, expo.NewError(expo.KindInternal, "handler is nil", nil))
		return nil
	}
	h.controller.Serve(routerRequest{ctx: c}, routerResponse{ctx: c})
	return nil
}

type routeRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}
