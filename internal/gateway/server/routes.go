package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"findash/internal/gateway/handler"
	"findash/internal/gateway/middleware"
)

func NewMux(proxyHandler *handler.ProxyHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS)

	r.Post("/api/proxy", proxyHandler.HandleProxy)
	r.Post("/api/test", proxyHandler.HandleTest)
	r.Get("/api/templates", proxyHandler.HandleTemplates)
	r.Get("/healthz", proxyHandler.HandleHealth)

	return r
}
