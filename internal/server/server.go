// Package server exposes the widget page and the JSON endpoints the
// calculator gateways talk to.
package server

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/telexlabs/go-prodcalc/internal/store"
	"github.com/telexlabs/go-prodcalc/internal/uploads"
	"github.com/telexlabs/go-prodcalc/pkg/render"
)

// Server wires the store, the upload service, and the widget renderer behind
// an HTTP router.
type Server struct {
	store    *store.Store
	uploads  *uploads.Service
	renderer *render.Renderer
	baseURL  string
	logger   *log.Logger
}

// New assembles a server. A nil logger falls back to the standard logger.
func New(st *store.Store, up *uploads.Service, renderer *render.Renderer, baseURL string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		store:    st,
		uploads:  up,
		renderer: renderer,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/products/{id}", s.handleWidgetPage)
	r.Get("/cart", s.handleCartPage)
	r.Post("/api/uploads", s.handleUpload)
	r.Post("/api/cart", s.handleAddToCart)

	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploads.Dir())))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	return r
}
