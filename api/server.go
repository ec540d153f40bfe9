// Package api exposes the platform over HTTP: project and version
// reads, version creation with multipart file uploads, and version
// deletion. Routing is chi; every response carries the uniform
// success/message JSON shape.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"modhost/versions"
)

// Server holds the HTTP handler dependencies.
type Server struct {
	db          *gorm.DB
	svc         *versions.Service
	log         *zap.SugaredLogger
	maxUploadMB int64
}

func NewServer(gdb *gorm.DB, svc *versions.Service, log *zap.SugaredLogger, maxUploadMB int64) *Server {
	return &Server{db: gdb, svc: svc, log: log, maxUploadMB: maxUploadMB}
}

// Router wires the API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Use(s.authenticate)

	r.Route("/api", func(r chi.Router) {
		r.Post("/project", s.handleCreateProject)
		r.Route("/project/{project}", func(r chi.Router) {
			r.Get("/", s.handleGetProject)
			r.Get("/versions", s.handleListVersions)
			r.Post("/version", s.handleCreateVersion)
			r.Route("/version/{version}", func(r chi.Router) {
				r.Get("/", s.handleGetVersion)
				r.Delete("/", s.handleDeleteVersion)
			})
		})
	})

	return r
}
