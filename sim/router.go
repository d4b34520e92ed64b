package sim

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-openapi/runtime/middleware"
)

//go:embed openapi.yaml
var openapiSpec []byte

// Router returns the full simulator HTTP surface.
func (s *Sim) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})
	r.Handle("/docs*", middleware.SwaggerUI(middleware.SwaggerUIOpts{
		SpecURL: "/openapi.yaml",
		Path:    "docs",
	}, nil))

	r.Post("/register", s.Register)
	r.Post("/login", s.Login)
	r.Post("/logout", s.Logout)
	r.Get("/check-auth", s.CheckAuth)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/initiateCall", s.InitiateCall)
		r.Post("/endCall", s.EndCall)
		r.Get("/calls/history", s.CallHistory)

		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", s.ListContacts)
			r.Post("/", s.CreateContact)
			r.Put("/{id}", s.UpdateContact)
			r.Delete("/{id}", s.DeleteContact)
		})
	})

	return r
}
