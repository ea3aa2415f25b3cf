package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	// the live socket outlives any request timeout
	r.Get("/live/{roomId}", h.LiveHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		// public routes here
		r.Get("/health", h.HealthHandler)
		r.Get("/", h.HomePage)
		r.Get("/info", h.InfoPage)
		r.Get("/pushAdmin", h.PushPage)
		r.Handle("/public/*", http.StripPrefix("/public/", http.FileServer(http.Dir(h.cfg.PublicDir))))

		r.Post("/push", h.PushItemHandler)
		r.Post("/newResult", h.NewResultHandler)

		r.Get("/{roomId}", h.StartPageHandler)
		r.Get("/{roomId}/leader", h.LeaderPageHandler)
		r.Get("/{roomId}/play", h.PlayPageHandler)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/login", h.LoginPage)
			r.With(httprate.LimitByIP(h.cfg.LoginRateLimit, time.Minute)).Post("/login", h.LoginHandler)
			r.Get("/logout", h.LogoutHandler)

			// Secure routes
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verify(h.tokenAuth, jwtauth.TokenFromCookie))
				r.Use(h.AdminOnly)

				r.Get("/", h.DashboardPage)
				r.Post("/szekreny/create", h.CreateRoomHandler)
				r.Put("/szekreny/{id}/save", h.SaveRoomHandler)
				r.Delete("/szekreny/{id}", h.DeleteRoomHandler)
				r.Post("/reset", h.ResetHandler)
			})
		})

		r.With(jwtauth.Verify(h.tokenAuth, jwtauth.TokenFromCookie), h.AdminOnly).
			Get("/db/clear", h.ClearHandler)
	})
}
