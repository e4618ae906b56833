package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", PingHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/keys", app.RegisterKeyHandler)
		r.Get("/keys/{userID}", app.GetKeyHandler)
		r.Get("/keys/{userID}/qr", app.KeyQRHandler)
		r.Post("/verifications", app.ReportVerificationHandler)
		r.Get("/verifications", app.ListVerificationsHandler)
	})

	return r
}
