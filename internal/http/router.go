package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/cashly/internal/http/export"
	"github.com/MrJamesThe3rd/cashly/internal/http/imports"
	"github.com/MrJamesThe3rd/cashly/internal/http/summary"
	"github.com/MrJamesThe3rd/cashly/internal/http/transaction"
)

func New(
	transactionsV1 *transaction.Handler,
	importV1 *imports.Handler,
	summaryV1 *summary.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-Exported-Count"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Get("/categories", transactionsV1.Categories)

		r.Route("/import", importV1.Routes)
		r.Route("/summary", summaryV1.Routes)
		r.Route("/export", exportV1.Routes)
	})

	return router
}
