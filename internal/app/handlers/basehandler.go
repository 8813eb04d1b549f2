package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/billingworks/statements/internal/app/client"
	"github.com/billingworks/statements/internal/app/storage"
)

type BaseHandler struct {
	*chi.Mux
	secretKey    string
	repo         storage.Repository
	ordersClient client.OrdersClient
}

func NewBaseHandler(repo storage.Repository, ordersClient client.OrdersClient, secretKey string) *BaseHandler {
	bh := &BaseHandler{
		Mux:          chi.NewMux(),
		secretKey:    secretKey,
		repo:         repo,
		ordersClient: ordersClient,
	}

	bh.Use(middleware.RequestID)
	bh.Use(middleware.RealIP)
	bh.Use(middleware.Logger)
	bh.Use(middleware.Recoverer)

	bh.Use(middleware.Compress(5))
	bh.Use(gzipHandle)

	bh.Route("/api", func(r chi.Router) {
		r.Post("/user/register", bh.register())
		r.Post("/user/login", bh.login())

		r.Group(func(r chi.Router) {
			r.Use(authHandle(bh.secretKey))

			r.Route("/statements/{username}", func(r chi.Router) {
				r.Post("/", bh.syncStatement())
				r.Get("/", bh.getStatement())
			})

			r.Get("/customers/billable", bh.billableCustomers())
		})
	})

	return bh
}
