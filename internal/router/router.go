package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tabletap/api/internal/checkout"
	"github.com/tabletap/api/internal/config"
	"github.com/tabletap/api/internal/database"
	"github.com/tabletap/api/internal/enum"
	"github.com/tabletap/api/internal/handler"
	"github.com/tabletap/api/internal/metrics"
	mw "github.com/tabletap/api/internal/middleware"
	"github.com/tabletap/api/internal/service"
	"github.com/tabletap/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Write endpoints require the shared API key; staff endpoints additionally
// require a JWT with a matching role.
func New(cfg *config.Config, pool *pgxpool.Pool, pub service.Publisher, hub *ws.Hub, m *metrics.Collector) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", mw.APIKeyHeader},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	queries := database.New(pool)
	newOrderStore := func(db database.DBTX) service.OrderStore {
		return database.New(db)
	}
	orderService := service.NewOrderService(
		pool,
		newOrderStore,
		pub,
		checkout.NewHostedLink(cfg.CheckoutBaseURL, cfg.CheckoutCurrency),
		m,
	)

	orderHandler := handler.NewOrderHandler(orderService, queries)
	kitchenHandler := handler.NewKitchenHandler(orderService)
	billingHandler := handler.NewBillingHandler(orderService)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", m.Handler())

	handler.NewMenuHandler(queries).RegisterRoutes(r)
	handler.NewAuthHandler(queries, cfg.JWTSecret).RegisterRoutes(r)

	// The order id is the customer's capability for reading their own order.
	r.Get("/orders/{id}", orderHandler.Get)

	// WebSocket routes (staff auth via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeStaff(hub, cfg.JWTSecret, w, r)
	})
	r.Get("/ws/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeOrder(hub, w, r)
	})

	// Staff reads
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))
		r.Use(mw.RequireRole(enum.RoleKitchen, enum.RoleWaiter, enum.RoleManager))
		r.Get("/orders", orderHandler.List)
	})

	// Writes
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireSharedSecret(cfg.APISharedSecret))

		r.Post("/orders", orderHandler.Create)
		r.Post("/webhooks/payment", billingHandler.PaymentWebhook)

		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(cfg.JWTSecret))

			r.With(mw.RequireRole(enum.RoleKitchen, enum.RoleManager)).
				Post("/kitchen/updates", kitchenHandler.Update)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.RoleWaiter, enum.RoleManager))
				r.Post("/orders/{id}/served", kitchenHandler.Served)
				r.Post("/bills", billingHandler.GenerateBill)
			})

			r.With(mw.RequireRole(enum.RoleManager)).
				Post("/orders/{id}/close", billingHandler.Close)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
