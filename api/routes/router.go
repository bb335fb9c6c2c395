package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/newsroute/newsroute-backend/api/controllers"
	"github.com/newsroute/newsroute-backend/api/middleware"
	"github.com/newsroute/newsroute-backend/internal/billing"
	"github.com/newsroute/newsroute-backend/internal/changerequests"
	"github.com/newsroute/newsroute-backend/internal/commissions"
	"github.com/newsroute/newsroute-backend/internal/identity"
	"github.com/newsroute/newsroute-backend/internal/payments"
	"github.com/newsroute/newsroute-backend/internal/reminders"
	"github.com/newsroute/newsroute-backend/internal/schedules"
	"github.com/newsroute/newsroute-backend/pkg/config"
	"github.com/newsroute/newsroute-backend/pkg/db"
	"github.com/newsroute/newsroute-backend/pkg/logger"
	"github.com/newsroute/newsroute-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	guard identity.Service,
	changeRequestService changerequests.Service,
	billingService billing.Service,
	paymentsService payments.Service,
	schedulesService schedules.Service,
	commissionsService commissions.Service,
	remindersService reminders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity(guard, logg))
		r.Get("/ping", controllers.PrivatePing())

		r.Route("/change-requests", func(r chi.Router) {
			r.Post("/", controllers.SubmitChangeRequest(changeRequestService, logg))
			r.Post("/{requestId}/decision", controllers.DecideChangeRequest(changeRequestService, logg))
		})

		r.Get("/bills", controllers.ListBills(billingService, logg))
		r.Post("/bills/{billId}/payments", controllers.ApplyPayment(paymentsService, logg))

		r.Post("/delivery-items/{itemId}/status", controllers.MarkDeliveryItem(schedulesService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireManager(logg))
			r.Post("/billing/runs", controllers.RunBilling(billingService, logg))
			r.Post("/schedules", controllers.CreateSchedule(schedulesService, logg))
			r.Post("/commissions/runs", controllers.RunCommissions(commissionsService, logg))
			r.Post("/reminders/runs", controllers.RunReminders(remindersService, logg))
		})
	})

	return r
}
