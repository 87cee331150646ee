package routes

import (
	"net/http"
	"time"

	"rsvp_server/controllers"

	"github.com/go-chi/httprate"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RouterOptions configures the HTTP surface
type RouterOptions struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	RateLimit      int // requests per minute per client IP on /api, 0 disables
	ServiceName    string
}

// Services are the controllers the router dispatches to
type Services struct {
	Party *controllers.PartyController
	RSVP  *controllers.RSVPController
	Admin *controllers.AdminController
}

// NewRouter builds the full handler: routes, CORS, rate limiting, tracing and request logging
func NewRouter(opts RouterOptions, svc Services) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", controllers.WelcomeHandler).Methods("GET")
	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	if opts.RateLimit > 0 {
		api.Use(httprate.LimitByIP(opts.RateLimit, time.Minute))
	}
	api.Use(withTimeout(opts.RequestTimeout))

	RegisterPartyRoutes(api, svc.Party)
	RegisterRSVPRoutes(api, svc.RSVP)
	RegisterAdminRoutes(api, svc.Admin)

	allowed := opts.AllowedOrigins
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}
	handler := cors.New(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
	}).Handler(r)

	name := opts.ServiceName
	if name == "" {
		name = "rsvp-server"
	}
	return requestLogger(otelhttp.NewHandler(handler, name))
}
