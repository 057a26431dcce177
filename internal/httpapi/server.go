// Package httpapi exposes the services over HTTP on goa's muxer.
package httpapi

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	goahttp "goa.design/goa/v3/http"
	httpmiddleware "goa.design/goa/v3/http/middleware"
	goa "goa.design/goa/v3/pkg"

	"brightscope/internal/config"
	"brightscope/internal/services"
)

// Services are the implementations the API dispatches to.
type Services struct {
	Auth     *services.AuthService
	Contact  *services.ContactService
	Catalog  *services.CatalogService
	Features *services.FeatureService
	Bookings *services.BookingService
	Payments *services.PaymentService
	Settings *services.SettingsService
	Admin    *services.AdminService
	Health   *services.HealthService
}

// Server routes requests to Services.
type Server struct {
	cfg *config.Config
	svc Services
	mux goahttp.Muxer
	log zerolog.Logger
}

type (
	decodeFunc func(r *http.Request) (any, error)
	encodeFunc func(ctx context.Context, w http.ResponseWriter, res any) error
)

// route is one mounted endpoint, shaped like a goa generated handler.
type route struct {
	name     string
	method   string
	path     string
	decode   decodeFunc
	endpoint goa.Endpoint
	encode   encodeFunc
}

// New mounts every endpoint on a fresh muxer.
func New(cfg *config.Config, svc Services, log zerolog.Logger) *Server {
	s := &Server{cfg: cfg, svc: svc, mux: goahttp.NewMuxer(), log: log}

	var routes []route
	routes = append(routes, s.accountRoutes()...)
	routes = append(routes, s.contactRoutes()...)
	routes = append(routes, s.catalogRoutes()...)
	routes = append(routes, s.bookingRoutes()...)
	routes = append(routes, s.paymentRoutes()...)
	routes = append(routes, s.settingsRoutes()...)
	routes = append(routes, s.adminRoutes()...)
	routes = append(routes, s.healthRoutes()...)
	for _, rt := range routes {
		s.mount(rt)
	}
	s.log.Debug().Int("routes", len(routes)).Msg("http handlers mounted")
	return s
}

// Handler returns the muxer wrapped in the middleware chain. /metrics is
// served by Prometheus, everything else by the muxer.
func (s *Server) Handler() http.Handler {
	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			promhttp.Handler().ServeHTTP(w, r)
			return
		}
		s.mux.ServeHTTP(w, r)
	})

	var h http.Handler = trimTrailingSlash(root)
	h = httpmiddleware.PopulateRequestContext()(h)
	h = metricsMiddleware(h)
	h = cors(h, s.cfg)
	h = securityHeaders(h, s.cfg)
	h = requestLogging(h, s.log)
	h = httpmiddleware.RequestID(
		httpmiddleware.UseXRequestIDHeaderOption(true),
		httpmiddleware.XRequestHeaderLimitOption(128),
	)(h)
	return recoverer(h, s.log)
}

func (s *Server) mount(rt route) {
	s.mux.Handle(rt.method, rt.path, func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = context.WithValue(ctx, goahttp.AcceptTypeKey, r.Header.Get("Accept"))
		ctx = context.WithValue(ctx, goa.MethodKey, rt.name)
		ctx = withBearer(ctx, bearerToken(r))

		req, err := rt.decode(r.WithContext(ctx))
		if err != nil {
			s.encodeError(ctx, w, err)
			return
		}
		res, err := rt.endpoint(ctx, req)
		if err != nil {
			s.encodeError(ctx, w, err)
			return
		}
		if err := rt.encode(ctx, w, res); err != nil {
			s.log.Error().Err(err).Str("endpoint", rt.name).Msg("failed to encode response")
		}
	})
}

// respond encodes res as the body with the given status.
func respond(status int) encodeFunc {
	return func(ctx context.Context, w http.ResponseWriter, res any) error {
		enc := goahttp.ResponseEncoder(ctx, w)
		w.WriteHeader(status)
		return enc.Encode(res)
	}
}

func redirect(_ context.Context, w http.ResponseWriter, res any) error {
	w.Header().Set("Location", res.(string))
	w.WriteHeader(http.StatusFound)
	return nil
}
