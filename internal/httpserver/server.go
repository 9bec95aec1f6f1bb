// Package httpserver mounts the versioned REST surface over the vendor
// scraping services: api-key auth, request logging, response caching for the
// slow vendors and the mapping from upstream failures to response codes.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sortimento/internal/apis/ifood"
	"sortimento/internal/apis/osuper"
	"sortimento/internal/apis/tendaatacado"
	"sortimento/internal/apis/ubereats"
	"sortimento/internal/apis/vipcommerce"
	"sortimento/internal/apis/vtex"
	"sortimento/internal/auth"
	"sortimento/internal/cache"
	"sortimento/internal/config"
	"sortimento/internal/logger"
	"sortimento/internal/metrics"
)

type Options struct {
	Config  config.Config
	Logger  *zap.SugaredLogger
	Keys    *auth.Keys
	Cache   *cache.Cache
	Metrics *metrics.Metrics

	Ifood        *ifood.Service
	UberEats     *ubereats.Service
	Osuper       *osuper.Service
	TendaAtacado *tendaatacado.Service
	VipCommerce  *vipcommerce.Service
	Vtex         *vtex.Service
}

type Server struct {
	log     *zap.SugaredLogger
	keys    *auth.Keys
	cache   *cache.Cache
	timeout time.Duration

	ifood    *ifood.Service
	ubereats *ubereats.Service
	osuper   *osuper.Service
	tenda    *tendaatacado.Service
	vip      *vipcommerce.Service
	vtex     *vtex.Service

	router chi.Router
}

func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Cache == nil {
		opts.Cache = cache.New(5*time.Minute, 10*time.Minute)
	}

	s := &Server{
		log:      opts.Logger,
		keys:     opts.Keys,
		cache:    opts.Cache,
		timeout:  opts.Config.Server.RequestTimeout,
		ifood:    opts.Ifood,
		ubereats: opts.UberEats,
		osuper:   opts.Osuper,
		tenda:    opts.TendaAtacado,
		vip:      opts.VipCommerce,
		vtex:     opts.Vtex,
	}
	s.router = s.routes(opts.Metrics)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes(m *metrics.Metrics) chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(processTime)
	r.Use(s.accessLog)
	r.Use(s.recoverer)
	if m != nil {
		r.Use(m.Middleware)
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.requireAPIKey)

		r.Route("/ifood/delivery", func(r chi.Router) {
			r.Get("/postal-code", s.ifoodPostalCode)
			r.Get("/segment", s.ifoodSegments)
			r.Get("/store", s.ifoodStores)
			r.Get("/store-info", s.ifoodStoreInfo)
			r.Get("/department", s.ifoodDepartments)
			r.Get("/assortment", s.ifoodAssortment)
		})

		r.Route("/uber-eats-restaurant/delivery", func(r chi.Router) {
			r.Get("/store-info", s.ubereatsStoreInfo)
			r.Get("/assortment", s.ubereatsAssortment)
		})

		r.Route("/osuper/market", func(r chi.Router) {
			r.Get("/store", s.osuperStores)
			r.Get("/department", s.osuperDepartments)
			r.Get("/category", s.osuperCategories)
			r.Get("/assortment", s.osuperAssortment)
		})

		r.Route("/tendaatacado/wholesale", func(r chi.Router) {
			r.Get("/department", s.tendaDepartments)
			r.Get("/category", s.tendaCategories)
			r.Get("/assortment", s.tendaAssortment)
		})

		r.Route("/vipcommerce/market", func(r chi.Router) {
			r.Get("/distribution-center", s.vipDistributionCenters)
			r.Get("/department", s.vipDepartments)
			r.Get("/category", s.vipCategories)
			r.Get("/assortment", s.vipAssortment)
		})

		r.Route("/vtex/market", func(r chi.Router) {
			r.Get("/intelligent-search", s.vtexTopSearches)
			r.Get("/department", s.vtexDepartments)
			r.Get("/category", s.vtexCategories)
			r.Get("/subcategory", s.vtexSubCategories)
			r.Get("/brand", s.vtexBrands)
			r.Get("/assortment", s.vtexAssortment)
			r.Get("/search-term", s.vtexSearchTerm)
		})
	})

	return r
}

// opCtx bounds one scraping operation; the paced multi-call vendors can run
// for minutes, so the ceiling comes from configuration.
func (s *Server) opCtx(r *http.Request) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), s.timeout)
}

// cached answers from the TTL store when the key is warm and fills it
// otherwise. Failed fills are never stored.
func cached[T any](c *cache.Cache, key string, fill func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if out, ok := v.(T); ok {
			return out, nil
		}
	}
	out, err := fill()
	if err == nil {
		c.Set(key, out)
	}
	return out, err
}
