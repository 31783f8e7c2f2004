package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"quickai/internal/http/handlers"
	"quickai/internal/infra"
	"quickai/internal/metrics"
	"quickai/internal/middleware"
)

// Options carries the cross-cutting pieces the router wires around the
// handlers. Nil Metrics and Lookup are allowed.
type Options struct {
	Resolver    middleware.PrincipalResolver
	RateLimiter *middleware.RateLimiter
	Metrics     *metrics.Metrics
	Lookup      middleware.CountryLookup
	CORSOrigins []string
	Logger      infra.Logger
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Geo(opts.Lookup),
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.CORSOrigins),
		opts.Metrics.Instrument,
	)

	r.Get("/v1/healthz", app.Health)
	r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.Resolver, opts.Logger))
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Handler)
		}

		r.Route("/ai", func(r chi.Router) {
			r.Post("/generate-article", app.GenerateArticle)
			r.Post("/generate-blog-title", app.GenerateBlogTitle)
			r.Post("/generate-image", app.GenerateImage)
			r.Post("/remove-image-background", app.RemoveImageBackground)
			r.Post("/remove-image-object", app.RemoveImageObject)
			r.Post("/resume-review", app.ResumeReview)
		})

		r.Route("/user", func(r chi.Router) {
			r.Get("/get-user-creations", app.GetUserCreations)
			r.Get("/get-published-creations", app.GetPublishedCreations)
			r.Post("/toggle-like-creation", app.ToggleLikeCreation)
		})
	})

	return r
}
