package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/studydeck/deckapi/internal/auth"
	deckmiddleware "github.com/studydeck/deckapi/internal/middleware"
)

// RouterOptions controls the construction of the HTTP router. Services that
// are nil simply have their routes left unmounted, which keeps tests small.
type RouterOptions struct {
	Decks         DeckService
	Cards         CardService
	Study         StudyService
	IAM           IAMService
	Access        AccessDecider
	Tokens        *auth.TokenManager
	Revocations   *auth.RevocationList
	AuthnDeps     *deckmiddleware.AuthnDependencies
	CORSOptions   *cors.Options
	Middleware    []func(http.Handler) http.Handler
	HealthHandler http.HandlerFunc
	ExtraRoutes   func(chi.Router)
}

// DefaultCORSOptions returns the shared development CORS policy.
func DefaultCORSOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// NewRouter assembles a chi.Router with shared middleware, CORS policy, and
// the deck API mounted. The router can be tailored via RouterOptions for CLI
// usage, tests, or other entrypoints.
func NewRouter(opts RouterOptions) (chi.Router, error) {
	r := chi.NewRouter()

	// Baseline middleware shared across entrypoints.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	corsCfg := DefaultCORSOptions()
	if opts.CORSOptions != nil {
		corsCfg = *opts.CORSOptions
	}
	r.Use(cors.Handler(corsCfg))

	if opts.AuthnDeps != nil {
		authn, err := deckmiddleware.NewAuthnMiddleware(*opts.AuthnDeps)
		if err != nil {
			return nil, err
		}
		r.Use(authn)
	}

	// Apply custom middleware passed from the caller.
	for _, mw := range opts.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.Route("/api", func(api chi.Router) {
		if opts.IAM != nil {
			authH := NewAuthHandlers(opts.IAM, opts.Tokens, opts.Revocations)
			api.Post("/register", authH.Register)
			api.Post("/login", authH.Login)
			api.Post("/logout", authH.Logout)
		}

		api.Route("/deck", func(d chi.Router) {
			var (
				deckH  *DeckHandlers
				cardH  *CardHandlers
				studyH *StudyHandlers
			)
			if opts.Decks != nil {
				deckH = NewDeckHandlers(opts.Decks, opts.Access)
			}
			if opts.Cards != nil {
				cardH = NewCardHandlers(opts.Cards, opts.Access)
			}
			if opts.Study != nil {
				studyH = NewStudyHandlers(opts.Study, opts.Access)
			}

			if deckH != nil {
				d.Get("/", deckH.ListAll)
				d.Post("/", deckH.Create)
				d.Get("/public", deckH.ListPublic)
				d.Get("/myDecks/{userID}", deckH.ListUserDecks)
			}
			if studyH != nil {
				d.Get("/report/{userID}", studyH.Report)
			}

			d.Route("/{deckID}", func(one chi.Router) {
				if deckH != nil {
					one.Get("/", deckH.Get)
					one.Put("/", deckH.Update)
					one.Delete("/", deckH.Delete)
				}
				if cardH != nil {
					one.Route("/card", func(c chi.Router) {
						c.Get("/", cardH.List)
						c.Post("/", cardH.Add)
						c.Put("/{cardID}", cardH.Update)
						c.Delete("/{cardID}", cardH.Delete)
					})
				}
				if studyH != nil {
					one.Route("/history/{userID}", func(hist chi.Router) {
						hist.Get("/", studyH.GetBucket)
						hist.Post("/", studyH.Save)
						hist.Put("/", studyH.Save)
					})
				}
			})
		})
	})

	healthHandler := opts.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}
	r.Get("/health", healthHandler)

	if opts.ExtraRoutes != nil {
		opts.ExtraRoutes(r)
	}

	return r, nil
}

// NewH2CHandler wraps the router with an h2c server to provide HTTP/2 over
// cleartext for local clients and reverse proxies.
func NewH2CHandler(opts RouterOptions) (http.Handler, error) {
	router, err := NewRouter(opts)
	if err != nil {
		return nil, err
	}
	return h2c.NewHandler(router, &http2.Server{}), nil
}
