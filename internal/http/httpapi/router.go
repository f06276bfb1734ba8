package httpapi

import (
	"net/http"
	"strings"

	"imageeditor/internal/http/handlers"
	appmw "imageeditor/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// FunctionsBasePath is where Netlify-style deployments expose functions.
const FunctionsBasePath = "/.netlify/functions"

// Options selects the surface mounted next to the API.
type Options struct {
	AllowedOrigins []string
	// PublicDir, when set, is served at "/".
	PublicDir string
	// GeneratedDir, when set, is served at GeneratedURLPrefix.
	GeneratedDir       string
	GeneratedURLPrefix string
	// APIBasePaths defaults to "/api".
	APIBasePaths []string
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		appmw.RequestID,
		middleware.RealIP,
		appmw.Logger(*app.Logger),
		middleware.Recoverer,
		appmw.CORS(opts.AllowedOrigins),
	)
	r.MethodNotAllowed(app.MethodNotAllowed)

	r.Get("/healthz", app.Health)

	bases := opts.APIBasePaths
	if len(bases) == 0 {
		bases = []string{"/api"}
	}
	for _, base := range bases {
		r.Route("/"+strings.Trim(base, "/"), func(r chi.Router) {
			r.Post("/generate-image", app.GenerateImage)
			r.Post("/manipulate-image", app.ManipulateImage)
			r.Post("/generate-child", app.GenerateChild)
		})
	}

	if opts.GeneratedDir != "" {
		prefix := "/" + strings.Trim(opts.GeneratedURLPrefix, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(opts.GeneratedDir))))
	}
	if opts.PublicDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(opts.PublicDir)))
	}

	return r
}
