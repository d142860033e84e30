package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"egunkari/internal/handler"
	"egunkari/internal/httputil"
	authmw "egunkari/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	PostHandler    *handler.PostHandler
	CommentHandler *handler.CommentHandler
	Sessions       authmw.SessionVerifier

	// StaticDir, when set, serves the browser UI with index.html as fallback.
	StaticDir string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Compress(5))
	r.Use(middleware.SetHeader("X-Content-Type-Options", "nosniff"))
	r.Use(middleware.SetHeader("X-Frame-Options", "SAMEORIGIN"))
	r.Use(middleware.SetHeader("Referrer-Policy", "no-referrer"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/logout", cfg.AuthHandler.Logout)
		r.Get("/posts", cfg.PostHandler.List)
		r.Get("/posts/{id}", cfg.PostHandler.GetByID)
		r.Get("/users/{id}", cfg.UserHandler.GetProfile)

		// Protected routes - session cookie required
		r.Group(func(r chi.Router) {
			r.Use(authmw.AuthMiddleware(cfg.Sessions))

			r.Get("/me", cfg.AuthHandler.Me)
			r.Post("/posts", cfg.PostHandler.Create)
			r.Delete("/posts/{id}", cfg.PostHandler.Delete)
			r.Post("/posts/{id}/like", cfg.PostHandler.Like)
			r.Post("/posts/{id}/comment", cfg.CommentHandler.Create)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			httputil.WriteNotFound(w, "Route not found")
		})
	})

	if cfg.StaticDir != "" {
		r.NotFound(spaHandler(cfg.StaticDir))
	}

	return r
}

// spaHandler serves files from dir, answering unknown paths with index.html.
func spaHandler(dir string) http.HandlerFunc {
	files := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			httputil.WriteNotFound(w, "Route not found")
			return
		}

		name := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			files.ServeHTTP(w, r)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/api/") {
			httputil.WriteNotFound(w, "Route not found")
			return
		}
		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	}
}
