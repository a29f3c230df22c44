package http

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/vms-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries the non-handler pieces the router mounts
type RouterConfig struct {
	Logger         *slog.Logger
	ClientURL      string
	UploadDir      string // directory served read-only
	UploadPath     string // URL prefix for UploadDir, e.g. /uploads
	MetricsHandler http.Handler
}

func NewRouter(cfg RouterConfig, jwtService jwt.Service, authHandler AuthHandler, employeeHandler EmployeeHandler, visitorHandler VisitorHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.ClientURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.UploadDir != "" {
		uploadPath := "/" + strings.Trim(cfg.UploadPath, "/")
		r.Handle(uploadPath+"/*", http.StripPrefix(uploadPath, http.FileServer(filesOnly{http.Dir(cfg.UploadDir)})))
	}

	tokenAuth := jwtService.JWTAuth()

	r.Route("/api", func(r chi.Router) {
		r.Route("/employees", func(r chi.Router) {
			r.Post("/register", employeeHandler.Register)
			r.Post("/login", authHandler.EmployeeLogin)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(tokenAuth))
				r.Use(middleware.AuthRequired)
				r.Get("/", employeeHandler.List)
			})
		})

		r.Post("/admin/login", authHandler.AdminLogin)

		r.Route("/visitors", func(r chi.Router) {
			r.Post("/", visitorHandler.Create)

			r.Group(func(r chi.Router) {
				r.Use(middleware.StreamVerifier(tokenAuth))
				r.Use(middleware.AuthRequired)
				r.Get("/stream", visitorHandler.Stream)
			})

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(tokenAuth))
				r.Use(middleware.AuthRequired)

				r.Get("/", visitorHandler.List)
				r.With(middleware.AdminOnly).Get("/pending", visitorHandler.ListPending)
				r.Get("/{id}", visitorHandler.Get)
				r.Put("/{id}/status", visitorHandler.UpdateStatus)
			})
		})
	})

	return r
}

// filesOnly hides directories so uploads cannot be listed
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
