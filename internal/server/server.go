package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/folioweb/siteserver/config"
	"github.com/folioweb/siteserver/internal/db"
	"github.com/folioweb/siteserver/internal/handlers"
	"github.com/folioweb/siteserver/internal/mq"
	"github.com/folioweb/siteserver/internal/services"
	"github.com/folioweb/siteserver/internal/static"
	"github.com/folioweb/siteserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Server wraps the HTTP server, router, and owned resources.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	bus        *mq.Bus
	log        *zap.Logger
}

// New constructs a Server: opens the database, optionally connects the
// notification broker, and registers all routes.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}

	jwtSecret := strings.TrimSpace(cfg.Auth.JWTSecret)
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	bus, err := mq.Connect(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	contactRepo := store.NewContactRepository(dbConn)

	userService := services.NewUserService(userRepo)

	var publisher services.Publisher
	if bus != nil {
		publisher = bus
	}
	contactService := services.NewContactService(contactRepo, publisher, log)

	authHandler := handlers.NewAuthHandler(userService, jwtSecret, log)
	userHandler := handlers.NewUserHandler(userService, log)
	adminHandler := handlers.NewAdminHandler(userService, jwtSecret, log)
	contactHandler := handlers.NewContactHandler(contactService, log)
	staticHandler := static.New(cfg.StaticDir)

	router := newRouter(log, authHandler, userHandler, adminHandler, contactHandler, staticHandler)

	port := cfg.ServerPort
	if port == 0 {
		port = 3000
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		bus:        bus,
		log:        log,
	}, nil
}

// Router exposes the chi router, mainly for tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.log.Info("server listening", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown releases owned resources and stops the HTTP server.
func (s *Server) Shutdown() error {
	if s.bus != nil {
		_ = s.bus.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}

// newRouter registers all routes. Unmatched GETs fall through to the
// static handler whether the path is unknown or known under a different
// method; non-GET requests get an explicit 404/405 instead of hanging.
func newRouter(
	log *zap.Logger,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	adminHandler *handlers.AdminHandler,
	contactHandler *handlers.ContactHandler,
	staticHandler http.Handler,
) *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		requestLogger(log),
		middleware.Timeout(60*time.Second),
	)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Post("/login", authHandler.Login)
	router.Post("/signup", authHandler.Signup)
	router.Post("/submit", contactHandler.Submit)
	router.Get("/user-info", userHandler.UserInfo)
	router.Route("/admin", func(r chi.Router) {
		r.Use(adminHandler.RequireAdmin)
		r.Get("/search-user", adminHandler.SearchUser)
		r.Get("/search-users-autocomplete", adminHandler.SearchUsersAutocomplete)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			staticHandler.ServeHTTP(w, r)
			return
		}
		writeEnvelope(w, http.StatusNotFound, "Route not found.")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		// A GET to a POST-only path is still a static lookup.
		if r.Method == http.MethodGet {
			staticHandler.ServeHTTP(w, r)
			return
		}
		writeEnvelope(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	return router
}

func writeEnvelope(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"success":false,"message":%q}`, message)
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
