package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/campusboard/server/config"
	"github.com/campusboard/server/internal/db"
	"github.com/campusboard/server/internal/gemini"
	"github.com/campusboard/server/internal/handlers"
	"github.com/campusboard/server/internal/logging"
	"github.com/campusboard/server/internal/mq"
	"github.com/campusboard/server/internal/oauth"
	"github.com/campusboard/server/internal/services"
	"github.com/campusboard/server/internal/session"
	"github.com/campusboard/server/internal/storage"
	"github.com/campusboard/server/internal/store"
	"github.com/campusboard/server/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	redis      *redis.Client
	broker     *mq.MQ
	log        logrus.FieldLogger
}

// New connects every backing service named in cfg and builds the router.
func New(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*Server, error) {
	s := &Server{log: log}
	ok := false
	defer func() {
		if !ok {
			s.closeBackends()
		}
	}()

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s.db = dbConn

	sessionStore, err := s.openSessionStore(ctx, cfg.Session)
	if err != nil {
		return nil, err
	}
	sessions := session.New(cfg.Session, sessionStore)

	var events services.EventPublisher = services.NopPublisher{}
	broker, err := mq.Open(ctx, cfg.MQ)
	if err != nil {
		return nil, err
	}
	if broker != nil {
		s.broker = broker
		events = services.NewMQPublisher(broker, cfg.MQ.Channel, log)
		log.WithFields(logrus.Fields{"backend": cfg.MQ.Backend, "channel": cfg.MQ.Channel}).Info("content events enabled")
	}

	var pages services.PageStore
	objects, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	if objects != nil {
		pages = objects
		log.WithFields(logrus.Fields{"backend": cfg.Storage.Backend, "bucket": objects.Bucket()}).Info("building pages enabled")
	}

	var generator services.GenerativeClient
	geminiClient, err := gemini.New(ctx, cfg.Gemini)
	switch {
	case errors.Is(err, gemini.ErrNotConfigured):
		log.Warn("GENAI_API_KEY is not set; Gemini search is disabled")
	case err != nil:
		return nil, err
	default:
		generator = geminiClient
	}

	var provider handlers.OAuthProvider
	googleProvider, err := oauth.NewGoogleProvider(cfg.Google)
	switch {
	case errors.Is(err, oauth.ErrNotConfigured):
		log.Warn("Google OAuth is not configured; Google sign-in is disabled")
	case err != nil:
		return nil, err
	default:
		provider = googleProvider
	}

	repos := services.NewRepositories(dbConn)
	tx := services.NewStoreTransactor(store.NewTransactor(dbConn))

	authService := services.NewAuthService(repos.Users, tx, events, log)
	boardService := services.NewBoardService(repos, tx, events, log)
	buildingService := services.NewBuildingService(pages)
	searchService := services.NewSearchService(generator, log)

	renderer, err := handlers.NewRenderer(web.Templates, log)
	if err != nil {
		return nil, err
	}
	pageHandler := handlers.NewPageHandler(renderer, sessions, log, provider != nil)
	index := handlers.NewIndexHandler(pageHandler, boardService)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		logging.AccessLog(log),
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		}))
		search := handlers.NewSearchHandler(searchService, log)
		r.Post("/gemini-search", search.Search)
		// Preflight requests are answered by the cors middleware.
		r.Options("/gemini-search", func(http.ResponseWriter, *http.Request) {})
	})

	router.Group(func(r chi.Router) {
		r.Use(sessions.LoadAndSave, handlers.LoadUser(sessions, authService, log))
		r.NotFound(index.NotFound)
		r.Get("/", index.Index)
		handlers.AuthRouter(r, handlers.NewAuthHandler(pageHandler, authService, provider, oauth.NewStateSigner(cfg.Session.Secret)))
		handlers.BoardRouter(r, handlers.NewPersonalBoardHandler(pageHandler, boardService))
		handlers.BoardRouter(r, handlers.NewBulletinBoardHandler(pageHandler, boardService))
		r.Get("/building/{id}", handlers.NewBuildingHandler(pageHandler, buildingService).Page)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	s.router = router
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	ok = true
	return s, nil
}

// openSessionStore returns a Redis-backed store when REDIS_ADDR is set and
// nil otherwise, which selects the in-memory store.
func (s *Server) openSessionStore(ctx context.Context, cfg config.SessionConfig) (scs.Store, error) {
	if cfg.RedisAddr == "" {
		s.log.Warn("REDIS_ADDR is not set; sessions are kept in memory")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	s.redis = client
	return session.NewRedisStore(client, cfg.KeyPrefix), nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start runs the HTTP server. It returns nil after Shutdown.
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones until ctx
// is done, then closes the backing services.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.closeBackends()
	return err
}

func (s *Server) closeBackends() {
	if s.broker != nil {
		if err := s.broker.Close(); err != nil {
			s.log.WithError(err).Warn("close message broker")
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.log.WithError(err).Warn("close redis")
		}
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}
