package server

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/yatube/internal/auth"
	"github.com/sakif/yatube/internal/config"
	"github.com/sakif/yatube/internal/handler"
	"github.com/sakif/yatube/internal/middleware"
	sqliteRepo "github.com/sakif/yatube/internal/repository/sqlite"
	"github.com/sakif/yatube/internal/service"
	"github.com/sakif/yatube/internal/storage"
	"github.com/sakif/yatube/web"
)

// cacheSweepInterval is how often expired pages are dropped from memory.
const cacheSweepInterval = time.Minute

// Server owns the router, the database and the page cache.
type Server struct {
	router    *chi.Mux
	config    *config.Config
	logger    *slog.Logger
	db        *sqliteRepo.DB // closed on shutdown
	images    storage.ImageStore
	pageCache *middleware.PageCache
}

// New opens the database and wires every layer:
//
//	router → handlers → services → sqlite.DB
//	                            ↘ images (local disk or S3)
//
// images may be nil, in which case uploads go to cfg.MediaDir.
func New(cfg *config.Config, logger *slog.Logger, images storage.ImageStore) (*Server, error) {
	if images == nil {
		local, err := storage.NewLocalStore(cfg.MediaDir, "/media/")
		if err != nil {
			return nil, err
		}
		images = local
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		logger:    logger,
		db:        db,
		images:    images,
		pageCache: middleware.NewPageCache(cfg.IndexCacheTTL),
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the router, for tests and for embedding in another server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// DB returns the repository the server is wired to.
func (s *Server) DB() *sqliteRepo.DB {
	return s.db
}

// Close releases the database. Start calls it on shutdown.
func (s *Server) Close() error {
	return s.db.Close()
}

func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.SessionTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	renderer, err := handler.NewTemplateRenderer(web.FS, handler.Funcs(s.images))
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	// --- Services ---
	// sqlite.DB satisfies every repository interface.
	feed := service.NewFeedService(s.db, s.db, s.db, s.db, s.config.PaginateBy, s.logger)
	posts := service.NewPostService(s.db, s.db, s.db, s.images, s.logger)
	groups := service.NewGroupService(s.db, s.logger)
	follows := service.NewFollowService(s.db, s.db, s.logger)
	accounts := service.NewAuthService(s.db, tokens, auth.NewPasswordService(), s.logger)

	var github handler.GitHubLogin
	if s.config.GitHubEnabled() {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}

	// --- Handlers ---
	pages := handler.NewPages(renderer, accounts, github != nil, s.logger)
	postHandler := handler.NewPostHandler(feed, posts, groups, pages, s.config.MaxUploadBytes)
	followHandler := handler.NewFollowHandler(feed, follows, pages)
	aboutHandler := handler.NewAboutHandler(pages)
	authHandler := handler.NewAuthHandler(accounts, github, pages, s.logger)

	// --- Middleware ---
	// Order matters: each wraps everything registered after it.
	s.router.Use(chimiddleware.RequestID) // Adds X-Request-ID header
	s.router.Use(chimiddleware.RealIP)    // Extracts real IP from X-Forwarded-For
	s.router.Use(chimiddleware.Recoverer) // Recovers from panics, returns 500
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(auth.OptionalAuth(tokens))

	s.router.NotFound(pages.NotFound)

	// --- Static files ---
	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		return fmt.Errorf("opening static files: %w", err)
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	if local, ok := s.images.(*storage.LocalStore); ok {
		s.router.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(local.Dir))))
	}

	// --- Public pages ---
	s.router.With(middleware.CachePage(s.pageCache, auth.SessionCookie, s.logger)).
		Get("/", postHandler.HandleIndex)
	s.router.Get("/group/{slug}/", postHandler.HandleGroup)
	s.router.Get("/profile/{username}/", postHandler.HandleProfile)
	s.router.Get("/posts/{postID}/", postHandler.HandleDetail)
	s.router.Get("/about/author/", aboutHandler.HandleAuthor)
	s.router.Get("/about/tech/", aboutHandler.HandleTech)

	// --- Accounts ---
	s.router.Route("/auth", func(r chi.Router) {
		r.Get("/signup/", authHandler.HandleSignup)
		r.Post("/signup/", authHandler.HandleSignup)
		r.Get("/login/", authHandler.HandleLogin)
		r.Post("/login/", authHandler.HandleLogin)
		r.Get("/logout/", authHandler.HandleLogout)
		r.Post("/logout/", authHandler.HandleLogout)

		if github != nil {
			r.Get("/github/login", authHandler.HandleGitHubLogin)
			r.Get("/github/callback", authHandler.HandleGitHubCallback)
		}
	})

	// --- Pages that need a login ---
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireLogin(handler.LoginPath))

		r.Get("/create/", postHandler.HandleCreate)
		r.Post("/create/", postHandler.HandleCreate)
		r.Get("/posts/{postID}/edit/", postHandler.HandleEdit)
		r.Post("/posts/{postID}/edit/", postHandler.HandleEdit)
		r.Get("/posts/{postID}/comment/", postHandler.HandleComment)
		r.Post("/posts/{postID}/comment/", postHandler.HandleComment)

		r.Get("/follow/", followHandler.HandleFeed)
		r.Get("/profile/{username}/follow/", followHandler.HandleFollow)
		r.Get("/profile/{username}/unfollow/", followHandler.HandleUnfollow)
	})

	return nil
}

// Start serves HTTP until SIGINT or SIGTERM, then drains in-flight
// requests for up to 30 seconds.
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go s.sweepCache(sweepCtx)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

func (s *Server) sweepCache(ctx context.Context) {
	ticker := time.NewTicker(cacheSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.pageCache.Sweep(); n > 0 {
				s.logger.Debug("page cache swept", slog.Int("evicted", n))
			}
		}
	}
}
