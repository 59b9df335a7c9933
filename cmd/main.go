// @title Bookworm Backend API
// @version 1.0
// @description Bookworm Backend API for journaling and sharing book recommendations

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/cors"

	_ "BOOKWORM_BACK-END/docs" // This is required for swagger
	"BOOKWORM_BACK-END/internal/auth"
	"BOOKWORM_BACK-END/internal/config"
	"BOOKWORM_BACK-END/internal/database"
	"BOOKWORM_BACK-END/internal/handlers"
	"BOOKWORM_BACK-END/internal/logging"
	"BOOKWORM_BACK-END/internal/media"
	"BOOKWORM_BACK-END/internal/middleware"
	"BOOKWORM_BACK-END/internal/repository"
	"BOOKWORM_BACK-END/internal/repository/memory"
	"BOOKWORM_BACK-END/internal/repository/postgres"
	"BOOKWORM_BACK-END/internal/routes"
	"BOOKWORM_BACK-END/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(context.Background(), "server exited", "error", err)
		logger.Sync()
		os.Exit(1)
	}
}

type stores struct {
	users repository.UserRepository
	books repository.BookRepository
	db    repository.Pinger
	close func()
}

func openStores(ctx context.Context, cfg *config.Config, logger logging.Logger) (*stores, error) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn(ctx, "using in-memory store, data is lost on restart")
		s := memory.NewStore()
		return &stores{users: s.Users(), books: s.Books(), db: s, close: func() {}}, nil
	}

	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info(ctx, "connected to postgres", "host", cfg.Database.Host, "database", cfg.Database.Name)

	return &stores{
		users: postgres.NewUserRepository(pool),
		books: postgres.NewBookRepository(pool),
		db:    pool,
		close: pool.Close,
	}, nil
}

func openMedia(ctx context.Context, cfg *config.Config) (media.Store, repository.Pinger, error) {
	if !cfg.IsMediaConfigured() {
		return media.Disabled{}, nil, nil
	}
	client, err := media.NewS3Client(ctx, cfg.Media)
	if err != nil {
		return nil, nil, err
	}
	store := media.NewS3Store(client, cfg.Media)
	return store, store, nil
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.close()

	mediaStore, mediaCheck, err := openMedia(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open media store: %w", err)
	}

	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	hasher := auth.NewPasswordHasher(cfg.JWT.BcryptCost)

	authService := services.NewAuthService(st.users, hasher, tokens, logger)
	bookService := services.NewBookService(st.books, mediaStore, logger)

	// --- HTTP Handlers ---
	checks := map[string]repository.Pinger{"db": st.db}
	if mediaCheck != nil {
		checks["media"] = mediaCheck
	}

	h := routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService, logger),
		Books:       handlers.NewBookHandler(bookService, logger),
		Health:      handlers.NewHealthHandler(checks),
		RequireAuth: middleware.AuthMiddleware(tokens, st.users, logger),
	}
	if cfg.IsGoogleOAuthConfigured() {
		states := auth.NewStateService(cfg.JWT.Secret, cfg.GoogleOAuth.StateTTL)
		h.Google = handlers.NewGoogleAuthHandler(services.NewGoogleClient(cfg.GoogleOAuth), states, authService, logger)
	}

	router := routes.SetupRoutes(h, logger, middleware.RequestLogger(logger))

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	// --- HTTP Server + Graceful Shutdown ---
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "HTTP server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info(context.Background(), "server stopped")
	return nil
}
