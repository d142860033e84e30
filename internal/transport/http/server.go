package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"time"

	"egunkari/internal/cache"
	"egunkari/internal/config"
	"egunkari/internal/handler"
	"egunkari/internal/redis"
	"egunkari/internal/repository"
	"egunkari/internal/service"
	"egunkari/internal/sheets"
)

const shutdownTimeout = 10 * time.Second

// Services bundles the domain services behind the HTTP surface.
type Services struct {
	Auth    *service.AuthService
	Users   *service.UserService
	Posts   *service.PostService
	Comment *service.CommentService
}

// NewServices wires repositories over the store and the services over them.
// denylist may be nil.
func NewServices(cfg *config.Config, store sheets.Store, denylist cache.SessionDenylist) *Services {
	userRepo := repository.NewUserRepository(store, cfg.UsersSheet)
	postRepo := repository.NewPostRepository(store, cfg.PostsSheet)

	return &Services{
		Auth:    service.NewAuthService(cfg, denylist),
		Users:   service.NewUserService(userRepo, postRepo),
		Posts:   service.NewPostService(postRepo),
		Comment: service.NewCommentService(postRepo),
	}
}

// NewHandler builds the full HTTP handler.
func NewHandler(cfg *config.Config, svc *Services) stdhttp.Handler {
	return NewRouter(RouterConfig{
		AuthHandler:    handler.NewAuthHandler(svc.Users, svc.Auth, cfg),
		UserHandler:    handler.NewUserHandler(svc.Users),
		PostHandler:    handler.NewPostHandler(svc.Posts),
		CommentHandler: handler.NewCommentHandler(svc.Comment),
		Sessions:       svc.Auth,
		StaticDir:      cfg.StaticDir,
	})
}

// EnsureSheets creates the users and posts sheets with their header rows if missing.
func EnsureSheets(ctx context.Context, cfg *config.Config, store sheets.Store) error {
	if err := store.EnsureSheet(ctx, cfg.UsersSheet, repository.UserHeaders); err != nil {
		return fmt.Errorf("ensure %s: %w", cfg.UsersSheet, err)
	}
	if err := store.EnsureSheet(ctx, cfg.PostsSheet, repository.PostHeaders); err != nil {
		return fmt.Errorf("ensure %s: %w", cfg.PostsSheet, err)
	}
	return nil
}

// Run serves the API until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	store, closeStore, err := sheets.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer closeStore()

	// A missing sheet surfaces later as a 500 on the affected routes.
	if err := EnsureSheets(ctx, cfg, store); err != nil {
		log.Printf("[Server] EnsureSheets FAILED: err=%v", err)
	}

	var denylist cache.SessionDenylist
	if cfg.RedisURL != "" {
		client, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer client.Close()
		denylist = cache.NewSessionDenylist(client.Client)
		log.Println("[Server] session denylist enabled")
	}

	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           NewHandler(cfg, NewServices(cfg, store, denylist)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
