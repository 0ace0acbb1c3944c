package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ag3-team/ag3-api/internal/cognito"
	"github.com/ag3-team/ag3-api/internal/config"
	ag3http "github.com/ag3-team/ag3-api/internal/http"
	"github.com/ag3-team/ag3-api/internal/http/handler"
	"github.com/ag3-team/ag3-api/internal/middleware"
	"github.com/ag3-team/ag3-api/internal/nickname"
	"github.com/ag3-team/ag3-api/internal/oauth"
	"github.com/ag3-team/ag3-api/internal/repository"
	"github.com/ag3-team/ag3-api/internal/service"
	"github.com/ag3-team/ag3-api/internal/session"
)

type repositories struct {
	posts     repository.PostRepository
	users     repository.UserRepository
	bookmarks repository.BookmarkRepository
	close     func(ctx context.Context) error
}

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"db_driver", cfg.DB.Driver,
		"auth_dev_mode", cfg.AuthDevMode,
		"log_level", cfg.LogLevel,
	)

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repos.close(closeCtx); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	issuer := session.NewIssuer(cfg.Session.Secret, cfg.Session.Issuer, cfg.Session.TTL)

	// Services
	postSvc := service.NewPostService(repos.posts)
	bookmarkSvc := service.NewBookmarkService(repos.bookmarks)
	userSvc := service.NewUserService(repos.users, repos.bookmarks, cfg.DefaultProfileURL)
	identitySvc := service.NewIdentityService(repos.users, issuer, nickname.NewGenerator(), cfg.DefaultProfileURL)

	providers, err := newProviders(ctx, cfg.OAuth)
	if err != nil {
		return err
	}
	logger.Info("oauth providers registered", "providers", providers.Names())

	auth, err := middleware.NewAuth(middleware.AuthConfig{
		DevMode:    cfg.AuthDevMode,
		Verifier:   issuer,
		CookieName: cfg.Session.CookieName,
	})
	if err != nil {
		return fmt.Errorf("failed to create auth middleware: %w", err)
	}

	router := ag3http.NewRouter(ag3http.Handlers{
		Posts:     handler.NewPostHandler(postSvc),
		Users:     handler.NewUserHandler(userSvc),
		Bookmarks: handler.NewBookmarkHandler(bookmarkSvc),
		Auth: handler.NewAuthHandler(providers, identitySvc, handler.AuthConfig{
			CookieName:   cfg.Session.CookieName,
			CookieDomain: cfg.Session.CookieDomain,
			CookieSecure: cfg.Session.CookieSecure,
			ClientURL:    cfg.OAuth.ClientURL,
		}),
	}, auth, middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	srv := ag3http.NewServer(cfg.ServerPort, logger, router, cfg.OAuth.ClientURL)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}

func openRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) (repositories, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	switch cfg.DB.Driver {
	case "mongo":
		client, db, err := repository.NewMongo(connectCtx, cfg.DB.MongoURI, cfg.DB.Name)
		if err != nil {
			return repositories{}, err
		}
		if err := repository.EnsureMongoIndexes(connectCtx, db); err != nil {
			client.Disconnect(context.Background())
			return repositories{}, err
		}
		logger.Info("mongodb connected", "database", cfg.DB.Name)
		return repositories{
			posts:     repository.NewMongoPost(db),
			users:     repository.NewMongoUser(db),
			bookmarks: repository.NewMongoBookmark(db),
			close:     client.Disconnect,
		}, nil

	default:
		db, err := repository.NewDB(connectCtx, cfg.DB.DSN())
		if err != nil {
			return repositories{}, err
		}
		if cfg.DB.Migrate {
			if err := repository.Migrate(db.DB, logger); err != nil {
				db.Close()
				return repositories{}, err
			}
		}
		logger.Info("database connected")
		return repositories{
			posts:     repository.NewPostgresPost(db),
			users:     repository.NewPostgresUser(db),
			bookmarks: repository.NewPostgresBookmark(db),
			close:     func(context.Context) error { return db.Close() },
		}, nil
	}
}

func newProviders(ctx context.Context, cfg config.OAuthConfig) (*oauth.Registry, error) {
	opts := []oauth.Option{oauth.WithTimeout(cfg.Timeout)}

	var providers []oauth.Provider
	if cfg.Kakao.Enabled() {
		providers = append(providers, oauth.NewKakao(cfg.Kakao.ClientID, cfg.Kakao.ClientSecret, cfg.Kakao.RedirectURL, opts...))
	}
	if cfg.Google.Enabled() {
		providers = append(providers, oauth.NewGoogle(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL, opts...))
	}
	if cfg.Cognito.Enabled() {
		users, err := cognito.NewAWSClient(ctx, cfg.Cognito.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create cognito client: %w", err)
		}
		providers = append(providers, oauth.NewCognito(cfg.Cognito.Domain, cfg.Cognito.AppClientID,
			cfg.Cognito.AppClientSecret, cfg.Cognito.RedirectURL, users, opts...))
	}
	return oauth.NewRegistry(providers...), nil
}
