package di

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/app"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/config"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/database"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/http/handler"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/http/middleware"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/http/router"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/observability"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/repository"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/security"
	"github.com/owuraku-zenas/dump-pad-sub000/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(provideLogger)

func provideLogger(cfg *config.Config) *slog.Logger {
	return observability.NewLogger(cfg.Env, cfg.LogLevel)
}

var InfraSet = wire.NewSet(database.Open, provideRedisClient)

func provideRedisClient(cfg *config.Config) (redis.UniversalClient, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

var SecuritySet = wire.NewSet(provideTokenManager, provideCookieManager)

func provideTokenManager(cfg *config.Config) *security.TokenManager {
	return security.NewTokenManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.SessionSecret, cfg.EmailTokenSecret)
}

func provideCookieManager(cfg *config.Config) *security.CookieManager {
	return security.NewCookieManager(cfg.CookieDomain, cfg.CookieSecure, cfg.CookieSameSite)
}

var RepositorySet = wire.NewSet(
	repository.NewUserRepository,
	repository.NewAccountRepository,
	repository.NewVerificationTokenRepository,
	repository.NewResetTokenRepository,
	repository.NewNoteRepository,
	repository.NewCategoryRepository,
	repository.NewTagRepository,
)

var ServiceSet = wire.NewSet(
	provideMailer,
	provideTokenService,
	provideOAuthProviders,
	service.NewAccountLinker,
	service.NewAuthService,
	provideSessionService,
	service.NewProfileService,
	provideStorageService,
	service.NewNoteService,
	service.NewCategoryService,
	service.NewTagService,
)

// provideMailer picks SMTP when a host is configured; development setups
// without SMTP log the links instead.
func provideMailer(cfg *config.Config, logger *slog.Logger) (service.Mailer, error) {
	if cfg.SMTPHost == "" {
		logger.Warn("SMTP_HOST not set, emails will be logged instead of sent")
		return service.NewDevMailer(logger), nil
	}
	return service.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
}

func provideTokenService(
	verificationTokens repository.VerificationTokenRepository,
	resetTokens repository.ResetTokenRepository,
	tokens *security.TokenManager,
	mailer service.Mailer,
	cfg *config.Config,
) service.TokenService {
	return service.NewTokenService(verificationTokens, resetTokens, tokens, mailer, cfg.PublicBaseURL, cfg.VerificationTokenTTL, cfg.ResetTokenTTL)
}

func provideOAuthProviders(cfg *config.Config) service.OAuthProviderSet {
	providers := service.OAuthProviderSet{}
	if cfg.GoogleClientID != "" {
		providers["google"] = service.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}
	if cfg.GithubClientID != "" {
		providers["github"] = service.NewGithubProvider(cfg.GithubClientID, cfg.GithubClientSecret, cfg.GithubRedirectURL)
	}
	return providers
}

func provideSessionService(users repository.UserRepository, tokens *security.TokenManager, cfg *config.Config) service.SessionService {
	return service.NewSessionService(users, tokens, cfg.SessionTTL)
}

// provideStorageService degrades like the mailer: without an endpoint the
// avatar endpoints answer with a clean error instead of blocking startup.
func provideStorageService(cfg *config.Config, logger *slog.Logger) (service.StorageService, error) {
	if cfg.MinioEndpoint == "" {
		logger.Warn("MINIO_ENDPOINT not set, avatar storage is disabled")
		return service.NewDisabledStorageService(), nil
	}
	return service.NewMinIOStorageService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
}

var HTTPSet = wire.NewSet(
	provideAuthHandler,
	provideProfileHandler,
	handler.NewNoteHandler,
	handler.NewCategoryHandler,
	handler.NewTagHandler,
	provideRouterDependencies,
	router.New,
	provideHTTPServer,
)

func provideAuthHandler(authSvc service.AuthService, sessionSvc service.SessionService, cookies *security.CookieManager, cfg *config.Config) *handler.AuthHandler {
	return handler.NewAuthHandler(authSvc, sessionSvc, cookies, cfg.StateSigningSecret)
}

func provideProfileHandler(profileSvc service.ProfileService, sessionSvc service.SessionService, storageSvc service.StorageService, cookies *security.CookieManager) *handler.ProfileHandler {
	return handler.NewProfileHandler(profileSvc, sessionSvc, storageSvc, cookies)
}

func provideRouterDependencies(
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	noteHandler *handler.NoteHandler,
	categoryHandler *handler.CategoryHandler,
	tagHandler *handler.TagHandler,
	tokens *security.TokenManager,
	redisClient redis.UniversalClient,
	cfg *config.Config,
) router.Dependencies {
	// Prefer the shared Redis window when Redis is configured; otherwise
	// each instance enforces its own local window.
	var authLimiter, apiLimiter *middleware.RateLimiter
	if redisClient != nil {
		limiter := middleware.NewRedisFixedWindowLimiter(redisClient, "dump_pad:rl")
		authLimiter = middleware.NewRateLimiterWith(limiter, cfg.AuthRateLimitPerMin, time.Minute, middleware.FailClosed, "auth", nil)
		apiLimiter = middleware.NewRateLimiterWith(limiter, cfg.APIRateLimitPerMin, time.Minute, middleware.FailOpen, "api", middleware.SubjectOrIPKeyFunc(tokens))
	} else {
		authLimiter = middleware.NewRateLimiter(cfg.AuthRateLimitPerMin, time.Minute)
		apiLimiter = middleware.NewRateLimiterWith(middleware.NewLocalFixedWindowLimiter(), cfg.APIRateLimitPerMin, time.Minute, middleware.FailOpen, "api", middleware.SubjectOrIPKeyFunc(tokens))
	}

	return router.Dependencies{
		AuthHandler:     authHandler,
		ProfileHandler:  profileHandler,
		NoteHandler:     noteHandler,
		CategoryHandler: categoryHandler,
		TagHandler:      tagHandler,
		Tokens:          tokens,
		AuthLimiter:     authLimiter,
		APILimiter:      apiLimiter,
	}
}

func provideHTTPServer(cfg *config.Config, mux *chi.Mux) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

var AppSet = wire.NewSet(app.New)
