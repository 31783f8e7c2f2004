package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"quickai/internal/creations"
	"quickai/internal/generation"
	"quickai/internal/http/handlers"
	httpapi "quickai/internal/http/httpapi"
	"quickai/internal/identity"
	"quickai/internal/infra"
	"quickai/internal/infra/credentials"
	"quickai/internal/infra/geoip"
	"quickai/internal/metrics"
	"quickai/internal/middleware"
	"quickai/internal/pipeline"
	"quickai/internal/providers/clipdrop"
	"quickai/internal/providers/cloudinary"
	"quickai/internal/providers/pdftext"
	"quickai/internal/providers/textgen"
	"quickai/internal/quota"
	"quickai/internal/sqlinline"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	sql := infra.NewSQLRunner(dbpool, logger)
	if _, err := sql.Exec(ctx, sqlinline.QEnsureSchema); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure schema")
	}

	store, closeStore := quotaStore(ctx, cfg, sql, logger)
	defer closeStore()

	creds := credentials.NewStore(sql)
	textKey := resolveKey(ctx, creds, credentials.ProviderTextGen, cfg.TextGenAPIKey, logger)
	clipdropKey := resolveKey(ctx, creds, credentials.ProviderClipdrop, cfg.ClipdropAPIKey, logger)
	cloudinarySecret := resolveKey(ctx, creds, credentials.ProviderCloudinary, cfg.CloudinaryAPISecret, logger)

	text := textgen.NewClient(textgen.Options{
		APIKey:         textKey,
		BaseURL:        cfg.TextGenBaseURL,
		Model:          cfg.TextGenModel,
		Logger:         &logger,
		RequestTimeout: cfg.UpstreamTimeout,
	})
	images := clipdrop.NewClient(clipdrop.Options{
		APIKey:         clipdropKey,
		BaseURL:        cfg.ClipdropBaseURL,
		Logger:         &logger,
		RequestTimeout: cfg.UpstreamTimeout,
	})
	media := cloudinary.NewClient(cloudinary.Options{
		CloudName:      cfg.CloudinaryCloudName,
		APIKey:         cfg.CloudinaryAPIKey,
		APISecret:      cloudinarySecret,
		BaseURL:        cfg.CloudinaryBaseURL,
		Logger:         &logger,
		RequestTimeout: cfg.UpstreamTimeout,
	})
	if !text.HasCredentials() {
		logger.Warn().Msg("text generation api key missing; article, title and resume requests will fail")
	}
	if !images.HasCredentials() {
		logger.Warn().Msg("clipdrop api key missing; image generation will fail")
	}
	if !media.HasCredentials() {
		logger.Warn().Msg("cloudinary credentials incomplete; image capabilities will fail")
	}

	m := metrics.New()
	repo := creations.NewStore(sql)
	orchestrator := generation.NewOrchestrator(text, images, media, pdftext.NewParser())
	runner := pipeline.New(quota.NewLedger(store, logger), orchestrator, creations.NewRecorder(repo), m, logger)

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable; country lookup disabled")
	}
	defer geo.Close()

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMin, logger)
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				limiter.Sweep()
			}
		}
	}()

	app := handlers.NewApp(runner, repo, dbpool, logger)
	router := httpapi.NewRouter(app, httpapi.Options{
		Resolver:    verifier(cfg),
		RateLimiter: limiter,
		Metrics:     m,
		Lookup:      geo.Lookup(),
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().
			Str("auth_mode", cfg.AuthMode).
			Str("quota_backend", cfg.QuotaBackend).
			Str("textgen_model", text.Model()).
			Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPWriteTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func quotaStore(ctx context.Context, cfg *infra.Config, sql infra.SQLExecutor, logger infra.Logger) (quota.Store, func()) {
	switch cfg.QuotaBackend {
	case infra.QuotaBackendRedis:
		client, err := infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		return quota.NewRedisStore(client), func() { _ = client.Close() }
	case infra.QuotaBackendMemory:
		logger.Warn().Msg("in-memory quota backend: counters reset on restart")
		return quota.NewMemoryStore(), func() {}
	default:
		return quota.NewPostgresStore(sql), func() {}
	}
}

func resolveKey(ctx context.Context, store *credentials.Store, provider, configured string, logger infra.Logger) string {
	lookupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	key, err := store.Resolve(lookupCtx, provider, configured)
	if err != nil {
		logger.Warn().Err(err).Str("provider", provider).Msg("failed to load stored api key")
		return configured
	}
	return key
}

func verifier(cfg *infra.Config) *identity.Verifier {
	if cfg.AuthMode == infra.AuthModeJWKS {
		return identity.NewJWKSVerifier(cfg.JWKSURL, cfg.AuthIssuer, &http.Client{Timeout: 10 * time.Second})
	}
	return identity.NewHS256Verifier(cfg.JWTSecret, cfg.AuthIssuer)
}
