package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/EricSteeles/Curb-Alert/internal/config"
	"github.com/EricSteeles/Curb-Alert/internal/domain/model"
	s3infra "github.com/EricSteeles/Curb-Alert/internal/infra/s3"
	"github.com/EricSteeles/Curb-Alert/internal/jobs/cleanup"
	pgrepo "github.com/EricSteeles/Curb-Alert/internal/repo/postgres"
	redrepo "github.com/EricSteeles/Curb-Alert/internal/repo/redis"
	adminauthsvc "github.com/EricSteeles/Curb-Alert/internal/services/adminauth"
	analyticsvc "github.com/EricSteeles/Curb-Alert/internal/services/analytics"
	geosvc "github.com/EricSteeles/Curb-Alert/internal/services/geo"
	itemsvc "github.com/EricSteeles/Curb-Alert/internal/services/items"
	mediasvc "github.com/EricSteeles/Curb-Alert/internal/services/media"
	modsvc "github.com/EricSteeles/Curb-Alert/internal/services/moderation"
	ratesvc "github.com/EricSteeles/Curb-Alert/internal/services/rate"
	searchsvc "github.com/EricSteeles/Curb-Alert/internal/services/search"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	cleanupJob *cleanup.Job
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	var redisClient *goredis.Client
	if c, err := redrepo.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Warn("redis init failed, continuing in degraded mode", zap.Error(err))
	} else {
		redisClient = c
	}

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	itemRepo := pgrepo.NewItemRepo(pool)
	reportRepo := pgrepo.NewReportRepo(pool)
	sessionRepo := redrepo.NewAdminSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)

	searchService := searchsvc.NewService(cfg.Remote.Search.MinLocationQuery)
	reportLimiter := ratesvc.NewLimiter(rateRepo, cfg.Remote.Moderation.ReportMaxPerDay)
	moderationService := modsvc.NewService(
		itemRepo,
		reportRepo,
		reportLimiter,
		cfg.Remote.Moderation.Denylist,
		cfg.Remote.Moderation.MinTitleLength,
	)
	itemsService := itemsvc.NewService(itemRepo, reportRepo, moderationService, searchService)
	analyticsService := analyticsvc.NewService(itemRepo, log)

	cities := make([]geosvc.City, 0, len(cfg.Remote.Cities))
	for _, city := range cfg.Remote.Cities {
		cities = append(cities, geosvc.City{
			ID:     city.ID,
			Name:   city.Name,
			Center: model.Coordinates{Lat: city.Lat, Lng: city.Lng},
		})
	}
	geoService := geosvc.NewService(cities, nil)

	mediaStorage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket)
	mediaService := mediasvc.NewService(
		mediaStorage,
		cfg.Remote.Media.MaxFiles,
		cfg.Remote.Media.MaxFileSizeMB,
		cfg.Remote.Media.AllowedTypes,
		cfg.Remote.Media.SignedURLExpiry,
	)

	adminAuthService := adminauthsvc.NewService(
		cfg.Admin.Password,
		cfg.Admin.JWTSecret,
		cfg.Admin.SessionTTL,
		sessionRepo,
	)

	RegisterRoutes(r, Dependencies{
		ItemsService:      itemsService,
		ModerationService: moderationService,
		AnalyticsService:  analyticsService,
		GeoService:        geoService,
		MediaService:      mediaService,
		AdminAuthService:  adminAuthService,
		Logger:            log,
		Config:            cfg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		cleanupJob: cleanup.New(itemRepo, cfg.Remote.Cleanup.ItemRetention, log),
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// RunCleanupLoop expires stale listings on the configured interval until the
// context is canceled.
func (a *App) RunCleanupLoop(ctx context.Context) error {
	if a.cleanupJob == nil || a.postgres == nil {
		return nil
	}

	interval := a.cfg.Remote.Cleanup.Interval
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	if err := a.cleanupJob.Run(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := a.cleanupJob.Run(ctx); err != nil {
				return err
			}
		}
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
