package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	apphttp "music-genre-app/internal/http"
	"music-genre-app/internal/config"
	"music-genre-app/internal/feed"
	"music-genre-app/internal/i18n"
	"music-genre-app/internal/repository"
	"music-genre-app/internal/repository/sqlite"
	"music-genre-app/internal/service"
	"music-genre-app/internal/session"
	"music-genre-app/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, keeping %s", cfg.Log.Level, logger.GetLevel())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	songRepo := sqlite.NewSongRepository(db)
	if err := sqlite.InitAll(ctx, userRepo, songRepo); err != nil {
		logger.Fatalf("init repositories: %v", err)
	}
	if cfg.Database.Seed {
		added, err := sqlite.Seed(ctx, userRepo, songRepo)
		if err != nil {
			logger.Fatalf("seed database: %v", err)
		}
		logger.Infof("seeded %d records", added)
	}

	catalogRepo := sqlite.NewCatalogRepository(db)
	if err := logCatalog(ctx, logger, songRepo, catalogRepo); err != nil {
		logger.Warnf("catalog stats: %v", err)
	}

	userService := service.NewUserService(userRepo, 0)
	songService := service.NewSongService(songRepo)

	resolver, err := i18n.NewResolver(cfg.I18n.Supported, cfg.I18n.DefaultLocale, cfg.I18n.CookieName)
	if err != nil {
		logger.Fatalf("locale resolver: %v", err)
	}
	catalog, err := i18n.DefaultCatalog(cfg.I18n.DefaultLocale)
	if err != nil {
		logger.Fatalf("load translations: %v", err)
	}

	var publisher feed.Publisher
	if cfg.Feed.Bucket != "" {
		storageSvc, err := buildStorage(ctx, cfg, logger)
		if err != nil {
			logger.Fatalf("setup storage: %v", err)
		}
		publisher = feed.NewPublisher(feed.Config{
			Bucket:   cfg.Feed.Bucket,
			Key:      cfg.Feed.Key,
			BaseURL:  cfg.Feed.BaseURL,
			Interval: cfg.FeedInterval(),
			ACL:      cfg.Feed.ACL,
			Logger:   logger,
		}, songService, storageSvc)
		if err := publisher.Start(ctx); err != nil {
			logger.Fatalf("start feed publisher: %v", err)
		}
	} else {
		logger.Info("feed bucket not configured, snapshot publishing disabled")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	handler := apphttp.NewHandler(apphttp.Options{
		Users: userService,
		Songs: songService,
		Sessions: session.NewManager(session.Options{
			Secret:     []byte(cfg.Auth.SessionSecret),
			CookieName: cfg.Auth.CookieName,
			TTL:        cfg.SessionTTL(),
			Secure:     cfg.Auth.SecureCookies,
		}),
		Locales:     resolver,
		Catalog:     catalog,
		ThemeCookie: cfg.Theme.CookieName,
		LoginRate:   cfg.Auth.LoginRateLimit,
		LoginBurst:  cfg.Auth.LoginBurst,
		Logger:      logger,
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	if publisher != nil {
		publisher.Shutdown()
	}

	logger.Info("bye")
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Feed.Bucket == "" {
		return nil, fmt.Errorf("feed bucket is required")
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Feed.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Feed.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Feed.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("publishing feed to s3 bucket %s (region %s)", cfg.Feed.Bucket, cfg.Feed.Region)
	return storage.NewS3Service(client), nil
}

func logCatalog(ctx context.Context, logger *logrus.Logger, songs repository.SongRepository, catalog repository.CatalogRepository) error {
	songCount, err := songs.Count(ctx)
	if err != nil {
		return err
	}
	artists, err := catalog.CountArtists(ctx)
	if err != nil {
		return err
	}
	genres, err := catalog.CountGenres(ctx)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"songs":   songCount,
		"artists": artists,
		"genres":  genres,
	}).Info("catalog ready")
	return nil
}
