package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/offerdesk/offer-backend/config"
	"github.com/offerdesk/offer-backend/internal/bootstrap"
	"github.com/offerdesk/offer-backend/internal/logger"
	"github.com/offerdesk/offer-backend/internal/offers/janitor"
	"github.com/offerdesk/offer-backend/internal/offers/repository"
	"github.com/offerdesk/offer-backend/internal/offers/service"
	"github.com/offerdesk/offer-backend/internal/offers/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	zlog := logger.New(cfg.App.LogLevel, cfg.App.LogFormat)
	defer zlog.Sync()

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		zlog.Fatal("redis open failed", zap.Error(err))
	}
	defer rdb.Close()

	// Object storage is optional: without it, attachments over the inline
	// threshold record as failed instead of uploading.
	var objects storage.ObjectStore
	if s3Store, err := storage.NewS3Store(ctx, cfg.Storage.Region); err != nil {
		zlog.Warn("object storage unavailable, large attachments will not upload", zap.Error(err))
	} else {
		objects = s3Store
	}

	attachments := storage.NewAttachmentStore(objects, cfg.Storage.Bucket, zlog).
		WithThreshold(cfg.Storage.InlineThreshold).
		WithSignedURLTTL(time.Duration(cfg.Storage.SignedURLTTL) * time.Second)

	repo := repository.NewDraftRepository(rdb)
	sessions := service.NewSessions(repo, attachments, zlog)

	sweep := janitor.New(repo, zlog)
	sweep.Start()
	defer sweep.Stop()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:  "offer-backend",
		Version:      cfg.App.Version,
		AllowOrigins: cfg.Server.AllowOrigins,
		Redis:        rdb,
		Sessions:     sessions,
		Log:          zlog,
	})

	zlog.Info("listening", zap.String("port", cfg.Server.Port))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}
