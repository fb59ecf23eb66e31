package main

import (
	"context"
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/andreicopos/UrbanEye/config"
	"github.com/andreicopos/UrbanEye/db"
	"github.com/andreicopos/UrbanEye/detector"
	"github.com/andreicopos/UrbanEye/logger"
	"github.com/andreicopos/UrbanEye/server"
	"github.com/andreicopos/UrbanEye/services"
	"github.com/andreicopos/UrbanEye/storage"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	lg := logger.New(conf.Env, conf.Debug)

	gormDB := db.GetDB(conf)

	store, err := storage.New(context.Background(), conf)
	if err != nil {
		lg.Fatal().Err(err).Str("driver", conf.BlobDriver).Msg("unable to open blob store")
	}

	var rdb *redis.Client
	if conf.BackupDriver == config.BackupDriverRedis {
		opts, err := redis.ParseURL(conf.RedisURL)
		if err != nil {
			lg.Fatal().Err(err).Msg("invalid redis url")
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
	}
	backup, err := services.NewBackupSink(conf, rdb)
	if err != nil {
		lg.Fatal().Err(err).Msg("unable to create backup sink")
	}

	// The classifier deadline comes from DETECT_TIMEOUT via the request context.
	classifier := detector.NewHTTPClassifier(conf.DetectorURL, &http.Client{})

	authRepo := db.NewAuthRepo(gormDB)
	reportRepo := db.NewReportRepo(gormDB)
	likeRepo := db.NewLikeRepo(gormDB)

	mediaService := services.NewMediaService(store, conf)
	authService := services.NewAuthService(authRepo, conf, lg)
	reportService := services.NewReportService(reportRepo, authRepo, mediaService, backup, conf, lg)
	likeService := services.NewLikeService(likeRepo, reportRepo, authRepo, db.NewTransactor(gormDB), conf, lg)
	detectionService := services.NewDetectionService(classifier, conf, lg)

	s := &server.Server{
		Config:           conf,
		Log:              lg,
		DB:               gormDB,
		AuthService:      authService,
		ReportService:    reportService,
		LikeService:      likeService,
		MediaService:     mediaService,
		DetectionService: detectionService,
	}

	lg.Info().
		Str("blob_driver", conf.BlobDriver).
		Str("backup_driver", conf.BackupDriver).
		Str("detector_url", conf.DetectorURL).
		Msg("urbaneye configured")
	s.Start()
}
