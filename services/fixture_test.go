package services_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andreicopos/UrbanEye/config"
	"github.com/andreicopos/UrbanEye/db"
	"github.com/andreicopos/UrbanEye/logger"
	"github.com/andreicopos/UrbanEye/services"
	"github.com/andreicopos/UrbanEye/storage"
	"github.com/andreicopos/UrbanEye/testutil"
)

type fixture struct {
	conf    *config.Config
	gdb     *db.GormDB
	store   *storage.LocalStore
	reports db.ReportRepository
	likes   db.LikeRepository
	auth    db.AuthRepository

	reportService services.ReportService
	likeService   services.LikeService
	authService   services.AuthService
	mediaService  services.MediaService
}

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		Env:               "test",
		BlobDriver:        config.BlobDriverLocal,
		ImagesDir:         filepath.Join(dir, "images"),
		ImageBaseURL:      "/images/",
		BackupDriver:      config.BackupDriverFile,
		ReportsDir:        filepath.Join(dir, "reports"),
		DetectTimeout:     2 * time.Second,
		DetectorInputSize: 640,
		MaxUploadMB:       8,
	}
}

func newFixture(t *testing.T, backup services.BackupSink) *fixture {
	t.Helper()
	conf := testConfig(t)
	gdb := testutil.NewTestDB(t)

	store, err := storage.NewLocalStore(conf.ImagesDir)
	require.NoError(t, err)

	if backup == nil {
		backup, err = services.NewFileBackupSink(conf.ReportsDir)
		require.NoError(t, err)
	}

	f := &fixture{
		conf:    conf,
		gdb:     gdb,
		store:   store,
		reports: db.NewReportRepo(gdb),
		likes:   db.NewLikeRepo(gdb),
		auth:    db.NewAuthRepo(gdb),
	}
	log := logger.Nop()
	f.mediaService = services.NewMediaService(store, conf)
	f.reportService = services.NewReportService(f.reports, f.auth, f.mediaService, backup, conf, log)
	f.likeService = services.NewLikeService(f.likes, f.reports, f.auth, db.NewTransactor(gdb), conf, log)
	f.authService = services.NewAuthService(f.auth, conf, log)
	return f
}

func strPtr(s string) *string { return &s }
