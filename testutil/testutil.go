// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andreicopos/UrbanEye/db"
	"github.com/andreicopos/UrbanEye/detector"
	"github.com/andreicopos/UrbanEye/models"
)

// NewTestDB opens a migrated sqlite database in a temp dir. The pool is
// capped at one connection, so concurrent callers run one transaction at a
// time. Tests on top of it check outcome accounting, not races; the
// Postgres statements are pinned in db/postgres_sql_test.go.
func NewTestDB(t *testing.T) *db.GormDB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "urbaneye.db") + "?_foreign_keys=on&_busy_timeout=5000"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return db.NewGormDB(gdb)
}

var userSeq atomic.Int64

// CreateUser inserts a user with unique contact details.
func CreateUser(t *testing.T, gdb *db.GormDB, name, surname string) *models.User {
	t.Helper()
	n := userSeq.Add(1)
	user := &models.User{
		Name:           name,
		Surname:        surname,
		Age:            30,
		City:           "Cluj",
		Phone:          fmt.Sprintf("+4070000%04d", n),
		Email:          fmt.Sprintf("user%d@example.com", n),
		HashedPassword: "not-a-real-hash",
	}
	require.NoError(t, gdb.DB.Create(user).Error)
	return user
}

// PNG returns an encoded w x h image.
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 90, G: 90, B: 90, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

// StubClassifier returns a canned output and records the input size.
type StubClassifier struct {
	Output *detector.Output
	Err    error

	mu    sync.Mutex
	calls int
	size  image.Point
}

func (s *StubClassifier) Classify(ctx context.Context, img image.Image) (*detector.Output, error) {
	s.mu.Lock()
	s.calls++
	s.size = img.Bounds().Size()
	s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	if s.Output == nil {
		return &detector.Output{}, nil
	}
	return s.Output, nil
}

func (s *StubClassifier) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// LastSize is the size of the last image passed to Classify.
func (s *StubClassifier) LastSize() image.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// BlockingClassifier waits for ctx to end, as a hung detector would.
type BlockingClassifier struct{}

func (BlockingClassifier) Classify(ctx context.Context, _ image.Image) (*detector.Output, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
