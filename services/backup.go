package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/andreicopos/UrbanEye/config"
	"github.com/andreicopos/UrbanEye/models"
)

// BackupSink keeps a copy of each submission outside the database. Writes
// are best effort: callers log failures and carry on.
type BackupSink interface {
	Name() string
	Write(ctx context.Context, record models.BackupRecord) error
}

// NewBackupSink builds the sink selected by BACKUP_DRIVER.
func NewBackupSink(c *config.Config, rdb *redis.Client) (BackupSink, error) {
	switch c.BackupDriver {
	case config.BackupDriverFile:
		return NewFileBackupSink(c.ReportsDir)
	case config.BackupDriverRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis backup sink needs a redis client")
		}
		return NewRedisBackupSink(rdb, c.BackupStream), nil
	case config.BackupDriverNone:
		return NopBackupSink{}, nil
	}
	return nil, fmt.Errorf("unknown backup driver %q", c.BackupDriver)
}

// FileBackupSink writes one JSON file per report.
type FileBackupSink struct {
	dir string
}

func NewFileBackupSink(dir string) (*FileBackupSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create reports dir: %w", err)
	}
	return &FileBackupSink{dir: dir}, nil
}

func (f *FileBackupSink) Name() string { return config.BackupDriverFile }

func (f *FileBackupSink) Write(_ context.Context, record models.BackupRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	name := fmt.Sprintf("report_%d_%d.json", record.CreatedAt.Unix(), record.ReportID)
	return os.WriteFile(filepath.Join(f.dir, name), data, 0o644)
}

// RedisBackupSink appends records to a Redis stream.
type RedisBackupSink struct {
	client *redis.Client
	stream string
}

func NewRedisBackupSink(client *redis.Client, stream string) *RedisBackupSink {
	return &RedisBackupSink{client: client, stream: stream}
}

func (r *RedisBackupSink) Name() string { return config.BackupDriverRedis }

func (r *RedisBackupSink) Write(ctx context.Context, record models.BackupRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]interface{}{
			"reportId": record.ReportID,
			"userId":   record.UserID,
			"payload":  string(payload),
		},
	}).Err()
}

type NopBackupSink struct{}

func (NopBackupSink) Name() string { return config.BackupDriverNone }

func (NopBackupSink) Write(context.Context, models.BackupRecord) error { return nil }
