package db

import (
	"fmt"
	"log"

	"github.com/andreicopos/UrbanEye/config"
	"github.com/andreicopos/UrbanEye/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	DB *gorm.DB
}

// NewGormDB wraps an already opened connection, e.g. a test database.
func NewGormDB(db *gorm.DB) *GormDB {
	return &GormDB{DB: db}
}

func GetDB(c *config.Config) *GormDB {
	gormDB := &GormDB{}
	gormDB.Init(c)
	return gormDB
}

func (g *GormDB) Init(c *config.Config) {
	db, err := getPostgresDB(c)
	if err != nil {
		log.Fatalf("unable to connect to postgres: %v", err)
	}
	g.DB = db

	if err := Migrate(g.DB); err != nil {
		log.Fatalf("unable to run migrations: %v", err)
	}
}

func getPostgresDB(c *config.Config) (*gorm.DB, error) {
	postgresDSN := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort)

	gormConfig := &gorm.Config{TranslateError: true}
	if !c.IsProduction() {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}
	return gorm.Open(postgres.New(postgres.Config{
		DSN: postgresDSN,
	}), gormConfig)
}

// Migrate creates or updates the users, reports and report_likes tables.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Report{},
		&models.ReportLike{},
	)
	if err != nil {
		return fmt.Errorf("migrations error: %v", err)
	}
	return nil
}

// Ping reports whether the database answers.
func (g *GormDB) Ping() error {
	sqlDB, err := g.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
