package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"context"

	"cloud.google.com/go/storage"
	"github.com/joho/godotenv"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/appcontext"
	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/docsync"
	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/drive"
	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/entity"
	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/rounds"
)

func InitContext() (*appcontext.Context, error) {
	if err := godotenv.Load(); err != nil {
		zap.L().Warn("No .env file found, using environment variables")
	}

	logger, err := InitLogger()
	if err != nil {
		return nil, err
	}
	defer logger.Sync()

	db, err := InitDB()
	if err != nil {
		return nil, err
	}

	gcsClient, err := InitGCSClient()
	if err != nil {
		return nil, err
	}

	meilisearchClient, err := InitMeilisearch()
	if err != nil {
		return nil, err
	}

	driveService, err := InitDriveService(logger)
	if err != nil {
		return nil, err
	}

	var syncer *docsync.Syncer
	if driveService != nil {
		syncer = docsync.NewSyncer(driveService, logger)
	}

	ctx := &appcontext.Context{
		DB:     db,
		Logger: logger,

		GCSClient:     gcsClient,
		GCSBucketName: os.Getenv("GCS_BUCKET_NAME"),

		DriveService:      driveService,
		MeilisearchClient: meilisearchClient,

		Rounds: rounds.NewService(rounds.NewGormStore(db), logger, syncer),
	}

	return ctx, nil
}

func InitDB() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
	if err != nil {
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	err = db.AutoMigrate(
		&entity.Company{},
		&entity.Fund{},
		&entity.FinancingRound{},
		&entity.Transaction{},
		&entity.Investor{},
		&entity.RoundSyndicate{},
		&entity.CompanyDocument{},
		&entity.Setting{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func InitLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func InitGCSClient() (*storage.Client, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
	}
	return client, nil
}

// InitDriveService is optional: without DRIVE_CREDENTIALS_FILE the document
// mirror is disabled and round saves skip document sync.
func InitDriveService(logger *zap.Logger) (docsync.Drive, error) {
	credentialsPath := os.Getenv("DRIVE_CREDENTIALS_FILE")
	if credentialsPath == "" {
		logger.Warn("DRIVE_CREDENTIALS_FILE not set, document mirroring disabled")
		return nil, nil
	}
	service, err := drive.NewService(context.Background(), credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize drive service: %w", err)
	}
	return service, nil
}

func InitMeilisearch() (*meilisearch.Client, error) {
	host := os.Getenv("MEILISEARCH_HOST")
	if host == "" {
		host = "http://localhost:7700"
	}
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: os.Getenv("MEILISEARCH_API_KEY"),
	})

	_, err := client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        "portfolio",
		PrimaryKey: "id",
	})
	if err != nil {
		// If the error is because the index already exists, that's fine
		if strings.Contains(err.Error(), "already exists") {
			// Index already exists, continue with updating settings
		} else {
			return nil, fmt.Errorf("failed to create index: %w", err)
		}
	}

	task, err := client.Index("portfolio").UpdateFilterableAttributes(&[]string{
		"type",
		"status",
		"sector",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update filterable attributes: %w", err)
	}
	_, err = client.WaitForTask(task.TaskUID)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for filterable attributes update: %w", err)
	}

	task, err = client.Index("portfolio").UpdateSearchableAttributes(&[]string{
		"name",
		"sector",
		"description",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update searchable attributes: %w", err)
	}
	_, err = client.WaitForTask(task.TaskUID)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for searchable attributes update: %w", err)
	}

	return client, nil
}
