package appcontext

import (
	"cloud.google.com/go/storage"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/docsync"
	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/rounds"
)

type Context struct {
	DB     *gorm.DB
	Logger *zap.Logger

	GCSClient     *storage.Client
	GCSBucketName string

	DriveService      docsync.Drive
	MeilisearchClient *meilisearch.Client

	Rounds *rounds.Service
}
