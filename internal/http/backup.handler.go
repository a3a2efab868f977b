package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/appcontext"
	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/export"
	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/services"
	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/utils"
)

func DownloadBackup(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := export.Collect(ctx.DB)
		if err != nil {
			ctx.Logger.Error("Failed to collect backup data", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to collect backup data"})
			return
		}

		now := time.Now().UTC()
		archive, err := export.BuildArchive(data, now)
		if err != nil {
			ctx.Logger.Error("Failed to build backup archive", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build backup archive"})
			return
		}

		filename := fmt.Sprintf("backup_%s.zip", now.Format("2006-01-02"))
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, "application/zip", archive)
	}
}

// RunBackup builds the archive and emails a completion notice to the
// requesting user.
func RunBackup(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		userEmail, err := utils.GetUserEmailFromClaims(c)
		if err != nil {
			ctx.Logger.Error("Failed to get user email from claims", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		data, err := export.Collect(ctx.DB)
		if err != nil {
			ctx.Logger.Error("Failed to collect backup data", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to collect backup data"})
			return
		}

		now := time.Now().UTC()
		archive, err := export.BuildArchive(data, now)
		if err != nil {
			ctx.Logger.Error("Failed to build backup archive", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build backup archive"})
			return
		}

		archiveName := fmt.Sprintf("backup_%s.zip", now.Format("2006-01-02"))
		if err := services.SendBackupEmail(userEmail, archiveName, len(archive)); err != nil {
			ctx.Logger.Warn("Failed to send backup email", zap.Error(err))
		}

		c.JSON(http.StatusOK, gin.H{
			"message":    "Backup generated successfully",
			"archive":    archiveName,
			"size_bytes": len(archive),
		})
	}
}
