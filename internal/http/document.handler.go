package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/appcontext"
	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/entity"

	"net/http"
)

func ListDocuments(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID, err := uuid.Parse(c.Param("companyID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID"})
			return
		}

		query := ctx.DB.Where("company_id = ?", companyID)
		if roundID := c.Query("roundId"); roundID != "" {
			query = query.Where("round_id = ?", roundID)
		}

		var documents []entity.CompanyDocument
		if err := query.Order("created_at desc").Find(&documents).Error; err != nil {
			ctx.Logger.Error("Failed to list documents", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"documents": documents})
	}
}

// UploadDocument stores the file in GCS under a content hash so re-uploads of
// the same bytes land on the same object, then records it against the company.
func UploadDocument(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID, err := uuid.Parse(c.Param("companyID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID"})
			return
		}

		file, err := c.FormFile("file")
		if err != nil {
			ctx.Logger.Error("Failed to get file from request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to get file from request"})
			return
		}

		src, err := file.Open()
		if err != nil {
			ctx.Logger.Error("Failed to open file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open file"})
			return
		}
		defer src.Close()

		data, err := io.ReadAll(src)
		if err != nil {
			ctx.Logger.Error("Failed to read file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
			return
		}

		sum := sha256.Sum256(data)
		objectPath := companyID.String() + "/" + hex.EncodeToString(sum[:])

		bucketName := ctx.GCSBucketName
		w := ctx.GCSClient.Bucket(bucketName).Object(objectPath).NewWriter(context.Background())
		w.ContentType = file.Header.Get("Content-Type")

		if _, err := w.Write(data); err != nil {
			ctx.Logger.Error("Failed to upload file to GCS: " + err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file to GCS"})
			return
		}

		if err := w.Close(); err != nil {
			ctx.Logger.Error("Failed to close GCS writer: " + err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close GCS writer"})
			return
		}

		fileURL := "https://storage.googleapis.com/" + bucketName + "/" + objectPath

		document := entity.CompanyDocument{
			CompanyID: companyID,
			Name:      file.Filename,
			FileType:  file.Header.Get("Content-Type"),
			SizeBytes: file.Size,
			URL:       fileURL,
		}
		if roundID := c.PostForm("roundId"); roundID != "" {
			parsed, err := uuid.Parse(roundID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
				return
			}
			document.RoundID = &parsed
		}

		if err := ctx.DB.Create(&document).Error; err != nil {
			ctx.Logger.Error("Failed to store document in database", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store document in database"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "File uploaded successfully", "document": document})
	}
}

func DeleteDocument(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		documentID, err := uuid.Parse(c.Param("documentID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
			return
		}

		var document entity.CompanyDocument
		if err := ctx.DB.First(&document, "id = ?", documentID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}

		// The mirror copy is best effort: a failed remote delete must not
		// keep the record alive.
		if document.DriveFileID != nil && ctx.DriveService != nil {
			if err := ctx.DriveService.DeleteFile(*document.DriveFileID); err != nil {
				ctx.Logger.Warn("Failed to delete mirrored file", zap.String("drive_file_id", *document.DriveFileID), zap.Error(err))
			}
		}

		if err := ctx.DB.Delete(&entity.CompanyDocument{}, "id = ?", documentID).Error; err != nil {
			ctx.Logger.Error("Failed to delete document", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
	}
}
