package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/appcontext"
	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/entity"
	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/money"
)

func ListFunds(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		var funds []entity.Fund
		if err := ctx.DB.Order("name asc").Find(&funds).Error; err != nil {
			ctx.Logger.Error("Failed to list funds", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list funds"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"funds": funds})
	}
}

func UpsertFund(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		type upsertFundRequest struct {
			ID                    *uuid.UUID `json:"id"`
			Name                  string     `json:"name" binding:"required"`
			Type                  string     `json:"type"`
			Vintage               string     `json:"vintage"`
			CommittedCapital      string     `json:"committedCapital"`
			InvestableAmount      string     `json:"investableAmount"`
			Currency              string     `json:"currency"`
			FormationDate         *string    `json:"formationDate"`
			InvestmentPeriodStart *string    `json:"investmentPeriodStart"`
			InvestmentPeriodEnd   *string    `json:"investmentPeriodEnd"`
		}

		var request upsertFundRequest
		if err := c.BindJSON(&request); err != nil {
			ctx.Logger.Error("Failed to bind request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to bind request"})
			return
		}

		// Fund sizes are typed with magnitude suffixes ("250M") often enough
		// that the expansion runs before parsing.
		committed, _ := money.ParseCurrency(money.ExpandSuffix(request.CommittedCapital))
		investable, _ := money.ParseCurrency(money.ExpandSuffix(request.InvestableAmount))

		fund := entity.Fund{
			Name:                  strings.TrimSpace(request.Name),
			Type:                  request.Type,
			Vintage:               request.Vintage,
			CommittedCapital:      committed,
			InvestableAmount:      investable,
			Currency:              request.Currency,
			FormationDate:         request.FormationDate,
			InvestmentPeriodStart: request.InvestmentPeriodStart,
			InvestmentPeriodEnd:   request.InvestmentPeriodEnd,
		}
		if fund.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Fund name is required."})
			return
		}
		if request.ID != nil {
			fund.ID = *request.ID
		}

		if err := ctx.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&fund).Error; err != nil {
			ctx.Logger.Error("Failed to save fund", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save fund"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Fund saved successfully", "fund_id": fund.ID})
	}
}

func DeleteFund(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		fundID, err := uuid.Parse(c.Param("fundID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fund ID"})
			return
		}

		var txCount int64
		if err := ctx.DB.Model(&entity.Transaction{}).Where("fund_id = ?", fundID).Count(&txCount).Error; err != nil {
			ctx.Logger.Error("Failed to count fund transactions", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete fund"})
			return
		}
		if txCount > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Fund has recorded transactions. Delete the rounds first."})
			return
		}

		if err := ctx.DB.Delete(&entity.Fund{}, "id = ?", fundID).Error; err != nil {
			ctx.Logger.Error("Failed to delete fund", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete fund"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Fund deleted successfully"})
	}
}
