package http

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/appcontext"
	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/calc"
	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/entity"
	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/utils"
)

const statusSettingKey = "company_statuses"

var defaultCompanyStatuses = []string{"Active", "Watchlist", "Exit", "Shutdown"}

func UpsertCompany(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		type upsertCompanyRequest struct {
			ID           *uuid.UUID `json:"id"`
			Name         string     `json:"name" binding:"required"`
			Sector       string     `json:"sector"`
			Status       string     `json:"status"`
			Headquarters string     `json:"headquarters"`
			Website      string     `json:"website"`
			Description  string     `json:"description"`
		}

		var request upsertCompanyRequest
		if err := c.BindJSON(&request); err != nil {
			ctx.Logger.Error("Failed to bind request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to bind request"})
			return
		}

		company := entity.Company{
			Name:         strings.TrimSpace(request.Name),
			Sector:       request.Sector,
			Status:       request.Status,
			Headquarters: request.Headquarters,
			Website:      request.Website,
			Description:  request.Description,
		}
		if request.ID != nil {
			company.ID = *request.ID
		}

		if err := ctx.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&company).Error; err != nil {
			ctx.Logger.Error("Failed to save company", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save company"})
			return
		}

		if err := utils.IndexDocument(ctx, utils.CompanyToDocument(&company)); err != nil {
			ctx.Logger.Warn("Failed to index company for search", zap.Error(err))
		}

		c.JSON(http.StatusOK, gin.H{"message": "Company saved successfully", "company_id": company.ID})
	}
}

func ListCompanies(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		var companies []entity.Company
		if err := ctx.DB.Order("name asc").Find(&companies).Error; err != nil {
			ctx.Logger.Error("Failed to list companies", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list companies"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"companies": companies})
	}
}

func GetCompanyDetails(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID, err := uuid.Parse(c.Param("companyID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID"})
			return
		}

		var company entity.Company
		if err := ctx.DB.
			Preload("Rounds", func(db *gorm.DB) *gorm.DB { return db.Order("close_date asc") }).
			Preload("Rounds.Transactions.Fund").
			Preload("Rounds.Syndicate.Investor").
			Preload("Documents").
			First(&company, "id = ?", companyID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
			return
		}

		summary := summarizeCompany(&company)

		c.JSON(http.StatusOK, gin.H{"company": company, "summary": summary})
	}
}

// summarizeCompany derives position metrics from the round history: cost
// basis, the latest priced share value, the implied position value and MOIC.
func summarizeCompany(company *entity.Company) gin.H {
	var invested, shares float64
	var latestPPS float64
	for _, round := range company.Rounds {
		if round.PricePerShare != nil && *round.PricePerShare > 0 {
			latestPPS = *round.PricePerShare
		}
		invested += calc.TotalInvested(round.Transactions)
		for _, tx := range round.Transactions {
			if tx.SharesPurchased != nil {
				shares += *tx.SharesPurchased
			}
		}
	}

	implied := calc.ImpliedValue(shares, invested, latestPPS)
	return gin.H{
		"totalInvested":    invested,
		"totalShares":      shares,
		"latestPPS":        latestPPS,
		"impliedValue":     implied,
		"moic":             calc.MOIC(invested, implied),
		"impliedValueText": calc.FormatCompact(implied),
	}
}

func DeleteCompany(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID, err := uuid.Parse(c.Param("companyID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID"})
			return
		}

		var roundCount int64
		if err := ctx.DB.Model(&entity.FinancingRound{}).Where("company_id = ?", companyID).Count(&roundCount).Error; err != nil {
			ctx.Logger.Error("Failed to count rounds", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete company"})
			return
		}
		if roundCount > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Company has financing rounds. Delete the rounds first."})
			return
		}

		if err := ctx.DB.Delete(&entity.Company{}, "id = ?", companyID).Error; err != nil {
			ctx.Logger.Error("Failed to delete company", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete company"})
			return
		}

		if err := utils.RemoveDocument(ctx, companyID.String()); err != nil {
			ctx.Logger.Warn("Failed to remove company from search index", zap.Error(err))
		}

		c.JSON(http.StatusOK, gin.H{"message": "Company deleted successfully"})
	}
}

// GetCompanyStatuses merges the built-in statuses, any custom list saved in
// settings and every status currently in use, deduplicated in that order.
func GetCompanyStatuses(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		merged := append([]string{}, defaultCompanyStatuses...)
		seen := map[string]bool{}
		for _, s := range merged {
			seen[s] = true
		}

		var setting entity.Setting
		if err := ctx.DB.Where("key = ?", statusSettingKey).First(&setting).Error; err == nil {
			var saved []string
			if err := json.Unmarshal([]byte(setting.Value), &saved); err == nil {
				for _, s := range saved {
					if s != "" && !seen[s] {
						seen[s] = true
						merged = append(merged, s)
					}
				}
			}
		}

		var inUse []string
		if err := ctx.DB.Model(&entity.Company{}).Distinct("status").Where("status <> ''").Pluck("status", &inUse).Error; err != nil {
			ctx.Logger.Error("Failed to fetch statuses in use", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statuses"})
			return
		}
		sort.Strings(inUse)
		for _, s := range inUse {
			if !seen[s] {
				seen[s] = true
				merged = append(merged, s)
			}
		}

		c.JSON(http.StatusOK, gin.H{"statuses": merged})
	}
}

func SaveCompanyStatuses(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		type saveStatusesRequest struct {
			Statuses []string `json:"statuses" binding:"required"`
		}

		var request saveStatusesRequest
		if err := c.BindJSON(&request); err != nil {
			ctx.Logger.Error("Failed to bind request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to bind request"})
			return
		}

		raw, err := json.Marshal(request.Statuses)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status list"})
			return
		}

		setting := entity.Setting{Key: statusSettingKey, Value: entity.JSONB(raw)}
		if err := ctx.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&setting).Error; err != nil {
			ctx.Logger.Error("Failed to save statuses", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save statuses"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Statuses saved successfully"})
	}
}
