package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/appcontext"
	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/calc"
	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/entity"
)

// GetPortfolioSummary aggregates the whole book: headline KPIs, deployment
// per fund and a per-company line with cost basis, implied value and MOIC.
func GetPortfolioSummary(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		var companies []entity.Company
		if err := ctx.DB.
			Preload("Rounds", func(db *gorm.DB) *gorm.DB { return db.Order("close_date asc") }).
			Preload("Rounds.Transactions").
			Order("name asc").
			Find(&companies).Error; err != nil {
			ctx.Logger.Error("Failed to load portfolio", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load portfolio"})
			return
		}

		var funds []entity.Fund
		if err := ctx.DB.Order("name asc").Find(&funds).Error; err != nil {
			ctx.Logger.Error("Failed to list funds", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load portfolio"})
			return
		}

		deployedByFund := map[string]float64{}
		var totalDeployed, totalAum float64
		activeCompanies := 0

		companyLines := make([]gin.H, 0, len(companies))
		for i := range companies {
			company := &companies[i]
			if company.Status == "Active" {
				activeCompanies++
			}

			var invested, shares, latestPPS float64
			for _, round := range company.Rounds {
				if round.PricePerShare != nil && *round.PricePerShare > 0 {
					latestPPS = *round.PricePerShare
				}
				invested += calc.TotalInvested(round.Transactions)
				for _, tx := range round.Transactions {
					if tx.SharesPurchased != nil {
						shares += *tx.SharesPurchased
					}
					if tx.FundID != nil {
						deployedByFund[tx.FundID.String()] += tx.AmountInvested
					}
				}
			}

			implied := calc.ImpliedValue(shares, invested, latestPPS)
			totalDeployed += invested
			totalAum += implied

			companyLines = append(companyLines, gin.H{
				"id":            company.ID,
				"name":          company.Name,
				"sector":        company.Sector,
				"status":        company.Status,
				"totalInvested": invested,
				"impliedValue":  implied,
				"moic":          calc.MOIC(invested, implied),
			})
		}

		fundLines := make([]gin.H, 0, len(funds))
		for _, fund := range funds {
			deployed := deployedByFund[fund.ID.String()]
			fundLines = append(fundLines, gin.H{
				"id":               fund.ID,
				"name":             fund.Name,
				"committedCapital": fund.CommittedCapital,
				"deployed":         deployed,
				"remaining":        fund.CommittedCapital - deployed,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"kpis": gin.H{
				"totalAum":        totalAum,
				"totalAumText":    calc.FormatCompact(totalAum),
				"capitalDeployed": totalDeployed,
				"activeCompanies": activeCompanies,
			},
			"funds":     fundLines,
			"companies": companyLines,
		})
	}
}
