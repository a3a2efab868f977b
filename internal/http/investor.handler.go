package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/appcontext"
	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/entity"
)

func ListInvestors(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		var investors []entity.Investor
		if err := ctx.DB.Order("name asc").Find(&investors).Error; err != nil {
			ctx.Logger.Error("Failed to list investors", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list investors"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"investors": investors})
	}
}
