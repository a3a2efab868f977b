package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/appcontext"
	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/rounds"
)

// statusForWorkflowError maps the tagged workflow error kinds onto HTTP
// status codes so clients can branch without parsing messages.
func statusForWorkflowError(err *rounds.Error) int {
	switch err.Kind {
	case rounds.KindValidation:
		return http.StatusBadRequest
	case rounds.KindNotFound:
		return http.StatusNotFound
	case rounds.KindInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondWithResult(c *gin.Context, result rounds.Result) {
	if !result.Success {
		c.JSON(statusForWorkflowError(result.Err), gin.H{"error": result.Err.Message})
		return
	}
	c.JSON(http.StatusOK, result)
}

func UpsertRound(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID, err := uuid.Parse(c.Param("companyID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID"})
			return
		}

		var input rounds.RoundInput
		if err := c.BindJSON(&input); err != nil {
			ctx.Logger.Error("Failed to bind round payload", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to bind request"})
			return
		}

		result := ctx.Rounds.UpsertRound(input, companyID)
		if !result.Success {
			ctx.Logger.Error("Round save failed", zap.String("company_id", companyID.String()), zap.Error(result.Err))
		}
		respondWithResult(c, result)
	}
}

func DeleteRound(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		roundID, err := uuid.Parse(c.Param("roundID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
			return
		}

		result := ctx.Rounds.DeleteRound(roundID)
		if !result.Success {
			ctx.Logger.Error("Round delete failed", zap.String("round_id", roundID.String()), zap.Error(result.Err))
		}
		respondWithResult(c, result)
	}
}

func ConvertSAFE(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		roundID, err := uuid.Parse(c.Param("roundID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
			return
		}

		var params rounds.ConversionParams
		if err := c.BindJSON(&params); err != nil {
			ctx.Logger.Error("Failed to bind conversion payload", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to bind request"})
			return
		}
		params.RoundID = roundID

		result := ctx.Rounds.ConvertSAFEToEquity(params)
		if !result.Success {
			ctx.Logger.Error("SAFE conversion failed", zap.String("round_id", params.RoundID.String()), zap.Error(result.Err))
		}
		respondWithResult(c, result)
	}
}

func RevertSAFEConversion(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		roundID, err := uuid.Parse(c.Param("roundID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
			return
		}

		result := ctx.Rounds.RevertSAFEConversion(roundID)
		if !result.Success {
			ctx.Logger.Error("SAFE revert failed", zap.String("round_id", roundID.String()), zap.Error(result.Err))
		}
		respondWithResult(c, result)
	}
}
