package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"

	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/appcontext"
)

func Search(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")
		if query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'q' is required"})
			return
		}

		searchRequest := &meilisearch.SearchRequest{
			Limit: 20,
		}
		if filter := c.Query("filter"); filter != "" {
			searchRequest.Filter = filter
		}

		searchResponse, err := ctx.MeilisearchClient.Index("portfolio").Search(query, searchRequest)
		if err != nil {
			ctx.Logger.Error("Failed to perform search", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to perform search"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"results": searchResponse.Hits})
	}
}
