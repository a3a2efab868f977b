package http

import (
	"github.com/gin-gonic/gin"

	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/appcontext"
	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/http/middleware"
)

type APIService struct {
	engine  *gin.Engine
	context *appcontext.Context
}

func NewHTTPService(ctx *appcontext.Context) *APIService {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORSMiddleware())

	service := &APIService{
		engine:  engine,
		context: ctx,
	}
	service.setupRoutes()
	return service
}

func (h *APIService) Engine() *gin.Engine {
	return h.engine
}

func (h *APIService) setupRoutes() {
	v1 := h.engine.Group("/api/v1")
	h.setupCompanyRoutes(v1)
	h.setupRoundRoutes(v1)
	h.setupFundRoutes(v1)
	h.setupInvestorRoutes(v1)
	h.setupDocumentRoutes(v1)
	h.setupPortfolioRoutes(v1)
	h.setupSearchRoutes(v1)
	h.setupBackupRoutes(v1)
}

func (h *APIService) setupCompanyRoutes(group *gin.RouterGroup) {
	companies := group.Group("/companies")
	companies.Use(middleware.JWTAuthMiddleware())

	companies.GET("/", ListCompanies(h.context))
	companies.POST("/", UpsertCompany(h.context))
	companies.GET("/statuses", GetCompanyStatuses(h.context))
	companies.PUT("/statuses", SaveCompanyStatuses(h.context))
	companies.GET("/:companyID", GetCompanyDetails(h.context))
	companies.DELETE("/:companyID", DeleteCompany(h.context))
	companies.POST("/:companyID/rounds", UpsertRound(h.context))
}

func (h *APIService) setupRoundRoutes(group *gin.RouterGroup) {
	rounds := group.Group("/rounds")
	rounds.Use(middleware.JWTAuthMiddleware())

	rounds.DELETE("/:roundID", DeleteRound(h.context))
	rounds.POST("/:roundID/convert", ConvertSAFE(h.context))
	rounds.POST("/:roundID/revert", RevertSAFEConversion(h.context))
}

func (h *APIService) setupFundRoutes(group *gin.RouterGroup) {
	funds := group.Group("/funds")
	funds.Use(middleware.JWTAuthMiddleware())

	funds.GET("/", ListFunds(h.context))
	funds.POST("/", UpsertFund(h.context))
	funds.DELETE("/:fundID", DeleteFund(h.context))
}

func (h *APIService) setupInvestorRoutes(group *gin.RouterGroup) {
	investors := group.Group("/investors")
	investors.Use(middleware.JWTAuthMiddleware())

	investors.GET("/", ListInvestors(h.context))
}

func (h *APIService) setupDocumentRoutes(group *gin.RouterGroup) {
	documents := group.Group("/documents")
	documents.Use(middleware.JWTAuthMiddleware())

	documents.GET("/:companyID", ListDocuments(h.context))
	documents.POST("/:companyID", UploadDocument(h.context))
	documents.DELETE("/:documentID", DeleteDocument(h.context))
}

func (h *APIService) setupPortfolioRoutes(group *gin.RouterGroup) {
	portfolio := group.Group("/portfolio")
	portfolio.Use(middleware.JWTAuthMiddleware())

	portfolio.GET("/summary", GetPortfolioSummary(h.context))
}

func (h *APIService) setupSearchRoutes(group *gin.RouterGroup) {
	search := group.Group("/search")
	search.Use(middleware.JWTAuthMiddleware())

	search.GET("/", Search(h.context))
}

func (h *APIService) setupBackupRoutes(group *gin.RouterGroup) {
	backup := group.Group("/backup")
	backup.Use(middleware.JWTAuthMiddleware())

	backup.GET("/download", DownloadBackup(h.context))
	backup.POST("/run", RunBackup(h.context))
}
