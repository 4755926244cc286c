package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/health-survey-api/internal/handler"
	"github.com/noah-isme/health-survey-api/internal/middleware"
	"github.com/noah-isme/health-survey-api/internal/models"
	"github.com/noah-isme/health-survey-api/pkg/config"
	"github.com/noah-isme/health-survey-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/health-survey-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/health-survey-api/pkg/middleware/requestid"
)

// Handlers groups the HTTP handlers mounted by the router. Exports may be nil
// when export generation is disabled.
type Handlers struct {
	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	Organisation *handler.OrganisationHandler
	Surveys      *handler.SurveyHandler
	Responses    *handler.ResponseHandler
	Governorate  *handler.GovernorateWorkspaceHandler
	Employee     *handler.EmployeeWorkspaceHandler
	Audit        *handler.AuditHandler
	Exports      *handler.ExportHandler
	Metrics      *handler.MetricsHandler
}

// Options carries the cross cutting dependencies of the middleware chain.
type Options struct {
	Config      *config.Config
	Logger      *zap.Logger
	Tokens      middleware.TokenValidator
	Observer    middleware.RequestObserver
	AuditWriter middleware.AuditWriter
}

// NewRouter builds the gin engine with every route of the API.
func NewRouter(opts Options, h Handlers) *gin.Engine {
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	logr := opts.Logger
	if logr == nil {
		logr = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(opts.Observer))
	r.Use(middleware.WithResponseMeta())

	if h.Metrics != nil {
		r.GET("/health", h.Metrics.Health)
		r.GET("/ready", h.Metrics.Ready)
		r.GET("/metrics", h.Metrics.Prometheus)
	} else {
		r.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	auth := middleware.JWT(opts.Tokens)
	admin := middleware.RequireRoles(models.RoleAdmin)
	govAdmin := middleware.RequireRoles(models.RoleGovernorateAdmin)
	employee := middleware.RequireRoles(models.RoleEmployee)
	supervisors := middleware.RequireRoles(models.RoleAdmin, models.RoleGovernorateAdmin)

	authGroup := api.Group("/auth")
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/refresh", h.Auth.Refresh)
	authGroup.POST("/logout", auth, h.Auth.Logout)
	authGroup.POST("/change-password", auth, h.Auth.ChangePassword)
	authGroup.GET("/me", auth, h.Auth.Me)

	users := api.Group("/users", auth, admin)
	users.GET("", h.Users.List)
	users.POST("", h.Users.Create)
	users.GET("/:id", h.Users.Get)
	users.PUT("/:id", h.Users.Update)
	users.DELETE("/:id", h.Users.Delete)
	users.GET("/:id/surveys", h.Users.AllowedSurveys)
	users.PUT("/:id/surveys", h.Users.SetAllowedSurveys)

	governorates := api.Group("/governorates", auth, admin)
	governorates.GET("", h.Organisation.ListGovernorates)
	governorates.POST("", h.Organisation.CreateGovernorate)
	governorates.GET("/:id", h.Organisation.GetGovernorate)
	governorates.PUT("/:id", h.Organisation.UpdateGovernorate)
	governorates.DELETE("/:id", h.Organisation.DeleteGovernorate)

	regions := api.Group("/regions", auth, admin)
	regions.GET("", h.Organisation.ListRegions)
	regions.POST("", h.Organisation.CreateRegion)
	regions.GET("/:id", h.Organisation.GetRegion)
	regions.PUT("/:id", h.Organisation.UpdateRegion)
	regions.DELETE("/:id", h.Organisation.DeleteRegion)

	surveys := api.Group("/surveys", auth)
	surveys.GET("", admin, h.Surveys.List)
	surveys.POST("", admin, h.Surveys.Create)
	surveys.GET("/:id", admin, h.Surveys.Get)
	surveys.PUT("/:id", admin, h.Surveys.Update)
	surveys.DELETE("/:id", admin, h.Surveys.Delete)
	surveys.PUT("/:id/governorates", admin, h.Surveys.SetGovernorates)
	surveys.GET("/:id/responses", supervisors, h.Responses.ListForSurvey)
	surveys.GET("/:id/stats", supervisors, h.Responses.Stats)

	responses := api.Group("/responses", auth)
	responses.GET("/:id", h.Responses.Get)
	responses.PATCH("/:id/details", h.Responses.UpdateDetails)

	gov := api.Group("/governorate", auth, govAdmin)
	gov.GET("", h.Governorate.Workspace)
	gov.GET("/surveys", h.Governorate.Surveys)
	gov.PATCH("/surveys/:id/status", h.Governorate.SetSurveyStatus)
	gov.GET("/employees", h.Governorate.Employees)
	gov.PUT("/employees/:id", h.Governorate.AssignEmployee)

	me := api.Group("/me", auth, employee, middleware.RequireRegion())
	me.GET("/workspace", h.Employee.Workspace)
	me.GET("/surveys", h.Employee.Surveys)
	me.GET("/surveys/:id/form", h.Employee.Form)
	me.GET("/surveys/:id/status", h.Employee.CompletionStatus)
	me.GET("/surveys/:id/responses", h.Employee.Responses)
	me.POST("/surveys/:id/responses", h.Employee.Submit)

	api.GET("/audit-logs", auth, admin, h.Audit.List)
	if h.Metrics != nil {
		api.GET("/admin/system", auth, admin, h.Metrics.System)
	}

	if h.Exports != nil {
		exports := api.Group("/exports")
		exports.GET("/download/:token",
			middleware.Audit(opts.AuditWriter, logr, models.AuditActionDownload, models.AuditResourceExports, "token"),
			h.Exports.Download,
		)
		exports.POST("", auth, supervisors, h.Exports.Create)
		exports.GET("", auth, supervisors, h.Exports.List)
		exports.GET("/:id", auth, supervisors, h.Exports.Status)
	}

	return r
}
