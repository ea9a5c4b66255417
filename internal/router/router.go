package router

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/handler"
	"github.com/noah-isme/spms-api/internal/middleware"
	"github.com/noah-isme/spms-api/internal/models"
	"github.com/noah-isme/spms-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/spms-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/spms-api/pkg/middleware/requestid"
)

// Authenticator resolves a bearer token into claims.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.JWTClaims, error)
}

// AuditWriter persists audit log entries.
type AuditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// Handlers groups every HTTP handler mounted by the router.
type Handlers struct {
	Auth        *handler.AuthHandler
	Students    *handler.StudentHandler
	Subjects    *handler.SubjectHandler
	Performance *handler.PerformanceHandler
	Alerts      *handler.AlertHandler
	Analytics   *handler.AnalyticsHandler
	Reports     *handler.ReportHandler
	Metrics     *handler.MetricsHandler
}

// RequestObserver records per-request metrics.
type RequestObserver interface {
	ObserveHTTPRequest(method, path string, status int, duration time.Duration)
}

// Options configures cross-cutting middleware.
type Options struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
	Auth           Authenticator
	Audit          AuditWriter
	Metrics        RequestObserver
	Logger         *zap.Logger
}

// New builds the gin engine with every route registered.
func New(h Handlers, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.APIPrefix == "" {
		opts.APIPrefix = "/api"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	r.Use(middleware.Metrics(opts.Metrics))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	rt := &routes{
		jwt:   middleware.JWT(opts.Auth),
		staff: middleware.StaffOnly(),
		audit: func(action, resource string) gin.HandlerFunc {
			return middleware.Audit(opts.Audit, opts.Logger, action, resource)
		},
	}

	api := r.Group(opts.APIPrefix)
	rt.auth(api.Group("/auth"), h.Auth)
	rt.students(api.Group("/students"), h.Students)
	rt.subjects(api.Group("/subjects"), h.Subjects)
	rt.performance(api.Group("/performance"), h.Performance)
	rt.alerts(api.Group("/alerts"), h.Alerts)
	rt.analytics(api.Group("/analytics"), h.Analytics)
	rt.reports(api.Group("/reports"), h.Reports)

	system := api.Group("/system", rt.jwt, middleware.RequireRoles(models.RoleAdmin))
	system.GET("/metrics", h.Metrics.Summary)

	return r
}

type routes struct {
	jwt   gin.HandlerFunc
	staff gin.HandlerFunc
	audit func(action, resource string) gin.HandlerFunc
}

func (rt *routes) auth(g *gin.RouterGroup, h *handler.AuthHandler) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.GET("/me", rt.jwt, h.Me)
	g.PUT("/profile", rt.jwt, h.UpdateProfile)
	g.POST("/logout", rt.jwt, h.Logout)
	g.GET("/users", rt.jwt, rt.staff, h.ListUsers)
}

func (rt *routes) students(g *gin.RouterGroup, h *handler.StudentHandler) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.GET("/:id/performance", h.Performance)
	g.POST("", rt.jwt, rt.staff, rt.audit(models.AuditActionCreate, "student"), h.Create)
	g.PUT("/:id", rt.jwt, rt.staff, rt.audit(models.AuditActionUpdate, "student"), h.Update)
	g.DELETE("/:id", rt.jwt, rt.staff, rt.audit(models.AuditActionDelete, "student"), h.Delete)
}

func (rt *routes) subjects(g *gin.RouterGroup, h *handler.SubjectHandler) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.GET("/:id/statistics", h.Statistics)
	g.POST("", rt.jwt, rt.staff, rt.audit(models.AuditActionCreate, "subject"), h.Create)
	g.PUT("/:id", rt.jwt, rt.staff, rt.audit(models.AuditActionUpdate, "subject"), h.Update)
	g.DELETE("/:id", rt.jwt, rt.staff, rt.audit(models.AuditActionDelete, "subject"), h.Delete)
}

func (rt *routes) performance(g *gin.RouterGroup, h *handler.PerformanceHandler) {
	g.GET("", h.List)
	g.GET("/analytics/overview", h.Overview)
	g.GET("/student/:studentId", rt.jwt, h.ByStudent)
	g.GET("/:id", h.Get)
	g.POST("", rt.jwt, rt.staff, rt.audit(models.AuditActionCreate, "performance"), h.Create)
	g.PUT("/:id", rt.jwt, rt.staff, rt.audit(models.AuditActionUpdate, "performance"), h.Update)
	g.DELETE("/:id", rt.jwt, rt.staff, rt.audit(models.AuditActionDelete, "performance"), h.Delete)
}

func (rt *routes) alerts(g *gin.RouterGroup, h *handler.AlertHandler) {
	g.Use(rt.jwt)
	g.GET("/thresholds", h.Thresholds)
	g.GET("/my-alerts", middleware.RequireRoles(models.RoleStudent), h.MyAlerts)
	g.GET("/at-risk", rt.staff, h.AtRisk)
	g.POST("/notify", rt.staff, rt.audit(models.AuditActionNotify, "alert_digest"), h.Notify)
}

func (rt *routes) analytics(g *gin.RouterGroup, h *handler.AnalyticsHandler) {
	g.Use(rt.jwt)
	g.GET("/class-analytics", rt.staff, h.ClassAnalytics)
	g.GET("/my-performance", middleware.RequireRoles(models.RoleStudent), h.MyPerformance)
	g.GET("/subject-performance/:studentId", h.SubjectPerformance)
}

func (rt *routes) reports(g *gin.RouterGroup, h *handler.ReportHandler) {
	g.Use(rt.jwt, rt.staff)
	g.GET("/at-risk", h.AtRisk)
	g.GET("/class-analytics", h.ClassAnalytics)
}
