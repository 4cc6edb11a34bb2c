package handler

import (
	"context"
	"net/http"
	"time"

	"contest-entry/internal/auth"
	"contest-entry/internal/domain"
	"contest-entry/internal/logger"
	"contest-entry/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Records is the read side of the submission store used by the admin API.
type Records interface {
	List(ctx context.Context) ([]domain.Submission, error)
	FindById(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
}

type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

type TokenIssuer interface {
	Issue() (string, error)
}

type Deps struct {
	Orders      service.OrderService
	Submissions service.SubmissionService
	Records     Records
	Health      HealthChecker

	// Login checks the raw admin secret; Admin guards the admin routes and
	// usually also accepts tokens from Tokens.
	Login  auth.Authorizer
	Admin  auth.Authorizer
	Tokens TokenIssuer

	Gatherer       prometheus.Gatherer
	MaxUploadBytes int64
	AllowOrigins   []string
	Log            *zap.Logger
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.WithLogging(d.Log), cors.New(corsConfig(d.AllowOrigins)))

	sub := &submissionHandler{
		orders:      d.Orders,
		submissions: d.Submissions,
		maxUpload:   d.MaxUploadBytes,
		log:         d.Log,
	}
	adm := &adminHandler{
		records: d.Records,
		secret:  d.Login,
		tokens:  d.Tokens,
		log:     d.Log,
	}

	api := r.Group("/api")
	{
		s := api.Group("/submissions")
		s.POST("/create-order", sub.createOrder)
		s.POST("/submit", sub.submit)

		a := api.Group("/admin")
		a.POST("/login", adm.login)
		a.GET("/submissions", RequireAdmin(d.Admin), adm.list)
		a.GET("/download/:id", RequireAdmin(d.Admin), adm.download)
	}

	r.GET("/healthz", func(c *gin.Context) {
		stats := d.Health.Health(c.Request.Context())
		status := http.StatusOK
		if stats["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, stats)
	})
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", adminKeyHeader},
		ExposeHeaders: []string{logger.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
