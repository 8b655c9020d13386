package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vertiguard/vertiguard-api/internal/handler"
	analysisHandler "github.com/vertiguard/vertiguard-api/internal/handler/analysis"
	authHandler "github.com/vertiguard/vertiguard-api/internal/handler/auth"
	chatHandler "github.com/vertiguard/vertiguard-api/internal/handler/chat"
	contactHandler "github.com/vertiguard/vertiguard-api/internal/handler/contact"
	eventHandler "github.com/vertiguard/vertiguard-api/internal/handler/event"
	monitorHandler "github.com/vertiguard/vertiguard-api/internal/handler/monitor"
	"github.com/vertiguard/vertiguard-api/internal/middleware"
)

type RouterConfig struct {
	RateLimit      float64
	RateBurst      int
	RequestTimeout time.Duration
	CORSConfig     middleware.CORSConfig
	MetricsPrefix  string
}

type Router struct {
	engine    *gin.Engine
	auth      *middleware.AuthMiddleware
	authH     *authHandler.Handler
	contactH  *contactHandler.Handler
	eventH    *eventHandler.Handler
	monitorH  *monitorHandler.Handler
	analysisH *analysisHandler.Handler
	chatH     *chatHandler.Handler
	h         *handler.Handler
	config    RouterConfig
	metrics   *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH *authHandler.Handler,
	contactH *contactHandler.Handler,
	eventH *eventHandler.Handler,
	monitorH *monitorHandler.Handler,
	analysisH *analysisHandler.Handler,
	chatH *chatHandler.Handler,
	h *handler.Handler,
	config RouterConfig,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	r := &Router{
		engine:    engine,
		auth:      auth,
		authH:     authH,
		contactH:  contactH,
		eventH:    eventH,
		monitorH:  monitorH,
		analysisH: analysisH,
		chatH:     chatH,
		h:         h,
		config:    config,
		metrics:   initRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		r.metricsMiddleware(),
	)
	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealthCheck(api)

	// The SSE feed outlives any sane request deadline, so it lives
	// outside the timeout middleware.
	stream := api.Group("")
	stream.Use(r.auth.Authenticate())
	r.eventH.RegisterStreamRoutes(stream)

	api.Use(middleware.Timeout(middleware.TimeoutConfig{Duration: r.config.RequestTimeout}))

	// Public routes
	r.authH.RegisterRoutes(api)

	// Protected routes
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.contactH.RegisterRoutes(protected)
	r.eventH.RegisterRoutes(protected)
	r.monitorH.RegisterRoutes(protected)
	r.analysisH.RegisterRoutes(protected)
	r.chatH.RegisterRoutes(protected)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
		health.GET("/metrics", r.h.MetricsHandler)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	if prefix == "" {
		prefix = "vertiguard"
	}
	m := &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
	prometheus.MustRegister(m.requestDuration, m.requestTotal, m.errorTotal)
	return m
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
