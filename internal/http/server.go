package http

import (
	"context"
	"net/http"
	"time"

	"github.com/jmehdipour/iovox-sms/internal/config"
	"github.com/jmehdipour/iovox-sms/internal/http/middleware"
	"github.com/jmehdipour/iovox-sms/internal/metrics"
	"github.com/jmehdipour/iovox-sms/internal/model"
	"github.com/jmehdipour/iovox-sms/internal/repository"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Sender is the send pipeline behind POST /v1/sms/send.
type Sender interface {
	Send(ctx context.Context, f model.Fields) model.Outcome
}

// Deps are the collaborators of the HTTP server. Exchanges and Redis may be nil.
type Deps struct {
	Sender    Sender
	Exchanges repository.ExchangesRepository
	Redis     *redis.Client
	Log       *zap.Logger
}

type Server struct {
	e   *echo.Echo
	log *zap.Logger
}

func NewServer(cfg config.Config, deps Deps) *Server {
	lg := deps.Log
	if lg == nil {
		lg = zap.NewNop()
	}

	// echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.WARN)
	// client IP comes from the socket; forwarded headers are not trusted
	e.IPExtractor = echo.ExtractIPDirect()
	e.Use(echoMid.Recover(), requestLogger(lg))

	reg := prometheus.NewRegistry()
	metrics.MustRegister(reg)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// middlewares
	authMW := middleware.APIKeyMiddleware(cfg.HTTP.APIKeys)
	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          deps.Redis,
		RPS:            cfg.RateLimit.RPS,
		KeyPrefix:      "rl:ip:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	// routes
	v1 := e.Group("/v1", authMW, rlMW)
	v1.POST("/sms/send", sendSMSHandler(deps.Sender))
	if deps.Exchanges != nil {
		v1.GET("/exchanges", listExchangesHandler(deps.Exchanges))
	}

	return &Server{e: e, log: lg}
}

func requestLogger(lg *zap.Logger) echo.MiddlewareFunc {
	return echoMid.RequestLoggerWithConfig(echoMid.RequestLoggerConfig{
		LogMethod:  true,
		LogURIPath: true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echoMid.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("path", v.URIPath),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			lg.Debug("http request", fields...)
			return nil
		},
	})
}

func (s *Server) Handler() http.Handler { return s.e }

func (s *Server) Start(addr string) error {
	s.log.Info("http: listening", zap.String("addr", addr))
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
