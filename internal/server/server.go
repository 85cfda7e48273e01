package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guiyumin/ytdlp-api/internal/core/extractor"
	"github.com/guiyumin/ytdlp-api/internal/core/version"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ExtractRequest is the request body for POST /extract
type ExtractRequest struct {
	URLs []string `json:"urls" binding:"required,dive,http_url"`
}

// errorBody is returned for requests rejected before any extraction
type errorBody struct {
	Detail string `json:"detail"`
}

// BatchRunner resolves a list of URLs into one response
type BatchRunner interface {
	Run(ctx context.Context, urls []string) *extractor.ExtractResponse
}

// Options configures the HTTP server
type Options struct {
	Addr      string
	APIKey    string  // if set, /extract requires X-API-Key
	RateLimit float64 // requests per second on /extract, 0 disables
	Burst     int
}

// Server is the HTTP front of the extraction service
type Server struct {
	opts    Options
	batch   BatchRunner
	logger  *zap.Logger
	limiter *rate.Limiter
	server  *http.Server
	engine  *gin.Engine
}

// NewServer creates a new HTTP server
func NewServer(opts Options, batch BatchRunner, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	registerJSONFieldNames()

	s := &Server{
		opts:   opts,
		batch:  batch,
		logger: logger,
	}

	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = max(int(opts.RateLimit), 1)
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return s
}

// Handler returns the routed gin engine, building it on first use
func (s *Server) Handler() http.Handler {
	if s.engine == nil {
		s.engine = s.routes()
	}
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(s.requestIDMiddleware())
	engine.Use(s.loggingMiddleware())
	engine.Use(s.corsMiddleware())

	engine.GET("/", s.handleRoot)
	engine.GET("/health", s.handleHealth)

	// auth runs first so unauthenticated callers never spend tokens
	extract := []gin.HandlerFunc{}
	if s.opts.APIKey != "" {
		extract = append(extract, s.authMiddleware())
	}
	if s.limiter != nil {
		extract = append(extract, s.rateLimitMiddleware())
	}
	extract = append(extract, s.handleExtract)
	engine.POST("/extract", extract...)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody{Detail: "Not Found"})
	})

	return engine
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // extraction has no bound of its own
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info("starting server",
		zap.String("addr", s.opts.Addr),
		zap.String("version", version.Version),
		zap.Bool("auth", s.opts.APIKey != ""),
		zap.Float64("rate_limit", s.opts.RateLimit),
	)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handlers

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "YT-DLP API",
		"version": version.Version,
		"endpoints": gin.H{
			"/extract": "POST - Extract video information and download links",
			"/health":  "GET - Health check",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleExtract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status, detail := bindError(err)
		c.JSON(status, errorBody{Detail: detail})
		return
	}

	resp := s.batch.Run(c.Request.Context(), req.URLs)

	s.logger.Info("extract finished",
		zap.String("request_id", requestID(c)),
		zap.Int("urls", len(req.URLs)),
		zap.Int("items", len(resp.Data)),
		zap.Int("errors", len(resp.Errors)),
	)

	c.JSON(http.StatusOK, resp)
}
