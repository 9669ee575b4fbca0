// Package web provides the HTTP server of the auth gate: routing,
// middleware and background job scheduling.
package web

import (
	"context"
	"io"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"authgate/config"
	"authgate/logger"
	"authgate/util/common"
	"authgate/web/controller"
	"authgate/web/job"
	"authgate/web/middleware"
	"authgate/web/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

// Server is the auth gate web server with its controllers and scheduled jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	auth *controller.AuthController

	sessionService service.SessionService
	accessService  service.AccessService

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new web server instance with a cancellable context.
func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{ctx: ctx, cancel: cancel}
}

// initRouter initializes gin, registers middleware and controllers and
// returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()

	basePath := config.GetBasePath()
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	guard := middleware.SessionGuard(&s.sessionService, &s.accessService)

	g := engine.Group(basePath)
	s.auth = controller.NewAuthController(g, guard)

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

// startTask schedules the background maintenance jobs.
func (s *Server) startTask() {
	s.cron.AddJob("@every 10m", job.NewSessionCleanupJob())
}

// Start begins listening and serving HTTP requests.
func (s *Server) Start() (err error) {
	// In case Start is called multiple times after Stop.
	defer func() {
		if err != nil {
			s.Stop()
		}
	}()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	port := config.GetPort()
	if port <= 0 || port > math.MaxUint16 {
		return common.NewErrorf("web port is not a valid port: %v", port)
	}

	addr := net.JoinHostPort(config.GetListen(), strconv.Itoa(port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = listener

	s.cron = cron.New()
	s.cron.Start()
	s.startTask()

	s.httpServer = &http.Server{
		Handler: engine,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("serve err:", err)
		}
	}()

	logger.Infof("%s %s listening on %s", config.GetName(), config.GetVersion(), addr)
	return nil
}

// Stop gracefully shuts down the web server and its jobs.
func (s *Server) Stop() error {
	s.cancel()

	if s.cron != nil {
		s.cron.Stop()
	}

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// Shutdown also closes the listener.
		return s.httpServer.Shutdown(ctx)
	}
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}
