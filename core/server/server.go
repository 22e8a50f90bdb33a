package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/ftl/iqscope/core"
)

const (
	frameEndpoint  = "/scope/v1/frame"
	configEndpoint = "/scope/v1/config"
)

// Controller gives access to the frames and the configuration of the scope.
type Controller interface {
	LastFrame() core.Frame
	View() core.ViewConfig
	Trigger() core.TriggerState
	SetView(core.ViewConfig)
	SetTrigger(core.TriggerState)
}

// Server exposes the latest frame and the scope configuration over HTTP.
type Server struct {
	srv        *http.Server
	controller Controller
}

// New returns a new server that listens on the given address.
func New(addr string, controller Controller) *Server {
	result := &Server{
		controller: controller,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), logRequests)
	engine.GET(frameEndpoint, result.getFrame)
	engine.GET(configEndpoint, result.getConfig)
	engine.PUT(configEndpoint, result.putConfig)

	result.srv = &http.Server{Addr: addr, Handler: engine}
	return result
}

func logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	log.Printf("[DEBUG] %s %s %d %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
}

// Handler of the server.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run the server until the context is done.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown: %v", err)
		}
	}()

	log.Printf("[INFO] serving on %s", s.srv.Addr)
	err := s.srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "server error")
	}
	return nil
}

func (s *Server) getFrame(c *gin.Context) {
	c.JSON(http.StatusOK, toFrameJSON(s.controller.LastFrame()))
}

func (s *Server) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, toConfigJSON(s.controller.View(), s.controller.Trigger()))
}

func (s *Server) putConfig(c *gin.Context) {
	var incoming configUpdate
	if err := c.ShouldBindJSON(&incoming); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, trigger := s.controller.View(), s.controller.Trigger()
	view, trigger, err := incoming.apply(view, trigger)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if incoming.changesView() {
		s.controller.SetView(view)
	}
	if incoming.Trigger != nil {
		s.controller.SetTrigger(trigger)
	}
	c.JSON(http.StatusAccepted, toConfigJSON(view, trigger))
}
