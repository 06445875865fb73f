// Package bridge is the localhost surface the window shell integrates with:
// an HTTP API for session state and a WebSocket carrying window events up and
// session notifications down. The shell renders; this process decides.
package bridge

import (
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/quickshare/sharesheet-go/bridge/middlewares"
	"github.com/quickshare/sharesheet-go/session"
	"github.com/quickshare/sharesheet-go/tool"
)

// Server is the HTTP server the window shell connects to.
type Server struct {
	addr   string
	ctl    *session.Controller
	hub    *Hub
	server *http.Server
	mu     sync.RWMutex
}

func NewServer(addr string, ctl *session.Controller, hub *Hub) *Server {
	return &Server{addr: addr, ctl: ctl, hub: hub}
}

func (s *Server) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	v1 := engine.Group("/api/session/v1", middlewares.OnlyAllowLocal)
	{
		v1.GET("/state", s.handleState)      // session state + decode outcome for the action control
		v1.POST("/dismiss", s.handleDismiss) // close the failure notice (never shortens auto-close)
		v1.GET("/share-qr", s.handleShareQR) // QR PNG of the decoded share list
		v1.GET("/events-ws", HandleEventsWS(s.hub, s.ctl))
	}
	return engine
}

// Start serves until the listener fails or the process exits.
func (s *Server) Start() error {
	engine := s.setupRoutes()

	s.mu.Lock()
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: engine,
	}
	server := s.server
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Starting shell bridge on http://%s", s.addr)
	return server.ListenAndServe()
}

func (s *Server) handleState(c *gin.Context) {
	state := s.ctl.State()
	outcome := s.ctl.DecodeOutcome()

	files := make([]gin.H, 0, len(outcome.Files))
	for _, f := range outcome.Files {
		files = append(files, gin.H{
			"id":   f.ID,
			"name": f.Name,
			"path": f.FullPath(),
		})
	}
	data := gin.H{
		"state":    string(state),
		"canShare": outcome.OK() && len(outcome.Files) > 0,
		"files":    files,
	}
	if outcome.Failure != nil {
		data["failure"] = gin.H{
			"kind":    string(outcome.Failure.Kind()),
			"message": outcome.Failure.Message(),
		}
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(data))
}

func (s *Server) handleDismiss(c *gin.Context) {
	s.ctl.DismissNotice()
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}
