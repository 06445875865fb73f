package bridge

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/quickshare/sharesheet-go/session"
	"github.com/quickshare/sharesheet-go/tool"
	"github.com/quickshare/sharesheet-go/types"
)

var eventsWSUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // OnlyAllowLocal middleware already restricts to localhost
	},
}

// Inbound window events are throttled so a shell stuck in a blur/focus storm
// (transient OS notifications, window manager churn) cannot flood the
// controller loop. Dropped events are logged, the connection stays up.
const (
	eventRateLimit = 20
	eventRateBurst = 40
)

// HandleEventsWS upgrades the request to WebSocket, registers the connection
// with the hub for outbound notifications and forwards inbound window events
// to the session controller.
func HandleEventsWS(hub *Hub, ctl *session.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := eventsWSUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer func() {
			if err := conn.Close(); err != nil {
				tool.DefaultLogger.Errorf("Failed to close WebSocket connection: %v", err)
			}
		}()

		hub.Register(conn)
		defer hub.Unregister(conn)

		limiter := rate.NewLimiter(rate.Limit(eventRateLimit), eventRateBurst)
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				break
			}
			if !limiter.Allow() {
				tool.DefaultLogger.Debugf("Dropping window event, rate limit exceeded")
				continue
			}
			var ev types.WindowEvent
			if err := sonic.Unmarshal(payload, &ev); err != nil {
				tool.DefaultLogger.Debugf("Ignoring malformed window event: %s", string(payload))
				continue
			}
			dispatchWindowEvent(ctl, ev)
		}
	}
}

func dispatchWindowEvent(ctl *session.Controller, ev types.WindowEvent) {
	switch ev.Type {
	case types.WindowEventFocus:
		ctl.HandleWindowFocus()
	case types.WindowEventBlur:
		ctl.HandleWindowBlur()
	case types.WindowEventClose:
		ctl.RequestClose()
	case types.WindowEventDismiss:
		ctl.DismissNotice()
	default:
		tool.DefaultLogger.Debugf("Ignoring unknown window event type: %q", ev.Type)
	}
}
