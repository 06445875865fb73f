package bridge

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"github.com/quickshare/sharesheet-go/tool"
)

const (
	defaultQRSize = 200
	maxQRSize     = 512
)

// handleShareQR returns a PNG QR code of the decoded share list so a nearby
// device can pick up the file locations visually.
// GET ?size=200x200 (size optional, qrserver-style "WxH" or plain pixels)
func (s *Server) handleShareQR(c *gin.Context) {
	outcome := s.ctl.DecodeOutcome()
	if !outcome.OK() || len(outcome.Files) == 0 {
		c.JSON(http.StatusNotFound, tool.FastReturnError("No decoded share list available"))
		return
	}

	items := make([]map[string]string, 0, len(outcome.Files))
	for _, f := range outcome.Files {
		items = append(items, map[string]string{
			"name": f.Name,
			"path": f.FullPath(),
		})
	}
	data, err := sonic.Marshal(map[string]any{"sharedFiles": items})
	if err != nil {
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to serialize share list: "+err.Error()))
		return
	}

	size := parseSize(c.Query("size"))
	if size <= 0 {
		size = defaultQRSize
	}
	if size > maxQRSize {
		size = maxQRSize
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to encode QR code: "+err.Error()))
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// parseSize parses size from "200x200" or "200" and returns the pixel dimension.
func parseSize(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if idx := strings.Index(s, "x"); idx > 0 {
		s = strings.TrimSpace(s[:idx])
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
