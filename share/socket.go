package share

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/bytedance/sonic"

	"github.com/quickshare/sharesheet-go/tool"
)

// ShareWriteChunkSize is the chunk size when writing payload to the Unix
// socket (avoid large single write).
const ShareWriteChunkSize = 32 * 1024 // 32KB

// SocketTimeout bounds dial, write and reply-read on the facility socket.
var SocketTimeout = 3 * time.Second

// SocketFacility talks to the OS shell's share helper over a Unix domain
// socket: a 4-byte little-endian length prefix followed by the JSON request,
// answered by a small JSON reply that may carry an "error" field.
type SocketFacility struct {
	SocketPath string
}

func NewSocketFacility(socketPath string) *SocketFacility {
	return &SocketFacility{SocketPath: socketPath}
}

// Share implements Facility.
func (s *SocketFacility) Share(req Request) error {
	payload, err := sonic.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to serialize share request: %v", err)
	}

	if _, err := os.Stat(s.SocketPath); os.IsNotExist(err) {
		return fmt.Errorf("share socket not found: %s (is the shell helper running?)", s.SocketPath)
	}

	conn, err := net.DialTimeout("unix", s.SocketPath, SocketTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to share socket %s: %v", s.SocketPath, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close share socket connection: %v", err)
		}
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(SocketTimeout)); err != nil {
		tool.DefaultLogger.Errorf("Failed to set write deadline: %v", err)
	}

	lengthBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lengthBuf, uint32(len(payload)))
	if _, err := conn.Write(lengthBuf); err != nil {
		return fmt.Errorf("failed to write length to share socket: %v", err)
	}
	tool.DefaultLogger.Debugf("Sending share request (len=%d): %s", len(payload), string(payload))
	for off := 0; off < len(payload); {
		chunkEnd := off + ShareWriteChunkSize
		if chunkEnd > len(payload) {
			chunkEnd = len(payload)
		}
		nw, err := conn.Write(payload[off:chunkEnd])
		if err != nil {
			return fmt.Errorf("failed to write payload to share socket: %v", err)
		}
		off += nw
	}

	if err := conn.SetReadDeadline(time.Now().Add(SocketTimeout)); err != nil {
		tool.DefaultLogger.Errorf("Failed to set read deadline: %v", err)
	}

	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read reply from share socket: %v", err)
	}

	if n > 0 {
		var reply map[string]any
		if err := sonic.Unmarshal(buf[:n], &reply); err != nil {
			tool.DefaultLogger.Debugf("Share socket reply (raw): %s", string(buf[:n]))
		} else {
			tool.DefaultLogger.Debugf("Share socket reply: %v", reply)
			if errMsg, ok := reply["error"].(string); ok && errMsg != "" {
				return fmt.Errorf("share helper returned error: %s", errMsg)
			}
		}
	}

	tool.DefaultLogger.Infof("[ShareSocket] Share request issued: %d file(s)", len(req.Files))
	return nil
}
