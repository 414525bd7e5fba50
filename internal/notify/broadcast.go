package notify

import (
	"context"
	"encoding/json"
	"net"
	"sync"
)

// Broadcaster publishes status frames as JSON datagrams to a unix socket,
// for status-line integrations (e.g. a tmux status-right script) that want
// panel state without polling dockpane. Sends are best-effort: a missing or
// full socket drops the frame silently, matching the advisory contract.
type Broadcaster struct {
	path string

	mu   sync.Mutex
	conn *net.UnixConn
}

// NewBroadcaster creates a broadcaster targeting the given socket path.
// The socket is dialed lazily on first send.
func NewBroadcaster(path string) *Broadcaster {
	return &Broadcaster{path: path}
}

// ActivePanel implements Sink.
func (b *Broadcaster) ActivePanel(_ context.Context, s Status) {
	payload, err := json.Marshal(s)
	if err != nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		addr, err := net.ResolveUnixAddr("unixgram", b.path)
		if err != nil {
			return
		}
		conn, err := net.DialUnix("unixgram", nil, addr)
		if err != nil {
			return
		}
		b.conn = conn
	}

	if _, err := b.conn.Write(payload); err != nil {
		// The listener may have gone away; redial on the next push.
		_ = b.conn.Close()
		b.conn = nil
	}
}

// Close releases the socket connection.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn != nil {
		_ = b.conn.Close()
		b.conn = nil
	}
}
