// Package viz pushes bar store snapshots to an external visualizer. Pushing is
// best effort: bursts are coalesced and failed writes are dropped.
package viz

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/barspan/logging"
)

const writeTimeout = 50 * time.Millisecond

type Pusher struct {
	mu        sync.Mutex
	latest    []byte
	conn      net.Conn
	debounced func(f func())
	logger    *slog.Logger
}

// NewPusher sends snapshots as UDP datagrams to addr at most once per interval.
// An empty addr keeps the latest snapshot without sending it anywhere.
func NewPusher(addr string, interval time.Duration, logger *slog.Logger) (*Pusher, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Pusher{
		debounced: debounce.New(interval),
		logger:    logger,
	}
	if addr != "" {
		conn, err := net.Dial("udp", addr)
		if err != nil {
			return nil, fmt.Errorf("dialing visualizer %s: %w", addr, err)
		}
		p.conn = conn
	}
	return p, nil
}

func (p *Pusher) Push(snapshot []byte) {
	p.mu.Lock()
	p.latest = snapshot
	p.mu.Unlock()
	p.debounced(p.send)
}

// Latest returns the most recent snapshot, or nil before the first push.
func (p *Pusher) Latest() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.latest == nil {
		return nil
	}
	return append([]byte(nil), p.latest...)
}

func (p *Pusher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

func (p *Pusher) send() {
	data := p.Latest()
	if p.conn == nil || data == nil {
		return
	}
	_ = p.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := p.conn.Write(data); err != nil {
		p.logger.Debug("dropped snapshot", "bytes", len(data), "error", err)
	}
}
