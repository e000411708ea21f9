package runtime

import (
	"fmt"
	"net"
	"sync"

	"turnchat/contract"
	"turnchat/protocol"
)

// streamPeer wraps the outbound half of a TCP connection. A write lock
// keeps concurrent handlers from interleaving frames on the wire; the lock
// is per-connection, so a slow peer never stalls the other stream.
type streamPeer struct {
	mu   sync.Mutex
	conn net.Conn
}

func NewPeer(conn net.Conn) contract.Peer {
	return &streamPeer{conn: conn}
}

func (p *streamPeer) Send(frame protocol.Frame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := fmt.Fprintf(p.conn, "%s\n", frame.Encode()); err != nil {
		return fmt.Errorf("send %T: %w", frame, err)
	}
	return nil
}

func (p *streamPeer) Close() error {
	return p.conn.Close()
}
