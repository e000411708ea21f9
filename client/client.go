// Package client implements the line-protocol side of a chat participant:
// a receiver loop decoding server frames, turn signaling, and a small send
// API. The interactive input loop lives in cmd/client; tests drive this
// package directly.
package client

import (
	"bufio"
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"turnchat/domain"
	"turnchat/errors"
	"turnchat/projection"
	"turnchat/protocol"
)

// Client is one chat participant talking to the server over TCP.
//
// OnMessage and OnInfo, when set before Run, are invoked from the receiver
// goroutine for every delivered message and notice.
type Client struct {
	OnMessage func(domain.Entry)
	OnInfo    func(string)

	conn       net.Conn
	log        *slog.Logger
	transcript *projection.Transcript

	mu   sync.Mutex
	role domain.Role

	turns chan struct{}
	done  chan struct{}
	once  sync.Once
}

// Dial connects to the server at addr.
func Dial(addr string, log *slog.Logger) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &Client{
		conn:       conn,
		log:        log,
		transcript: projection.NewTranscript(),
		turns:      make(chan struct{}, 1),
		done:       make(chan struct{}),
	}, nil
}

// Run is the receiver loop. It terminates on SHUTDOWN, stream closure or
// context cancellation, and always leaves Done closed behind it.
func (c *Client) Run(ctx context.Context) error {
	defer c.close()

	go func() {
		select {
		case <-ctx.Done():
			_ = c.conn.Close()
		case <-c.done:
		}
	}()

	scanner := bufio.NewScanner(c.conn)
	for scanner.Scan() {
		frame, err := protocol.ParseServer(scanner.Text())
		switch {
		case goerrors.Is(err, errors.ErrBlankLine):
			continue
		case err != nil:
			c.log.Warn("Unrecognized frame from server", "error", err)
			continue
		}

		switch f := frame.(type) {
		case protocol.RoleAssign:
			c.mu.Lock()
			c.role = f.Role
			c.mu.Unlock()
			c.log.Info("Role assigned", "role", f.Role, "starts", f.Starts)
			if f.Starts {
				c.signalTurn()
			}
		case protocol.TurnGrant:
			c.signalTurn()
		case protocol.Delivery:
			entry := domain.Entry{Seq: f.Seq, Sender: f.From, Text: f.Text}
			c.transcript.Observe(entry)
			if c.OnMessage != nil {
				c.OnMessage(entry)
			}
		case protocol.Notice:
			if c.OnInfo != nil {
				c.OnInfo(f.Text)
			}
		case protocol.Shutdown:
			c.log.Info("Server requested shutdown")
			return nil
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("receive: %w", err)
	}
	return nil
}

// Send transmits a content message. The caller is expected to hold the
// turn; the server does not echo the message back.
func (c *Client) Send(text string) error {
	return c.write(protocol.Content{Text: text})
}

// Quit transmits the explicit voluntary leave signal.
func (c *Client) Quit() error {
	return c.write(protocol.Quit{})
}

// Turns is signaled every time the server grants this client the turn.
func (c *Client) Turns() <-chan struct{} {
	return c.turns
}

// Done is closed once the session is over from this client's perspective.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) Role() domain.Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.role
}

// Transcript is the conversation as delivered to this client.
func (c *Client) Transcript() *projection.Transcript {
	return c.transcript
}

func (c *Client) write(frame protocol.Frame) error {
	if _, err := fmt.Fprintf(c.conn, "%s\n", frame.Encode()); err != nil {
		return fmt.Errorf("send %T: %w", frame, err)
	}
	return nil
}

func (c *Client) signalTurn() {
	select {
	case c.turns <- struct{}{}:
	default:
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}
