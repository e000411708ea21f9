package runtime

import (
	"bufio"
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"turnchat/contract"
	"turnchat/domain"
	"turnchat/errors"
	"turnchat/protocol"
)

// Handler runs the receive loop for one participant. It blocks only on its
// own stream; every inbound frame drives the shared state (sequencer,
// history, turn coordinator) through short critical sections, and all
// outbound frames are sent outside any lock.
type Handler struct {
	role     domain.Role
	conn     net.Conn
	registry *Registry
	seq      *domain.Sequencer
	history  *domain.History
	turns    *TurnCoordinator
	notify   func() // re-evaluates the shutdown condition after liveness changes
	log      *slog.Logger

	departOnce sync.Once
}

func NewHandler(
	log *slog.Logger,
	role domain.Role,
	conn net.Conn,
	registry *Registry,
	seq *domain.Sequencer,
	history *domain.History,
	turns *TurnCoordinator,
	notify func(),
) *Handler {
	return &Handler{
		role:     role,
		conn:     conn,
		registry: registry,
		seq:      seq,
		history:  history,
		turns:    turns,
		notify:   notify,
		log:      log,
	}
}

// Run reads frames until the participant leaves or the stream closes.
// Whatever the exit path, the participant ends up inactive and the peer
// notified exactly once.
func (h *Handler) Run(ctx context.Context) error {
	// Stream closure or read error counts as an involuntary disconnect:
	// no synthetic history entry is recorded for it.
	defer h.depart(false, noticeDisconnected)

	scanner := bufio.NewScanner(h.conn)
	for scanner.Scan() {
		frame, err := protocol.ParseClient(scanner.Text())
		switch {
		case goerrors.Is(err, errors.ErrBlankLine):
			continue
		case err != nil:
			h.log.Warn("Unrecognized frame", "role", h.role, "error", err)
			continue
		}

		switch f := frame.(type) {
		case protocol.Content:
			if domain.IsLeaveText(f.Text) {
				// The magic leave value is recorded as a normal content
				// entry, then handled exactly like an explicit leave.
				seq := h.seq.Next()
				h.history.Append(seq, h.role, f.Text)
				h.log.Info("Leave keyword received", "seq", seq, "role", h.role)
				h.depart(false, noticeLeft)
				return nil
			}
			h.deliver(f.Text)
		case protocol.Quit:
			h.log.Info("Quit requested", "role", h.role)
			h.depart(true, noticeLeft)
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		h.log.Warn("Stream closed with error", "role", h.role, "error", err)
	}
	return nil
}

const (
	noticeLeft         = "left the chat. You can keep sending messages."
	noticeDisconnected = "disconnected. You can continue."
	noticeOffline      = "is offline. Your message was recorded."
)

// deliver stamps, records and routes one content message. The recipient
// gets the message and the turn; if it is inactive the message stays
// recorded and the sender keeps the turn with a notice.
func (h *Handler) deliver(text string) {
	seq := h.seq.Next()
	h.history.Append(seq, h.role, text)
	h.log.Info("Message accepted", "seq", seq, "from", h.role)

	recipient := h.role.Other()
	recipientActive := h.registry.IsActive(recipient)
	grantee := h.turns.OnContent(h.role, recipientActive)

	if recipientActive {
		if peer, ok := h.registry.Peer(recipient); ok {
			h.send(peer, protocol.Delivery{Seq: seq, From: h.role, Text: text})
		}
	} else if h.registry.IsActive(h.role) {
		if peer, ok := h.registry.Peer(h.role); ok {
			h.send(peer, protocol.Notice{Text: fmt.Sprintf("%s %s", recipient, noticeOffline)})
		}
	}

	if peer, ok := h.registry.Peer(grantee); ok && h.registry.IsActive(grantee) {
		h.send(peer, protocol.TurnGrant{})
	}
}

// depart marks the participant inactive and notifies the surviving peer,
// once. The voluntary path records a synthetic leave entry; the involuntary
// path records nothing since the peer signaled nothing explicit.
func (h *Handler) depart(synthetic bool, notice string) {
	h.departOnce.Do(func() {
		if synthetic {
			seq := h.seq.Next()
			h.history.Append(seq, h.role, domain.LeaveKeyword)
		}

		h.registry.MarkInactive(h.role)
		if self, ok := h.registry.Peer(h.role); ok {
			_ = self.Close()
		}
		h.log.Info("Connection closed", "role", h.role)

		peerRole := h.role.Other()
		if grantee, ok := h.turns.OnDeparture(h.role, h.registry.IsActive(peerRole)); ok {
			if peer, exists := h.registry.Peer(grantee); exists {
				h.send(peer, protocol.Notice{Text: fmt.Sprintf("%s %s", h.role, notice)})
				h.send(peer, protocol.TurnGrant{})
			}
		}

		h.notify()
	})
}

// send is best-effort: a write failure is logged and swallowed, the read
// loop of the other side detects its departure independently.
func (h *Handler) send(peer contract.Peer, frame protocol.Frame) {
	if err := peer.Send(frame); err != nil {
		h.log.Warn("Write failed", "role", h.role, "error", err)
	}
}
