package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"turnchat/contract"
	"turnchat/domain"
	"turnchat/protocol"
	"turnchat/runtime/workers"
)

// Server owns the whole session: it accepts exactly two participants,
// assigns roles, announces the opening turn, runs one handler per
// connection and performs the one-shot shutdown once both sides are
// inactive. Shutdown is signaled through a channel, never polled.
type Server struct {
	log     *slog.Logger
	addr    string
	initial domain.Role
	out     io.Writer // destination of the final history dump

	registry   *Registry
	seq        *domain.Sequencer
	history    *domain.History
	turns      *TurnCoordinator
	supervisor *workers.Supervisor

	mu         sync.Mutex
	listener   net.Listener
	ready      chan struct{}
	done       chan struct{}
	doneOnce   sync.Once
	finishOnce sync.Once
}

func NewServer(log *slog.Logger, addr string, initial domain.Role, out io.Writer) *Server {
	if !initial.Valid() {
		initial = domain.RoleFirst
	}
	return &Server{
		log:        log,
		addr:       addr,
		initial:    initial,
		out:        out,
		registry:   NewRegistry(),
		seq:        domain.NewSequencer(),
		history:    domain.NewHistory(),
		turns:      NewTurnCoordinator(),
		supervisor: workers.NewSupervisor(log),
		ready:      make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Addr returns the bound listening address. It blocks until the server is
// actually listening, which makes ":0" usable in tests.
func (s *Server) Addr() net.Addr {
	<-s.ready
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listener.Addr()
}

// History exposes the session record for inspection after Run returns.
func (s *Server) History() *domain.History {
	return s.history
}

// Run blocks until the session ends or ctx is canceled. The accept loop
// terminates naturally once two participants are registered; a third
// connection attempt is rejected and closed without touching state.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	close(s.ready)
	s.log.Info("Listening", "addr", ln.Addr().String())

	// Unblock Accept if the parent context is canceled before the session
	// fills up.
	go func() {
		select {
		case <-ctx.Done():
			_ = ln.Close()
		case <-s.done:
		}
	}()

	for s.registry.Count() < 2 {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.finish()
				return ctx.Err()
			}
			return fmt.Errorf("accept: %w", err)
		}

		peer := NewPeer(conn)
		role, err := s.registry.Register(peer, conn.RemoteAddr().String())
		if err != nil {
			s.log.Warn("Connection rejected", "addr", conn.RemoteAddr().String(), "error", err)
			_ = conn.Close()
			continue
		}

		participant, _ := s.registry.Lookup(role)
		s.log.Info("Participant connected",
			"role", role, "addr", participant.Addr, "id", participant.ID)

		handler := NewHandler(s.log, role, conn, s.registry, s.seq, s.history, s.turns, s.checkShutdown)
		s.supervisor.Start(ctx, handler)
	}

	s.turns.Start(s.initial)
	s.sendRolesAndOpeningTurn()

	select {
	case <-s.done:
	case <-ctx.Done():
	}

	s.finish()
	s.supervisor.Wait()
	return nil
}

// sendRolesAndOpeningTurn announces identities to both participants and
// grants the opening turn to the configured starter.
func (s *Server) sendRolesAndOpeningTurn() {
	for _, role := range []domain.Role{domain.RoleFirst, domain.RoleSecond} {
		peer, ok := s.registry.Peer(role)
		if !ok {
			continue
		}
		s.send(peer, protocol.RoleAssign{Role: role, Starts: role == s.initial})
		s.send(peer, protocol.Notice{Text: fmt.Sprintf("Welcome to the chat, %s. Wait for your turn.", role)})
	}

	if starter, ok := s.registry.Peer(s.initial); ok {
		s.send(starter, protocol.TurnGrant{})
	}
}

// checkShutdown is invoked by handlers after every liveness change. The
// first call observing both participants inactive signals the done channel;
// sync.Once keeps racing handlers from signaling twice.
func (s *Server) checkShutdown() {
	if !s.registry.AllInactive() {
		return
	}
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// finish is the one-shot shutdown sequence: dump the ordered history, send
// SHUTDOWN to every connection still registered (best-effort, some are
// already closed), then close everything including the listener.
func (s *Server) finish() {
	s.finishOnce.Do(func() {
		s.dumpHistory()

		for _, role := range []domain.Role{domain.RoleFirst, domain.RoleSecond} {
			if peer, ok := s.registry.Peer(role); ok {
				_ = peer.Send(protocol.Shutdown{})
				_ = peer.Close()
			}
		}

		s.mu.Lock()
		ln := s.listener
		s.mu.Unlock()
		if ln != nil {
			_ = ln.Close()
		}
		s.log.Info("Server finished", "messages", s.history.Len())
	})
}

func (s *Server) dumpHistory() {
	fmt.Fprintln(s.out, "Chat finished. Full conversation (ordered):")

	table := tablewriter.NewWriter(s.out)
	table.SetHeader([]string{"Seq", "From", "Text"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.AppendBulk(lo.Map(s.history.Snapshot(), func(e domain.Entry, _ int) []string {
		return []string{fmt.Sprintf("#%03d", e.Seq), string(e.Sender), e.Text}
	}))
	table.Render()
}

func (s *Server) send(peer contract.Peer, frame protocol.Frame) {
	if err := peer.Send(frame); err != nil {
		s.log.Warn("Write failed", "error", err)
	}
}
