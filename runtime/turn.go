package runtime

import (
	"sync"

	"turnchat/domain"
)

// TurnState is the phase of the turn state machine.
type TurnState int

const (
	TurnNotStarted TurnState = iota
	TurnAwaiting
	TurnEnded
)

// TurnCoordinator owns whose turn it is. Every transition is computed
// synchronously under the lock; callers send the matching TURN/INFO frames
// only after the method has returned, never while the lock is held.
//
// The turn is never granted to an inactive role: callers pass the liveness
// of the relevant peer, read from the registry, into each transition.
type TurnCoordinator struct {
	mu     sync.Mutex
	state  TurnState
	holder domain.Role
}

func NewTurnCoordinator() *TurnCoordinator {
	return &TurnCoordinator{state: TurnNotStarted}
}

// Start opens the session with the configured opening role. Calling it
// again after the session started is a no-op.
func (c *TurnCoordinator) Start(initial domain.Role) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != TurnNotStarted {
		return
	}
	c.state = TurnAwaiting
	c.holder = initial
}

// Holder returns the role currently holding the turn. ok is false before
// the session starts and after it ends.
func (c *TurnCoordinator) Holder() (domain.Role, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != TurnAwaiting {
		return "", false
	}
	return c.holder, true
}

// OnContent records that sender produced a content message and returns the
// role now holding the turn: the recipient when it is active, otherwise the
// sender keeps it so it may continue.
func (c *TurnCoordinator) OnContent(sender domain.Role, recipientActive bool) domain.Role {
	c.mu.Lock()
	defer c.mu.Unlock()

	if recipientActive {
		c.holder = sender.Other()
	} else {
		c.holder = sender
	}
	c.state = TurnAwaiting
	return c.holder
}

// OnDeparture records that leaving became inactive. When the peer is still
// active it unconditionally receives the turn (even if it already held it)
// and is returned with ok true. When both sides are gone the session ends.
func (c *TurnCoordinator) OnDeparture(leaving domain.Role, peerActive bool) (domain.Role, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !peerActive {
		c.state = TurnEnded
		c.holder = ""
		return "", false
	}
	c.state = TurnAwaiting
	c.holder = leaving.Other()
	return c.holder, true
}

func (c *TurnCoordinator) State() TurnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
