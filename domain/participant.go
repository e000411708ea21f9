// Package domain contains core concepts of the chat system.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import "github.com/google/uuid"

// Participant is one of the two connected parties. The connection handle
// itself lives in the runtime layer; the domain only tracks identity,
// address and liveness.
type Participant struct {
	ID     uuid.UUID // per-connection identity, used for logging only
	Role   Role
	Addr   string
	Active bool
}
