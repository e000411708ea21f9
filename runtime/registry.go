package runtime

import (
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"turnchat/contract"
	"turnchat/domain"
	"turnchat/errors"
)

// Registry tracks the two named participants, their connection handles and
// liveness flags. All mutation happens under a single lock covering the
// participant mapping; network writes never happen while it is held.
type Registry struct {
	mu           sync.Mutex
	participants map[domain.Role]*domain.Participant
	peers        map[domain.Role]contract.Peer
}

func NewRegistry() *Registry {
	return &Registry{
		participants: make(map[domain.Role]*domain.Participant),
		peers:        make(map[domain.Role]contract.Peer),
	}
}

// Register assigns RoleFirst to the first caller and RoleSecond to the
// second. A third call fails with ErrCapacityExceeded and changes nothing.
func (r *Registry) Register(peer contract.Peer, addr string) (domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var role domain.Role
	switch len(r.participants) {
	case 0:
		role = domain.RoleFirst
	case 1:
		role = domain.RoleSecond
	default:
		return "", errors.ErrCapacityExceeded
	}

	r.participants[role] = &domain.Participant{
		ID:     uuid.New(),
		Role:   role,
		Addr:   addr,
		Active: true,
	}
	r.peers[role] = peer
	return role, nil
}

// Lookup returns a copy of the participant bound to role.
func (r *Registry) Lookup(role domain.Role) (domain.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[role]
	if !ok {
		return domain.Participant{}, errors.ErrRoleNotFound
	}
	return *p, nil
}

// Peer returns the connection handle bound to role, if any.
func (r *Registry) Peer(role domain.Role) (contract.Peer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	peer, ok := r.peers[role]
	return peer, ok
}

func (r *Registry) IsActive(role domain.Role) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[role]
	return ok && p.Active
}

func (r *Registry) MarkInactive(role domain.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.participants[role]; ok {
		p.Active = false
	}
}

// AllInactive reports whether no registered participant is still live.
func (r *Registry) AllInactive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return lo.NoneBy(lo.Values(r.participants), func(p *domain.Participant) bool {
		return p.Active
	})
}

func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.participants)
}
