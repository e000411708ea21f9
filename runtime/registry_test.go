package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"turnchat/domain"
	"turnchat/errors"
	"turnchat/mocks"
)

func TestRegistry_Register_AssignsRolesInOrder(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := NewRegistry()

	// Given an empty registry
	req.Zero(registry.Count())
	req.True(registry.AllInactive())

	// When the first connection registers
	first, err := registry.Register(mocks.NewMockPeer(ctrl), "127.0.0.1:50001")
	req.NoError(err)

	// Then it gets the first role, live
	req.Equal(domain.RoleFirst, first)
	p, err := registry.Lookup(domain.RoleFirst)
	req.NoError(err)
	req.True(p.Active)
	req.Equal("127.0.0.1:50001", p.Addr)
	req.NotEqual(p.ID.String(), "00000000-0000-0000-0000-000000000000")

	// And the second connection gets the remaining role
	second, err := registry.Register(mocks.NewMockPeer(ctrl), "127.0.0.1:50002")
	req.NoError(err)
	req.Equal(domain.RoleSecond, second)
	req.Equal(2, registry.Count())
	req.False(registry.AllInactive())
}

func TestRegistry_Register_ThirdConnectionRejected(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := NewRegistry()

	_, err := registry.Register(mocks.NewMockPeer(ctrl), "a")
	req.NoError(err)
	_, err = registry.Register(mocks.NewMockPeer(ctrl), "b")
	req.NoError(err)

	// When a third connection shows up
	_, err = registry.Register(mocks.NewMockPeer(ctrl), "c")

	// Then it is rejected and nothing changed
	req.ErrorIs(err, errors.ErrCapacityExceeded)
	req.Equal(2, registry.Count())
}

func TestRegistry_Lookup_UnknownRole(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Lookup(domain.RoleFirst)

	require.ErrorIs(t, err, errors.ErrRoleNotFound)
	_, ok := registry.Peer(domain.RoleFirst)
	require.False(t, ok)
}

func TestRegistry_MarkInactive_DrivesAllInactive(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := NewRegistry()

	_, _ = registry.Register(mocks.NewMockPeer(ctrl), "a")
	_, _ = registry.Register(mocks.NewMockPeer(ctrl), "b")

	// When one side goes down
	registry.MarkInactive(domain.RoleFirst)

	// Then the session is still live
	req.False(registry.IsActive(domain.RoleFirst))
	req.True(registry.IsActive(domain.RoleSecond))
	req.False(registry.AllInactive())

	// And only with both gone does the shutdown condition hold
	registry.MarkInactive(domain.RoleSecond)
	req.True(registry.AllInactive())
}

func TestRegistry_Peer_ReturnsRegisteredHandle(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := NewRegistry()
	peer := mocks.NewMockPeer(ctrl)

	_, err := registry.Register(peer, "a")
	req.NoError(err)

	got, ok := registry.Peer(domain.RoleFirst)
	req.True(ok)
	req.Same(peer, got)
}
