package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"turnchat/domain"
)

func TestTurnCoordinator_StartGrantsOpeningTurn(t *testing.T) {
	req := require.New(t)
	turns := NewTurnCoordinator()

	// Given a session that has not started
	req.Equal(TurnNotStarted, turns.State())
	_, ok := turns.Holder()
	req.False(ok)

	// When it starts with the second role
	turns.Start(domain.RoleSecond)

	// Then the second role holds the turn
	holder, ok := turns.Holder()
	req.True(ok)
	req.Equal(domain.RoleSecond, holder)

	// And a second Start is a no-op
	turns.Start(domain.RoleFirst)
	holder, _ = turns.Holder()
	req.Equal(domain.RoleSecond, holder)
}

func TestTurnCoordinator_ContentHandsTurnToRecipient(t *testing.T) {
	req := require.New(t)
	turns := NewTurnCoordinator()
	turns.Start(domain.RoleFirst)

	// When the first role sends while the second is active
	grantee := turns.OnContent(domain.RoleFirst, true)

	// Then the turn transfers to the recipient
	req.Equal(domain.RoleSecond, grantee)
	holder, ok := turns.Holder()
	req.True(ok)
	req.Equal(domain.RoleSecond, holder)
}

func TestTurnCoordinator_ContentReturnsTurnWhenRecipientGone(t *testing.T) {
	req := require.New(t)
	turns := NewTurnCoordinator()
	turns.Start(domain.RoleFirst)

	// When the first role sends while the second is inactive
	grantee := turns.OnContent(domain.RoleFirst, false)

	// Then the sender keeps the turn so it may continue
	req.Equal(domain.RoleFirst, grantee)
	holder, _ := turns.Holder()
	req.Equal(domain.RoleFirst, holder)
}

func TestTurnCoordinator_DepartureGrantsTurnToSurvivor(t *testing.T) {
	req := require.New(t)
	turns := NewTurnCoordinator()
	turns.Start(domain.RoleFirst)

	// When the second role leaves while its peer is active, the peer gets
	// the turn unconditionally, even though it already held it
	grantee, ok := turns.OnDeparture(domain.RoleSecond, true)

	req.True(ok)
	req.Equal(domain.RoleFirst, grantee)
	req.Equal(TurnAwaiting, turns.State())
}

func TestTurnCoordinator_DepartureOfLastParticipantEndsSession(t *testing.T) {
	req := require.New(t)
	turns := NewTurnCoordinator()
	turns.Start(domain.RoleFirst)

	// When the last active role departs
	_, ok := turns.OnDeparture(domain.RoleFirst, false)

	// Then no one holds the turn and the session is over
	req.False(ok)
	req.Equal(TurnEnded, turns.State())
	_, holding := turns.Holder()
	req.False(holding)
}

func TestTurnCoordinator_SingleHolderAtAllTimes(t *testing.T) {
	req := require.New(t)
	turns := NewTurnCoordinator()
	turns.Start(domain.RoleFirst)

	// A full exchange never observes two holders: the holder after each
	// transition is exactly the returned grantee
	for i := range 10 {
		sender, _ := turns.Holder()
		grantee := turns.OnContent(sender, true)
		holder, ok := turns.Holder()
		req.True(ok)
		req.Equal(grantee, holder, "iteration %d", i)
		req.Equal(sender.Other(), holder)
	}
}
