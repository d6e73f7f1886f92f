package repository

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandingRepository_Record(t *testing.T) {
	ctx, st := suite.New(t)

	standingRepo := NewStandingRepository(st.Storage)

	// Given: alpha wins twice and the third match is a tie
	for _, outcome := range []entity.Outcome{entity.OutcomeWinX, entity.OutcomeWinX, entity.OutcomeTie} {
		require.NoError(t, standingRepo.Record(ctx, newMatch(outcome)))
	}

	// When: the standings are read back
	alpha, err := standingRepo.GetByAgent(ctx, "alpha.gob")
	require.NoError(t, err)

	beta, err := standingRepo.GetByAgent(ctx, "beta.gob")
	require.NoError(t, err)

	// Then: both tallies add up
	assert.Equal(t, &entity.Standing{Agent: "alpha.gob", Wins: 2, Ties: 1}, alpha)
	assert.Equal(t, &entity.Standing{Agent: "beta.gob", Losses: 2, Ties: 1}, beta)
	assert.Equal(t, int64(3), alpha.Played())
}

func TestStandingRepository_GetByAgent(t *testing.T) {
	t.Run("GetByAgent_NeverPlayed", func(t *testing.T) {
		ctx, st := suite.New(t)

		standingRepo := NewStandingRepository(st.Storage)

		// When: GetByAgent is called for an unknown agent
		standing, err := standingRepo.GetByAgent(ctx, "ghost.gob")

		// Then: a zero tally is returned
		require.NoError(t, err)
		assert.Equal(t, &entity.Standing{Agent: "ghost.gob"}, standing)
	})

	t.Run("GetByAgent_Corrupted", func(t *testing.T) {
		ctx, st := suite.New(t)

		standingRepo := NewStandingRepository(st.Storage)

		// Given: a tally that is not a number
		require.NoError(t, st.Storage.HSet(ctx, "standing:broken.gob", "wins", "many").Err())

		// When: GetByAgent is called
		_, err := standingRepo.GetByAgent(ctx, "broken.gob")

		// Then: the parse error is reported
		require.Error(t, err)
	})
}
