package state

import (
	"math"
	"testing"

	"github.com/glowgov/glow-app/tx"
	"github.com/glowgov/glow-app/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPollParams() types.Params {
	return types.Params{
		MinDeposit:      100,
		QuorumBps:       3000,
		ThresholdBps:    5000,
		VotingPeriod:    10,
		ExecutionWindow: 5,
	}
}

func newPollTestState(t *testing.T) *State {
	t.Helper()
	st := newTestState(t)
	st.Header().Params = testPollParams()
	return st
}

func createTestPoll(t *testing.T, st *State, creator uint64, height uint64) uint64 {
	t.Helper()
	pollID, err := st.CreatePoll(creator, &tx.CreatePollTx{
		Title:   "fund the integration",
		Deposit: 100,
	}, height)
	require.NoError(t, err)
	return pollID
}

func TestCreatePollEscrowsDeposit(t *testing.T) {
	st := newPollTestState(t)

	staker := addTestAccount(t, st, 1000)
	_, err := st.Stake(staker.Index, 1000)
	require.NoError(t, err)
	creator := addTestAccount(t, st, 500)

	pollID := createTestPoll(t, st, creator.Index, 20)
	assert.Equal(t, uint64(1), pollID)

	got, err := st.GetAccount(creator.Index)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), got.Balance)

	poll, err := st.GetPoll(pollID)
	require.NoError(t, err)
	assert.Equal(t, types.PollStatusInProgress, poll.Status)
	assert.Equal(t, uint64(1000), poll.TotalStakedAtCreation)
	assert.Equal(t, uint64(20), poll.StartHeight)
	assert.Equal(t, uint64(30), poll.EndHeight)
	assert.Equal(t, creator.Index, poll.Creator)
}

func TestCreatePollValidation(t *testing.T) {
	st := newPollTestState(t)
	creator := addTestAccount(t, st, 150)

	_, err := st.CreatePoll(creator.Index, &tx.CreatePollTx{Title: "  ", Deposit: 100}, 1)
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = st.CreatePoll(creator.Index, &tx.CreatePollTx{Title: "t", Deposit: 99}, 1)
	assert.ErrorIs(t, err, ErrInsufficientDeposit)

	_, err = st.CreatePoll(creator.Index, &tx.CreatePollTx{Title: "t", Deposit: 200}, 1)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	_, err = st.CreatePoll(creator.Index, &tx.CreatePollTx{
		Title:   "t",
		Deposit: 100,
		Msgs:    []types.PollMsg{{Type: types.PollMsgTypeCommunitySpend}},
	}, 1)
	assert.ErrorIs(t, err, types.ErrInvalidPollMsg)

	// nothing was escrowed along the way
	got, err := st.GetAccount(creator.Index)
	require.NoError(t, err)
	assert.Equal(t, uint64(150), got.Balance)
}

func TestCreatePollVotingPeriodCapped(t *testing.T) {
	st := newPollTestState(t)
	creator := addTestAccount(t, st, 1000)
	_, err := st.Stake(creator.Index, 500)
	require.NoError(t, err)

	// a shorter override sticks
	pollID, err := st.CreatePoll(creator.Index, &tx.CreatePollTx{
		Title:        "quick question",
		Deposit:      100,
		VotingPeriod: 5,
	}, 5)
	require.NoError(t, err)
	poll, err := st.GetPoll(pollID)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), poll.EndHeight)

	// a longer one clamps to the configured period and cannot wrap
	pollID, err = st.CreatePoll(creator.Index, &tx.CreatePollTx{
		Title:        "forever question",
		Deposit:      100,
		VotingPeriod: math.MaxUint64,
	}, 5)
	require.NoError(t, err)
	poll, err = st.GetPoll(pollID)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), poll.StartHeight)
	assert.Equal(t, uint64(15), poll.EndHeight)

	_, err = st.CastVote(creator.Index, pollID, types.VoteOptionYes, 6)
	require.NoError(t, err)
	_, err = st.EndPoll(pollID, 6)
	assert.ErrorIs(t, err, ErrVotingOpen)
}

func TestCastVoteTalliesStake(t *testing.T) {
	st := newPollTestState(t)

	a := addTestAccount(t, st, 1000)
	b := addTestAccount(t, st, 1000)
	_, err := st.Stake(a.Index, 600)
	require.NoError(t, err)
	_, err = st.Stake(b.Index, 400)
	require.NoError(t, err)
	creator := addTestAccount(t, st, 500)
	pollID := createTestPoll(t, st, creator.Index, 1)

	vote, err := st.CastVote(a.Index, pollID, types.VoteOptionYes, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), vote.Power)
	_, err = st.CastVote(b.Index, pollID, types.VoteOptionNo, 3)
	require.NoError(t, err)

	poll, err := st.GetPoll(pollID)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), poll.YesVotes)
	assert.Equal(t, uint64(400), poll.NoVotes)

	got, err := st.GetVote(pollID, a.Address())
	require.NoError(t, err)
	assert.Equal(t, types.VoteOptionYes, got.Option)
}

func TestCastVoteRejections(t *testing.T) {
	st := newPollTestState(t)

	a := addTestAccount(t, st, 1000)
	_, err := st.Stake(a.Index, 600)
	require.NoError(t, err)
	idle := addTestAccount(t, st, 1000)
	creator := addTestAccount(t, st, 500)
	pollID := createTestPoll(t, st, creator.Index, 1)

	_, err = st.CastVote(a.Index, pollID, types.VoteOption(9), 2)
	assert.ErrorIs(t, err, ErrVoteOptionInvalid)

	_, err = st.CastVote(idle.Index, pollID, types.VoteOptionYes, 2)
	assert.ErrorIs(t, err, ErrNoStake)

	_, err = st.CastVote(a.Index, pollID, types.VoteOptionYes, 2)
	require.NoError(t, err)
	_, err = st.CastVote(a.Index, pollID, types.VoteOptionNo, 3)
	assert.ErrorIs(t, err, ErrAlreadyVoted)

	// voting closes at the end height itself
	_, err = st.CastVote(a.Index, pollID, types.VoteOptionYes, 11)
	assert.ErrorIs(t, err, ErrPollNotInProgress)

	_, err = st.CastVote(a.Index, 42, types.VoteOptionYes, 2)
	assert.ErrorIs(t, err, ErrPollNoexists)
}

func TestEndPollPassesAndRefundsDeposit(t *testing.T) {
	st := newPollTestState(t)

	a := addTestAccount(t, st, 1000)
	b := addTestAccount(t, st, 1000)
	_, err := st.Stake(a.Index, 600)
	require.NoError(t, err)
	_, err = st.Stake(b.Index, 400)
	require.NoError(t, err)
	creator := addTestAccount(t, st, 500)
	pollID := createTestPoll(t, st, creator.Index, 1)

	// 60% participation over 30% quorum, 100% of decisive votes yes
	_, err = st.CastVote(a.Index, pollID, types.VoteOptionYes, 2)
	require.NoError(t, err)

	_, err = st.EndPoll(pollID, 5)
	assert.ErrorIs(t, err, ErrVotingOpen)

	poll, err := st.EndPoll(pollID, 11)
	require.NoError(t, err)
	assert.Equal(t, types.PollStatusPassed, poll.Status)
	assert.Equal(t, uint64(11), poll.SettleHeight)

	got, err := st.GetAccount(creator.Index)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), got.Balance)

	_, err = st.EndPoll(pollID, 12)
	assert.ErrorIs(t, err, ErrPollNotInProgress)
}

func TestEndPollQuorumFailureForfeitsDeposit(t *testing.T) {
	st := newPollTestState(t)

	a := addTestAccount(t, st, 1000)
	b := addTestAccount(t, st, 1000)
	_, err := st.Stake(a.Index, 200)
	require.NoError(t, err)
	_, err = st.Stake(b.Index, 800)
	require.NoError(t, err)
	creator := addTestAccount(t, st, 500)
	pollID := createTestPoll(t, st, creator.Index, 1)

	// 20% participation misses the 30% quorum even though every vote is yes
	_, err = st.CastVote(a.Index, pollID, types.VoteOptionYes, 2)
	require.NoError(t, err)

	poll, err := st.EndPoll(pollID, 11)
	require.NoError(t, err)
	assert.Equal(t, types.PollStatusRejected, poll.Status)

	got, err := st.GetAccount(creator.Index)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), got.Balance)

	// the forfeited deposit flows to stakers by weight
	ca, err := st.ClaimableReward(a.Index)
	require.NoError(t, err)
	cb, err := st.ClaimableReward(b.Index)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), ca)
	assert.Equal(t, uint64(80), cb)
}

func TestEndPollThresholdBoundary(t *testing.T) {
	st := newPollTestState(t)

	a := addTestAccount(t, st, 1000)
	b := addTestAccount(t, st, 1000)
	_, err := st.Stake(a.Index, 500)
	require.NoError(t, err)
	_, err = st.Stake(b.Index, 500)
	require.NoError(t, err)
	creator := addTestAccount(t, st, 500)
	pollID := createTestPoll(t, st, creator.Index, 1)

	// exactly 50% yes among decisive votes meets the 50% threshold
	_, err = st.CastVote(a.Index, pollID, types.VoteOptionYes, 2)
	require.NoError(t, err)
	_, err = st.CastVote(b.Index, pollID, types.VoteOptionNo, 2)
	require.NoError(t, err)

	poll, err := st.EndPoll(pollID, 11)
	require.NoError(t, err)
	assert.Equal(t, types.PollStatusPassed, poll.Status)
}

func TestEndPollAbstainCountsForQuorumOnly(t *testing.T) {
	st := newPollTestState(t)

	a := addTestAccount(t, st, 1000)
	b := addTestAccount(t, st, 1000)
	_, err := st.Stake(a.Index, 100)
	require.NoError(t, err)
	_, err = st.Stake(b.Index, 900)
	require.NoError(t, err)
	creator := addTestAccount(t, st, 500)
	pollID := createTestPoll(t, st, creator.Index, 1)

	// abstain lifts participation past quorum, yes still wins 100% of
	// the decisive votes
	_, err = st.CastVote(a.Index, pollID, types.VoteOptionYes, 2)
	require.NoError(t, err)
	_, err = st.CastVote(b.Index, pollID, types.VoteOptionAbstain, 2)
	require.NoError(t, err)

	poll, err := st.EndPoll(pollID, 11)
	require.NoError(t, err)
	assert.Equal(t, types.PollStatusPassed, poll.Status)
}

func TestEndPollAllAbstainRejects(t *testing.T) {
	st := newPollTestState(t)

	a := addTestAccount(t, st, 1000)
	_, err := st.Stake(a.Index, 1000)
	require.NoError(t, err)
	creator := addTestAccount(t, st, 500)
	pollID := createTestPoll(t, st, creator.Index, 1)

	_, err = st.CastVote(a.Index, pollID, types.VoteOptionAbstain, 2)
	require.NoError(t, err)

	poll, err := st.EndPoll(pollID, 11)
	require.NoError(t, err)
	assert.Equal(t, types.PollStatusRejected, poll.Status)
}

func TestEndPollZeroParticipationRejects(t *testing.T) {
	st := newPollTestState(t)

	a := addTestAccount(t, st, 1000)
	_, err := st.Stake(a.Index, 1000)
	require.NoError(t, err)
	creator := addTestAccount(t, st, 500)
	pollID := createTestPoll(t, st, creator.Index, 1)

	poll, err := st.EndPoll(pollID, 11)
	require.NoError(t, err)
	assert.Equal(t, types.PollStatusRejected, poll.Status)
}

func TestEndPollZeroDenominatorRejects(t *testing.T) {
	st := newPollTestState(t)

	// poll created while nothing is staked; voters appear afterwards
	creator := addTestAccount(t, st, 500)
	pollID := createTestPoll(t, st, creator.Index, 1)

	a := addTestAccount(t, st, 1000)
	_, err := st.Stake(a.Index, 1000)
	require.NoError(t, err)
	_, err = st.CastVote(a.Index, pollID, types.VoteOptionYes, 2)
	require.NoError(t, err)

	poll, err := st.EndPoll(pollID, 11)
	require.NoError(t, err)
	assert.Equal(t, types.PollStatusRejected, poll.Status)
}

func TestVotePowerFrozenAtCastTime(t *testing.T) {
	st := newPollTestState(t)

	a := addTestAccount(t, st, 1000)
	_, err := st.Stake(a.Index, 1000)
	require.NoError(t, err)
	creator := addTestAccount(t, st, 500)
	pollID := createTestPoll(t, st, creator.Index, 1)

	_, err = st.CastVote(a.Index, pollID, types.VoteOptionYes, 2)
	require.NoError(t, err)

	// a full unstake after voting does not touch the recorded power
	_, err = st.Unstake(a.Index, 1000)
	require.NoError(t, err)

	poll, err := st.EndPoll(pollID, 11)
	require.NoError(t, err)
	assert.Equal(t, types.PollStatusPassed, poll.Status)
	assert.Equal(t, uint64(1000), poll.YesVotes)
}

func TestExpirePoll(t *testing.T) {
	st := newPollTestState(t)

	a := addTestAccount(t, st, 1000)
	_, err := st.Stake(a.Index, 1000)
	require.NoError(t, err)
	creator := addTestAccount(t, st, 500)
	pollID := createTestPoll(t, st, creator.Index, 1)
	_, err = st.CastVote(a.Index, pollID, types.VoteOptionYes, 2)
	require.NoError(t, err)
	_, err = st.EndPoll(pollID, 11)
	require.NoError(t, err)

	// settle height 11, window 5: still open through height 16
	_, err = st.ExpirePoll(pollID, 16)
	assert.ErrorIs(t, err, ErrExecutionWindowOpen)

	poll, err := st.ExpirePoll(pollID, 17)
	require.NoError(t, err)
	assert.Equal(t, types.PollStatusExpired, poll.Status)

	_, err = st.ExpirePoll(pollID, 18)
	assert.ErrorIs(t, err, ErrNotPassed)
}

func TestExpirePollRequiresPassed(t *testing.T) {
	st := newPollTestState(t)

	a := addTestAccount(t, st, 1000)
	_, err := st.Stake(a.Index, 1000)
	require.NoError(t, err)
	creator := addTestAccount(t, st, 500)
	pollID := createTestPoll(t, st, creator.Index, 1)

	_, err = st.ExpirePoll(pollID, 100)
	assert.ErrorIs(t, err, ErrNotPassed)
}

func TestPollIDsAreSequential(t *testing.T) {
	st := newPollTestState(t)

	creator := addTestAccount(t, st, 500)
	first := createTestPoll(t, st, creator.Index, 1)
	second := createTestPoll(t, st, creator.Index, 1)
	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)

	_, err := st.GetPoll(0)
	assert.ErrorIs(t, err, ErrPollNoexists)
	_, err = st.GetPoll(3)
	assert.ErrorIs(t, err, ErrPollNoexists)
}
