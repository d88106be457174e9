package state

import (
	"errors"
	"testing"

	"github.com/glowgov/glow-app/tx"
	"github.com/glowgov/glow-app/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingForwarder struct {
	calls []string
	err   error
}

func (f *recordingForwarder) Forward(contract string, payload []byte) error {
	f.calls = append(f.calls, contract)
	return f.err
}

func newExecuteTestState(t *testing.T) (*State, *Account) {
	t.Helper()
	st := newPollTestState(t)
	st.Header().CommunityFund = 10000

	voter := addTestAccount(t, st, 1000)
	_, err := st.Stake(voter.Index, 1000)
	require.NoError(t, err)
	return st, voter
}

// passPollWithMsgs creates a poll carrying msgs, votes it through and
// settles it at height 11.
func passPollWithMsgs(t *testing.T, st *State, voter *Account, msgs []types.PollMsg) uint64 {
	t.Helper()
	creator := addTestAccount(t, st, 500)
	pollID, err := st.CreatePoll(creator.Index, &tx.CreatePollTx{
		Title:   "dispatch batch",
		Deposit: 100,
		Msgs:    msgs,
	}, 1)
	require.NoError(t, err)
	_, err = st.CastVote(voter.Index, pollID, types.VoteOptionYes, 2)
	require.NoError(t, err)
	_, err = st.EndPoll(pollID, 11)
	require.NoError(t, err)
	return pollID
}

func TestExecutePollCommunitySpend(t *testing.T) {
	st, voter := newExecuteTestState(t)
	recipient := addTestAccount(t, st, 0)

	pollID := passPollWithMsgs(t, st, voter, []types.PollMsg{{
		Type:           types.PollMsgTypeCommunitySpend,
		CommunitySpend: &types.CommunitySpendMsg{Recipient: recipient.Address(), Amount: 2500},
	}})

	poll, err := st.ExecutePoll(pollID, 12, nil)
	require.NoError(t, err)
	assert.Equal(t, types.PollStatusExecuted, poll.Status)
	assert.Equal(t, uint64(7500), st.Header().CommunityFund)

	got, err := st.GetAccount(recipient.Index)
	require.NoError(t, err)
	assert.Equal(t, uint64(2500), got.Balance)
}

func TestExecutePollUpdateParams(t *testing.T) {
	st, voter := newExecuteTestState(t)

	next := testPollParams()
	next.QuorumBps = 4000
	next.MinDeposit = 777
	pollID := passPollWithMsgs(t, st, voter, []types.PollMsg{{
		Type:         types.PollMsgTypeUpdateParams,
		UpdateParams: &next,
	}})

	poll, err := st.ExecutePoll(pollID, 12, nil)
	require.NoError(t, err)
	assert.Equal(t, types.PollStatusExecuted, poll.Status)
	assert.Equal(t, uint64(4000), st.Header().Params.QuorumBps)
	assert.Equal(t, uint64(777), st.Header().Params.MinDeposit)
}

func TestExecutePollForward(t *testing.T) {
	st, voter := newExecuteTestState(t)

	pollID := passPollWithMsgs(t, st, voter, []types.PollMsg{{
		Type:    types.PollMsgTypeForward,
		Forward: &types.ForwardMsg{Contract: "vesting", Payload: []byte(`{"op":"sweep"}`)},
	}})

	fwd := &recordingForwarder{}
	poll, err := st.ExecutePoll(pollID, 12, fwd)
	require.NoError(t, err)
	assert.Equal(t, types.PollStatusExecuted, poll.Status)
	assert.Equal(t, []string{"vesting"}, fwd.calls)
}

func TestExecutePollForwardFailureIsTerminal(t *testing.T) {
	st, voter := newExecuteTestState(t)

	pollID := passPollWithMsgs(t, st, voter, []types.PollMsg{{
		Type:    types.PollMsgTypeForward,
		Forward: &types.ForwardMsg{Contract: "vesting", Payload: nil},
	}})

	fwd := &recordingForwarder{err: errors.New("contract reverted")}
	poll, err := st.ExecutePoll(pollID, 12, fwd)
	require.NoError(t, err)
	assert.Equal(t, types.PollStatusFailed, poll.Status)

	// Failed is terminal, no retry
	_, err = st.ExecutePoll(pollID, 13, &recordingForwarder{})
	assert.ErrorIs(t, err, ErrAlreadyExecuted)
}

func TestExecutePollBatchIsAtomic(t *testing.T) {
	st, voter := newExecuteTestState(t)
	recipient := addTestAccount(t, st, 0)

	// the second spend overdraws the fund; the first must roll back
	pollID := passPollWithMsgs(t, st, voter, []types.PollMsg{
		{
			Type:           types.PollMsgTypeCommunitySpend,
			CommunitySpend: &types.CommunitySpendMsg{Recipient: recipient.Address(), Amount: 6000},
		},
		{
			Type:           types.PollMsgTypeCommunitySpend,
			CommunitySpend: &types.CommunitySpendMsg{Recipient: recipient.Address(), Amount: 6000},
		},
	})

	poll, err := st.ExecutePoll(pollID, 12, nil)
	require.NoError(t, err)
	assert.Equal(t, types.PollStatusFailed, poll.Status)
	assert.Equal(t, uint64(10000), st.Header().CommunityFund)

	got, err := st.GetAccount(recipient.Index)
	require.NoError(t, err)
	assert.Zero(t, got.Balance)
}

func TestExecutePollSpendLimit(t *testing.T) {
	st, voter := newExecuteTestState(t)
	st.Header().Params.CommunitySpendLimit = 1000
	recipient := addTestAccount(t, st, 0)

	pollID := passPollWithMsgs(t, st, voter, []types.PollMsg{{
		Type:           types.PollMsgTypeCommunitySpend,
		CommunitySpend: &types.CommunitySpendMsg{Recipient: recipient.Address(), Amount: 1001},
	}})

	poll, err := st.ExecutePoll(pollID, 12, nil)
	require.NoError(t, err)
	assert.Equal(t, types.PollStatusFailed, poll.Status)
	assert.Equal(t, uint64(10000), st.Header().CommunityFund)
}

func TestExecutePollExactlyOnce(t *testing.T) {
	st, voter := newExecuteTestState(t)
	recipient := addTestAccount(t, st, 0)

	pollID := passPollWithMsgs(t, st, voter, []types.PollMsg{{
		Type:           types.PollMsgTypeCommunitySpend,
		CommunitySpend: &types.CommunitySpendMsg{Recipient: recipient.Address(), Amount: 100},
	}})

	_, err := st.ExecutePoll(pollID, 12, nil)
	require.NoError(t, err)
	_, err = st.ExecutePoll(pollID, 13, nil)
	assert.ErrorIs(t, err, ErrAlreadyExecuted)

	got, err := st.GetAccount(recipient.Index)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), got.Balance)
}

func TestExecutePollWindow(t *testing.T) {
	st, voter := newExecuteTestState(t)

	pollID := passPollWithMsgs(t, st, voter, nil)

	// settle height 11, window 5: height 17 is too late
	_, err := st.ExecutePoll(pollID, 17, nil)
	assert.ErrorIs(t, err, ErrPollExpired)

	poll, err := st.ExecutePoll(pollID, 16, nil)
	require.NoError(t, err)
	assert.Equal(t, types.PollStatusExecuted, poll.Status)
}

func TestExecutePollRequiresPassed(t *testing.T) {
	st, voter := newExecuteTestState(t)
	creator := addTestAccount(t, st, 500)
	pollID := createTestPoll(t, st, creator.Index, 1)

	_, err := st.ExecutePoll(pollID, 12, nil)
	assert.ErrorIs(t, err, ErrNotPassed)

	// expired polls are unexecutable too
	_, err = st.CastVote(voter.Index, pollID, types.VoteOptionYes, 2)
	require.NoError(t, err)
	_, err = st.EndPoll(pollID, 11)
	require.NoError(t, err)
	_, err = st.ExpirePoll(pollID, 17)
	require.NoError(t, err)
	_, err = st.ExecutePoll(pollID, 18, nil)
	assert.ErrorIs(t, err, ErrNotPassed)
}
