package handler

import (
	"context"
	"testing"

	"github.com/glowgov/glow-app/state"
	"github.com/glowgov/glow-app/tx"
	"github.com/glowgov/glow-app/types"
	"github.com/cometbft/cometbft/crypto/ed25519"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandlerTestState(t *testing.T) (*state.State, *state.Account) {
	t.Helper()
	db, err := state.NewMemStateDB(cmtlog.NewNopLogger())
	require.NoError(t, err)
	st := db.NewState()
	st.SetChainID("gov-test")

	a := &state.Account{Balance: 1000}
	a.SetPubKey(ed25519.GenPrivKey().PubKey().Bytes())
	require.NoError(t, st.AddAccount(a))
	return st, a
}

func TestStakeTxHandlerProcessEmitsEvent(t *testing.T) {
	st, a := newHandlerTestState(t)
	h := NewStakeTxHandler(cmtlog.NewNopLogger())

	btx := &tx.GovTx{
		Version: tx.GovTxVersion1,
		Type:    tx.GovTxTypeStake,
		Account: a.Index,
		Tx:      &tx.StakeTx{Amount: 400},
	}
	res, err := h.Process(context.Background(), st, btx)
	require.NoError(t, err)
	require.Len(t, res.Events, 1)

	ev := types.DecodeEventStake(res.Events[0])
	require.NotNil(t, ev)
	assert.Equal(t, a.Index, ev.Account)
	assert.Equal(t, uint64(400), ev.Amount)
	assert.Equal(t, uint64(400), ev.TotalStaked)

	got, err := st.GetAccount(a.Index)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), got.Stake)
	assert.Equal(t, uint64(1), got.Nonce)
}

func TestStakeTxHandlerCheckLeavesStateUntouched(t *testing.T) {
	st, a := newHandlerTestState(t)
	h := NewStakeTxHandler(cmtlog.NewNopLogger())

	btx := &tx.GovTx{
		Version: tx.GovTxVersion1,
		Type:    tx.GovTxTypeStake,
		Account: a.Index,
		Tx:      &tx.StakeTx{Amount: 400},
	}
	res, err := h.Check(context.Background(), st, btx)
	require.NoError(t, err)
	assert.Zero(t, res.Code)

	got, err := st.GetAccount(a.Index)
	require.NoError(t, err)
	assert.Zero(t, got.Stake)
	assert.Zero(t, st.Header().TotalStaked)
}

func TestStakeTxHandlerCheckRejectsOverdraw(t *testing.T) {
	st, a := newHandlerTestState(t)
	h := NewStakeTxHandler(cmtlog.NewNopLogger())

	btx := &tx.GovTx{
		Version: tx.GovTxVersion1,
		Type:    tx.GovTxTypeStake,
		Account: a.Index,
		Tx:      &tx.StakeTx{Amount: 5000},
	}
	res, err := h.Check(context.Background(), st, btx)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), res.Code)
	assert.Contains(t, res.Log, state.ErrInsufficientBalance.Error())
}

func TestEndPollTxHandlerDepositAction(t *testing.T) {
	st, a := newHandlerTestState(t)
	st.Header().Params = types.Params{
		MinDeposit:      100,
		QuorumBps:       3000,
		ThresholdBps:    5000,
		VotingPeriod:    10,
		ExecutionWindow: 5,
	}
	_, err := st.Stake(a.Index, 1000)
	require.NoError(t, err)

	pollID, err := st.CreatePoll(a.Index, &tx.CreatePollTx{Title: "t", Deposit: 100}, st.Header().Height)
	require.NoError(t, err)

	// nobody votes, so settling forfeits the deposit
	st.Header().Height += 11
	h := NewEndPollTxHandler(cmtlog.NewNopLogger())
	res, err := h.Process(context.Background(), st, &tx.GovTx{
		Version: tx.GovTxVersion1,
		Type:    tx.GovTxTypeEndPoll,
		Account: a.Index,
		Tx:      &tx.EndPollTx{Poll: pollID},
	})
	require.NoError(t, err)
	require.Len(t, res.Events, 1)

	ev := types.DecodeEventPollSettled(res.Events[0])
	require.NotNil(t, ev)
	assert.Equal(t, types.PollStatusRejected, ev.Status)
	assert.Equal(t, "forfeited", ev.DepositAction)
}
