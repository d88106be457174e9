package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStakeMovesBalance(t *testing.T) {
	st := newTestState(t)

	a := addTestAccount(t, st, 1000)
	total, err := st.Stake(a.Index, 400)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), total)

	got, err := st.GetAccount(a.Index)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), got.Balance)
	assert.Equal(t, uint64(400), got.Stake)

	b := addTestAccount(t, st, 500)
	total, err = st.Stake(b.Index, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), total)
}

func TestStakeRejections(t *testing.T) {
	st := newTestState(t)

	a := addTestAccount(t, st, 100)
	_, err := st.Stake(a.Index, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = st.Stake(a.Index, 101)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	_, err = st.Stake(a.Index+1, 10)
	assert.ErrorIs(t, err, ErrAccountNoexists)

	got, err := st.GetAccount(a.Index)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), got.Balance)
	assert.Zero(t, st.Header().TotalStaked)
}

func TestUnstakeRestoresBalance(t *testing.T) {
	st := newTestState(t)

	a := addTestAccount(t, st, 1000)
	_, err := st.Stake(a.Index, 400)
	require.NoError(t, err)

	total, err := st.Unstake(a.Index, 150)
	require.NoError(t, err)
	assert.Equal(t, uint64(250), total)

	got, err := st.GetAccount(a.Index)
	require.NoError(t, err)
	assert.Equal(t, uint64(750), got.Balance)
	assert.Equal(t, uint64(250), got.Stake)
}

func TestUnstakeRejections(t *testing.T) {
	st := newTestState(t)

	a := addTestAccount(t, st, 1000)
	_, err := st.Stake(a.Index, 400)
	require.NoError(t, err)

	_, err = st.Unstake(a.Index, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = st.Unstake(a.Index, 401)
	assert.ErrorIs(t, err, ErrInsufficientStake)
	assert.Equal(t, uint64(400), st.Header().TotalStaked)
}
