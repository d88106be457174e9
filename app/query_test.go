package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/glowgov/glow-app/state"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	"github.com/cometbft/cometbft/crypto/ed25519"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuerierTestDB(t *testing.T) (*state.StateDB, *state.Account) {
	t.Helper()
	db, err := state.NewMemStateDB(cmtlog.NewNopLogger())
	require.NoError(t, err)
	st := db.State()

	a := &state.Account{Balance: 1000}
	a.SetPubKey(ed25519.GenPrivKey().PubKey().Bytes())
	require.NoError(t, st.AddAccount(a))
	return db, a
}

func TestAccountQuerierReportsClaimable(t *testing.T) {
	db, a := newQuerierTestDB(t)
	st := db.State()
	_, err := st.Stake(a.Index, 400)
	require.NoError(t, err)

	funder := &state.Account{Balance: 500}
	funder.SetPubKey(ed25519.GenPrivKey().PubKey().Bytes())
	require.NoError(t, st.AddAccount(funder))
	_, err = st.Income(funder.Index, 100)
	require.NoError(t, err)

	q := NewAccountQuerier(db, cmtlog.NewNopLogger())
	res, err := q.Query(context.Background(), &abcitypes.RequestQuery{
		Path: "/accounts/",
		Data: []byte{1, 0, 0},
	})
	require.NoError(t, err)
	require.Zero(t, res.Code)

	var got struct {
		Index         uint64 `json:"index"`
		Balance       uint64 `json:"balance"`
		Stake         uint64 `json:"stake"`
		PendingReward uint64 `json:"pendingReward"`
		Claimable     uint64 `json:"claimable"`
	}
	require.NoError(t, json.Unmarshal(res.Value, &got))
	assert.Equal(t, a.Index, got.Index)
	assert.Equal(t, uint64(600), got.Balance)
	assert.Equal(t, uint64(400), got.Stake)

	// the income has not been settled onto the account yet, but the
	// query already prices it in
	assert.Zero(t, got.PendingReward)
	assert.Equal(t, uint64(100), got.Claimable)
}

func TestAccountQuerierUnknownAccount(t *testing.T) {
	db, _ := newQuerierTestDB(t)

	q := NewAccountQuerier(db, cmtlog.NewNopLogger())
	res, err := q.Query(context.Background(), &abcitypes.RequestQuery{
		Path: "/accounts/",
		Data: []byte{9, 9, 9},
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), res.Code)
}
