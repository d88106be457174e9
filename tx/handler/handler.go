package handler

import (
	"context"

	"github.com/glowgov/glow-app/state"
	"github.com/glowgov/glow-app/tx"
	abcitypes "github.com/cometbft/cometbft/abci/types"
)

// TxHandler processes one tx type. Check runs against a throwaway
// clone of state for the mempool; Prepare and Process run against the
// block's working state. NewContext resets any per-block bookkeeping.
type TxHandler interface {
	Check(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ResponseCheckTx, err error)
	NewContext(ctx context.Context)
	Prepare(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error)
	Process(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error)
}
