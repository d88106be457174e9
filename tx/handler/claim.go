package handler

import (
	"context"

	"github.com/glowgov/glow-app/state"
	"github.com/glowgov/glow-app/tx"
	"github.com/glowgov/glow-app/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

type ClaimTxHandler struct {
	logger cmtlog.Logger
}

func NewClaimTxHandler(logger cmtlog.Logger) (h *ClaimTxHandler) {
	logger = logger.With("module", "claimTx")
	h = &ClaimTxHandler{
		logger: logger,
	}
	return
}

func (h *ClaimTxHandler) Check(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	if _, err1 := h.handle(ctx, st.Clone(), btx); err1 != nil {
		h.logger.Info("CheckTx claim fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *ClaimTxHandler) NewContext(ctx context.Context) {}

func (h *ClaimTxHandler) handle(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	amount, err := st.ClaimReward(btx.Account)
	if err != nil {
		return nil, err
	}
	if err = st.IncrementNonce(btx.Account); err != nil {
		return nil, err
	}
	acnt, err := st.GetAccount(btx.Account)
	if err != nil {
		return nil, err
	}
	res = &abcitypes.ExecTxResult{}
	res.Events = append(res.Events, types.EncodeEventClaim(&types.EventClaim{
		Account: btx.Account,
		Address: acnt.Address(),
		Amount:  amount,
	}))
	return
}

func (h *ClaimTxHandler) Prepare(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}

func (h *ClaimTxHandler) Process(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}
