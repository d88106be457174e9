package handler

import (
	"context"

	"github.com/glowgov/glow-app/state"
	"github.com/glowgov/glow-app/tx"
	"github.com/glowgov/glow-app/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

type UnstakeTxHandler struct {
	logger cmtlog.Logger
}

func NewUnstakeTxHandler(logger cmtlog.Logger) (h *UnstakeTxHandler) {
	logger = logger.With("module", "unstakeTx")
	h = &UnstakeTxHandler{
		logger: logger,
	}
	return
}

func (h *UnstakeTxHandler) Check(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	if _, err1 := h.handle(ctx, st.Clone(), btx); err1 != nil {
		h.logger.Info("CheckTx unstake fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *UnstakeTxHandler) NewContext(ctx context.Context) {}

func (h *UnstakeTxHandler) handle(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	wtx := btx.Tx.(*tx.UnstakeTx)
	total, err := st.Unstake(btx.Account, wtx.Amount)
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
	res.Events = append(res.Events, types.EncodeEventUnstake(&types.EventUnstake{
		Account:     btx.Account,
		Address:     acnt.Address(),
		Amount:      wtx.Amount,
		TotalStaked: total,
	}))
	return
}

func (h *UnstakeTxHandler) Prepare(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}

func (h *UnstakeTxHandler) Process(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}
