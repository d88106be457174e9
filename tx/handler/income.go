package handler

import (
	"context"

	"github.com/glowgov/glow-app/state"
	"github.com/glowgov/glow-app/tx"
	"github.com/glowgov/glow-app/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

type IncomeTxHandler struct {
	logger cmtlog.Logger
}

func NewIncomeTxHandler(logger cmtlog.Logger) (h *IncomeTxHandler) {
	logger = logger.With("module", "incomeTx")
	h = &IncomeTxHandler{
		logger: logger,
	}
	return
}

func (h *IncomeTxHandler) Check(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	if _, err1 := h.handle(ctx, st.Clone(), btx); err1 != nil {
		h.logger.Info("CheckTx income fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *IncomeTxHandler) NewContext(ctx context.Context) {}

func (h *IncomeTxHandler) handle(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	wtx := btx.Tx.(*tx.IncomeTx)
	withheld, err := st.Income(btx.Account, wtx.Amount)
	if err != nil {
		return nil, err
	}
	if err = st.IncrementNonce(btx.Account); err != nil {
		return nil, err
	}
	res = &abcitypes.ExecTxResult{}
	res.Events = append(res.Events, types.EncodeEventIncome(&types.EventIncome{
		From:     btx.Account,
		Amount:   wtx.Amount,
		Withheld: withheld,
	}))
	return
}

func (h *IncomeTxHandler) Prepare(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}

func (h *IncomeTxHandler) Process(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}
