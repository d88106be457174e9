package handler

import (
	"context"

	"github.com/glowgov/glow-app/state"
	"github.com/glowgov/glow-app/tx"
	"github.com/glowgov/glow-app/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

type ExecutePollTxHandler struct {
	logger cmtlog.Logger
	fh     state.ForwardHandler
}

func NewExecutePollTxHandler(logger cmtlog.Logger, fh state.ForwardHandler) (h *ExecutePollTxHandler) {
	logger = logger.With("module", "executePollTx")
	h = &ExecutePollTxHandler{
		logger: logger,
		fh:     fh,
	}
	return
}

func (h *ExecutePollTxHandler) Check(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	wtx := btx.Tx.(*tx.ExecutePollTx)
	// status gate only; messages are not dispatched from the mempool
	poll, err1 := st.Clone().GetPoll(wtx.Poll)
	if err1 == nil && poll.Status != types.PollStatusPassed {
		err1 = state.ErrNotPassed
	}
	if err1 != nil {
		h.logger.Info("CheckTx execute poll fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *ExecutePollTxHandler) NewContext(ctx context.Context) {}

func (h *ExecutePollTxHandler) handle(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	wtx := btx.Tx.(*tx.ExecutePollTx)
	poll, err := st.ExecutePoll(wtx.Poll, st.Header().Height, h.fh)
	if err != nil {
		return nil, err
	}
	if err = st.IncrementNonce(btx.Account); err != nil {
		return nil, err
	}
	reason := ""
	if poll.Status == types.PollStatusFailed {
		reason = "msg batch failed"
	}
	res = &abcitypes.ExecTxResult{}
	res.Events = append(res.Events, types.EncodeEventPollExecuted(&types.EventPollExecuted{
		PollID: poll.ID,
		Status: poll.Status,
		Reason: reason,
	}))
	return
}

func (h *ExecutePollTxHandler) Prepare(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}

func (h *ExecutePollTxHandler) Process(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}
