package handler

import (
	"context"

	"github.com/glowgov/glow-app/state"
	"github.com/glowgov/glow-app/tx"
	"github.com/glowgov/glow-app/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

type ExpirePollTxHandler struct {
	logger cmtlog.Logger
}

func NewExpirePollTxHandler(logger cmtlog.Logger) (h *ExpirePollTxHandler) {
	logger = logger.With("module", "expirePollTx")
	h = &ExpirePollTxHandler{
		logger: logger,
	}
	return
}

func (h *ExpirePollTxHandler) Check(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	wtx := btx.Tx.(*tx.ExpirePollTx)
	trial := st.Clone()
	if _, err1 := trial.ExpirePoll(wtx.Poll, trial.Header().Height+1); err1 != nil {
		h.logger.Info("CheckTx expire poll fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *ExpirePollTxHandler) NewContext(ctx context.Context) {}

func (h *ExpirePollTxHandler) handle(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	wtx := btx.Tx.(*tx.ExpirePollTx)
	poll, err := st.ExpirePoll(wtx.Poll, st.Header().Height)
	if err != nil {
		return nil, err
	}
	if err = st.IncrementNonce(btx.Account); err != nil {
		return nil, err
	}
	res = &abcitypes.ExecTxResult{}
	res.Events = append(res.Events, types.EncodeEventPollExecuted(&types.EventPollExecuted{
		PollID: poll.ID,
		Status: poll.Status,
		Reason: "execution window elapsed",
	}))
	return
}

func (h *ExpirePollTxHandler) Prepare(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}

func (h *ExpirePollTxHandler) Process(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}
