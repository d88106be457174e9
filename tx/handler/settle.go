package handler

import (
	"context"

	"github.com/glowgov/glow-app/state"
	"github.com/glowgov/glow-app/tx"
	"github.com/glowgov/glow-app/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

type EndPollTxHandler struct {
	logger cmtlog.Logger
}

func NewEndPollTxHandler(logger cmtlog.Logger) (h *EndPollTxHandler) {
	logger = logger.With("module", "endPollTx")
	h = &EndPollTxHandler{
		logger: logger,
	}
	return
}

func (h *EndPollTxHandler) Check(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	wtx := btx.Tx.(*tx.EndPollTx)
	// the tx will land at the next height at the earliest
	trial := st.Clone()
	if _, err1 := trial.EndPoll(wtx.Poll, trial.Header().Height+1); err1 != nil {
		h.logger.Info("CheckTx end poll fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *EndPollTxHandler) NewContext(ctx context.Context) {}

func (h *EndPollTxHandler) handle(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	wtx := btx.Tx.(*tx.EndPollTx)
	poll, err := st.EndPoll(wtx.Poll, st.Header().Height)
	if err != nil {
		return nil, err
	}
	if err = st.IncrementNonce(btx.Account); err != nil {
		return nil, err
	}
	depositAction := "refunded"
	if poll.Status == types.PollStatusRejected {
		depositAction = "forfeited"
	}
	res = &abcitypes.ExecTxResult{}
	res.Events = append(res.Events, types.EncodeEventPollSettled(&types.EventPollSettled{
		PollID:        poll.ID,
		Status:        poll.Status,
		YesVotes:      poll.YesVotes,
		NoVotes:       poll.NoVotes,
		AbstainVotes:  poll.AbstainVotes,
		DepositAction: depositAction,
	}))
	return
}

func (h *EndPollTxHandler) Prepare(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}

func (h *EndPollTxHandler) Process(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}
