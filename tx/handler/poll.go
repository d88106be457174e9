package handler

import (
	"context"

	"github.com/glowgov/glow-app/state"
	"github.com/glowgov/glow-app/tx"
	"github.com/glowgov/glow-app/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

type CreatePollTxHandler struct {
	logger cmtlog.Logger
}

func NewCreatePollTxHandler(logger cmtlog.Logger) (h *CreatePollTxHandler) {
	logger = logger.With("module", "createPollTx")
	h = &CreatePollTxHandler{
		logger: logger,
	}
	return
}

func (h *CreatePollTxHandler) Check(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	if _, err1 := h.handle(ctx, st.Clone(), btx); err1 != nil {
		h.logger.Info("CheckTx create poll fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *CreatePollTxHandler) NewContext(ctx context.Context) {}

func (h *CreatePollTxHandler) handle(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	wtx := btx.Tx.(*tx.CreatePollTx)
	height := st.Header().Height
	pollID, err := st.CreatePoll(btx.Account, wtx, height)
	if err != nil {
		return nil, err
	}
	if err = st.IncrementNonce(btx.Account); err != nil {
		return nil, err
	}
	poll, err := st.GetPoll(pollID)
	if err != nil {
		return nil, err
	}
	res = &abcitypes.ExecTxResult{}
	res.Events = append(res.Events, types.EncodeEventPollCreated(&types.EventPollCreated{
		PollID:         poll.ID,
		Creator:        poll.Creator,
		CreatorAddress: poll.CreatorAddress,
		Deposit:        poll.Deposit,
		Title:          poll.Title,
		Link:           poll.Link,
		EndHeight:      poll.EndHeight,
		Denominator:    poll.TotalStakedAtCreation,
	}))
	return
}

func (h *CreatePollTxHandler) Prepare(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}

func (h *CreatePollTxHandler) Process(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}
