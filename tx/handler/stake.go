package handler

import (
	"context"

	"github.com/glowgov/glow-app/state"
	"github.com/glowgov/glow-app/tx"
	"github.com/glowgov/glow-app/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

type StakeTxHandler struct {
	logger cmtlog.Logger
}

func NewStakeTxHandler(logger cmtlog.Logger) (h *StakeTxHandler) {
	logger = logger.With("module", "stakeTx")
	h = &StakeTxHandler{
		logger: logger,
	}
	return
}

func (h *StakeTxHandler) Check(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	if _, err1 := h.handle(ctx, st.Clone(), btx); err1 != nil {
		h.logger.Info("CheckTx stake fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *StakeTxHandler) NewContext(ctx context.Context) {}

func (h *StakeTxHandler) handle(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	wtx := btx.Tx.(*tx.StakeTx)
	total, err := st.Stake(btx.Account, wtx.Amount)
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
	res.Events = append(res.Events, types.EncodeEventStake(&types.EventStake{
		Account:     btx.Account,
		Address:     acnt.Address(),
		Amount:      wtx.Amount,
		TotalStaked: total,
	}))
	return
}

func (h *StakeTxHandler) Prepare(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}

func (h *StakeTxHandler) Process(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	return h.handle(ctx, st, btx)
}
