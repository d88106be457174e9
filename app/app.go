package app

import (
	"context"
	"encoding/json"

	"github.com/glowgov/glow-app/config"
	"github.com/glowgov/glow-app/state"
	"github.com/glowgov/glow-app/tx"
	"github.com/glowgov/glow-app/tx/handler"
	"github.com/glowgov/glow-app/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	"github.com/cometbft/cometbft/crypto/ed25519"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cometbft/cometbft/store"
	"github.com/ethereum/go-ethereum/common"
)

type finalizeBlock struct {
	Height uint64
	Hash   common.Hash
}

func (b *finalizeBlock) Set(blk *abcitypes.RequestFinalizeBlock) {
	b.Height = uint64(blk.Height)
	b.Hash = common.BytesToHash(blk.Hash)
}

var _ abcitypes.Application = &GovApp{}

type GovApp struct {
	cfg    *config.GovAppConfig
	logger cmtlog.Logger

	db       *state.StateDB
	lastBlk  finalizeBlock
	txHdlrs  map[tx.GovTxType]handler.TxHandler
	queriers map[string]Querier
	fwd      *ForwardRegistry

	st *state.State
}

func NewGovApp(cfg *config.GovAppConfig, logger cmtlog.Logger) (app *GovApp, err error) {
	logger = logger.With("module", "app")

	dir := cfg.Home + "/data"
	db, err := state.NewStateDB(dir, logger)
	if err != nil {
		return nil, err
	}

	app = &GovApp{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		txHdlrs:  make(map[tx.GovTxType]handler.TxHandler),
		queriers: make(map[string]Querier),
		fwd:      NewForwardRegistry(logger),
	}
	app.registerTxHandler()
	app.registerQuerier()
	return
}

func (app *GovApp) Start(bs *store.BlockStore) {
	height := app.db.Header().Height
	if height > 0 {
		blk := bs.LoadBlock(int64(height))
		if blk == nil {
			panic("unexpected BlockStore")
		}
		app.lastBlk.Height = height
		app.lastBlk.Hash = common.BytesToHash(blk.Hash())
	}
}

func (app *GovApp) Stop() {
	err := app.db.Close()
	if err != nil {
		app.logger.Error("close db fail", "err", err)
	}
	app.logger.Info("gov app stopped")
}

func (app *GovApp) StateDB() *state.StateDB {
	return app.db
}

// ForwardRegistry exposes the owned-contract registry so the node can
// attach collaborator endpoints before the chain starts.
func (app *GovApp) Forwarder() *ForwardRegistry {
	return app.fwd
}

func (app *GovApp) registerTxHandler() {
	app.txHdlrs = map[tx.GovTxType]handler.TxHandler{
		tx.GovTxTypeStake:       handler.NewStakeTxHandler(app.logger),
		tx.GovTxTypeUnstake:     handler.NewUnstakeTxHandler(app.logger),
		tx.GovTxTypeClaim:       handler.NewClaimTxHandler(app.logger),
		tx.GovTxTypeIncome:      handler.NewIncomeTxHandler(app.logger),
		tx.GovTxTypeCreatePoll:  handler.NewCreatePollTxHandler(app.logger),
		tx.GovTxTypeVote:        handler.NewVoteTxHandler(app.logger),
		tx.GovTxTypeEndPoll:     handler.NewEndPollTxHandler(app.logger),
		tx.GovTxTypeExecutePoll: handler.NewExecutePollTxHandler(app.logger, app.fwd),
		tx.GovTxTypeExpirePoll:  handler.NewExpirePollTxHandler(app.logger),
	}
}

func (app *GovApp) registerQuerier() {
	app.queriers["/accounts/"] = NewAccountQuerier(app.db, app.logger)
	app.queriers["/polls/"] = NewPollQuerier(app.db, app.logger)
	app.queriers["/votes/"] = NewVoteQuerier(app.db, app.logger)
	app.queriers["/gov/"] = NewGovQuerier(app.db, app.logger)
}

func (app *GovApp) InitChain(_ context.Context, chain *abcitypes.RequestInitChain) (res *abcitypes.ResponseInitChain, err error) {
	st := app.db.NewState()
	st.SetChainID(chain.ChainId)

	if len(chain.AppStateBytes) > 0 {
		var as types.AppState
		if err = json.Unmarshal(chain.AppStateBytes, &as); err != nil {
			app.logger.Error("InitChain bad app state", "err", err)
			return nil, err
		}
		if err = as.Validate(); err != nil {
			app.logger.Error("InitChain invalid app state", "err", err)
			return nil, err
		}
		st.Header().Params = as.Params
		st.Header().CommunityFund = as.CommunityFund
		// genesis stakes go through the ledger so the reward index
		// bookkeeping starts consistent
		for _, ga := range as.Accounts {
			var acnt state.Account
			acnt.SetPubKey(ga.PubKey)
			acnt.Balance = ga.Balance + ga.Stake
			if err = st.AddAccount(&acnt); err != nil {
				app.logger.Error("InitChain add account fail", "err", err)
				return nil, err
			}
			if ga.Stake > 0 {
				if _, err = st.Stake(acnt.Index, ga.Stake); err != nil {
					app.logger.Error("InitChain genesis stake fail", "err", err)
					return nil, err
				}
			}
		}
	}

	for _, v := range chain.Validators {
		pk := v.PubKey.GetEd25519()
		acnt, err1 := st.FindAccount(ed25519.PubKey(pk).Address())
		if err1 != nil {
			return nil, err1
		}
		if acnt != nil {
			continue
		}
		var a state.Account
		a.SetPubKey(pk)
		a.Balance = uint64(v.Power) * config.StakePerPower()
		if err = st.AddAccount(&a); err != nil {
			app.logger.Error("InitChain add validator fail", "err", err)
			return nil, err
		}
		if _, err = st.Stake(a.Index, a.Balance); err != nil {
			app.logger.Error("InitChain stake validator fail", "err", err)
			return nil, err
		}
	}

	var h common.Hash
	_, err = st.Update()
	if err != nil {
		app.logger.Error("InitChain update state fail", "err", err)
		return nil, err
	}
	h, err = app.db.SetState(st)
	if err != nil {
		app.logger.Error("InitChain apply state fail", "err", err)
		return nil, err
	}
	return &abcitypes.ResponseInitChain{
		AppHash: h.Bytes(),
	}, nil
}

func (app *GovApp) Info(ctx context.Context, info *abcitypes.RequestInfo) (*abcitypes.ResponseInfo, error) {
	header := app.db.Header()
	return &abcitypes.ResponseInfo{
		LastBlockHeight:  int64(header.Height),
		LastBlockAppHash: header.Hash,
	}, nil
}

func (app *GovApp) ExtendVote(_ context.Context, extend *abcitypes.RequestExtendVote) (*abcitypes.ResponseExtendVote, error) {
	return &abcitypes.ResponseExtendVote{}, nil
}

func (app *GovApp) VerifyVoteExtension(_ context.Context, verify *abcitypes.RequestVerifyVoteExtension) (*abcitypes.ResponseVerifyVoteExtension, error) {
	return &abcitypes.ResponseVerifyVoteExtension{}, nil
}

func (app *GovApp) ApplySnapshotChunk(context.Context, *abcitypes.RequestApplySnapshotChunk) (*abcitypes.ResponseApplySnapshotChunk, error) {
	return nil, nil
}

func (app *GovApp) ListSnapshots(context.Context, *abcitypes.RequestListSnapshots) (*abcitypes.ResponseListSnapshots, error) {
	return nil, nil
}

func (app *GovApp) LoadSnapshotChunk(context.Context, *abcitypes.RequestLoadSnapshotChunk) (*abcitypes.ResponseLoadSnapshotChunk, error) {
	return nil, nil
}

func (app *GovApp) OfferSnapshot(context.Context, *abcitypes.RequestOfferSnapshot) (*abcitypes.ResponseOfferSnapshot, error) {
	return nil, nil
}
