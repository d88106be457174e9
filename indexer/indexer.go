package indexer

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	app_config "github.com/glowgov/glow-app/config"
	"github.com/glowgov/glow-app/crypto"
	"github.com/glowgov/glow-app/state"
	"github.com/glowgov/glow-app/tx"
	"github.com/glowgov/glow-app/types"
	abci "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	comethttp "github.com/cometbft/cometbft/rpc/client/http"
	"github.com/cometbft/cometbft/store"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

// ChainIndexer tails finalized blocks over RPC and mirrors governance
// events into sqlite for the query API. It also auto-submits settle
// txs for polls whose voting period has elapsed, so polls end without
// waiting for a user to push the button.
type ChainIndexer struct {
	logger        cmtlog.Logger
	Url           string
	Height        int64
	db            *gorm.DB
	cli           *comethttp.HTTP
	eventHandlers map[string]eventHandler
	BlockStore    *store.BlockStore
	appConfig     *app_config.Config
	pv            *crypto.PV
	localAddress  string
	ChainId       string
}

func NewChainIndexer(logger cmtlog.Logger, dbPath string, chainUrl string, bs *store.BlockStore, appConfig *app_config.Config) (*ChainIndexer, error) {
	logger.Info("NewChainIndexer", "dbPath", dbPath, "url", chainUrl)
	cli, err := comethttp.New(chainUrl, "/websocket")
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Poll{}, &Vote{}, &Staker{}, &Income{}, &Height{}).Error; err != nil {
		return nil, err
	}
	h := Height{Id: 1}
	if err = db.First(&h).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pv := crypto.LoadFilePV(appConfig.PrivValidatorKeyFile())
	localAddress := pv.Address()

	ctx := context.Background()
	gres, err := cli.Genesis(ctx)
	if err != nil {
		logger.Error("get genesis fail", "err", err)
		return nil, err
	}
	chainId := gres.Genesis.ChainID

	c := ChainIndexer{
		logger:        logger.With("module", "indexer"),
		Url:           chainUrl,
		Height:        int64(h.Height + 1),
		db:            db,
		cli:           cli,
		eventHandlers: map[string]eventHandler{},
		BlockStore:    bs,
		appConfig:     appConfig,
		pv:            pv,
		localAddress:  localAddress,
		ChainId:       chainId,
	}

	c.eventHandlers = map[string]eventHandler{
		types.EventStakeType:        c.handleEventStake,
		types.EventUnstakeType:      c.handleEventUnstake,
		types.EventIncomeType:       c.handleEventIncome,
		types.EventPollCreatedType:  c.handleEventPollCreated,
		types.EventVoteType:         c.handleEventVote,
		types.EventPollSettledType:  c.handleEventPollSettled,
		types.EventPollExecutedType: c.handleEventPollExecuted,
	}
	return &c, nil
}

type eventHandler func(ctx context.Context, event abci.Event, height int64)

func (c *ChainIndexer) handleEvent(ctx context.Context, event abci.Event, height int64) {
	if h, ok := c.eventHandlers[event.Type]; ok {
		h(ctx, event, height)
	}
}

func (c *ChainIndexer) handleEventStake(ctx context.Context, event abci.Event, height int64) {
	ev := types.DecodeEventStake(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	c.refreshStaker(ctx, ev.Account, ev.Address, height)
}

func (c *ChainIndexer) handleEventUnstake(ctx context.Context, event abci.Event, height int64) {
	ev := types.DecodeEventUnstake(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	c.refreshStaker(ctx, ev.Account, ev.Address, height)
}

// refreshStaker re-reads the account over ABCI so the indexed stake is
// the settled on-chain value, not a delta replay.
func (c *ChainIndexer) refreshStaker(ctx context.Context, index uint64, address string, height int64) {
	acc, err := c.queryAccount(ctx, index, "")
	if err != nil || acc == nil {
		c.logger.Error("query staker fail", "account", index, "err", err)
		return
	}
	staker := Staker{
		Id:      acc.Index,
		Address: address,
		Stake:   acc.Stake,
		Height:  uint64(height),
	}
	if err := c.db.Save(&staker).Error; err != nil {
		c.logger.Error("save staker fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventIncome(ctx context.Context, event abci.Event, height int64) {
	ev := types.DecodeEventIncome(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	income := Income{
		From:     ev.From,
		Amount:   ev.Amount,
		Withheld: ev.Withheld,
		Height:   uint64(height),
	}
	if err := c.db.Create(&income).Error; err != nil {
		c.logger.Error("save income fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventPollCreated(ctx context.Context, event abci.Event, height int64) {
	ev := types.DecodeEventPollCreated(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	poll := Poll{
		Id:             ev.PollID,
		CreatorIndex:   ev.Creator,
		CreatorAddress: ev.CreatorAddress,
		Deposit:        ev.Deposit,
		Title:          ev.Title,
		Link:           ev.Link,
		Status:         uint64(types.PollStatusInProgress),
		Denominator:    ev.Denominator,
		CreateHeight:   uint64(height),
		EndHeight:      ev.EndHeight,
	}
	if err := c.db.Save(&poll).Error; err != nil {
		c.logger.Error("save poll fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventVote(ctx context.Context, event abci.Event, height int64) {
	ev := types.DecodeEventVote(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	vote := Vote{
		Poll:         ev.PollID,
		VoterIndex:   ev.Voter,
		VoterAddress: ev.VoterAddress,
		Option:       uint64(ev.Option),
		Power:        ev.Power,
		Height:       uint64(height),
	}
	if err := c.db.Create(&vote).Error; err != nil {
		c.logger.Error("save vote fail", "err", err)
		return
	}
	var poll Poll
	if err := c.db.First(&poll, ev.PollID).Error; err != nil {
		c.logger.Error("get poll fail", "err", err)
		return
	}
	switch types.VoteOption(ev.Option) {
	case types.VoteOptionYes:
		poll.YesVotes += ev.Power
	case types.VoteOptionNo:
		poll.NoVotes += ev.Power
	case types.VoteOptionAbstain:
		poll.AbstainVotes += ev.Power
	}
	if err := c.db.Save(&poll).Error; err != nil {
		c.logger.Error("save poll fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventPollSettled(ctx context.Context, event abci.Event, height int64) {
	ev := types.DecodeEventPollSettled(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	var poll Poll
	if err := c.db.First(&poll, ev.PollID).Error; err != nil {
		c.logger.Error("get poll fail", "err", err)
		return
	}
	poll.Status = uint64(ev.Status)
	poll.YesVotes = ev.YesVotes
	poll.NoVotes = ev.NoVotes
	poll.AbstainVotes = ev.AbstainVotes
	poll.DepositAction = ev.DepositAction
	poll.SettleHeight = uint64(height)
	if err := c.db.Save(&poll).Error; err != nil {
		c.logger.Error("save poll fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventPollExecuted(ctx context.Context, event abci.Event, height int64) {
	ev := types.DecodeEventPollExecuted(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	var poll Poll
	if err := c.db.First(&poll, ev.PollID).Error; err != nil {
		c.logger.Error("get poll fail", "err", err)
		return
	}
	poll.Status = uint64(ev.Status)
	if err := c.db.Save(&poll).Error; err != nil {
		c.logger.Error("save poll fail", "err", err)
	}
}

func (c *ChainIndexer) Start(ctx context.Context) {
	var err error
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.cli == nil {
				c.cli, err = comethttp.New(c.Url, "/websocket")
				if err != nil {
					c.logger.Error("connect fail", "err", err)
					continue
				}
			}
			b, err := c.cli.Status(context.TODO())
			if err != nil {
				c.logger.Error("get status fail", "err", err)
				if !c.cli.IsRunning() {
					c.cli.Stop()
					c.cli, err = comethttp.New(c.Url, "/websocket")
					if err != nil {
						c.logger.Error("reconnect fail", "err", err)
						continue
					}
				}
				continue
			}
			for b.SyncInfo.LatestBlockHeight > c.Height {
				time.Sleep(time.Millisecond * 100)
				c.logger.Info("indexer syncing", "height", c.Height)
				events, err := c.cli.BlockResults(ctx, &c.Height)
				if err != nil {
					c.logger.Error("get block results fail", "err", err)
					if !c.cli.IsRunning() {
						c.cli.Stop()
						c.cli, err = comethttp.New(c.Url, "/websocket")
						if err != nil {
							c.logger.Error("reconnect fail", "err", err)
							continue
						}
					}
					break
				}
				for _, res := range events.TxsResults {
					for _, event := range res.Events {
						c.handleEvent(ctx, event, c.Height)
					}
				}
				if err := c.db.Save(&Height{
					Id:     1,
					Height: uint64(c.Height),
				}).Error; err != nil {
					c.logger.Error("save height fail", "err", err)
					continue
				}
				if c.Height%5 == 0 {
					c.settleDue()
				}
				c.Height++
			}
		}
	}
}

// settleDue submits end txs for polls whose voting period has elapsed,
// signed with the local validator key. EndPoll is callable by anyone,
// so racing settles from other nodes are harmless.
func (c *ChainIndexer) settleDue() {
	var due []Poll
	err := c.db.Where("status = ? AND end_height <= ?", uint64(types.PollStatusInProgress), uint64(c.Height)).Limit(20).Find(&due).Error
	if err != nil {
		c.logger.Error("find due polls fail", "err", err)
		return
	}
	for _, p := range due {
		if err := c.submitEndPoll(p.Id); err != nil {
			c.logger.Error("submit end poll fail", "poll", p.Id, "err", err)
			continue
		}
		c.logger.Info("submitted end poll", "poll", p.Id)
	}
}

func (c *ChainIndexer) submitEndPoll(pollID uint64) error {
	act, err := c.queryAccount(context.Background(), 0, c.localAddress)
	if err != nil {
		return err
	}
	if act == nil {
		return errors.New("local account not found")
	}
	btx := tx.GovTx{
		Version: tx.GovTxVersion1,
		Type:    tx.GovTxTypeEndPoll,
		Nonce:   act.Nonce,
		Account: act.Index,
		Tx:      &tx.EndPollTx{Poll: pollID},
	}
	dat, err := btx.SigData([]byte(c.ChainId))
	if err != nil {
		return err
	}
	sig, err := c.pv.Sign(dat)
	if err != nil {
		return err
	}
	btx.Sig = [][]byte{sig}
	dat, err = json.Marshal(btx)
	if err != nil {
		return err
	}
	_, err = c.cli.BroadcastTxSync(context.Background(), dat)
	return err
}

func (c *ChainIndexer) queryAccount(ctx context.Context, index uint64, address string) (*state.Account, error) {
	var err error
	var dat []byte
	if len(address) > 0 {
		dat, err = hex.DecodeString(address)
		if err != nil {
			return nil, err
		}
	} else {
		s := fmt.Sprintf("0%x", index)
		if len(s)&1 == 1 {
			s = s[1:]
		}
		dat, _ = hex.DecodeString(s)
	}
	res, err := c.cli.ABCIQuery(ctx, "/accounts/", dat)
	if err != nil {
		c.logger.Error("ABCIQuery fail", "err", err)
		if !c.cli.IsRunning() {
			c.cli.Stop()
			c.cli, err = comethttp.New(c.Url, "/websocket")
			if err != nil {
				c.logger.Error("reconnect fail", "err", err)
				return nil, err
			}
		}
		return nil, err
	}
	if res.Response.Code != 0 {
		return nil, fmt.Errorf("account query code %d", res.Response.Code)
	}
	var act state.Account
	err = act.UnmarshalJSON(res.Response.Value)
	if err != nil {
		return nil, err
	}
	return &act, err
}

func (c *ChainIndexer) getPolls(page int, pageSize int) ([]Poll, uint64, error) {
	var polls []Poll
	err := c.db.Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&polls).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&Poll{}).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return polls, total, nil
}

func (c *ChainIndexer) getPollById(pollId uint64) (Poll, error) {
	var poll Poll
	err := c.db.Where("id = ?", pollId).First(&poll).Error
	if err != nil {
		return Poll{}, err
	}
	return poll, nil
}

func (c *ChainIndexer) getPollsByStatus(status uint64, page int, pageSize int) ([]Poll, uint64, error) {
	var polls []Poll
	err := c.db.Where("status = ?", status).Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&polls).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&Poll{}).Where("status = ?", status).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return polls, total, nil
}

func (c *ChainIndexer) getPollsByCreator(creator string, page int, pageSize int) ([]Poll, uint64, error) {
	var polls []Poll
	err := c.db.Where("creator_address = ?", creator).Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&polls).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&Poll{}).Where("creator_address = ?", creator).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return polls, total, nil
}

func (c *ChainIndexer) getVotesByPoll(poll uint64, page int, pageSize int) ([]Vote, uint64, error) {
	var votes []Vote
	err := c.db.Where("poll = ?", poll).Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&votes).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&Vote{}).Where("poll = ?", poll).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return votes, total, nil
}

func (c *ChainIndexer) getVotesByVoter(voter string, page int, pageSize int) ([]Vote, uint64, error) {
	var votes []Vote
	err := c.db.Where("voter_address = ?", voter).Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&votes).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&Vote{}).Where("voter_address = ?", voter).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return votes, total, nil
}

func (c *ChainIndexer) getStakers(page int, pageSize int) ([]Staker, uint64, error) {
	var stakers []Staker
	err := c.db.Order("stake desc").Offset(page * pageSize).Limit(pageSize).Find(&stakers).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&Staker{}).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return stakers, total, nil
}

func (c *ChainIndexer) getIncomes(page int, pageSize int) ([]Income, uint64, error) {
	var incomes []Income
	err := c.db.Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&incomes).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&Income{}).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return incomes, total, nil
}
