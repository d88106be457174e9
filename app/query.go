package app

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"strings"

	"github.com/glowgov/glow-app/state"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

type Querier interface {
	Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error)
}

func (app *GovApp) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	path := req.Path
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	q, ok := app.queriers[path]
	if !ok {
		res = &abcitypes.ResponseQuery{}
		res.Code = 404
		return
	}
	res, err = q.Query(ctx, req)
	return
}

type AccountQuerier struct {
	db     *state.StateDB
	logger cmtlog.Logger
}

func NewAccountQuerier(db *state.StateDB, logger cmtlog.Logger) (q *AccountQuerier) {
	q = &AccountQuerier{
		db:     db,
		logger: logger,
	}
	return
}

// Query resolves an account by 20-byte address or by big-endian index.
// The payload is the account body plus its claimable reward, which can
// exceed PendingReward until the next settlement touch.
func (q *AccountQuerier) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	res = &abcitypes.ResponseQuery{}
	var a *state.Account
	var claimable, height uint64
	if len(req.Data) == 20 {
		a, claimable, height, _ = q.db.GetAccountByAddress(req.Data)
	} else if len(req.Data) <= 8 {
		var idx uint64
		for _, v := range req.Data {
			idx <<= 8
			idx |= uint64(v)
		}
		a, claimable, height, _ = q.db.GetAccountByIndex(idx)
	}
	if a != nil {
		body, _ := a.MarshalJSON()
		var fields map[string]json.RawMessage
		_ = json.Unmarshal(body, &fields)
		fields["claimable"], _ = json.Marshal(claimable)
		res.Value, _ = json.Marshal(fields)
		res.Height = int64(height)
	} else {
		res.Code = 1
	}
	return
}

type PollQuerier struct {
	db     *state.StateDB
	logger cmtlog.Logger
}

func NewPollQuerier(db *state.StateDB, logger cmtlog.Logger) (q *PollQuerier) {
	q = &PollQuerier{
		db:     db,
		logger: logger,
	}
	return
}

func (q *PollQuerier) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	res = &abcitypes.ResponseQuery{}
	if len(req.Data) != 8 {
		res.Code = 1
		res.Log = "want 8-byte poll id"
		return
	}
	id := binary.BigEndian.Uint64(req.Data)
	poll, height, err := q.db.GetPoll(id)
	if err != nil || poll == nil {
		res.Code = 1
		if err != nil {
			res.Log = err.Error()
		}
		return res, nil
	}
	res.Value, _ = json.Marshal(poll)
	res.Height = int64(height)
	return
}

// voteQuery is the request payload for the vote querier: poll id plus
// the voter's hex address.
type voteQuery struct {
	Poll  uint64 `json:"poll"`
	Voter string `json:"voter"`
}

type VoteQuerier struct {
	db     *state.StateDB
	logger cmtlog.Logger
}

func NewVoteQuerier(db *state.StateDB, logger cmtlog.Logger) (q *VoteQuerier) {
	q = &VoteQuerier{
		db:     db,
		logger: logger,
	}
	return
}

func (q *VoteQuerier) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	res = &abcitypes.ResponseQuery{}
	var vq voteQuery
	if err := json.Unmarshal(req.Data, &vq); err != nil {
		res.Code = 1
		res.Log = err.Error()
		return res, nil
	}
	vote, height, err := q.db.GetVote(vq.Poll, vq.Voter)
	if err != nil || vote == nil {
		res.Code = 1
		if err != nil {
			res.Log = err.Error()
		}
		return res, nil
	}
	res.Value, _ = json.Marshal(vote)
	res.Height = int64(height)
	return
}

// GovQuerier returns the governance header: params, total stake, the
// reward index and the community fund.
type GovQuerier struct {
	db     *state.StateDB
	logger cmtlog.Logger
}

func NewGovQuerier(db *state.StateDB, logger cmtlog.Logger) (q *GovQuerier) {
	q = &GovQuerier{
		db:     db,
		logger: logger,
	}
	return
}

func (q *GovQuerier) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	res = &abcitypes.ResponseQuery{}
	header := q.db.Header()
	res.Value, _ = json.Marshal(header)
	res.Height = int64(header.Height)
	return
}
