package state

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/glowgov/glow-app/tx"
	"github.com/glowgov/glow-app/types"
)

func (s *State) GetPoll(id uint64) (poll *types.Poll, err error) {
	poll = s.polls[id]
	if poll != nil {
		return
	}
	if id == 0 || id > s.header.PollIdx {
		return nil, ErrPollNoexists
	}
	key := fmt.Sprintf(KeyPollBody, id)
	val, err := s.db.Get([]byte(key))
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, ErrPollNoexists
	}
	poll = new(types.Poll)
	err = json.Unmarshal(val, poll)
	if err != nil {
		return nil, err
	}
	s.polls[id] = poll
	return
}

func (s *State) markPoll(p *types.Poll) {
	s.polls[p.ID] = p
	s.modifiedPolls[p.ID] = struct{}{}
}

// CreatePoll escrows the deposit out of the creator's balance and opens
// a new poll. The quorum denominator is the total stake at this
// instant, frozen for the poll's lifetime.
func (s *State) CreatePoll(creator uint64, ptx *tx.CreatePollTx, height uint64) (pollID uint64, err error) {
	a, err := s.GetAccount(creator)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(ptx.Title) == "" {
		return 0, ErrEmptyTitle
	}
	if ptx.Deposit < s.header.Params.MinDeposit {
		return 0, ErrInsufficientDeposit
	}
	if a.Balance < ptx.Deposit {
		return 0, ErrInsufficientBalance
	}
	for i := range ptx.Msgs {
		if err = ptx.Msgs[i].Validate(); err != nil {
			return 0, err
		}
	}
	// the per-poll override may only shorten the configured period
	period := ptx.VotingPeriod
	if period == 0 || period > s.header.Params.VotingPeriod {
		period = s.header.Params.VotingPeriod
	}

	a = a.Clone()
	a.Balance -= ptx.Deposit
	s.markAccount(a)

	pollID = s.header.PollIdx + 1
	s.header.PollIdx = pollID
	poll := &types.Poll{
		ID:                    pollID,
		Creator:               creator,
		CreatorAddress:        a.Address(),
		Deposit:               ptx.Deposit,
		Title:                 ptx.Title,
		Description:           ptx.Description,
		Link:                  ptx.Link,
		Msgs:                  ptx.Msgs,
		Status:                types.PollStatusInProgress,
		TotalStakedAtCreation: s.header.TotalStaked,
		StartHeight:           height,
		EndHeight:             height + period,
	}
	s.markPoll(poll)
	return
}

// CastVote tallies a stake-weighted vote. Power is the voter's stake
// right now; later stake movement never revisits it. One vote per
// (poll, voter).
func (s *State) CastVote(voter uint64, pollID uint64, option types.VoteOption, height uint64) (vote *types.Vote, err error) {
	if !option.Valid() {
		return nil, ErrVoteOptionInvalid
	}
	poll, err := s.GetPoll(pollID)
	if err != nil {
		return nil, err
	}
	if poll.Status != types.PollStatusInProgress || height >= poll.EndHeight {
		return nil, ErrPollNotInProgress
	}
	a, err := s.GetAccount(voter)
	if err != nil {
		return nil, err
	}
	if a.Stake == 0 {
		return nil, ErrNoStake
	}
	voted, err := s.hasVoted(pollID, a.Address())
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, ErrAlreadyVoted
	}

	vote = &types.Vote{
		PollID:       pollID,
		Voter:        voter,
		VoterAddress: a.Address(),
		Option:       option,
		Power:        a.Stake,
		Height:       height,
	}
	s.recordVote(vote)

	poll = poll.Clone()
	switch option {
	case types.VoteOptionYes:
		poll.YesVotes += vote.Power
	case types.VoteOptionNo:
		poll.NoVotes += vote.Power
	case types.VoteOptionAbstain:
		poll.AbstainVotes += vote.Power
	}
	s.markPoll(poll)
	return
}

// EndPoll settles a poll once its voting period has elapsed. Quorum is
// participation over the frozen creation-time denominator; the
// threshold ratio counts yes against yes+no only. A rejected poll's
// deposit is forfeited into reward income; a passed poll refunds it.
func (s *State) EndPoll(pollID uint64, height uint64) (poll *types.Poll, err error) {
	poll, err = s.GetPoll(pollID)
	if err != nil {
		return nil, err
	}
	if poll.Status != types.PollStatusInProgress {
		return nil, ErrPollNotInProgress
	}
	if height < poll.EndHeight {
		return nil, ErrVotingOpen
	}

	poll = poll.Clone()
	poll.SettleHeight = height
	if s.pollPasses(poll) {
		poll.Status = types.PollStatusPassed
		creator, err := s.GetAccount(poll.Creator)
		if err != nil {
			return nil, err
		}
		creator = creator.Clone()
		creator.Balance += poll.Deposit
		s.markAccount(creator)
	} else {
		poll.Status = types.PollStatusRejected
		if _, err = s.DepositIncome(poll.Deposit); err != nil {
			return nil, err
		}
	}
	s.markPoll(poll)
	return
}

// pollPasses applies the quorum then threshold rules. All comparisons
// are big.Int so large stakes cannot overflow the cross products.
func (s *State) pollPasses(poll *types.Poll) bool {
	participation := poll.Participation()
	if participation == 0 || poll.TotalStakedAtCreation == 0 {
		return false
	}
	// participation/denominator >= quorum
	lhs := new(big.Int).Mul(new(big.Int).SetUint64(participation), big.NewInt(types.BpsDenom))
	rhs := new(big.Int).Mul(new(big.Int).SetUint64(poll.TotalStakedAtCreation), new(big.Int).SetUint64(s.header.Params.QuorumBps))
	if lhs.Cmp(rhs) < 0 {
		return false
	}
	// yes/(yes+no) >= threshold, abstain excluded
	decisive := poll.YesVotes + poll.NoVotes
	if decisive == 0 {
		return false
	}
	lhs = new(big.Int).Mul(new(big.Int).SetUint64(poll.YesVotes), big.NewInt(types.BpsDenom))
	rhs = new(big.Int).Mul(new(big.Int).SetUint64(decisive), new(big.Int).SetUint64(s.header.Params.ThresholdBps))
	return lhs.Cmp(rhs) >= 0
}

// ExpirePoll retires a passed poll whose execution window has lapsed,
// making its messages forever unexecutable.
func (s *State) ExpirePoll(pollID uint64, height uint64) (poll *types.Poll, err error) {
	poll, err = s.GetPoll(pollID)
	if err != nil {
		return nil, err
	}
	if poll.Status != types.PollStatusPassed {
		return nil, ErrNotPassed
	}
	if height <= poll.SettleHeight+s.header.Params.ExecutionWindow {
		return nil, ErrExecutionWindowOpen
	}
	poll = poll.Clone()
	poll.Status = types.PollStatusExpired
	s.markPoll(poll)
	return
}
