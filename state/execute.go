package state

import (
	"fmt"

	"github.com/glowgov/glow-app/types"
)

// ForwardHandler delivers opaque forwarded payloads to the owned
// contract they address. The engine reads only success or failure from
// it, never payload semantics. Dispatch happens during proposal
// building, proposal validation and finalization alike, on every
// validator, so an implementation must be deterministic: a node-local
// failure would fail the batch on that node only and fork the app
// hash.
type ForwardHandler interface {
	Forward(contract string, payload []byte) error
}

// ExecutePoll dispatches a passed poll's message list exactly once,
// atomically. Messages run against a clone of the state; only a fully
// successful batch is absorbed back. Any failure leaves every message
// effect discarded and moves the poll to Failed, which is terminal.
func (s *State) ExecutePoll(pollID uint64, height uint64, fh ForwardHandler) (poll *types.Poll, err error) {
	poll, err = s.GetPoll(pollID)
	if err != nil {
		return nil, err
	}
	switch poll.Status {
	case types.PollStatusPassed:
	case types.PollStatusExecuted, types.PollStatusFailed:
		return nil, ErrAlreadyExecuted
	default:
		return nil, ErrNotPassed
	}
	if height > poll.SettleHeight+s.header.Params.ExecutionWindow {
		return nil, ErrPollExpired
	}

	trial := s.Clone()
	var dispatchErr error
	for i := range poll.Msgs {
		if dispatchErr = trial.applyPollMsg(&poll.Msgs[i], fh); dispatchErr != nil {
			break
		}
	}
	poll = poll.Clone()
	if dispatchErr != nil {
		poll.Status = types.PollStatusFailed
		s.markPoll(poll)
		s.logger.Info("poll msg batch failed", "poll", pollID, "err", dispatchErr)
		return poll, nil
	}
	s.absorb(trial)
	poll.Status = types.PollStatusExecuted
	s.markPoll(poll)
	return poll, nil
}

// absorb adopts a clone's buffered write set wholesale. Valid only for
// clones of this state over the same tree.
func (s *State) absorb(n *State) {
	s.header = n.header
	s.idxs = n.idxs
	s.acnts = n.acnts
	s.polls = n.polls
	s.votes = n.votes
	s.modifiedAcnts = n.modifiedAcnts
	s.modifiedPolls = n.modifiedPolls
	s.newVotes = n.newVotes
}

func (s *State) applyPollMsg(msg *types.PollMsg, fh ForwardHandler) error {
	switch msg.Type {
	case types.PollMsgTypeCommunitySpend:
		return s.applyCommunitySpend(msg.CommunitySpend)
	case types.PollMsgTypeUpdateParams:
		if err := msg.UpdateParams.Validate(); err != nil {
			return err
		}
		s.header.Params = *msg.UpdateParams
		return nil
	case types.PollMsgTypeForward:
		if fh == nil {
			return fmt.Errorf("%w: no forward handler", ErrMsgDispatchFailed)
		}
		if err := fh.Forward(msg.Forward.Contract, msg.Forward.Payload); err != nil {
			return fmt.Errorf("%w: %v", ErrMsgDispatchFailed, err)
		}
		return nil
	default:
		return types.ErrInvalidPollMsg
	}
}

func (s *State) applyCommunitySpend(msg *types.CommunitySpendMsg) error {
	if limit := s.header.Params.CommunitySpendLimit; limit > 0 && msg.Amount > limit {
		return fmt.Errorf("%w: spend %d over limit %d", ErrMsgDispatchFailed, msg.Amount, limit)
	}
	if s.header.CommunityFund < msg.Amount {
		return fmt.Errorf("%w: community fund %d short of %d", ErrMsgDispatchFailed, s.header.CommunityFund, msg.Amount)
	}
	recipient, err := s.FindAccountByAddress(msg.Recipient)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMsgDispatchFailed, err)
	}
	if recipient == nil {
		return fmt.Errorf("%w: recipient %s unknown", ErrMsgDispatchFailed, msg.Recipient)
	}
	recipient = recipient.Clone()
	s.header.CommunityFund -= msg.Amount
	recipient.Balance += msg.Amount
	s.markAccount(recipient)
	return nil
}
