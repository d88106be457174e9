package types

import (
	"errors"
	"fmt"
)

// Basis-point denominator for quorum and threshold ratios. All ratio
// comparisons are exact integer math so every node settles a poll the
// same way.
const BpsDenom = 10000

type PollStatus uint64

const (
	PollStatusInProgress PollStatus = 1
	PollStatusPassed     PollStatus = 2
	PollStatusRejected   PollStatus = 3
	PollStatusExecuted   PollStatus = 4
	PollStatusExpired    PollStatus = 5
	PollStatusFailed     PollStatus = 6
)

func (s PollStatus) String() string {
	switch s {
	case PollStatusInProgress:
		return "in_progress"
	case PollStatusPassed:
		return "passed"
	case PollStatusRejected:
		return "rejected"
	case PollStatusExecuted:
		return "executed"
	case PollStatusExpired:
		return "expired"
	case PollStatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", uint64(s))
	}
}

// Terminal reports whether the poll can never change status again.
func (s PollStatus) Terminal() bool {
	switch s {
	case PollStatusRejected, PollStatusExecuted, PollStatusExpired, PollStatusFailed:
		return true
	}
	return false
}

type VoteOption uint64

const (
	VoteOptionYes     VoteOption = 1
	VoteOptionNo      VoteOption = 2
	VoteOptionAbstain VoteOption = 3
)

func (o VoteOption) Valid() bool {
	return o == VoteOptionYes || o == VoteOptionNo || o == VoteOptionAbstain
}

func (o VoteOption) String() string {
	switch o {
	case VoteOptionYes:
		return "yes"
	case VoteOptionNo:
		return "no"
	case VoteOptionAbstain:
		return "abstain"
	default:
		return fmt.Sprintf("unknown(%d)", uint64(o))
	}
}

type Poll struct {
	ID             uint64     `json:"id"`
	Creator        uint64     `json:"creator"`
	CreatorAddress string     `json:"creator_address"`
	Deposit        uint64     `json:"deposit"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Link           string     `json:"link"`
	Msgs           []PollMsg  `json:"msgs,omitempty"`
	Status         PollStatus `json:"status"`
	YesVotes       uint64     `json:"yes_votes"`
	NoVotes        uint64     `json:"no_votes"`
	AbstainVotes   uint64     `json:"abstain_votes"`

	// Quorum denominator, frozen when the poll is created. Later stake
	// changes never move it.
	TotalStakedAtCreation uint64 `json:"total_staked_at_creation"`

	StartHeight  uint64 `json:"start_height"`
	EndHeight    uint64 `json:"end_height"`
	SettleHeight uint64 `json:"settle_height,omitempty"`
}

func (p *Poll) Participation() uint64 {
	return p.YesVotes + p.NoVotes + p.AbstainVotes
}

func (p *Poll) Clone() *Poll {
	n := *p
	if p.Msgs != nil {
		n.Msgs = make([]PollMsg, len(p.Msgs))
		copy(n.Msgs, p.Msgs)
	}
	return &n
}

// Vote is created at most once per (poll, voter). Power is the voter's
// staked amount at cast time and stays authoritative for the poll's life.
type Vote struct {
	PollID       uint64     `json:"poll_id"`
	Voter        uint64     `json:"voter"`
	VoterAddress string     `json:"voter_address"`
	Option       VoteOption `json:"option"`
	Power        uint64     `json:"power"`
	Height       uint64     `json:"height"`
}

type PollMsgType uint8

const (
	PollMsgTypeCommunitySpend PollMsgType = 1
	PollMsgTypeUpdateParams   PollMsgType = 2
	PollMsgTypeForward        PollMsgType = 3
)

// PollMsg is a closed tagged variant. The engine dispatches these on
// passed polls; it never interprets forwarded payloads.
type PollMsg struct {
	Type           PollMsgType        `json:"type"`
	CommunitySpend *CommunitySpendMsg `json:"community_spend,omitempty"`
	UpdateParams   *Params            `json:"update_params,omitempty"`
	Forward        *ForwardMsg        `json:"forward,omitempty"`
}

type CommunitySpendMsg struct {
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

type ForwardMsg struct {
	Contract string `json:"contract"`
	Payload  []byte `json:"payload"`
}

var (
	ErrInvalidPollMsg = errors.New("invalid poll msg")
	ErrInvalidParams  = errors.New("invalid gov params")
)

func (m *PollMsg) Validate() error {
	switch m.Type {
	case PollMsgTypeCommunitySpend:
		if m.CommunitySpend == nil || m.CommunitySpend.Recipient == "" || m.CommunitySpend.Amount == 0 {
			return ErrInvalidPollMsg
		}
	case PollMsgTypeUpdateParams:
		if m.UpdateParams == nil {
			return ErrInvalidPollMsg
		}
		return m.UpdateParams.Validate()
	case PollMsgTypeForward:
		if m.Forward == nil || m.Forward.Contract == "" {
			return ErrInvalidPollMsg
		}
	default:
		return ErrInvalidPollMsg
	}
	return nil
}

// Params are consensus-critical governance parameters. They live in the
// state header and come from genesis app state, never from node-local
// config.
type Params struct {
	MinDeposit          uint64 `json:"min_deposit"`
	QuorumBps           uint64 `json:"quorum_bps"`
	ThresholdBps        uint64 `json:"threshold_bps"`
	VotingPeriod        uint64 `json:"voting_period"`
	ExecutionWindow     uint64 `json:"execution_window"`
	CommunitySpendLimit uint64 `json:"community_spend_limit"`
}

func (p *Params) Validate() error {
	if p.QuorumBps == 0 || p.QuorumBps > BpsDenom {
		return fmt.Errorf("%w: quorum %d bps", ErrInvalidParams, p.QuorumBps)
	}
	if p.ThresholdBps == 0 || p.ThresholdBps > BpsDenom {
		return fmt.Errorf("%w: threshold %d bps", ErrInvalidParams, p.ThresholdBps)
	}
	if p.VotingPeriod == 0 {
		return fmt.Errorf("%w: zero voting period", ErrInvalidParams)
	}
	if p.ExecutionWindow == 0 {
		return fmt.Errorf("%w: zero execution window", ErrInvalidParams)
	}
	return nil
}

func DefaultParams() Params {
	return Params{
		MinDeposit:          1000_000000,
		QuorumBps:           3000,
		ThresholdBps:        5000,
		VotingPeriod:        10000,
		ExecutionWindow:     5000,
		CommunitySpendLimit: 500000_000000,
	}
}
