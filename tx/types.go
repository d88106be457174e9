package tx

import (
	"errors"

	"github.com/glowgov/glow-app/types"
)

type GovTxType uint8

const (
	GovTxTypeUnknown     GovTxType = 0
	GovTxTypeStake       GovTxType = 1
	GovTxTypeUnstake     GovTxType = 2
	GovTxTypeClaim       GovTxType = 3
	GovTxTypeIncome      GovTxType = 4
	GovTxTypeCreatePoll  GovTxType = 5
	GovTxTypeVote        GovTxType = 6
	GovTxTypeEndPoll     GovTxType = 7
	GovTxTypeExecutePoll GovTxType = 8
	GovTxTypeExpirePoll  GovTxType = 9
)

const (
	GovTxVersion0 uint8 = 0
	GovTxVersion1 uint8 = 1
)

var (
	ErrInvalidTx            = errors.New("invalid tx")
	ErrUnsupportedTxType    = errors.New("unsupported tx type")
	ErrUnsupportedTxVersion = errors.New("unsupported tx version")
	ErrUnmatchedTxType      = errors.New("unmatched tx type")
)

// StakeTx locks amount from the sender's balance into the stake ledger.
type StakeTx struct {
	Amount uint64 `json:"amount"`
}

// UnstakeTx releases amount from the stake ledger back to the balance.
type UnstakeTx struct {
	Amount uint64 `json:"amount"`
}

// ClaimTx settles and withdraws the sender's accrued staking rewards.
type ClaimTx struct{}

// IncomeTx routes protocol income from the sender's balance into the
// staker reward pool. The fee collector pushes these; zero amount is a
// no-op, not an error.
type IncomeTx struct {
	Amount uint64 `json:"amount"`
}

type CreatePollTx struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link,omitempty"`
	Deposit     uint64 `json:"deposit"`
	// VotingPeriod of 0 uses the configured default.
	VotingPeriod uint64          `json:"voting_period,omitempty"`
	Msgs         []types.PollMsg `json:"msgs,omitempty"`
}

type VoteTx struct {
	Poll   uint64           `json:"poll"`
	Option types.VoteOption `json:"option"`
}

type EndPollTx struct {
	Poll uint64 `json:"poll"`
}

type ExecutePollTx struct {
	Poll uint64 `json:"poll"`
}

type ExpirePollTx struct {
	Poll uint64 `json:"poll"`
}
