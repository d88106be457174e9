package state

import (
	"math/big"

	"github.com/glowgov/glow-app/types"
)

// StateHeader is the singleton root record of the governance state. It
// carries the reward index (the process-wide accumulator every stake
// settles against) alongside chain bookkeeping; it is passed by
// reference into every call that touches stake or income.
type StateHeader struct {
	ChainID  string `json:"chain_id"`
	Height   uint64 `json:"height"`
	Hash     []byte `json:"hash,omitempty"`
	RootHash []byte `json:"root_hash,omitempty"`

	AccountIdx uint64 `json:"account_idx"`
	PollIdx    uint64 `json:"poll_idx"`

	// Reward distribution singleton. RewardIndex is scaled by
	// RewardScale; RewardRemainder carries the division remainder
	// between income deposits so rounding never erodes rewards.
	TotalStaked     uint64   `json:"total_staked"`
	RewardIndex     *big.Int `json:"reward_index"`
	RewardRemainder *big.Int `json:"reward_remainder"`
	// Income received while no stake existed, released into the index
	// on the first subsequent stake.
	WithheldIncome uint64 `json:"withheld_income"`

	CommunityFund uint64       `json:"community_fund"`
	Params        types.Params `json:"params"`
}

func newStateHeader() *StateHeader {
	return &StateHeader{
		AccountIdx:      StartAccountIdx,
		RewardIndex:     new(big.Int),
		RewardRemainder: new(big.Int),
		Params:          types.DefaultParams(),
	}
}

// normalize backfills nil big.Int fields after JSON decoding.
func (h *StateHeader) normalize() {
	if h.RewardIndex == nil {
		h.RewardIndex = new(big.Int)
	}
	if h.RewardRemainder == nil {
		h.RewardRemainder = new(big.Int)
	}
}

func (h *StateHeader) Clone() *StateHeader {
	n := *h
	if h.Hash != nil {
		n.Hash = make([]byte, len(h.Hash))
		copy(n.Hash, h.Hash)
	}
	if h.RootHash != nil {
		n.RootHash = make([]byte, len(h.RootHash))
		copy(n.RootHash, h.RootHash)
	}
	n.RewardIndex = new(big.Int).Set(h.RewardIndex)
	n.RewardRemainder = new(big.Int).Set(h.RewardRemainder)
	return &n
}
