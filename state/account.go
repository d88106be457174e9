package state

import (
	"encoding/json"
	"math/big"

	"github.com/cometbft/cometbft/crypto/ed25519"
)

// Account holds one stakeholder's token balance, staked amount and
// lifetime reward bookkeeping. Stake only moves through explicit
// stake/unstake calls and is never negative; RewardSnapshot is the
// global reward index value at the last settlement.
type Account struct {
	Index          uint64
	PubKey         []byte
	Balance        uint64
	Stake          uint64
	PendingReward  uint64
	RewardSnapshot *big.Int
	Nonce          uint64
}

type accountSt struct {
	Index          uint64         `json:"index"`
	PubKey         ed25519.PubKey `json:"pubKey"`
	Balance        uint64         `json:"balance"`
	Stake          uint64         `json:"stake"`
	PendingReward  uint64         `json:"pendingReward"`
	RewardSnapshot *big.Int       `json:"rewardSnapshot"`
	Nonce          uint64         `json:"nonce"`
}

func (a *Account) MarshalJSON() (dat []byte, err error) {
	o := accountSt{
		Index:          a.Index,
		PubKey:         a.PubKey,
		Balance:        a.Balance,
		Stake:          a.Stake,
		PendingReward:  a.PendingReward,
		RewardSnapshot: a.RewardSnapshot,
		Nonce:          a.Nonce,
	}
	return json.Marshal(o)
}

func (a *Account) UnmarshalJSON(dat []byte) (err error) {
	var o accountSt
	err = json.Unmarshal(dat, &o)
	if err != nil {
		return
	}
	a.Index = o.Index
	a.PubKey = o.PubKey
	a.Balance = o.Balance
	a.Stake = o.Stake
	a.PendingReward = o.PendingReward
	a.RewardSnapshot = o.RewardSnapshot
	a.Nonce = o.Nonce
	if a.RewardSnapshot == nil {
		a.RewardSnapshot = new(big.Int)
	}
	return
}

func (a *Account) Clone() *Account {
	n := *a
	if a.PubKey != nil {
		n.PubKey = make([]byte, len(a.PubKey))
		copy(n.PubKey, a.PubKey)
	}
	if a.RewardSnapshot != nil {
		n.RewardSnapshot = new(big.Int).Set(a.RewardSnapshot)
	}
	return &n
}

func (a *Account) SetPubKey(pkey []byte) {
	if a.PubKey == nil {
		a.PubKey = make([]byte, len(pkey))
	}
	copy(a.PubKey, pkey)
}

func (a *Account) AddrBytes() []byte {
	pk := ed25519.PubKey(a.PubKey[:])
	return pk.Address()[:]
}

func (a *Account) Address() string {
	pk := ed25519.PubKey(a.PubKey[:])
	return pk.Address().String()
}

func (a *Account) Verify(msg []byte, sigs [][]byte) (succ bool) {
	if len(sigs) != 1 {
		return false
	}
	pk := ed25519.PubKey(a.PubKey[:])
	return pk.VerifySignature(msg, sigs[0])
}

func (a *Account) snapshot() *big.Int {
	if a.RewardSnapshot == nil {
		a.RewardSnapshot = new(big.Int)
	}
	return a.RewardSnapshot
}
