package state

import (
	"math/big"
)

// RewardScale is the fixed-point scale of the global reward index.
var RewardScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// DepositIncome routes protocol income into the reward index. A zero
// amount is a no-op. Income arriving while nothing is staked is
// withheld and released into the index on the first subsequent stake.
func (s *State) DepositIncome(amount uint64) (withheld bool, err error) {
	if amount == 0 {
		return false, nil
	}
	if s.header.TotalStaked == 0 {
		s.header.WithheldIncome += amount
		return true, nil
	}
	s.accrueIncome(amount)
	return false, nil
}

// accrueIncome advances the reward index by amount/TotalStaked in
// fixed point. The division remainder is carried into the next accrual
// so rounding never erodes the distributed total. Caller guarantees
// TotalStaked > 0.
func (s *State) accrueIncome(amount uint64) {
	num := new(big.Int).SetUint64(amount)
	num.Mul(num, RewardScale)
	num.Add(num, s.header.RewardRemainder)
	den := new(big.Int).SetUint64(s.header.TotalStaked)
	quo, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	s.header.RewardIndex.Add(s.header.RewardIndex, quo)
	s.header.RewardRemainder = rem
}

// settleReward folds the index movement since the account's last
// settlement into its pending reward and refreshes the snapshot. Must
// run before any change to the account's stake.
func (s *State) settleReward(a *Account) {
	snap := a.snapshot()
	if a.Stake > 0 {
		delta := new(big.Int).Sub(s.header.RewardIndex, snap)
		if delta.Sign() > 0 {
			owed := delta.Mul(delta, new(big.Int).SetUint64(a.Stake))
			owed.Quo(owed, RewardScale)
			a.PendingReward += owed.Uint64()
		}
	}
	a.RewardSnapshot = new(big.Int).Set(s.header.RewardIndex)
}

// ClaimableReward reports what a claim would pay out right now,
// without mutating anything. With nothing staked chain-wide and
// nothing pending it reports ErrNoStakers, the condition under which
// incoming income is withheld rather than distributed.
func (s *State) ClaimableReward(idx uint64) (amount uint64, err error) {
	a, err := s.GetAccount(idx)
	if err != nil {
		return 0, err
	}
	amount = a.PendingReward
	if a.Stake > 0 {
		delta := new(big.Int).Sub(s.header.RewardIndex, a.snapshot())
		if delta.Sign() > 0 {
			owed := delta.Mul(delta, new(big.Int).SetUint64(a.Stake))
			owed.Quo(owed, RewardScale)
			amount += owed.Uint64()
		}
	}
	if amount == 0 && s.header.TotalStaked == 0 {
		return 0, ErrNoStakers
	}
	return
}

// ClaimReward settles and moves the full pending reward into the
// account's spendable balance.
func (s *State) ClaimReward(idx uint64) (amount uint64, err error) {
	a, err := s.GetAccount(idx)
	if err != nil {
		return 0, err
	}
	a = a.Clone()
	s.settleReward(a)
	if a.PendingReward == 0 {
		return 0, ErrNothingToClaim
	}
	amount = a.PendingReward
	a.PendingReward = 0
	a.Balance += amount
	s.markAccount(a)
	return
}

// Income debits an account's balance and distributes it to stakers.
func (s *State) Income(idx uint64, amount uint64) (withheld bool, err error) {
	if amount == 0 {
		return false, nil
	}
	a, err := s.GetAccount(idx)
	if err != nil {
		return false, err
	}
	if a.Balance < amount {
		return false, ErrInsufficientBalance
	}
	a = a.Clone()
	a.Balance -= amount
	s.markAccount(a)
	return s.DepositIncome(amount)
}
