package state

// Stake locks amount of the account's balance as voting stake. The
// account's reward position is settled first so the new stake earns
// only from this point on. The first stake after a drought releases
// any withheld income into the index.
func (s *State) Stake(idx uint64, amount uint64) (totalStaked uint64, err error) {
	if amount == 0 {
		return 0, ErrInvalidAmount
	}
	a, err := s.GetAccount(idx)
	if err != nil {
		return 0, err
	}
	if a.Balance < amount {
		return 0, ErrInsufficientBalance
	}
	a = a.Clone()
	s.settleReward(a)
	wasEmpty := s.header.TotalStaked == 0
	a.Balance -= amount
	a.Stake += amount
	s.header.TotalStaked += amount
	if wasEmpty && s.header.WithheldIncome > 0 {
		released := s.header.WithheldIncome
		s.header.WithheldIncome = 0
		s.accrueIncome(released)
	}
	s.markAccount(a)
	return s.header.TotalStaked, nil
}

// Unstake releases amount of stake back to the spendable balance.
// Unstaking never touches votes already cast; their power stays
// frozen at cast time.
func (s *State) Unstake(idx uint64, amount uint64) (totalStaked uint64, err error) {
	if amount == 0 {
		return 0, ErrInvalidAmount
	}
	a, err := s.GetAccount(idx)
	if err != nil {
		return 0, err
	}
	if a.Stake < amount {
		return 0, ErrInsufficientStake
	}
	a = a.Clone()
	s.settleReward(a)
	a.Stake -= amount
	a.Balance += amount
	s.header.TotalStaked -= amount
	s.markAccount(a)
	return s.header.TotalStaked, nil
}
