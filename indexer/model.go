package indexer

// sqlite models

type Height struct {
	Id     uint64 `gorm:"primaryKey" json:"id"`
	Height uint64 `json:"height"`
}

type Poll struct {
	Id             uint64 `gorm:"primaryKey" json:"id"`
	CreatorIndex   uint64 `json:"creator_index"`
	CreatorAddress string `json:"creator_address"`
	Deposit        uint64 `json:"deposit"`
	Title          string `json:"title"`
	Link           string `json:"link"`
	Status         uint64 `json:"status"`
	YesVotes       uint64 `json:"yes_votes"`
	NoVotes        uint64 `json:"no_votes"`
	AbstainVotes   uint64 `json:"abstain_votes"`
	Denominator    uint64 `json:"denominator"`
	DepositAction  string `json:"deposit_action"`
	CreateHeight   uint64 `json:"create_height"`
	EndHeight      uint64 `json:"end_height"`
	SettleHeight   uint64 `json:"settle_height"`
}

type Vote struct {
	Id           uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Poll         uint64 `json:"poll"`
	VoterIndex   uint64 `json:"voter_index"`
	VoterAddress string `json:"voter_address"`
	Option       uint64 `json:"option"`
	Power        uint64 `json:"power"`
	Height       uint64 `json:"height"`
}

type Staker struct {
	Id      uint64 `gorm:"primaryKey" json:"id"`
	Address string `json:"address"`
	Stake   uint64 `json:"stake"`
	Height  uint64 `json:"height"`
}

type Income struct {
	Id       uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	From     uint64 `json:"from"`
	Amount   uint64 `json:"amount"`
	Withheld bool   `json:"withheld"`
	Height   uint64 `json:"height"`
}
