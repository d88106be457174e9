package types

import (
	"strconv"

	abci "github.com/cometbft/cometbft/abci/types"
)

const (
	EventStakeType        = "stake"
	EventUnstakeType      = "unstake"
	EventClaimType        = "claim_reward"
	EventIncomeType       = "income"
	EventPollCreatedType  = "poll_created"
	EventVoteType         = "vote"
	EventPollSettledType  = "poll_settled"
	EventPollExecutedType = "poll_executed"
)

type EventStake struct {
	Account     uint64 `json:"account"`
	Address     string `json:"address"`
	Amount      uint64 `json:"amount"`
	TotalStaked uint64 `json:"total_staked"`
}

func EncodeEventStake(event *EventStake) abci.Event {
	return abci.Event{
		Type: EventStakeType,
		Attributes: []abci.EventAttribute{
			{Key: "account", Value: strconv.FormatUint(event.Account, 10), Index: true},
			{Key: "address", Value: event.Address, Index: true},
			{Key: "amount", Value: strconv.FormatUint(event.Amount, 10), Index: false},
			{Key: "totalStaked", Value: strconv.FormatUint(event.TotalStaked, 10), Index: false},
		},
	}
}

func DecodeEventStake(originEvent abci.Event) *EventStake {
	event := &EventStake{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "account":
			account, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Account = account
		case "address":
			event.Address = v.Value
		case "amount":
			amount, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Amount = amount
		case "totalStaked":
			total, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.TotalStaked = total
		}
	}
	return event
}

type EventUnstake struct {
	Account     uint64 `json:"account"`
	Address     string `json:"address"`
	Amount      uint64 `json:"amount"`
	TotalStaked uint64 `json:"total_staked"`
}

func EncodeEventUnstake(event *EventUnstake) abci.Event {
	return abci.Event{
		Type: EventUnstakeType,
		Attributes: []abci.EventAttribute{
			{Key: "account", Value: strconv.FormatUint(event.Account, 10), Index: true},
			{Key: "address", Value: event.Address, Index: true},
			{Key: "amount", Value: strconv.FormatUint(event.Amount, 10), Index: false},
			{Key: "totalStaked", Value: strconv.FormatUint(event.TotalStaked, 10), Index: false},
		},
	}
}

func DecodeEventUnstake(originEvent abci.Event) *EventUnstake {
	event := &EventUnstake{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "account":
			account, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Account = account
		case "address":
			event.Address = v.Value
		case "amount":
			amount, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Amount = amount
		case "totalStaked":
			total, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.TotalStaked = total
		}
	}
	return event
}

type EventClaim struct {
	Account uint64 `json:"account"`
	Address string `json:"address"`
	Amount  uint64 `json:"amount"`
}

func EncodeEventClaim(event *EventClaim) abci.Event {
	return abci.Event{
		Type: EventClaimType,
		Attributes: []abci.EventAttribute{
			{Key: "account", Value: strconv.FormatUint(event.Account, 10), Index: true},
			{Key: "address", Value: event.Address, Index: true},
			{Key: "amount", Value: strconv.FormatUint(event.Amount, 10), Index: false},
		},
	}
}

func DecodeEventClaim(originEvent abci.Event) *EventClaim {
	event := &EventClaim{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "account":
			account, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Account = account
		case "address":
			event.Address = v.Value
		case "amount":
			amount, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Amount = amount
		}
	}
	return event
}

type EventIncome struct {
	From     uint64 `json:"from"`
	Amount   uint64 `json:"amount"`
	Withheld bool   `json:"withheld"`
}

func EncodeEventIncome(event *EventIncome) abci.Event {
	return abci.Event{
		Type: EventIncomeType,
		Attributes: []abci.EventAttribute{
			{Key: "from", Value: strconv.FormatUint(event.From, 10), Index: true},
			{Key: "amount", Value: strconv.FormatUint(event.Amount, 10), Index: false},
			{Key: "withheld", Value: strconv.FormatBool(event.Withheld), Index: false},
		},
	}
}

func DecodeEventIncome(originEvent abci.Event) *EventIncome {
	event := &EventIncome{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "from":
			from, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.From = from
		case "amount":
			amount, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Amount = amount
		case "withheld":
			withheld, err := strconv.ParseBool(v.Value)
			if err != nil {
				return nil
			}
			event.Withheld = withheld
		}
	}
	return event
}

type EventPollCreated struct {
	PollID         uint64 `json:"poll_id"`
	Creator        uint64 `json:"creator"`
	CreatorAddress string `json:"creator_address"`
	Deposit        uint64 `json:"deposit"`
	Title          string `json:"title"`
	Link           string `json:"link"`
	EndHeight      uint64 `json:"end_height"`
	Denominator    uint64 `json:"denominator"`
}

func EncodeEventPollCreated(event *EventPollCreated) abci.Event {
	return abci.Event{
		Type: EventPollCreatedType,
		Attributes: []abci.EventAttribute{
			{Key: "poll", Value: strconv.FormatUint(event.PollID, 10), Index: true},
			{Key: "creator", Value: strconv.FormatUint(event.Creator, 10), Index: true},
			{Key: "creatorAddress", Value: event.CreatorAddress, Index: false},
			{Key: "deposit", Value: strconv.FormatUint(event.Deposit, 10), Index: false},
			{Key: "title", Value: event.Title, Index: false},
			{Key: "link", Value: event.Link, Index: false},
			{Key: "endHeight", Value: strconv.FormatUint(event.EndHeight, 10), Index: false},
			{Key: "denominator", Value: strconv.FormatUint(event.Denominator, 10), Index: false},
		},
	}
}

func DecodeEventPollCreated(originEvent abci.Event) *EventPollCreated {
	event := &EventPollCreated{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "poll":
			poll, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.PollID = poll
		case "creator":
			creator, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Creator = creator
		case "creatorAddress":
			event.CreatorAddress = v.Value
		case "deposit":
			deposit, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Deposit = deposit
		case "title":
			event.Title = v.Value
		case "link":
			event.Link = v.Value
		case "endHeight":
			endHeight, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.EndHeight = endHeight
		case "denominator":
			denominator, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Denominator = denominator
		}
	}
	return event
}

type EventVote struct {
	PollID       uint64     `json:"poll_id"`
	Voter        uint64     `json:"voter"`
	VoterAddress string     `json:"voter_address"`
	Option       VoteOption `json:"option"`
	Power        uint64     `json:"power"`
}

func EncodeEventVote(event *EventVote) abci.Event {
	return abci.Event{
		Type: EventVoteType,
		Attributes: []abci.EventAttribute{
			{Key: "poll", Value: strconv.FormatUint(event.PollID, 10), Index: true},
			{Key: "voter", Value: strconv.FormatUint(event.Voter, 10), Index: true},
			{Key: "voterAddress", Value: event.VoterAddress, Index: false},
			{Key: "option", Value: strconv.FormatUint(uint64(event.Option), 10), Index: false},
			{Key: "power", Value: strconv.FormatUint(event.Power, 10), Index: false},
		},
	}
}

func DecodeEventVote(originEvent abci.Event) *EventVote {
	event := &EventVote{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "poll":
			poll, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.PollID = poll
		case "voter":
			voter, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Voter = voter
		case "voterAddress":
			event.VoterAddress = v.Value
		case "option":
			option, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Option = VoteOption(option)
		case "power":
			power, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Power = power
		}
	}
	return event
}

type EventPollSettled struct {
	PollID       uint64     `json:"poll_id"`
	Status       PollStatus `json:"status"`
	YesVotes     uint64     `json:"yes_votes"`
	NoVotes      uint64     `json:"no_votes"`
	AbstainVotes uint64     `json:"abstain_votes"`
	// refunded or forfeited
	DepositAction string `json:"deposit_action"`
}

func EncodeEventPollSettled(event *EventPollSettled) abci.Event {
	return abci.Event{
		Type: EventPollSettledType,
		Attributes: []abci.EventAttribute{
			{Key: "poll", Value: strconv.FormatUint(event.PollID, 10), Index: true},
			{Key: "status", Value: strconv.FormatUint(uint64(event.Status), 10), Index: true},
			{Key: "yes", Value: strconv.FormatUint(event.YesVotes, 10), Index: false},
			{Key: "no", Value: strconv.FormatUint(event.NoVotes, 10), Index: false},
			{Key: "abstain", Value: strconv.FormatUint(event.AbstainVotes, 10), Index: false},
			{Key: "deposit", Value: event.DepositAction, Index: false},
		},
	}
}

func DecodeEventPollSettled(originEvent abci.Event) *EventPollSettled {
	event := &EventPollSettled{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "poll":
			poll, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.PollID = poll
		case "status":
			status, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Status = PollStatus(status)
		case "yes":
			yes, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.YesVotes = yes
		case "no":
			no, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.NoVotes = no
		case "abstain":
			abstain, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.AbstainVotes = abstain
		case "deposit":
			event.DepositAction = v.Value
		}
	}
	return event
}

type EventPollExecuted struct {
	PollID uint64     `json:"poll_id"`
	Status PollStatus `json:"status"`
	Reason string     `json:"reason,omitempty"`
}

func EncodeEventPollExecuted(event *EventPollExecuted) abci.Event {
	return abci.Event{
		Type: EventPollExecutedType,
		Attributes: []abci.EventAttribute{
			{Key: "poll", Value: strconv.FormatUint(event.PollID, 10), Index: true},
			{Key: "status", Value: strconv.FormatUint(uint64(event.Status), 10), Index: true},
			{Key: "reason", Value: event.Reason, Index: false},
		},
	}
}

func DecodeEventPollExecuted(originEvent abci.Event) *EventPollExecuted {
	event := &EventPollExecuted{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "poll":
			poll, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.PollID = poll
		case "status":
			status, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Status = PollStatus(status)
		case "reason":
			event.Reason = v.Value
		}
	}
	return event
}
