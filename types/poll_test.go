package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamsValidate(t *testing.T) {
	p := DefaultParams()
	assert.NoError(t, p.Validate())

	p = DefaultParams()
	p.QuorumBps = 0
	assert.ErrorIs(t, p.Validate(), ErrInvalidParams)

	p = DefaultParams()
	p.ThresholdBps = BpsDenom + 1
	assert.ErrorIs(t, p.Validate(), ErrInvalidParams)

	p = DefaultParams()
	p.VotingPeriod = 0
	assert.ErrorIs(t, p.Validate(), ErrInvalidParams)

	p = DefaultParams()
	p.ExecutionWindow = 0
	assert.ErrorIs(t, p.Validate(), ErrInvalidParams)
}

func TestPollMsgValidate(t *testing.T) {
	msg := PollMsg{
		Type:           PollMsgTypeCommunitySpend,
		CommunitySpend: &CommunitySpendMsg{Recipient: "AB12", Amount: 10},
	}
	assert.NoError(t, msg.Validate())

	msg.CommunitySpend.Amount = 0
	assert.ErrorIs(t, msg.Validate(), ErrInvalidPollMsg)

	assert.ErrorIs(t, (&PollMsg{Type: PollMsgTypeForward}).Validate(), ErrInvalidPollMsg)
	assert.NoError(t, (&PollMsg{
		Type:    PollMsgTypeForward,
		Forward: &ForwardMsg{Contract: "vesting"},
	}).Validate())

	bad := DefaultParams()
	bad.QuorumBps = 0
	assert.ErrorIs(t, (&PollMsg{Type: PollMsgTypeUpdateParams, UpdateParams: &bad}).Validate(), ErrInvalidParams)

	assert.ErrorIs(t, (&PollMsg{Type: PollMsgType(77)}).Validate(), ErrInvalidPollMsg)
}

func TestPollStatusTerminal(t *testing.T) {
	assert.False(t, PollStatusInProgress.Terminal())
	assert.False(t, PollStatusPassed.Terminal())
	assert.True(t, PollStatusRejected.Terminal())
	assert.True(t, PollStatusExecuted.Terminal())
	assert.True(t, PollStatusExpired.Terminal())
	assert.True(t, PollStatusFailed.Terminal())
}
