package state

import "errors"

var ErrNotFound = errors.New("not found")

// Validation errors: input rejected before any state mutation.
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInsufficientStake   = errors.New("insufficient stake")
	ErrInsufficientDeposit = errors.New("deposit below configured minimum")
	ErrEmptyTitle          = errors.New("poll title is empty")
	ErrVoteOptionInvalid   = errors.New("vote option invalid")
)

// State-conflict errors: the call arrived at the wrong lifecycle point.
var (
	ErrAlreadyVoted        = errors.New("already voted on poll")
	ErrPollNotInProgress   = errors.New("poll not in progress")
	ErrVotingOpen          = errors.New("voting period still open")
	ErrNotPassed           = errors.New("poll not passed")
	ErrAlreadyExecuted     = errors.New("poll already executed")
	ErrPollExpired         = errors.New("poll execution window elapsed")
	ErrExecutionWindowOpen = errors.New("poll execution window still open")
)

// Resource errors: nothing to do, safe to retry after state changes.
var (
	ErrNoStakers      = errors.New("no stakers")
	ErrNothingToClaim = errors.New("nothing to claim")
	ErrNoStake        = errors.New("no stake")
)

var (
	ErrAccountNoexists      = errors.New("account noexists")
	ErrAccountAlreadyExists = errors.New("account already exists")
	ErrPollNoexists         = errors.New("poll noexists")
	ErrTxNonceInvalid       = errors.New("nonce invalid")
	ErrTxSigInvalid         = errors.New("signature invalid")
	ErrMsgDispatchFailed    = errors.New("poll msg dispatch failed")
)
