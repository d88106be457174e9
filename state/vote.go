package state

import (
	"encoding/json"
	"fmt"

	"github.com/glowgov/glow-app/types"
)

func voteKey(pollID uint64, voter string) string {
	return fmt.Sprintf(KeyVoteBody, pollID, voter)
}

// GetVote returns the vote cast by voter (hex address) on a poll, or
// ErrNotFound if none was cast.
func (s *State) GetVote(pollID uint64, voter string) (vote *types.Vote, err error) {
	key := voteKey(pollID, voter)
	vote = s.votes[key]
	if vote != nil {
		return
	}
	val, err := s.db.Get([]byte(key))
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, ErrNotFound
	}
	vote = new(types.Vote)
	err = json.Unmarshal(val, vote)
	if err != nil {
		return nil, err
	}
	s.votes[key] = vote
	return
}

func (s *State) hasVoted(pollID uint64, voter string) (bool, error) {
	_, err := s.GetVote(pollID, voter)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// recordVote stores a vote; one per (poll, voter), enforced by the
// caller.
func (s *State) recordVote(vote *types.Vote) {
	key := voteKey(vote.PollID, vote.VoterAddress)
	s.votes[key] = vote
	s.newVotes[key] = struct{}{}
}
