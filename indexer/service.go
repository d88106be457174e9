package indexer

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Service struct {
	engine     *gin.Engine
	indexer    *ChainIndexer
	listenAddr string
}

func NewService(listenAddr string, indexer *ChainIndexer) *Service {
	r := gin.Default()
	s := &Service{
		engine:     r,
		indexer:    indexer,
		listenAddr: listenAddr,
	}
	s.engine.POST("/getPolls", s.handleGetPolls)
	s.engine.POST("/getVotes", s.handleGetVotes)
	s.engine.POST("/getStakers", s.handleGetStakers)
	s.engine.POST("/getIncomes", s.handleGetIncomes)
	return s
}

func (s *Service) Start() {
	s.engine.Run(s.listenAddr)
}

type GetPollsReq struct {
	PollId         uint64 `json:"pollId"`
	CreatorAddress string `json:"creator"`
	Status         uint64 `json:"status"`
	Page           int    `json:"page"`
	PageSize       int    `json:"pageSize"`
}

type PollInfo struct {
	Poll    Poll   `json:"poll"`
	VoteCnt uint64 `json:"voteCnt"`
}

type GetPollsResponse struct {
	Polls []PollInfo `json:"polls"`
	Total uint64     `json:"total"`
}

func (s *Service) handleGetPolls(c *gin.Context) {
	var response GetPollsResponse
	response.Polls = make([]PollInfo, 0)
	var requestData GetPollsReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if requestData.PollId != 0 {
		info, err := s.getPollInfoById(requestData.PollId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		response.Polls = append(response.Polls, info)
		response.Total = 1
		c.JSON(http.StatusOK, response)
		return
	}

	var polls []Poll
	var total uint64
	var err error
	switch {
	case requestData.CreatorAddress != "":
		polls, total, err = s.indexer.getPollsByCreator(requestData.CreatorAddress, requestData.Page, requestData.PageSize)
	case requestData.Status != 0:
		polls, total, err = s.indexer.getPollsByStatus(requestData.Status, requestData.Page, requestData.PageSize)
	default:
		polls, total, err = s.indexer.getPolls(requestData.Page, requestData.PageSize)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response.Total = total
	for _, poll := range polls {
		info, err := s.getPollInfoById(poll.Id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		response.Polls = append(response.Polls, info)
	}
	c.JSON(http.StatusOK, response)
}

func (s *Service) getPollInfoById(pollId uint64) (PollInfo, error) {
	poll, err := s.indexer.getPollById(pollId)
	if err != nil {
		return PollInfo{}, err
	}
	_, total, err := s.indexer.getVotesByPoll(pollId, 0, 1)
	if err != nil {
		return PollInfo{}, err
	}
	return PollInfo{
		Poll:    poll,
		VoteCnt: total,
	}, nil
}

type GetVotesReq struct {
	PollId       uint64 `json:"pollId"`
	VoterAddress string `json:"voter"`
	Page         int    `json:"page"`
	PageSize     int    `json:"pageSize"`
}

type GetVotesResponse struct {
	Votes []Vote `json:"votes"`
	Total uint64 `json:"total"`
}

func (s *Service) handleGetVotes(c *gin.Context) {
	var response GetVotesResponse
	response.Votes = make([]Vote, 0)
	var requestData GetVotesReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var votes []Vote
	var total uint64
	var err error
	switch {
	case requestData.PollId != 0:
		votes, total, err = s.indexer.getVotesByPoll(requestData.PollId, requestData.Page, requestData.PageSize)
	case requestData.VoterAddress != "":
		votes, total, err = s.indexer.getVotesByVoter(requestData.VoterAddress, requestData.Page, requestData.PageSize)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "pollId or voter is required"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	response.Votes = votes
	response.Total = total
	c.JSON(http.StatusOK, response)
}

type GetStakersReq struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

type GetStakersResponse struct {
	Stakers []Staker `json:"stakers"`
	Total   uint64   `json:"total"`
}

func (s *Service) handleGetStakers(c *gin.Context) {
	var response GetStakersResponse
	response.Stakers = make([]Staker, 0)
	var requestData GetStakersReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	stakers, total, err := s.indexer.getStakers(requestData.Page, requestData.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	response.Stakers = stakers
	response.Total = total
	c.JSON(http.StatusOK, response)
}

type GetIncomesReq struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

type GetIncomesResponse struct {
	Incomes []Income `json:"incomes"`
	Total   uint64   `json:"total"`
}

func (s *Service) handleGetIncomes(c *gin.Context) {
	var response GetIncomesResponse
	response.Incomes = make([]Income, 0)
	var requestData GetIncomesReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	incomes, total, err := s.indexer.getIncomes(requestData.Page, requestData.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	response.Incomes = incomes
	response.Total = total
	c.JSON(http.StatusOK, response)
}
