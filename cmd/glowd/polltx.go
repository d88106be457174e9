package main

import (
	"encoding/json"
	"fmt"

	"github.com/glowgov/glow-app/tx"
	"github.com/glowgov/glow-app/types"
	"github.com/spf13/cobra"
)

type newPollArguments struct {
	txSendArguments
	Title        string
	Description  string
	Link         string
	Deposit      uint64
	VotingPeriod uint64
	Msgs         string
}

var newPollArgs newPollArguments

var newPollCmd = &cobra.Command{
	Use:   "newpoll",
	Short: "Create a poll, escrowing the deposit",
	Long: `Create a poll. --msgs takes a JSON array of poll messages, e.g.
  '[{"type":"community_spend","recipient":"<hex addr>","amount":1000}]'`,
	Run: newPollRun,
}

func init() {
	txSendFlags(newPollCmd, &newPollArgs.txSendArguments)
	newPollCmd.Flags().StringVarP(&newPollArgs.Title, "title", "t", "", "poll title")
	newPollCmd.Flags().StringVar(&newPollArgs.Description, "description", "", "poll description")
	newPollCmd.Flags().StringVar(&newPollArgs.Link, "link", "", "reference link")
	newPollCmd.Flags().Uint64VarP(&newPollArgs.Deposit, "deposit", "a", 0, "poll deposit")
	newPollCmd.Flags().Uint64Var(&newPollArgs.VotingPeriod, "period", 0, "voting period in blocks, 0 uses the chain default")
	newPollCmd.Flags().StringVarP(&newPollArgs.Msgs, "msgs", "m", "", "poll messages as a JSON array")
}

func newPollRun(cmd *cobra.Command, args []string) {
	var msgs []types.PollMsg
	if newPollArgs.Msgs != "" {
		if err := json.Unmarshal([]byte(newPollArgs.Msgs), &msgs); err != nil {
			fmt.Printf("decode poll msgs err:%v\n", err)
			return
		}
	}
	sendGovTx(&newPollArgs.txSendArguments, tx.GovTxTypeCreatePoll, &tx.CreatePollTx{
		Title:        newPollArgs.Title,
		Description:  newPollArgs.Description,
		Link:         newPollArgs.Link,
		Deposit:      newPollArgs.Deposit,
		VotingPeriod: newPollArgs.VotingPeriod,
		Msgs:         msgs,
	})
}

type voteArguments struct {
	txSendArguments
	Poll   uint64
	Option string
}

var voteArgs voteArguments

var voteCmd = &cobra.Command{
	Use:   "vote",
	Short: "Cast a stake-weighted vote on a poll",
	Long:  ``,
	Run:   voteRun,
}

func init() {
	txSendFlags(voteCmd, &voteArgs.txSendArguments)
	voteCmd.Flags().Uint64VarP(&voteArgs.Poll, "poll", "p", 0, "poll id")
	voteCmd.Flags().StringVarP(&voteArgs.Option, "option", "o", "", "yes, no or abstain")
}

func voteRun(cmd *cobra.Command, args []string) {
	var opt types.VoteOption
	switch voteArgs.Option {
	case "yes":
		opt = types.VoteOptionYes
	case "no":
		opt = types.VoteOptionNo
	case "abstain":
		opt = types.VoteOptionAbstain
	default:
		fmt.Printf("invalid vote option:%v\n", voteArgs.Option)
		return
	}
	sendGovTx(&voteArgs.txSendArguments, tx.GovTxTypeVote, &tx.VoteTx{
		Poll:   voteArgs.Poll,
		Option: opt,
	})
}

type pollIdArguments struct {
	txSendArguments
	Poll uint64
}

var endPollArgs pollIdArguments

var endPollCmd = &cobra.Command{
	Use:   "endpoll",
	Short: "Settle a poll whose voting period has elapsed",
	Long:  ``,
	Run:   endPollRun,
}

func init() {
	txSendFlags(endPollCmd, &endPollArgs.txSendArguments)
	endPollCmd.Flags().Uint64VarP(&endPollArgs.Poll, "poll", "p", 0, "poll id")
}

func endPollRun(cmd *cobra.Command, args []string) {
	sendGovTx(&endPollArgs.txSendArguments, tx.GovTxTypeEndPoll, &tx.EndPollTx{Poll: endPollArgs.Poll})
}

var executePollArgs pollIdArguments

var executePollCmd = &cobra.Command{
	Use:   "executepoll",
	Short: "Dispatch the message batch of a passed poll",
	Long:  ``,
	Run:   executePollRun,
}

func init() {
	txSendFlags(executePollCmd, &executePollArgs.txSendArguments)
	executePollCmd.Flags().Uint64VarP(&executePollArgs.Poll, "poll", "p", 0, "poll id")
}

func executePollRun(cmd *cobra.Command, args []string) {
	sendGovTx(&executePollArgs.txSendArguments, tx.GovTxTypeExecutePoll, &tx.ExecutePollTx{Poll: executePollArgs.Poll})
}

var expirePollArgs pollIdArguments

var expirePollCmd = &cobra.Command{
	Use:   "expirepoll",
	Short: "Expire a passed poll whose execution window has elapsed",
	Long:  ``,
	Run:   expirePollRun,
}

func init() {
	txSendFlags(expirePollCmd, &expirePollArgs.txSendArguments)
	expirePollCmd.Flags().Uint64VarP(&expirePollArgs.Poll, "poll", "p", 0, "poll id")
}

func expirePollRun(cmd *cobra.Command, args []string) {
	sendGovTx(&expirePollArgs.txSendArguments, tx.GovTxTypeExpirePoll, &tx.ExpirePollTx{Poll: expirePollArgs.Poll})
}
