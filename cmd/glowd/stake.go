package main

import (
	"github.com/glowgov/glow-app/tx"
	"github.com/spf13/cobra"
)

type stakeArguments struct {
	txSendArguments
	Amount uint64
}

var stakeArgs stakeArguments

var stakeCmd = &cobra.Command{
	Use:   "stake",
	Short: "Lock balance as voting stake",
	Long:  ``,
	Run:   stakeRun,
}

func init() {
	txSendFlags(stakeCmd, &stakeArgs.txSendArguments)
	stakeCmd.Flags().Uint64VarP(&stakeArgs.Amount, "amount", "a", 0, "amount to stake")
}

func stakeRun(cmd *cobra.Command, args []string) {
	sendGovTx(&stakeArgs.txSendArguments, tx.GovTxTypeStake, &tx.StakeTx{Amount: stakeArgs.Amount})
}

type unstakeArguments struct {
	txSendArguments
	Amount uint64
}

var unstakeArgs unstakeArguments

var unstakeCmd = &cobra.Command{
	Use:   "unstake",
	Short: "Release stake back to spendable balance",
	Long:  ``,
	Run:   unstakeRun,
}

func init() {
	txSendFlags(unstakeCmd, &unstakeArgs.txSendArguments)
	unstakeCmd.Flags().Uint64VarP(&unstakeArgs.Amount, "amount", "a", 0, "amount to unstake")
}

func unstakeRun(cmd *cobra.Command, args []string) {
	sendGovTx(&unstakeArgs.txSendArguments, tx.GovTxTypeUnstake, &tx.UnstakeTx{Amount: unstakeArgs.Amount})
}

type claimArguments struct {
	txSendArguments
}

var claimArgs claimArguments

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Move accrued staking rewards to spendable balance",
	Long:  ``,
	Run:   claimRun,
}

func init() {
	txSendFlags(claimCmd, &claimArgs.txSendArguments)
}

func claimRun(cmd *cobra.Command, args []string) {
	sendGovTx(&claimArgs.txSendArguments, tx.GovTxTypeClaim, &tx.ClaimTx{})
}

type incomeArguments struct {
	txSendArguments
	Amount uint64
}

var incomeArgs incomeArguments

var incomeCmd = &cobra.Command{
	Use:   "income",
	Short: "Deposit balance into the staker reward pool",
	Long:  ``,
	Run:   incomeRun,
}

func init() {
	txSendFlags(incomeCmd, &incomeArgs.txSendArguments)
	incomeCmd.Flags().Uint64VarP(&incomeArgs.Amount, "amount", "a", 0, "amount to distribute")
}

func incomeRun(cmd *cobra.Command, args []string) {
	sendGovTx(&incomeArgs.txSendArguments, tx.GovTxTypeIncome, &tx.IncomeTx{Amount: incomeArgs.Amount})
}
