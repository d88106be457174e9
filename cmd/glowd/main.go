package main

import (
	"fmt"
	"os"
)

func main() {
	clCmd.AddCommand(initCmd)
	clCmd.AddCommand(versionCmd)
	clCmd.AddCommand(pubkeyCmd)
	clCmd.AddCommand(signCmd)
	clCmd.AddCommand(accountCmd)
	clCmd.AddCommand(govCmd)
	clCmd.AddCommand(pollCmd)
	clCmd.AddCommand(stakeCmd)
	clCmd.AddCommand(unstakeCmd)
	clCmd.AddCommand(claimCmd)
	clCmd.AddCommand(incomeCmd)
	clCmd.AddCommand(newPollCmd)
	clCmd.AddCommand(voteCmd)
	clCmd.AddCommand(endPollCmd)
	clCmd.AddCommand(executePollCmd)
	clCmd.AddCommand(expirePollCmd)
	if err := clCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
