package main

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/cometbft/cometbft/rpc/client/http"
	"github.com/spf13/cobra"
)

type govArguments struct {
	Url string
}

var govArgs govArguments

var govCmd = &cobra.Command{
	Use:   "gov",
	Short: "Show the governance header: params, total stake, reward index, community fund",
	Long:  ``,
	Run:   govRun,
}

func init() {
	urlFlag(govCmd, &govArgs.Url)
}

func govRun(cmd *cobra.Command, args []string) {
	cli, err := http.New(govArgs.Url, "/websocket")
	if err != nil {
		fmt.Printf("new client err:%v\n", err)
		return
	}
	res, err := cli.ABCIQuery(context.Background(), "/gov/", nil)
	if err != nil {
		fmt.Printf("request err:%v\n", err)
		return
	}
	if res.Response.Code != 0 {
		fmt.Printf("%#v\n", res)
		return
	}
	fmt.Println(string(res.Response.Value))
}

type pollQueryArguments struct {
	Url  string
	Poll uint64
}

var pollQueryArgs pollQueryArguments

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Show one poll by id",
	Long:  ``,
	Run:   pollRun,
}

func init() {
	urlFlag(pollCmd, &pollQueryArgs.Url)
	pollCmd.Flags().Uint64VarP(&pollQueryArgs.Poll, "poll", "p", 0, "poll id")
}

func pollRun(cmd *cobra.Command, args []string) {
	cli, err := http.New(pollQueryArgs.Url, "/websocket")
	if err != nil {
		fmt.Printf("new client err:%v\n", err)
		return
	}
	dat := make([]byte, 8)
	binary.BigEndian.PutUint64(dat, pollQueryArgs.Poll)
	res, err := cli.ABCIQuery(context.Background(), "/polls/", dat)
	if err != nil {
		fmt.Printf("request err:%v\n", err)
		return
	}
	if res.Response.Code != 0 {
		fmt.Printf("%#v\n", res)
		return
	}
	fmt.Println(string(res.Response.Value))
}
