package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/glowgov/glow-app/crypto"
	"github.com/glowgov/glow-app/tx"
	"github.com/cometbft/cometbft/rpc/client/http"
	"github.com/spf13/cobra"
)

// txSendArguments are shared by every tx-submitting command.
type txSendArguments struct {
	Url    string
	Index  uint64
	Nonce  uint64
	Skey   string
	NoSend bool
}

func txSendFlags(cmd *cobra.Command, sa *txSendArguments) {
	urlFlag(cmd, &sa.Url)
	cmd.Flags().Uint64VarP(&sa.Index, "index", "i", 0, "account index")
	cmd.Flags().Uint64VarP(&sa.Nonce, "nonce", "n", 0, "account nonce, 0 queries the chain")
	cmd.Flags().StringVarP(&sa.Skey, "skeyPath", "s", "config/priv_validator_key.json", "signing key path")
	cmd.Flags().BoolVar(&sa.NoSend, "nosend", false, "sign only, print the signature without broadcasting")
}

// sendGovTx signs the payload with the local validator key and
// broadcasts it. Nonce 0 means "fetch the account's current nonce".
func sendGovTx(sa *txSendArguments, txType tx.GovTxType, payload any) {
	cli, err := http.New(sa.Url, "/websocket")
	if err != nil {
		fmt.Printf("new client err:%v\n", err)
		return
	}
	ctx := context.Background()
	gres, err := cli.Genesis(ctx)
	if err != nil {
		fmt.Printf("get chain genesis err:%v\n", err)
		return
	}
	chainId := gres.Genesis.ChainID
	nonce := sa.Nonce
	if nonce == 0 {
		act, _, err := queryAccount(sa.Url, sa.Index, "")
		if err != nil {
			return
		}
		nonce = act.Nonce
	}
	btx := tx.GovTx{
		Version: tx.GovTxVersion1,
		Type:    txType,
		Nonce:   nonce,
		Account: sa.Index,
		Tx:      payload,
	}
	dat, err := btx.SigData([]byte(chainId))
	if err != nil {
		fmt.Printf("tx sign data err:%v\n", err)
		return
	}
	pv := crypto.LoadFilePV(sa.Skey)
	sig, err := pv.Sign(dat)
	if err != nil {
		fmt.Printf("sign tx err:%v\n", err)
		return
	}
	if sa.NoSend {
		fmt.Println("transaction signature:")
		fmt.Println(hex.EncodeToString(sig))
		return
	}
	btx.Sig = [][]byte{sig}
	dat, err = json.Marshal(btx)
	if err != nil {
		fmt.Printf("encode tx err:%v\n", err)
		return
	}
	res, err := cli.BroadcastTxSync(ctx, dat)
	if err != nil {
		fmt.Printf("broadcast tx err:%v\n", err)
		return
	}
	dat, _ = json.Marshal(res)
	fmt.Printf("%v\n", string(dat))
}
