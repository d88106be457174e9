package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cometbft/cometbft/crypto"
	cmtjson "github.com/cometbft/cometbft/libs/json"
	cmttypes "github.com/cometbft/cometbft/types"
)

const (
	FlagHome      = "home"
	FlagChainID   = "chain-id"
	FlagOverwrite = "overwrite"
)

const GovModuleName = "gov"

// DefaultPower is the consensus power assigned to genesis validators.
const DefaultPower = 1000

type GenesisValidator struct {
	Address crypto.Address `json:"address"`
	PubKey  crypto.PubKey  `json:"pub_key"`
	Power   int64          `json:"power"`
	Name    string         `json:"name"`
}

// GenesisAccount seeds a staker account. Balance is the general token
// balance; Stake is locked in the governance ledger from height 1.
type GenesisAccount struct {
	PubKey  []byte `json:"pub_key"`
	Balance uint64 `json:"balance"`
	Stake   uint64 `json:"stake"`
}

// AppState is the application half of the genesis document.
type AppState struct {
	Params        Params           `json:"params"`
	Accounts      []GenesisAccount `json:"accounts"`
	CommunityFund uint64           `json:"community_fund"`
}

func (as *AppState) Validate() error {
	if err := as.Params.Validate(); err != nil {
		return err
	}
	for i, acc := range as.Accounts {
		if len(acc.PubKey) == 0 {
			return fmt.Errorf("genesis account %d: empty pubkey", i)
		}
	}
	return nil
}

// GenesisDoc defines the initial conditions of the governance chain, in
// particular its validator set and governance parameters.
type GenesisDoc struct {
	GenesisTime     time.Time                 `json:"genesis_time"`
	ChainID         string                    `json:"chain_id"`
	InitialHeight   int64                     `json:"initial_height"`
	ConsensusParams *cmttypes.ConsensusParams `json:"consensus_params,omitempty"`
	Validators      []GenesisValidator        `json:"validators"`
	AppHash         []byte                    `json:"app_hash"`
	AppState        json.RawMessage           `json:"app_state"`
}

// SaveAs is a utility method for saving GenesisDoc as a JSON file.
func (genDoc *GenesisDoc) SaveAs(file string) error {
	genDocBytes, err := cmtjson.MarshalIndent(genDoc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, genDocBytes, 0o600)
}

func (genDoc *GenesisDoc) ValidateAndComplete() error {
	if genDoc.ChainID == "" {
		return errors.New("genesis doc must include non-empty chain_id")
	}

	if genDoc.InitialHeight < 0 {
		return fmt.Errorf("initial_height cannot be negative (got %v)", genDoc.InitialHeight)
	}

	if genDoc.InitialHeight == 0 {
		genDoc.InitialHeight = 1
	}

	if genDoc.GenesisTime.IsZero() {
		genDoc.GenesisTime = time.Now().Round(0).UTC()
	}

	if len(genDoc.AppState) > 0 {
		var as AppState
		if err := json.Unmarshal(genDoc.AppState, &as); err != nil {
			return fmt.Errorf("invalid app_state: %w", err)
		}
		if err := as.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func ExportGenesisFile(genesis *GenesisDoc, genFile string) error {
	if err := genesis.ValidateAndComplete(); err != nil {
		return err
	}
	return genesis.SaveAs(genFile)
}
