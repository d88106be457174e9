package tx

import (
	"encoding/json"
)

// GovTx is the signed transaction envelope. Sig covers the JSON encoding
// of the envelope with the chain id substituted for the signature list,
// which binds every tx to one chain.
type GovTx struct {
	Version uint8     `json:"version"`
	Type    GovTxType `json:"type"`
	Nonce   uint64    `json:"nonce"`
	Account uint64    `json:"account"`
	Tx      any       `json:"tx"`
	Sig     [][]byte  `json:"sig"`
}

type govTxTmpl[Tx any] struct {
	Version uint8     `json:"version"`
	Type    GovTxType `json:"type"`
	Nonce   uint64    `json:"nonce"`
	Account uint64    `json:"account"`
	Tx      Tx        `json:"tx"`
	Sig     [][]byte  `json:"sig"`
}

func (tx *GovTx) SigData(ext []byte) (dat []byte, err error) {
	ntx := *tx
	ntx.Sig = [][]byte{ext}
	dat, err = json.Marshal(ntx)
	return
}

func parseGovTxType(dat []byte) GovTxType {
	var tx struct {
		Type GovTxType `json:"type"`
	}
	err := json.Unmarshal(dat, &tx)
	if err != nil {
		return GovTxTypeUnknown
	}
	return tx.Type
}

func unmarshalGovTx[Tx any](dat []byte) (btx *GovTx, err error) {
	var txt govTxTmpl[Tx]
	err = json.Unmarshal(dat, &txt)
	if err != nil {
		return
	}
	btx = new(GovTx)
	btx.Version = txt.Version
	btx.Type = txt.Type
	btx.Nonce = txt.Nonce
	btx.Account = txt.Account
	btx.Tx = &txt.Tx
	btx.Sig = txt.Sig
	return
}

func UnmarshalGovTx(dat []byte) (btx *GovTx, err error) {
	tp := parseGovTxType(dat)
	switch tp {
	case GovTxTypeStake:
		return unmarshalGovTx[StakeTx](dat)
	case GovTxTypeUnstake:
		return unmarshalGovTx[UnstakeTx](dat)
	case GovTxTypeClaim:
		return unmarshalGovTx[ClaimTx](dat)
	case GovTxTypeIncome:
		return unmarshalGovTx[IncomeTx](dat)
	case GovTxTypeCreatePoll:
		return unmarshalGovTx[CreatePollTx](dat)
	case GovTxTypeVote:
		return unmarshalGovTx[VoteTx](dat)
	case GovTxTypeEndPoll:
		return unmarshalGovTx[EndPollTx](dat)
	case GovTxTypeExecutePoll:
		return unmarshalGovTx[ExecutePollTx](dat)
	case GovTxTypeExpirePoll:
		return unmarshalGovTx[ExpirePollTx](dat)
	default:
		err = ErrUnsupportedTxType
	}
	return
}

func MarshalGovTx(btx *GovTx) (dat []byte, err error) {
	return json.Marshal(btx)
}
