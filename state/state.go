package state

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"sort"

	"github.com/glowgov/glow-app/tx"
	"github.com/glowgov/glow-app/types"
	abci_types "github.com/cometbft/cometbft/abci/types"
	cmtcrypto "github.com/cometbft/cometbft/crypto"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/syndtr/goleveldb/leveldb"
)

const (
	StartAccountIdx = 65536

	ModifiedFlagNew = 1 << 0
	ModifiedFlagMod = 1 << 1

	MaxValidators = 100
)

var (
	KeyState        = "s"
	KeyAccountIndex = "i%s"
	KeyAccountBody  = "a%x"
	KeyPollBody     = "p%d"
	KeyVoteBody     = "v%d:%s"
)

// State buffers one block's worth of governance mutations over the iavl
// tree. All shared records (accounts, polls, votes, the header
// singleton) are read-modify-written within a single call boundary;
// nothing reaches the tree until Update.
type State struct {
	logger cmtlog.Logger
	db     *iavl.MutableTree
	dbVer  int64

	header     *StateHeader
	validators []abci_types.ValidatorUpdate

	idxs  map[string]uint64
	acnts map[uint64]*Account
	polls map[uint64]*types.Poll
	votes map[string]*types.Vote

	modifiedAcnts map[uint64]uint32
	modifiedPolls map[uint64]struct{}
	newVotes      map[string]struct{}
}

func newState(db *iavl.MutableTree, logger cmtlog.Logger) *State {
	s := &State{
		logger:        logger,
		db:            db,
		dbVer:         0,
		header:        newStateHeader(),
		validators:    []abci_types.ValidatorUpdate{},
		idxs:          make(map[string]uint64),
		acnts:         make(map[uint64]*Account),
		polls:         make(map[uint64]*types.Poll),
		votes:         make(map[string]*types.Vote),
		modifiedAcnts: make(map[uint64]uint32),
		modifiedPolls: make(map[uint64]struct{}),
		newVotes:      make(map[string]struct{}),
	}
	return s
}

func (s *State) nextState() *State {
	n := &State{
		logger:        s.logger,
		db:            s.db,
		dbVer:         s.dbVer,
		validators:    s.validators,
		idxs:          make(map[string]uint64),
		acnts:         make(map[uint64]*Account),
		polls:         make(map[uint64]*types.Poll),
		votes:         make(map[string]*types.Vote),
		modifiedAcnts: make(map[uint64]uint32),
		modifiedPolls: make(map[uint64]struct{}),
		newVotes:      make(map[string]struct{}),
	}
	n.header = s.header.Clone()
	if s.header.Hash != nil {
		n.header.Height = s.header.Height + 1
	}
	return n
}

// Clone deep-copies the buffered state so a batch of mutations can be
// trial-run and discarded. The underlying tree is shared and untouched
// until Update.
func (s *State) Clone() *State {
	n := &State{
		logger:        s.logger,
		db:            s.db,
		dbVer:         s.dbVer,
		header:        s.header.Clone(),
		validators:    append([]abci_types.ValidatorUpdate{}, s.validators...),
		idxs:          make(map[string]uint64, len(s.idxs)),
		acnts:         make(map[uint64]*Account, len(s.acnts)),
		polls:         make(map[uint64]*types.Poll, len(s.polls)),
		votes:         make(map[string]*types.Vote, len(s.votes)),
		modifiedAcnts: make(map[uint64]uint32, len(s.modifiedAcnts)),
		modifiedPolls: make(map[uint64]struct{}, len(s.modifiedPolls)),
		newVotes:      make(map[string]struct{}, len(s.newVotes)),
	}
	for k, v := range s.idxs {
		n.idxs[k] = v
	}
	for k, v := range s.acnts {
		n.acnts[k] = v.Clone()
	}
	for k, v := range s.polls {
		n.polls[k] = v.Clone()
	}
	for k, v := range s.votes {
		vc := *v
		n.votes[k] = &vc
	}
	for k, v := range s.modifiedAcnts {
		n.modifiedAcnts[k] = v
	}
	for k := range s.modifiedPolls {
		n.modifiedPolls[k] = struct{}{}
	}
	for k := range s.newVotes {
		n.newVotes[k] = struct{}{}
	}
	return n
}

func (s *State) load() (err error) {
	val, err := s.db.Get([]byte(KeyState))
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil
		}
		return err
	}
	if val != nil {
		err = json.Unmarshal(val, s.header)
		if err != nil {
			return
		}
		s.header.normalize()
		h := s.db.Hash()
		if h != nil {
			s.calcHash(h, true)
		}
	}
	return
}

func (s *State) calcHash(rootHash []byte, update bool) (h common.Hash) {
	h = crypto.Keccak256Hash(rootHash)
	if update {
		if s.header.RootHash == nil {
			s.header.RootHash = make([]byte, len(rootHash))
		}
		copy(s.header.RootHash, rootHash)
		if s.header.Hash == nil {
			s.header.Hash = make([]byte, len(h))
		}
		copy(s.header.Hash, h[:])
	}
	return
}

// Update flushes the buffered write set into the working tree in a
// deterministic order and returns the resulting state hash.
func (s *State) Update() (h common.Hash, err error) {
	var hash []byte
	defer func() {
		if hash == nil {
			s.db.Rollback()
		}
	}()
	var val []byte
	val, err = json.Marshal(s.header)
	if err != nil {
		return
	}
	_, err = s.db.Set([]byte(KeyState), val)
	if err != nil {
		return
	}

	if n := len(s.modifiedPolls); n > 0 {
		ids := make([]uint64, 0, n)
		for id := range s.modifiedPolls {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			poll := s.polls[id]
			key := fmt.Sprintf(KeyPollBody, id)
			val, err = json.Marshal(poll)
			if err != nil {
				return
			}
			_, err = s.db.Set([]byte(key), val)
			if err != nil {
				return
			}
		}
	}

	if n := len(s.newVotes); n > 0 {
		keys := make([]string, 0, n)
		for k := range s.newVotes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			vote := s.votes[k]
			val, err = json.Marshal(vote)
			if err != nil {
				return
			}
			_, err = s.db.Set([]byte(k), val)
			if err != nil {
				return
			}
		}
	}

	if n := len(s.modifiedAcnts); n > 0 {
		idxs := make([]uint64, 0, n)
		for idx := range s.modifiedAcnts {
			idxs = append(idxs, idx)
		}
		sort.Slice(idxs, func(i, j int) bool { return idxs[i] < idxs[j] })
		for _, idx := range idxs {
			flag := s.modifiedAcnts[idx]
			acnt := s.acnts[idx]
			key := fmt.Sprintf(KeyAccountBody, acnt.Index)
			val, err = json.Marshal(acnt)
			if err != nil {
				return
			}
			_, err = s.db.Set([]byte(key), val)
			if err != nil {
				return
			}
			if flag&ModifiedFlagNew == ModifiedFlagNew {
				key = fmt.Sprintf(KeyAccountIndex, acnt.Address())
				val, err = rlp.EncodeToBytes(acnt.Index)
				if err != nil {
					return
				}
				_, err = s.db.Set([]byte(key), val)
				if err != nil {
					return
				}
			}
		}
	}
	hash = s.db.WorkingHash()
	h = s.calcHash(hash, false)
	s.modifiedAcnts = make(map[uint64]uint32)
	s.modifiedPolls = make(map[uint64]struct{})
	s.newVotes = make(map[string]struct{})
	return
}

func (s *State) save() (h common.Hash, err error) {
	hash, ver, err := s.db.SaveVersion()
	if err != nil {
		return h, err
	}
	s.dbVer = ver
	h = s.calcHash(hash, true)
	return
}

func (s *State) GetAccount(idx uint64) (acnt *Account, err error) {
	if idx >= s.header.AccountIdx {
		err = ErrAccountNoexists
		return
	}
	acnt = s.acnts[idx]
	if acnt != nil {
		return
	}
	key := fmt.Sprintf(KeyAccountBody, idx)
	val, err := s.db.Get([]byte(key))
	if err != nil {
		return nil, err
	}
	if val == nil {
		err = ErrNotFound
		return
	}
	acnt = new(Account)
	err = json.Unmarshal(val, acnt)
	if err != nil {
		acnt = nil
		return
	}
	s.acnts[idx] = acnt
	return
}

func (s *State) FindAccount(addr []byte) (acnt *Account, err error) {
	saddr := cmtcrypto.Address(addr).String()
	idx, ok := s.idxs[saddr]
	if !ok {
		key := fmt.Sprintf(KeyAccountIndex, saddr)
		val, err := s.db.Get([]byte(key))
		if err != nil {
			if err == leveldb.ErrNotFound {
				return nil, nil
			}
			return nil, err
		}
		if val == nil {
			// new accounts of this block are only in the cache
			for _, acc := range s.acnts {
				if acc.Address() == saddr {
					return acc, nil
				}
			}
			return nil, nil
		}
		err = rlp.DecodeBytes(val, &idx)
		if err != nil {
			return nil, err
		}
		s.idxs[saddr] = idx
	}
	acnt, err = s.GetAccount(idx)
	return
}

// FindAccountByAddress resolves a hex address string (the form used in
// poll messages and queries).
func (s *State) FindAccountByAddress(addr string) (acnt *Account, err error) {
	raw, err := hex.DecodeString(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", addr, err)
	}
	return s.FindAccount(raw)
}

func (s *State) AddAccount(acnt *Account) (err error) {
	a, err := s.FindAccount(acnt.AddrBytes())
	if err != nil {
		return err
	}
	if a != nil {
		err = ErrAccountAlreadyExists
		return
	}
	acnt.Index = s.header.AccountIdx
	if acnt.RewardSnapshot == nil {
		acnt.RewardSnapshot = new(big.Int).Set(s.header.RewardIndex)
	}
	s.header.AccountIdx += 1
	s.acnts[acnt.Index] = acnt.Clone()
	s.modifiedAcnts[acnt.Index] = ModifiedFlagNew
	return
}

func (s *State) markAccount(a *Account) {
	v := s.modifiedAcnts[a.Index]
	v |= ModifiedFlagMod
	s.modifiedAcnts[a.Index] = v
	s.acnts[a.Index] = a.Clone()
}

// Verify checks a transaction's account, nonce and signature against
// current state. CheckTx allows nonce gaps so queued txs are not
// rejected; block execution does not.
func (s *State) Verify(btx *tx.GovTx, allowNonceGap bool) (succ bool, err error) {
	a, err := s.GetAccount(btx.Account)
	if err != nil {
		return succ, err
	}
	if a == nil {
		err = ErrAccountNoexists
		return
	}
	if !(a.Nonce == btx.Nonce || (allowNonceGap && a.Nonce < btx.Nonce)) {
		err = ErrTxNonceInvalid
		return
	}
	dat, err := btx.SigData([]byte(s.header.ChainID))
	if err != nil {
		return succ, err
	}
	succ = a.Verify(dat, btx.Sig)
	if !succ {
		err = ErrTxSigInvalid
	}
	return
}

// IncrementNonce advances the account's replay counter. Called once per
// applied tx from that account.
func (s *State) IncrementNonce(idx uint64) (err error) {
	a, err := s.GetAccount(idx)
	if err != nil {
		return
	}
	a = a.Clone()
	a.Nonce += 1
	s.markAccount(a)
	return
}

func (s *State) Header() *StateHeader {
	return s.header
}

func (s *State) Hash() (h common.Hash) {
	if s.header.Hash != nil {
		copy(h[:], s.header.Hash)
	}
	return
}

func (s *State) SetChainID(chainID string) {
	s.header.ChainID = chainID
}

func PrefixEndBytes(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}

	end := make([]byte, len(prefix))
	copy(end, prefix)

	for {
		if end[len(end)-1] != byte(255) {
			end[len(end)-1]++
			break
		}

		end = end[:len(end)-1]

		if len(end) == 0 {
			end = nil
			break
		}
	}

	return end
}
