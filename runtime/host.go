// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/kv"
	"github.com/neutron-org/neutron-tge-contracts-sub000/log"
	"github.com/neutron-org/neutron-tge-contracts-sub000/metrics"
)

const (
	// MaxDepth bounds the nesting of dispatched messages.
	MaxDepth = 32

	keyBlock    = "meta/block"
	keySequence = "meta/seq"
	prefixInfo  = "contracts/"
	prefixStore = "wasm/"
	prefixBank  = "bank/"
)

var (
	logger = log.WithContext("pkg", "runtime")

	metricTxCount    = metrics.LazyLoadCounterVec("runtime_tx_count", []string{"outcome"})
	metricMsgCount   = metrics.LazyLoadCounterVec("runtime_msg_count", []string{"code"})
	metricTxMessages = metrics.LazyLoadHistogram("runtime_tx_messages", metrics.BucketMessages)
	metricContracts  = metrics.LazyLoadGauge("runtime_contracts")
)

// ErrContractNotFound is returned for addresses with no instantiated contract.
var ErrContractNotFound = errors.New("contract not found")

func SetLogger(l log.Logger) {
	logger = l
}

// Options configures a Host.
type Options struct {
	ChainID     string
	StartHeight uint64
	StartTime   uint64
}

// Host runs contracts over a kv store. Every Instantiate and Execute is one
// transaction: the whole tree of emitted messages either commits or leaves
// no trace.
type Host struct {
	mu       sync.RWMutex
	db       kv.Store
	state    *state
	codes    map[string]Contract
	block    cw.BlockInfo
	revision uint64

	commitFeed event.Feed
	scope      event.SubscriptionScope
}

type blockRecord struct {
	Height  uint64
	Time    uint64
	ChainID string
}

// New creates a host over db, resuming the block clock stored there if any.
func New(db kv.Store, opts Options) (*Host, error) {
	h := &Host{
		db:    db,
		state: newState(db),
		codes: make(map[string]Contract),
		block: cw.BlockInfo{Height: opts.StartHeight, Time: opts.StartTime, ChainID: opts.ChainID},
	}
	raw, err := db.Get([]byte(keyBlock))
	switch {
	case err == nil:
		var rec blockRecord
		if err := rlp.DecodeBytes(raw, &rec); err != nil {
			return nil, errors.Wrap(err, "decode block")
		}
		h.block = cw.BlockInfo{Height: rec.Height, Time: rec.Time, ChainID: rec.ChainID}
		logger.Info("resumed host", "height", rec.Height, "time", rec.Time)
	case db.IsNotFound(err):
		if err := h.saveBlock(); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrap(err, "read block")
	}
	return h, nil
}

// StoreCode registers contract code under name.
func (h *Host) StoreCode(name string, c Contract) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.codes[name] = c
}

// Block returns the current block.
func (h *Host) Block() cw.BlockInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.block
}

// Revision increases with every committed transaction and every block advance,
// so it changes whenever anything a query can observe changes.
func (h *Host) Revision() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.revision
}

// NextBlock advances the height by one and the clock by seconds.
func (h *Host) NextBlock(seconds uint64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.block.Height++
	h.block.Time += seconds
	return h.saveBlock()
}

// SetTime moves to the next block at the given unix time.
func (h *Host) SetTime(t uint64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if t < h.block.Time {
		return errors.Errorf("time %d precedes current block time %d", t, h.block.Time)
	}
	h.block.Height++
	h.block.Time = t
	return h.saveBlock()
}

func (h *Host) saveBlock() error {
	raw, err := rlp.EncodeToBytes(&blockRecord{Height: h.block.Height, Time: h.block.Time, ChainID: h.block.ChainID})
	if err != nil {
		return errors.Wrap(err, "encode block")
	}
	h.revision++
	return errors.Wrap(h.db.Put([]byte(keyBlock), raw), "save block")
}

func marshalMsg(msg any) ([]byte, error) {
	switch m := msg.(type) {
	case []byte:
		return m, nil
	case json.RawMessage:
		return m, nil
	case string:
		return []byte(m), nil
	}
	raw, err := json.Marshal(msg)
	return raw, errors.Wrap(err, "marshal msg")
}

// Mint credits native coins out of thin air, for genesis funding.
func (h *Host) Mint(addr cw.Addr, coins ...cw.Coin) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.transact(func(*Result) error {
		for _, c := range coins {
			if err := h.addBalance(addr, c); err != nil {
				return err
			}
		}
		return nil
	}, nil)
}

// Instantiate creates a contract from registered code.
func (h *Host) Instantiate(code string, sender cw.Addr, label string, msg any, funds ...cw.Coin) (cw.Addr, error) {
	raw, err := marshalMsg(msg)
	if err != nil {
		return "", err
	}
	h.mu.Lock()
	c, ok := h.codes[code]
	if !ok {
		h.mu.Unlock()
		return "", errors.Errorf("unknown code %q", code)
	}
	var addr cw.Addr
	res := &Result{}
	err = h.transact(func(res *Result) error {
		var err error
		if addr, err = h.nextAddress(); err != nil {
			return err
		}
		info := &ContractInfo{Address: addr, Code: code, Label: label, Creator: sender}
		if err := h.saveInfo(info); err != nil {
			return err
		}
		if err := h.sendCoins(sender, addr, funds); err != nil {
			return err
		}
		logger.Debug("instantiate", "code", code, "address", addr, "label", label)
		resp, err := c.Instantiate(h.deps(addr), h.env(addr), cw.MessageInfo{Sender: sender, Funds: funds}, raw)
		if err != nil {
			return errors.Wrapf(err, "instantiate %s", code)
		}
		return h.handleResponse(res, addr, sender, code, 0, resp)
	}, res)
	commit := h.newCommit(res)
	h.mu.Unlock()

	if err != nil {
		return "", err
	}
	metricContracts().Set(int64(addrIndex(addr)))
	h.commitFeed.Send(commit)
	return addr, nil
}

// Execute runs msg on contract as a single transaction.
func (h *Host) Execute(contract, sender cw.Addr, msg any, funds ...cw.Coin) (*Result, error) {
	raw, err := marshalMsg(msg)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	res := &Result{}
	err = h.transact(func(res *Result) error {
		return h.execute(res, 0, contract, sender, raw, funds)
	}, res)
	commit := h.newCommit(res)
	h.mu.Unlock()

	if err != nil {
		return nil, err
	}
	h.commitFeed.Send(commit)
	return res, nil
}

// transact runs fn against a checkpoint of the overlay, committing on success
// and dropping every write on failure.
func (h *Host) transact(fn func(*Result) error, res *Result) error {
	if res == nil {
		res = &Result{}
	}
	rev := h.state.checkpoint()
	if err := fn(res); err != nil {
		h.state.revertTo(rev)
		metricTxCount().AddWithLabel(1, map[string]string{"outcome": "reverted"})
		logger.Warn("transaction reverted", "err", err, "messages", len(res.Events))
		return err
	}
	n, err := h.state.commit()
	if err != nil {
		return err
	}
	h.revision++
	metricTxCount().AddWithLabel(1, map[string]string{"outcome": "committed"})
	metricTxMessages().Observe(int64(len(res.Events)))
	logger.Debug("transaction committed", "messages", len(res.Events), "writes", n)
	return nil
}

func (h *Host) execute(res *Result, depth int, contract, sender cw.Addr, msg []byte, funds cw.Coins) error {
	if depth > MaxDepth {
		return errors.Errorf("message depth exceeds %d", MaxDepth)
	}
	info, err := h.loadInfo(contract)
	if err != nil {
		return err
	}
	c, ok := h.codes[info.Code]
	if !ok {
		return errors.Errorf("code %q of %s is not registered", info.Code, contract)
	}
	if err := h.sendCoins(sender, contract, funds); err != nil {
		return err
	}
	logger.Debug("execute", "contract", contract, "code", info.Code, "sender", sender, "depth", depth)
	resp, err := c.Execute(h.deps(contract), h.env(contract), cw.MessageInfo{Sender: sender, Funds: funds}, msg)
	if err != nil {
		return errors.Wrapf(err, "execute %s on %s", info.Code, contract)
	}
	return h.handleResponse(res, contract, sender, info.Code, depth, resp)
}

// handleResponse records the event and dispatches emitted messages
// depth-first in emission order.
func (h *Host) handleResponse(res *Result, contract, sender cw.Addr, code string, depth int, resp *cw.Response) error {
	metricMsgCount().AddWithLabel(1, map[string]string{"code": code})
	if resp == nil {
		resp = cw.NewResponse()
	}
	res.Events = append(res.Events, &Event{Contract: contract, Sender: sender, Depth: depth, Attributes: resp.Attributes})
	if depth == 0 {
		res.Data = resp.Data
	}
	for _, m := range resp.Messages {
		switch {
		case m.Bank != nil && m.Bank.Send != nil:
			if err := h.sendCoins(contract, m.Bank.Send.ToAddress, m.Bank.Send.Amount); err != nil {
				return err
			}
		case m.Wasm != nil && m.Wasm.Execute != nil:
			exec := m.Wasm.Execute
			if err := h.execute(res, depth+1, exec.ContractAddr, contract, exec.Msg, exec.Funds); err != nil {
				return err
			}
		default:
			return errors.New("unsupported message")
		}
	}
	return nil
}

// Query runs a smart query against committed state.
func (h *Host) Query(contract cw.Addr, msg any) ([]byte, error) {
	raw, err := marshalMsg(msg)
	if err != nil {
		return nil, err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.query(contract, raw)
}

func (h *Host) query(contract cw.Addr, msg []byte) ([]byte, error) {
	info, err := h.loadInfo(contract)
	if err != nil {
		return nil, err
	}
	c, ok := h.codes[info.Code]
	if !ok {
		return nil, errors.Errorf("code %q of %s is not registered", info.Code, contract)
	}
	deps := h.deps(contract)
	deps.Storage = readOnly{deps.Storage}
	return c.Query(deps, h.env(contract), msg)
}

// QueryJSON runs a smart query and decodes the response into out.
func (h *Host) QueryJSON(contract cw.Addr, msg any, out any) error {
	data, err := h.Query(contract, msg)
	if err != nil {
		return err
	}
	return errors.Wrap(json.Unmarshal(data, out), "decode query response")
}

// Balance returns the native balance of addr.
func (h *Host) Balance(addr cw.Addr, denom string) (cw.Uint128, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.balance(addr, denom)
}

// ContractInfo returns the registry record of addr.
func (h *Host) ContractInfo(addr cw.Addr) (*ContractInfo, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loadInfo(addr)
}

// Contracts lists every instantiated contract, in creation order.
func (h *Host) Contracts() ([]*ContractInfo, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	iter := kv.Bucket(prefixInfo).NewStore(h.db).Iterate(kv.Range{})
	defer iter.Release()
	var out []*ContractInfo
	for iter.Next() {
		var info ContractInfo
		if err := json.Unmarshal(iter.Value(), &info); err != nil {
			return nil, errors.Wrap(err, "decode contract info")
		}
		out = append(out, &info)
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "iterate contracts")
	}
	sort.Slice(out, func(i, j int) bool { return addrIndex(out[i].Address) < addrIndex(out[j].Address) })
	return out, nil
}

func (h *Host) env(contract cw.Addr) cw.Env {
	return cw.Env{Block: h.block, Contract: cw.ContractInfo{Address: contract}}
}

func (h *Host) deps(contract cw.Addr) cw.Deps {
	return cw.Deps{
		Storage: &contractStorage{state: h.state, prefix: prefixStore + string(contract) + "/"},
		API:     addrValidator{},
		Querier: &querier{h},
	}
}

const addrPrefix = "contract"

func addrIndex(a cw.Addr) uint64 {
	n, _ := strconv.ParseUint(strings.TrimPrefix(string(a), addrPrefix), 10, 64)
	return n
}

func (h *Host) nextAddress() (cw.Addr, error) {
	raw, err := h.state.get(keySequence)
	if err != nil {
		return "", err
	}
	var seq uint64
	if raw != nil {
		if err := rlp.DecodeBytes(raw, &seq); err != nil {
			return "", errors.Wrap(err, "decode sequence")
		}
	}
	seq++
	raw, err = rlp.EncodeToBytes(seq)
	if err != nil {
		return "", errors.Wrap(err, "encode sequence")
	}
	h.state.put(keySequence, raw)
	return cw.Addr(fmt.Sprintf("%s%d", addrPrefix, seq)), nil
}

func (h *Host) saveInfo(info *ContractInfo) error {
	raw, err := json.Marshal(info)
	if err != nil {
		return errors.Wrap(err, "encode contract info")
	}
	h.state.put(prefixInfo+string(info.Address), raw)
	return nil
}

func (h *Host) loadInfo(addr cw.Addr) (*ContractInfo, error) {
	raw, err := h.state.get(prefixInfo + string(addr))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.WithMessagef(ErrContractNotFound, "no contract at %s", addr)
	}
	var info ContractInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, errors.Wrap(err, "decode contract info")
	}
	return &info, nil
}
