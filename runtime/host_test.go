// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"encoding/json"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/lvldb"
)

type counterMsg struct {
	Incr    *struct{}   `json:"incr,omitempty"`
	Fail    *struct{}   `json:"fail,omitempty"`
	Forward *forwardMsg `json:"forward,omitempty"`
	Pay     *payMsg     `json:"pay,omitempty"`
	Peek    *peekMsg    `json:"peek,omitempty"`
}

type forwardMsg struct {
	To   cw.Addr         `json:"to"`
	Msg  json.RawMessage `json:"msg"`
	Then json.RawMessage `json:"then,omitempty"`
}

type payMsg struct {
	To     cw.Addr `json:"to"`
	Amount cw.Coin `json:"amount"`
}

type peekMsg struct {
	Target cw.Addr `json:"target"`
}

// counter is a minimal contract exercising storage, messages and queries.
type counter struct{}

func (counter) load(s cw.Storage) (int, error) {
	raw, err := s.Get([]byte("n"))
	if err != nil || raw == nil {
		return 0, err
	}
	return strconv.Atoi(string(raw))
}

func (c counter) Instantiate(deps cw.Deps, env cw.Env, info cw.MessageInfo, msg []byte) (*cw.Response, error) {
	return cw.NewResponse().AddAttribute("action", "instantiate"), deps.Storage.Set([]byte("n"), []byte("0"))
}

func (c counter) Execute(deps cw.Deps, env cw.Env, info cw.MessageInfo, raw []byte) (*cw.Response, error) {
	var msg counterMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, err
	}
	res := cw.NewResponse()
	switch {
	case msg.Incr != nil:
		n, err := c.load(deps.Storage)
		if err != nil {
			return nil, err
		}
		n++
		return res.AddAttribute("count", strconv.Itoa(n)), deps.Storage.Set([]byte("n"), []byte(strconv.Itoa(n)))
	case msg.Fail != nil:
		return nil, errors.New("forced failure")
	case msg.Forward != nil:
		m, err := cw.NewWasmExecute(msg.Forward.To, msg.Forward.Msg)
		if err != nil {
			return nil, err
		}
		res.AddMessage(m)
		if msg.Forward.Then != nil {
			then, err := cw.NewWasmExecute(env.Contract.Address, msg.Forward.Then)
			if err != nil {
				return nil, err
			}
			res.AddMessage(then)
		}
		return res, nil
	case msg.Pay != nil:
		return res.AddMessage(cw.NewBankSend(msg.Pay.To, msg.Pay.Amount)), nil
	case msg.Peek != nil:
		data, err := deps.Querier.QuerySmart(msg.Peek.Target, []byte(`{}`))
		if err != nil {
			return nil, err
		}
		return res.AddAttribute("peeked", string(data)), nil
	}
	return nil, errors.New("unknown msg")
}

func (c counter) Query(deps cw.Deps, env cw.Env, msg []byte) ([]byte, error) {
	n, err := c.load(deps.Storage)
	if err != nil {
		return nil, err
	}
	if err := deps.Storage.Set([]byte("n"), []byte("999")); err == nil {
		return nil, errors.New("query storage must be read-only")
	}
	return json.Marshal(n)
}

func newHost(t *testing.T) *Host {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	h, err := New(db, Options{ChainID: "test-1", StartHeight: 1, StartTime: 1_000})
	require.NoError(t, err)
	h.StoreCode("counter", counter{})
	return h
}

func count(t *testing.T, h *Host, addr cw.Addr) int {
	var n int
	require.NoError(t, h.QueryJSON(addr, struct{}{}, &n))
	return n
}

func TestInstantiateAndExecute(t *testing.T) {
	h := newHost(t)

	addr, err := h.Instantiate("counter", "alice", "c", struct{}{})
	require.NoError(t, err)
	assert.Equal(t, cw.Addr("contract1"), addr)

	res, err := h.Execute(addr, "alice", `{"incr":{}}`)
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	v, _ := res.Events[0].Attribute("count")
	assert.Equal(t, "1", v)
	assert.Equal(t, 1, count(t, h, addr))

	info, err := h.ContractInfo(addr)
	require.NoError(t, err)
	assert.Equal(t, "counter", info.Code)
	assert.Equal(t, cw.Addr("alice"), info.Creator)

	_, err = h.Instantiate("missing", "alice", "x", struct{}{})
	assert.Error(t, err)
}

func TestDispatchOrderAndRevert(t *testing.T) {
	h := newHost(t)
	a, err := h.Instantiate("counter", "alice", "a", struct{}{})
	require.NoError(t, err)
	b, err := h.Instantiate("counter", "alice", "b", struct{}{})
	require.NoError(t, err)

	// a forwards incr to b, then calls itself
	msg := `{"forward":{"to":"` + string(b) + `","msg":{"incr":{}},"then":{"incr":{}}}}`
	res, err := h.Execute(a, "alice", msg)
	require.NoError(t, err)
	require.Len(t, res.Events, 3)
	assert.Equal(t, a, res.Events[0].Contract)
	assert.Equal(t, b, res.Events[1].Contract)
	assert.Equal(t, a, res.Events[1].Sender)
	assert.Equal(t, a, res.Events[2].Contract)
	assert.Equal(t, a, res.Events[2].Sender, "self callback is sent by the contract itself")
	assert.Len(t, res.Find(b), 1)

	before := h.Revision()

	// the later failure must roll back b's increment
	msg = `{"forward":{"to":"` + string(b) + `","msg":{"incr":{}},"then":{"fail":{}}}}`
	_, err = h.Execute(a, "alice", msg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forced failure")
	assert.Equal(t, 1, count(t, h, b))
	assert.Equal(t, 1, count(t, h, a))
	assert.Equal(t, before, h.Revision())
}

func TestBank(t *testing.T) {
	h := newHost(t)
	require.NoError(t, h.Mint("alice", cw.NewCoin(100, "untrn")))

	addr, err := h.Instantiate("counter", "alice", "c", struct{}{}, cw.NewCoin(40, "untrn"))
	require.NoError(t, err)

	bal, err := h.Balance(addr, "untrn")
	require.NoError(t, err)
	assert.Equal(t, "40", bal.String())

	_, err = h.Execute(addr, "alice", `{"pay":{"to":"bob","amount":{"denom":"untrn","amount":"15"}}}`)
	require.NoError(t, err)
	bal, _ = h.Balance("bob", "untrn")
	assert.Equal(t, "15", bal.String())
	bal, _ = h.Balance(addr, "untrn")
	assert.Equal(t, "25", bal.String())

	_, err = h.Execute(addr, "alice", `{"incr":{}}`, cw.NewCoin(1000, "untrn"))
	assert.ErrorContains(t, err, "insufficient funds")
	bal, _ = h.Balance("alice", "untrn")
	assert.Equal(t, "60", bal.String())
}

func TestQueryDuringExecution(t *testing.T) {
	h := newHost(t)
	a, err := h.Instantiate("counter", "alice", "a", struct{}{})
	require.NoError(t, err)
	b, err := h.Instantiate("counter", "alice", "b", struct{}{})
	require.NoError(t, err)

	// b increments, then a peeks at b within the same transaction
	msg := `{"forward":{"to":"` + string(b) + `","msg":{"incr":{}},"then":{"peek":{"target":"` + string(b) + `"}}}}`
	res, err := h.Execute(a, "alice", msg)
	require.NoError(t, err)
	v, ok := res.Events[2].Attribute("peeked")
	require.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestBlockClockPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")
	db, err := lvldb.New(path, lvldb.Options{})
	require.NoError(t, err)

	h, err := New(db, Options{ChainID: "test-1", StartHeight: 1, StartTime: 1_000})
	require.NoError(t, err)
	h.StoreCode("counter", counter{})
	addr, err := h.Instantiate("counter", "alice", "c", struct{}{})
	require.NoError(t, err)
	require.NoError(t, h.NextBlock(5))
	assert.Error(t, h.SetTime(10))
	require.NoError(t, h.SetTime(2_000))
	require.NoError(t, db.Close())

	db, err = lvldb.New(path, lvldb.Options{})
	require.NoError(t, err)
	defer db.Close()
	h, err = New(db, Options{ChainID: "ignored"})
	require.NoError(t, err)
	h.StoreCode("counter", counter{})

	assert.Equal(t, cw.BlockInfo{Height: 3, Time: 2_000, ChainID: "test-1"}, h.Block())
	assert.Equal(t, 0, count(t, h, addr))

	contracts, err := h.Contracts()
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	assert.Equal(t, addr, contracts[0].Address)

	next, err := h.Instantiate("counter", "alice", "d", struct{}{})
	require.NoError(t, err)
	assert.Equal(t, cw.Addr("contract2"), next)
}

func TestAddrValidate(t *testing.T) {
	v := addrValidator{}
	for _, ok := range []string{"alice", "contract12", "neutron1abc"} {
		_, err := v.AddrValidate(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"", "Alice", "a b", "ß"} {
		_, err := v.AddrValidate(bad)
		assert.Error(t, err, bad)
	}
}

func TestSubscribeCommits(t *testing.T) {
	h := newHost(t)
	ch := make(chan *Commit, 4)
	sub := h.SubscribeCommits(ch)
	defer sub.Unsubscribe()

	addr, err := h.Instantiate("counter", "alice", "c", struct{}{})
	require.NoError(t, err)
	_, err = h.Execute(addr, "alice", counterMsg{Fail: &struct{}{}})
	assert.Error(t, err)
	_, err = h.Execute(addr, "alice", counterMsg{Incr: &struct{}{}})
	require.NoError(t, err)

	require.Len(t, ch, 2, "reverted transactions are not announced")
	first, second := <-ch, <-ch
	assert.Equal(t, first.Revision+1, second.Revision)
	assert.Equal(t, h.Revision(), second.Revision)
	assert.Equal(t, uint64(1), second.Block.Height)
	require.Len(t, second.Events, 1)
	v, ok := second.Events[0].Attribute("count")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	h.Close()
	select {
	case <-sub.Err():
	default:
		t.Fatal("subscription should end when the host closes")
	}
}

func TestRevisionCountsBlocksAndCommits(t *testing.T) {
	h := newHost(t)
	addr, err := h.Instantiate("counter", "alice", "c", struct{}{})
	require.NoError(t, err)

	rev := h.Revision()
	require.NoError(t, h.NextBlock(6))
	assert.Equal(t, rev+1, h.Revision(), "block advance")
	require.NoError(t, h.SetTime(h.Block().Time+6))
	assert.Equal(t, rev+2, h.Revision(), "set time")
	assert.Error(t, h.SetTime(0))
	assert.Equal(t, rev+2, h.Revision(), "rejected clock move")

	_, err = h.Execute(addr, "alice", counterMsg{Incr: &struct{}{}})
	require.NoError(t, err)
	assert.Equal(t, rev+3, h.Revision(), "committed transaction")
	_, err = h.Execute(addr, "alice", counterMsg{Fail: &struct{}{}})
	require.Error(t, err)
	assert.Equal(t, rev+3, h.Revision(), "reverted transaction")
}
