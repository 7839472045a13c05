// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/eventdb"
	"github.com/neutron-org/neutron-tge-contracts-sub000/lvldb"
	"github.com/neutron-org/neutron-tge-contracts-sub000/runtime"
	"github.com/neutron-org/neutron-tge-contracts-sub000/test"
)

func newEvent(rev uint64, idx uint32, contract cw.Addr, action string) *eventdb.Event {
	return &eventdb.Event{
		Revision:   rev,
		Index:      idx,
		Height:     rev,
		Time:       1_000 + rev*10,
		Contract:   contract,
		Sender:     "alice",
		Action:     action,
		Attributes: []cw.Attribute{{Key: "action", Value: action}},
	}
}

func TestEventDB(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	var events []*eventdb.Event
	for i := uint64(1); i <= 20; i++ {
		action := "increase_lockup"
		if i%2 == 0 {
			action = "claim_rewards"
		}
		events = append(events, newEvent(i, 0, "lockdrop", action), newEvent(i, 1, "token", "transfer"))
	}
	require.NoError(t, db.Insert(events))
	require.NoError(t, db.Insert(nil))

	all, err := db.Filter(nil)
	require.NoError(t, err)
	assert.Len(t, all, 40)
	assert.Equal(t, events[0], all[0])

	contract := cw.Addr("lockdrop")
	action := "claim_rewards"
	got, err := db.Filter(&eventdb.Filter{
		Contract: &contract,
		Action:   &action,
		Range:    &eventdb.Range{Unit: eventdb.Height, From: 1, To: 10},
		Order:    eventdb.DESC,
		Options:  &eventdb.Options{Offset: 1, Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(8), got[0].Revision)
	assert.Equal(t, uint64(6), got[1].Revision)

	got, err = db.Filter(&eventdb.Filter{Range: &eventdb.Range{Unit: eventdb.Time, From: 1_195}})
	require.NoError(t, err)
	assert.Len(t, got, 2, "a To below From leaves the range open")

	// same key replaces
	require.NoError(t, db.Insert([]*eventdb.Event{newEvent(1, 0, "lockdrop", "withdraw")}))
	got, err = db.Filter(&eventdb.Filter{Contract: &contract, Options: &eventdb.Options{Limit: 1}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "withdraw", got[0].Action)
}

func TestEventDBPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	db, err := eventdb.New(path)
	require.NoError(t, err)
	require.NoError(t, db.Insert([]*eventdb.Event{newEvent(3, 0, "token", "mint")}))
	assert.Equal(t, path, db.Path())
	require.NoError(t, db.Close())

	db, err = eventdb.New(path)
	require.NoError(t, err)
	defer db.Close()
	got, err := db.Filter(nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "mint", got[0].Action)
}

type ping struct{}

func (ping) Instantiate(cw.Deps, cw.Env, cw.MessageInfo, []byte) (*cw.Response, error) {
	return cw.NewResponse().AddAttribute("action", "instantiate"), nil
}

func (ping) Execute(_ cw.Deps, _ cw.Env, _ cw.MessageInfo, msg []byte) (*cw.Response, error) {
	if string(msg) == "fail" {
		return nil, errors.New("failed")
	}
	return cw.NewResponse().AddAttribute("action", "ping").AddAttribute("n", string(msg)), nil
}

func (ping) Query(cw.Deps, cw.Env, []byte) ([]byte, error) {
	return []byte(`{}`), nil
}

func TestIndexer(t *testing.T) {
	kvdb, err := lvldb.NewMem()
	require.NoError(t, err)
	defer kvdb.Close()
	host, err := runtime.New(kvdb, runtime.Options{ChainID: "test-1", StartHeight: 5, StartTime: 1_000})
	require.NoError(t, err)
	host.StoreCode("ping", ping{})

	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	ix := eventdb.NewIndexer(host, db)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ix.Run(ctx) }()

	addr, err := host.Instantiate("ping", "alice", "p", struct{}{})
	require.NoError(t, err)
	_, err = host.Execute(addr, "bob", "fail")
	assert.Error(t, err)
	_, err = host.Execute(addr, "bob", 7)
	require.NoError(t, err)

	require.NoError(t, test.Retry(func() error {
		got, err := db.Filter(&eventdb.Filter{Contract: &addr})
		if err != nil {
			return err
		}
		if len(got) != 2 {
			return errors.Errorf("indexed %d events", len(got))
		}
		return nil
	}, 5*time.Millisecond, 2*time.Second))

	action := "ping"
	got, err := db.Filter(&eventdb.Filter{Action: &action})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, cw.Addr("bob"), got[0].Sender)
	assert.Equal(t, uint64(5), got[0].Height)
	assert.Equal(t, []cw.Attribute{{Key: "action", Value: "ping"}, {Key: "n", Value: "7"}}, got[0].Attributes)

	cancel()
	assert.NoError(t, <-done)
}
