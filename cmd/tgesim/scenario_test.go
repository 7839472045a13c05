// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neutron-org/neutron-tge-contracts-sub000/api"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop"
	"github.com/neutron-org/neutron-tge-contracts-sub000/test"
	"github.com/neutron-org/neutron-tge-contracts-sub000/test/testchain"
)

const lifecycle = `
chain:
  pools:
    - id: ATOM
      denom: uatom
      incentives_share: 100
steps:
  - {action: provide, user: alice, pool: ATOM, amount: 10000}
  - {action: provide, user: bob, pool: ATOM, amount: 5001}
  - {action: advance, to: init}
  - {action: fund_lockdrop, amount: 1500000}
  - {action: lock, user: alice, pool: ATOM, amount: 10000, duration: 1}
  - {action: lock, user: bob, pool: ATOM, amount: 5000, duration: 1}
  - {action: lock, user: bob, pool: ATOM, amount: 1, duration: 99, expect_error: "lockup duration needs to be between"}
  - {action: migrate_all}
  - {action: fund_rewards, pool: ATOM, amount: 3000}
  - {action: claim, user: alice, pool: ATOM, duration: 1}
  - {action: migrate_to_pcl, user: bob, pool: ATOM, duration: 1}
  - {action: user_info, user: bob, variant: pcl}
  - {action: pool_info, pool: ATOM}
`

func TestScenarioRun(t *testing.T) {
	sc, err := LoadScenario(strings.NewReader(lifecycle))
	require.NoError(t, err)
	require.Len(t, sc.Chain.Pools, 1)
	assert.Equal(t, testchain.DefaultConfig().DepositWindow, sc.Chain.DepositWindow)

	chain, err := testchain.New(sc.Chain)
	require.NoError(t, err)
	defer chain.Close()

	results, err := sc.Run(chain)
	require.NoError(t, err)
	require.Len(t, results, len(sc.Steps))
	assert.Contains(t, results[6].Error, "lockup duration needs to be between")

	info := results[11].Output.(*lockdrop.UserInfoWithListResponse)
	require.Len(t, info.LockupInfos, 1)
	assert.Equal(t, "5000", info.LockupInfos[0].LPUnitsLocked.String())
	assert.Equal(t, "500000", info.TotalLockdropRewards.String())

	p := results[12].Output.(*lockdrop.Pool)
	assert.Equal(t, "10000", p.AmountInLockups.String())

	bal, err := chain.Balance("alice", testchain.BaseDenom)
	require.NoError(t, err)
	assert.Equal(t, "2000", bal.String())
}

func TestScenarioErrors(t *testing.T) {
	_, err := LoadScenario(strings.NewReader("chain:\n  no_such_field: 1\n"))
	assert.Error(t, err)

	for _, tt := range []struct{ yml, want string }{
		{"steps: [{action: fly}]", `unknown action "fly"`},
		{"steps: [{action: advance, to: '+x'}]", `offset "+x"`},
		{"steps: [{action: claim, variant: dex}]", `unknown variant "dex"`},
		{"steps: [{action: fund_lockdrop, amount: 5, expect_error: boom}]", `expected error "boom"`},
	} {
		sc, err := LoadScenario(strings.NewReader(tt.yml))
		require.NoError(t, err)
		chain, err := testchain.New(sc.Chain)
		require.NoError(t, err)
		_, err = sc.Run(chain)
		assert.ErrorContains(t, err, tt.want)
		chain.Close()
	}
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(lifecycle), 0o600))

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	require.NoError(t, app.Run([]string{"tgesim", "--verbosity", "0", "run", "--scenario", path, "--data-dir", filepath.Join(dir, "data")}))

	var results []StepResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	assert.Len(t, results, 13)
	assert.Equal(t, "migrate_to_pcl", results[10].Action)

	// the data dir now holds a deployment
	err := app.Run([]string{"tgesim", "run", "--scenario", path, "--data-dir", filepath.Join(dir, "data")})
	assert.ErrorContains(t, err, "already holds")

	out.Reset()
	require.NoError(t, app.Run([]string{"tgesim", "codes"}))
	assert.Contains(t, out.String(), "lockdrop_xyk\n")
}

func TestServeAPI(t *testing.T) {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	defer chain.Close()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	url := "http://" + listener.Addr().String() + "/blocks/best"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	handler, closeSubs := api.New(chain.Host(), api.Options{})
	defer closeSubs()
	go func() { done <- serveAPI(ctx, listener, handler) }()

	require.NoError(t, test.Retry(func() error {
		res, err := http.Get(url) //#nosec G107
		if err != nil {
			return err
		}
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			return errors.Errorf("status %d", res.StatusCode)
		}
		return nil
	}, 10*time.Millisecond, 2*time.Second))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunWithHook(t *testing.T) {
	sc, err := LoadScenario(strings.NewReader(lifecycle))
	require.NoError(t, err)

	chain, err := testchain.New(sc.Chain)
	require.NoError(t, err)
	var seen []string
	results, err := sc.RunWith(chain, func(res StepResult) error {
		seen = append(seen, res.Action)
		return nil
	})
	chain.Close()
	require.NoError(t, err)
	assert.Len(t, seen, len(results))
	assert.Equal(t, "lock", seen[6], "steps failing as expected still count")

	chain, err = testchain.New(sc.Chain)
	require.NoError(t, err)
	defer chain.Close()
	stop := errors.New("stop")
	results, err = sc.RunWith(chain, func(res StepResult) error {
		if res.Index == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Len(t, results, 3)

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	require.NoError(t, app.Run([]string{"tgesim", "--verbosity", "0", "run", "--progress"}))
}

func TestRunExpect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(lifecycle), 0o600))

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	require.NoError(t, app.Run([]string{"tgesim", "--verbosity", "0", "run", "--scenario", path}))
	golden := filepath.Join(dir, "golden.json")
	require.NoError(t, os.WriteFile(golden, out.Bytes(), 0o600))

	out.Reset()
	require.NoError(t, app.Run([]string{"tgesim", "--verbosity", "0", "run", "--scenario", path, "--expect", golden}))

	var results []StepResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	results[0].Action = "renamed"
	diff, err := diffResults(out.Bytes(), results)
	require.NoError(t, err)
	assert.Contains(t, diff, `-    "action": "provide",`)
	assert.Contains(t, diff, `+    "action": "renamed",`)

	_, err = diffResults([]byte("not json"), results)
	assert.Error(t, err)
}

func TestNormalizeCacheSize(t *testing.T) {
	assert.Equal(t, 16, normalizeCacheSize(1))
	assert.Equal(t, 64, normalizeCacheSize(64))
}
