// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop/pcl"
	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin/lockdrop/xyk"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/test/testchain"
)

// Scenario is a deployment plus the steps to replay on it.
type Scenario struct {
	Chain testchain.Config `yaml:"chain"`
	Steps []Step           `yaml:"steps"`
}

// Step is one user or operator action. Fields that do not apply to the
// action are ignored.
type Step struct {
	Action      string  `yaml:"action"`
	User        cw.Addr `yaml:"user"`
	Pool        string  `yaml:"pool"`
	Amount      uint64  `yaml:"amount"`
	Base        uint64  `yaml:"base"`
	Duration    uint64  `yaml:"duration"`
	Unlock      bool    `yaml:"unlock"`
	Variant     string  `yaml:"variant"`
	To          string  `yaml:"to"`
	ExpectError string  `yaml:"expect_error"`
}

// LoadScenario decodes a scenario on top of the default deployment.
func LoadScenario(r io.Reader) (*Scenario, error) {
	sc := &Scenario{Chain: testchain.DefaultConfig()}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(sc); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode scenario")
	}
	return sc, nil
}

func loadScenarioFile(path string) (*Scenario, error) {
	if path == "" {
		return &Scenario{Chain: testchain.DefaultConfig()}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadScenario(f)
}

// StepResult is what running one step produced.
type StepResult struct {
	Index  int    `json:"index"`
	Action string `json:"action"`
	Time   uint64 `json:"time"`
	Error  string `json:"error,omitempty"`
	Output any    `json:"output,omitempty"`
}

// StepHook is called after every step that went as expected. An error
// stops the run.
type StepHook func(StepResult) error

// Run replays every step on chain. A step failing without a matching
// expect_error stops the run.
func (sc *Scenario) Run(chain *testchain.Chain) ([]StepResult, error) {
	return sc.RunWith(chain, nil)
}

// RunWith is Run calling after once per completed step.
func (sc *Scenario) RunWith(chain *testchain.Chain, after StepHook) ([]StepResult, error) {
	results := make([]StepResult, 0, len(sc.Steps))
	for i, step := range sc.Steps {
		out, err := runStep(chain, &step)
		res := StepResult{Index: i, Action: step.Action, Time: chain.Now(), Output: out}
		if err != nil {
			res.Error = err.Error()
		}
		results = append(results, res)

		switch {
		case step.ExpectError == "" && err != nil:
			return results, errors.Wrapf(err, "step %d (%s)", i, step.Action)
		case step.ExpectError != "" && err == nil:
			return results, errors.Errorf("step %d (%s): expected error %q", i, step.Action, step.ExpectError)
		case step.ExpectError != "" && !strings.Contains(err.Error(), step.ExpectError):
			return results, errors.Errorf("step %d (%s): error %q does not contain %q", i, step.Action, err, step.ExpectError)
		}
		logger.Debug("step done", "index", i, "action", step.Action, "time", res.Time)
		if after != nil {
			if err := after(res); err != nil {
				return results, err
			}
		}
	}
	return results, nil
}

func lockdropOf(chain *testchain.Chain, variant string) (*testchain.Contract, error) {
	switch variant {
	case "", "xyk":
		return chain.XYK(), nil
	case "pcl":
		return chain.PCL(), nil
	}
	return nil, errors.Errorf("unknown variant %q", variant)
}

// resolveTime turns a step target into a unix time. Named phases and +N
// offsets from now are accepted besides plain timestamps.
func resolveTime(chain *testchain.Chain, to string) (uint64, error) {
	switch to {
	case "init":
		return chain.Config().InitTimestamp, nil
	case "deposit_end":
		return chain.DepositEnd(), nil
	case "windows_end":
		return chain.WindowsEnd(), nil
	}
	if rest, ok := strings.CutPrefix(to, "+"); ok {
		d, err := strconv.ParseUint(rest, 10, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "offset %q", to)
		}
		return chain.Now() + d, nil
	}
	t, err := strconv.ParseUint(to, 10, 64)
	return t, errors.Wrapf(err, "time %q", to)
}

func runStep(chain *testchain.Chain, s *Step) (any, error) {
	switch s.Action {
	case "advance":
		t, err := resolveTime(chain, s.To)
		if err != nil {
			return nil, err
		}
		return nil, chain.AdvanceTo(t)
	case "provide":
		base := s.Base
		if base == 0 {
			base = s.Amount
		}
		lp, err := chain.ProvideXYK(s.User, s.Pool, s.Amount, base)
		return lp, err
	case "fund_lockdrop":
		_, err := chain.FundLockdrop(s.Amount)
		return nil, err
	case "lock":
		_, err := chain.Lock(s.User, s.Pool, cw.NewUint128(s.Amount), s.Duration)
		return nil, err
	case "withdraw":
		_, err := chain.XYK().Attach(s.User).Execute(xyk.ExecuteMsg{WithdrawFromLockup: &xyk.WithdrawFromLockupMsg{
			Pool:     s.Pool,
			Duration: s.Duration,
			Amount:   cw.NewUint128(s.Amount),
		}})
		return nil, err
	case "migrate_all":
		return nil, chain.MigrateAll()
	case "fund_rewards":
		pc := chain.Pool(s.Pool)
		if pc == nil {
			return nil, errors.Errorf("unknown pool %q", s.Pool)
		}
		return nil, chain.FundRewards(pc.PCLLP, cw.NewCoin(s.Amount, testchain.BaseDenom))
	case "claim":
		c, err := lockdropOf(chain, s.Variant)
		if err != nil {
			return nil, err
		}
		msg := &lockdrop.ClaimRewardsAndUnlockMsg{Pool: s.Pool, Duration: s.Duration, WithdrawLPStake: s.Unlock}
		if s.Variant == "pcl" {
			_, err = c.Attach(s.User).Execute(pcl.ExecuteMsg{ClaimRewardsAndOptionallyUnlock: msg})
		} else {
			_, err = c.Attach(s.User).Execute(xyk.ExecuteMsg{ClaimRewardsAndOptionallyUnlock: msg})
		}
		return nil, err
	case "migrate_to_pcl":
		_, err := chain.XYK().Attach(s.User).Execute(xyk.ExecuteMsg{MigrateToPCL: &xyk.LockupMsg{Pool: s.Pool, Duration: s.Duration}})
		return nil, err
	case "user_info":
		c, err := lockdropOf(chain, s.Variant)
		if err != nil {
			return nil, err
		}
		var info lockdrop.UserInfoWithListResponse
		err = c.QueryInto(lockdrop.QueryMsg{UserInfoWithLockupsList: &lockdrop.AddressQuery{Address: s.User}}, &info)
		return &info, err
	case "pool_info":
		c, err := lockdropOf(chain, s.Variant)
		if err != nil {
			return nil, err
		}
		var p lockdrop.Pool
		err = c.QueryInto(lockdrop.QueryMsg{Pool: &lockdrop.PoolQuery{Pool: s.Pool}}, &p)
		return &p, err
	}
	return nil, errors.Errorf("unknown action %q", s.Action)
}
