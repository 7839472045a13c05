// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/elastic/gosigar"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/neutron-org/neutron-tge-contracts-sub000/api"
	"github.com/neutron-org/neutron-tge-contracts-sub000/eventdb"
	"github.com/neutron-org/neutron-tge-contracts-sub000/log"
	"github.com/neutron-org/neutron-tge-contracts-sub000/lvldb"
	"github.com/neutron-org/neutron-tge-contracts-sub000/metrics"
	"github.com/neutron-org/neutron-tge-contracts-sub000/test/testchain"
)

func initLogger(ctx *cli.Context) {
	level := log.FromVerbosity(ctx.GlobalInt(verbosityFlag.Name))
	color := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	log.Setup(os.Stderr, level, ctx.GlobalBool(jsonLogsFlag.Name), color)
}

func openDB(ctx *cli.Context) (*lvldb.LevelDB, error) {
	dir := ctx.String(dataDirFlag.Name)
	if dir == "" {
		return lvldb.NewMem()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create data dir %s", dir)
	}
	return lvldb.New(filepath.Join(dir, "state.db"), lvldb.Options{
		CacheSize:              normalizeCacheSize(ctx.Int(cacheFlag.Name)),
		OpenFilesCacheCapacity: 64,
	})
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 16 {
		sizeMB = 16
	}
	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem", "err", err)
		return sizeMB
	}
	// at most a quarter of physical ram
	if limitMB := int(mem.Total / 1024 / 1024 / 4); limitMB >= 16 && sizeMB > limitMB {
		logger.Warn("cache size(MB) limited", "limit", limitMB)
		sizeMB = limitMB
	}
	return sizeMB
}

// setupChain deploys the scenario's chain on the configured database.
func setupChain(ctx *cli.Context) (*testchain.Chain, *Scenario, error) {
	sc, err := loadScenarioFile(ctx.String(scenarioFlag.Name))
	if err != nil {
		return nil, nil, err
	}
	db, err := openDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	chain, err := testchain.Open(db, sc.Chain)
	if err != nil {
		return nil, nil, errors.Wrap(err, "deploy")
	}
	return chain, sc, nil
}

// diffResults returns a unified diff of the JSON of results against
// the expected document, or "" when they match.
func diffResults(expected []byte, results []StepResult) (string, error) {
	var want any
	if err := json.Unmarshal(expected, &want); err != nil {
		return "", errors.Wrap(err, "decode expected results")
	}
	raw, err := json.Marshal(results)
	if err != nil {
		return "", err
	}
	var got any
	if err := json.Unmarshal(raw, &got); err != nil {
		return "", err
	}
	e, _ := json.MarshalIndent(want, "", "  ")
	a, _ := json.MarshalIndent(got, "", "  ")
	if bytes.Equal(e, a) {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(e)),
		B:        difflib.SplitLines(string(a)),
		FromFile: "Expected",
		ToFile:   "Actual",
		Context:  2,
	})
}

func writeResults(w io.Writer, results []StepResult, dump bool) error {
	if dump {
		spew.Fdump(w, results)
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)
		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

// serveAPI runs the API on listener until ctx is done.
func serveAPI(ctx context.Context, listener net.Listener, handler http.Handler) error {
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openEventDB opens the event index next to the state database, or in memory
// without a data dir.
func openEventDB(ctx *cli.Context) (*eventdb.EventDB, error) {
	dir := ctx.String(dataDirFlag.Name)
	if dir == "" {
		return eventdb.NewMem()
	}
	db, err := eventdb.New(filepath.Join(dir, "events.db"))
	return db, errors.Wrap(err, "open event database")
}

// replayPaced runs sc on chain waiting delay after each step, so API
// subscribers watch the commits happen.
func replayPaced(ctx context.Context, chain *testchain.Chain, sc *Scenario, delay time.Duration) error {
	_, err := sc.RunWith(chain, func(StepResult) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			return nil
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("scenario replayed", "steps", len(sc.Steps), "revision", chain.Host().Revision())
	return nil
}

func apiHandler(ctx *cli.Context, chain *testchain.Chain, events *eventdb.EventDB) (http.Handler, func()) {
	logAll := &atomic.Bool{}
	logAll.Store(ctx.Bool(apiLogsFlag.Name))
	if ctx.Bool(metricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}
	return api.New(chain.Host(), api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		QueryCacheSize:  ctx.Int(apiCacheFlag.Name),
		EnableReqLogger: logAll,
		SlowQueries:     time.Duration(ctx.Int64(apiSlowQueriesFlag.Name)) * time.Millisecond,
		EnableMetrics:   ctx.Bool(metricsFlag.Name),
		Events:          events,
		EventsLimit:     ctx.Uint64(eventsLimitFlag.Name),
	})
}
