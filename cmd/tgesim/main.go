// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Command tgesim deploys the TGE lockdrop contracts on a simulated host,
// replays scenarios against them and serves their state over HTTP.
package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/neutron-org/neutron-tge-contracts-sub000/builtin"
	"github.com/neutron-org/neutron-tge-contracts-sub000/eventdb"
	"github.com/neutron-org/neutron-tge-contracts-sub000/log"
)

var (
	version = "dev"
	gitCommit string
	logger = log.WithContext("pkg", "tgesim")
)

func fullVersion() string {
	if gitCommit == "" {
		return version
	}
	return fmt.Sprintf("%s-%s", version, gitCommit)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "tgesim"
	app.Version = fullVersion()
	app.Usage = "Simulator for the TGE lockdrop contracts"
	app.Flags = []cli.Flag{
		verbosityFlag,
		jsonLogsFlag,
	}
	app.Before = func(ctx *cli.Context) error {
		initLogger(ctx)
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:   "run",
			Usage:  "replay a scenario and print the outcome of every step",
			Flags:  []cli.Flag{scenarioFlag, dataDirFlag, cacheFlag, dumpFlag, progressFlag, expectFlag},
			Action: runAction,
		},
		{
			Name:  "serve",
			Usage: "replay a scenario and serve the resulting state over HTTP",
			Flags: []cli.Flag{
				scenarioFlag,
				dataDirFlag,
				cacheFlag,
				apiAddrFlag,
				apiCorsFlag,
				apiCacheFlag,
				apiLogsFlag,
				apiSlowQueriesFlag,
				eventsLimitFlag,
				stepDelayFlag,
				metricsFlag,
			},
			Action: serveAction,
		},
		{
			Name:   "codes",
			Usage:  "list the contract codes the host knows",
			Action: codesAction,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runAction(ctx *cli.Context) error {
	chain, sc, err := setupChain(ctx)
	if err != nil {
		return err
	}
	defer chain.Close()

	var hook StepHook
	if ctx.Bool(progressFlag.Name) && len(sc.Steps) > 0 {
		bar := pb.New(len(sc.Steps)).SetMaxWidth(90)
		bar.Output = os.Stderr
		bar.Start()
		defer bar.Finish()
		hook = func(StepResult) error {
			bar.Increment()
			return nil
		}
	}

	results, runErr := sc.RunWith(chain, hook)
	if err := writeResults(ctx.App.Writer, results, ctx.Bool(dumpFlag.Name)); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	if path := ctx.String(expectFlag.Name); path != "" {
		expected, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		diff, err := diffResults(expected, results)
		if err != nil {
			return err
		}
		if diff != "" {
			return errors.Errorf("results differ from %s:\n%s", path, diff)
		}
	}
	return nil
}

func serveAction(ctx *cli.Context) error {
	chain, sc, err := setupChain(ctx)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing state database..."); chain.Close() }()

	events, err := openEventDB(ctx)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing event database..."); events.Close() }()

	g, gctx := errgroup.WithContext(handleExitSignal())
	ix := eventdb.NewIndexer(chain.Host(), events)
	g.Go(func() error { return ix.Run(gctx) })

	delay := time.Duration(ctx.Int64(stepDelayFlag.Name)) * time.Millisecond
	if delay <= 0 {
		if _, err := sc.Run(chain); err != nil {
			return err
		}
	}

	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	handler, closeSubs := apiHandler(ctx, chain, events)
	defer closeSubs()

	block := chain.Host().Block()
	logger.Info("serving API", "url", "http://"+listener.Addr().String()+"/", "height", block.Height, "time", block.Time)
	g.Go(func() error { return serveAPI(gctx, listener, handler) })
	if delay > 0 {
		g.Go(func() error { return replayPaced(gctx, chain, sc, delay) })
	}
	return g.Wait()
}

func codesAction(ctx *cli.Context) error {
	for _, code := range builtin.Codes() {
		fmt.Fprintln(ctx.App.Writer, code)
	}
	return nil
}
