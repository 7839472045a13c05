// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	scenarioFlag = cli.StringFlag{
		Name:  "scenario",
		Usage: "path to a YAML scenario; the default deployment is used when empty",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Usage: "directory for the state database; state is kept in memory when empty",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Usage: "megabytes of RAM allocated to the state database",
		Value: 64,
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	dumpFlag = cli.BoolFlag{
		Name:  "dump",
		Usage: "dump step outputs in Go syntax instead of JSON",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiCacheFlag = cli.IntFlag{
		Name:  "api-query-cache",
		Value: 1024,
		Usage: "number of smart query responses kept in memory",
	}
	apiLogsFlag = cli.BoolFlag{
		Name:  "api-logs",
		Usage: "log every API request",
	}
	apiSlowQueriesFlag = cli.Int64Flag{
		Name:  "api-slow-queries-threshold",
		Value: 0,
		Usage: "log API requests slower than this many milliseconds, 0 to disable",
	}
	expectFlag = cli.StringFlag{
		Name:  "expect",
		Usage: "path to the JSON results a run must reproduce; a mismatch fails with a diff",
	}
	progressFlag = cli.BoolFlag{
		Name:  "progress",
		Usage: "show a progress bar while replaying",
	}
	stepDelayFlag = cli.Int64Flag{
		Name:  "step-delay",
		Value: 0,
		Usage: "milliseconds to wait between steps; with a delay the scenario replays while the API serves",
	}
	eventsLimitFlag = cli.Uint64Flag{
		Name:  "api-events-limit",
		Value: 1000,
		Usage: "maximum number of events a filter may return",
	}
	metricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "serve prometheus metrics at /metrics",
	}
)
