// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/neutron-org/neutron-tge-contracts-sub000/api/accounts"
	"github.com/neutron-org/neutron-tge-contracts-sub000/api/blocks"
	"github.com/neutron-org/neutron-tge-contracts-sub000/api/contracts"
	"github.com/neutron-org/neutron-tge-contracts-sub000/api/events"
	"github.com/neutron-org/neutron-tge-contracts-sub000/api/middleware"
	"github.com/neutron-org/neutron-tge-contracts-sub000/api/subscriptions"
	"github.com/neutron-org/neutron-tge-contracts-sub000/eventdb"
	"github.com/neutron-org/neutron-tge-contracts-sub000/log"
	"github.com/neutron-org/neutron-tge-contracts-sub000/metrics"
	"github.com/neutron-org/neutron-tge-contracts-sub000/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	QueryCacheSize  int
	EnableReqLogger *atomic.Bool
	SlowQueries     time.Duration
	EnableMetrics   bool
	Events          *eventdb.EventDB
	EventsLimit     uint64
}

// New returns the read only http api over host, and a func closing the open
// subscriptions. The events route is served only with an event db.
func New(host *runtime.Host, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()
	contracts.New(host, opts.QueryCacheSize).
		Mount(router, "/contracts")
	accounts.New(host).
		Mount(router, "/accounts")
	blocks.New(host).
		Mount(router, "/blocks")
	if opts.Events != nil {
		events.New(opts.Events, opts.EventsLimit).
			Mount(router, "/events")
	}
	subs := subscriptions.New(host, origins)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Path("/metrics").Methods(http.MethodGet).Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	// routes are named after their template for the metrics labels
	_ = router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		if tpl, err := route.GetPathTemplate(); err == nil {
			route.Name(tpl)
		}
		return nil
	})

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
	)(handler)

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	handler = middleware.RequestLogger(logger, enabled, opts.SlowQueries)(handler)

	return handler.ServeHTTP, subs.Close
}
