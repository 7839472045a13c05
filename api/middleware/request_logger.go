// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bytes"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/pborman/uuid"

	"github.com/neutron-org/neutron-tge-contracts-sub000/log"
)

// RequestIDHeader carries the id a logged request is recorded under. A
// client supplied id is kept.
const RequestIDHeader = "X-Request-Id"

// maxLoggedBody caps how much of a request body ends up in the log.
const maxLoggedBody = 4096

// RequestLogger logs every request while enabled is set, and requests slower
// than slowQueries otherwise. A zero threshold disables slow query logging.
func RequestLogger(logger log.Logger, enabled *atomic.Bool, slowQueries time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled.Load() && slowQueries == 0 {
				next.ServeHTTP(w, r)
				return
			}
			var body []byte
			if r.Body != nil {
				var err error
				if body, err = io.ReadAll(r.Body); err != nil {
					logger.Warn("unexpected body read error", "err", err)
					http.Error(w, "unreadable body", http.StatusBadRequest)
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.New()
			}
			w.Header().Set(RequestIDHeader, id)

			m := httpsnoop.CaptureMetrics(next, w, r)
			duration := m.Duration

			if !enabled.Load() && duration <= slowQueries {
				return
			}
			if len(body) > maxLoggedBody {
				body = body[:maxLoggedBody]
			}
			logger.Info("api request",
				"requestID", id,
				"durationMs", duration.Milliseconds(),
				"uri", r.URL.String(),
				"method", r.Method,
				"status", m.Code,
				"body", string(body),
			)
		})
	}
}
