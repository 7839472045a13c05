// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/neutron-org/neutron-tge-contracts-sub000/log"
)

// mockLogger records the context of every Info call.
type mockLogger struct {
	loggedData []any
}

func (m *mockLogger) Trace(_ string, _ ...any)  {}
func (m *mockLogger) Debug(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)   {}
func (m *mockLogger) Error(_ string, _ ...any)  {}
func (m *mockLogger) New(_ ...any) log.Logger   { return m }
func (m *mockLogger) Enabled(_ slog.Level) bool { return true }
func (m *mockLogger) Info(_ string, ctx ...any) { m.loggedData = append(m.loggedData, ctx...) }

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		slow      time.Duration
		delay     time.Duration
		shouldLog bool
	}{
		{name: "enabled", enabled: true, shouldLog: true},
		{name: "disabled without threshold", enabled: false},
		{name: "disabled fast request", enabled: false, slow: time.Hour},
		{name: "disabled slow request", enabled: false, slow: time.Millisecond, delay: 20 * time.Millisecond, shouldLog: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &mockLogger{}
			enabled := &atomic.Bool{}
			enabled.Store(tt.enabled)

			handler := RequestLogger(logger, enabled, tt.slow)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				time.Sleep(tt.delay)
				w.WriteHeader(http.StatusTeapot)
			}))
			req := httptest.NewRequest(http.MethodPost, "/contracts/contract1/query", strings.NewReader(`{"msg":{"config":{}}}`))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusTeapot, rr.Code)
			if tt.enabled || tt.slow > 0 {
				assert.Len(t, rr.Header().Get(RequestIDHeader), 36)
			}
			if !tt.shouldLog {
				assert.Empty(t, logger.loggedData)
				return
			}
			assert.Contains(t, logger.loggedData, "/contracts/contract1/query")
			assert.Contains(t, logger.loggedData, http.MethodPost)
			assert.Contains(t, logger.loggedData, http.StatusTeapot)
			assert.Contains(t, logger.loggedData, `{"msg":{"config":{}}}`)
		})
	}
}

func TestRequestLoggerKeepsRequestID(t *testing.T) {
	logger := &mockLogger{}
	enabled := &atomic.Bool{}
	enabled.Store(true)

	handler := RequestLogger(logger, enabled, 0)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/blocks/best", nil)
	req.Header.Set(RequestIDHeader, "client-42")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, "client-42", rr.Header().Get(RequestIDHeader))
	assert.Contains(t, logger.loggedData, "client-42")
	assert.Contains(t, logger.loggedData, http.StatusOK)
}
