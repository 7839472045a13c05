// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/neutron-org/neutron-tge-contracts-sub000/api/utils"
	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/log"
	"github.com/neutron-org/neutron-tge-contracts-sub000/runtime"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 7 / 10
)

var logger = log.WithContext("pkg", "subscriptions")

type Subscriptions struct {
	host     *runtime.Host
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
}

// New creates the websocket api. Origins are lower case; "*" accepts any page.
func New(host *runtime.Host, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		host: host,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := strings.ToLower(r.Header.Get("Origin"))
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// Commit is what a subscriber receives. Events holds only the matching
// ones when the subscription names a contract.
type Commit struct {
	Height   uint64           `json:"height"`
	Time     uint64           `json:"time"`
	Revision uint64           `json:"revision"`
	Events   []*runtime.Event `json:"events"`
}

func convertCommit(c *runtime.Commit, contract cw.Addr) *Commit {
	out := &Commit{Height: c.Block.Height, Time: c.Block.Time, Revision: c.Revision, Events: []*runtime.Event{}}
	for _, ev := range c.Events {
		if contract.IsEmpty() || ev.Contract == contract {
			out.Events = append(out.Events, ev)
		}
	}
	return out
}

func (s *Subscriptions) handleSubscribeCommits(w http.ResponseWriter, req *http.Request) error {
	contract := cw.Addr(req.URL.Query().Get("contract"))

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// the upgrader has already replied on failure
	if err != nil {
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	ch := make(chan *runtime.Commit, 16)
	sub := s.host.SubscribeCommits(ch)
	defer sub.Unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case c := <-ch:
			msg := convertCommit(c, contract)
			if !contract.IsEmpty() && len(msg.Events) == 0 {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				logger.Debug("write failed", "err", err)
				return nil
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		case <-sub.Err():
			return s.closeConn(conn, websocket.CloseGoingAway, "host closed")
		case <-s.done:
			return s.closeConn(conn, websocket.CloseGoingAway, "server shutdown")
		case <-closed:
			return nil
		}
	}
}

func (s *Subscriptions) closeConn(conn *websocket.Conn, code int, text string) error {
	msg := websocket.FormatCloseMessage(code, text)
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		logger.Debug("close failed", "err", err)
	}
	return nil
}

// Close ends every open subscription and waits for them to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/commits").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeCommits))
}
