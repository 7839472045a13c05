// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/ethereum/go-ethereum/event"

	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
)

// Commit announces a committed transaction to subscribers.
type Commit struct {
	Block    cw.BlockInfo `json:"block"`
	Revision uint64       `json:"revision"`
	Events   []*Event     `json:"events"`
}

// SubscribeCommits delivers every commit made after the call to ch.
// Delivery happens outside the host lock, so a subscriber may query the host
// but must keep up: a full channel stalls the next transaction.
func (h *Host) SubscribeCommits(ch chan *Commit) event.Subscription {
	return h.scope.Track(h.commitFeed.Subscribe(ch))
}

// Close ends every commit subscription.
func (h *Host) Close() {
	h.scope.Close()
}

func (h *Host) newCommit(res *Result) *Commit {
	return &Commit{Block: h.block, Revision: h.revision, Events: res.Events}
}
