// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"

	"github.com/ethereum/go-ethereum/event"

	"github.com/neutron-org/neutron-tge-contracts-sub000/log"
	"github.com/neutron-org/neutron-tge-contracts-sub000/runtime"
)

var logger = log.WithContext("pkg", "eventdb")

// Indexer writes the commits of a host into an EventDB.
type Indexer struct {
	db  *EventDB
	ch  chan *runtime.Commit
	sub event.Subscription
}

// NewIndexer subscribes to host right away, so no commit made after it
// returns is missed.
func NewIndexer(host *runtime.Host, db *EventDB) *Indexer {
	ch := make(chan *runtime.Commit, 64)
	return &Indexer{db: db, ch: ch, sub: host.SubscribeCommits(ch)}
}

// Run indexes until ctx is done or the host closes. Commits already received
// are written before it returns.
func (ix *Indexer) Run(ctx context.Context) error {
	defer ix.sub.Unsubscribe()

	logger.Debug("indexing events", "path", ix.db.path, "sqlite", ix.db.sqliteVersion)
	for {
		select {
		case c := <-ix.ch:
			if err := ix.insert(c); err != nil {
				return err
			}
		case <-ix.sub.Err():
			return ix.drain()
		case <-ctx.Done():
			return ix.drain()
		}
	}
}

func (ix *Indexer) insert(c *runtime.Commit) error {
	if err := ix.db.Insert(NewEvents(c)); err != nil {
		logger.Error("failed to index commit", "revision", c.Revision, "err", err)
		return err
	}
	return nil
}

func (ix *Indexer) drain() error {
	for {
		select {
		case c := <-ix.ch:
			if err := ix.insert(c); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}
