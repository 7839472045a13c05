// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb indexes the events of committed transactions in sqlite.
package eventdb

import (
	"database/sql"
	"encoding/json"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/neutron-org/neutron-tge-contracts-sub000/cw"
	"github.com/neutron-org/neutron-tge-contracts-sub000/runtime"
)

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	revision INTEGER NOT NULL,
	eventIndex INTEGER NOT NULL,
	height INTEGER NOT NULL,
	time INTEGER NOT NULL,
	contract TEXT NOT NULL,
	sender TEXT NOT NULL,
	depth INTEGER NOT NULL,
	action TEXT NOT NULL,
	attributes TEXT NOT NULL,
	PRIMARY KEY (revision, eventIndex)
);
CREATE INDEX IF NOT EXISTS idx_event_contract ON event(contract, action);
CREATE INDEX IF NOT EXISTS idx_event_height ON event(height);`

type RangeType string

const (
	Height RangeType = "height"
	Time   RangeType = "time"
)

type OrderType string

const (
	ASC  OrderType = "asc"
	DESC OrderType = "desc"
)

type Range struct {
	Unit RangeType `json:"unit"`
	From uint64    `json:"from"`
	To   uint64    `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects events. Nil fields match everything.
type Filter struct {
	Contract *cw.Addr  `json:"contract,omitempty"`
	Action   *string   `json:"action,omitempty"`
	Range    *Range    `json:"range,omitempty"`
	Order    OrderType `json:"order,omitempty"`
	Options  *Options  `json:"options,omitempty"`
}

// Event is an indexed contract event.
type Event struct {
	Revision   uint64         `json:"revision"`
	Index      uint32         `json:"index"`
	Height     uint64         `json:"height"`
	Time       uint64         `json:"time"`
	Contract   cw.Addr        `json:"contract"`
	Sender     cw.Addr        `json:"sender"`
	Depth      int            `json:"depth"`
	Action     string         `json:"action"`
	Attributes []cw.Attribute `json:"attributes"`
}

// NewEvents flattens a commit into rows.
func NewEvents(c *runtime.Commit) []*Event {
	out := make([]*Event, 0, len(c.Events))
	for i, ev := range c.Events {
		action, _ := ev.Attribute("action")
		attrs := ev.Attributes
		if attrs == nil {
			attrs = []cw.Attribute{}
		}
		out = append(out, &Event{
			Revision:   c.Revision,
			Index:      uint32(i),
			Height:     c.Block.Height,
			Time:       c.Block.Time,
			Contract:   ev.Contract,
			Sender:     ev.Sender,
			Depth:      ev.Depth,
			Action:     action,
			Attributes: attrs,
		})
	}
	return out
}

type EventDB struct {
	path          string
	db            *sql.DB
	sqliteVersion string
}

// New opens the event db at path.
func New(path string) (*EventDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// a memory db lives as long as its connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create schema")
	}
	s, _, _ := sqlite3.Version()
	return &EventDB{
		path:          path,
		db:            db,
		sqliteVersion: s,
	}, nil
}

func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Insert stores events in one sqlite transaction.
func (db *EventDB) Insert(events []*Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	for _, ev := range events {
		attrs, err := json.Marshal(ev.Attributes)
		if err != nil {
			tx.Rollback()
			return err
		}
		if _, err = tx.Exec("INSERT OR REPLACE INTO event(revision, eventIndex, height, time, contract, sender, depth, action, attributes) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);",
			ev.Revision,
			ev.Index,
			ev.Height,
			ev.Time,
			ev.Contract.String(),
			ev.Sender.String(),
			ev.Depth,
			ev.Action,
			string(attrs)); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Filter returns the events matching filter, oldest first unless ordered DESC.
func (db *EventDB) Filter(filter *Filter) ([]*Event, error) {
	if filter == nil {
		return db.query("SELECT * FROM event ORDER BY revision, eventIndex")
	}
	var args []any
	stmt := "SELECT * FROM event WHERE 1"
	if filter.Range != nil {
		column := "height"
		if filter.Range.Unit == Time {
			column = "time"
		}
		args = append(args, filter.Range.From)
		stmt += " AND " + column + " >= ?"
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND " + column + " <= ?"
		}
	}
	if filter.Contract != nil {
		args = append(args, filter.Contract.String())
		stmt += " AND contract = ?"
	}
	if filter.Action != nil {
		args = append(args, *filter.Action)
		stmt += " AND action = ?"
	}
	if filter.Order == DESC {
		stmt += " ORDER BY revision DESC, eventIndex DESC"
	} else {
		stmt += " ORDER BY revision ASC, eventIndex ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(stmt, args...)
}

func (db *EventDB) query(stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.Query(stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		var (
			ev       Event
			contract string
			sender   string
			attrs    string
		)
		if err := rows.Scan(
			&ev.Revision,
			&ev.Index,
			&ev.Height,
			&ev.Time,
			&contract,
			&sender,
			&ev.Depth,
			&ev.Action,
			&attrs,
		); err != nil {
			return nil, err
		}
		ev.Contract, ev.Sender = cw.Addr(contract), cw.Addr(sender)
		if err := json.Unmarshal([]byte(attrs), &ev.Attributes); err != nil {
			return nil, errors.Wrap(err, "decode attributes")
		}
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *EventDB) Path() string {
	return db.path
}

func (db *EventDB) Close() error {
	return db.db.Close()
}
