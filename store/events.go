package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	badger "github.com/dgraph-io/badger/v2"
	"github.com/pkg/errors"
	"gitlab.com/navguard/navguard"
)

var evtPrefix = []byte("evt:")

// EventJournal is the persistent half of the event log. Keys are ordered
// by timestamp so Walk replays a session in emission order; a counter
// breaks ties between events in the same nanosecond.
type EventJournal struct {
	db       *badger.DB
	filepath string
	seq      uint64
}

// NewEventJournal rooted at filepath
func NewEventJournal(filepath string) *EventJournal {
	return &EventJournal{filepath: filepath}
}

// Init opens the journal, creating the directory if needed
func (j *EventJournal) Init() error {
	if err := os.MkdirAll(j.filepath, 0677); err != nil {
		return err
	}
	var err error
	j.db, err = badger.Open(badger.DefaultOptions(j.filepath))
	return err
}

// Append one event
func (j *EventJournal) Append(evt navguard.Event) error {
	if evt.TS.IsZero() {
		evt.TS = time.Now()
	}
	val, err := json.Marshal(evt)
	if err != nil {
		return errors.Wrap(err, "encode event")
	}

	seq := atomic.AddUint64(&j.seq, 1)
	key := []byte(fmt.Sprintf("evt:%019d:%010d:%s", evt.TS.UnixNano(), seq, evt.FlowID))
	return j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
}

// Walk every journaled event in order
func (j *EventJournal) Walk(fn func(evt navguard.Event) error) error {
	return j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = evtPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(evtPrefix); it.ValidForPrefix(evtPrefix); it.Next() {
			val, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			evt := navguard.Event{}
			if err := json.Unmarshal(val, &evt); err != nil {
				return errors.Wrap(err, "decode event")
			}
			if err := fn(evt); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close the underlying db
func (j *EventJournal) Close() error {
	return j.db.Close()
}
