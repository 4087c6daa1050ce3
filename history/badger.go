package history

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// BadgerStore persists history records in BadgerDB.
//
// The key is formatted as "hist:{group}:{timestamp_padded}:{seq_padded}:{uuid}" to:
//  1. Ensure append-order read-back using 19-digit zero padding
//     (lexicographical order over the key prefix).
//  2. Break ties between two appends landing on the same nanosecond with a
//     process-local sequence number, and keep a UUID as a collision
//     disconnector across restarts.
type BadgerStore struct {
	db  *badger.DB
	log *slog.Logger
	seq atomic.Uint64
}

func NewBadgerStore(db *badger.DB, log *slog.Logger) *BadgerStore {
	return &BadgerStore{db: db, log: log}
}

func (s *BadgerStore) Append(group, sender, content string) error {
	key := fmt.Sprintf("hist:%s:%019d:%09d:%s",
		strings.ToLower(group),
		time.Now().UnixNano(),
		s.seq.Add(1),
		uuid.NewString(),
	)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(Record(sender, content)))
	})
}

// ReadAll walks the group's key prefix in order. Thanks to the padded
// timestamp in the key, records come back sorted by append time.
func (s *BadgerStore) ReadAll(group string) ([]string, error) {
	var records []string
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("hist:%s:", strings.ToLower(group)))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				records = append(records, string(value))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan group log: %w", err)
	}
	return records, nil
}
