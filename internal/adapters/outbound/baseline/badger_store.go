package baseline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/abdidvp/kodeguard/internal/domain"
)

// Key scheme.
const (
	keyBaseline   = "baseline"
	prefixHistory = "history:"
	keyHistorySeq = "seq:history"
)

// BadgerStore implements domain.BaselineStore on an embedded BadgerDB. History
// entries are keyed by a monotonic sequence so iteration yields them in append order.
type BadgerStore struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewBadgerStore opens (or creates) the database at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // suppress badger logs
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w: %w", domain.ErrBaselineStore, err)
	}
	seq, err := db.GetSequence([]byte(keyHistorySeq), 16)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("history sequence: %w: %w", domain.ErrBaselineStore, err)
	}
	return &BadgerStore{db: db, seq: seq}, nil
}

func historyKey(n uint64) []byte { return []byte(fmt.Sprintf("%s%020d", prefixHistory, n)) }

func (s *BadgerStore) LoadBaseline(ctx context.Context) (*domain.Baseline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var b *domain.Baseline
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyBaseline))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			b = &domain.Baseline{}
			return json.Unmarshal(val, b)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load baseline: %w: %w", domain.ErrBaselineStore, err)
	}
	return b, nil
}

func (s *BadgerStore) SaveBaseline(ctx context.Context, b domain.Baseline) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal baseline: %w", err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyBaseline), data)
	}); err != nil {
		return fmt.Errorf("save baseline: %w: %w", domain.ErrBaselineStore, err)
	}
	return nil
}

func (s *BadgerStore) AppendHistory(ctx context.Context, entry domain.HistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}
	n, err := s.seq.Next()
	if err != nil {
		return fmt.Errorf("history sequence: %w: %w", domain.ErrBaselineStore, err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(historyKey(n), data)
	}); err != nil {
		return fmt.Errorf("append history: %w: %w", domain.ErrBaselineStore, err)
	}
	return nil
}

func (s *BadgerStore) LoadHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var entries []domain.HistoryEntry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixHistory)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(opts.Prefix); it.Valid(); it.Next() {
			var e domain.HistoryEntry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load history: %w: %w", domain.ErrBaselineStore, err)
	}
	return entries, nil
}

// Close releases the unused part of the sequence lease and closes the database.
func (s *BadgerStore) Close() error {
	if err := s.seq.Release(); err != nil {
		s.db.Close()
		return fmt.Errorf("release history sequence: %w", err)
	}
	return s.db.Close()
}
