// Reelsense - On-Device Content Intelligence for Video Libraries
// Copyright 2026 Reelsense Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelsense/reelsense

// Package store provides the on-device Badger persistence for interaction
// history, favorites and the candidate catalog. The store is the pipeline's
// HistoryProvider and CatalogProvider; the pipeline itself never touches
// the database.
//
// Key layout:
//
//	int:<zero-padded watched_at_ms>:<video_id>  -> InteractionRecord JSON
//	fav:<video_id>                              -> FavoriteRecord JSON
//	item:<video_id>                             -> CandidateItem JSON
//
// Interaction keys embed the watch timestamp so a prefix scan yields
// records in chronological order.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/reelsense/reelsense/internal/intel"
	"github.com/reelsense/reelsense/internal/metrics"
)

// Key prefixes for Badger storage.
const (
	interactionKeyPrefix = "int:"
	favoriteKeyPrefix    = "fav:"
	catalogKeyPrefix     = "item:"
)

// Options configure the store.
type Options struct {
	// Path is the Badger directory. Ignored when InMemory is set.
	Path string

	// InMemory runs Badger without touching disk.
	InMemory bool

	// GCInterval is how often value-log garbage collection runs from
	// RunGC. Zero disables the loop.
	GCInterval time.Duration

	// Logger receives store events.
	Logger zerolog.Logger
}

// Store is the Badger-backed persistence layer.
type Store struct {
	db         *badger.DB
	gcInterval time.Duration
	logger     zerolog.Logger
}

// Open opens or creates the database.
func Open(opts Options) (*Store, error) {
	logger := opts.Logger.With().Str("component", "store").Logger()

	badgerOpts := badger.DefaultOptions(opts.Path).
		WithInMemory(opts.InMemory).
		WithLogger(badgerLogger{logger})
	if opts.InMemory {
		badgerOpts = badgerOpts.WithDir("").WithValueDir("")
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", opts.Path, err)
	}

	logger.Info().Str("path", opts.Path).Bool("in_memory", opts.InMemory).Msg("store opened")
	return &Store{
		db:         db,
		gcInterval: opts.GCInterval,
		logger:     logger,
	}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunGC runs value-log garbage collection until the context is canceled.
// Intended to run under the supervision tree.
func (s *Store) RunGC(ctx context.Context) error {
	if s.gcInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// ErrNoRewrite just means there was nothing to collect.
			if err := s.db.RunValueLogGC(0.5); err != nil && err != badger.ErrNoRewrite {
				s.logger.Warn().Err(err).Msg("value log gc failed")
				continue
			}
			metrics.StoreGCRuns.Inc()
		}
	}
}

// AddInteractions appends watch-history records.
//
//nolint:gocritic // rangeValCopy: records iterated by value for clarity
func (s *Store) AddInteractions(_ context.Context, records []intel.InteractionRecord) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		for _, rec := range records {
			data, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("marshal interaction %s: %w", rec.VideoID, err)
			}
			key := interactionKey(rec.WatchedAtMS, rec.VideoID)
			if err := txn.Set(key, data); err != nil {
				return fmt.Errorf("set interaction %s: %w", rec.VideoID, err)
			}
		}
		return nil
	})
	metrics.RecordStoreOperation("put", err)
	return err
}

// GetInteractions returns all watch-history records in chronological order.
func (s *Store) GetInteractions(_ context.Context) ([]intel.InteractionRecord, error) {
	records := []intel.InteractionRecord{}
	err := s.scanPrefix(interactionKeyPrefix, func(val []byte) error {
		var rec intel.InteractionRecord
		if err := json.Unmarshal(val, &rec); err != nil {
			return fmt.Errorf("unmarshal interaction: %w", err)
		}
		records = append(records, rec)
		return nil
	})
	metrics.RecordStoreOperation("list", err)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// AddFavorites upserts favorites records, keyed by video ID.
//
//nolint:gocritic // rangeValCopy: records iterated by value for clarity
func (s *Store) AddFavorites(_ context.Context, records []intel.FavoriteRecord) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		for _, rec := range records {
			data, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("marshal favorite %s: %w", rec.VideoID, err)
			}
			if err := txn.Set([]byte(favoriteKeyPrefix+rec.VideoID), data); err != nil {
				return fmt.Errorf("set favorite %s: %w", rec.VideoID, err)
			}
		}
		return nil
	})
	metrics.RecordStoreOperation("put", err)
	return err
}

// GetFavorites returns all favorites records.
func (s *Store) GetFavorites(_ context.Context) ([]intel.FavoriteRecord, error) {
	records := []intel.FavoriteRecord{}
	err := s.scanPrefix(favoriteKeyPrefix, func(val []byte) error {
		var rec intel.FavoriteRecord
		if err := json.Unmarshal(val, &rec); err != nil {
			return fmt.Errorf("unmarshal favorite: %w", err)
		}
		records = append(records, rec)
		return nil
	})
	metrics.RecordStoreOperation("list", err)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ReplaceCatalog atomically replaces the stored candidate pool.
//
//nolint:gocritic // rangeValCopy: items iterated by value for clarity
func (s *Store) ReplaceCatalog(_ context.Context, items []intel.CandidateItem) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := deletePrefix(txn, catalogKeyPrefix); err != nil {
			return err
		}
		for _, item := range items {
			data, err := json.Marshal(item)
			if err != nil {
				return fmt.Errorf("marshal catalog item %s: %w", item.VideoID, err)
			}
			if err := txn.Set([]byte(catalogKeyPrefix+item.VideoID), data); err != nil {
				return fmt.Errorf("set catalog item %s: %w", item.VideoID, err)
			}
		}
		return nil
	})
	metrics.RecordStoreOperation("put", err)
	return err
}

// GetCatalog returns the stored candidate pool.
func (s *Store) GetCatalog(_ context.Context) ([]intel.CandidateItem, error) {
	items := []intel.CandidateItem{}
	err := s.scanPrefix(catalogKeyPrefix, func(val []byte) error {
		var item intel.CandidateItem
		if err := json.Unmarshal(val, &item); err != nil {
			return fmt.Errorf("unmarshal catalog item: %w", err)
		}
		items = append(items, item)
		return nil
	})
	metrics.RecordStoreOperation("list", err)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// scanPrefix visits every value under the prefix in key order.
func (s *Store) scanPrefix(prefix string, visit func(val []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if err := it.Item().Value(visit); err != nil {
				return err
			}
		}
		return nil
	})
}

// deletePrefix removes every key under the prefix within the transaction.
func deletePrefix(txn *badger.Txn, prefix string) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	p := []byte(prefix)
	var keys [][]byte
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	for _, key := range keys {
		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}

// interactionKey builds a chronologically sortable key. The timestamp is
// zero-padded so lexicographic order matches numeric order.
func interactionKey(watchedAtMS int64, videoID string) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", interactionKeyPrefix, watchedAtMS, videoID))
}

// badgerLogger adapts zerolog to Badger's logger interface.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{})   { l.logger.Error().Msgf(format, args...) }
func (l badgerLogger) Warningf(format string, args ...interface{}) { l.logger.Warn().Msgf(format, args...) }
func (l badgerLogger) Infof(format string, args ...interface{})    { l.logger.Debug().Msgf(format, args...) }
func (l badgerLogger) Debugf(format string, args ...interface{})   { l.logger.Debug().Msgf(format, args...) }

// Ensure Store implements the provider interfaces.
var (
	_ intel.HistoryProvider = (*Store)(nil)
	_ intel.CatalogProvider = (*Store)(nil)
)
