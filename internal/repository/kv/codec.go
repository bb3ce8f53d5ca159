// Package kv implements the repositories on top of a storage.KeyValueStore.
// Every collection lives under one key as a JSON document.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"alcyxob/fitness-calendar/internal/repository"
	"alcyxob/fitness-calendar/internal/storage"

	log "github.com/sirupsen/logrus"
)

// readJSON decodes the value under key. A missing key yields the zero value.
// An unparsable value is logged, reported to onCorrupt and also yields the
// zero value; only backend failures are returned.
func readJSON[T any](ctx context.Context, store storage.KeyValueStore, key string, onCorrupt repository.CorruptionHook) (T, error) {
	var out T
	raw, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return out, nil
		}
		return out, fmt.Errorf("read %s: %w", key, err)
	}
	if len(raw) == 0 {
		return out, nil
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		log.Warnf("stored value under %s is not valid JSON, treating it as empty: %s", key, err)
		if onCorrupt != nil {
			onCorrupt(key)
		}
		var zero T
		return zero, nil
	}
	return out, nil
}

func writeJSON(ctx context.Context, store storage.KeyValueStore, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

type idSet map[string]struct{}

func newIDSet(ids []string) idSet {
	set := make(idSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s idSet) has(id string) bool {
	_, ok := s[id]
	return ok
}

// flip adds or removes id and returns whether it is now a member.
func (s idSet) flip(id string) bool {
	if s.has(id) {
		delete(s, id)
		return false
	}
	s[id] = struct{}{}
	return true
}

// slice returns the members sorted, so the stored array is stable.
func (s idSet) slice() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
