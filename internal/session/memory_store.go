package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps identifiers in process memory. Entries expire ttl after
// their last Set so idle conversations do not accumulate.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	cleanup := ttl / 4
	if ttl == cache.NoExpiration || cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &MemoryStore{cache: cache.New(ttl, cleanup)}
}

func (s *MemoryStore) Get(_ context.Context, conversationID string) (string, bool, error) {
	if x, found := s.cache.Get(conversationID); found {
		return x.(string), true, nil
	}
	return "", false, nil
}

func (s *MemoryStore) Set(_ context.Context, conversationID, identifier string) error {
	s.cache.Set(conversationID, identifier, cache.DefaultExpiration)
	return nil
}

// Len reports the number of stored conversations, expired ones included
// until the next cleanup.
func (s *MemoryStore) Len() int {
	return s.cache.ItemCount()
}
