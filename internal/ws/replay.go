package ws

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/nightfall/internal/domain"
)

// replayCache holds private results that could not be delivered because the
// recipient had no terminal attached. Entries expire after the TTL.
type replayCache struct {
	mu  sync.Mutex
	lru *expirable.LRU[string, []domain.PrivateResult]
}

func newReplayCache(size int, ttl time.Duration) *replayCache {
	return &replayCache{
		lru: expirable.NewLRU[string, []domain.PrivateResult](size, nil, ttl),
	}
}

// Add queues a result for participantID, dropping the oldest beyond the cap.
func (c *replayCache) Add(participantID string, r domain.PrivateResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	queued, _ := c.lru.Get(participantID)
	queued = append(queued, r)
	if len(queued) > MaxReplayPerParticipant {
		queued = queued[len(queued)-MaxReplayPerParticipant:]
	}
	c.lru.Add(participantID, queued)
}

// Take removes and returns everything queued for participantID.
func (c *replayCache) Take(participantID string) []domain.PrivateResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	queued, ok := c.lru.Get(participantID)
	if !ok {
		return nil
	}
	c.lru.Remove(participantID)
	return queued
}

// Clear drops every queued result.
func (c *replayCache) Clear() {
	c.lru.Purge()
}
