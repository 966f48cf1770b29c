// Package memory holds in-memory repository implementations used by tests,
// mirroring the domain interfaces including the transactional coupon
// redemption behavior of the postgres layer.
package memory

import (
	"context"
	"sync"
)

// CapturePublisher records published events instead of sending them
// anywhere. FailPublish makes every publish fail.
type CapturePublisher struct {
	mu          sync.Mutex
	FailPublish error
	Published   []PublishedEvent
}

type PublishedEvent struct {
	Key   string
	Event any
}

func (p *CapturePublisher) Publish(_ context.Context, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailPublish != nil {
		return p.FailPublish
	}
	p.Published = append(p.Published, PublishedEvent{Key: key, Event: event})
	return nil
}
