package services

import (
	"sync"
	"time"

	"yuvax/internal/domain"
)

// campaignLocks hands out one lock per campaign id so reservation attempts
// against the same campaign serialize while different campaigns never block
// each other. Entries live for the campaign's lifetime; the set stays as
// small as the number of campaigns.
type campaignLocks struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func newCampaignLocks() *campaignLocks {
	return &campaignLocks{locks: make(map[string]chan struct{})}
}

func (l *campaignLocks) get(id string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[id] = ch
	}
	return ch
}

// Acquire takes the campaign's lock, waiting at most wait. Returns ErrBusy
// on timeout so callers fail fast instead of queueing behind a hot campaign.
func (l *campaignLocks) Acquire(id string, wait time.Duration) error {
	ch := l.get(id)
	select {
	case ch <- struct{}{}:
		return nil
	default:
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case ch <- struct{}{}:
		return nil
	case <-timer.C:
		return domain.ErrBusy
	}
}

func (l *campaignLocks) Release(id string) {
	<-l.get(id)
}
