package services

import (
	"time"

	applog "yuvax/internal/log"
)

const sweepBatchSize = 200

// Sweeper periodically releases reservations whose hold TTL elapsed without
// a confirm, crediting stock back to their campaigns. Failures are logged,
// never propagated: the transition guard makes a retry on the next tick safe.
type Sweeper struct {
	Res      *ReservationService
	Interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewSweeper(res *ReservationService, interval time.Duration) *Sweeper {
	return &Sweeper{
		Res:      res,
		Interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the sweep loop in its own goroutine until Stop is called.
func (s *Sweeper) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweepOnce()
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Sweeper) sweepOnce() {
	n, err := s.Res.ReleaseExpired(sweepBatchSize)
	if err != nil {
		applog.Sweep("sweep.release.fail", err, map[string]any{"released": n})
		return
	}
	if n > 0 {
		applog.Sweep("sweep.release", nil, map[string]any{"released": n})
	}
}
