package service

import (
	"log/slog"
	"time"
)

// Sweeper is implemented by revocation stores that can forget entries whose
// token would already be rejected as expired.
type Sweeper interface {
	Sweep(now time.Time) int
	Len() int
}

// RevocationSweeper periodically drops revocation entries past their token's
// own expiry. It is opt-in: without it the deny-list only shrinks on an
// explicit clear.
type RevocationSweeper struct {
	Store    Sweeper
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewRevocationSweeper creates a sweeper running every interval. If interval
// is 0 or negative, defaults to 1 hour.
func NewRevocationSweeper(store Sweeper, logger *slog.Logger, interval time.Duration) *RevocationSweeper {
	if interval <= 0 {
		interval = time.Hour
	}

	return &RevocationSweeper{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		Now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the background worker. Call Stop to shut it down.
func (s *RevocationSweeper) Start() {
	go s.run()
	s.Logger.Info("revocation sweeper started", "interval", s.Interval)
}

// Stop blocks until an in-progress sweep has finished.
func (s *RevocationSweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("revocation sweeper stopped")
}

func (s *RevocationSweeper) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SweepOnce()
		case <-s.stopCh:
			return
		}
	}
}

// SweepOnce runs a single pass and returns how many entries were removed.
func (s *RevocationSweeper) SweepOnce() int {
	removed := s.Store.Sweep(s.Now())
	s.Logger.Debug("revocation sweep completed", "removed", removed, "remaining", s.Store.Len())
	return removed
}
