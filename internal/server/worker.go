package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/tartampluch/go-babyage/internal/config"
)

// Trigger requests an immediate calendar refresh from RunRefresher. It never blocks and
// coalesces bursts, so it is safe as a preferences change listener.
func (s *Server) Trigger() {
	select {
	case s.triggerChan() <- struct{}{}:
	default:
	}
}

func (s *Server) triggerChan() chan struct{} {
	s.triggerOnce.Do(func() {
		s.trigger = make(chan struct{}, config.ChannelBufferSize)
	})
	return s.trigger
}

// RunRefresher renders the calendar now, then on every tick of interval or Trigger
// call, until ctx is cancelled.
func (s *Server) RunRefresher(ctx context.Context, interval time.Duration) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	if interval <= 0 {
		interval = config.RefreshInterval
	}

	refresh := func() {
		start := time.Now()
		if err := s.Refresh(ctx); err != nil {
			log.Error(config.ErrRefreshFailed, config.LogKeyError, err)
			return
		}
		log.Debug(config.MsgCacheUpdated, config.LogKeyDuration, time.Since(start).Milliseconds())
	}

	refresh()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, interval)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return
		case <-s.triggerChan():
			refresh()
		case <-ticker.C:
			refresh()
		}
	}
}
