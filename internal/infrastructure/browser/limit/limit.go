// Package limit caps how many portal sessions (and therefore Chromium
// processes) may be live at once. Concurrent API batches each get their own
// session, but the host only has room for so many browsers.
package limit

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"

	"dhs-checker/internal/application/port/output"
	"dhs-checker/internal/domain/entity"
)

var _ output.SessionFactory = (*Factory)(nil)

type Factory struct {
	inner   output.SessionFactory
	sem     *semaphore.Weighted
	metrics output.MetricsPort
}

func NewFactory(inner output.SessionFactory, maxSessions int64, metrics output.MetricsPort) *Factory {
	if maxSessions < 1 {
		maxSessions = 1
	}
	return &Factory{
		inner:   inner,
		sem:     semaphore.NewWeighted(maxSessions),
		metrics: metrics,
	}
}

func (f *Factory) Open(ctx context.Context, creds entity.Credentials) (output.PortalSession, error) {
	if err := f.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for a free session slot: %w", err)
	}

	session, err := f.inner.Open(ctx, creds)
	if err != nil {
		f.sem.Release(1)
		return nil, err
	}

	f.metrics.SessionOpened()
	return &limitedSession{PortalSession: session, factory: f}, nil
}

// limitedSession releases the slot exactly once on Close, mirroring the
// one-Close-per-Open contract of the underlying session.
type limitedSession struct {
	output.PortalSession
	factory  *Factory
	released bool
}

func (s *limitedSession) Close() {
	s.PortalSession.Close()
	if !s.released {
		s.released = true
		s.factory.metrics.SessionClosed()
		s.factory.sem.Release(1)
	}
}
