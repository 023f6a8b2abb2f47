package metrics

import (
	"time"

	"dhs-checker/internal/application/port/output"
)

var _ output.MetricsPort = Nop{}

// Nop discards all observations. Used by the CLI and in tests.
type Nop struct{}

func (Nop) SessionOpened()                                 {}
func (Nop) SessionClosed()                                 {}
func (Nop) LookupObserved(outcome string, d time.Duration) {}
func (Nop) BatchObserved(size int, duration time.Duration) {}
