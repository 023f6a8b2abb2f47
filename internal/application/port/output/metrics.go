package output

import "time"

// Lookup outcomes as recorded by the batch coordinator.
const (
	OutcomeResolved = "resolved"
	OutcomePartial  = "partial"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

type MetricsPort interface {
	SessionOpened()
	SessionClosed()
	LookupObserved(outcome string, duration time.Duration)
	BatchObserved(size int, duration time.Duration)
}
