package output

import (
	"context"

	"dhs-checker/internal/domain/entity"
)

// Detail overlay fields the session knows how to extract. All selector
// knowledge stays behind the adapter; callers name fields semantically.
const (
	FieldTradingName = "trading_name"
)

// SessionFactory opens authenticated portal sessions. Open performs the full
// login flow and returns only once the session has reached the baseline list
// view, ready for the first filter. A failed login surfaces as
// entity.ErrAuthentication (wrapped).
type SessionFactory interface {
	Open(ctx context.Context, creds entity.Credentials) (PortalSession, error)
}

// PortalSession is one live authenticated browser session. It is stateful
// shared UI: callers must drive it strictly sequentially, and once OpenDetail
// has succeeded they must call CloseDetail before the next SubmitFilter so the
// list view returns to its baseline state.
type PortalSession interface {
	// SubmitFilter enters the ID into the grid filter and triggers the
	// server-side postback. It clears any previous filter value first.
	SubmitFilter(ctx context.Context, idNumber string) error

	// WaitForRow waits, bounded, for a result row matching the ID. A row
	// never appearing is (false, nil): the normal "no record" outcome.
	WaitForRow(ctx context.Context, idNumber string) (bool, error)

	// RowStatus extracts the status column text of the matched row. Only
	// valid after WaitForRow returned true.
	RowStatus(ctx context.Context) (string, error)

	// OpenDetail triggers the matched row's detail overlay and waits for
	// its nested frame to become ready.
	OpenDetail(ctx context.Context) error

	// DetailField extracts a named field from the open detail overlay.
	DetailField(ctx context.Context, field string) (string, error)

	// CloseDetail dismisses the overlay and restores the list view.
	CloseDetail(ctx context.Context) error

	// Close releases the browser. Must be called exactly once per session,
	// on success and error paths alike.
	Close()
}
