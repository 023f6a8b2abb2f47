package entity

import "errors"

var (
	// ErrMissingCredentials means the portal username/password were not
	// configured. Raised before any browser resource is allocated.
	ErrMissingCredentials = errors.New("portal credentials are not configured")

	// ErrAuthentication means the login flow did not reach the post-login
	// list view within the configured timeout. Fatal for the whole batch.
	ErrAuthentication = errors.New("portal authentication failed")

	// ErrBatchAborted means the batch stopped before all IDs were processed,
	// currently only on context cancellation. The results collected so far
	// are still returned alongside it.
	ErrBatchAborted = errors.New("batch aborted")
)
