package input

import (
	"context"

	"dhs-checker/internal/domain/entity"
)

// IDChecker is the inbound surface consumed by the HTTP and CLI front ends.
type IDChecker interface {
	// CheckIDs runs one batch: one session, strictly sequential lookups,
	// one Result per input ID in input order.
	CheckIDs(ctx context.Context, ids []string, creds entity.Credentials) ([]entity.Result, error)

	// CheckID is the single-identifier convenience over CheckIDs.
	CheckID(ctx context.Context, idNumber string, creds entity.Credentials) (entity.Result, error)
}
