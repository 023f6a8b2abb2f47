package checker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dhs-checker/internal/application/port/input"
	"dhs-checker/internal/application/port/output"
	"dhs-checker/internal/domain/entity"
)

var _ input.IDChecker = (*Checker)(nil)

// Checker is the batch coordinator: it owns one portal session per batch and
// runs lookups strictly sequentially against it. The remote grid is shared
// mutable UI state, so no two lookups on one session may overlap.
type Checker struct {
	sessions output.SessionFactory
	logger   output.LoggerPort
	metrics  output.MetricsPort
}

func New(sessions output.SessionFactory, logger output.LoggerPort, metrics output.MetricsPort) *Checker {
	return &Checker{
		sessions: sessions,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckIDs checks every ID in order over a single authenticated session.
// The returned slice always has one Result per input ID, in input order; a
// lookup that found nothing or failed to extract yields a Result with nil
// fields rather than dropping the ID or failing the batch.
//
// An unexpected automation error on one ID is absorbed: the ID degrades to an
// empty Result and the batch continues. Context cancellation is the only
// mid-batch abort: the session is torn down and ErrBatchAborted is returned
// together with the results collected so far.
func (c *Checker) CheckIDs(ctx context.Context, ids []string, creds entity.Credentials) ([]entity.Result, error) {
	if !creds.Present() {
		return nil, entity.ErrMissingCredentials
	}

	results := make([]entity.Result, 0, len(ids))
	if len(ids) == 0 {
		return results, nil
	}

	log := c.logger.WithField("run_id", uuid.NewString())
	start := time.Now()

	session, err := c.sessions.Open(ctx, creds)
	if err != nil {
		log.Error("portal session open failed", "error", err)
		return nil, err
	}
	defer session.Close()

	log.Info("batch started", "ids", len(ids))

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			log.Warn("batch aborted", "collected", len(results), "error", err)
			return results, fmt.Errorf("%w: %v", entity.ErrBatchAborted, err)
		}
		results = append(results, c.lookup(ctx, session, log, id))
	}

	c.metrics.BatchObserved(len(ids), time.Since(start))
	log.Info("batch completed", "ids", len(ids), "duration_ms", time.Since(start).Milliseconds())
	return results, nil
}

// CheckID wraps CheckIDs for a single identifier.
func (c *Checker) CheckID(ctx context.Context, idNumber string, creds entity.Credentials) (entity.Result, error) {
	results, err := c.CheckIDs(ctx, []string{idNumber}, creds)
	if err != nil {
		return entity.Result{IDNumber: idNumber}, err
	}
	return results[0], nil
}

// lookup runs the per-identifier state machine:
//
//	Idle -> Filtered -> RowFound|RowNotFound
//	RowFound -> DetailOpened -> DetailExtracted -> DetailClosed -> Idle
//
// Every wait is bounded by the session adapter and every failure past the
// filter step degrades to absent fields. The terminal state is always Idle so
// the next ID starts from a known baseline.
func (c *Checker) lookup(ctx context.Context, session output.PortalSession, log output.LoggerPort, id string) entity.Result {
	start := time.Now()
	result := entity.Result{IDNumber: id}

	outcome := c.runLookup(ctx, session, log, id, &result)
	c.metrics.LookupObserved(outcome, time.Since(start))
	log.Debug("lookup finished", "id_number", id, "outcome", outcome)
	return result
}

func (c *Checker) runLookup(ctx context.Context, session output.PortalSession, log output.LoggerPort, id string, result *entity.Result) string {
	if err := session.SubmitFilter(ctx, id); err != nil {
		log.Warn("filter submit failed", "id_number", id, "error", err)
		return output.OutcomeError
	}

	found, err := session.WaitForRow(ctx, id)
	if err != nil {
		log.Warn("row wait failed", "id_number", id, "error", err)
		return output.OutcomeError
	}
	if !found {
		return output.OutcomeNotFound
	}

	status, err := session.RowStatus(ctx)
	if err != nil {
		log.Warn("status extraction failed", "id_number", id, "error", err)
	} else {
		result.Status = Normalize(status)
	}

	result.DebtCounsellor = c.extractCounsellor(ctx, session, log, id)

	if result.Resolved() {
		return output.OutcomeResolved
	}
	return output.OutcomePartial
}

// extractCounsellor opens the detail overlay and scrapes the trading name.
// Once the overlay opened, dismissal is unconditional (deferred) so a failed
// extraction cannot leave the shared list view covered for the next ID.
func (c *Checker) extractCounsellor(ctx context.Context, session output.PortalSession, log output.LoggerPort, id string) *string {
	if err := session.OpenDetail(ctx); err != nil {
		log.Warn("detail overlay did not open", "id_number", id, "error", err)
		return nil
	}
	defer func() {
		if err := session.CloseDetail(ctx); err != nil {
			log.Warn("detail overlay dismissal failed", "id_number", id, "error", err)
		}
	}()

	name, err := session.DetailField(ctx, output.FieldTradingName)
	if err != nil {
		log.Warn("trading name extraction failed", "id_number", id, "error", err)
		return nil
	}
	return Normalize(name)
}
