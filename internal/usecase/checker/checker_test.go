package checker

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"dhs-checker/internal/application/port/output"
	"dhs-checker/internal/domain/entity"
	"dhs-checker/internal/infrastructure/metrics"
)

var testCreds = entity.Credentials{Username: "NCRDC0000", Password: "secret"}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func (l nopLogger) WithField(string, any) output.LoggerPort     { return l }
func (l nopLogger) WithFields(map[string]any) output.LoggerPort { return l }
func (nopLogger) Close() error                                  { return nil }

// idScript describes how the fake portal behaves for one ID number.
type idScript struct {
	filterErr error
	found     bool
	rowErr    error
	status    string
	statusErr error
	openErr   error
	detail    string
	detailErr error
}

type fakeSession struct {
	scripts  map[string]idScript
	onSubmit func(id string)

	current      string
	closeCalls   int
	detailOpens  int
	detailCloses int
}

func (s *fakeSession) script() idScript { return s.scripts[s.current] }

func (s *fakeSession) SubmitFilter(_ context.Context, id string) error {
	s.current = id
	if s.onSubmit != nil {
		s.onSubmit(id)
	}
	return s.script().filterErr
}

func (s *fakeSession) WaitForRow(_ context.Context, id string) (bool, error) {
	sc := s.script()
	return sc.found, sc.rowErr
}

func (s *fakeSession) RowStatus(_ context.Context) (string, error) {
	sc := s.script()
	return sc.status, sc.statusErr
}

func (s *fakeSession) OpenDetail(_ context.Context) error {
	if err := s.script().openErr; err != nil {
		return err
	}
	s.detailOpens++
	return nil
}

func (s *fakeSession) DetailField(_ context.Context, field string) (string, error) {
	if field != output.FieldTradingName {
		return "", fmt.Errorf("unexpected field %q", field)
	}
	sc := s.script()
	return sc.detail, sc.detailErr
}

func (s *fakeSession) CloseDetail(_ context.Context) error {
	s.detailCloses++
	return nil
}

func (s *fakeSession) Close() { s.closeCalls++ }

type fakeFactory struct {
	session   *fakeSession
	openErr   error
	openCalls int
}

func (f *fakeFactory) Open(_ context.Context, _ entity.Credentials) (output.PortalSession, error) {
	f.openCalls++
	if f.openErr != nil {
		return nil, f.openErr
	}
	return f.session, nil
}

func newChecker(f *fakeFactory) *Checker {
	return New(f, nopLogger{}, metrics.Nop{})
}

func TestCheckIDs_PreservesOrderAndLength(t *testing.T) {
	session := &fakeSession{scripts: map[string]idScript{
		"7001015009088": {found: true, status: "Under Review", detail: "Acme"},
		"9001015800086": {},
		"8001015009087": {found: true, status: "Terminated", openErr: errors.New("no overlay")},
	}}
	factory := &fakeFactory{session: session}

	ids := []string{"7001015009088", "9001015800086", "8001015009087"}
	results, err := newChecker(factory).CheckIDs(context.Background(), ids, testCreds)
	if err != nil {
		t.Fatalf("CheckIDs failed: %v", err)
	}

	if len(results) != len(ids) {
		t.Fatalf("expected %d results, got %d", len(ids), len(results))
	}
	for i, id := range ids {
		if results[i].IDNumber != id {
			t.Errorf("result %d: expected ID %s, got %s", i, id, results[i].IDNumber)
		}
	}
}

func TestCheckIDs_EmptyInputOpensNoSession(t *testing.T) {
	factory := &fakeFactory{session: &fakeSession{}}

	results, err := newChecker(factory).CheckIDs(context.Background(), nil, testCreds)
	if err != nil {
		t.Fatalf("CheckIDs failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
	if factory.openCalls != 0 {
		t.Errorf("expected no session to be opened, got %d opens", factory.openCalls)
	}
}

func TestCheckIDs_MissingCredentials(t *testing.T) {
	factory := &fakeFactory{session: &fakeSession{}}

	_, err := newChecker(factory).CheckIDs(context.Background(), []string{"123"}, entity.Credentials{})
	if !errors.Is(err, entity.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	if factory.openCalls != 0 {
		t.Errorf("expected no session to be opened, got %d opens", factory.openCalls)
	}
}

func TestCheckIDs_RowNotFound(t *testing.T) {
	session := &fakeSession{scripts: map[string]idScript{
		"9001015800086": {found: false},
	}}
	factory := &fakeFactory{session: session}

	results, err := newChecker(factory).CheckIDs(context.Background(), []string{"9001015800086"}, testCreds)
	if err != nil {
		t.Fatalf("CheckIDs failed: %v", err)
	}

	r := results[0]
	if r.IDNumber != "9001015800086" {
		t.Errorf("unexpected ID %s", r.IDNumber)
	}
	if r.Status != nil {
		t.Errorf("expected nil status, got %q", *r.Status)
	}
	if r.DebtCounsellor != nil {
		t.Errorf("expected nil counsellor, got %q", *r.DebtCounsellor)
	}
}

func TestCheckIDs_PartialWhenOverlayNeverRenders(t *testing.T) {
	session := &fakeSession{scripts: map[string]idScript{
		"8001015009087": {found: true, status: "Debt Review", openErr: errors.New("frame never attached")},
	}}
	factory := &fakeFactory{session: session}

	results, err := newChecker(factory).CheckIDs(context.Background(), []string{"8001015009087"}, testCreds)
	if err != nil {
		t.Fatalf("CheckIDs failed: %v", err)
	}

	r := results[0]
	if r.Status == nil || *r.Status != "Debt Review" {
		t.Errorf("expected status 'Debt Review', got %v", r.Status)
	}
	if r.DebtCounsellor != nil {
		t.Errorf("expected nil counsellor, got %q", *r.DebtCounsellor)
	}
	if session.detailCloses != 0 {
		t.Errorf("overlay never opened, but CloseDetail was called %d times", session.detailCloses)
	}
}

func TestCheckIDs_FullSuccessTrimsFields(t *testing.T) {
	session := &fakeSession{scripts: map[string]idScript{
		"7001015009088": {found: true, status: "Under Review", detail: "  Acme Debt Counsellors  "},
	}}
	factory := &fakeFactory{session: session}

	results, err := newChecker(factory).CheckIDs(context.Background(), []string{"7001015009088"}, testCreds)
	if err != nil {
		t.Fatalf("CheckIDs failed: %v", err)
	}

	r := results[0]
	if r.Status == nil || *r.Status != "Under Review" {
		t.Errorf("expected status 'Under Review', got %v", r.Status)
	}
	if r.DebtCounsellor == nil || *r.DebtCounsellor != "Acme Debt Counsellors" {
		t.Errorf("expected trimmed counsellor name, got %v", r.DebtCounsellor)
	}
	if session.detailOpens != 1 || session.detailCloses != 1 {
		t.Errorf("expected one open and one close of the overlay, got %d/%d", session.detailOpens, session.detailCloses)
	}
}

func TestCheckIDs_OverlayDismissedWhenExtractionFails(t *testing.T) {
	session := &fakeSession{scripts: map[string]idScript{
		"7001015009088": {found: true, status: "Under Review", detailErr: errors.New("field gone")},
	}}
	factory := &fakeFactory{session: session}

	results, err := newChecker(factory).CheckIDs(context.Background(), []string{"7001015009088"}, testCreds)
	if err != nil {
		t.Fatalf("CheckIDs failed: %v", err)
	}

	if results[0].DebtCounsellor != nil {
		t.Errorf("expected nil counsellor, got %q", *results[0].DebtCounsellor)
	}
	if session.detailCloses != 1 {
		t.Errorf("expected overlay dismissed once, got %d", session.detailCloses)
	}
}

func TestCheckIDs_UnexpectedErrorDegradesAndContinues(t *testing.T) {
	session := &fakeSession{scripts: map[string]idScript{
		"1111111111111": {rowErr: errors.New("grid exploded")},
		"7001015009088": {found: true, status: "Under Review", detail: "Acme"},
	}}
	factory := &fakeFactory{session: session}

	results, err := newChecker(factory).CheckIDs(context.Background(), []string{"1111111111111", "7001015009088"}, testCreds)
	if err != nil {
		t.Fatalf("expected the batch to continue, got %v", err)
	}

	if results[0].Status != nil || results[0].DebtCounsellor != nil {
		t.Errorf("expected degraded result for failing ID, got %+v", results[0])
	}
	if results[1].Status == nil {
		t.Errorf("expected second lookup to succeed, got %+v", results[1])
	}
}

func TestCheckIDs_SessionClosedExactlyOnce(t *testing.T) {
	session := &fakeSession{scripts: map[string]idScript{
		"1111111111111": {filterErr: errors.New("filter broke")},
		"9001015800086": {},
	}}
	factory := &fakeFactory{session: session}

	_, err := newChecker(factory).CheckIDs(context.Background(), []string{"1111111111111", "9001015800086"}, testCreds)
	if err != nil {
		t.Fatalf("CheckIDs failed: %v", err)
	}
	if session.closeCalls != 1 {
		t.Errorf("expected session closed exactly once, got %d", session.closeCalls)
	}
}

func TestCheckIDs_AuthenticationFailurePropagates(t *testing.T) {
	factory := &fakeFactory{openErr: fmt.Errorf("%w: post-login element not found", entity.ErrAuthentication)}

	_, err := newChecker(factory).CheckIDs(context.Background(), []string{"123"}, testCreds)
	if !errors.Is(err, entity.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
}

func TestCheckIDs_CancellationAbortsAndClosesSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	session := &fakeSession{
		scripts: map[string]idScript{
			"7001015009088": {found: true, status: "Under Review", detail: "Acme"},
			"9001015800086": {},
		},
	}
	// Cancel while the first lookup is in flight; the second must not run.
	session.onSubmit = func(id string) {
		if id == "7001015009088" {
			cancel()
		}
	}
	factory := &fakeFactory{session: session}

	results, err := newChecker(factory).CheckIDs(ctx, []string{"7001015009088", "9001015800086"}, testCreds)
	if !errors.Is(err, entity.ErrBatchAborted) {
		t.Fatalf("expected ErrBatchAborted, got %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 collected result, got %d", len(results))
	}
	if session.closeCalls != 1 {
		t.Errorf("expected session closed exactly once, got %d", session.closeCalls)
	}
}

func TestCheckID_WrapsSingleLookup(t *testing.T) {
	session := &fakeSession{scripts: map[string]idScript{
		"7001015009088": {found: true, status: "Under Review", detail: "Acme"},
	}}
	factory := &fakeFactory{session: session}

	result, err := newChecker(factory).CheckID(context.Background(), "7001015009088", testCreds)
	if err != nil {
		t.Fatalf("CheckID failed: %v", err)
	}
	if result.IDNumber != "7001015009088" {
		t.Errorf("unexpected ID %s", result.IDNumber)
	}
	if result.Status == nil || *result.Status != "Under Review" {
		t.Errorf("expected status 'Under Review', got %v", result.Status)
	}
}
