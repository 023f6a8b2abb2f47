package rod

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"dhs-checker/internal/application/port/output"
	"dhs-checker/internal/domain/entity"
)

var _ output.SessionFactory = (*Factory)(nil)
var _ output.PortalSession = (*Session)(nil)

type Config struct {
	BaseURL    string
	Headless   bool
	SlowMotion time.Duration
	NoSandbox  bool

	LoginTimeout  time.Duration
	RowTimeout    time.Duration
	DetailTimeout time.Duration

	// ScreenshotDir enables failure screenshots when non-empty.
	ScreenshotDir string
}

func DefaultConfig() Config {
	return Config{
		BaseURL:       "https://www.ncrdebthelp.co.za",
		Headless:      true,
		SlowMotion:    0,
		NoSandbox:     true,
		LoginTimeout:  15 * time.Second,
		RowTimeout:    6 * time.Second,
		DetailTimeout: 10 * time.Second,
	}
}

// Factory launches one isolated Chromium per session. Sessions are never
// shared: each batch gets its own browser process and page.
type Factory struct {
	cfg    Config
	logger output.LoggerPort
}

func NewFactory(cfg Config, logger output.LoggerPort) *Factory {
	if cfg.LoginTimeout <= 0 {
		cfg.LoginTimeout = 15 * time.Second
	}
	if cfg.RowTimeout <= 0 {
		cfg.RowTimeout = 6 * time.Second
	}
	if cfg.DetailTimeout <= 0 {
		cfg.DetailTimeout = 10 * time.Second
	}
	return &Factory{cfg: cfg, logger: logger}
}

// Open launches the browser, logs in and navigates to the transfers list so
// the session is ready for its first filter. Any failure along the way tears
// the browser down and surfaces as entity.ErrAuthentication.
func (f *Factory) Open(ctx context.Context, creds entity.Credentials) (output.PortalSession, error) {
	l := launcher.New().
		Headless(f.cfg.Headless).
		NoSandbox(f.cfg.NoSandbox).
		Set("disable-dev-shm-usage")

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(url).
		SlowMotion(f.cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	s := &Session{
		cfg:      f.cfg,
		logger:   f.logger,
		browser:  browser,
		launcher: l,
	}

	if err := s.login(ctx, creds); err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: %v", entity.ErrAuthentication, err)
	}

	return s, nil
}

// Session drives one authenticated page. It is not safe for concurrent use:
// the grid filter, the matched row and the detail overlay are shared page
// state that the caller steps through strictly in sequence.
type Session struct {
	cfg    Config
	logger output.LoggerPort

	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page

	row    *rod.Element
	frame  *rod.Page
	lastID string
	closed bool
}

func (s *Session) login(ctx context.Context, creds entity.Credentials) error {
	page, err := s.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return fmt.Errorf("failed to open page: %w", err)
	}
	s.page = page

	if err := page.Context(ctx).Navigate(s.cfg.BaseURL + loginPath); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.Context(ctx).Timeout(s.cfg.LoginTimeout).WaitLoad(); err != nil {
		return fmt.Errorf("login page did not load: %w", err)
	}

	if err := s.fill(ctx, s.cfg.LoginTimeout, selLoginUsername, creds.Username); err != nil {
		return err
	}
	if err := s.fill(ctx, s.cfg.LoginTimeout, selLoginPassword, creds.Password); err != nil {
		return err
	}
	if err := s.click(ctx, s.cfg.LoginTimeout, selLoginSubmit); err != nil {
		return err
	}

	// The portal never reaches "network idle"; presence of the transfers
	// link is what tells us the login postback landed.
	if _, err := page.Context(ctx).Timeout(s.cfg.LoginTimeout).Element(selPostLoginNav); err != nil {
		s.captureFailure("login")
		return fmt.Errorf("post-login element %s not found: %w", selPostLoginNav, err)
	}

	if err := s.click(ctx, s.cfg.LoginTimeout, selPostLoginNav); err != nil {
		return err
	}
	if _, err := page.Context(ctx).Timeout(s.cfg.LoginTimeout).Element(selNewDataTab); err != nil {
		s.captureFailure("post-login-nav")
		return fmt.Errorf("transfers list not reached: %w", err)
	}
	if err := s.click(ctx, s.cfg.LoginTimeout, selNewDataTab); err != nil {
		return err
	}

	s.logger.Info("portal session authenticated")
	return nil
}

func (s *Session) SubmitFilter(ctx context.Context, idNumber string) error {
	s.row = nil
	s.lastID = idNumber

	if err := s.fill(ctx, s.cfg.RowTimeout, selFilterInput, idNumber); err != nil {
		return err
	}
	return s.click(ctx, s.cfg.RowTimeout, selFilterApply)
}

func (s *Session) WaitForRow(ctx context.Context, idNumber string) (bool, error) {
	cell, err := s.page.Context(ctx).Timeout(s.cfg.RowTimeout).
		ElementR("td", "^"+regexp.QuoteMeta(idNumber)+"$")
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return false, nil
		}
		return false, fmt.Errorf("row wait failed: %w", err)
	}

	row, err := cell.Parent()
	if err != nil {
		return false, fmt.Errorf("row lookup failed: %w", err)
	}
	s.row = row
	return true, nil
}

func (s *Session) RowStatus(ctx context.Context) (string, error) {
	if s.row == nil {
		return "", fmt.Errorf("no matched row for %q", s.lastID)
	}

	el, err := s.row.Timeout(s.cfg.RowTimeout).Element(selRowStatusCell)
	if err == nil {
		return el.Text()
	}

	// The span nesting inside the status cell has moved between portal
	// releases; fall back to parsing the raw row markup.
	html, herr := s.row.HTML()
	if herr != nil {
		return "", fmt.Errorf("status cell not found: %w", err)
	}
	text, perr := CellText(html, statusCellIndex)
	if perr != nil {
		return "", fmt.Errorf("status cell not found: %w", err)
	}
	return text, nil
}

func (s *Session) OpenDetail(ctx context.Context) error {
	if s.row == nil {
		return fmt.Errorf("no matched row for %q", s.lastID)
	}

	trigger, err := s.row.Timeout(s.cfg.DetailTimeout).Element(selRowDetailTrigger)
	if err != nil {
		return fmt.Errorf("detail trigger not found: %w", err)
	}
	if err := trigger.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("detail trigger click failed: %w", err)
	}

	frameEl, err := s.page.Context(ctx).Timeout(s.cfg.DetailTimeout).Element(selDetailFrame)
	if err != nil {
		s.captureFailure(s.lastID + "-overlay")
		return fmt.Errorf("detail frame never attached: %w", err)
	}
	frame, err := frameEl.Frame()
	if err != nil {
		return fmt.Errorf("detail frame not reachable: %w", err)
	}
	s.frame = frame
	return nil
}

func (s *Session) DetailField(ctx context.Context, field string) (string, error) {
	if s.frame == nil {
		return "", fmt.Errorf("detail overlay is not open")
	}
	selector, ok := detailFieldSelectors[field]
	if !ok {
		return "", fmt.Errorf("unknown detail field %q", field)
	}

	el, err := s.frame.Context(ctx).Timeout(s.cfg.DetailTimeout).Element(selector)
	if err != nil {
		s.captureFailure(s.lastID + "-" + field)
		return "", fmt.Errorf("detail field %s not found: %w", field, err)
	}
	return el.Text()
}

func (s *Session) CloseDetail(ctx context.Context) error {
	s.frame = nil
	if err := s.click(ctx, s.cfg.DetailTimeout, selDetailHide); err != nil {
		return fmt.Errorf("overlay dismissal failed: %w", err)
	}
	return nil
}

// Close releases the page, the browser connection and the Chromium process.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true

	if s.browser != nil {
		_ = s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher.Cleanup()
	}
}

// fill clears the target field before typing, so re-filtering with a new ID
// never appends to the previous one.
func (s *Session) fill(ctx context.Context, timeout time.Duration, selector, text string) error {
	el, err := s.page.Context(ctx).Timeout(timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("field not found: %s: %w", selector, err)
	}

	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("input failed: %s: %w", selector, err)
	}
	return nil
}

func (s *Session) click(ctx context.Context, timeout time.Duration, selector string) error {
	el, err := s.page.Context(ctx).Timeout(timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("element not found: %s: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %s: %w", selector, err)
	}
	// Bounded settle for the postback; the grid re-renders via AJAX.
	s.page.WaitIdle(2 * time.Second)
	return nil
}
