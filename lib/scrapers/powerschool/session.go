package powerschool

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"powergrades/lib/browser"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/powerschool")

// ErrNotAuthenticated is returned when an operation that needs a
// logged-in session runs before Login has succeeded.
var ErrNotAuthenticated = fmt.Errorf("not authenticated")

// AuthenticationError means the portal explicitly rejected the
// credentials. Message is the text of the portal's feedback banner,
// verbatim.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("portal rejected login: %s", e.Message)
}

// The portal reports login failure inside a fixed banner div. This is
// a versioned contract with the portal's markup; if the portal changes
// its login page this pattern is the one place to update.
var feedbackAlertRegex = regexp.MustCompile(`<div class="feedback-alert">(.*)</div>`)

// The authenticated landing page links to the student's XML export by
// a fixed filename.
var recordLinkRegex = regexp.MustCompile(`studentdata\.xml`)

// Session is one login lifecycle against the portal: log in once,
// fetch the record, close. It is not safe for concurrent use and is
// not reusable across logins.
type Session struct {
	browser  browser.Browser
	loggedIn bool
	page     browser.Page
	xml      string
	fetched  bool
}

func NewSession(b browser.Browser) *Session {
	return &Session{browser: b}
}

// Login performs the portal's challenge-response handshake: it reads
// the per-session context token from the hidden contextData field of
// the first form on baseUrl, derives the pw/dbpw field values from the
// password, and submits. A portal-reported rejection comes back as
// *AuthenticationError; no retry is attempted.
func (s *Session) Login(ctx context.Context, baseUrl, username, password string) error {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	page, err := s.browser.Open(ctx, baseUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open login page")
		return err
	}
	form, err := page.FirstForm()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to locate login form")
		return err
	}

	pskey, ok := form.Value("contextData")
	if !ok {
		span.SetStatus(codes.Error, "missing contextData")
		return fmt.Errorf("login form has no contextData field")
	}

	b64pw, err := B64MD5(password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to derive login hash")
		return err
	}

	form.Set("account", username)
	form.Set("pw", HexHmacMD5(pskey, b64pw))
	form.Set("dbpw", HexHmacMD5(pskey, strings.ToLower(password)))
	// only some districts expose an ldap field, it takes the unmangled
	// password when present
	if form.Has("ldappassword") {
		form.Set("ldappassword", password)
	}

	res, err := form.Submit(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit login form")
		return err
	}

	if m := feedbackAlertRegex.FindStringSubmatch(res.Body()); m != nil {
		span.SetStatus(codes.Error, "portal rejected credentials")
		return &AuthenticationError{Message: m[1]}
	}

	s.page = res
	s.loggedIn = true
	slog.InfoContext(ctx, "logged into portal", "account", username)
	return nil
}

// FetchRecordXML downloads the student's XML export from the
// authenticated page and returns it verbatim. The download happens at
// most once per session; later calls return the cached text.
func (s *Session) FetchRecordXML(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "FetchRecordXML")
	defer span.End()

	if !s.loggedIn {
		span.SetStatus(codes.Error, ErrNotAuthenticated.Error())
		return "", ErrNotAuthenticated
	}
	if s.fetched {
		return s.xml, nil
	}

	link, err := s.page.FindLink(recordLinkRegex)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to locate record link")
		return "", err
	}
	res, err := link.Follow(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to download record")
		return "", err
	}

	s.xml = res.Body()
	s.fetched = true
	return s.xml, nil
}

// GetStudent fetches the record and parses it into a Student.
func (s *Session) GetStudent(ctx context.Context) (*Student, error) {
	text, err := s.FetchRecordXML(ctx)
	if err != nil {
		return nil, err
	}
	return ParseStudentRecord(text)
}

// Close releases the underlying transport. Safe to call whether or not
// login succeeded.
func (s *Session) Close() error {
	return s.browser.Close()
}
