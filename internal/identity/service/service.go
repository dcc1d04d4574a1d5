package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bookline/internal/directory"
	"bookline/internal/identity/models"
	"bookline/internal/platform/clock"
	"bookline/internal/platform/metrics"
	"bookline/internal/platform/middleware"
	"bookline/internal/platform/tracing"
	dErrors "bookline/pkg/domain-errors"
)

// UserDirectory defines the registry interface for user records.
// Error Contract: lookup methods return a wrapped directory.ErrNotFound when no user matches.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Append(ctx context.Context, user *models.User) error
	First(ctx context.Context) (*models.User, error)
	FirstByType(ctx context.Context, userType models.UserType) (*models.User, error)
}

// SessionStore defines the persistence interface for the active session.
type SessionStore interface {
	Save(user *models.User, accessToken, refreshToken string) error
	IsAuthenticated() bool
	Clear() error
}

// TokenGenerator issues the opaque token pair bound to a session.
type TokenGenerator interface {
	AccessToken(user *models.User) (string, error)
	RefreshToken() (string, error)
}

// Simulated latencies, matching the flows the mock backend stands in for.
// Real delays in production, a no-op delayer in tests.
const (
	signInDelay  = 500 * time.Millisecond
	signUpDelay  = 800 * time.Millisecond
	signOutDelay = 200 * time.Millisecond
	oauthDelay   = 1000 * time.Millisecond
)

const (
	minPasswordLength = 6

	// User-displayable messages. Callers render these inline next to the form.
	msgInvalidCredentials = "invalid email or password"
	msgEmailTaken         = "email already registered"
)

// Service implements sign-up, sign-in, sign-out, and OAuth-simulated sign-in
// against the user directory and session store.
//
// Session state machine: anonymous -> (sign-in | sign-up | oauth success) ->
// authenticated -> (sign-out | 401) -> anonymous. Exactly one session is
// active at a time; the last completed write to the session store wins.
type Service struct {
	users    UserDirectory
	sessions SessionStore
	tokens   TokenGenerator
	delayer  clock.Delayer
	logger   *slog.Logger
	tracer   tracing.Tracer
	metrics  *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracing.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithDelayer configures the simulated-latency strategy.
// Defaults to real delays; tests inject clock.Noop.
func WithDelayer(d clock.Delayer) Option {
	return func(s *Service) {
		s.delayer = d
	}
}

func New(users UserDirectory, sessions SessionStore, tokens TokenGenerator, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, errors.New("user directory is required")
	}
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	if tokens == nil {
		return nil, errors.New("token generator is required")
	}
	svc := &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		delayer:  clock.Real{},
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.tracer == nil {
		svc.tracer = tracing.NewNoop()
	}
	return svc, nil
}

// SignIn authenticates an existing account. The password check is a placeholder:
// any password of sufficient length succeeds for a known email. An unknown email
// and a short password surface the same invalid-credentials message so callers
// cannot distinguish the two.
func (s *Service) SignIn(ctx context.Context, data models.SignInData) (result *models.AuthResult, err error) {
	ctx, span := s.tracer.Start(ctx, "identity.SignIn", tracing.String("email", data.Email))
	defer func() { span.End(err) }()

	if err = s.delayer.Delay(ctx, signInDelay); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "sign-in interrupted")
	}

	if len(data.Password) < minPasswordLength {
		s.logAuthFailure(ctx, "password_too_short", false, "email", data.Email)
		s.incrementAuthFailure()
		return nil, dErrors.New(dErrors.CodeUnauthorized, msgInvalidCredentials)
	}

	user, err := s.users.FindByEmail(ctx, data.Email)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			s.logAuthFailure(ctx, "email_not_found", false, "email", data.Email)
			s.incrementAuthFailure()
			return nil, dErrors.New(dErrors.CodeUnauthorized, msgInvalidCredentials)
		}
		s.logAuthFailure(ctx, "directory_lookup_failed", true, "email", data.Email, "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	accessToken, err := s.establishSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, "user_signed_in", "user_id", user.ID, "user_type", string(user.UserType))
	s.incrementSignIn()

	return &models.AuthResult{User: user, AccessToken: accessToken}, nil
}

// SignUp creates a new account and signs it in. The directory append is
// sequenced before the session save.
func (s *Service) SignUp(ctx context.Context, data models.SignUpData) (result *models.AuthResult, err error) {
	ctx, span := s.tracer.Start(ctx, "identity.SignUp", tracing.String("email", data.Email))
	defer func() { span.End(err) }()

	if err = s.delayer.Delay(ctx, signUpDelay); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "sign-up interrupted")
	}

	if len(data.Password) < minPasswordLength {
		return nil, dErrors.New(dErrors.CodeValidation, "password must be at least 6 characters")
	}

	_, err = s.users.FindByEmail(ctx, data.Email)
	if err == nil {
		s.logAuthFailure(ctx, "email_taken", false, "email", data.Email)
		return nil, dErrors.New(dErrors.CodeConflict, msgEmailTaken)
	}
	if !errors.Is(err, directory.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	// UUIDs keep IDs collision-free under rapid repeated sign-ups, which a
	// timestamp-derived source would not guarantee.
	user, err := models.NewUser(uuid.NewString(), data.Email, data.FirstName, data.LastName, data.Phone, data.UserType, time.Now())
	if err != nil {
		return nil, err
	}

	if err = s.users.Append(ctx, user); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register user")
	}
	s.logAudit(ctx, "user_created", "user_id", user.ID, "user_type", string(user.UserType))

	accessToken, err := s.establishSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, "user_signed_in", "user_id", user.ID, "user_type", string(user.UserType))
	s.incrementSignUp()

	return &models.AuthResult{User: user, AccessToken: accessToken}, nil
}

// SignOut clears the active session. It never fails and is idempotent: signing
// out an anonymous client leaves the store cleared.
func (s *Service) SignOut(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "identity.SignOut")
	defer span.End(nil)

	if err := s.delayer.Delay(ctx, signOutDelay); err != nil {
		// A cancelled sign-out still clears the session below.
		s.logger.WarnContext(ctx, "sign-out delay interrupted", "error", err)
	}

	wasAuthenticated := s.sessions.IsAuthenticated()
	if err := s.sessions.Clear(); err != nil {
		// SignOut never surfaces errors to callers; the store fails open.
		s.logger.ErrorContext(ctx, "failed to clear session", "error", err)
		return nil
	}
	if wasAuthenticated {
		s.decrementActiveSession()
	}
	s.logAudit(ctx, "user_signed_out")
	return nil
}

// OAuthSignIn stands in for a real OAuth redirect/callback flow. The provider
// is validated but deliberately ignored for user selection: the first
// business-type user in the directory signs in, falling back to the first user
// overall.
func (s *Service) OAuthSignIn(ctx context.Context, provider models.Provider) (result *models.AuthResult, err error) {
	ctx, span := s.tracer.Start(ctx, "identity.OAuthSignIn", tracing.String("provider", provider.String()))
	defer func() { span.End(err) }()

	if !provider.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown oauth provider: "+provider.String())
	}

	if err = s.delayer.Delay(ctx, oauthDelay); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "oauth sign-in interrupted")
	}

	user, err := s.users.FirstByType(ctx, models.UserTypeBusiness)
	if errors.Is(err, directory.ErrNotFound) {
		user, err = s.users.First(ctx)
	}
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			s.logAuthFailure(ctx, "directory_empty", true, "provider", provider.String())
			return nil, dErrors.New(dErrors.CodeInternal, "no users available")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	accessToken, err := s.establishSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, "user_signed_in",
		"user_id", user.ID,
		"user_type", string(user.UserType),
		"provider", provider.String(),
	)
	s.incrementOAuthSignIn(provider)

	return &models.AuthResult{User: user, AccessToken: accessToken}, nil
}

// establishSession issues a fresh token pair and persists the session snapshot,
// returning the access token handed back to the caller.
func (s *Service) establishSession(ctx context.Context, user *models.User) (string, error) {
	accessToken, err := s.tokens.AccessToken(user)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate access token")
	}
	refreshToken, err := s.tokens.RefreshToken()
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate refresh token")
	}

	if err := s.sessions.Save(user, accessToken, refreshToken); err != nil {
		s.logAuthFailure(ctx, "session_save_failed", true, "user_id", user.ID, "error", err)
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist session")
	}
	s.incrementActiveSession()
	return accessToken, nil
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := middleware.GetRequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	if device := middleware.GetDevice(ctx); device != "" {
		attributes = append(attributes, "device", device)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}

func (s *Service) logAuthFailure(ctx context.Context, reason string, isError bool, attributes ...any) {
	if requestID := middleware.GetRequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", "auth_failed", "reason", reason, "log_type", "standard")
	if isError {
		s.logger.ErrorContext(ctx, "auth_failed", args...)
		return
	}
	s.logger.WarnContext(ctx, "auth_failed", args...)
}

// incrementSignIn increments the sign-in metric if metrics are enabled
func (s *Service) incrementSignIn() {
	if s.metrics != nil {
		s.metrics.IncrementSignIns()
	}
}

func (s *Service) incrementSignUp() {
	if s.metrics != nil {
		s.metrics.IncrementSignUps()
	}
}

func (s *Service) incrementOAuthSignIn(provider models.Provider) {
	if s.metrics != nil {
		s.metrics.IncrementOAuthSignIns(provider.String())
	}
}

func (s *Service) incrementAuthFailure() {
	if s.metrics != nil {
		s.metrics.IncrementAuthFailures()
	}
}

func (s *Service) incrementActiveSession() {
	if s.metrics != nil {
		s.metrics.IncrementActiveSessions(1)
	}
}

func (s *Service) decrementActiveSession() {
	if s.metrics != nil {
		s.metrics.DecrementActiveSessions(1)
	}
}
