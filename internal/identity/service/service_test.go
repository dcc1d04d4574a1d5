package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookline/internal/identity/models"
	"bookline/internal/identity/token"
	"bookline/internal/platform/clock"
	dErrors "bookline/pkg/domain-errors"
)

func (s *ServiceSuite) TestNew_RequiresDeps() {
	s.T().Run("missing directory fails", func(t *testing.T) {
		_, err := New(nil, s.sessions, s.mockTokens)
		require.Error(t, err)
	})

	s.T().Run("missing session store fails", func(t *testing.T) {
		_, err := New(s.users, nil, s.mockTokens)
		require.Error(t, err)
	})

	s.T().Run("missing token generator fails", func(t *testing.T) {
		_, err := New(s.users, s.sessions, nil)
		require.Error(t, err)
	})
}

func (s *ServiceSuite) TestSignIn_Success() {
	s.expectTokenPair("access-1", "refresh-1")

	result, err := s.svc.SignIn(context.Background(), models.SignInData{
		Email:    "business@test.com",
		Password: "password1",
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.UserTypeBusiness, result.User.UserType)
	assert.Equal(s.T(), "access-1", result.AccessToken)

	stored := s.sessions.CurrentUser()
	require.NotNil(s.T(), stored)
	assert.Equal(s.T(), s.businessUser.ID, stored.ID)

	access, ok := s.sessions.AccessToken()
	require.True(s.T(), ok)
	assert.Equal(s.T(), "access-1", access)

	refresh, ok := s.sessions.RefreshToken()
	require.True(s.T(), ok)
	assert.Equal(s.T(), "refresh-1", refresh)
	assert.True(s.T(), s.sessions.IsAuthenticated())
}

func (s *ServiceSuite) TestSignIn_DistinctTokensWithRealGenerator() {
	// The real generator must never hand back a colliding pair.
	svc, err := New(s.users, s.sessions, token.NewGenerator("test-key", "bookline", time.Minute), WithDelayer(clock.Noop{}))
	require.NoError(s.T(), err)

	result, err := svc.SignIn(context.Background(), models.SignInData{
		Email:    "business@test.com",
		Password: "password1",
	})
	require.NoError(s.T(), err)

	access, ok := s.sessions.AccessToken()
	require.True(s.T(), ok)
	refresh, ok := s.sessions.RefreshToken()
	require.True(s.T(), ok)

	assert.NotEmpty(s.T(), access)
	assert.NotEmpty(s.T(), refresh)
	assert.NotEqual(s.T(), access, refresh)
	assert.Equal(s.T(), access, result.AccessToken)
}

func (s *ServiceSuite) TestSignIn_UnknownEmail() {
	_, err := s.svc.SignIn(context.Background(), models.SignInData{
		Email:    "nouser@test.com",
		Password: "password1",
	})
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Equal(s.T(), "invalid email or password", err.Error())

	// The store must be untouched by a failed attempt.
	assert.False(s.T(), s.sessions.IsAuthenticated())
	assert.Nil(s.T(), s.sessions.CurrentUser())
}

func (s *ServiceSuite) TestSignIn_ShortPassword() {
	_, err := s.svc.SignIn(context.Background(), models.SignInData{
		Email:    "business@test.com",
		Password: "short",
	})
	require.Error(s.T(), err)
	// Same message as unknown email: callers cannot probe which emails exist.
	assert.Equal(s.T(), "invalid email or password", err.Error())
	assert.False(s.T(), s.sessions.IsAuthenticated())
}

func (s *ServiceSuite) TestSignUp_Success() {
	s.expectTokenPair("access-2", "refresh-2")

	result, err := s.svc.SignUp(context.Background(), models.SignUpData{
		Email:     "newstudio@test.com",
		Password:  "password1",
		FirstName: "Yuna",
		LastName:  "Seo",
		UserType:  models.UserTypeBusiness,
	})
	require.NoError(s.T(), err)
	assert.NotEmpty(s.T(), result.User.ID)
	assert.Equal(s.T(), "newstudio@test.com", result.User.Email)

	// The directory is the source of truth for the new email.
	found, err := s.users.FindByEmail(context.Background(), "newstudio@test.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), result.User.ID, found.ID)
	assert.True(s.T(), s.sessions.IsAuthenticated())
}

func (s *ServiceSuite) TestSignUp_EmailTaken() {
	s.expectTokenPair("access-3", "refresh-3")

	data := models.SignUpData{
		Email:     "another@test.com",
		Password:  "password1",
		FirstName: "Min",
		UserType:  models.UserTypeIndividual,
	}
	first, err := s.svc.SignUp(context.Background(), data)
	require.NoError(s.T(), err)

	_, err = s.svc.SignUp(context.Background(), data)
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeConflict))
	assert.Equal(s.T(), "email already registered", err.Error())

	// The first registration still resolves.
	found, err := s.users.FindByEmail(context.Background(), "another@test.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), first.User.ID, found.ID)
}

func (s *ServiceSuite) TestSignUp_ShortPassword() {
	_, err := s.svc.SignUp(context.Background(), models.SignUpData{
		Email:    "weak@test.com",
		Password: "12345",
		UserType: models.UserTypeIndividual,
	})
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestSignOut_Idempotent() {
	s.expectTokenPair("access-4", "refresh-4")
	_, err := s.svc.SignIn(context.Background(), models.SignInData{
		Email:    "user@test.com",
		Password: "password1",
	})
	require.NoError(s.T(), err)
	require.True(s.T(), s.sessions.IsAuthenticated())

	require.NoError(s.T(), s.svc.SignOut(context.Background()))
	assert.False(s.T(), s.sessions.IsAuthenticated())

	// Signing out again must not fail and leaves the store cleared.
	require.NoError(s.T(), s.svc.SignOut(context.Background()))
	assert.False(s.T(), s.sessions.IsAuthenticated())
	assert.Nil(s.T(), s.sessions.CurrentUser())
}

func (s *ServiceSuite) TestOAuthSignIn_PicksFirstBusinessUser() {
	s.expectTokenPair("access-5", "refresh-5")

	result, err := s.svc.OAuthSignIn(context.Background(), models.ProviderKakao)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), s.businessUser.ID, result.User.ID)
	assert.True(s.T(), s.sessions.IsAuthenticated())
}

func (s *ServiceSuite) TestOAuthSignIn_FallsBackToFirstUser() {
	users := newDirectoryWithOnly(s, "solo@test.com", models.UserTypeIndividual)
	svc, err := New(users, s.sessions, s.mockTokens, WithDelayer(clock.Noop{}))
	require.NoError(s.T(), err)

	s.expectTokenPair("access-6", "refresh-6")

	result, err := svc.OAuthSignIn(context.Background(), models.ProviderGoogle)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "solo@test.com", result.User.Email)
}

func (s *ServiceSuite) TestOAuthSignIn_InvalidProvider() {
	_, err := s.svc.OAuthSignIn(context.Background(), models.Provider("myspace"))
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
