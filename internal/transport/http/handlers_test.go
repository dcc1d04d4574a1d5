package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"bookline/internal/apiclient"
	"bookline/internal/directory"
	"bookline/internal/guard"
	"bookline/internal/identity/models"
	"bookline/internal/identity/service"
	"bookline/internal/identity/token"
	"bookline/internal/platform/clock"
	"bookline/internal/platform/health"
	"bookline/internal/platform/logger"
	"bookline/internal/session"
)

// RouterSuite exercises the full stack end to end: chi router, middleware,
// handlers, identity service, and stores, with simulated latency disabled.
type RouterSuite struct {
	suite.Suite

	router   http.Handler
	sessions *session.Store
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	log := logger.New()
	users := directory.New()

	for _, u := range []struct {
		email    string
		userType models.UserType
	}{
		{"business@test.com", models.UserTypeBusiness},
		{"user@test.com", models.UserTypeIndividual},
	} {
		user, err := models.NewUser(uuid.NewString(), u.email, "Seed", "User", "", u.userType, time.Now())
		require.NoError(s.T(), err)
		require.NoError(s.T(), users.Append(context.Background(), user))
	}

	s.sessions = session.NewStore(session.NewMemoryKV())
	tokens := token.NewGenerator("test-key", "bookline", time.Hour)

	identity, err := service.New(users, s.sessions, tokens, service.WithDelayer(clock.Noop{}))
	require.NoError(s.T(), err)

	g := guard.New(s.sessions, log)
	// Backend pointing at a closed port: the facade reports no response.
	backend := apiclient.New("http://127.0.0.1:1", s.sessions, apiclient.WithLogger(log))

	handler := NewHandler(identity, s.sessions, g, backend, log)
	s.router = NewRouter(handler, health.New("test"), log)
}

func (s *RouterSuite) postJSON(path string, body any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	require.NoError(s.T(), err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (s *RouterSuite) signIn(email string) {
	rec := s.postJSON("/auth/sign-in", models.SignInData{Email: email, Password: "password1"})
	require.Equal(s.T(), http.StatusOK, rec.Code, rec.Body.String())
}

func (s *RouterSuite) TestSignIn_Success() {
	rec := s.postJSON("/auth/sign-in", models.SignInData{Email: "business@test.com", Password: "password1"})
	s.Equal(http.StatusOK, rec.Code)

	var result models.AuthResult
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &result))
	s.Equal("business@test.com", result.User.Email)
	s.NotEmpty(result.AccessToken)
	s.True(s.sessions.IsAuthenticated())
}

func (s *RouterSuite) TestSignIn_BadCredentials() {
	rec := s.postJSON("/auth/sign-in", models.SignInData{Email: "nouser@test.com", Password: "password1"})
	s.Equal(http.StatusUnauthorized, rec.Code)

	var body map[string]string
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("invalid email or password", body["message"])
	s.False(s.sessions.IsAuthenticated())
}

func (s *RouterSuite) TestSignIn_MalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/auth/sign-in", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RouterSuite) TestSignUp_CreatedThenConflict() {
	data := models.SignUpData{
		Email:     "fresh@test.com",
		Password:  "password1",
		FirstName: "Fresh",
		UserType:  models.UserTypeIndividual,
	}

	rec := s.postJSON("/auth/sign-up", data)
	s.Equal(http.StatusCreated, rec.Code)

	rec = s.postJSON("/auth/sign-up", data)
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *RouterSuite) TestSignOut_AlwaysNoContent() {
	s.signIn("user@test.com")

	rec := s.postJSON("/auth/sign-out", nil)
	s.Equal(http.StatusNoContent, rec.Code)
	s.False(s.sessions.IsAuthenticated())

	// Signing out anonymously answers the same way.
	rec = s.postJSON("/auth/sign-out", nil)
	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *RouterSuite) TestOAuthSignIn_UnknownProvider() {
	rec := s.postJSON("/auth/oauth/myspace", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RouterSuite) TestOAuthSignIn_SignsInBusinessUser() {
	rec := s.postJSON("/auth/oauth/kakao", nil)
	s.Equal(http.StatusOK, rec.Code)

	var result models.AuthResult
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &result))
	s.Equal("business@test.com", result.User.Email)
}

func (s *RouterSuite) TestMe_RedirectsAnonymous() {
	rec := s.get("/me")
	s.Equal(http.StatusFound, rec.Code)
	s.Equal(guard.RouteSignIn, rec.Header().Get("Location"))
}

func (s *RouterSuite) TestMe_ReturnsSessionUser() {
	s.signIn("user@test.com")

	rec := s.get("/me")
	s.Equal(http.StatusOK, rec.Code)

	var user models.User
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &user))
	s.Equal("user@test.com", user.Email)
}

func (s *RouterSuite) TestBookings_EmptyWithoutBackend() {
	s.signIn("user@test.com")

	rec := s.get("/bookings")
	s.Equal(http.StatusOK, rec.Code)

	var bookings []Booking
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &bookings))
	s.Empty(bookings)
}

func (s *RouterSuite) TestRoot_RedirectsByUserType() {
	rec := s.get("/")
	s.Equal(http.StatusFound, rec.Code)
	s.Equal(guard.RouteSignIn, rec.Header().Get("Location"))

	s.signIn("business@test.com")
	rec = s.get("/")
	s.Equal(guard.RouteDashboard, rec.Header().Get("Location"))

	s.signIn("user@test.com")
	rec = s.get("/")
	s.Equal(guard.RouteMyPage, rec.Header().Get("Location"))
}

func (s *RouterSuite) TestUnmatchedPath_ReusesRootResolution() {
	s.signIn("user@test.com")

	rec := s.get("/definitely/not/registered")
	s.Equal(http.StatusFound, rec.Code)
	s.Equal(guard.RouteMyPage, rec.Header().Get("Location"))
}
