package httptransport

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bookline/internal/apiclient"
	"bookline/internal/guard"
	"bookline/internal/identity/models"
	"bookline/internal/identity/service"
	"bookline/internal/platform/middleware"
	"bookline/internal/session"
	dErrors "bookline/pkg/domain-errors"
	"bookline/pkg/platform/httputil"
)

// Handler is the thin HTTP layer. It delegates to the identity service without
// embedding business logic so transport concerns remain isolated.
type Handler struct {
	identity *service.Service
	sessions *session.Store
	guard    *guard.Guard
	backend  *apiclient.Client
	logger   *slog.Logger
}

func NewHandler(identity *service.Service, sessions *session.Store, g *guard.Guard, backend *apiclient.Client, logger *slog.Logger) *Handler {
	return &Handler{
		identity: identity,
		sessions: sessions,
		guard:    g,
		backend:  backend,
		logger:   logger,
	}
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeJSON[models.SignInData](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.identity.SignIn(ctx, *req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeJSON[models.SignUpData](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.identity.SignUp(ctx, *req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	// SignOut never fails; an already-anonymous client gets the same answer.
	_ = h.identity.SignOut(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleOAuthSignIn(w http.ResponseWriter, r *http.Request) {
	provider, err := models.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.identity.OAuthSignIn(r.Context(), provider)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// Booking is the customer-facing view of a reservation, fetched from whatever
// REST backend the facade is pointed at.
type Booking struct {
	ID       string `json:"id"`
	SpaceID  string `json:"spaceId"`
	StartsAt string `json:"startsAt"`
	EndsAt   string `json:"endsAt"`
	Status   string `json:"status"`
}

// handleBookings fetches the signed-in customer's bookings through the HTTP
// client facade. Without a configured backend there is nothing to fetch and
// the list is empty, matching the mock-data mode of the rest of the core.
func (h *Handler) handleBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := apiclient.Get[[]Booking](r.Context(), h.backend, "/api/bookings")
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.Status == 0 {
			httputil.WriteJSON(w, http.StatusOK, []Booking{})
			return
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to load bookings"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, bookings)
}

// handleMe returns the session's user snapshot. The route guard has already
// verified a session exists, but the store is re-read here: guard decisions
// are never cached.
func (h *Handler) handleMe(w http.ResponseWriter, _ *http.Request) {
	user := h.sessions.CurrentUser()
	if user == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "no active session"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}
