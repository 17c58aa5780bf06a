package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/medlink/portal-server-go/internal/audit"
	apperrors "github.com/medlink/portal-server-go/internal/errors"
	"github.com/medlink/portal-server-go/internal/middleware"
	"github.com/medlink/portal-server-go/internal/model"
	"github.com/medlink/portal-server-go/internal/service"
)

// forgotPasswordMessage is returned for every forgot-password request,
// registered address or not.
const forgotPasswordMessage = "If this email exists, a reset link will be sent"

type AuthService interface {
	Signup(ctx context.Context, params service.SignupParams) (*model.Account, string, error)
	Login(ctx context.Context, email, password, role string) (*model.Account, string, error)
	Logout(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email, role string) error
	ResetPassword(ctx context.Context, token, password, confirmPassword string) error
}

type AuthHandler struct {
	svc          AuthService
	isProduction bool
}

func NewAuthHandler(svc AuthService, isProduction bool) *AuthHandler {
	return &AuthHandler{svc: svc, isProduction: isProduction}
}

// Routes mounts the auth endpoints. The guard protects /me only; everything
// else is reachable without a session.
func (h *AuthHandler) Routes(guard func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Post("/forgot-password", h.ForgotPassword)
	r.Post("/reset-password", h.ResetPassword)
	r.With(guard).Get("/me", h.Me)

	return r
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var params service.SignupParams
	if err := decodeJSON(r, &params); err != nil {
		writeError(w, err)
		return
	}

	account, token, err := h.svc.Signup(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:      audit.EventSignup,
		AccountID: account.ID,
		Role:      string(account.Role),
	})

	middleware.SetSessionCookie(w, token, h.isProduction)
	writeJSON(w, http.StatusCreated, account)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	account, token, err := h.svc.Login(r.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.ErrCodeInvalidCredentials {
			audit.LogFromRequest(r, audit.Event{
				Type: audit.EventLoginFailure,
				Role: req.Role,
			})
		}
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:      audit.EventLoginSuccess,
		AccountID: account.ID,
		Role:      string(account.Role),
	})

	middleware.SetSessionCookie(w, token, h.isProduction)
	writeJSON(w, http.StatusOK, account)
}

// Logout always succeeds and always clears the cookie. There is nothing
// useful to tell a caller whose token was already gone.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.SessionToken(r)

	if err := h.svc.Logout(r.Context(), token); err != nil {
		log.Error().Err(err).Msg("logout failed")
	}

	audit.LogFromRequest(r, audit.Event{Type: audit.EventLogout})

	middleware.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.ForgotPassword(r.Context(), req.Email, req.Role); err != nil {
		// Input validation failures are real errors; an unknown account is
		// not distinguishable from success by design of the service.
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type: audit.EventPasswordResetRequested,
		Role: req.Role,
	})

	writeJSON(w, http.StatusOK, messageResponse{Message: forgotPasswordMessage})
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.ResetPassword(r.Context(), req.Token, req.Password, req.ConfirmPassword); err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{Type: audit.EventPasswordResetCompleted})

	writeJSON(w, http.StatusOK, messageResponse{Message: "Password has been reset"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())
	if account == nil {
		writeError(w, apperrors.Unauthorized("Unauthorized"))
		return
	}

	writeJSON(w, http.StatusOK, account)
}
