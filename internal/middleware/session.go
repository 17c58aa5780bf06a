package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/medlink/portal-server-go/internal/audit"
	"github.com/medlink/portal-server-go/internal/config"
	"github.com/medlink/portal-server-go/internal/model"
)

const SessionCookieName = "portal_session"

type contextKey string

const AccountContextKey contextKey = "account"

func GetAccount(ctx context.Context) *model.Account {
	if account, ok := ctx.Value(AccountContextKey).(*model.Account); ok {
		return account
	}
	return nil
}

// SessionValidator resolves a session token to its account; expired or
// unknown tokens resolve to (nil, nil). Implemented by service.AuthService.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*model.Account, error)
}

// SessionMiddleware is the single authorization gate: it resolves the
// session to an account and hands the account to handlers via context.
// Handlers derive every ownership predicate from that account, never from
// ids supplied in the request.
type SessionMiddleware struct {
	validator SessionValidator
}

func NewSessionMiddleware(validator SessionValidator) *SessionMiddleware {
	return &SessionMiddleware{validator: validator}
}

func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := SessionToken(r)
		if token == "" {
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventAuthFailure,
				Details: map[string]interface{}{"reason": "missing_token"},
			})
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Unauthorized",
			})
			return
		}

		account, err := m.validator.ValidateSession(r.Context(), token)
		if err != nil {
			log.Error().Err(err).Msg("session middleware: validation error")
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "Session validation failed",
			})
			return
		}

		if account == nil {
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventAuthFailure,
				Details: map[string]interface{}{"reason": "invalid_token"},
			})
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Unauthorized",
			})
			return
		}

		ctx := context.WithValue(r.Context(), AccountContextKey, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionToken reads the session cookie, falling back to a bearer token for
// non-browser clients.
func SessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

func SetSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(config.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   SessionCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
