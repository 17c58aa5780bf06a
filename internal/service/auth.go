package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/medlink/portal-server-go/internal/config"
	"github.com/medlink/portal-server-go/internal/database"
	apperrors "github.com/medlink/portal-server-go/internal/errors"
	"github.com/medlink/portal-server-go/internal/mail"
	"github.com/medlink/portal-server-go/internal/model"
	"github.com/medlink/portal-server-go/internal/repository"
	"github.com/medlink/portal-server-go/internal/util"
)

// AuthService owns the credential, session and reset-token lifecycle. All
// account-enumeration rules live here so no handler has to remember them:
// login failures share one error value, forgot-password answers identically
// whether or not the account exists, and signup's duplicate-email message is
// the same whether caught before or during the insert.
type AuthService struct {
	db            database.TxRunner
	accountRepo   repository.AccountRepository
	sessionRepo   repository.SessionRepository
	resetRepo     repository.ResetTokenRepository
	mailer        mail.Sender
	hashParams    util.Argon2Params
	sessionSecret string
	baseURL       string

	// decoyHash keeps the unknown-email login path doing the same argon2
	// work as the wrong-password path.
	decoyHash string
}

func NewAuthService(
	db database.TxRunner,
	accountRepo repository.AccountRepository,
	sessionRepo repository.SessionRepository,
	resetRepo repository.ResetTokenRepository,
	mailer mail.Sender,
	hashParams util.Argon2Params,
	sessionSecret string,
	baseURL string,
) (*AuthService, error) {
	decoyHash, err := util.HashPassword("decoy-password-for-timing", hashParams)
	if err != nil {
		return nil, fmt.Errorf("prepare decoy hash: %w", err)
	}

	return &AuthService{
		db:            db,
		accountRepo:   accountRepo,
		sessionRepo:   sessionRepo,
		resetRepo:     resetRepo,
		mailer:        mailer,
		hashParams:    hashParams,
		sessionSecret: sessionSecret,
		baseURL:       strings.TrimRight(baseURL, "/"),
		decoyHash:     decoyHash,
	}, nil
}

type SignupParams struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Role            string `json:"role"`
	OrgName         string `json:"orgName"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
}

// Signup validates, creates the account and issues the first session. No
// precondition failure leaves side effects behind.
func (s *AuthService) Signup(ctx context.Context, params SignupParams) (*model.Account, string, error) {
	email := normalizeEmail(params.Email)

	role, ok := model.ParseRole(params.Role)
	if !ok {
		return nil, "", apperrors.InvalidInput("role", "must be hospital or lab")
	}
	if email == "" {
		return nil, "", apperrors.MissingRequired("Email")
	}
	if !util.IsValidEmail(email) {
		return nil, "", apperrors.InvalidInput("email", "must be a valid email address")
	}
	if strings.TrimSpace(params.OrgName) == "" {
		return nil, "", apperrors.MissingRequired("Organization name")
	}
	if err := validatePasswordPair(params.Password, params.ConfirmPassword); err != nil {
		return nil, "", err
	}

	existing, err := s.accountRepo.FindByEmailAndRole(ctx, email, role)
	if err != nil {
		return nil, "", apperrors.Database(err)
	}
	if existing != nil {
		return nil, "", emailRegisteredError()
	}

	passwordHash, err := util.HashPassword(params.Password, s.hashParams)
	if err != nil {
		return nil, "", apperrors.Internal("Failed to process credentials").WithCause(err)
	}

	account, err := s.accountRepo.Create(ctx, model.CreateAccountParams{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		OrgName:      strings.TrimSpace(params.OrgName),
		Phone:        strings.TrimSpace(params.Phone),
		Address:      strings.TrimSpace(params.Address),
	})
	if err != nil {
		// Losing the insert race to a concurrent signup reads exactly like
		// the pre-insert check.
		if err == repository.ErrDuplicateEmail {
			return nil, "", emailRegisteredError()
		}
		return nil, "", apperrors.Database(err)
	}

	token, err := s.issueSession(ctx, account.ID)
	if err != nil {
		return nil, "", err
	}

	log.Info().Str("accountId", account.ID).Str("role", string(role)).Msg("account created")

	return account, token, nil
}

// Login authenticates by (email, role). An unknown email and a wrong
// password return the same error value; both paths pay for one argon2
// verification first.
func (s *AuthService) Login(ctx context.Context, email, password, roleStr string) (*model.Account, string, error) {
	role, ok := model.ParseRole(roleStr)
	if !ok {
		return nil, "", apperrors.InvalidInput("role", "must be hospital or lab")
	}
	email = normalizeEmail(email)
	if email == "" {
		return nil, "", apperrors.MissingRequired("Email")
	}
	if password == "" {
		return nil, "", apperrors.MissingRequired("Password")
	}

	account, err := s.accountRepo.FindByEmailAndRole(ctx, email, role)
	if err != nil {
		return nil, "", apperrors.Database(err)
	}

	if account == nil {
		util.VerifyPassword(password, s.decoyHash)
		return nil, "", apperrors.InvalidCredentials()
	}

	if !util.VerifyPassword(password, account.PasswordHash) {
		return nil, "", apperrors.InvalidCredentials()
	}

	token, err := s.issueSession(ctx, account.ID)
	if err != nil {
		return nil, "", err
	}

	return account, token, nil
}

// Logout deletes the session if it exists. It never fails observably; an
// already-invalid token is a success.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	tokenHash := util.HmacSHA256(s.sessionSecret, token)
	if err := s.sessionRepo.DeleteByTokenHash(ctx, tokenHash); err != nil {
		log.Error().Err(err).Msg("failed to delete session on logout")
	}
	return nil
}

// ForgotPassword creates a time-boxed reset token and mails the link. When
// the account does not exist it still reports success and creates nothing.
// Mail delivery failure is logged, not surfaced: the token already exists
// and the generic response has already been decided.
func (s *AuthService) ForgotPassword(ctx context.Context, email, roleStr string) error {
	role, ok := model.ParseRole(roleStr)
	if !ok {
		return apperrors.InvalidInput("role", "must be hospital or lab")
	}
	email = normalizeEmail(email)
	if email == "" {
		return apperrors.MissingRequired("Email")
	}

	account, err := s.accountRepo.FindByEmailAndRole(ctx, email, role)
	if err != nil {
		return apperrors.Database(err)
	}
	if account == nil {
		log.Debug().Msg("password reset requested for unknown email")
		return nil
	}

	token, err := util.GenerateToken()
	if err != nil {
		return apperrors.Internal("Failed to generate reset token").WithCause(err)
	}

	// A newer request supersedes any outstanding token for the account.
	if err := s.resetRepo.DeleteByAccountID(ctx, account.ID); err != nil {
		return apperrors.Database(err)
	}

	expiresAt := timeNow().Add(config.ResetTokenTTL)
	if _, err := s.resetRepo.Create(ctx, model.CreateResetTokenParams{
		TokenHash: util.HashToken(token),
		AccountID: account.ID,
		ExpiresAt: expiresAt,
	}); err != nil {
		return apperrors.Database(err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s&role=%s", s.baseURL, token, role)
	body := fmt.Sprintf(
		"A password reset was requested for your %s account.\n\n"+
			"Reset your password within the next hour:\n%s\n\n"+
			"If you did not request this, you can ignore this email.\n",
		role, link)

	if err := s.mailer.Send(ctx, account.Email, "Reset your password", body); err != nil {
		log.Error().Err(err).Str("accountId", account.ID).Msg("failed to send password reset email")
	}

	return nil
}

// ResetPassword consumes the token and sets the new credential in one
// transaction. The single-statement delete-returning makes concurrent resets
// with the same token admit exactly one winner. All existing sessions for
// the account are revoked.
func (s *AuthService) ResetPassword(ctx context.Context, token, password, confirmPassword string) error {
	if err := validatePasswordPair(password, confirmPassword); err != nil {
		return err
	}
	if token == "" {
		return apperrors.InvalidResetToken()
	}

	passwordHash, err := util.HashPassword(password, s.hashParams)
	if err != nil {
		return apperrors.Internal("Failed to process credentials").WithCause(err)
	}

	var accountID string
	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		resetToken, err := s.resetRepo.WithTx(tx).Consume(ctx, util.HashToken(token))
		if err != nil {
			return apperrors.Database(err)
		}
		if resetToken == nil {
			// Not found, expired and malformed all read the same.
			return apperrors.InvalidResetToken()
		}

		if err := s.accountRepo.WithTx(tx).UpdatePassword(ctx, resetToken.AccountID, passwordHash); err != nil {
			return apperrors.Database(err)
		}
		if err := s.sessionRepo.WithTx(tx).DeleteByAccountID(ctx, resetToken.AccountID); err != nil {
			return apperrors.Database(err)
		}

		accountID = resetToken.AccountID
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Str("accountId", accountID).Msg("password reset completed, sessions revoked")

	return nil
}

// ValidateSession resolves a session token to its account. An expired or
// unknown token yields (nil, nil).
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*model.Account, error) {
	if token == "" {
		return nil, nil
	}

	tokenHash := util.HmacSHA256(s.sessionSecret, token)
	session, err := s.sessionRepo.FindByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	return s.accountRepo.FindByID(ctx, session.AccountID)
}

func (s *AuthService) issueSession(ctx context.Context, accountID string) (string, error) {
	token, err := util.GenerateToken()
	if err != nil {
		return "", apperrors.Internal("Failed to generate session token").WithCause(err)
	}

	_, err = s.sessionRepo.Create(ctx, model.CreateSessionParams{
		TokenHash: util.HmacSHA256(s.sessionSecret, token),
		AccountID: accountID,
		ExpiresAt: timeNow().Add(config.SessionTTL),
	})
	if err != nil {
		return "", apperrors.Database(err)
	}

	return token, nil
}

func validatePasswordPair(password, confirmPassword string) error {
	if password == "" {
		return apperrors.MissingRequired("Password")
	}
	if len(password) < config.MinPasswordLength {
		return apperrors.ValidationError(fmt.Sprintf("Password must be at least %d characters", config.MinPasswordLength))
	}
	if password != confirmPassword {
		return apperrors.ValidationError("Passwords do not match")
	}
	return nil
}

// emailRegisteredError names only the field category, never the existing
// account. Cross-role registrations are allowed, so the message holds for
// "this role" only.
func emailRegisteredError() error {
	return apperrors.ValidationError("Email already registered")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
