package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/thq-service/internal/auth"
	"github.com/spec-kit/thq-service/internal/config"
	"github.com/spec-kit/thq-service/internal/domain"
	"github.com/spec-kit/thq-service/internal/events"
	"github.com/spec-kit/thq-service/internal/repository"
)

// Field length limits carried over from the sys_user schema.
const (
	maxUsernameLen  = 36
	maxEmailLen     = 90
	maxFirstNameLen = 30
	maxLastNameLen  = 30
)

// RegisterInput carries the fields needed to open a new account.
type RegisterInput struct {
	Username      string
	Email         string
	FirstName     string
	LastName      string
	Phone         string
	DefaultNonsig string
	Role          domain.UserRole
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	UserRepo          repository.UserRepository
	Nonsigs           *NonsigService
	PasswordResetRepo repository.PasswordResetRepository
	Dispatcher        events.Dispatcher
}

// AuthService coordinates registration, confirmation and login flows.
type AuthService struct {
	users      repository.UserRepository
	nonsigs    *NonsigService
	resets     repository.PasswordResetRepository
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
	sessionTTL time.Duration
	confirmTTL time.Duration
	resetTTL   time.Duration
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		nonsigs:    deps.Nonsigs,
		resets:     deps.PasswordResetRepo,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret),
		bcryptCost: cfg.Auth.BcryptCost,
		sessionTTL: cfg.Auth.SessionTTL(),
		confirmTTL: cfg.Auth.ConfirmationTTL(),
		resetTTL:   cfg.Auth.PasswordResetTTL(),
	}
}

// Register creates an unconfirmed account against an active nonsig and issues
// a registration confirmation token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, time.Time, error) {
	input.Username = truncate(strings.ToLower(strings.TrimSpace(input.Username)), maxUsernameLen)
	input.Email = truncate(strings.ToLower(strings.TrimSpace(input.Email)), maxEmailLen)
	input.FirstName = truncate(input.FirstName, maxFirstNameLen)
	input.LastName = truncate(input.LastName, maxLastNameLen)
	if input.Username == "" || input.Email == "" {
		return nil, "", time.Time{}, errors.New("username and email required")
	}
	if input.Role == "" {
		input.Role = domain.RoleUser
	}

	if msgs, err := s.Availability(ctx, input.Username, input.Email); err != nil {
		return nil, "", time.Time{}, err
	} else if len(msgs) > 0 {
		return nil, "", time.Time{}, errors.New(strings.Join(msgs, "; "))
	}

	code, err := domain.NormalizeNonsigCode(input.DefaultNonsig)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	usable, err := s.nonsigs.ExistsAndIsActive(ctx, code)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if !usable {
		return nil, "", time.Time{}, errors.New("no active nonsig found")
	}

	confirmationKey := uuid.NewString()
	user := &domain.User{
		ID:              uuid.NewString(),
		Username:        input.Username,
		Email:           input.Email,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Phone:           input.Phone,
		DefaultNonsig:   code,
		Role:            input.Role,
		ConfirmationKey: &confirmationKey,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.Sign(&auth.Claims{
		Purpose:         auth.PurposeRegistration,
		ConfirmationKey: &confirmationKey,
	}, s.confirmTTL)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.Event{
		Type:   events.EventUserRegistered,
		UserID: user.ID,
		Email:  user.Email,
		Payload: events.UserRegisteredPayload{
			Username:          user.Username,
			ConfirmationToken: token,
		},
	})
	return user, token, exp, nil
}

// ConfirmAccount verifies a registration token and sets the initial password.
func (s *AuthService) ConfirmAccount(ctx context.Context, tokenStr, password, confirm string) error {
	claims, err := s.verifyPurposeToken(tokenStr, auth.PurposeRegistration)
	if err != nil {
		return err
	}
	if claims.ConfirmationKey == nil {
		return errors.New("missing user id or confirmation key")
	}

	hash, err := auth.ValidateAndHashPassword(password, confirm, s.bcryptCost)
	if err != nil {
		return err
	}

	if err := s.users.ConfirmByKey(ctx, *claims.ConfirmationKey, hash); err != nil {
		if err == pgx.ErrNoRows {
			return errors.New("key does not match confirmation")
		}
		return err
	}

	s.publish(ctx, events.Event{Type: events.EventAccountConfirmed})
	return nil
}

// Login authenticates by username or email and issues a session token.
func (s *AuthService) Login(ctx context.Context, login, password string) (*domain.User, string, time.Time, error) {
	login = strings.ToLower(strings.TrimSpace(login))

	user, err := s.users.GetByUsername(ctx, login)
	if err == pgx.ErrNoRows {
		user, err = s.users.GetByEmail(ctx, login)
	}
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, errors.New("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}

	if !user.CanSignIn() {
		return nil, "", time.Time{}, errors.New("account is locked or not confirmed")
	}
	if err := auth.ComparePassword(*user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errors.New("invalid credentials")
	}

	role := string(user.Role)
	token, exp, err := s.tokenMgr.Sign(&auth.Claims{
		UserIsAuthenticated: true,
		UserID:              &user.ID,
		UserRole:            &role,
	}, s.sessionTTL)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// RequestPasswordReset issues a reset token for a known email. Unknown emails
// are not revealed to the caller; a failure notification is emitted instead.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			s.publish(ctx, events.Event{
				Type:    events.EventPasswordResetFailed,
				Email:   email,
				Payload: events.PasswordResetFailedPayload{Reason: "no account for email"},
			})
			return nil
		}
		return err
	}

	key := uuid.NewString()
	reset := &repository.PasswordResetToken{
		UserID:    user.ID,
		Key:       key,
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		return err
	}

	token, exp, err := s.tokenMgr.Sign(&auth.Claims{
		Purpose:         auth.PurposePasswordReset,
		ConfirmationKey: &key,
	}, s.resetTTL)
	if err != nil {
		return err
	}

	s.publish(ctx, events.Event{
		Type:   events.EventPasswordResetRequested,
		UserID: user.ID,
		Email:  user.Email,
		Payload: events.PasswordResetRequestedPayload{
			ResetToken: token,
			ExpiresAt:  exp,
		},
	})
	return nil
}

// ConfirmPasswordReset validates a reset token and updates the password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, password, confirm string) error {
	claims, err := s.verifyPurposeToken(tokenStr, auth.PurposePasswordReset)
	if err != nil {
		return err
	}
	if claims.ConfirmationKey == nil {
		return errors.New("missing user id or confirmation key")
	}

	reset, err := s.resets.GetByKey(ctx, *claims.ConfirmationKey)
	if err != nil {
		if err == pgx.ErrNoRows {
			return errors.New("token is not valid. Please click on forgot password")
		}
		return err
	}
	if reset.UsedAt != nil || time.Now().After(reset.ExpiresAt) {
		return errors.New("token expired or used")
	}

	hash, err := auth.ValidateAndHashPassword(password, confirm, s.bcryptCost)
	if err != nil {
		return err
	}

	if err := s.users.SetPassword(ctx, reset.UserID, hash); err != nil {
		return err
	}
	return s.resets.MarkUsed(ctx, reset.ID)
}

// ChangePassword verifies the current password before updating to a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, password, confirm string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.PasswordHash == nil {
		return errors.New("invalid credentials")
	}
	if err := auth.ComparePassword(*user.PasswordHash, current); err != nil {
		return errors.New("invalid credentials")
	}

	hash, err := auth.ValidateAndHashPassword(password, confirm, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.users.SetPassword(ctx, userID, hash)
}

// Availability probes username and email for conflicts. An empty slice means
// both are free to use.
func (s *AuthService) Availability(ctx context.Context, username, email string) ([]string, error) {
	var messages []string

	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	if username != "" {
		if _, err := s.users.GetByUsername(ctx, username); err == nil {
			messages = append(messages, "Username already in use")
		} else if err != pgx.ErrNoRows {
			return nil, err
		}
	}
	if email != "" {
		if _, err := s.users.GetByEmail(ctx, email); err == nil {
			messages = append(messages, "Email already in use. Please click on forgot password")
		} else if err != pgx.ErrNoRows {
			return nil, err
		}
	}
	return messages, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// verifyPurposeToken verifies a purpose-tagged token and maps failures to the
// user-facing messages for each flow. Expired tokens report their purpose.
func (s *AuthService) verifyPurposeToken(tokenStr string, want auth.Purpose) (*auth.Claims, error) {
	claims, err := s.tokenMgr.Verify(tokenStr)
	if err != nil {
		var verr *auth.VerificationError
		if errors.As(err, &verr) && verr.Kind == auth.KindExpired {
			switch verr.Purpose {
			case auth.PurposeRegistration:
				return nil, errors.New("account was not confirmed within 30 days. Please reregister")
			case auth.PurposePasswordReset:
				return nil, errors.New("password was not reset within 1 hour. Please click on forgot password to restart password reset process")
			}
		}
		return nil, errors.New("token is not valid. Please click on forgot password")
	}
	if claims.Purpose != want {
		return nil, errors.New("token is not valid. Please click on forgot password")
	}
	return claims, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}

// truncate cuts a string to at most max bytes without splitting a rune.
func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	for max > 0 && !utf8.RuneStart(value[max]) {
		max--
	}
	return value[:max]
}
