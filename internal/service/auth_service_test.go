package service

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/thq-service/internal/config"
	"github.com/spec-kit/thq-service/internal/domain"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	var users []domain.User
	for _, user := range r.users {
		users = append(users, *user)
	}
	return users, nil
}

func (r *stubUserRepo) ConfirmByKey(_ context.Context, key, passwordHash string) error {
	for _, user := range r.users {
		if user.ConfirmationKey != nil && *user.ConfirmationKey == key {
			user.PasswordHash = &passwordHash
			user.IsConfirmed = true
			user.ConfirmationKey = nil
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *stubUserRepo) SetPassword(_ context.Context, id, passwordHash string) error {
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = &passwordHash
	return nil
}

type stubNonsigRepo struct {
	nonsigs map[string]*domain.Nonsig
}

func newStubNonsigRepo() *stubNonsigRepo {
	return &stubNonsigRepo{nonsigs: make(map[string]*domain.Nonsig)}
}

func (r *stubNonsigRepo) Create(_ context.Context, nonsig *domain.Nonsig) error {
	copied := *nonsig
	r.nonsigs[nonsig.Code] = &copied
	return nil
}

func (r *stubNonsigRepo) Update(_ context.Context, nonsig *domain.Nonsig) error {
	if _, ok := r.nonsigs[nonsig.Code]; !ok {
		return pgx.ErrNoRows
	}
	copied := *nonsig
	r.nonsigs[nonsig.Code] = &copied
	return nil
}

func (r *stubNonsigRepo) GetByCode(_ context.Context, code string) (*domain.Nonsig, error) {
	if nonsig, ok := r.nonsigs[code]; ok {
		copied := *nonsig
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubNonsigRepo) List(_ context.Context, _ bool) ([]domain.Nonsig, error) {
	var nonsigs []domain.Nonsig
	for _, nonsig := range r.nonsigs {
		nonsigs = append(nonsigs, *nonsig)
	}
	return nonsigs, nil
}

func newTestAuthService(users *stubUserRepo, nonsigs *stubNonsigRepo) *AuthService {
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			SessionTTLMinutes:       60,
			ConfirmationTTLHours:    720,
			PasswordResetTTLMinutes: 60,
			BcryptCost:              bcrypt.MinCost,
		},
	}
	return NewAuthService(cfg, AuthDependencies{
		UserRepo: users,
		Nonsigs:  NewNonsigService(nonsigs, nil),
	})
}

func TestRegisterRejectsMissingOrInactiveNonsig(t *testing.T) {
	users := newStubUserRepo()
	nonsigs := newStubNonsigRepo()
	require.NoError(t, nonsigs.Create(context.Background(), &domain.Nonsig{
		ID:          "ns-1",
		Code:        "000001234",
		IsActive:    false,
		IsActiveTHQ: true,
	}))

	svc := newTestAuthService(users, nonsigs)

	tests := []struct {
		name   string
		nonsig string
	}{
		{"unknown code", "9999"},
		{"inactive code", "1234"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := svc.Register(context.Background(), RegisterInput{
				Username:      "carol",
				Email:         "carol@example.com",
				DefaultNonsig: tc.nonsig,
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "no active nonsig found")
			assert.Empty(t, users.users)
		})
	}
}

func TestRegisterTruncatesNamesOnRuneBoundaries(t *testing.T) {
	users := newStubUserRepo()
	nonsigs := newStubNonsigRepo()
	require.NoError(t, nonsigs.Create(context.Background(), &domain.Nonsig{
		ID:          "ns-1",
		Code:        "000001234",
		IsActive:    true,
		IsActiveTHQ: true,
	}))

	svc := newTestAuthService(users, nonsigs)

	// 2-byte runes, so the 30-byte limit would land mid-rune without care.
	user, _, _, err := svc.Register(context.Background(), RegisterInput{
		Username:      "carol",
		Email:         "carol@example.com",
		FirstName:     strings.Repeat("é", 20),
		DefaultNonsig: "1234",
	})
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(user.FirstName))
	assert.LessOrEqual(t, len(user.FirstName), maxFirstNameLen)
	assert.Equal(t, strings.Repeat("é", 15), user.FirstName)
}

func TestAvailabilityTrimsProbes(t *testing.T) {
	users := newStubUserRepo()
	require.NoError(t, users.Create(context.Background(), &domain.User{
		ID:       "id-alice",
		Username: "alice",
		Email:    "alice@example.com",
	}))

	svc := newTestAuthService(users, newStubNonsigRepo())

	msgs, err := svc.Availability(context.Background(), " Alice ", " Alice@Example.com ")
	require.NoError(t, err)
	assert.Contains(t, msgs, "Username already in use")
	assert.Contains(t, msgs, "Email already in use. Please click on forgot password")
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	tests := []struct {
		value string
		max   int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"héllo", 2, "h"},
		{"héllo", 3, "hé"},
		{"日本語", 4, "日"},
		{"日本語", 6, "日本"},
	}
	for _, tc := range tests {
		got := truncate(tc.value, tc.max)
		assert.Equal(t, tc.want, got)
		assert.True(t, utf8.ValidString(got))
	}
}
