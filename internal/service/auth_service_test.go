package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"tyrechat-be/internal/dto"
	"tyrechat-be/internal/entity"
	"tyrechat-be/internal/repository/specification"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo is an in-memory UserRepository. Lookups honor the same
// contract as the gorm implementation: revoked tokens are invisible.
type fakeUserRepo struct {
	users  map[string]*entity.User // keyed by email
	tokens map[string]*entity.RefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  map[string]*entity.User{},
		tokens: map[string]*entity.RefreshToken{},
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error { return nil }
func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }

func (f *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, s := range specs {
		switch q := s.(type) {
		case specification.ByEmail:
			return f.users[q.Email], nil
		case specification.ByID:
			for _, u := range f.users {
				if u.Id == q.ID {
					return u, nil
				}
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	f.tokens[token.TokenHash] = token
	return nil
}

func (f *fakeUserRepo) FindRefreshTokenByHash(ctx context.Context, hash string) (*entity.RefreshToken, error) {
	t, ok := f.tokens[hash]
	if !ok || t.Revoked {
		return nil, nil
	}
	return t, nil
}

func (f *fakeUserRepo) RevokeRefreshToken(ctx context.Context, id uuid.UUID) error {
	for _, t := range f.tokens {
		if t.Id == id {
			t.Revoked = true
		}
	}
	return nil
}

const testSecret = "test-secret"

func register(t *testing.T, svc IAuthService) *dto.RegisterResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "asha@example.com",
		Password: "hunter22",
		FullName: "Asha Rao",
	})
	require.NoError(t, err)
	return resp
}

func TestAuthRegister(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testSecret)

	resp := register(t, svc)
	assert.Equal(t, "asha@example.com", resp.Email)
	assert.NotEmpty(t, resp.UserId)

	// The stored password is a bcrypt hash, never the plaintext.
	stored := repo.users["asha@example.com"]
	require.NotNil(t, stored)
	require.NotNil(t, stored.PasswordHash)
	assert.NotContains(t, *stored.PasswordHash, "hunter22")
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testSecret)
	register(t, svc)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "asha@example.com",
		Password: "other",
		FullName: "Someone Else",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testSecret)
	reg := register(t, svc)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "asha@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, reg.UserId, resp.UserId)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	// The access token is a valid HS256 JWT carrying the user id.
	token, err := jwt.Parse(resp.AccessToken, func(tok *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, reg.UserId, claims["user_id"])

	// The refresh token is opaque; only a hash of it is stored.
	_, stored := repo.tokens[resp.RefreshToken]
	assert.False(t, stored)
	assert.Len(t, repo.tokens, 1)
}

func TestAuthLoginBadCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testSecret)
	register(t, svc)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "asha@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthRefreshRotates(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testSecret)
	register(t, svc)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "asha@example.com", Password: "hunter22"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.NotEmpty(t, refreshed.AccessToken)

	// The presented token was revoked by the rotation; replaying it fails.
	_, err = svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidRefresh)

	// The new one still works.
	_, err = svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: refreshed.RefreshToken})
	assert.NoError(t, err)
}

func TestAuthRefreshExpired(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testSecret)
	register(t, svc)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "asha@example.com", Password: "hunter22"})
	require.NoError(t, err)

	for _, tok := range repo.tokens {
		tok.ExpiresAt = time.Now().Add(-time.Minute)
	}

	_, err = svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestAuthRefreshUnknownToken(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), testSecret)

	_, err := svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: "deadbeef"})
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestAuthLogout(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testSecret)
	register(t, svc)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "asha@example.com", Password: "hunter22"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken))

	_, err = svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidRefresh)

	// Logging out an unknown token is a no-op, not an error.
	assert.NoError(t, svc.Logout(context.Background(), "unknown"))
}

func TestAuthProfile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testSecret)
	reg := register(t, svc)

	profile, err := svc.Profile(context.Background(), reg.UserId)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", profile.Email)
	assert.Equal(t, "Asha Rao", profile.FullName)

	_, err = svc.Profile(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrUserNotFound)

	// Guest ids are not account uuids.
	_, err = svc.Profile(context.Background(), "guest0000000001")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGuestRegisterFormat(t *testing.T) {
	svc := NewGuestService()

	seen := map[string]struct{}{}
	for i := 0; i < 20; i++ {
		resp, err := svc.Register()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(resp.GuestId, "guest"))
		assert.Len(t, resp.GuestId, len("guest")+10)
		seen[resp.GuestId] = struct{}{}
	}
	// Collisions across 20 draws from a 10^10 space would mean the RNG is
	// broken.
	assert.Len(t, seen, 20)
}
