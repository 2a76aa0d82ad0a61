package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"tyrechat-be/internal/dto"
	"tyrechat-be/internal/entity"
	"tyrechat-be/internal/repository/contract"
	"tyrechat-be/internal/repository/specification"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 1 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRefresh     = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.RefreshResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Profile(ctx context.Context, userId string) (*dto.ProfileResponse, error)
}

type authService struct {
	users     contract.UserRepository
	jwtSecret []byte
}

func NewAuthService(users contract.UserRepository, jwtSecret string) IAuthService {
	return &authService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	existing, err := s.users.FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	var phone *string
	if req.Phone != "" {
		phone = &req.Phone
	}

	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: &hashStr,
		Phone:        phone,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{
		UserId:   user.Id.String(),
		Email:    user.Email,
		FullName: user.FullName,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	access, err := s.issueAccessToken(user.Id)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issueRefreshToken(ctx, user.Id)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		UserId:       user.Id.String(),
		Email:        user.Email,
		FullName:     user.FullName,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.RefreshResponse, error) {
	stored, err := s.users.FindRefreshTokenByHash(ctx, hashToken(req.RefreshToken))
	if err != nil {
		return nil, err
	}
	if stored == nil || time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidRefresh
	}

	// Rotate: revoke the presented token, issue a fresh pair.
	if err := s.users.RevokeRefreshToken(ctx, stored.Id); err != nil {
		return nil, err
	}

	access, err := s.issueAccessToken(stored.UserId)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issueRefreshToken(ctx, stored.UserId)
	if err != nil {
		return nil, err
	}

	return &dto.RefreshResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	stored, err := s.users.FindRefreshTokenByHash(ctx, hashToken(refreshToken))
	if err != nil {
		return err
	}
	if stored == nil {
		return nil // already gone, nothing to revoke
	}
	return s.users.RevokeRefreshToken(ctx, stored.Id)
}

func (s *authService) Profile(ctx context.Context, userId string) (*dto.ProfileResponse, error) {
	id, err := uuid.Parse(userId)
	if err != nil {
		return nil, ErrUserNotFound
	}
	user, err := s.users.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	res := &dto.ProfileResponse{
		UserId:   user.Id.String(),
		Email:    user.Email,
		FullName: user.FullName,
	}
	if user.Phone != nil {
		res.Phone = *user.Phone
	}
	return res, nil
}

func (s *authService) issueAccessToken(userId uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userId.String(),
		"exp":     time.Now().Add(accessTokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *authService) issueRefreshToken(ctx context.Context, userId uuid.UUID) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)

	err := s.users.CreateRefreshToken(ctx, &entity.RefreshToken{
		Id:        uuid.New(),
		UserId:    userId,
		TokenHash: hashToken(token),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
		CreatedAt: time.Now(),
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Refresh tokens are opaque; only their sha256 lands in the database.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
