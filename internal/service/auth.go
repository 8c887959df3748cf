package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/bidmarket/auction-service/internal/models"
	"github.com/bidmarket/auction-service/internal/repository"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password must be at least 6 characters long")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

const minPasswordLength = 6

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// TokenResponse carries a freshly issued bearer token.
type TokenResponse struct {
	Token     string `json:"token"`
	UserID    int64  `json:"-"`
	ExpiresIn int64  `json:"expires_in"`
}

// AuthService handles account creation, credential verification and token
// lifecycle.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*TokenResponse, error)
	SignIn(ctx context.Context, email, password string) (*TokenResponse, error)
	SignOut(ctx context.Context, token string) error
	// Authenticate verifies a bearer token and returns the account id it was
	// issued for. Revoked tokens fail even before their expiry.
	Authenticate(ctx context.Context, token string) (int64, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService JWTService
	redis      *redis.Client
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(userRepo repository.UserRepository, jwtService JWTService, redisClient *redis.Client) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		redis:      redisClient,
	}
}

func (s *authService) SignUp(ctx context.Context, email, password string) (*TokenResponse, error) {
	if !emailRegex.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique index is the authority; the pre-check above only covers
		// the common case.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return s.issueToken(user.ID)
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user.ID)
}

func (s *authService) SignOut(ctx context.Context, token string) error {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return err
	}

	// Denylist the token for however long it would otherwise stay valid.
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.redis.Set(ctx, revokedKey(token), "1", ttl).Err()
}

func (s *authService) Authenticate(ctx context.Context, token string) (int64, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return 0, err
	}

	revoked, err := s.redis.Exists(ctx, revokedKey(token)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked > 0 {
		return 0, ErrTokenRevoked
	}

	return claims.UserID, nil
}

func (s *authService) issueToken(userID int64) (*TokenResponse, error) {
	token, err := s.jwtService.GenerateToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &TokenResponse{
		Token:     token,
		UserID:    userID,
		ExpiresIn: int64(s.jwtService.Expiry().Seconds()),
	}, nil
}

func revokedKey(token string) string {
	return fmt.Sprintf("revoked_token:%s", token)
}
