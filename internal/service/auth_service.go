package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"billflow/internal/config"
	"billflow/internal/domain"
	"billflow/internal/logger"
	"billflow/internal/port"
)

// Claims represents the JWT claims with namespace context.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string           `json:"user_id"`
	Email     string           `json:"email"`
	Namespace domain.Namespace `json:"namespace"`
}

// TokenPair holds access and refresh tokens.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// RegisterInput is the DTO for account registration.
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

// LoginInput is the DTO for login requests.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// RefreshInput is the DTO for token refresh requests.
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthOutput is returned by register and login.
type AuthOutput struct {
	AccountID string           `json:"account_id"`
	Email     string           `json:"email"`
	Name      string           `json:"name"`
	Namespace domain.Namespace `json:"namespace"`
	Tokens    *TokenPair       `json:"tokens"`
}

// AuthService defines the authentication contract.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthOutput, error)
	Login(ctx context.Context, input LoginInput) (*AuthOutput, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	ValidateToken(tokenString string) (*Claims, error)
	IssueToken(ctx context.Context, email string) (*TokenPair, error)
}

type authService struct {
	store port.DocumentStore
	cfg   config.JWTConfig
}

// NewAuthService creates a new AuthService implementation.
func NewAuthService(store port.DocumentStore, cfg config.JWTConfig) AuthService {
	return &authService{store: store, cfg: cfg}
}

func accountKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) account(ctx context.Context, email string) (*domain.Account, error) {
	data, err := s.store.Get(ctx, domain.CollectionAccounts, accountKey(email))
	if err != nil {
		return nil, err
	}
	var acc domain.Account
	if err := json.Unmarshal(data, &acc); err != nil {
		return nil, fmt.Errorf("decoding account: %w", err)
	}
	return &acc, nil
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*AuthOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	_, err := s.account(ctx, input.Email)
	if err == nil {
		return nil, domain.ErrDuplicateEmail
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("auth.Register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	acc := &domain.Account{
		ID:           uuid.New().String(),
		Email:        accountKey(input.Email),
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	data, err := json.Marshal(acc)
	if err != nil {
		return nil, fmt.Errorf("encoding account: %w", err)
	}
	if err := s.store.Set(ctx, domain.CollectionAccounts, acc.Email, data); err != nil {
		return nil, fmt.Errorf("auth.Register: %w", err)
	}

	tokens, err := s.generateTokenPair(acc)
	if err != nil {
		return nil, err
	}
	log := logger.WithComponent("auth")
	log.Info().Str("account_id", acc.ID).Msg("authService.Register: account created")
	return authOutput(acc, tokens), nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*AuthOutput, error) {
	acc, err := s.account(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth.Login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	tokens, err := s.generateTokenPair(acc)
	if err != nil {
		return nil, err
	}
	return authOutput(acc, tokens), nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.validateTokenString(refreshToken, "refresh")
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	acc, err := s.account(ctx, claims.Email)
	if err != nil || acc.ID != claims.UserID {
		return nil, domain.ErrUnauthorized
	}
	return s.generateTokenPair(acc)
}

// IssueToken mints a token pair for an existing account without a password.
// It backs the operator CLI.
func (s *authService) IssueToken(ctx context.Context, email string) (*TokenPair, error) {
	acc, err := s.account(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.generateTokenPair(acc)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	return s.validateTokenString(tokenString, "access")
}

func authOutput(acc *domain.Account, tokens *TokenPair) *AuthOutput {
	return &AuthOutput{
		AccountID: acc.ID,
		Email:     acc.Email,
		Name:      acc.Name,
		Namespace: acc.Namespace(),
		Tokens:    tokens,
	}
}

func (s *authService) sign(acc *domain.Account, audience string, now, expiry time.Time) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acc.ID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{audience},
		},
		UserID:    acc.ID,
		Email:     acc.Email,
		Namespace: acc.Namespace(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing %s token: %w", audience, err)
	}
	return signed, nil
}

func (s *authService) generateTokenPair(acc *domain.Account) (*TokenPair, error) {
	now := time.Now()
	accessExpiry := now.Add(s.cfg.AccessTokenExpiry)

	access, err := s.sign(acc, "access", now, accessExpiry)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(acc, "refresh", now, now.Add(s.cfg.RefreshTokenExpiry))
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: accessExpiry}, nil
}

func (s *authService) validateTokenString(tokenString, audience string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithAudience(audience))
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
