package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"escalas/internal/caching"
	"escalas/internal/models"
	"escalas/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrTooManyAttempts is returned when login throttling kicks in.
var ErrTooManyAttempts = errors.New("too many login attempts, try again later")

// AuthService handles signup, login and JWT token management.
type AuthService interface {
	Signup(ctx context.Context, email, password, fullName string) (*models.TokenResponse, error)
	Login(ctx context.Context, email, password string) (*models.TokenResponse, error)
	GenerateTokens(ctx context.Context, userID, churchID uuid.UUID) (*models.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
	RevokeToken(ctx context.Context, token string, tokenType *string) error
}

type authService struct {
	userRepo     repositories.UserRepository
	userRoleRepo repositories.UserRoleRepository
	cacheSvc     caching.CacheService
	jwtSecret    []byte
	tokenTTL     int // Access token TTL in seconds
	refreshTTL   int // Refresh token TTL in seconds
}

// TokenClaims represents JWT claims. ChurchID is the nil UUID for users
// who do not belong to a church yet.
type TokenClaims struct {
	UserID   string `json:"user_id"`
	ChurchID string `json:"church_id"`
	TokenID  string `json:"token_id"`
	jwt.RegisteredClaims
}

func NewAuthService(
	userRepo repositories.UserRepository,
	userRoleRepo repositories.UserRoleRepository,
	cacheSvc caching.CacheService,
	jwtSecret string,
	tokenTTLSeconds, refreshTTLSeconds int,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		userRoleRepo: userRoleRepo,
		cacheSvc:     cacheSvc,
		jwtSecret:    []byte(jwtSecret),
		tokenTTL:     tokenTTLSeconds,
		refreshTTL:   refreshTTLSeconds,
	}
}

// Signup registers an account and logs it in. The new user belongs to no
// church until they create one or accept an invitation.
func (s *authService) Signup(ctx context.Context, email, password, fullName string) (*models.TokenResponse, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Status:       "active",
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.GenerateTokens(ctx, user.ID, uuid.Nil)
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	// Throttle per email to slow credential stuffing. A cache outage
	// must not lock everyone out, so errors skip the check.
	rateLimitKey := fmt.Sprintf("login_attempts:%s", normalized)
	if limited, err := s.cacheSvc.IsRateLimited(ctx, rateLimitKey, 10, time.Minute); err == nil && limited {
		return nil, ErrTooManyAttempts
	}

	user, err := s.userRepo.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %v", err)
	}
	if user == nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	churchID, err := s.userRoleRepo.ResolveChurchID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve church: %v", err)
	}
	return s.GenerateTokens(ctx, user.ID, churchID)
}

// GenerateTokens generates access and refresh tokens for a user
func (s *authService) GenerateTokens(ctx context.Context, userID, churchID uuid.UUID) (*models.TokenResponse, error) {
	now := time.Now()
	tokenID := uuid.NewString()

	claims := TokenClaims{
		UserID:   userID.String(),
		ChurchID: churchID.String(),
		TokenID:  tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "escalas-auth",
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{"escalas-api"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.tokenTTL) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessTokenString, err := accessToken.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %v", err)
	}

	// Refresh tokens are opaque; only their SHA-256 hash is stored.
	refreshToken := s.generateSecureToken()
	refreshTokenHash, err := s.hashToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to hash refresh token: %v", err)
	}

	// The hash is the cache key; the value only needs the identity and expiry.
	refreshTokenData := fmt.Sprintf("%s:%s:%d", userID.String(), churchID.String(), now.Unix()+int64(s.refreshTTL))
	cacheKey := fmt.Sprintf("refresh_token:%s", refreshTokenHash)
	if err := s.cacheSvc.SetString(ctx, cacheKey, refreshTokenData, time.Duration(s.refreshTTL)*time.Second); err != nil {
		log.Printf("Failed to store refresh token: %v", err)
		// Continue - token generation succeeded
	}

	return &models.TokenResponse{
		AccessToken:  accessTokenString,
		TokenType:    "Bearer",
		ExpiresIn:    s.tokenTTL,
		RefreshToken: refreshToken,
		UserID:       userID.String(),
		ChurchID:     churchID.String(),
		TokenID:      tokenID,
		IssuedAt:     now,
	}, nil
}

// RefreshToken validates and uses refresh token to generate new tokens
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	refreshTokenHash, err := s.hashToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to hash refresh token: %v", err)
	}

	cacheKey := fmt.Sprintf("refresh_token:%s", refreshTokenHash)
	tokenData, err := s.cacheSvc.GetString(ctx, cacheKey)
	if err != nil || tokenData == "" {
		return nil, fmt.Errorf("invalid refresh token")
	}

	parts := strings.Split(tokenData, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid token data")
	}

	userIDStr, churchIDStr, expiryStr := parts[0], parts[1], parts[2]
	expiry, err := strconv.ParseInt(expiryStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid token expiry")
	}
	if time.Now().Unix() > expiry {
		s.cacheSvc.Delete(ctx, cacheKey)
		return nil, fmt.Errorf("refresh token expired")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token")
	}
	churchID, err := uuid.Parse(churchIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid church ID in token")
	}

	// Refresh tokens are single use.
	s.cacheSvc.Delete(ctx, cacheKey)

	// Re-resolve the church on refresh so a user who joined or created a
	// church since login picks it up without logging out.
	if resolved, err := s.userRoleRepo.ResolveChurchID(ctx, userID); err == nil && resolved != uuid.Nil {
		churchID = resolved
	}

	return s.GenerateTokens(ctx, userID, churchID)
}

// ValidateToken validates JWT access token
func (s *authService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	jwtToken, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}

	claims, ok := jwtToken.Claims.(*TokenClaims)
	if !ok || !jwtToken.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	// Revoked access tokens sit on a blacklist until they expire anyway.
	blacklistKey := fmt.Sprintf("token_blacklist:%s", claims.TokenID)
	if val, err := s.cacheSvc.GetString(ctx, blacklistKey); err == nil && val != "" {
		return nil, fmt.Errorf("token has been revoked")
	}

	return claims, nil
}

// RevokeToken revokes an access or refresh token
func (s *authService) RevokeToken(ctx context.Context, token string, tokenType *string) error {
	if tokenType != nil && *tokenType == "refresh_token" {
		refreshTokenHash, err := s.hashToken(token)
		if err != nil {
			return fmt.Errorf("failed to hash refresh token: %v", err)
		}
		cacheKey := fmt.Sprintf("refresh_token:%s", refreshTokenHash)
		return s.cacheSvc.Delete(ctx, cacheKey)
	}

	claims, err := s.ValidateToken(ctx, token)
	if err != nil {
		return fmt.Errorf("cannot revoke invalid token: %v", err)
	}

	blacklistKey := fmt.Sprintf("token_blacklist:%s", claims.TokenID)
	if err := s.cacheSvc.SetString(ctx, blacklistKey, "revoked", time.Until(claims.ExpiresAt.Time)); err != nil {
		log.Printf("Failed to blacklist token: %v", err)
	}
	return nil
}

// generateSecureToken generates a cryptographically secure random token
func (s *authService) generateSecureToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return base64.URLEncoding.EncodeToString(bytes)
}

// hashToken creates a SHA-256 hash of the token for secure storage
func (s *authService) hashToken(token string) (string, error) {
	hasher := sha256.New()
	_, err := hasher.Write([]byte(token))
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
