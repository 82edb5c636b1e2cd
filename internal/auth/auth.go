package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ukydev/eco-routes/internal/models"
)

var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token expired")
	ErrCustomTokenDisabled = errors.New("custom token sign-in is not configured")
)

const defaultSecret = "default-secret-key-change-in-production"

// Service issues and validates session tokens
type Service struct {
	jwtSecret    []byte
	customSecret []byte
	tokenExp     time.Duration
	now          func() time.Time
}

// NewService creates a new authentication service. An empty customSecret
// disables custom token sign-in.
func NewService(secret string, expiry time.Duration, customSecret string) *Service {
	if secret == "" {
		secret = defaultSecret
	}
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &Service{
		jwtSecret:    []byte(secret),
		customSecret: []byte(customSecret),
		tokenExp:     expiry,
		now:          time.Now,
	}
}

// SignInAnonymously mints a fresh user id and a session for it
func (s *Service) SignInAnonymously() (*models.SignInResponse, error) {
	return s.signIn(uuid.NewString(), true)
}

// SignInWithCustomToken exchanges a token minted by a trusted party for a
// session. The token must be HMAC signed with the custom secret and carry
// a "uid" claim.
func (s *Service) SignInWithCustomToken(token string) (*models.SignInResponse, error) {
	if len(s.customSecret) == 0 {
		return nil, ErrCustomTokenDisabled
	}

	claims, err := s.parse(token, s.customSecret)
	if err != nil {
		return nil, err
	}

	uid, ok := claims["uid"].(string)
	if !ok || strings.TrimSpace(uid) == "" {
		return nil, ErrInvalidToken
	}
	return s.signIn(uid, false)
}

func (s *Service) signIn(userID string, anonymous bool) (*models.SignInResponse, error) {
	token, exp, err := s.GenerateToken(userID, anonymous)
	if err != nil {
		return nil, err
	}
	return &models.SignInResponse{
		UserID:    userID,
		Token:     token,
		Anonymous: anonymous,
		ExpiresAt: exp,
	}, nil
}

// GenerateToken generates a session JWT and returns it with its expiry
func (s *Service) GenerateToken(userID string, anonymous bool) (string, int64, error) {
	now := s.now()
	exp := now.Add(s.tokenExp).Unix()
	claims := jwt.MapClaims{
		"user_id":   userID,
		"anonymous": anonymous,
		"exp":       exp,
		"iat":       now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

// ValidateToken validates a session JWT and returns the claims
func (s *Service) ValidateToken(tokenString string) (*models.Claims, error) {
	// Remove "Bearer " prefix if present
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	claims, err := s.parse(tokenString, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidToken
	}

	anonymous, _ := claims["anonymous"].(bool)

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}

	return &models.Claims{
		UserID:    userID,
		Anonymous: anonymous,
		Exp:       int64(exp),
	}, nil
}

func (s *Service) parse(tokenString string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractTokenFromHeader extracts token from Authorization header
func (s *Service) ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrInvalidToken
	}

	return parts[1], nil
}
