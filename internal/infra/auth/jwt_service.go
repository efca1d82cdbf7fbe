// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"blogsphere/config"
	domainerrors "blogsphere/internal/domain/errors"
	"blogsphere/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	accessSecret string           // Secret key for signing session tokens.
	accessTTL    time.Duration    // Time-to-live for session tokens.
	now          func() time.Time // Clock used for iat/exp and validation.
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	ttl := 30 * 24 * time.Hour
	if cfg.Auth != nil && cfg.Auth.SessionTTL > 0 {
		ttl = cfg.Auth.SessionTTL
	}

	return &jwtService{
		accessSecret: cfg.SecretKey.Access,
		accessTTL:    ttl,
		now:          time.Now,
	}, nil
}

// Issue creates a signed HS256 session token for the given user.
func (s *jwtService) Issue(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),             // Subject (who the token is for)
		"iat":  now.Unix(),                  // Issued At
		"exp":  now.Add(s.accessTTL).Unix(), // Expiration Time
		"type": service.TokenTypeAccess,     // Type of token
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.accessSecret))
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}

	return signed, nil
}

// Validate checks the signature, algorithm and expiry of a token string.
func (s *jwtService) Validate(tokenString string) (*service.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.accessSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized.WrapMessage(err.Error())
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, domainerrors.ErrUnauthorized.WrapMessage("failed to parse token claims")
	}

	if tokenType, _ := claims["type"].(string); tokenType != service.TokenTypeAccess {
		return nil, domainerrors.ErrUnauthorized.WrapMessage("unexpected token type")
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return nil, domainerrors.ErrUnauthorized.WrapMessage("user ID missing from token")
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized.WrapMessage("invalid user ID format in token")
	}

	result := &service.Claims{UserID: userID, Type: service.TokenTypeAccess}
	result.Subject = subject
	if exp, err := claims.GetExpirationTime(); err == nil {
		result.ExpiresAt = exp
	}
	if iat, err := claims.GetIssuedAt(); err == nil {
		result.IssuedAt = iat
	}

	return result, nil
}

// TTL returns the configured duration for session tokens.
func (s *jwtService) TTL() time.Duration {
	return s.accessTTL
}
