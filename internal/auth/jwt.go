package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenManager issues and verifies the signed session tokens carried in
// the Authorization header. A token encodes a single claim of interest:
// the subject user id.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func (m *TokenManager) Issue(subjectID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"sub": subjectID.String(),
		"exp": time.Now().Add(m.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Decode returns the subject user id of a valid token. Expired,
// malformed, or wrongly signed tokens all come back as a single error;
// callers treat any failure as unauthenticated.
func (m *TokenManager) Decode(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})

	if err != nil || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return uuid.Nil, fmt.Errorf("invalid token claims")
	}

	subject, ok := claims["sub"].(string)

	if !ok {
		return uuid.Nil, fmt.Errorf("missing subject claim")
	}

	subjectID, err := uuid.Parse(subject)

	if err != nil {
		return uuid.Nil, fmt.Errorf("malformed subject claim")
	}

	return subjectID, nil
}
