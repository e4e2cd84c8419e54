package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// sessionTTL is deliberately long: the companion app runs on the player's
// own device and a round of golf should never be interrupted by a token
// expiring mid-fairway.
const sessionTTL = 30 * 24 * time.Hour

// SessionClaims are the JWT claims for a player session. PlayerID is the
// custom claim; RegisteredClaims carries expiry and a unique token id.
type SessionClaims struct {
	PlayerID int64 `json:"playerID"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed session token for a player.
func GenerateToken(playerID int64, secret string) (string, error) {
	claims := &SessionClaims{
		PlayerID: playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses a session token, verifies its signature and expiry,
// and returns the claims.
func ValidateToken(tokenString, secret string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
