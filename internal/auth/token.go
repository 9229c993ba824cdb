package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/support-chat/chat-service/internal/errs"
	"github.com/support-chat/chat-service/internal/model"
)

const tokenTTL = 7 * 24 * time.Hour

// Claims carries the identity fields the messaging layer needs without a
// database round-trip per request.
type Claims struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// IssueToken signs a session token for the user.
func IssueToken(secret string, u *model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   u.ID,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies a session token. Any parse or validation failure is
// reported as ErrUnauthenticated; callers do not distinguish further.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.ErrUnauthenticated
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errs.ErrUnauthenticated
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errs.ErrUnauthenticated
	}
	return claims, nil
}
