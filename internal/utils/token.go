package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenTTL bounds every issued session token.
const AccessTokenTTL = 24 * time.Hour

const (
	TokenTypeUser  = "token"
	TokenTypeAdmin = "admintoken"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the signed session payload. Type distinguishes admin
// tokens from regular ones and doubles as the response key on login.
type Claims struct {
	ID      uint   `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	Type    string `json:"type"`
	jwt.RegisteredClaims
}

// CreateAccessToken signs a 24h HS256 token for the given identity and
// returns it together with its type.
func CreateAccessToken(secret []byte, id uint, email string, isAdmin bool) (string, string, error) {
	tokenType := TokenTypeUser
	if isAdmin {
		tokenType = TokenTypeAdmin
	}
	claims := Claims{
		ID:      id,
		Email:   email,
		IsAdmin: isAdmin,
		Type:    tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(AccessTokenTTL)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", "", err
	}
	return tok, tokenType, nil
}

func ParseAccessToken(secret []byte, tokenStr string) (*Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
