package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuerName = "mandat-lite"

type sessionClaims struct {
	jwt.RegisteredClaims
	Username  string `json:"username"`
	AccountID uint64 `json:"account_id"`
}

// TokenIssuer mints and verifies HS256 session tokens. Revocation is
// handled by the account store, keyed on the token id claim.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	key := []byte(secret)
	if len(key) == 0 {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			panic(fmt.Sprintf("auth: generate token secret: %v", err))
		}
		key = []byte(hex.EncodeToString(buf))
		log.Printf("[Auth] no token secret configured, sessions will not survive restarts")
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &TokenIssuer{secret: key, ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) Issue(ident Identity) (string, error) {
	now := t.now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuerName,
			Subject:   ident.Username,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Username:  ident.Username,
		AccountID: ident.AccountID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses a signed token and returns its claims. Expired or
// malformed tokens fail; revocation is checked by the caller.
func (t *TokenIssuer) Verify(token string) (sessionClaims, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuerName),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return sessionClaims{}, err
	}
	if !parsed.Valid {
		return sessionClaims{}, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}
