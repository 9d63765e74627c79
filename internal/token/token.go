// Package token signs and verifies the two JWT kinds the API issues: short
// lived access tokens carrying user identity, and long lived refresh tokens
// carrying only a session ID. Each kind uses its own RSA keypair so a refresh
// token can never pass as an access token or vice versa.
package token

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every verification failure: malformed
// input, bad signature, expiry, wrong key, or missing claims. Callers must
// not be able to distinguish why a token was rejected.
var ErrInvalidToken = errors.New("token: invalid token")

// AccessClaims is the payload of an access token.
type AccessClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a refresh token. It deliberately carries no
// user identity, only the session it can reactivate.
type RefreshClaims struct {
	SessionID string `json:"session"`
	jwt.RegisteredClaims
}

// Config holds the codec's signing material and token lifetimes.
type Config struct {
	AccessPrivateKey  *rsa.PrivateKey
	RefreshPrivateKey *rsa.PrivateKey
	AccessTTL         time.Duration
	RefreshTTL        time.Duration
	Issuer            string
}

// Codec signs and verifies access and refresh tokens.
type Codec struct {
	accessPriv  *rsa.PrivateKey
	accessPub   *rsa.PublicKey
	refreshPriv *rsa.PrivateKey
	refreshPub  *rsa.PublicKey
	accessTTL   time.Duration
	refreshTTL  time.Duration
	issuer      string
}

// NewCodec creates a Codec from the given configuration. Public keys are
// derived from the private keys.
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.AccessPrivateKey == nil || cfg.RefreshPrivateKey == nil {
		return nil, fmt.Errorf("token: both signing keys are required")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, fmt.Errorf("token: token lifetimes must be positive")
	}

	return &Codec{
		accessPriv:  cfg.AccessPrivateKey,
		accessPub:   &cfg.AccessPrivateKey.PublicKey,
		refreshPriv: cfg.RefreshPrivateKey,
		refreshPub:  &cfg.RefreshPrivateKey.PublicKey,
		accessTTL:   cfg.AccessTTL,
		refreshTTL:  cfg.RefreshTTL,
		issuer:      cfg.Issuer,
	}, nil
}

// AccessTTL returns the configured access token lifetime.
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// SignAccessToken mints an access token for the given user.
func (c *Codec) SignAccessToken(userID, email string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(c.accessTTL)

	claims := AccessClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(c.accessPriv)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

// SignRefreshToken mints a refresh token bound to the given session.
func (c *Codec) SignRefreshToken(sessionID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(c.refreshTTL)

	claims := RefreshClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(c.refreshPriv)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return signed, expiresAt, nil
}

// VerifyAccessToken validates an access token and returns its claims. Every
// failure mode collapses into ErrInvalidToken.
func (c *Codec) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := c.verify(tokenString, claims, c.accessPub); err != nil {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyRefreshToken validates a refresh token and returns its claims. Every
// failure mode collapses into ErrInvalidToken.
func (c *Codec) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := c.verify(tokenString, claims, c.refreshPub); err != nil {
		return nil, ErrInvalidToken
	}
	if claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (c *Codec) verify(tokenString string, claims jwt.Claims, pub *rsa.PublicKey) error {
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return pub, nil
	})
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}

// ParsePrivateKeyPEM decodes a PEM encoded RSA private key in either PKCS#1
// or PKCS#8 form.
func ParsePrivateKeyPEM(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("token: no PEM block found")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("token: parse private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("token: private key is not RSA")
	}
	return key, nil
}

// GenerateSigningKey creates a fresh RSA keypair and returns the private key
// as PKCS#1 PEM. Used in development mode and in tests; production deployments
// supply keys via configuration.
func GenerateSigningKey() ([]byte, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("token: generate key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}), nil
}
