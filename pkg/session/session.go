// Package session verifies the signed session token the authentication
// framework leaves in a cookie, so pages can tell who is signed in.
package session

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrNoKey = errors.New("session: no verification key configured")

// Claims is the session payload. Name, Email and Image mirror the user
// fields the authentication framework exposes.
type Claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Image string `json:"picture,omitempty"`
}

// DisplayName returns the best available label for the signed-in user.
func (c *Claims) DisplayName() string {
	switch {
	case c.Name != "":
		return c.Name
	case c.Email != "":
		return c.Email
	default:
		return c.Subject
	}
}

// Verifier validates ES256 session tokens.
type Verifier struct {
	publicKey *ecdsa.PublicKey
	issuer    string
}

// NewVerifier builds a Verifier from a PEM-encoded ECDSA public key or EC
// private key. If issuer is non-empty, tokens must carry it.
func NewVerifier(keyPEM, issuer string) (*Verifier, error) {
	block, _ := pem.Decode([]byte(keyPEM))
	if block == nil {
		return nil, fmt.Errorf("failed to parse PEM block containing key")
	}

	var pub *ecdsa.PublicKey
	switch block.Type {
	case "EC PRIVATE KEY":
		priv, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse ECDSA private key: %w", err)
		}
		pub = &priv.PublicKey
	default:
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse public key: %w", err)
		}
		ecKey, ok := key.(*ecdsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("public key is not ECDSA")
		}
		pub = ecKey
	}

	return &Verifier{publicKey: pub, issuer: issuer}, nil
}

// Verify validates a token and returns its claims.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	if v == nil || v.publicKey == nil {
		return nil, ErrNoKey
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return v.publicKey, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// Signer issues session tokens. The site itself only verifies; Signer exists
// for local development and tests where no authentication service is running.
type Signer struct {
	privateKey *ecdsa.PrivateKey
	issuer     string
}

// NewSigner creates a Signer from a PEM-encoded EC private key.
func NewSigner(privateKeyPEM, issuer string) (*Signer, error) {
	block, _ := pem.Decode([]byte(privateKeyPEM))
	if block == nil {
		return nil, fmt.Errorf("failed to parse PEM block containing private key")
	}
	privateKey, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ECDSA private key: %w", err)
	}
	return &Signer{privateKey: privateKey, issuer: issuer}, nil
}

// Sign returns a signed token for subject, valid for expiresIn.
func (s *Signer) Sign(subject, name, email string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		Name:  name,
		Email: email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
