package jwtx

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Signer issues EdDSA tokens. The service never signs tokens in production;
// this is for dev mode and tests that stand in for the auth provider.
type Signer struct {
	kid string
	key ed25519.PrivateKey
	pub ed25519.PublicKey
}

// NewSigner creates an EdDSA signer from PKCS8 PEM bytes.
func NewSigner(kid string, pemKey []byte) (*Signer, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, errors.New("jwtx: invalid PEM for Ed25519 key")
	}
	if block.Type != "PRIVATE KEY" {
		return nil, fmt.Errorf("jwtx: expected PRIVATE KEY, got %q (Ed25519 requires PKCS8)", block.Type)
	}

	priv, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse PKCS8: %w", err)
	}
	key, ok := priv.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("jwtx: not Ed25519 private key")
	}

	return &Signer{kid: kid, key: key, pub: key.Public().(ed25519.PublicKey)}, nil
}

func (s *Signer) KID() string                  { return s.kid }
func (s *Signer) PublicKey() ed25519.PublicKey { return s.pub }

// PublicJWK returns the JWK verifiers need to check this signer's tokens.
func (s *Signer) PublicJWK() JWK {
	return NewEd25519JWK(s.kid, s.pub)
}

// Sign turns claims into a signed compact JWT.
func (s *Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}
