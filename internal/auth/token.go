package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
)

// Issuer mints and verifies HMAC-signed bearer tokens. A token is
// base64url(principal) + "." + base64url(hmac-sha256(principal)).
type Issuer struct {
	secret []byte
}

// NewIssuer creates a token issuer from the signing secret.
func NewIssuer(secret []byte) (*Issuer, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("auth: signing secret too short (%d bytes)", len(secret))
	}
	return &Issuer{secret: secret}, nil
}

// Mint issues a bearer token for the principal.
func (i *Issuer) Mint(principal string) (string, error) {
	principal = strings.TrimSpace(principal)
	if IsAnonymous(principal) {
		return "", fmt.Errorf("auth: cannot mint a token for %q", principal)
	}
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(principal)) + "." + enc.EncodeToString(i.sign(principal)), nil
}

// Verify checks a bearer token and returns the principal it names.
func (i *Issuer) Verify(token string) (string, error) {
	payload, sig, ok := strings.Cut(token, ".")
	if !ok {
		return "", fmt.Errorf("auth: malformed token")
	}
	enc := base64.RawURLEncoding
	rawPrincipal, err := enc.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("auth: malformed token payload: %w", err)
	}
	rawSig, err := enc.DecodeString(sig)
	if err != nil {
		return "", fmt.Errorf("auth: malformed token signature: %w", err)
	}
	principal := string(rawPrincipal)
	if !hmac.Equal(rawSig, i.sign(principal)) {
		return "", fmt.Errorf("auth: invalid token signature")
	}
	if IsAnonymous(principal) {
		return "", fmt.Errorf("auth: token names no principal")
	}
	return principal, nil
}

func (i *Issuer) sign(principal string) []byte {
	mac := hmac.New(sha256.New, i.secret)
	mac.Write([]byte(principal))
	return mac.Sum(nil)
}
