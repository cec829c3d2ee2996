// Package quicklink builds the quick-response links embedded in reminder
// emails. Tokens are display-only nonces: nothing stores or validates them
// server-side, so uniqueness is best-effort by construction (millisecond
// timestamp plus a short random suffix).
package quicklink

import (
	"crypto/rand"
	"fmt"
	"time"
)

const (
	tokenPrefix    = "resp"
	suffixLen      = 9
	base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Generator builds quick-response URLs against a fixed base URL. The base URL
// is resolved once at startup and injected — the generator never consults the
// environment itself.
type Generator struct {
	baseURL string
}

// New returns a Generator for baseURL.
func New(baseURL string) *Generator {
	return &Generator{baseURL: baseURL}
}

// URL returns the full callback link: <base>?response=<token>.
func (g *Generator) URL() (string, error) {
	token, err := Token()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s?response=%s", g.baseURL, token), nil
}

// Token returns "resp_<epoch-millis>_<9 random base36 chars>".
func Token() (string, error) {
	b := make([]byte, suffixLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token suffix: %w", err)
	}
	// Modulo bias is acceptable here: the suffix only disambiguates links
	// generated within the same millisecond.
	for i := range b {
		b[i] = base36Alphabet[int(b[i])%len(base36Alphabet)]
	}
	return fmt.Sprintf("%s_%d_%s", tokenPrefix, time.Now().UnixMilli(), b), nil
}
