package providers

import (
	"context"
	"fmt"
	"strings"
)

var _ AuthProvider = &StaticAuthProvider{}

// StaticAuthProvider accepts a fixed table of tokens. It is meant for local
// play and tests where no identity service is available.
type StaticAuthProvider struct {
	tokens map[string]string
}

// NewStaticAuthProvider creates a provider mapping each token to its participant ID
func NewStaticAuthProvider(tokens map[string]string) *StaticAuthProvider {
	t := make(map[string]string, len(tokens))
	for token, uid := range tokens {
		t[token] = uid
	}
	return &StaticAuthProvider{tokens: t}
}

// ParseStaticTokens parses a list of token=uid pairs separated by commas
func ParseStaticTokens(s string) (map[string]string, error) {
	tokens := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		token, uid, ok := strings.Cut(pair, "=")
		if !ok || token == "" || uid == "" {
			return nil, fmt.Errorf("invalid static token %q", pair)
		}
		tokens[token] = uid
	}
	return tokens, nil
}

func (p *StaticAuthProvider) VerifyToken(ctx context.Context, idToken string) (*TokenClaims, error) {
	uid, ok := p.tokens[idToken]
	if !ok {
		return nil, fmt.Errorf("unknown token")
	}
	return &TokenClaims{UID: uid}, nil
}
