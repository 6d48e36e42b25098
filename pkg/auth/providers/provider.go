package providers

import "context"

// AuthProvider turns a bearer token into the identity of a participant.
type AuthProvider interface {
	VerifyToken(ctx context.Context, idToken string) (*TokenClaims, error)
}

type TokenClaims struct {
	// UID is the participant ID
	UID string `json:"uid"`
}
