package invitesdk

import (
	"context"
	"errors"
)

// TokenSource yields a bearer token from the auth provider. Implementations
// own refresh; the SDK asks for a token on every request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource for a token that is already known.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", errors.New("invitesdk: empty bearer token")
	}
	return string(t), nil
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// Session is an authenticated view of the service.
type Session struct {
	client *SDKClient
	tokens TokenSource
}
