package auth

import (
	"context"
	"errors"
)

type principalKey struct{}

// WithPrincipal marks the context as attested for one principal. The HTTP
// layer sets this from its authenticated caller identity; tests set it
// directly to impersonate actors.
func WithPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// ContextAttestor proves attribution by comparing the requested principal
// with the attested identity carried on the context.
type ContextAttestor struct{}

func (ContextAttestor) Attest(ctx context.Context, principal string) error {
	attested, _ := ctx.Value(principalKey{}).(string)
	if attested == "" || attested != principal {
		return errors.New("invocation is not attributable to principal")
	}
	return nil
}
