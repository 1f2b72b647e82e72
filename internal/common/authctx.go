package common

import "context"

type ctxKey string

const guardianIDKey ctxKey = "auth/guardian-id"

// WithGuardianID stores the authenticated guardian identifier on the context.
func WithGuardianID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, guardianIDKey, id)
}

// GuardianID extracts the authenticated guardian identifier from the context.
func GuardianID(ctx context.Context) (string, bool) {
	v := ctx.Value(guardianIDKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
