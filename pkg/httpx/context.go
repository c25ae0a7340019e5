package httpx

import "context"

type ctxKey string

const (
	CtxKeySubject ctxKey = "subject" // auth provider subject (Identity.ExternalAuthID)
	CtxKeyScopes  ctxKey = "scopes"
	CtxKeyClaims  ctxKey = "claims"
)

// SubjectFromContext returns the authenticated subject, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(CtxKeySubject).(string)
	return sub, ok && sub != ""
}

func scopesFromCtx(ctx context.Context) []string {
	if v, ok := ctx.Value(CtxKeyScopes).([]string); ok {
		return v
	}
	return nil
}
