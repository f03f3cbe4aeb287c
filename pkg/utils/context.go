package utils

import (
	"context"

	"loyalty-rewards/pkg/token"
)

type contextKey string

const (
	PrincipalKey   contextKey = "principal"
	RequestBodyKey contextKey = "request_body"
)

func SetPrincipal(ctx context.Context, p token.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

func GetPrincipal(ctx context.Context) (token.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(token.Principal)
	return p, ok
}

// SetRequestBody keeps a bounded copy of the request body for error logging.
func SetRequestBody(ctx context.Context, body string) context.Context {
	return context.WithValue(ctx, RequestBodyKey, body)
}

func GetRequestBody(ctx context.Context) string {
	body, _ := ctx.Value(RequestBodyKey).(string)
	return body
}
