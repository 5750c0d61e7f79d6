package shared

import (
	"context"
	"fmt"
	"time"
)

type ctxKey string

const (
	accessTokenKey ctxKey = "access_token"
	clientIPKey    ctxKey = "client_ip"
	requestIDKey   ctxKey = "request_id"
)

// WithAccessToken gắn bearer token của user vào request context
// upstream client đọc lại để forward Authorization header
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey, token)
}

func AccessTokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey).(string)
	return token
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

func ClientIPFrom(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// ServiceTokenIssuer phát hành token ngắn hạn cho worker (pkg/jwt.Manager)
type ServiceTokenIssuer interface {
	GenerateServiceToken(subject string, ttl time.Duration) (string, error)
}

const serviceTokenTTL = 5 * time.Minute

// AuthorizeService gắn service token vào ctx để upstream client forward
func AuthorizeService(ctx context.Context, issuer ServiceTokenIssuer, subject string) (context.Context, error) {
	token, err := issuer.GenerateServiceToken(subject, serviceTokenTTL)
	if err != nil {
		return ctx, fmt.Errorf("issue service token: %w", err)
	}
	return WithAccessToken(ctx, token), nil
}
