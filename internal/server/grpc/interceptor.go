package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/conecta/internal/common"
	"github.com/dmitrijs2005/conecta/internal/remoteapi"
	"github.com/dmitrijs2005/conecta/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const roleKey ctxKey = "role"

// Methods callable without an API key.
var publicMethods = map[string]bool{
	remoteapi.MethodPing: true,
}

func (s *GRPCServer) apiKeyInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var apiKey string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.APIKeyHeaderName)
		if len(values) > 0 {
			apiKey = values[0]
		}
	}
	if len(apiKey) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing api key")
	}

	role, err := auth.ParseAPIKey(apiKey, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}

	return handler(withRole(ctx, role), req)
}

func withRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey, role)
}

// RoleFromContext returns the role of the API key that authorised the call.
func RoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleKey).(string)
	return role, ok
}
