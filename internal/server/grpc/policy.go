package grpc

import (
	"context"

	"github.com/dmitrijs2005/conecta/internal/client/models"
	"github.com/dmitrijs2005/conecta/internal/client/remote"
	"github.com/dmitrijs2005/conecta/internal/remoteapi"
	"github.com/dmitrijs2005/conecta/internal/server/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const credentialColumn = "password_hash"

// Tables an anon key may write, per operation. Reads are open except for
// credentials; deletes need a service key.
var anonWrites = map[string]map[string]bool{
	"insert": {remote.TableUsers: true, remote.TableActivities: true},
	"upsert": {remote.TableSettings: true, remote.TableIcons: true},
}

func isService(ctx context.Context) bool {
	role, _ := RoleFromContext(ctx)
	return role == auth.RoleService
}

// authorize checks req against the caller's role. Calls without a role are
// treated as anon.
func (s *GRPCServer) authorize(ctx context.Context, op string, req remoteapi.Request) error {
	if isService(ctx) {
		return nil
	}

	if _, ok := req.Filter[credentialColumn]; ok {
		return s.deny(ctx, op, req.Table)
	}

	switch op {
	case "select", "get":
		return nil
	case "insert", "upsert":
		if !anonWrites[op][req.Table] {
			return s.deny(ctx, op, req.Table)
		}
		// self-registration only creates plain users
		if req.Table == remote.TableUsers && req.Row["user_type"] != string(models.UserTypeUser) {
			return s.deny(ctx, op, req.Table)
		}
		return nil
	}
	return s.deny(ctx, op, req.Table)
}

func (s *GRPCServer) deny(ctx context.Context, op, table string) error {
	role, _ := RoleFromContext(ctx)
	s.logger.Warn(ctx, "request denied", "op", op, "table", table, "role", role)
	return status.Error(codes.PermissionDenied, "permission denied")
}

// redact drops credentials from users rows returned to non-service callers.
func redact(ctx context.Context, table string, row map[string]any) map[string]any {
	if table != remote.TableUsers || isService(ctx) {
		return row
	}
	delete(row, credentialColumn)
	return row
}
