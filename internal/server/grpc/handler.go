package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/conecta/internal/client/remote"
	"github.com/dmitrijs2005/conecta/internal/credentials"
	"github.com/dmitrijs2005/conecta/internal/pgstore"
	"github.com/dmitrijs2005/conecta/internal/remoteapi"
	"github.com/dmitrijs2005/conecta/internal/server/reports"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) decode(ctx context.Context, in *structpb.Struct) (remoteapi.Request, error) {
	req, err := remoteapi.DecodeRequest(in)
	if err != nil {
		return req, status.Error(codes.InvalidArgument, err.Error())
	}
	return req, nil
}

func (s *GRPCServer) mapError(ctx context.Context, op, table string, err error) error {
	switch {
	case errors.Is(err, remote.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, pgstore.ErrUnknownTable),
		errors.Is(err, pgstore.ErrUnknownColumn),
		errors.Is(err, pgstore.ErrEmptyFilter),
		errors.Is(err, remoteapi.ErrBadRequest),
		errors.Is(err, reports.ErrInvalidName):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		s.logger.Error(ctx, "store call failed", "op", op, "table", table, "err", err)
		return status.Error(codes.Internal, "internal error")
	}
}

func (s *GRPCServer) Select(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := s.decode(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, "select", req); err != nil {
		return nil, err
	}

	rows, err := s.store.Select(ctx, req.Table, req.Filter)
	if err != nil {
		return nil, s.mapError(ctx, "select", req.Table, err)
	}

	plain := make([]map[string]any, len(rows))
	for i, r := range rows {
		plain[i] = redact(ctx, req.Table, r)
	}
	out, err := remoteapi.EncodeRows(plain)
	if err != nil {
		return nil, s.mapError(ctx, "select", req.Table, err)
	}
	return out, nil
}

func (s *GRPCServer) Get(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := s.decode(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, "get", req); err != nil {
		return nil, err
	}

	row, err := s.store.Get(ctx, req.Table, req.Filter)
	if err != nil {
		return nil, s.mapError(ctx, "get", req.Table, err)
	}

	out, err := remoteapi.EncodeRow(redact(ctx, req.Table, row))
	if err != nil {
		return nil, s.mapError(ctx, "get", req.Table, err)
	}
	return out, nil
}

func (s *GRPCServer) Insert(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	req, err := s.decode(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, "insert", req); err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, req.Table, req.Row); err != nil {
		return nil, s.mapError(ctx, "insert", req.Table, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Upsert(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	req, err := s.decode(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, "upsert", req); err != nil {
		return nil, err
	}
	if err := s.store.Upsert(ctx, req.Table, req.Conflict, req.Row); err != nil {
		return nil, s.mapError(ctx, "upsert", req.Table, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Delete(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	req, err := s.decode(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, "delete", req); err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, req.Table, req.Filter); err != nil {
		return nil, s.mapError(ctx, "delete", req.Table, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn(ctx, "database ping failed", "err", err)
		return nil, status.Error(codes.Unavailable, "database unavailable")
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) PresignReportUpload(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := s.decode(ctx, in)
	if err != nil {
		return nil, err
	}
	if s.reports == nil {
		return nil, status.Error(codes.Unimplemented, "report uploads disabled")
	}

	url, err := s.reports.PresignUpload(ctx, req.Name)
	if err != nil {
		return nil, s.mapError(ctx, "presign", "", err)
	}
	return remoteapi.EncodeURL(url), nil
}

// Authenticate checks a username and password against the users table. Any
// mismatch is NotFound, whatever the cause.
func (s *GRPCServer) Authenticate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := s.decode(ctx, in)
	if err != nil {
		return nil, err
	}
	if req.Username == "" || req.Password == "" {
		return nil, status.Error(codes.NotFound, "not found")
	}

	row, err := s.store.Get(ctx, remote.TableUsers, remote.Filter{"username": req.Username, "is_active": true})
	if err != nil {
		return nil, s.mapError(ctx, "authenticate", remote.TableUsers, err)
	}

	stored, _ := row[credentialColumn].(string)
	ok, err := credentials.Verify(stored, req.Password)
	if err != nil {
		s.logger.Warn(ctx, "stored credential unreadable", "username", req.Username, "err", err)
	}
	if !ok {
		return nil, status.Error(codes.NotFound, "not found")
	}

	delete(row, credentialColumn)
	out, err := remoteapi.EncodeRow(row)
	if err != nil {
		return nil, s.mapError(ctx, "authenticate", remote.TableUsers, err)
	}
	return out, nil
}
