// Package grpcstore implements remote.TableStore over the TableStore gRPC
// service exposed by the conecta server.
package grpcstore

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/conecta/internal/client/remote"
	"github.com/dmitrijs2005/conecta/internal/common"
	"github.com/dmitrijs2005/conecta/internal/remoteapi"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type Store struct {
	endpointURL string
	apiKey      string
	conn        *grpc.ClientConn
	client      *remoteapi.TableStoreClient
}

// New dials lazily; the first call establishes the connection.
func New(endpointURL, apiKey string, opts ...grpc.DialOption) (*Store, error) {
	s := &Store{endpointURL: endpointURL, apiKey: apiKey}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.apiKeyInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	s.conn = conn
	s.client = remoteapi.NewTableStoreClient(conn)
	return s, nil
}

func withAPIKey(ctx context.Context, key string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.APIKeyHeaderName, key)
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *Store) apiKeyInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.apiKey != "" {
		ctx = withAPIKey(ctx, s.apiKey)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (s *Store) Select(ctx context.Context, table string, filter remote.Filter) ([]remote.Row, error) {
	req, err := remoteapi.Request{Table: table, Filter: filter}.Encode()
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Select(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	rows, err := remoteapi.DecodeRows(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", remote.ErrInvalid, err)
	}
	out := make([]remote.Row, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, table string, filter remote.Filter) (remote.Row, error) {
	req, err := remoteapi.Request{Table: table, Filter: filter}.Encode()
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Get(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.AsMap(), nil
}

func (s *Store) Insert(ctx context.Context, table string, row remote.Row) error {
	req, err := remoteapi.Request{Table: table, Row: row}.Encode()
	if err != nil {
		return err
	}
	return s.mapError(s.client.Insert(ctx, req))
}

func (s *Store) Upsert(ctx context.Context, table string, conflict []string, row remote.Row) error {
	req, err := remoteapi.Request{Table: table, Row: row, Conflict: conflict}.Encode()
	if err != nil {
		return err
	}
	return s.mapError(s.client.Upsert(ctx, req))
}

func (s *Store) Delete(ctx context.Context, table string, filter remote.Filter) error {
	req, err := remoteapi.Request{Table: table, Filter: filter}.Encode()
	if err != nil {
		return err
	}
	return s.mapError(s.client.Delete(ctx, req))
}

func (s *Store) Ping(ctx context.Context) error {
	return s.mapError(s.client.Ping(ctx))
}

func (s *Store) PresignReportUpload(ctx context.Context, name string) (string, error) {
	req, err := remoteapi.Request{Name: name}.Encode()
	if err != nil {
		return "", err
	}
	resp, err := s.client.PresignReportUpload(ctx, req)
	if err != nil {
		return "", s.mapError(err)
	}
	return remoteapi.DecodeURL(resp)
}

// Authenticate lets the server check the credential; the row comes back
// without password_hash.
func (s *Store) Authenticate(ctx context.Context, username, password string) (remote.Row, error) {
	req, err := remoteapi.Request{Username: username, Password: password}.Encode()
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Authenticate(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.AsMap(), nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.NotFound:
		return remote.ErrNotFound
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %w: %s", remote.ErrDenied, common.ErrUnauthorized, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", remote.ErrInvalid, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return remote.ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
