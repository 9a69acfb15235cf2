package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/conecta/internal/client/remote"
	"github.com/dmitrijs2005/conecta/internal/logging"
	"github.com/dmitrijs2005/conecta/internal/remoteapi"
	"google.golang.org/grpc"
)

// ReportPresigner hands out upload URLs for exported reports.
type ReportPresigner interface {
	PresignUpload(ctx context.Context, name string) (string, error)
}

type GRPCServer struct {
	remoteapi.UnimplementedTableStoreServer
	address   string
	store     remote.TableStore
	reports   ReportPresigner
	logger    logging.Logger
	jwtSecret []byte
}

func NewgGRPCServer(a string, l logging.Logger, store remote.TableStore, reports ReportPresigner, secretKey string) (*GRPCServer, error) {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		store:     store,
		reports:   reports,
		jwtSecret: []byte(secretKey),
	}, nil
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.apiKeyInterceptor))
	remoteapi.RegisterTableStoreServer(srv, s)
	return srv
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}
