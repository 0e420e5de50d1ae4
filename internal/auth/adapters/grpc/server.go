// Package grpc предоставляет gRPC сервер проверки состояния сервиса аутентификации.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"taskflow/internal/auth/config"
	"taskflow/pkg/logger"
)

// Константы для логирования.
const (
	LogServerStarting = "Starting gRPC server"
	LogServerStarted  = "gRPC server started"
	LogServerStopping = "Stopping gRPC server"
	LogServerStopped  = "gRPC server stopped"
	LogForcedStop     = "gRPC graceful stop timed out, forcing stop"
	ErrServerStart    = "failed to start gRPC server"
	ErrServerServe    = "gRPC server stopped with error"
)

// Server представляет gRPC сервер.
type Server struct {
	cfg    *config.GRPCConfig
	server *grpc.Server
}

// New создает новый экземпляр gRPC сервера.
func New(cfg *config.GRPCConfig, opts ...grpc.ServerOption) *Server {
	server := grpc.NewServer(opts...)
	reflection.Register(server)

	return &Server{
		cfg:    cfg,
		server: server,
	}
}

// Start открывает TCP порт из конфигурации и запускает обслуживание в отдельной горутине.
func (s *Server) Start(ctx context.Context) error {
	log := logger.Log(ctx)
	address := s.cfg.GetAddress()

	log.Info(ctx, LogServerStarting, zap.String("address", address))

	listener, err := net.Listen("tcp", address)
	if err != nil {
		log.Error(ctx, ErrServerStart, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrServerStart, err)
	}

	go s.Serve(ctx, listener)

	log.Info(ctx, LogServerStarted, zap.String("address", address))
	return nil
}

// Serve обслуживает соединения на listener до остановки сервера.
func (s *Server) Serve(ctx context.Context, listener net.Listener) {
	if err := s.server.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		logger.Log(ctx).Error(ctx, ErrServerServe, zap.Error(err))
	}
}

// Stop останавливает сервер, дожидаясь завершения активных вызовов до истечения ctx.
func (s *Server) Stop(ctx context.Context) error {
	log := logger.Log(ctx)
	log.Info(ctx, LogServerStopping)

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		log.Warn(ctx, LogForcedStop)
		s.server.Stop()
		<-done
	}

	log.Info(ctx, LogServerStopped)
	return nil
}

// RegisterService регистрирует gRPC сервис в сервере.
func (s *Server) RegisterService(registerFn func(server *grpc.Server)) {
	registerFn(s.server)
}
