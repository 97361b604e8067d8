// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package taskapi assembles the task service: storage, the lifecycle
// and admin services, session middleware, routes, and the HTTP server
// lifecycle.
package taskapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/AleutianAI/TaskDeck/services/taskapi/admin"
	"github.com/AleutianAI/TaskDeck/services/taskapi/auth"
	"github.com/AleutianAI/TaskDeck/services/taskapi/config"
	"github.com/AleutianAI/TaskDeck/services/taskapi/handlers"
	"github.com/AleutianAI/TaskDeck/services/taskapi/middleware"
	"github.com/AleutianAI/TaskDeck/services/taskapi/observability"
	"github.com/AleutianAI/TaskDeck/services/taskapi/routes"
	"github.com/AleutianAI/TaskDeck/services/taskapi/storage"
	"github.com/AleutianAI/TaskDeck/services/taskapi/tasks"
)

// Server is the assembled taskapi service.
type Server struct {
	cfg    *config.Config
	db     *badger.DB
	router *gin.Engine
}

// New opens storage and wires the full service. Call Run to serve, or
// Router to drive it in-process.
func New(cfg *config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dbCfg := storage.DefaultConfig()
	dbCfg.Path = cfg.DataDir
	db, err := storage.Open(dbCfg)
	if err != nil {
		return nil, err
	}

	taskStore := storage.NewTaskStore(db)
	accountStore := storage.NewAccountStore(db)
	tokens := auth.NewTokenManager(cfg.JWTSecret, handlers.SessionTTL)
	taskSvc := tasks.NewService(taskStore)
	adminSvc := admin.NewService(taskStore, accountStore)

	metrics := observability.NewHTTPMetrics(prometheus.DefaultRegisterer)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		otelgin.Middleware("taskapi-service"),
		metrics.Middleware(),
		middleware.CORS(cfg.AllowedOrigins),
	)
	routes.SetupRoutes(router, routes.Deps{
		Tasks:    taskSvc,
		Admin:    adminSvc,
		Accounts: accountStore,
		Tokens:   tokens,
	})

	return &Server{cfg: cfg, db: db, router: router}, nil
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Close releases storage. Run calls it on shutdown; call it directly
// when the server was never run.
func (s *Server) Close() error {
	return s.db.Close()
}

// Run serves HTTP until ctx is cancelled or SIGINT/SIGTERM arrives,
// then shuts down gracefully and closes storage.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if s.cfg.OTLPEndpoint != "" {
		cleanup, err := initTracer(ctx, s.cfg.OTLPEndpoint)
		if err != nil {
			return fmt.Errorf("setup OTLP tracer: %w", err)
		}
		defer cleanup(context.Background())
	}

	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "port", s.cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.db.Close()
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server shutdown failed", "error", err)
	}
	return s.db.Close()
}

// initTracer configures the OTLP trace exporter used by the otelgin
// middleware.
func initTracer(ctx context.Context, endpoint string) (func(context.Context), error) {
	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("taskapi-service")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}
