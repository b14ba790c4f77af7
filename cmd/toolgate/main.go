package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/voocel/toolgate/config"
	"github.com/voocel/toolgate/llm"
	"github.com/voocel/toolgate/sandbox"
	"github.com/voocel/toolgate/server"
	"github.com/voocel/toolgate/service"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 120 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("toolgate exited with error: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg := config.Load()

	gateway := llm.NewGateway(cfg.GatewayAPIKey, cfg.GatewayBaseURL)
	sandboxClient := sandbox.NewHTTPClient(cfg.SandboxURL)
	sandboxClient.AuthToken = cfg.OIDCToken

	svc, err := service.New(gateway, sandboxClient)
	if err != nil {
		return fmt.Errorf("init service failed: %w", err)
	}

	srv := server.New(cfg, svc)
	handler, err := srv.Router()
	if err != nil {
		return fmt.Errorf("init router failed: %w", err)
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("MCP server running at http://localhost:%s", cfg.Port)
		log.Printf("MCP endpoint: http://localhost:%s/api/mcp", cfg.Port)
		log.Printf("Dashboard: http://localhost:%s/dashboard", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return sandboxClient.Close()
}
