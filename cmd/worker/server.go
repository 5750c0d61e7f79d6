package main

import (
	"log"
	"time"

	"github.com/hibiken/asynq"

	"storefront-checkout/pkg/container"
)

const shutdownTimeout = 30 * time.Second

// asynqServer wraps asynq.Server with additional functionality
type asynqServer struct {
	*asynq.Server
}

// setupAsynqServer creates and configures the Asynq server
func setupAsynqServer(c *container.Container, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(c.RedisClientOpt(), asynqConfig(c.Config.Job))

	// Start server in goroutine
	go func() {
		log.Println("[Worker] Starting...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[Worker] Failed: %v", err)
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown chờ task đang chạy xong, tối đa shutdownTimeout
func (s *asynqServer) Shutdown() {
	log.Printf("[Worker] Shutting down (waiting max %s)...", shutdownTimeout)

	done := make(chan struct{})
	go func() {
		s.Server.Shutdown()
		close(done)
	}()

	select {
	case <-done:
		log.Println("[Worker] ✓ Gracefully stopped")
	case <-time.After(shutdownTimeout):
		log.Println("[Worker] ⚠️ Shutdown timeout exceeded")
	}
}
