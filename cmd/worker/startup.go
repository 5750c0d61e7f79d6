// cmd/worker/startup.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/hibiken/asynq"

	"storefront-checkout/pkg/container"
)

// HealthChecker performs startup health checks
type HealthChecker struct {
	c         *container.Container
	inspector *asynq.Inspector
}

// startServices performs health checks and logs startup information
func startServices(c *container.Container) error {
	log.Println("============================================")
	log.Println("🚀 Storefront Checkout Worker Starting...")
	log.Println("============================================")

	checker := &HealthChecker{
		c:         c,
		inspector: asynq.NewInspector(c.RedisClientOpt()),
	}

	if err := checker.checkAll(); err != nil {
		log.Printf("❌ Health check failed: %v\n", err)
		return err
	}

	if !c.Config.Checkout.ReconcileEnabled {
		log.Println("ℹ️  RECONCILE_ENABLED=false: reconcile handler registered but API does not enqueue")
	}

	go startHealthCheckServer(checker)

	return nil
}

// checkAll runs all health checks
func (h *HealthChecker) checkAll() error {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"Cache Connection", h.checkCache},
		{"Asynq Queues", h.checkAsynq},
		{"Journal Database", h.checkDatabase},
	}

	for _, check := range checks {
		log.Printf("⏳ Checking %s...\n", check.name)
		if err := check.fn(); err != nil {
			log.Printf("❌ %s: %v\n", check.name, err)
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Printf("✓ %s: OK\n", check.name)
	}

	return nil
}

func (h *HealthChecker) checkCache() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return h.c.Cache.Ping(ctx)
}

// checkAsynq đọc danh sách queue qua Inspector (cần Redis thật)
func (h *HealthChecker) checkAsynq() error {
	queues, err := h.inspector.Queues()
	if err != nil {
		return err
	}
	log.Printf("   known queues: %v\n", queues)
	return nil
}

// checkDatabase - journal tắt thì bỏ qua
func (h *HealthChecker) checkDatabase() error {
	if h.c.DB == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return h.c.DB.HealthCheck(ctx)
}

// startHealthCheckServer starts HTTP server for health checks
func startHealthCheckServer(h *HealthChecker) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthCheckHandler)
	mux.HandleFunc("/ready", h.readyCheckHandler)

	addr := ":" + h.c.Config.Job.HealthPort
	log.Printf("[Health] Starting health check server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("[Health] Failed to start: %v\n", err)
	}
}

// healthCheckHandler handles /health endpoint
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"UP","service":"storefront-checkout-worker"}`))
}

// readyCheckHandler handles /ready endpoint (Kubernetes readiness probe)
func (h *HealthChecker) readyCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := h.checkCache(); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"NOT_READY"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"READY"}`))
}
