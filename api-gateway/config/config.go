package config

import (
	"os"
	"strings"
	"time"
)

// ServiceConfig holds configuration for a backend service
type ServiceConfig struct {
	Name        string
	BaseURL     string
	Instances   []string
	Timeout     time.Duration
	HealthCheck string
}

// GatewayConfig holds the main gateway configuration
type GatewayConfig struct {
	Port     string
	Services map[string]ServiceConfig
}

// LoadConfig loads the gateway configuration
func LoadConfig() *GatewayConfig {
	return &GatewayConfig{
		Port: getEnv("GATEWAY_PORT", "8000"),
		Services: map[string]ServiceConfig{
			"paper": {
				Name:        "paper-service",
				BaseURL:     getEnv("PAPER_SERVICE_URL", "http://localhost:8081"),
				Instances:   getInstances("PAPER_SERVICE_INSTANCES", getEnv("PAPER_SERVICE_URL", "http://localhost:8081")),
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
			"student": {
				Name:        "student-service",
				BaseURL:     getEnv("STUDENT_SERVICE_URL", "http://localhost:8082"),
				Instances:   getInstances("STUDENT_SERVICE_INSTANCES", getEnv("STUDENT_SERVICE_URL", "http://localhost:8082")),
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
			"payment": {
				Name:        "payment-service",
				BaseURL:     getEnv("PAYMENT_SERVICE_URL", "http://localhost:8083"),
				Instances:   getInstances("PAYMENT_SERVICE_INSTANCES", getEnv("PAYMENT_SERVICE_URL", "http://localhost:8083")),
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
			"coupon": {
				Name:        "coupon-service",
				BaseURL:     getEnv("COUPON_SERVICE_URL", "http://localhost:8084"),
				Instances:   getInstances("COUPON_SERVICE_INSTANCES", getEnv("COUPON_SERVICE_URL", "http://localhost:8084")),
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getInstances reads a comma-separated instance list, falling back to
// the single base URL when no explicit list is configured.
func getInstances(key, fallback string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return []string{fallback}
	}

	var instances []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			instances = append(instances, trimmed)
		}
	}
	if len(instances) == 0 {
		return []string{fallback}
	}
	return instances
}
