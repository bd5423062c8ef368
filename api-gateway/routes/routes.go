package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/acadly/paperpay/api-gateway/config"
	"github.com/acadly/paperpay/api-gateway/health"
	"github.com/acadly/paperpay/api-gateway/middleware"
	"github.com/acadly/paperpay/api-gateway/proxy"
)

// RouteDefinition defines a route mapping
type RouteDefinition struct {
	Prefix       string
	ServiceName  string
	Description  string
	RequireAuth  bool // Requires authentication
	RequireAdmin bool // Requires admin role
}

// Routes holds all route definitions. Order matters: more specific
// prefixes must come before the prefixes they shadow.
var Routes = []RouteDefinition{
	// Gateway webhook callback. No auth: the payment service verifies
	// the HMAC signature on the body itself.
	{
		Prefix:       "/api/payment/webhook",
		ServiceName:  "payment",
		Description:  "Payment gateway webhook (signature-verified downstream)",
		RequireAuth:  false,
		RequireAdmin: false,
	},

	// Public student endpoints (register, login)
	{
		Prefix:       "/api/students/register",
		ServiceName:  "student",
		Description:  "Student registration",
		RequireAuth:  false,
		RequireAdmin: false,
	},
	{
		Prefix:       "/api/students/login",
		ServiceName:  "student",
		Description:  "Student login",
		RequireAuth:  false,
		RequireAdmin: false,
	},

	// Student service routes (auth required)
	{
		Prefix:       "/api/students",
		ServiceName:  "student",
		Description:  "Student profile and admin management",
		RequireAuth:  true,
		RequireAdmin: false,
	},

	// Coupon management for a paper (teacher role checked downstream)
	{
		Prefix:       "/api/papers/:id/coupons",
		ServiceName:  "coupon",
		Description:  "Coupon generation and listing per paper",
		RequireAuth:  true,
		RequireAdmin: false,
	},

	// Paper catalog (public browse; writes are teacher-only downstream)
	{
		Prefix:       "/api/papers",
		ServiceName:  "paper",
		Description:  "Paper catalog and management",
		RequireAuth:  false,
		RequireAdmin: false,
	},

	// Organization rosters
	{
		Prefix:       "/api/orgs",
		ServiceName:  "paper",
		Description:  "Organization student rosters",
		RequireAuth:  true,
		RequireAdmin: false,
	},

	// Coupon redemption and listing
	{
		Prefix:       "/api/coupons",
		ServiceName:  "coupon",
		Description:  "Coupon redemption and student coupon listing",
		RequireAuth:  true,
		RequireAdmin: false,
	},

	// Purchases
	{
		Prefix:       "/api/purchases",
		ServiceName:  "payment",
		Description:  "Purchase lookups",
		RequireAuth:  true,
		RequireAdmin: false,
	},

	// Payment flow (order creation, verification, free claims)
	{
		Prefix:       "/api/payment",
		ServiceName:  "payment",
		Description:  "Order creation and payment verification",
		RequireAuth:  true,
		RequireAdmin: false,
	},

	// Admin payment listing
	{
		Prefix:       "/api/payments",
		ServiceName:  "payment",
		Description:  "Payment administration",
		RequireAuth:  true,
		RequireAdmin: true,
	},
}

// SetupRoutes configures all routes in the gateway
func SetupRoutes(app *fiber.App, cfg *config.GatewayConfig) {
	// Create reverse proxy
	reverseProxy := proxy.NewReverseProxy(cfg)

	// Create health checker
	healthChecker := health.NewHealthChecker(cfg)

	// Gateway quick health check (no downstream checks)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(healthChecker.QuickCheck())
	})

	// Liveness probe (for Kubernetes)
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "alive",
		})
	})

	// Readiness probe (checks downstream services)
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		healthStatus := healthChecker.CheckAllServices(ctx)

		statusCode := fiber.StatusOK
		if healthStatus.Status == "unhealthy" {
			statusCode = fiber.StatusServiceUnavailable
		}

		return c.Status(statusCode).JSON(healthStatus)
	})

	// Detailed service health checks
	app.Get("/health/services", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		healthStatus := healthChecker.CheckAllServices(ctx)
		return c.JSON(healthStatus)
	})

	// API routes overview
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "API Gateway",
			"version": "1.0.0",
			"routes":  Routes,
		})
	})

	// Register all service routes
	for _, route := range Routes {
		registerServiceRoutes(app, route, reverseProxy)
	}
}

// registerServiceRoutes registers all HTTP methods for a service prefix
func registerServiceRoutes(app *fiber.App, route RouteDefinition, proxyHandler *proxy.ReverseProxy) {
	// Create handler function
	handler := func(c *fiber.Ctx) error {
		return proxyHandler.ProxyRequest(c, route.ServiceName)
	}

	// Apply middleware based on route requirements
	var middlewares []fiber.Handler

	if route.RequireAdmin {
		// Admin routes need both auth and admin check
		middlewares = append(middlewares, middleware.AuthMiddleware(), middleware.AdminMiddleware())
	} else if route.RequireAuth {
		// Auth required routes
		middlewares = append(middlewares, middleware.AuthMiddleware())
	}
	// Public routes have no middleware

	// Create a route group for this service
	group := app.Group(route.Prefix, middlewares...)

	// Handle all HTTP methods with wildcard path
	group.All("/*", handler)

	// Also handle the exact prefix path (without /*)
	if len(middlewares) > 0 {
		app.All(route.Prefix, append(middlewares, handler)...)
	} else {
		app.All(route.Prefix, handler)
	}
}
