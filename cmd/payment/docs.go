package main

// @title Payment Service API
// @version 1.0
// @description Settlement service for exam paper purchases: checkout orders, signed client verification, idempotent webhook settlement and free claims.

// @contact.name API Support
// @contact.email support@acadly.example

// @host localhost:8083
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Payments
// @tag.description Order creation and settlement endpoints

// @tag.name Purchases
// @tag.description Entitlement queries

// @tag.name Health
// @tag.description Health check endpoints
