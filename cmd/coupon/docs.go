package main

// @title Coupon Service API
// @version 1.0
// @description Coupon issuance and redemption: batch generation on paper publish, atomic single-use redemption into a zero-price purchase.

// @contact.name API Support
// @contact.email support@acadly.example

// @host localhost:8084
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Coupons
// @tag.description Coupon generation, listing and redemption

// @tag.name Health
// @tag.description Health check endpoints
