package main

// @title Paper Service API
// @version 1.0
// @description Exam paper catalog: teacher-owned papers, publishing with coupon fan-out, organization rosters.

// @contact.name API Support
// @contact.email support@acadly.example

// @host localhost:8081
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Papers
// @tag.description Paper catalog management

// @tag.name Health
// @tag.description Health check endpoints
