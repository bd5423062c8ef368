package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/acadly/paperpay/internal/payment/domain"
	"github.com/acadly/paperpay/internal/payment/usecase/command"
	"github.com/acadly/paperpay/internal/payment/usecase/query"
	"github.com/acadly/paperpay/pkg/logger"
)

// SignatureHeader carries the webhook HMAC computed over the raw body
const SignatureHeader = "X-Checkout-Signature"

// EventIDHeader carries the gateway's delivery id, used for fast-path dedup
const EventIDHeader = "X-Checkout-Event-Id"

// PaymentHandler handles HTTP requests for settlement using CQRS pattern
type PaymentHandler struct {
	// Command handlers
	createOrderHandler *command.CreateOrderHandler
	verifyHandler      *command.VerifyPaymentHandler
	webhookHandler     *command.ProcessWebhookHandler
	claimFreeHandler   *command.ClaimFreeHandler

	// Query handlers
	getHandler           *query.GetPaymentHandler
	listHandler          *query.ListPaymentsHandler
	getMyHandler         *query.GetMyPaymentsHandler
	getMyPurchaseHandler *query.GetMyPurchasesHandler

	metrics *Metrics
	rdb     *redis.Client // optional webhook delivery dedup, nil disables
}

// NewPaymentHandlerWithDI creates a new payment handler using dependency injection
func NewPaymentHandlerWithDI(
	createOrderHandler *command.CreateOrderHandler,
	verifyHandler *command.VerifyPaymentHandler,
	webhookHandler *command.ProcessWebhookHandler,
	claimFreeHandler *command.ClaimFreeHandler,
	getHandler *query.GetPaymentHandler,
	listHandler *query.ListPaymentsHandler,
	getMyHandler *query.GetMyPaymentsHandler,
	getMyPurchaseHandler *query.GetMyPurchasesHandler,
	metrics *Metrics,
	rdb *redis.Client,
) *PaymentHandler {
	return &PaymentHandler{
		createOrderHandler:   createOrderHandler,
		verifyHandler:        verifyHandler,
		webhookHandler:       webhookHandler,
		claimFreeHandler:     claimFreeHandler,
		getHandler:           getHandler,
		listHandler:          listHandler,
		getMyHandler:         getMyHandler,
		getMyPurchaseHandler: getMyPurchaseHandler,
		metrics:              metrics,
		rdb:                  rdb,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CreateOrder handles POST /api/payment/order
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	studentID, ok := r.Context().Value(StudentIDKey).(uint)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Student ID not found in context"})
		return
	}

	var req struct {
		PaperID uint `json:"paper_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	result, err := h.createOrderHandler.Handle(r.Context(), command.CreateOrderCommand{
		StudentID: studentID,
		PaperID:   req.PaperID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPaperNotAvailable):
			respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Paper not available for purchase"})
		case errors.Is(err, domain.ErrAlreadyPurchased):
			respondJSON(w, http.StatusConflict, Response{Success: false, Error: "You already own this paper"})
		default:
			logger.Error(r.Context()).Err(err).Uint("paper_id", req.PaperID).Msg("Failed to create order")
			respondJSON(w, http.StatusBadGateway, Response{Success: false, Error: "Unable to start checkout. Please try again."})
		}
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Order created",
		Data:    result,
	})
}

// VerifyPayment handles POST /api/payment/verify
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	studentID, ok := r.Context().Value(StudentIDKey).(uint)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Student ID not found in context"})
		return
	}

	var req struct {
		OrderID    string `json:"order_id"`
		PaymentRef string `json:"payment_id"`
		Signature  string `json:"signature"`
		PaperID    uint   `json:"paper_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	start := time.Now()
	result, err := h.verifyHandler.Handle(r.Context(), command.VerifyPaymentCommand{
		StudentID:  studentID,
		OrderID:    req.OrderID,
		PaymentRef: req.PaymentRef,
		Signature:  req.Signature,
		PaperID:    req.PaperID,
	})
	h.metrics.settleLatency.WithLabelValues("verify").Observe(time.Since(start).Seconds())

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSignatureMismatch):
			h.metrics.signatureFailures.WithLabelValues("verify").Inc()
			h.metrics.settlements.WithLabelValues("verify", "failed").Inc()
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Signature verification failed"})
		case errors.Is(err, domain.ErrPaymentNotFound):
			h.metrics.settlements.WithLabelValues("verify", "failed").Inc()
			respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Order not found"})
		case errors.Is(err, domain.ErrNotOwner):
			h.metrics.settlements.WithLabelValues("verify", "failed").Inc()
			respondJSON(w, http.StatusForbidden, Response{Success: false, Error: "Order does not belong to you"})
		case errors.Is(err, domain.ErrPaymentNotCaptured):
			h.metrics.settlements.WithLabelValues("verify", "failed").Inc()
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Payment was not captured. If you were charged, contact support."})
		default:
			h.metrics.settlements.WithLabelValues("verify", "failed").Inc()
			logger.Error(r.Context()).Err(err).Str("order_id", req.OrderID).Msg("Payment verification failed")
			respondJSON(w, http.StatusBadGateway, Response{Success: false, Error: "Could not confirm payment. Please retry."})
		}
		return
	}

	outcome := "settled"
	message := "Payment verified, access granted"
	if result.AlreadyProcessed {
		outcome = "already_processed"
		message = "Payment already processed"
	}
	h.metrics.settlements.WithLabelValues("verify", outcome).Inc()

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    result,
	})
}

// Webhook handles POST /api/payment/webhook. The endpoint carries no session;
// the body HMAC is the only authentication. Once the signature passes, every
// outcome is acknowledged with 200 so the gateway stops redelivering.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Unable to read body"})
		return
	}

	// Best-effort fast path: skip deliveries we have seen recently. The DB
	// idempotency floor remains authoritative when redis is down or cold.
	eventID := r.Header.Get(EventIDHeader)
	if h.rdb != nil && eventID != "" {
		fresh, err := h.rdb.SetNX(r.Context(), "webhook:delivery:"+eventID, 1, 24*time.Hour).Result()
		if err == nil && !fresh {
			h.metrics.webhookEvents.WithLabelValues("duplicate").Inc()
			respondJSON(w, http.StatusOK, Response{Success: true, Message: "Duplicate delivery acknowledged"})
			return
		}
	}

	result, err := h.webhookHandler.Handle(r.Context(), command.ProcessWebhookCommand{
		RawBody:   rawBody,
		Signature: r.Header.Get(SignatureHeader),
	})
	if err != nil {
		if errors.Is(err, domain.ErrSignatureMismatch) {
			h.metrics.webhookEvents.WithLabelValues("rejected").Inc()
			h.metrics.signatureFailures.WithLabelValues("webhook").Inc()
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid signature"})
			return
		}
		// Transient store failure: let the gateway retry the delivery.
		h.metrics.webhookEvents.WithLabelValues("error").Inc()
		logger.Error(r.Context()).Err(err).Msg("Webhook settlement failed")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Temporary failure"})
		return
	}

	switch {
	case result.Settled:
		h.metrics.webhookEvents.WithLabelValues("settled").Inc()
		h.metrics.settlements.WithLabelValues("webhook", "settled").Inc()
	case result.AlreadyProcessed:
		h.metrics.webhookEvents.WithLabelValues("duplicate").Inc()
		h.metrics.settlements.WithLabelValues("webhook", "already_processed").Inc()
	case result.Ignored:
		h.metrics.webhookEvents.WithLabelValues("ignored").Inc()
	case result.Defect != "":
		h.metrics.webhookEvents.WithLabelValues("defect").Inc()
	}

	message := "Webhook processed"
	if result.AlreadyProcessed {
		message = "Already processed"
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    result,
	})
}

// ClaimFree handles POST /api/payment/claim-free
func (h *PaymentHandler) ClaimFree(w http.ResponseWriter, r *http.Request) {
	studentID, ok := r.Context().Value(StudentIDKey).(uint)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Student ID not found in context"})
		return
	}

	var req struct {
		PaperID uint `json:"paper_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	purchase, err := h.claimFreeHandler.Handle(r.Context(), command.ClaimFreeCommand{
		StudentID: studentID,
		PaperID:   req.PaperID,
	})
	if err != nil {
		h.metrics.settlements.WithLabelValues("claim_free", "failed").Inc()
		if errors.Is(err, domain.ErrPaperNotAvailable) {
			respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Paper not available"})
			return
		}
		logger.Error(r.Context()).Err(err).Uint("paper_id", req.PaperID).Msg("Free claim failed")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Unable to claim paper"})
		return
	}

	h.metrics.settlements.WithLabelValues("claim_free", "settled").Inc()
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Access granted",
		Data:    purchase,
	})
}

// GetPayment handles GET /api/payments/{id} (admin)
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid payment ID"})
		return
	}

	payment, err := h.getHandler.Handle(r.Context(), query.GetPaymentQuery{ID: uint(id)})
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Payment not found"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: payment})
}

// ListPayments handles GET /api/payments (admin)
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	payments, err := h.listHandler.Handle(r.Context(), query.ListPaymentsQuery{Limit: limit, Offset: offset})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list payments")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list payments"})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"payments": payments,
			"total":    len(payments),
		},
	})
}

// GetMyPayments handles GET /api/payment/my
func (h *PaymentHandler) GetMyPayments(w http.ResponseWriter, r *http.Request) {
	studentID, ok := r.Context().Value(StudentIDKey).(uint)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Student ID not found in context"})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	payments, err := h.getMyHandler.Handle(r.Context(), query.GetMyPaymentsQuery{
		StudentID: studentID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to get student payments")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to get payments"})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"payments": payments,
			"total":    len(payments),
		},
	})
}

// GetMyPurchases handles GET /api/purchases/my
func (h *PaymentHandler) GetMyPurchases(w http.ResponseWriter, r *http.Request) {
	studentID, ok := r.Context().Value(StudentIDKey).(uint)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Student ID not found in context"})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	purchases, err := h.getMyPurchaseHandler.Handle(r.Context(), query.GetMyPurchasesQuery{
		StudentID: studentID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to get purchases")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to get purchases"})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"purchases": purchases,
			"total":     len(purchases),
		},
	})
}

// GetMiddlewareConfig returns middleware configuration
func (h *PaymentHandler) GetMiddlewareConfig() MiddlewareConfig {
	return DefaultMiddlewareConfig()
}

// RegisterRoutes registers all payment routes
func (h *PaymentHandler) RegisterRoutes(router *mux.Router) {
	// Webhook is unauthenticated: the gateway has no session, only the HMAC.
	router.HandleFunc("/api/payment/webhook", h.Webhook).Methods("POST")

	// Authenticated student routes
	router.HandleFunc("/api/payment/order", AuthMiddleware(h.CreateOrder)).Methods("POST")
	router.HandleFunc("/api/payment/verify", AuthMiddleware(h.VerifyPayment)).Methods("POST")
	router.HandleFunc("/api/payment/claim-free", AuthMiddleware(h.ClaimFree)).Methods("POST")
	router.HandleFunc("/api/payment/my", AuthMiddleware(h.GetMyPayments)).Methods("GET")
	router.HandleFunc("/api/purchases/my", AuthMiddleware(h.GetMyPurchases)).Methods("GET")

	// Admin routes
	router.HandleFunc("/api/payments", AdminMiddleware(h.ListPayments)).Methods("GET")
	router.HandleFunc("/api/payments/{id}", AdminMiddleware(h.GetPayment)).Methods("GET")
}

// RegisterHealthCheck registers health check endpoint
func (h *PaymentHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Database unavailable"})
			return
		}

		respondJSON(w, http.StatusOK, Response{Success: true, Message: "Payment service is healthy"})
	}).Methods("GET")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
