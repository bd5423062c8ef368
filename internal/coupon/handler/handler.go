package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/acadly/paperpay/internal/coupon/usecase/command"
	"github.com/acadly/paperpay/internal/coupon/usecase/query"
	"github.com/acadly/paperpay/pkg/logger"
)

// CouponHandler handles HTTP requests for coupons using CQRS pattern
type CouponHandler struct {
	// Command handlers
	generateHandler     *command.GenerateCouponsHandler
	redeemHandler       *command.RedeemCouponHandler
	deleteUnusedHandler *command.DeleteUnusedHandler

	// Query handlers
	listHandler  *query.ListCouponsHandler
	getMyHandler *query.GetMyCouponsHandler

	metrics *Metrics
}

// NewCouponHandlerWithDI creates a new coupon handler using dependency injection
func NewCouponHandlerWithDI(
	generateHandler *command.GenerateCouponsHandler,
	redeemHandler *command.RedeemCouponHandler,
	deleteUnusedHandler *command.DeleteUnusedHandler,
	listHandler *query.ListCouponsHandler,
	getMyHandler *query.GetMyCouponsHandler,
	metrics *Metrics,
) *CouponHandler {
	return &CouponHandler{
		generateHandler:     generateHandler,
		redeemHandler:       redeemHandler,
		deleteUnusedHandler: deleteUnusedHandler,
		listHandler:         listHandler,
		getMyHandler:        getMyHandler,
		metrics:             metrics,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Redeem handles POST /api/coupons/validate. An invalid coupon is a normal
// outcome and comes back as 200 with valid=false, so clients branch on the
// body rather than the status code.
func (h *CouponHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	studentID, ok := r.Context().Value(StudentIDKey).(uint)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Student ID not found in context"})
		return
	}

	var req struct {
		Code    string `json:"code"`
		PaperID uint   `json:"paper_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" || req.PaperID == 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "code and paper_id are required"})
		return
	}

	start := time.Now()
	result, err := h.redeemHandler.Handle(r.Context(), command.RedeemCouponCommand{
		Code:      req.Code,
		PaperID:   req.PaperID,
		StudentID: studentID,
	})
	h.metrics.redeemLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		h.metrics.redemptions.WithLabelValues("error").Inc()
		logger.Error(r.Context()).Err(err).Uint("paper_id", req.PaperID).Msg("Coupon redemption failed")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Unable to redeem coupon. Please try again."})
		return
	}

	if result.Valid {
		h.metrics.redemptions.WithLabelValues("redeemed").Inc()
	} else {
		h.metrics.redemptions.WithLabelValues("invalid").Inc()
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: result.Message,
		Data:    result,
	})
}

// Generate handles POST /api/papers/{id}/coupons. Called by the paper
// service when a teacher publishes; always answers 200 because publishing
// must not fail on coupon problems.
func (h *CouponHandler) Generate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	paperID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid paper ID"})
		return
	}

	var req struct {
		OrgID uint `json:"org_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrgID == 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "org_id is required"})
		return
	}

	result := h.generateHandler.Handle(r.Context(), command.GenerateCouponsCommand{
		PaperID: uint(paperID),
		OrgID:   req.OrgID,
	})
	h.metrics.couponsIssued.Add(float64(result.TotalCoupons))

	respondJSON(w, http.StatusOK, Response{
		Success: result.Error == "",
		Message: "Coupon generation finished",
		Data:    result,
		Error:   result.Error,
	})
}

// DeleteUnused handles DELETE /api/papers/{id}/coupons/unused
func (h *CouponHandler) DeleteUnused(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	paperID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid paper ID"})
		return
	}

	deleted, err := h.deleteUnusedHandler.Handle(r.Context(), command.DeleteUnusedCommand{PaperID: uint(paperID)})
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint64("paper_id", paperID).Msg("Failed to delete unused coupons")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to delete unused coupons"})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Unused coupons deleted",
		Data:    map[string]interface{}{"deleted": deleted},
	})
}

// ListForPaper handles GET /api/papers/{id}/coupons
func (h *CouponHandler) ListForPaper(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	paperID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid paper ID"})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	coupons, err := h.listHandler.Handle(r.Context(), query.ListCouponsQuery{
		PaperID: uint(paperID),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint64("paper_id", paperID).Msg("Failed to list coupons")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list coupons"})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"coupons": coupons,
			"total":   len(coupons),
		},
	})
}

// GetMyCoupons handles GET /api/coupons/my
func (h *CouponHandler) GetMyCoupons(w http.ResponseWriter, r *http.Request) {
	studentID, ok := r.Context().Value(StudentIDKey).(uint)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Student ID not found in context"})
		return
	}

	coupons, err := h.getMyHandler.Handle(r.Context(), query.GetMyCouponsQuery{StudentID: studentID})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to get student coupons")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to get coupons"})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"coupons": coupons,
			"total":   len(coupons),
		},
	})
}

// GetMiddlewareConfig returns middleware configuration
func (h *CouponHandler) GetMiddlewareConfig() MiddlewareConfig {
	return DefaultMiddlewareConfig()
}

// RegisterRoutes registers all coupon routes
func (h *CouponHandler) RegisterRoutes(router *mux.Router) {
	// Student routes
	router.HandleFunc("/api/coupons/validate", AuthMiddleware(h.Redeem)).Methods("POST")
	router.HandleFunc("/api/coupons/my", AuthMiddleware(h.GetMyCoupons)).Methods("GET")

	// Teacher routes
	router.HandleFunc("/api/papers/{id}/coupons", TeacherMiddleware(h.Generate)).Methods("POST")
	router.HandleFunc("/api/papers/{id}/coupons", TeacherMiddleware(h.ListForPaper)).Methods("GET")
	router.HandleFunc("/api/papers/{id}/coupons/unused", TeacherMiddleware(h.DeleteUnused)).Methods("DELETE")
}

// RegisterHealthCheck registers health check endpoint
func (h *CouponHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Database unavailable"})
			return
		}

		respondJSON(w, http.StatusOK, Response{Success: true, Message: "Coupon service is healthy"})
	}).Methods("GET")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
