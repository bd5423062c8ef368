package http

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/acadly/paperpay/internal/paper/domain"
	"github.com/acadly/paperpay/internal/paper/usecase/command"
	"github.com/acadly/paperpay/internal/paper/usecase/query"
	"github.com/acadly/paperpay/pkg/logger"
)

// PaperHandler handles HTTP requests for papers using CQRS pattern
type PaperHandler struct {
	// Command handlers
	createHandler  *command.CreatePaperHandler
	updateHandler  *command.UpdatePaperHandler
	publishHandler *command.PublishPaperHandler
	deleteHandler  *command.DeletePaperHandler
	enrollHandler  *command.EnrollStudentHandler

	// Query handlers
	getPaperHandler    *query.GetPaperHandler
	listHandler        *query.ListPapersHandler
	orgStudentsHandler *query.ListOrgStudentsHandler
	statsHandler       *query.GetStatsHandler

	repo           domain.PaperRepository
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	totalPapers    prometheus.Gauge
}

// NewPaperHandler creates a new paper handler with CQRS pattern
func NewPaperHandler(repo domain.PaperRepository, memberships domain.MembershipRepository, coupons command.CouponIssuer) *PaperHandler {
	// Initialize command handlers
	createHandler := command.NewCreatePaperHandler(repo)
	updateHandler := command.NewUpdatePaperHandler(repo)
	publishHandler := command.NewPublishPaperHandler(repo, coupons)
	deleteHandler := command.NewDeletePaperHandler(repo)
	enrollHandler := command.NewEnrollStudentHandler(memberships)

	// Initialize query handlers
	getPaperHandler := query.NewGetPaperHandler(repo)
	listHandler := query.NewListPapersHandler(repo)
	orgStudentsHandler := query.NewListOrgStudentsHandler(memberships)
	statsHandler := query.NewGetStatsHandler(repo)

	// Initialize Prometheus metrics
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paper_service_requests_total",
			Help: "Total number of requests to paper service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "paper_service_request_duration_seconds",
			Help:    "Duration of paper service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	totalPapers := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "paper_service_total_papers",
			Help: "Total number of papers in the catalog",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(totalPapers)

	return &PaperHandler{
		createHandler:      createHandler,
		updateHandler:      updateHandler,
		publishHandler:     publishHandler,
		deleteHandler:      deleteHandler,
		enrollHandler:      enrollHandler,
		getPaperHandler:    getPaperHandler,
		listHandler:        listHandler,
		orgStudentsHandler: orgStudentsHandler,
		statsHandler:       statsHandler,
		repo:               repo,
		requestCounter:     requestCounter,
		requestLatency:     requestLatency,
		totalPapers:        totalPapers,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *PaperHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()

		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

func (h *PaperHandler) RegisterRoutes(router *mux.Router) {
	// Public routes (no auth required)
	router.HandleFunc("/api/papers", h.metricsMiddleware("/api/papers", h.ListPapers)).Methods("GET")
	router.HandleFunc("/api/papers/stats", h.metricsMiddleware("/api/papers/stats", AdminMiddleware(h.GetStats))).Methods("GET")
	router.HandleFunc("/api/papers/{id}", h.metricsMiddleware("/api/papers/{id}", h.GetPaper)).Methods("GET")

	// Teacher routes
	router.HandleFunc("/api/papers", h.metricsMiddleware("/api/papers", TeacherMiddleware(h.CreatePaper))).Methods("POST")
	router.HandleFunc("/api/papers/{id}", h.metricsMiddleware("/api/papers/{id}", TeacherMiddleware(h.UpdatePaper))).Methods("PUT")
	router.HandleFunc("/api/papers/{id}", h.metricsMiddleware("/api/papers/{id}", TeacherMiddleware(h.DeletePaper))).Methods("DELETE")
	router.HandleFunc("/api/papers/{id}/publish", h.metricsMiddleware("/api/papers/{id}/publish", TeacherMiddleware(h.PublishPaper))).Methods("POST")

	// Roster routes
	router.HandleFunc("/api/orgs/{id}/students", h.metricsMiddleware("/api/orgs/{id}/students", h.ListOrgStudents)).Methods("GET")
	router.HandleFunc("/api/orgs/{id}/students", h.metricsMiddleware("/api/orgs/{id}/students", TeacherMiddleware(h.EnrollStudent))).Methods("POST")
}

// CreatePaper handles POST /api/papers
func (h *PaperHandler) CreatePaper(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := r.Context().Value(StudentIDKey).(uint)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Teacher ID not found in context"})
		return
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Subject     string `json:"subject"`
		Standard    string `json:"standard"`
		Price       int64  `json:"price"`
		OrgID       uint   `json:"org_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	cmd := command.CreatePaperCommand{
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		Standard:    req.Standard,
		Price:       req.Price,
		TeacherID:   teacherID,
		OrgID:       req.OrgID,
	}

	paper, err := h.createHandler.Handle(cmd)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to create paper")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	h.updatePapersMetric()

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Paper created successfully",
		Data:    paper,
	})
}

// ListPapers handles GET /api/papers
func (h *PaperHandler) ListPapers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	teacherID, _ := strconv.ParseUint(r.URL.Query().Get("teacher_id"), 10, 32)
	orgID, _ := strconv.ParseUint(r.URL.Query().Get("org_id"), 10, 32)

	q := query.ListPapersQuery{
		Limit:     limit,
		Offset:    offset,
		TeacherID: uint(teacherID),
		OrgID:     uint(orgID),
	}

	papers, err := h.listHandler.Handle(q)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list papers")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list papers",
		})
		return
	}

	count, _ := h.repo.Count()

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"papers": papers,
			"total":  count,
			"limit":  q.Limit,
			"offset": offset,
		},
	})
}

// GetPaper handles GET /api/papers/{id}
func (h *PaperHandler) GetPaper(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid paper ID",
		})
		return
	}

	q := query.GetPaperQuery{ID: uint(id)}
	paper, err := h.getPaperHandler.Handle(q)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Paper not found",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    paper,
	})
}

// UpdatePaper handles PUT /api/papers/{id}
func (h *PaperHandler) UpdatePaper(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := r.Context().Value(StudentIDKey).(uint)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Teacher ID not found in context"})
		return
	}

	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid paper ID",
		})
		return
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Subject     string `json:"subject"`
		Standard    string `json:"standard"`
		Price       *int64 `json:"price"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	cmd := command.UpdatePaperCommand{
		ID:          uint(id),
		TeacherID:   teacherID,
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		Standard:    req.Standard,
		Price:       req.Price,
	}

	paper, err := h.updateHandler.Handle(cmd)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to update paper")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Paper updated successfully",
		Data:    paper,
	})
}

// PublishPaper handles POST /api/papers/{id}/publish
func (h *PaperHandler) PublishPaper(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := r.Context().Value(StudentIDKey).(uint)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Teacher ID not found in context"})
		return
	}
	token, _ := r.Context().Value(TokenKey).(string)

	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid paper ID",
		})
		return
	}

	result, err := h.publishHandler.Handle(r.Context(), command.PublishPaperCommand{
		ID:        uint(id),
		TeacherID: teacherID,
		Token:     token,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Uint64("paper_id", id).Msg("Failed to publish paper")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Paper published successfully",
		Data:    result,
	})
}

// DeletePaper handles DELETE /api/papers/{id}
func (h *PaperHandler) DeletePaper(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := r.Context().Value(StudentIDKey).(uint)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Teacher ID not found in context"})
		return
	}

	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid paper ID",
		})
		return
	}

	cmd := command.DeletePaperCommand{ID: uint(id), TeacherID: teacherID}
	if err := h.deleteHandler.Handle(cmd); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to delete paper")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	h.updatePapersMetric()

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Paper deleted successfully",
	})
}

// ListOrgStudents handles GET /api/orgs/{id}/students
func (h *PaperHandler) ListOrgStudents(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orgID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid org ID",
		})
		return
	}

	students, err := h.orgStudentsHandler.Handle(query.ListOrgStudentsQuery{OrgID: uint(orgID)})
	if err != nil {
		logger.Logger.Error().Err(err).Uint64("org_id", orgID).Msg("Failed to list org students")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list students",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    students,
	})
}

// EnrollStudent handles POST /api/orgs/{id}/students
func (h *PaperHandler) EnrollStudent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orgID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid org ID",
		})
		return
	}

	var req struct {
		StudentID    uint   `json:"student_id"`
		StudentEmail string `json:"student_email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	membership, err := h.enrollHandler.Handle(command.EnrollStudentCommand{
		OrgID:        uint(orgID),
		StudentID:    req.StudentID,
		StudentEmail: req.StudentEmail,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to enroll student")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Student enrolled successfully",
		Data:    membership,
	})
}

// GetStats handles GET /api/papers/stats
func (h *PaperHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	q := query.GetStatsQuery{}
	stats, err := h.statsHandler.Handle(q)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to get stats")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to get statistics",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    stats,
	})
}

func (h *PaperHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Paper service is healthy",
		})
	}).Methods("GET")
}

// updatePapersMetric updates the total papers gauge
func (h *PaperHandler) updatePapersMetric() {
	count, err := h.repo.Count()
	if err == nil {
		h.totalPapers.Set(float64(count))
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
