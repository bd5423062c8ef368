package http

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/acadly/paperpay/internal/student/domain"
	"github.com/acadly/paperpay/internal/student/usecase/command"
	"github.com/acadly/paperpay/internal/student/usecase/query"
	"github.com/acadly/paperpay/pkg/logger"
)

// StudentHandler handles HTTP requests for accounts using CQRS pattern
type StudentHandler struct {
	// Command handlers
	registerHandler *command.RegisterStudentHandler
	loginHandler    *command.LoginStudentHandler

	// Query handlers
	getStudentHandler *query.GetStudentHandler
	listHandler       *query.ListStudentsHandler

	repo          domain.StudentRepository
	registrations prometheus.Counter
	logins        *prometheus.CounterVec
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(repo domain.StudentRepository) *StudentHandler {
	registerHandler := command.NewRegisterStudentHandler(repo)
	loginHandler := command.NewLoginStudentHandler(repo)
	getStudentHandler := query.NewGetStudentHandler(repo)
	listHandler := query.NewListStudentsHandler(repo)

	registrations := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "student_service_registrations_total",
			Help: "Total account registrations",
		},
	)

	logins := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "student_service_logins_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"}, // success, failed
	)

	prometheus.MustRegister(registrations)
	prometheus.MustRegister(logins)

	return &StudentHandler{
		registerHandler:   registerHandler,
		loginHandler:      loginHandler,
		getStudentHandler: getStudentHandler,
		listHandler:       listHandler,
		repo:              repo,
		registrations:     registrations,
		logins:            logins,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (h *StudentHandler) RegisterRoutes(router *mux.Router) {
	// Public routes
	router.HandleFunc("/api/students/register", h.Register).Methods("POST")
	router.HandleFunc("/api/students/login", h.Login).Methods("POST")

	// Authenticated routes
	router.HandleFunc("/api/students/me", AuthMiddleware(h.GetMe)).Methods("GET")

	// Admin routes
	router.HandleFunc("/api/students", AdminMiddleware(h.ListStudents)).Methods("GET")
	router.HandleFunc("/api/students/{id}", AdminMiddleware(h.GetStudent)).Methods("GET")
}

// Register handles POST /api/students/register
func (h *StudentHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
		Role     string `json:"role"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	student, err := h.registerHandler.Handle(command.RegisterStudentCommand{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to register student")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	h.registrations.Inc()

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Account created successfully",
		Data:    student,
	})
}

// Login handles POST /api/students/login
func (h *StudentHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.loginHandler.Handle(command.LoginStudentCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logins.WithLabelValues("failed").Inc()
		respondJSON(w, http.StatusUnauthorized, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	h.logins.WithLabelValues("success").Inc()

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Login successful",
		Data:    result,
	})
}

// GetMe handles GET /api/students/me
func (h *StudentHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	studentID, ok := r.Context().Value(StudentIDKey).(uint)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Student ID not found in context"})
		return
	}

	student, err := h.getStudentHandler.Handle(query.GetStudentQuery{ID: studentID})
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Account not found",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    student,
	})
}

// GetStudent handles GET /api/students/{id}
func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid student ID",
		})
		return
	}

	student, err := h.getStudentHandler.Handle(query.GetStudentQuery{ID: uint(id)})
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Account not found",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    student,
	})
}

// ListStudents handles GET /api/students
func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	students, err := h.listHandler.Handle(query.ListStudentsQuery{Limit: limit, Offset: offset})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list students")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list students",
		})
		return
	}

	count, _ := h.repo.Count()

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"students": students,
			"total":    count,
		},
	})
}

func (h *StudentHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
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
			Message: "Student service is healthy",
		})
	}).Methods("GET")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
