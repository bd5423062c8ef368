package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// CreatePaper godoc
// @Summary Create a paper
// @Description Creates a draft exam paper owned by the calling teacher
// @Tags Papers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{title=string,description=string,subject=string,standard=string,price=int,org_id=int} true "Paper data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Router /api/papers [post]
func (h *PaperHandler) CreatePaperDoc() {}

// PublishPaper godoc
// @Summary Publish a paper
// @Description Makes the paper public and triggers coupon generation for the organization roster
// @Tags Papers
// @Security BearerAuth
// @Produce json
// @Param id path int true "Paper ID"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Router /api/papers/{id}/publish [post]
func (h *PaperHandler) PublishPaperDoc() {}

// GetPaper godoc
// @Summary Get a paper by ID
// @Tags Papers
// @Produce json
// @Param id path int true "Paper ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/papers/{id} [get]
func (h *PaperHandler) GetPaperDoc() {}
