package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// Redeem godoc
// @Summary Redeem a coupon code
// @Description Validates a single-use coupon and grants zero-price access on success
// @Tags Coupons
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{code=string,paper_id=int} true "Redemption data"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/coupons/validate [post]
func (h *CouponHandler) RedeemDoc() {}

// Generate godoc
// @Summary Generate coupons for a paper
// @Description Issues one coupon per active student of the owning organization
// @Tags Coupons
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Paper ID"
// @Param request body object{org_id=int} true "Generation data"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Router /api/papers/{id}/coupons [post]
func (h *CouponHandler) GenerateDoc() {}

// DeleteUnused godoc
// @Summary Delete unredeemed coupons for a paper
// @Tags Coupons
// @Security BearerAuth
// @Produce json
// @Param id path int true "Paper ID"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Router /api/papers/{id}/coupons/unused [delete]
func (h *CouponHandler) DeleteUnusedDoc() {}
