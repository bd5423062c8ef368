package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// CreateOrder godoc
// @Summary Create a checkout order
// @Description Opens a gateway order for a paper and records the pending payment
// @Tags Payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{paper_id=int} true "Order data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/payment/order [post]
func (h *PaymentHandler) CreateOrderDoc() {}

// VerifyPayment godoc
// @Summary Verify a completed checkout
// @Description Verifies the client signature, confirms capture and grants access
// @Tags Payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{order_id=string,payment_id=string,signature=string,paper_id=int} true "Verification data"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/payment/verify [post]
func (h *PaymentHandler) VerifyPaymentDoc() {}

// Webhook godoc
// @Summary Gateway webhook receiver
// @Description Settles captured payments delivered asynchronously by the gateway
// @Tags Payments
// @Accept json
// @Produce json
// @Param X-Checkout-Signature header string true "HMAC over raw body"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/payment/webhook [post]
func (h *PaymentHandler) WebhookDoc() {}

// ClaimFree godoc
// @Summary Claim a free paper
// @Description Grants access to a zero-price paper without checkout
// @Tags Payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{paper_id=int} true "Claim data"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/payment/claim-free [post]
func (h *PaymentHandler) ClaimFreeDoc() {}

// GetMyPurchases godoc
// @Summary List my purchases
// @Description Lists the authenticated student's entitlements
// @Tags Purchases
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/purchases/my [get]
func (h *PaymentHandler) GetMyPurchasesDoc() {}
