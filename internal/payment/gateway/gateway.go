package gateway

import "context"

// OrderRequest is the create-order call payload. Receipt must stay within the
// gateway's 40 character limit; business identifiers travel in Notes, which the
// gateway echoes back unmodified in webhook payloads.
type OrderRequest struct {
	Amount   int64             // minor currency units
	Currency string
	Receipt  string
	Notes    map[string]string
}

// Order is the gateway's view of a created order
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// PaymentDetails is the gateway's authoritative record of a payment attempt
type PaymentDetails struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Amount  int64  `json:"amount"`
}

// Captured is the only payment status that settles an order
const Captured = "captured"

// Gateway defines the contract with the external checkout provider
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	FetchPayment(ctx context.Context, paymentRef string) (*PaymentDetails, error)
}
