package dto

// CheckoutRequest completes the current cart into a Sale. Customer fields are
// optional; anonymous sales are recorded under the walk-in placeholder.
type CheckoutRequest struct {
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	CustomerEmail string `json:"customerEmail" validate:"omitempty,email"`
}
