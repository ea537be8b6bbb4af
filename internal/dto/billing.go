package dto

// ── billing ──

// RegularizeRequest the student must confirm the checkout.
type RegularizeRequest struct {
	Confirmed bool `json:"confirmed"`
}

// RegularizeResponse the payment is confirmed asynchronously.
type RegularizeResponse struct {
	Status        string `json:"status"`
	CompletesInMs int64  `json:"completesInMs"`
}
