package user

// UserResponse defines the response structure for account information.
type UserResponse struct {
	ID             uint   `json:"id"`
	Email          string `json:"email"`
	PlanStatus     string `json:"plan_status"`
	CreditsBalance int    `json:"credits_balance"`
	// NextResetIn is only meaningful for free accounts; "due now" means the
	// next quota check will refill the balance.
	NextResetIn string `json:"next_reset_in,omitempty"`
	Token       string `json:"token,omitempty"`
}
