package models

// Claims represents the identity carried by a session token
type Claims struct {
	UserID    string `json:"user_id"`
	Anonymous bool   `json:"anonymous"`
	Exp       int64  `json:"exp"`
}

// CustomTokenRequest represents a sign-in with an externally minted token
type CustomTokenRequest struct {
	Token string `json:"token"`
}

// SignInResponse represents a successful sign-in
type SignInResponse struct {
	UserID    string `json:"user_id"`
	Token     string `json:"token"`
	Anonymous bool   `json:"anonymous"`
	ExpiresAt int64  `json:"expires_at"`
}

// TipResponse carries a single eco tip
type TipResponse struct {
	Tip string `json:"tip"`
}
