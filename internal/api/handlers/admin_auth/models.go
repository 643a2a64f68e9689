package admin_auth

// LoginRequest HTTP request model
type LoginRequest struct {
	Password string `json:"password"`
}

// SessionResponse статус admin-сессии
type SessionResponse struct {
	Authenticated bool `json:"authenticated"`
}
