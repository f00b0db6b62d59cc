package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// SignupRequest creates an account with a chosen role. Role selection at
// signup mirrors the original onboarding flow — there is no admin
// approval step.
type SignupRequest struct {
	Username    string `json:"username"     validate:"required,min=1,max=150"`
	DisplayName string `json:"display_name" validate:"required,min=2,max=100"`
	Password    string `json:"password"     validate:"required,min=8"`
	Role        string `json:"role"         validate:"required,oneof=manager employee"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Active      bool   `json:"active"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // seconds
	User         UserResponse `json:"user"`
}

// DashboardResponse is the non-privileged landing view: who you are and
// what you may do.
type DashboardResponse struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	IsManager bool   `json:"is_manager"`
}
