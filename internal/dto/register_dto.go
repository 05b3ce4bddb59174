package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateRegisterRequest struct {
	Name           string  `json:"name"             validate:"required,min=2,max=100"`
	SecretCode     string  `json:"secret_code"      validate:"required,min=4"`
	AssignedUserID *string `json:"assigned_user_id" validate:"omitempty,uuid"`
}

type UpdateRegisterRequest struct {
	Name           string  `json:"name"             validate:"omitempty,min=2,max=100"`
	SecretCode     string  `json:"secret_code"      validate:"omitempty,min=4"`
	AssignedUserID *string `json:"assigned_user_id" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RegisterResponse struct {
	ID             string  `json:"id"`
	BranchID       int     `json:"branch_id"`
	Name           string  `json:"name"`
	AssignedUserID *string `json:"assigned_user_id"`
	Active         bool    `json:"active"`
	// OpenSessionID is set when the register currently has an open session.
	OpenSessionID *string `json:"open_session_id"`
}
