package user

type UserResponse struct {
	ID                 string `json:"id"`
	Username           string `json:"username"`
	FullName           string `json:"full_name"`
	RemainingLeaveDays int    `json:"remaining_leave_days"`
	IsAdmin            bool   `json:"is_admin"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}
