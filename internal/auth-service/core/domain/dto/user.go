package dto

type RegistrationRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

type AuthRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type RegistrationResponse struct {
	UserId      string `json:"user_id"`
	AccessToken string `json:"jwt_access"`
}

type AuthResponse struct {
	UserId      string `json:"user_id"`
	AccessToken string `json:"jwt_access"`
}
