package dto

type SignUpRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type SignUpResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}
