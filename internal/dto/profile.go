package dto

type ReviewJoinRequest struct {
	Email    string `json:"email"`
	Decision string `json:"decision"`
}

type AssignProfileRequest struct {
	Email   string `json:"email"`
	Profile string `json:"profile"`
}

type RegisterSalerRequest struct {
	Email string `json:"email"`
}

type ProfileResponse struct {
	Email      string `json:"email"`
	BusinessID string `json:"businessId"`
	Role       string `json:"role"`
	Status     string `json:"status"`
}
