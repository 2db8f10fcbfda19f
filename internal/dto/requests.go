package dto

// RegisterRequest represents the request to register a new user
type RegisterRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
}

// LoginRequest represents the request to log in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the request to refresh tokens
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest represents the request to update own profile
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Location  *string `json:"location"`
	Avatar    *string `json:"avatar"`
	Bio       *string `json:"bio"`
}

// CreateServiceRequest represents the request to publish a service
type CreateServiceRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Category     string   `json:"category" binding:"required"`
	Points       int      `json:"points" binding:"required"`
	Location     string   `json:"location"`
	Availability string   `json:"availability"`
	Tags         []string `json:"tags"`
}

// UpdateServiceRequest represents the request to update a service
type UpdateServiceRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Category     *string  `json:"category"`
	Points       *int     `json:"points"`
	Location     *string  `json:"location"`
	Availability *string  `json:"availability"`
	Tags         []string `json:"tags"`
	IsAvailable  *bool    `json:"is_available"`
}

// RequestServiceRequest represents the request to start a transaction
type RequestServiceRequest struct {
	ServiceID string `json:"service_id" binding:"required"`
	Message   string `json:"message"`
}

// RespondRequest represents the provider's answer to a pending request
type RespondRequest struct {
	Action string `json:"action" binding:"required"`
}
