package dto

// CreateUserRequest registers a new user with an optional profile
type CreateUserRequest struct {
	Username   string  `json:"username" binding:"required" example:"jane"`
	Email      string  `json:"email" binding:"required,email" example:"jane@present.edu"`
	Password   string  `json:"password" binding:"required,min=8" example:"s3cret-pass"`
	Role       string  `json:"role" binding:"required,oneof=admin teacher student" example:"teacher"`
	FirstName  string  `json:"firstName" example:"Jane"`
	LastName   string  `json:"lastName" example:"Doe"`
	MiddleName *string `json:"middleName,omitempty"`
	Department *string `json:"department,omitempty"`
	EmployeeID *string `json:"employeeId,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
}

// UpsertProfileRequest creates or replaces a user's profile fields
type UpsertProfileRequest struct {
	FirstName      string  `json:"firstName" binding:"required"`
	LastName       string  `json:"lastName" binding:"required"`
	MiddleName     *string `json:"middleName,omitempty"`
	Department     *string `json:"department,omitempty"`
	EmployeeID     *string `json:"employeeId,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Address        *string `json:"address,omitempty"`
	DateOfBirth    *string `json:"dateOfBirth,omitempty" example:"1990-04-12"` // YYYY-MM-DD
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

// LoginRequest authenticates by username or email
type LoginRequest struct {
	Login    string `json:"login" binding:"required" example:"jane"`
	Password string `json:"password" binding:"required" example:"s3cret-pass"`
}

// LoginResponse carries the issued token pair
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn" example:"3600"`
	UserID       int64  `json:"userId"`
	Role         string `json:"role"`
}
