package storeserver

// RegisterRequest creates a customer account.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// RegisterResponse acknowledges a new account.
type RegisterResponse struct {
	Message  string `json:"message"`
	UserId   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginRequest carries credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// User is the account profile returned after login. It never carries the password.
type User struct {
	UserId   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Role     string `json:"role"`
}

// LoginResponse wraps the logged in profile.
type LoginResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// UploadImageResponse reports where an uploaded image is served.
type UploadImageResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	Url      string `json:"url"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status string `json:"status"`
}
