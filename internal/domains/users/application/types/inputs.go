package types

// RegisterInput is a self-service sign-up request.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	FullName string
	Phone    string
	Address  string
}
