package auth

import "errors"

var (
	errEmailTaken    = errors.New("email already registered")
	errUserNotFound  = errors.New("user not found")
	errWrongPassword = errors.New("wrong password")
)

// RegisterInput carries the trimmed registration form fields.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput carries the trimmed login form fields.
type LoginInput struct {
	Email    string
	Password string
}
