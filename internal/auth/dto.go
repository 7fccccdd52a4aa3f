package auth

import "time"

// SignupRequest captures the fields required to create an account.
type SignupRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=100"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=128"`
	MobileNo *string `json:"mobile_no,omitempty" validate:"omitempty,min=7,max=15"`
}

// LoginRequest captures the customer credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CustomerDTO is the public shape of a customer account.
type CustomerDTO struct {
	CustID    string    `json:"cust_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	MobileNo  *string   `json:"mobile_no,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse contains the token and customer produced by signup or login.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	Customer    *CustomerDTO `json:"customer"`
}
