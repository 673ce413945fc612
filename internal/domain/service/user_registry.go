package service

import "context"

// UserRecord is the account payload announced to the downstream user service
// after a successful registration.
type UserRecord struct {
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	BirthDate string `json:"birthDate"`
	Email     string `json:"email"`
}

// UserRegistry notifies the downstream user service about new accounts.
// The access token issued to the freshly registered user authenticates the
// call and is passed explicitly rather than through any ambient storage.
type UserRegistry interface {
	// CreateUser announces a new account. Implementations deliver on a
	// best-effort basis; a delivery failure must not fail the registration.
	CreateUser(ctx context.Context, record UserRecord, accessToken string)
}
