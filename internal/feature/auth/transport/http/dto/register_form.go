// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// RegisterForm represents the form body for POST /register.
// Only presence is validated; uniqueness is enforced by the store.
type RegisterForm struct {
	Username string `form:"username" binding:"required"`
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}
