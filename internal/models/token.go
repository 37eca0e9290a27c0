package models

// user roles carried in the auth token
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// TokenPayload is the verified content of an auth token
type TokenPayload struct {
	UserID string
	Role   string
}
