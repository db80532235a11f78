package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the roles recognised by the availability API.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPERADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleInstructor UserRole = "INSTRUCTOR"
)

// JWTClaims is the access-token payload issued by the LMS identity service.
// For instructors, UserID is the instructor id.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}
