package model

import "github.com/golang-jwt/jwt/v5"

// LecturerClaims are JWT claims for the demo lecturer sign-in
type LecturerClaims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// SignInResponse is returned after the demo sign-in
type SignInResponse struct {
	Token     string    `json:"token"`
	ExpiresAt int64     `json:"expiresAt"`
	State     *Snapshot `json:"state,omitempty"`
}
