package model

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "token"

// Claims is the signed payload of a session token. It is trusted as-is until it
// expires; a username change is invisible to a session issued before it.
type Claims struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	jwt.RegisteredClaims
}

// MeResponse wraps the decoded claims for GET /api/me.
type MeResponse struct {
	User *Claims `json:"user"`
}

// MessageResponse is a body carrying only a message.
type MessageResponse struct {
	Message string `json:"message"`
}
