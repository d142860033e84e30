package model

import (
	"fmt"
	"math/rand/v2"
	"net/url"
)

// User is a row of the users sheet.
type User struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Username       string `json:"username"`
	PasswordHashed string `json:"-"` // never leaves the server
	Avatar         string `json:"avatar"`
}

// PublicUser is the shape returned to clients.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

// Public strips the credential and fills in a derived avatar if the row has none.
func (u *User) Public() PublicUser {
	avatar := u.Avatar
	// Derived per call and never written back; the background colour may
	// differ between responses for the same user.
	if avatar == "" {
		avatar = AvatarURL(u.Username)
	}
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   avatar,
	}
}

// RegisterRequest represents the data needed to register a new user
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string     `json:"message"`
	User    PublicUser `json:"user"`
}

// ProfileResponse is a user's public fields plus their active posts.
type ProfileResponse struct {
	PublicUser
	Posts      []Post `json:"posts"`
	TotalLikes int    `json:"totalLikes"`
	TotalViews int    `json:"totalViews"`
}

var avatarColors = []string{"FFAD08", "EDD382", "FCFF4B", "FF70A6", "FF9770", "FFD670", "E9FF70", "7DCD85"}

// AvatarURL derives a generated avatar from the username and a random palette color.
func AvatarURL(username string) string {
	color := avatarColors[rand.IntN(len(avatarColors))]
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=%s&color=fff&size=128",
		url.QueryEscape(username), color)
}
