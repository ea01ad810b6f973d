package models

import (
	"time"
)

// Role is a user's permission level
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAuthor Role = "author"
	RoleReader Role = "reader"
)

// ValidRoles defines allowed user roles
var ValidRoles = map[Role]bool{
	RoleAdmin:  true,
	RoleAuthor: true,
	RoleReader: true,
}

// User is a stored account. Users live together in one JSON array file.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the part of a user that is safe to show to anyone
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
}

// Public returns the public projection of u
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Role:     u.Role,
	}
}

// Author is a public user listed as a writer
type Author struct {
	PublicUser
	CreatedAt time.Time `json:"createdAt"`
}

// AuthorProfile is an author together with their published articles
type AuthorProfile struct {
	Author        Author         `json:"author"`
	Articles      []ArticleIndex `json:"articles"`
	TotalArticles int            `json:"totalArticles"`
}

// Identity is the authenticated caller extracted from a token
type Identity struct {
	UserID   string
	Role     Role
	Username string
}

// IsAdmin reports whether the caller has the admin role
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// RegisterRequest is the request body for account registration
type RegisterRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for login. Username may also be an email.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
