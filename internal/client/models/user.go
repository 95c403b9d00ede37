// Package models holds the client-side data model: the signed-in identity,
// the persisted credential and the pending OTP challenge.
package models

// Role is the authorisation role reported by the API.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is the identity attached to a Session. It is replaced wholesale on
// login or profile refresh.
type User struct {
	ID     int64  `json:"id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   Role   `json:"role,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Bio    string `json:"bio,omitempty"`
}

// IsAdmin reports whether u carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Client is the customer record returned by the phone identify endpoint.
type Client struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// AsUser turns a customer record into a session identity with role user.
func (c Client) AsUser() User {
	return User{
		ID:    c.ID,
		Name:  c.Name,
		Email: c.Email,
		Phone: c.Phone,
		Role:  RoleUser,
	}
}
