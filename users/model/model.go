// Package model holds the user profile record in a leaf package so that
// both the users service and the session manager can depend on it without
// importing each other.
package model

// User is the profile record returned by the Site Crawler API. The bearer
// token returned alongside it by the login endpoint is never part of this
// type; it is stored separately by the session manager.
type User struct {
	ID         int     `json:"id"`                    // Unique identifier for the user
	Name       string  `json:"name"`                  // First name
	LastName   string  `json:"last_name"`             // Last name
	Email      string  `json:"email"`                 // Email address, doubles as the login identifier
	Role       *string `json:"role"`                  // Optional role, e.g. "admin"
	IsVerified bool    `json:"is_verified,omitempty"` // Whether the account passed verification
}

// DisplayName returns the user's full name for UI output.
func (u User) DisplayName() string {
	if u.LastName == "" {
		return u.Name
	}
	return u.Name + " " + u.LastName
}
