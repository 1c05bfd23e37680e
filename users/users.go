package users

import "github.com/jrsteele09/go-crawler-client/users/model"

// User is the profile record returned by the Site Crawler API. It lives in
// the leaf model package so the session manager can reference it without
// importing this package; the alias keeps users.User as the public name.
type User = model.User

// Update carries the optional fields of a profile update. Nil fields are
// omitted from the request so the backend leaves them untouched.
type Update struct {
	Name     *string `json:"name,omitempty"`
	LastName *string `json:"last_name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
}

// Create carries the fields required to register a new user.
type Create struct {
	Name     string  `json:"name"`
	LastName string  `json:"last_name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     *string `json:"role,omitempty"`
}
