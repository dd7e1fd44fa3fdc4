package domain

// User is the persisted account record. Password always holds the hashed
// form; Token is the currently valid session token, empty until the first
// login.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
	Token    string `json:"token,omitempty"`
}

// PartialUser is the listing projection: no password hash, no session token.
type PartialUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

// Partial strips credential material from a user record.
func (u User) Partial() PartialUser {
	return PartialUser{
		Username: u.Username,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
	}
}

// APIKey is the capability yielded by a successful authorization. It carries
// the verified token so downstream flows can re-resolve the acting user.
type APIKey struct {
	Token string `json:"token"`
}
