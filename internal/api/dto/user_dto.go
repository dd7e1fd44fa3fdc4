package dto

// CredentialsRequest is the login payload. The password arrives in
// plaintext, is hashed immediately, and is never persisted.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserRequest is the provisioning payload.
type UserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

// PasswordChangeRequest carries the current and replacement passwords.
type PasswordChangeRequest struct {
	Current string `json:"current"`
	New     string `json:"new"`
}
