package domain

// AdminUser is the single operator account for the admin surface.
// The password is stored as an argon2id hash, never in the clear.
type AdminUser struct {
	Record
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
