package domain

import "time"

// Role is the coarse permission level carried by an account and its tokens.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Account models a registered user. PasswordHash never leaves the
// service boundary; it is excluded from every JSON rendering.
type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Public returns a copy of the account with the password hash cleared.
func (a Account) Public() Account {
	a.PasswordHash = ""
	return a
}

// AccountUpdate holds the mutable columns of an account. Empty fields are
// left unchanged by the store.
type AccountUpdate struct {
	Username     string
	Email        string
	PasswordHash string
}

// Empty reports whether the update carries no field at all.
func (u AccountUpdate) Empty() bool {
	return u.Username == "" && u.Email == "" && u.PasswordHash == ""
}

// Identity is the authenticated caller established from a bearer token.
type Identity struct {
	AccountID int64
	Role      Role
}

// IsAdmin reports whether the identity holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
