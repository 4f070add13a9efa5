package domain

import "time"

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 10 * 24 * time.Hour

// Token is an issued session token. Tokens are append-only: they are never
// updated or deleted, and expiry is computed at validation time.
type Token struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Value     string    `json:"token"`
	RemoteIP  string    `json:"remote_ip"`
	CreatedAt time.Time `json:"date_created"`
}

// ValidAt reports whether the token is still live at now for ttl.
// A token exactly ttl old is expired.
func (t *Token) ValidAt(now time.Time, ttl time.Duration) bool {
	return t.CreatedAt.After(now.Add(-ttl))
}

// Account is the login view of a user.
type Account struct {
	ID           int64
	Username     string
	PublicKey    string
	PasswordHash string
}

// User is a user profile.
type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	FullName    string    `json:"full_name,omitempty"`
	CompanyID   int64     `json:"company_id,omitempty"`
	CompanyName string    `json:"company_name,omitempty"`
	Role        Role      `json:"role"`
	RoleName    string    `json:"role_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Lang        string    `json:"lang,omitempty"`
	CreatedAt   time.Time `json:"date_created"`
}

// UserRole is a row of the role catalog.
type UserRole struct {
	ID   Role   `json:"id"`
	Name string `json:"role_name"`
}

// UserContext is attached to an authorized request.
type UserContext struct {
	UserID int64
	Lang   string
	Role   Role
	User   *User
}
