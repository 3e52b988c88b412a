package types

// User represents an account row in the users table.
// Username is the primary lookup key; there is no numeric id.
type User struct {
	// Username is the unique login name chosen by the user.
	Username string `json:"username" db:"username"`

	// Email is the user's email address.
	Email string `json:"email" db:"email"`

	// Phone is the user's phone number, stored as entered.
	Phone string `json:"phone" db:"phone"`

	// Role is the authorization level, "user" or "admin".
	// Accounts are always created as "user"; admins are provisioned
	// directly in the database.
	Role string `json:"role" db:"role"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password"`
}

// Profile is the subset of a user returned by lookup endpoints.
// It deliberately excludes the role and the password hash.
type Profile struct {
	Username string `json:"username" db:"username"`
	Email    string `json:"email" db:"email"`
	Phone    string `json:"phone" db:"phone"`
}

// SessionUser is the shape returned to the client on a successful login
// and held in the client's persisted session.
type SessionUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
