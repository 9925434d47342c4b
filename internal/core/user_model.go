package core

// Role distinguishes administrators from regular service assignees.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// UserAccount is a roster record including the login credential.
// The roster is a fixed list seeded at startup; there is no registration flow
// and passwords are compared in plaintext (the roster is demo data, not a real
// credential store).
type UserAccount struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
	Approved bool   `json:"approved"`
}

// UserProfile is the credential-free view of a roster account handed to
// callers outside the directory.
type UserProfile struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Approved bool   `json:"approved"`
}

// Profile strips the credential from an account.
func (u UserAccount) Profile() UserProfile {
	return UserProfile{Email: u.Email, Name: u.Name, Role: u.Role, Approved: u.Approved}
}
