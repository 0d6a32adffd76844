package models

// AdminRole enumerates dashboard roles.
type AdminRole string

const (
	AdminRoleAdmin  AdminRole = "admin"
	AdminRoleEditor AdminRole = "editor"
)

// IsValid reports whether the role is one the dashboard recognizes.
func (r AdminRole) IsValid() bool {
	switch r {
	case AdminRoleAdmin, AdminRoleEditor:
		return true
	}
	return false
}

// Admin is a dashboard user row.
type Admin struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         AdminRole
	Active       bool
}

// AdminSession is the authenticated session attached to admin requests.
type AdminSession struct {
	AdminID   string    `json:"admin_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      AdminRole `json:"role"`
	IssuedAt  int64     `json:"issued_at"`
	ExpiresAt int64     `json:"expires_at"`
}

// AdminLoginRequest is the login form payload.
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AdminLoginResponse is returned on successful login.
type AdminLoginResponse struct {
	Success bool          `json:"success"`
	Session *AdminSession `json:"session"`
}
