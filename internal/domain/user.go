package domain

import "time"

type UserRole string

const (
	RoleRequester     UserRole = "REQUESTER"
	RoleOrgAdmin      UserRole = "ORG_ADMIN"
	RolePrintOperator UserRole = "PRINT_OPERATOR"
)

// ValidRole reports whether r is one of the three account roles.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleRequester, RoleOrgAdmin, RolePrintOperator:
		return true
	}
	return false
}

type User struct {
	ID           int32      `json:"id"`
	OrgID        int32      `json:"org_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         UserRole   `json:"role"`
	// SessionEpoch increments on forced logout; tokens carrying an older
	// epoch are rejected at verification time.
	SessionEpoch int32      `json:"-"`
	Active       bool       `json:"active"`
	LastLoginOn  *time.Time `json:"last_login_on,omitempty"`
	CreatedOn    string     `json:"created_on"`
	UpdatedOn    string     `json:"updated_on"`
}
