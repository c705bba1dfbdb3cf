package auth

import "fmt"

type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleViewer Role = "Viewer"
)

// ParseRole validates a role string coming from outside the process
// (credential files, token claims).
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleViewer:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}
