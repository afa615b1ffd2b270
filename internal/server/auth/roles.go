package auth

import "github.com/avelichko/inkwell-auth/internal/server/models"

// Allowed is the single authorization rule used by every guarded entry
// point: an empty required set means no restriction, admins bypass role
// checks, and otherwise the caller's role must be a member of the set.
//
// Whether a caller is authenticated at all is a separate question answered
// before this rule runs.
func Allowed(role models.Role, required ...models.Role) bool {
	if len(required) == 0 {
		return true
	}
	if role == models.RoleAdmin {
		return true
	}
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}
