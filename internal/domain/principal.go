package domain

// RoleAdmin grants access to the review dashboard mutations and lead listing
const RoleAdmin = "admin"

// Principal is the authenticated identity resolved from a session
type Principal struct {
	Subject string   `json:"id"`
	Email   string   `json:"email"`
	Name    string   `json:"displayName,omitempty"`
	Picture string   `json:"picture,omitempty"`
	Roles   []string `json:"roles"`
}

// HasRole reports whether the principal carries role
func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin is shorthand for HasRole(RoleAdmin)
func (p *Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}
