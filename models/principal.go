package models

// Principal is the authenticated caller as seen by the core. Identity is
// resolved upstream; the core only inspects ID and Role.
type Principal struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p Principal) Is(id string) bool {
	return p.ID != "" && p.ID == id
}
