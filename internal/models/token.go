package models

// user roles
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleOwner    = "owner"
	RoleDelivery = "delivery"
)

// TokenPayload is authorization token payload
type TokenPayload struct {
	UserID uint64 `json:"user_id"`
	Role   string `json:"role"`
}

// IsOperator reports whether the role sees every vendor's data
func (p *TokenPayload) IsOperator() bool {
	return p.Role == RoleOwner || p.Role == RoleStaff
}
