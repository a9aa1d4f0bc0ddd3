package model

import "github.com/shopspring/decimal"

// Role is the closed set of operator roles. Permission checks key off
// these values, there are no dynamic role attributes.
type Role string

const (
	RoleDirector Role = "director"
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleStaff    Role = "staff"
)

func (r Role) Valid() bool {
	switch r {
	case RoleDirector, RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

type User struct {
	BaseModel
	Username        string          `db:"username" json:"username"`
	Email           string          `db:"email" json:"email"`
	Role            Role            `db:"role" json:"role"`
	StoreID         *string         `db:"store_id" json:"store_id"`
	CommissionRate  decimal.Decimal `db:"commission_rate" json:"commission_rate"`
	TotalCommission decimal.Decimal `db:"total_commission" json:"total_commission"`
	IsActive        bool            `db:"is_active" json:"is_active"`
}
