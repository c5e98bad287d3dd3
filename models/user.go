package models

import (
	"fmt"
	"strings"
	"time"
)

const UserTable = "tc_users"

// Role is a closed enumeration; free-text comparisons are not allowed
// anywhere. Parse at the boundary, compare constants after that.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleStaff:
		return RoleStaff, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Role      Role      `gorm:"size:20;not null;default:'staff'" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return UserTable }
