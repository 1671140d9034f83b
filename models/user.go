package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// RoleList is a list of role names stored as a comma-separated string,
// matching the format the server renders them in.
type RoleList []string

func (r RoleList) Value() (driver.Value, error) {
	if len(r) == 0 {
		return "", nil
	}
	return strings.Join(r, ","), nil
}

func (r *RoleList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*r = nil
	case string:
		*r = ParseRoles(v)
	case []byte:
		*r = ParseRoles(string(v))
	default:
		return fmt.Errorf("cannot scan %T into RoleList", value)
	}
	return nil
}

// ParseRoles splits a comma-separated role string, dropping blanks.
func ParseRoles(s string) RoleList {
	var roles RoleList
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			roles = append(roles, part)
		}
	}
	return roles
}

// User is an account on the time-tracking service.
type User struct {
	Entity
	Username    string   `gorm:"not null;size:100;index" json:"username"`
	Email       string   `gorm:"size:100" json:"email"`
	DisplayName string   `gorm:"size:200" json:"display_name"`
	Roles       RoleList `gorm:"size:200" json:"roles,omitempty"`
	// IsIncomplete marks users the server decorates as having
	// uncompleted time entries.
	IsIncomplete bool `gorm:"default:false" json:"is_incomplete"`
}

func (u *User) IsEmpty() bool {
	return u.Username == ""
}

func (u *User) Display() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}
