package model

import (
	"time"
)

type UserRole string

const (
	Admin      UserRole = "admin"
	GroupAdmin UserRole = "group_admin"
	Player     UserRole = "user"
)

// swagger:model User
type User struct {
	BaseModel
	Name           string     `gorm:"size:100;not null" json:"name"`
	Email          string     `gorm:"size:100;unique;not null" json:"email"`
	Password       string     `gorm:"size:100;not null" json:"-"`
	Role           UserRole   `gorm:"type:enum('admin','group_admin','user');default:'user'" json:"role"`
	OrganizationID *uint      `gorm:"index" json:"organizationId,omitempty"`
	Disabled       bool       `gorm:"default:false" json:"disabled"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
	LastSeen       *time.Time `json:"lastSeen,omitempty"`

	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// OrganizationName returns the preloaded organization name, or "" when the
// user has no organization or it was not preloaded.
func (u *User) OrganizationName() string {
	if u.Organization == nil {
		return ""
	}
	return u.Organization.Name
}
