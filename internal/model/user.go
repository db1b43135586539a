package model

import (
	"time"
)

type UserRole string

const (
	RoleUser   UserRole = "user"
	RoleFarmer UserRole = "farmer"
	RoleMentor UserRole = "mentor"
	RoleAdmin  UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name      string   `gorm:"size:100" json:"name"`
	Phone     string   `gorm:"size:20;unique;not null" json:"phone"`
	Email     string   `gorm:"size:100;index" json:"email,omitempty"`
	Password  string   `gorm:"size:100" json:"-"`
	GoogleID  string   `gorm:"size:100;index" json:"-"`
	Role      UserRole `gorm:"size:20;default:'user'" json:"role"`
	Bio       string   `gorm:"type:text" json:"bio,omitempty"`
	Expertise string   `gorm:"size:255" json:"expertise,omitempty"`
	// Topic tags picked during onboarding, used for course recommendations.
	Interests []string `gorm:"serializer:json;type:json" json:"interests,omitempty"`
	// Accumulated mentor income from completed purchases.
	Earnings  float64   `gorm:"default:0" json:"earnings"`
	Avatar    string    `gorm:"size:255" json:"avatar,omitempty"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
