package models

import "gorm.io/gorm"

type UserRole string

const (
	RoleAdmin             UserRole = "admin"
	RoleBusinessDeveloper UserRole = "business_developer"
)

// Valid reports whether the role is one of the closed set. A user's role is
// fixed at creation time and never changes afterwards.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleBusinessDeveloper
}

type User struct {
	gorm.Model

	Username     string   `gorm:"uniqueIndex;not null"`
	Email        string   `gorm:"uniqueIndex;not null"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"not null;index"`
	IsActive     bool     `gorm:"not null;default:true"`

	// Relationships
	Proposals []Proposal `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Reviews   []Review   `gorm:"foreignKey:ReviewerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
