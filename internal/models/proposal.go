package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProposalStatus string

const (
	StatusDraft             ProposalStatus = "draft"
	StatusSubmitted         ProposalStatus = "submitted"
	StatusUnderReview       ProposalStatus = "under_review"
	StatusApproved          ProposalStatus = "approved"
	StatusRejected          ProposalStatus = "rejected"
	StatusRevisionRequested ProposalStatus = "revision_requested"
)

func (s ProposalStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected, StatusRevisionRequested:
		return true
	}
	return false
}

type Proposal struct {
	gorm.Model

	OwnerID            uint           `gorm:"not null;index"`
	Title              string         `gorm:"not null"`
	ProjectDescription string         `gorm:"not null"`
	Content            datatypes.JSON `gorm:"type:jsonb"` // generated template sections
	Status             ProposalStatus `gorm:"not null;index;default:draft"`
	CurrentVersion     int            `gorm:"not null;default:1"`

	// Relationships
	Owner   User     `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Reviews []Review `gorm:"foreignKey:ProposalID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
