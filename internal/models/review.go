package models

import "gorm.io/gorm"

// Review is an admin's recorded decision against a proposal. Reviews are
// append-only; revision cycles produce one review per pass.
type Review struct {
	gorm.Model

	ProposalID      uint           `gorm:"not null;index"`
	ReviewerID      uint           `gorm:"not null;index"`
	Status          ProposalStatus `gorm:"not null"` // approved, rejected or revision_requested
	Comments        string         `gorm:"not null"`
	Recommendations string
	BDResponse      string

	// Relationships
	Proposal Proposal `gorm:"foreignKey:ProposalID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Reviewer User     `gorm:"foreignKey:ReviewerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
