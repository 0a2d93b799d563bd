// Package store is the GORM-backed implementation of workflow.Store.
package store

import (
	"context"
	"errors"

	"github.com/proposalhub-dev/proposalhub/internal/models"
	"github.com/proposalhub-dev/proposalhub/internal/workflow"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateProposal(ctx context.Context, proposal *models.Proposal) error {
	return s.db.WithContext(ctx).Create(proposal).Error
}

func (s *Store) GetProposal(ctx context.Context, id uint) (*models.Proposal, error) {
	var proposal models.Proposal

	if err := s.db.WithContext(ctx).First(&proposal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.ErrNotFound
		}
		return nil, err
	}

	return &proposal, nil
}

// SaveProposal persists field edits. Status is deliberately excluded so a
// concurrent transition is never silently overwritten by a field save.
func (s *Store) SaveProposal(ctx context.Context, proposal *models.Proposal) error {
	return s.db.WithContext(ctx).
		Model(&models.Proposal{}).
		Where("id = ?", proposal.ID).
		Updates(map[string]interface{}{
			"title":               proposal.Title,
			"project_description": proposal.ProjectDescription,
			"content":             proposal.Content,
			"current_version":     proposal.CurrentVersion,
		}).Error
}

func (s *Store) ListProposals(ctx context.Context, filter workflow.ProposalFilter) ([]models.Proposal, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Proposal{})

	if filter.OwnerID != 0 {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}

	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	var proposals []models.Proposal
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&proposals).Error

	if err != nil {
		return nil, 0, err
	}

	return proposals, total, nil
}

func (s *Store) TransitionProposal(ctx context.Context, id uint, from, to models.ProposalStatus) error {
	result := s.db.WithContext(ctx).
		Model(&models.Proposal{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return s.transitionFailure(ctx, id)
	}

	return nil
}

func (s *Store) CreateReviewWithTransition(ctx context.Context, review *models.Review, from models.ProposalStatus) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		result := tx.Model(&models.Proposal{}).
			Where("id = ? AND status = ?", review.ProposalID, from).
			Update("status", review.Status)

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return s.transitionFailure(ctx, review.ProposalID)
		}

		return nil
	})
}

func (s *Store) ListReviews(ctx context.Context, proposalID uint) ([]models.Review, error) {
	var reviews []models.Review

	err := s.db.WithContext(ctx).
		Where("proposal_id = ?", proposalID).
		Order("created_at ASC").
		Find(&reviews).Error

	if err != nil {
		return nil, err
	}

	return reviews, nil
}

func (s *Store) LatestReview(ctx context.Context, proposalID uint) (*models.Review, error) {
	var review models.Review

	err := s.db.WithContext(ctx).
		Where("proposal_id = ?", proposalID).
		Order("created_at DESC").
		First(&review).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &review, nil
}

func (s *Store) SaveReview(ctx context.Context, review *models.Review) error {
	return s.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", review.ID).
		Update("bd_response", review.BDResponse).Error
}

// transitionFailure distinguishes a missing row from a lost CAS race.
func (s *Store) transitionFailure(ctx context.Context, id uint) error {
	var count int64

	if err := s.db.WithContext(ctx).Model(&models.Proposal{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return workflow.ErrNotFound
	}

	return workflow.ErrConflict
}
