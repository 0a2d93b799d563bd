package workflow

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/proposalhub-dev/proposalhub/internal/models"
)

// memStore is an in-memory Store used by the service tests. It honors the
// same compare-and-set contract as the GORM implementation.
type memStore struct {
	mu           sync.Mutex
	proposals    map[uint]*models.Proposal
	reviews      map[uint]*models.Review
	nextProposal uint
	nextReview   uint
	clock        time.Time
}

func newMemStore() *memStore {
	return &memStore{
		proposals:    make(map[uint]*models.Proposal),
		reviews:      make(map[uint]*models.Review),
		nextProposal: 1,
		nextReview:   1,
		clock:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) CreateProposal(_ context.Context, proposal *models.Proposal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	proposal.ID = m.nextProposal
	m.nextProposal++
	proposal.CreatedAt = m.tick()
	proposal.UpdatedAt = proposal.CreatedAt

	clone := *proposal
	m.proposals[proposal.ID] = &clone
	return nil
}

func (m *memStore) GetProposal(_ context.Context, id uint) (*models.Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	proposal, ok := m.proposals[id]
	if !ok {
		return nil, ErrNotFound
	}

	clone := *proposal
	return &clone, nil
}

func (m *memStore) SaveProposal(_ context.Context, proposal *models.Proposal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.proposals[proposal.ID]
	if !ok {
		return ErrNotFound
	}

	stored.Title = proposal.Title
	stored.ProjectDescription = proposal.ProjectDescription
	stored.Content = proposal.Content
	stored.CurrentVersion = proposal.CurrentVersion
	stored.UpdatedAt = m.tick()
	return nil
}

func (m *memStore) ListProposals(_ context.Context, filter ProposalFilter) ([]models.Proposal, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []models.Proposal
	for _, proposal := range m.proposals {
		if filter.OwnerID != 0 && proposal.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && proposal.Status != filter.Status {
			continue
		}
		matched = append(matched, *proposal)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, nil
}

func (m *memStore) TransitionProposal(_ context.Context, id uint, from, to models.ProposalStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	proposal, ok := m.proposals[id]
	if !ok {
		return ErrNotFound
	}

	if proposal.Status != from {
		return ErrConflict
	}

	proposal.Status = to
	proposal.UpdatedAt = m.tick()
	return nil
}

func (m *memStore) CreateReviewWithTransition(_ context.Context, review *models.Review, from models.ProposalStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	proposal, ok := m.proposals[review.ProposalID]
	if !ok {
		return ErrNotFound
	}

	if proposal.Status != from {
		return ErrConflict
	}

	review.ID = m.nextReview
	m.nextReview++
	review.CreatedAt = m.tick()

	clone := *review
	m.reviews[review.ID] = &clone

	proposal.Status = review.Status
	proposal.UpdatedAt = m.tick()
	return nil
}

func (m *memStore) ListReviews(_ context.Context, proposalID uint) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []models.Review
	for _, review := range m.reviews {
		if review.ProposalID == proposalID {
			matched = append(matched, *review)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	return matched, nil
}

func (m *memStore) LatestReview(_ context.Context, proposalID uint) (*models.Review, error) {
	reviews, err := m.ListReviews(context.Background(), proposalID)
	if err != nil {
		return nil, err
	}

	if len(reviews) == 0 {
		return nil, nil
	}

	latest := reviews[len(reviews)-1]
	return &latest, nil
}

func (m *memStore) SaveReview(_ context.Context, review *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.reviews[review.ID]
	if !ok {
		return ErrNotFound
	}

	stored.BDResponse = review.BDResponse
	return nil
}

// staticTemplates is a TemplateGenerator stand-in producing deterministic
// content.
type staticTemplates struct{}

func (staticTemplates) Generate(_ context.Context, projectDescription string) (json.RawMessage, error) {
	data, _ := json.Marshal(map[string]string{"understanding": projectDescription})
	return data, nil
}

func (staticTemplates) Regenerate(_ context.Context, _ json.RawMessage, recommendations, bdResponse string) (json.RawMessage, error) {
	data, _ := json.Marshal(map[string]string{
		"recommendations": recommendations,
		"bd_response":     bdResponse,
	})
	return data, nil
}
