package store

import (
	"context"
	"strings"

	"go-voting-backend/apperr"
	"go-voting-backend/models"

	"gorm.io/gorm"
)

// CandidateUpdate holds the fields of a partial candidate update.
// Nil fields are left untouched.
type CandidateUpdate struct {
	Name  *string
	Party *string
}

// VoteCount is one row of the tally.
type VoteCount struct {
	Party string `json:"party"`
	Count int64  `json:"count"`
}

// CandidateSummary is the public listing of a candidate.
type CandidateSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Party string `json:"party"`
}

// CreateCandidate inserts a candidate with an empty vote record.
func (s *Store) CreateCandidate(ctx context.Context, candidate *models.Candidate) error {
	candidate.ID = ""
	candidate.Votes = nil
	candidate.VoteCount = 0
	return s.db.WithContext(ctx).Omit("Votes").Create(candidate).Error
}

// CandidateByID loads a candidate with its vote records in voting order.
func (s *Store) CandidateByID(ctx context.Context, id string) (*models.Candidate, error) {
	id, err := parseCandidateID(id)
	if err != nil {
		return nil, err
	}
	return candidateByID(s.db.WithContext(ctx), id)
}

func candidateByID(tx *gorm.DB, id string) (*models.Candidate, error) {
	var candidate models.Candidate
	err := tx.Preload("Votes", func(db *gorm.DB) *gorm.DB {
		return db.Order("voted_at ASC, id ASC")
	}).Where("id = ?", id).First(&candidate).Error
	if err != nil {
		return nil, notFound(err, ErrCandidateNotFound)
	}
	return &candidate, nil
}

// UpdateCandidate applies a partial update and returns the stored candidate.
func (s *Store) UpdateCandidate(ctx context.Context, id string, update CandidateUpdate) (*models.Candidate, error) {
	id, err := parseCandidateID(id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, apperr.Validation("name must not be empty")
		}
		fields["name"] = *update.Name
	}
	if update.Party != nil {
		if strings.TrimSpace(*update.Party) == "" {
			return nil, apperr.Validation("party must not be empty")
		}
		fields["party"] = *update.Party
	}

	var updated *models.Candidate
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := candidateByID(tx, id); err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Model(&models.Candidate{}).Where("id = ?", id).Updates(fields).Error; err != nil {
				return err
			}
		}
		updated, err = candidateByID(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCandidate removes a candidate together with its vote records and
// returns what was deleted.
func (s *Store) DeleteCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	id, err := parseCandidateID(id)
	if err != nil {
		return nil, err
	}

	var deleted *models.Candidate
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err = candidateByID(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("candidate_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Candidate{}).Error
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// ListCandidates returns id, name and party of every candidate.
func (s *Store) ListCandidates(ctx context.Context) ([]CandidateSummary, error) {
	var out []CandidateSummary
	err := s.db.WithContext(ctx).Model(&models.Candidate{}).
		Select("id, name, party").
		Order("created_at ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// VoteCounts returns the tally per candidate party, highest count first.
func (s *Store) VoteCounts(ctx context.Context) ([]VoteCount, error) {
	var out []VoteCount
	err := s.db.WithContext(ctx).Model(&models.Candidate{}).
		Select("party, vote_count AS count").
		Order("vote_count DESC, party ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
