package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-voting-backend/database"
	"go-voting-backend/models"

	"gorm.io/gorm"
)

// VoteReceipt describes a committed vote.
type VoteReceipt struct {
	CandidateID string    `json:"candidateId"`
	Party       string    `json:"party"`
	VoteCount   int64     `json:"voteCount"`
	VotedAt     time.Time `json:"votedAt"`
}

// CastVote records userID's vote for candidateID.
//
// Preconditions are checked in order and the first failure wins: candidate
// ID format, candidate exists, user exists, user is not an admin, user has
// not voted. The user's flag, the vote record and the candidate's count are
// written in one transaction. The flag is flipped with a conditional update,
// so two concurrent votes by the same user cannot both commit.
func (s *Store) CastVote(ctx context.Context, userID, candidateID string) (*VoteReceipt, error) {
	candidateID, err := parseCandidateID(candidateID)
	if err != nil {
		return nil, err
	}

	var receipt *VoteReceipt
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidate models.Candidate
		if err := tx.Where("id = ?", candidateID).First(&candidate).Error; err != nil {
			return notFound(err, ErrCandidateNotFound)
		}

		var user models.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			return notFound(err, ErrUserNotFound)
		}
		if user.IsAdmin() {
			return ErrAdminCannotVote
		}
		if user.HasVoted {
			return ErrAlreadyVoted
		}

		marked := tx.Model(&models.User{}).
			Where("id = ? AND has_voted = ?", userID, false).
			Update("has_voted", true)
		if marked.Error != nil {
			return fmt.Errorf("mark user voted: %w", marked.Error)
		}
		if marked.RowsAffected == 0 {
			return ErrAlreadyVoted
		}

		vote := models.Vote{
			CandidateID: candidateID,
			UserID:      userID,
			VotedAt:     time.Now().UTC(),
		}
		if err := tx.Create(&vote).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return ErrAlreadyVoted
			}
			return fmt.Errorf("insert vote: %w", err)
		}

		counted := tx.Model(&models.Candidate{}).
			Where("id = ?", candidateID).
			Update("vote_count", gorm.Expr("vote_count + ?", 1))
		if counted.Error != nil {
			return fmt.Errorf("increment vote count: %w", counted.Error)
		}
		if counted.RowsAffected == 0 {
			return ErrCandidateNotFound
		}

		var count int64
		if err := tx.Model(&models.Candidate{}).Where("id = ?", candidateID).Select("vote_count").Scan(&count).Error; err != nil {
			return fmt.Errorf("read vote count: %w", err)
		}

		receipt = &VoteReceipt{
			CandidateID: candidateID,
			Party:       candidate.Party,
			VoteCount:   count,
			VotedAt:     vote.VotedAt,
		}
		return nil
	})
	if err != nil {
		if !isVoteRejection(err) {
			s.logger.ErrorContext(ctx, "vote_transaction_failed",
				"user_id", userID,
				"candidate_id", candidateID,
				"error", err,
			)
		}
		return nil, err
	}
	return receipt, nil
}

func isVoteRejection(err error) bool {
	for _, sentinel := range []error{ErrCandidateNotFound, ErrUserNotFound, ErrAdminCannotVote, ErrAlreadyVoted} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
