package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Candidate is someone users can vote for. VoteCount always equals len(Votes).
type Candidate struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Party     string    `gorm:"not null" json:"party"`
	Votes     []Vote    `gorm:"foreignKey:CandidateID" json:"votes"`
	VoteCount int64     `gorm:"not null;default:0;index" json:"voteCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Candidate) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Vote links a candidate to the user who voted for it.
// UserID is unique: a user has at most one vote record.
type Vote struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	CandidateID string    `gorm:"type:varchar(36);not null;index" json:"-"`
	UserID      string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"user"`
	VotedAt     time.Time `gorm:"not null" json:"votedAt"`
}

// All lists every model for migrations.
func All() []any {
	return []any{&User{}, &Candidate{}, &Vote{}}
}
