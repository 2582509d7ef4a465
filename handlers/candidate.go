// candidate.go - Handles candidate management and voting

package handlers // Declares the package name

import ( // Import required packages
	"context"                      // Detached context for event publishing
	"go-voting-backend/events"     // Vote notifications
	"go-voting-backend/middleware" // Authenticated user ID
	"go-voting-backend/models"     // Candidate model
	"go-voting-backend/store"      // Candidate persistence and voting
	"net/http"                     // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

type CandidateInput struct { // Struct for candidate creation input
	Name  string `json:"name" binding:"required"`  // Candidate name (required)
	Party string `json:"party" binding:"required"` // Party (required)
}

// CandidateUpdateInput is a partial update; absent fields stay unchanged.
type CandidateUpdateInput struct {
	Name  *string `json:"name"`
	Party *string `json:"party"`
}

// CreateCandidate - POST /candidate (admin)
func (h *Handler) CreateCandidate(c *gin.Context) {
	var input CandidateInput
	if !h.bindJSON(c, &input) {
		return
	}

	candidate := models.Candidate{Name: input.Name, Party: input.Party}              // Create candidate struct
	if err := h.store.CreateCandidate(c.Request.Context(), &candidate); err != nil { // Save candidate to DB
		h.respondError(c, err)
		return
	}
	candidate.Votes = []models.Vote{} // Render [] rather than null
	h.logger.InfoContext(c.Request.Context(), "candidate_created", "candidate_id", candidate.ID)
	c.JSON(http.StatusCreated, gin.H{"candidate": candidate})
}

// UpdateCandidate - PUT /candidate/:id (admin)
func (h *Handler) UpdateCandidate(c *gin.Context) {
	var input CandidateUpdateInput
	if !h.bindJSON(c, &input) {
		return
	}

	candidate, err := h.store.UpdateCandidate(c.Request.Context(), c.Param("id"), store.CandidateUpdate{
		Name:  input.Name,
		Party: input.Party,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, candidate)
}

// DeleteCandidate - DELETE /candidate/:id (admin)
func (h *Handler) DeleteCandidate(c *gin.Context) {
	candidate, err := h.store.DeleteCandidate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.logger.InfoContext(c.Request.Context(), "candidate_deleted", "candidate_id", candidate.ID)
	c.JSON(http.StatusOK, candidate)
}

// ListCandidates - GET /candidate
func (h *Handler) ListCandidates(c *gin.Context) {
	candidates, err := h.store.ListCandidates(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if candidates == nil {
		candidates = []store.CandidateSummary{}
	}
	c.JSON(http.StatusOK, candidates)
}

// VoteCount - GET /candidate/vote/count
func (h *Handler) VoteCount(c *gin.Context) {
	counts, err := h.store.VoteCounts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if counts == nil {
		counts = []store.VoteCount{}
	}
	c.JSON(http.StatusOK, counts)
}

// Vote - POST /candidate/vote/:id
func (h *Handler) Vote(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c) // ID set by AuthMiddleware

	// STEP 1: Run the voting transaction
	receipt, err := h.store.CastVote(ctx, userID, c.Param("id"))
	if err != nil { // 400/403/404 rejections or 500
		h.respondError(c, err)
		return
	}
	h.logger.InfoContext(ctx, "vote_recorded", "user_id", userID, "candidate_id", receipt.CandidateID)

	// STEP 2: Notify subscribers. Published after commit, failures are logged only.
	event := events.VoteRecorded{
		CandidateID: receipt.CandidateID,
		Party:       receipt.Party,
		VoteCount:   receipt.VoteCount,
		VotedAt:     receipt.VotedAt,
	}
	if err := h.events.PublishVote(context.WithoutCancel(ctx), event); err != nil {
		h.logger.WarnContext(ctx, "vote_event_publish_failed", "candidate_id", receipt.CandidateID, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vote recorded successfully"}) // Success response
}
