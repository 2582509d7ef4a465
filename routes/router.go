// router.go - HTTP route table

package routes

import (
	"log/slog"

	"go-voting-backend/handlers"
	"go-voting-backend/middleware"

	"github.com/gin-gonic/gin"
)

// Deps holds everything the routes need.
type Deps struct {
	Handler *handlers.Handler
	Tokens  middleware.TokenVerifier
	Roles   middleware.AdminChecker
	Logger  *slog.Logger
}

// New builds the Gin engine with the /user and /candidate groups.
func New(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(deps.Logger))

	h := deps.Handler
	requireAuth := middleware.AuthMiddleware(deps.Tokens)
	requireAdmin := middleware.AdminMiddleware(deps.Roles)

	r.GET("/health", h.Health)

	// Public: signup and login. Protected: profile and password change
	user := r.Group("/user")
	{
		user.POST("/signup", h.Signup)
		user.POST("/login", h.Login)
		user.GET("/profile", requireAuth, h.Profile)
		user.PUT("/profile/password", requireAuth, h.ChangePassword)
	}

	candidate := r.Group("/candidate")
	{
		candidate.GET("", h.ListCandidates)
		candidate.GET("/vote/count", h.VoteCount)
		candidate.POST("/vote/:id", requireAuth, h.Vote)

		// Admin only
		candidate.POST("", requireAuth, requireAdmin, h.CreateCandidate)
		candidate.PUT("/:id", requireAuth, requireAdmin, h.UpdateCandidate)
		candidate.DELETE("/:id", requireAuth, requireAdmin, h.DeleteCandidate)
	}

	return r
}
