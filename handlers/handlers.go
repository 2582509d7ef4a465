// handlers.go - Shared handler dependencies and helpers

package handlers // Declares the package name

import ( // Import required packages
	"errors"                     // errors.As / errors.Is on bind and hash errors
	"go-voting-backend/apperr"   // Error taxonomy -> HTTP status
	"go-voting-backend/auth"     // Password hashing and tokens
	"go-voting-backend/database" // Health ping
	"go-voting-backend/events"   // Vote notifications
	"go-voting-backend/store"    // Users, candidates, votes
	"log/slog"                   // Structured logging
	"net/http"                   // HTTP status codes
	"reflect"                    // JSON field names of input structs
	"strings"                    // Message joining

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/go-playground/validator/v10" // Binding tag errors
)

// Handler serves the /user and /candidate route groups.
type Handler struct {
	store  *store.Store
	tokens *auth.TokenService
	events events.Publisher
	logger *slog.Logger
}

// New creates a Handler. A nil publisher disables vote events.
func New(s *store.Store, tokens *auth.TokenService, publisher events.Publisher, logger *slog.Logger) *Handler {
	if publisher == nil {
		publisher = events.Nop{} // No broker configured
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: s, tokens: tokens, events: publisher, logger: logger}
}

// Health reports whether the database answers.
func (h *Handler) Health(c *gin.Context) {
	if err := database.Ping(c.Request.Context(), h.store.DB()); err != nil { // Ping the pool
		h.respondError(c, apperr.Internal(err)) // 500 if unreachable
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"}) // Success response
}

// respondError writes {"error": msg} with the status of err's kind.
// Internal causes are logged and replaced by a generic message.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := apperr.Status(err) // Map kind to status code
	if status >= http.StatusInternalServerError {
		_ = c.Error(err) // Attach for the request logger
		h.logger.ErrorContext(c.Request.Context(), "request_failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
	}
	c.JSON(status, gin.H{"error": apperr.Public(err)}) // Client-safe message only
}

// bindJSON parses the body into v and answers 400 on failure.
func (h *Handler) bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil { // Parse and validate JSON input
		h.respondError(c, apperr.Wrap(apperr.KindValidation, bindMessage(v, err), err)) // 400 with field names
		return false
	}
	return true
}

// hashPassword answers 400 for passwords bcrypt cannot take, 500 for anything else.
func (h *Handler) hashPassword(c *gin.Context, plaintext string) (string, bool) {
	hash, err := auth.HashPassword(plaintext) // Hash password
	switch {
	case errors.Is(err, auth.ErrPasswordTooLong):
		h.respondError(c, apperr.Wrap(apperr.KindValidation, "password must be at most 72 bytes", err))
		return "", false
	case err != nil:
		h.respondError(c, apperr.Internal(err))
		return "", false
	}
	return hash, true
}

// bindMessage turns a bind error into a message naming JSON fields.
// Decoder errors carry Go type names and are never echoed.
func bindMessage(v any, err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, jsonFieldName(v, fe.StructField())+" "+ruleMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

// jsonFieldName returns the json tag name of field on v's struct type.
func jsonFieldName(v any, field string) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && t.Kind() == reflect.Struct {
		if f, ok := t.FieldByName(field); ok {
			if name, _, _ := strings.Cut(f.Tag.Get("json"), ","); name != "" && name != "-" {
				return name
			}
		}
	}
	return field
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "numeric":
		return "must be numeric"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "is invalid"
	}
}
